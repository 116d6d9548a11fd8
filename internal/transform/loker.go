package transform

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/lokersync/lokersync/internal/htmlclean"
	"github.com/lokersync/lokersync/internal/model"
)

// LokerNamed is a {"name": ...} object in the Loker.id payload.
type LokerNamed struct {
	Name string `json:"name"`
}

// LokerLocation is one entry of the listing's locations array. The entry
// itself is a city; its parent is the province.
type LokerLocation struct {
	Name   string      `json:"name"`
	Parent *LokerNamed `json:"parent"`
}

// LokerJob is one listing as served by the Loker.id JSON API.
type LokerJob struct {
	ID               flexID          `json:"id"`
	Title            string          `json:"title"`
	CompanyName      string          `json:"company_name"`
	Category         string          `json:"category"`
	Content          string          `json:"content"`
	JobDescription   string          `json:"job_description"`
	Responsibilities string          `json:"responsibilities"`
	Qualifications   string          `json:"qualifications"`
	Education        string          `json:"education"`
	JobExperience    string          `json:"job_experience"`
	JobSalary        string          `json:"job_salary"`
	JobType          string          `json:"job_type"`
	IsRemote         bool            `json:"is_remote"`
	Gender           string          `json:"gender"`
	Level            *LokerNamed     `json:"level"`
	Tag              *LokerNamed     `json:"tag"`
	Locations        []LokerLocation `json:"locations"`
	Industries       []LokerNamed    `json:"industries"`
}

var lokerEducation = map[string]string{
	"SMA / SMK / STM":  "SMA/SMK",
	"Diploma/D1/D2/D3": "D1-D4",
	"Sarjana / S1":     "S1",
	"Master / S2":      "S2",
	"Doctor / S3":      "S3",
}

// Salary comes as a fixed set of range labels; the dash is U+2013.
var lokerSalary = map[string][2]int{
	"Rp.1 – 2 Juta":   {1000000, 2000000},
	"Rp.2 – 3 Juta":   {2000000, 3000000},
	"Rp.3 – 4 Juta":   {3000000, 4000000},
	"Rp.4 – 5 Juta":   {4000000, 5000000},
	"Rp.5 – 6 Juta":   {5000000, 6000000},
	"Rp.6 – 7 Juta":   {6000000, 7000000},
	"Rp.7 – 8 Juta":   {7000000, 8000000},
	"Rp.8 – 9 Juta":   {8000000, 9000000},
	"Rp.9 – 10 Juta":  {9000000, 10000000},
	"Rp.10 – 15 Juta": {10000000, 15000000},
	"Rp.15 – 20 Juta": {15000000, 20000000},
	"Rp.20 – 25 Juta": {20000000, 25000000},
}

// LokerEducation maps a Loker.id education label to the canonical value.
func LokerEducation(val string) string {
	if norm, ok := lokerEducation[val]; ok {
		return norm
	}
	return model.DefaultEducation
}

// LokerSalaryRange resolves a Loker.id salary label to a rupiah range.
// Negotiable and unrecognized labels yield (0, 0).
func LokerSalaryRange(val string) (min, max int) {
	if r, ok := lokerSalary[val]; ok {
		return r[0], r[1]
	}
	return 0, 0
}

// LokerExperience maps a Loker.id experience label to a canonical bucket.
func LokerExperience(val string) string {
	switch val {
	case "":
		return model.DefaultExperience
	case "1-2 Tahun":
		return "1-3 Tahun"
	case "2-3 Tahun", "3-4 Tahun", "4-5 Tahun":
		return "3-5 Tahun"
	}
	for _, r := range []string{"5-6 Tahun", "6-10 Tahun", "7-10 Tahun", "8-10 Tahun"} {
		if strings.Contains(val, r) {
			return "5-10 Tahun"
		}
	}
	// Unlisted labels like "6-8 Tahun" or "12 Tahun" bucket by their
	// leading number of years.
	if strings.Contains(val, "Tahun") {
		first, _, _ := strings.Cut(val, "-")
		if fields := strings.Fields(first); len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				return ExperienceFromYears(float64(n))
			}
		}
	}
	return model.DefaultExperience
}

// WorkPolicyFromRemote maps the is_remote flag to a work policy label.
func WorkPolicyFromRemote(isRemote bool) string {
	if isRemote {
		return "Remote Working"
	}
	return model.DefaultWorkPolicy
}

// lokerContent assembles the description from the structured API fields,
// falling back to the plain content field, then normalizes the HTML.
func lokerContent(job LokerJob) string {
	var parts []string
	if job.JobDescription != "" {
		parts = append(parts, "<h2>Deskripsi Pekerjaan</h2>", job.JobDescription)
	}
	if job.Responsibilities != "" {
		parts = append(parts, "<h2>Tanggung Jawab</h2>", job.Responsibilities)
	}
	if job.Qualifications != "" {
		parts = append(parts, "<h2>Kualifikasi</h2>", job.Qualifications)
	}
	if len(parts) == 0 && job.Content != "" {
		parts = append(parts, "<p>"+job.Content+"</p>")
	}
	return htmlclean.Clean(strings.Join(parts, "\n"))
}

// TransformLoker converts one Loker.id listing into a canonical record.
func TransformLoker(job LokerJob) model.Record {
	education := LokerEducation(job.Education)
	experience := LokerExperience(job.JobExperience)
	workPolicy := WorkPolicyFromRemote(job.IsRemote)
	salaryMin, salaryMax := LokerSalaryRange(job.JobSalary)

	var level, tagName string
	if job.Level != nil {
		level = job.Level.Name
	}
	if job.Tag != nil {
		tagName = job.Tag.Name
	}

	var province, city string
	if len(job.Locations) > 0 {
		city = job.Locations[0].Name
		if job.Locations[0].Parent != nil {
			province = job.Locations[0].Parent.Name
		}
	}

	var industry string
	if len(job.Industries) > 0 {
		industry = job.Industries[0].Name
	}

	return model.Record{
		InternalID:  uuid.NewString(),
		SourceID:    job.ID.String(),
		JobSource:   model.SourceLoker,
		Link:        "https://www.loker.id/cari-lowongan-kerja?jobid=" + job.ID.String(),
		CompanyName: job.CompanyName,
		JobCategory: job.Category,
		Title:       job.Title,
		Content:     lokerContent(job),
		Province:    province,
		City:        city,
		Experience:  experience,
		JobType:     job.JobType,
		Level:       level,
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMax,
		Education:   education,
		WorkPolicy:  workPolicy,
		Industry:    industry,
		Gender:      job.Gender,
		Tags:        joinTags(job.Category, education, level, tagName, workPolicy),
	}
}
