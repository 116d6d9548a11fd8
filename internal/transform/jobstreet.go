package transform

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/lokersync/lokersync/internal/htmlclean"
	"github.com/lokersync/lokersync/internal/model"
)

// JobStreetDetail holds the fields scraped from a listing's detail page.
// The search API does not carry them.
type JobStreetDetail struct {
	Content    string
	Education  string
	Experience string
	Gender     string
}

// JobStreetJob is one listing from the JobStreet search API, optionally
// combined with its scraped detail.
type JobStreetJob struct {
	ID          flexID `json:"id"`
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	RoleID      string `json:"roleId"`
	SalaryLabel string `json:"salaryLabel"`
	Employer    struct {
		Name string `json:"name"`
	} `json:"employer"`
	SolMetadata struct {
		JobID flexID `json:"jobId"`
	} `json:"solMetadata"`
	Classifications []struct {
		Classification struct {
			Description string `json:"description"`
		} `json:"classification"`
	} `json:"classifications"`
	Locations []struct {
		Label        string `json:"label"`
		SeoHierarchy []struct {
			ContextualName string `json:"contextualName"`
		} `json:"seoHierarchy"`
	} `json:"locations"`
	WorkTypes        []string `json:"workTypes"`
	WorkArrangements struct {
		Data []struct {
			Label struct {
				Text string `json:"text"`
			} `json:"label"`
		} `json:"data"`
	} `json:"workArrangements"`

	Detail *JobStreetDetail `json:"-"`
}

// SourceID returns the listing identifier, which the search API carries
// either at the top level or inside solMetadata.
func (j JobStreetJob) SourceID() string {
	if j.ID != "" {
		return j.ID.String()
	}
	return j.SolMetadata.JobID.String()
}

func (j JobStreetJob) companyName() string {
	if j.Employer.Name != "" {
		return j.Employer.Name
	}
	return j.CompanyName
}

func (j JobStreetJob) category() string {
	if len(j.Classifications) > 0 {
		return j.Classifications[0].Classification.Description
	}
	return ""
}

// location resolves (province, city) from the first location's SEO
// hierarchy, splitting a "City, Province" label when the hierarchy is
// missing levels.
func (j JobStreetJob) location() (province, city string) {
	if len(j.Locations) == 0 {
		return "", ""
	}
	loc := j.Locations[0]
	if len(loc.SeoHierarchy) > 1 {
		province = loc.SeoHierarchy[1].ContextualName
	}
	if len(loc.SeoHierarchy) > 0 {
		city = loc.SeoHierarchy[0].ContextualName
	} else {
		city = loc.Label
	}
	if province == "" {
		if c, p, ok := strings.Cut(city, ","); ok {
			city = strings.TrimSpace(c)
			province = strings.TrimSpace(p)
		}
	}
	return province, city
}

func (j JobStreetJob) workType() string {
	if len(j.WorkTypes) > 0 {
		return j.WorkTypes[0]
	}
	return "Full time"
}

func (j JobStreetJob) workArrangement() string {
	arrangement := "On-site"
	if len(j.WorkArrangements.Data) > 0 && j.WorkArrangements.Data[0].Label.Text != "" {
		arrangement = j.WorkArrangements.Data[0].Label.Text
	}
	lower := strings.ToLower(arrangement)
	switch {
	case strings.Contains(lower, "remote"):
		return "Remote Working"
	case strings.Contains(lower, "hybrid"):
		return "Hybrid Working"
	default:
		return model.DefaultWorkPolicy
	}
}

var salaryDigits = regexp.MustCompile(`\d[\d,]*`)

// JobStreetSalary parses a salary label like "Rp 4,000,000 – Rp 6,000,000".
// Labels without two figures, including "Negotiable", yield (0, 0).
func JobStreetSalary(label string) (min, max int) {
	switch strings.ToLower(label) {
	case "", "negotiable", "negosiasi":
		return 0, 0
	}
	matches := salaryDigits.FindAllString(label, -1)
	if len(matches) < 2 {
		return 0, 0
	}
	lo, err1 := strconv.Atoi(strings.ReplaceAll(matches[0], ",", ""))
	hi, err2 := strconv.Atoi(strings.ReplaceAll(matches[1], ",", ""))
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return lo, hi
}

func (j JobStreetJob) level() string {
	title := strings.ToLower(j.Title)
	if containsAny(title, "senior", "manager", "lead") {
		return "Senior Level"
	}
	if containsAny(title, "director", "head", "chief") {
		return "Management"
	}
	if containsAny(title, "junior", "entry", "trainee") {
		return "Entry Level"
	}
	return model.DefaultLevel
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// educationKeywords are checked against the page text from highest level
// to lowest so "S1 atau SMA" resolves to the stricter requirement.
var educationKeywords = []struct {
	keyword string
	level   string
}{
	{"S3", "S3"},
	{"DOCTOR", "S3"},
	{"S2", "S2"},
	{"MASTER", "S2"},
	{"S1", "S1"},
	{"SARJANA", "S1"},
	{"D4", "D1-D4"},
	{"D3", "D1-D4"},
	{"D2", "D1-D4"},
	{"D1", "D1-D4"},
	{"DIPLOMA", "D1-D4"},
	{"SMK", "SMA/SMK"},
	{"SMA", "SMA/SMK"},
	{"STM", "SMA/SMK"},
}

// EducationFromText scans free-form listing text for an education
// requirement.
func EducationFromText(text string) string {
	upper := strings.ToUpper(text)
	for _, ek := range educationKeywords {
		if strings.Contains(upper, ek.keyword) {
			return ek.level
		}
	}
	return model.DefaultEducation
}

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*[-–]\s*(\d+)\s*tahun`),
	regexp.MustCompile(`(?i)minimal\s*(\d+)\s*tahun`),
	regexp.MustCompile(`(?i)(\d+)\s*tahun`),
}

// ExperienceFromText scans free-form listing text for a years-of-experience
// requirement. Ranges use the upper bound; fresh-graduate listings and
// listings with no figure fall back to the default bucket.
func ExperienceFromText(text string) string {
	for _, pat := range experiencePatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		years, err := strconv.Atoi(m[len(m)-1])
		if err != nil {
			continue
		}
		return ExperienceFromYears(float64(years))
	}
	return model.DefaultExperience
}

// GenderFromText scans free-form listing text for a gender restriction.
func GenderFromText(text string) string {
	lower := strings.ToLower(text)
	male := strings.Contains(lower, "laki-laki") || strings.Contains(lower, "pria")
	female := strings.Contains(lower, "perempuan") || strings.Contains(lower, "wanita")
	switch {
	case male && female:
		return model.DefaultGender
	case male:
		return "Laki-laki"
	case female:
		return "Perempuan"
	default:
		return model.DefaultGender
	}
}

// TransformJobStreet converts one JobStreet listing, with whatever detail
// was scraped for it, into a canonical record.
func TransformJobStreet(job JobStreetJob) model.Record {
	id := job.SourceID()
	category := job.category()
	province, city := job.location()
	workType := job.workType()
	workPolicy := job.workArrangement()
	salaryMin, salaryMax := JobStreetSalary(job.SalaryLabel)
	level := job.level()

	content := ""
	education := model.DefaultEducation
	experience := model.DefaultExperience
	gender := model.DefaultGender
	if job.Detail != nil {
		if job.Detail.Content != "" {
			content = htmlclean.Clean(job.Detail.Content)
		}
		if job.Detail.Education != "" {
			education = job.Detail.Education
		}
		if job.Detail.Experience != "" {
			experience = job.Detail.Experience
		}
		if job.Detail.Gender != "" {
			gender = job.Detail.Gender
		}
	}

	tagEducation := education
	if tagEducation == model.DefaultEducation {
		tagEducation = ""
	}

	return model.Record{
		InternalID:  uuid.NewString(),
		SourceID:    id,
		JobSource:   model.SourceJobStreet,
		Link:        "https://id.jobstreet.com/id/job/" + id,
		CompanyName: job.companyName(),
		JobCategory: category,
		Title:       job.Title,
		Content:     content,
		Province:    province,
		City:        city,
		Experience:  experience,
		JobType:     workType,
		Level:       level,
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMax,
		Education:   education,
		WorkPolicy:  workPolicy,
		Industry:    category,
		Gender:      gender,
		Tags:        joinTags(category, tagEducation, level, workType, workPolicy),
	}
}
