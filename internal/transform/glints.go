package transform

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lokersync/lokersync/internal/model"
)

// GlintsLocationNode is one node of the hierarchical location tree:
// district, city, province, or country.
type GlintsLocationNode struct {
	Name                    string               `json:"name"`
	FormattedName           string               `json:"formattedName"`
	Level                   int                  `json:"level"`
	AdministrativeLevelName string               `json:"administrativeLevelName"`
	Parents                 []GlintsLocationNode `json:"parents"`
}

// GlintsSkill pairs a skill name with whether the employer requires it.
type GlintsSkill struct {
	MustHave bool `json:"mustHave"`
	Skill    struct {
		Name string `json:"name"`
	} `json:"skill"`
}

// GlintsSalary is one salary entry; the first is the basic salary.
type GlintsSalary struct {
	MinAmount float64 `json:"minAmount"`
	MaxAmount float64 `json:"maxAmount"`
}

// GlintsJob is one listing from the Glints GraphQL API. Search and detail
// responses share this shape; detail carries more of the fields.
type GlintsJob struct {
	ID                    string `json:"id"`
	Title                 string `json:"title"`
	Status                string `json:"status"`
	Type                  string `json:"type"`
	WorkArrangementOption string `json:"workArrangementOption"`
	EducationLevel        string `json:"educationLevel"`
	MinYearsOfExperience  *int   `json:"minYearsOfExperience"`
	MaxYearsOfExperience  *int   `json:"maxYearsOfExperience"`
	TraceInfo             string `json:"traceInfo"`
	Company               struct {
		Name     string `json:"name"`
		Industry struct {
			Name string `json:"name"`
		} `json:"industry"`
	} `json:"company"`
	Location                *GlintsLocationNode `json:"location"`
	HierarchicalJobCategory struct {
		Name string `json:"name"`
	} `json:"hierarchicalJobCategory"`
	Skills   []GlintsSkill  `json:"skills"`
	Salaries []GlintsSalary `json:"salaries"`
}

var glintsEducation = map[string]string{
	"HIGH_SCHOOL": "SMA/SMK",
	"DIPLOMA":     "D1-D4",
	"BACHELOR":    "S1",
	"MASTER":      "S2",
	"DOCTORATE":   "S3",
	"PHD":         "S3",
}

// GlintsEducationLevel maps a Glints education enum to the canonical value.
func GlintsEducationLevel(level string) string {
	if norm, ok := glintsEducation[strings.ToUpper(level)]; ok {
		return norm
	}
	return model.DefaultEducation
}

// GlintsExperience buckets the min/max years of experience by their
// average. A missing max defaults to min, or to 3 years when both are
// missing.
func GlintsExperience(minYears, maxYears int) string {
	if maxYears == 0 {
		if minYears != 0 {
			maxYears = minYears
		} else {
			maxYears = 3
		}
	}
	return ExperienceFromYears(float64(minYears+maxYears) / 2)
}

var glintsArrangement = map[string]string{
	"ONSITE":         "On-site Working",
	"REMOTE":         "Remote Working",
	"HYBRID":         "Hybrid Working",
	"WORK_FROM_HOME": "Remote Working",
}

// GlintsWorkArrangement maps a Glints work arrangement enum to the
// canonical work policy.
func GlintsWorkArrangement(arrangement string) string {
	if norm, ok := glintsArrangement[strings.ToUpper(arrangement)]; ok {
		return norm
	}
	return model.DefaultWorkPolicy
}

var glintsJobType = map[string]string{
	"FULL_TIME":  "Full Time",
	"PART_TIME":  "Part Time",
	"CONTRACT":   "Contract",
	"INTERNSHIP": "Internship",
	"FREELANCE":  "Freelance",
}

// GlintsJobType maps a Glints employment type enum to a display value.
func GlintsJobType(jobType string) string {
	if norm, ok := glintsJobType[strings.ToUpper(jobType)]; ok {
		return norm
	}
	return "Full Time"
}

// location walks the parents array for the province (level 2) and city
// (level 3). When the listing only names a district, the district stands
// in for the city.
func (j GlintsJob) location() (province, city string) {
	if j.Location == nil {
		return "", ""
	}
	for _, parent := range j.Location.Parents {
		name := parent.Name
		if name == "" {
			name = parent.FormattedName
		}
		switch {
		case parent.Level == 2 || parent.AdministrativeLevelName == "Province":
			province = name
		case parent.Level == 3 || parent.AdministrativeLevelName == "City":
			city = name
		}
	}
	if city == "" && (j.Location.Level == 4 || j.Location.AdministrativeLevelName == "District") {
		city = j.Location.Name
		if city == "" {
			city = j.Location.FormattedName
		}
	}
	return province, city
}

func (j GlintsJob) salary() (min, max int) {
	if len(j.Salaries) == 0 {
		return 0, 0
	}
	return int(j.Salaries[0].MinAmount), int(j.Salaries[0].MaxAmount)
}

func (j GlintsJob) level() string {
	title := strings.ToLower(j.Title)
	maxExp := intOrZero(j.MaxYearsOfExperience)
	switch {
	case containsAny(title, "director", "head", "chief", "vp", "vice president"):
		return "Management"
	case containsAny(title, "senior", "sr", "lead"):
		return "Senior Level"
	case containsAny(title, "junior", "jr", "entry", "trainee", "intern"):
		return "Entry Level"
	case maxExp <= 2:
		return "Entry Level"
	case maxExp <= 5:
		return model.DefaultLevel
	default:
		return "Senior Level"
	}
}

// description synthesizes an HTML description from the structured fields,
// since the Glints API carries no prose description.
func (j GlintsJob) description() string {
	parts := []string{"<h2>Job Information</h2>"}

	if industry := j.Company.Industry.Name; industry != "" {
		parts = append(parts, "<p><strong>Industry:</strong> "+industry+"</p>")
	}

	minExp := intOrZero(j.MinYearsOfExperience)
	maxExp := intOrZero(j.MaxYearsOfExperience)
	if minExp > 0 || maxExp > 0 {
		parts = append(parts, fmt.Sprintf("<p><strong>Experience Required:</strong> %d-%d years</p>", minExp, maxExp))
	}

	if j.EducationLevel != "" {
		parts = append(parts, "<p><strong>Education Level:</strong> "+j.EducationLevel+"</p>")
	}

	if len(j.Skills) > 0 {
		parts = append(parts, "<h2>Required Skills</h2>", "<ul>")
		skills := j.Skills
		if len(skills) > 15 {
			skills = skills[:15]
		}
		for _, s := range skills {
			if s.Skill.Name == "" {
				continue
			}
			suffix := ""
			if s.MustHave {
				suffix = " (Required)"
			}
			parts = append(parts, "<li>"+s.Skill.Name+suffix+"</li>")
		}
		parts = append(parts, "</ul>")
	}

	if cat := j.HierarchicalJobCategory.Name; cat != "" {
		parts = append(parts, "<p><strong>Job Category:</strong> "+cat+"</p>")
	}

	return strings.Join(parts, "\n")
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// TransformGlints converts one Glints listing into a canonical record.
// ok is false when the listing is not open for applications.
func TransformGlints(job GlintsJob) (rec model.Record, ok bool) {
	if job.Status != "OPEN" {
		return model.Record{}, false
	}

	category := job.HierarchicalJobCategory.Name
	province, city := job.location()
	workPolicy := GlintsWorkArrangement(job.WorkArrangementOption)
	jobType := GlintsJobType(job.Type)
	experience := GlintsExperience(intOrZero(job.MinYearsOfExperience), intOrZero(job.MaxYearsOfExperience))
	education := GlintsEducationLevel(job.EducationLevel)
	salaryMin, salaryMax := job.salary()
	level := job.level()
	industry := job.Company.Industry.Name

	tagEducation := education
	if tagEducation == model.DefaultEducation {
		tagEducation = ""
	}

	return model.Record{
		InternalID:  uuid.NewString(),
		SourceID:    job.ID,
		JobSource:   model.SourceGlints,
		Link:        "https://glints.com/id/opportunities/jobs/" + job.ID,
		CompanyName: job.Company.Name,
		JobCategory: category,
		Title:       job.Title,
		Content:     job.description(),
		Province:    province,
		City:        city,
		Experience:  experience,
		JobType:     jobType,
		Level:       level,
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMax,
		Education:   education,
		WorkPolicy:  workPolicy,
		Industry:    industry,
		Gender:      model.DefaultGender,
		Tags:        joinTags(category, tagEducation, level, jobType, workPolicy, industry),
	}, true
}
