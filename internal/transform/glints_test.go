package transform

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/lokersync/lokersync/internal/model"
)

func TestGlintsEducationLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HIGH_SCHOOL", "SMA/SMK"},
		{"DIPLOMA", "D1-D4"},
		{"bachelor", "S1"},
		{"MASTER", "S2"},
		{"DOCTORATE", "S3"},
		{"PHD", "S3"},
		{"", model.DefaultEducation},
		{"VOCATIONAL", model.DefaultEducation},
	}
	for _, tt := range tests {
		if got := GlintsEducationLevel(tt.in); got != tt.want {
			t.Errorf("GlintsEducationLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGlintsExperience(t *testing.T) {
	tests := []struct {
		min, max int
		want     string
	}{
		{0, 0, "1-3 Tahun"}, // both missing, max defaults to 3
		{1, 3, "1-3 Tahun"}, // avg 2
		{2, 5, "3-5 Tahun"}, // avg 3.5
		{5, 0, "3-5 Tahun"}, // max defaults to min, avg 5
		{8, 10, "5-10 Tahun"},
		{10, 15, "Lebih dari 10 Tahun"},
	}
	for _, tt := range tests {
		if got := GlintsExperience(tt.min, tt.max); got != tt.want {
			t.Errorf("GlintsExperience(%d, %d) = %q, want %q", tt.min, tt.max, got, tt.want)
		}
	}
}

func TestGlintsWorkArrangement(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ONSITE", "On-site Working"},
		{"REMOTE", "Remote Working"},
		{"hybrid", "Hybrid Working"},
		{"WORK_FROM_HOME", "Remote Working"},
		{"", model.DefaultWorkPolicy},
	}
	for _, tt := range tests {
		if got := GlintsWorkArrangement(tt.in); got != tt.want {
			t.Errorf("GlintsWorkArrangement(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGlintsJobType(t *testing.T) {
	if got := GlintsJobType("FULL_TIME"); got != "Full Time" {
		t.Errorf("GlintsJobType(FULL_TIME) = %q", got)
	}
	if got := GlintsJobType(""); got != "Full Time" {
		t.Errorf("GlintsJobType(empty) = %q", got)
	}
	if got := GlintsJobType("INTERNSHIP"); got != "Internship" {
		t.Errorf("GlintsJobType(INTERNSHIP) = %q", got)
	}
}

func TestTransformGlints_FiltersClosedListings(t *testing.T) {
	for _, status := range []string{"CLOSED", "EXPIRED", ""} {
		if _, ok := TransformGlints(GlintsJob{ID: "abc", Status: status}); ok {
			t.Errorf("status %q was not filtered out", status)
		}
	}
}

func TestTransformGlints(t *testing.T) {
	raw := `{
		"id": "8c1f2a",
		"title": "Product Designer",
		"status": "OPEN",
		"type": "FULL_TIME",
		"workArrangementOption": "HYBRID",
		"educationLevel": "BACHELOR",
		"minYearsOfExperience": 2,
		"maxYearsOfExperience": 4,
		"company": {"name": "Glintstone", "industry": {"name": "Design Agency"}},
		"hierarchicalJobCategory": {"name": "Design"},
		"location": {
			"name": "Kebayoran Baru",
			"level": 4,
			"administrativeLevelName": "District",
			"parents": [
				{"name": "Indonesia", "level": 1},
				{"name": "DKI Jakarta", "level": 2, "administrativeLevelName": "Province"},
				{"name": "Jakarta Selatan", "level": 3, "administrativeLevelName": "City"}
			]
		},
		"skills": [
			{"mustHave": true, "skill": {"name": "Figma"}},
			{"mustHave": false, "skill": {"name": "Prototyping"}}
		],
		"salaries": [{"minAmount": 9000000, "maxAmount": 13000000}]
	}`
	var job GlintsJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rec, ok := TransformGlints(job)
	if !ok {
		t.Fatal("open listing was filtered out")
	}

	if rec.Link != "https://glints.com/id/opportunities/jobs/8c1f2a" {
		t.Errorf("Link = %q", rec.Link)
	}
	if rec.Province != "DKI Jakarta" || rec.City != "Jakarta Selatan" {
		t.Errorf("location = (%q, %q)", rec.Province, rec.City)
	}
	if rec.Experience != "3-5 Tahun" {
		t.Errorf("Experience = %q", rec.Experience)
	}
	if rec.Education != "S1" {
		t.Errorf("Education = %q", rec.Education)
	}
	if rec.SalaryMin != 9000000 || rec.SalaryMax != 13000000 {
		t.Errorf("salary = (%d, %d)", rec.SalaryMin, rec.SalaryMax)
	}
	if rec.Gender != model.DefaultGender {
		t.Errorf("Gender = %q", rec.Gender)
	}
	if !strings.Contains(rec.Content, "<li>Figma (Required)</li>") {
		t.Errorf("Content missing required skill: %q", rec.Content)
	}
	if !strings.Contains(rec.Content, "<p><strong>Industry:</strong> Design Agency</p>") {
		t.Errorf("Content missing industry: %q", rec.Content)
	}
	wantTags := "Design, S1, Mid Level, Full Time, Hybrid Working, Design Agency"
	if rec.Tags != wantTags {
		t.Errorf("Tags = %q, want %q", rec.Tags, wantTags)
	}
}

func TestTransformGlints_DistrictOnlyLocation(t *testing.T) {
	job := GlintsJob{
		ID:     "x1",
		Status: "OPEN",
		Location: &GlintsLocationNode{
			Name:                    "Coblong",
			Level:                   4,
			AdministrativeLevelName: "District",
		},
	}
	rec, ok := TransformGlints(job)
	if !ok {
		t.Fatal("filtered")
	}
	if rec.City != "Coblong" {
		t.Errorf("City = %q, want district fallback", rec.City)
	}
	if rec.Province != "" {
		t.Errorf("Province = %q, want empty", rec.Province)
	}
}

func TestGlintsJob_Level(t *testing.T) {
	two, six := 2, 6
	tests := []struct {
		name string
		job  GlintsJob
		want string
	}{
		{"title beats experience", GlintsJob{Title: "Head of Sales", MaxYearsOfExperience: &two}, "Management"},
		{"senior keyword", GlintsJob{Title: "Senior Accountant"}, "Senior Level"},
		{"intern keyword", GlintsJob{Title: "Marketing Intern", MaxYearsOfExperience: &six}, "Entry Level"},
		{"no keyword low experience", GlintsJob{Title: "Accountant", MaxYearsOfExperience: &two}, "Entry Level"},
		{"no keyword high experience", GlintsJob{Title: "Accountant", MaxYearsOfExperience: &six}, "Senior Level"},
		{"no signal at all", GlintsJob{Title: "Accountant"}, "Entry Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.job.level(); got != tt.want {
				t.Errorf("level() = %q, want %q", got, tt.want)
			}
		})
	}
}
