package forms

import (
	"testing"

	"internfolio-backend/models/forms"
)

func validBasicInfo() forms.BasicInfo {
	return forms.BasicInfo{
		FullName:       "Ivan Petrov",
		InternshipRole: "Backend Intern",
		TeamDepartment: "Platform",
		StartDate:      "2025-06-01",
		EndDate:        "2025-08-29",
		Summary:        "Worked on the internal API.",
	}
}

func validDraft() forms.Draft {
	return forms.Draft{
		BasicInfo: validBasicInfo(),
		TechStack: forms.TechStack{Languages: []string{"Go"}},
		Learning:  forms.Learning{CurrentlyLearning: []string{"Kubernetes"}},
	}
}

func TestValidateBasicInfoRequiredFields(t *testing.T) {
	d := forms.Draft{}

	errs := ValidateStep(StepBasicInfo, &d)
	for _, field := range []string{"fullName", "internshipRole", "teamDepartment", "startDate", "endDate", "summary"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for missing %s", field)
		}
	}

	d.BasicInfo = validBasicInfo()
	errs = ValidateStep(StepBasicInfo, &d)
	if len(errs) != 0 {
		t.Errorf("expected no errors for valid basic info, got %v", errs)
	}
}

func TestValidateBasicInfoWhitespaceOnly(t *testing.T) {
	d := forms.Draft{BasicInfo: validBasicInfo()}
	d.BasicInfo.Summary = "   "

	errs := ValidateStep(StepBasicInfo, &d)
	if _, ok := errs["summary"]; !ok {
		t.Error("whitespace-only summary must not pass validation")
	}
}

func TestValidateEmailOptionalButChecked(t *testing.T) {
	d := forms.Draft{BasicInfo: validBasicInfo()}

	// Пустой email допустим
	if errs := ValidateStep(StepBasicInfo, &d); len(errs) != 0 {
		t.Errorf("empty email must be allowed, got %v", errs)
	}

	d.BasicInfo.Email = "not-an-email"
	if errs := ValidateStep(StepBasicInfo, &d); errs["email"] == "" {
		t.Error("malformed email must be rejected")
	}

	d.BasicInfo.Email = "ivan@example.com"
	if errs := ValidateStep(StepBasicInfo, &d); len(errs) != 0 {
		t.Errorf("valid email must pass, got %v", errs)
	}

	d.BasicInfo.ManagerName = ""
	if errs := ValidateStep(StepBasicInfo, &d); len(errs) != 0 {
		t.Errorf("manager is optional, got %v", errs)
	}
}

func TestValidateTechStackAtLeastOne(t *testing.T) {
	d := forms.Draft{}
	if errs := ValidateStep(StepTechStack, &d); len(errs) == 0 {
		t.Error("empty tech stack must fail validation")
	}

	cases := []forms.TechStack{
		{Languages: []string{"Go"}},
		{Frameworks: []string{"React"}},
		{Tools: []string{"Docker"}},
	}
	for i, ts := range cases {
		d.TechStack = ts
		if errs := ValidateStep(StepTechStack, &d); len(errs) != 0 {
			t.Errorf("case %d: one non-empty collection must be enough, got %v", i, errs)
		}
	}
}

func TestValidateLearningAnyOfFive(t *testing.T) {
	d := forms.Draft{}
	if errs := ValidateStep(StepLearning, &d); len(errs) == 0 {
		t.Error("empty learning step must fail validation")
	}

	cases := []forms.Learning{
		{CurrentlyLearning: []string{"Rust"}},
		{InterestedIn: []string{"ML"}},
		{Technical: []forms.TechnicalEntry{{ID: "1", Title: "Profiling", Learned: "pprof"}}},
		{SoftSkills: []forms.SoftSkillEntry{{ID: "2", Title: "Demos", Learned: "Presenting"}}},
		{Collaboration: []forms.CollaborationEntry{{ID: "3", Title: "Design reviews", Learned: "Alignment", Teams: []string{"SRE"}}}},
	}
	for i, l := range cases {
		d.Learning = l
		if errs := ValidateStep(StepLearning, &d); len(errs) != 0 {
			t.Errorf("case %d: one non-empty learning field must be enough, got %v", i, errs)
		}
	}
}

func TestValidateProjectsOptionalButComplete(t *testing.T) {
	d := forms.Draft{}

	// Пустая секция проектов валидна
	if errs := ValidateStep(StepProjects, &d); len(errs) != 0 {
		t.Errorf("empty projects section must be valid, got %v", errs)
	}

	d.Projects = []forms.Project{{ID: "p1", Title: "API"}}
	errs := ValidateStep(StepProjects, &d)
	if _, ok := errs["project.p1.description"]; !ok {
		t.Error("project without description must fail")
	}
	if _, ok := errs["project.p1.role"]; !ok {
		t.Error("project without role must fail")
	}

	d.Projects = []forms.Project{{
		ID: "p1", Title: "API", Description: "Rate limiter", Role: "Author",
		Media:      []forms.MediaItem{{ID: "m1"}},
		Challenges: []forms.Challenge{{ID: "c1", Obstacle: "Flaky tests"}},
	}}
	errs = ValidateStep(StepProjects, &d)
	if _, ok := errs["media.m1.url"]; !ok {
		t.Error("media without URL must fail")
	}
	if _, ok := errs["media.m1.type"]; !ok {
		t.Error("media without type must fail")
	}
	if _, ok := errs["challenge.c1.approach"]; !ok {
		t.Error("challenge without approach must fail")
	}
	if _, ok := errs["challenge.c1.resolution"]; !ok {
		t.Error("challenge without resolution must fail")
	}
}

// Валидность шага — ровно конъюнкция его правил: исправление всех
// найденных ошибок делает шаг валидным
func TestValidityIsConjunctionOfRules(t *testing.T) {
	d := validDraft()
	d.Projects = []forms.Project{{
		ID: "p1", Title: "Search", Description: "Indexing pipeline", Role: "Developer",
		Media:      []forms.MediaItem{{ID: "m1", Type: forms.MediaImage, URL: "https://example.com/x.png"}},
		Challenges: []forms.Challenge{{ID: "c1", Obstacle: "Scale", Approach: "Sharding", Resolution: "Done"}},
	}}

	for step := StepBasicInfo; step <= StepReview; step++ {
		if errs := ValidateStep(step, &d); len(errs) != 0 {
			t.Errorf("step %d: expected fully valid draft, got %v", step, errs)
		}
		if !StepValid(step, &d) {
			t.Errorf("StepValid(%d) must agree with ValidateStep", step)
		}
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	d := forms.Draft{}
	first := ValidateStep(StepBasicInfo, &d)
	for i := 0; i < 10; i++ {
		again := ValidateStep(StepBasicInfo, &d)
		if len(again) != len(first) {
			t.Fatalf("validation is not deterministic: %v vs %v", first, again)
		}
	}
}
