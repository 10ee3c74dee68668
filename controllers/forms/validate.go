package forms

import (
	"regexp"
	"strings"

	"internfolio-backend/models/forms"
)

// Шаги многошаговой формы
const (
	StepBasicInfo = 1
	StepTechStack = 2
	StepLearning  = 3
	StepProjects  = 4
	StepReview    = 5

	TotalSteps = 5
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateStep — чистая функция: по номеру шага и черновику возвращает
// ошибки в виде поле → сообщение. Шаг валиден, когда ошибок нет.
// Никаких побочных эффектов, результат детерминирован.
func ValidateStep(step int, d *forms.Draft) map[string]string {
	errs := map[string]string{}

	switch step {
	case StepBasicInfo:
		if blank(d.BasicInfo.FullName) {
			errs["fullName"] = "Full name is required"
		}
		if blank(d.BasicInfo.InternshipRole) {
			errs["internshipRole"] = "Internship role is required"
		}
		if blank(d.BasicInfo.TeamDepartment) {
			errs["teamDepartment"] = "Team or department is required"
		}
		if blank(d.BasicInfo.StartDate) {
			errs["startDate"] = "Start date is required"
		}
		if blank(d.BasicInfo.EndDate) {
			errs["endDate"] = "End date is required"
		}
		if blank(d.BasicInfo.Summary) {
			errs["summary"] = "Summary is required"
		}
		// Email опционален, но если указан — проверяем формат
		if !blank(d.BasicInfo.Email) && !emailRegexp.MatchString(d.BasicInfo.Email) {
			errs["email"] = "Invalid email address"
		}

	case StepTechStack:
		if len(d.TechStack.Languages) == 0 && len(d.TechStack.Frameworks) == 0 && len(d.TechStack.Tools) == 0 {
			errs["techStack"] = "Add at least one language, framework or tool"
		}

	case StepLearning:
		l := d.Learning
		if len(l.CurrentlyLearning) == 0 && len(l.InterestedIn) == 0 &&
			len(l.Technical) == 0 && len(l.SoftSkills) == 0 && len(l.Collaboration) == 0 {
			errs["learning"] = "Fill in at least one learning field"
		}

	case StepProjects:
		// Секция опциональна, но каждый добавленный проект должен быть заполнен
		for _, p := range d.Projects {
			if blank(p.Title) {
				errs["project."+p.ID+".title"] = "Project title is required"
			}
			if blank(p.Description) {
				errs["project."+p.ID+".description"] = "Project description is required"
			}
			if blank(p.Role) {
				errs["project."+p.ID+".role"] = "Your role in the project is required"
			}
			for _, m := range p.Media {
				if blank(m.URL) {
					errs["media."+m.ID+".url"] = "Media URL or file is required"
				}
				if m.Type == "" {
					errs["media."+m.ID+".type"] = "Media type is required"
				}
			}
			for _, c := range p.Challenges {
				if blank(c.Obstacle) {
					errs["challenge."+c.ID+".obstacle"] = "Obstacle is required"
				}
				if blank(c.Approach) {
					errs["challenge."+c.ID+".approach"] = "Approach is required"
				}
				if blank(c.Resolution) {
					errs["challenge."+c.ID+".resolution"] = "Resolution is required"
				}
			}
		}

	case StepReview:
		// Шаг обзора сам по себе всегда валиден
	}

	return errs
}

// StepValid — шаг валиден тогда и только тогда, когда ошибок ноль
func StepValid(step int, d *forms.Draft) bool {
	return len(ValidateStep(step, d)) == 0
}
