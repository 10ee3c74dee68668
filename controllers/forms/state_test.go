package forms

import (
	"encoding/json"
	"errors"
	"testing"

	"internfolio-backend/models/apperr"
	"internfolio-backend/models/forms"
)

func TestNextStepRefusedWhileInvalid(t *testing.T) {
	s := NewFormState()

	// Пустой первый шаг: сколько ни зови NextStep, шаг не меняется
	for i := 0; i < 5; i++ {
		if s.NextStep() {
			t.Fatal("NextStep must refuse to advance past an invalid step")
		}
		if s.CurrentStep != StepBasicInfo {
			t.Fatalf("current step changed to %d on refused NextStep", s.CurrentStep)
		}
	}

	s.Draft.BasicInfo = validBasicInfo()
	if !s.NextStep() {
		t.Fatal("NextStep must advance once the step is valid")
	}
	if s.CurrentStep != StepTechStack {
		t.Fatalf("expected step %d, got %d", StepTechStack, s.CurrentStep)
	}
	if s.MaxStepReached != StepTechStack {
		t.Fatalf("expected max step %d, got %d", StepTechStack, s.MaxStepReached)
	}
}

func TestGoToStepOnlyReachedSteps(t *testing.T) {
	s := NewFormState()
	s.Draft = validDraft()

	if err := s.GoToStep(StepLearning); err == nil {
		t.Fatal("GoToStep must refuse steps that were never reached")
	}

	s.NextStep()
	s.NextStep()
	if s.CurrentStep != StepLearning {
		t.Fatalf("expected to be on step %d, got %d", StepLearning, s.CurrentStep)
	}

	if err := s.GoToStep(StepBasicInfo); err != nil {
		t.Fatalf("going back to a completed step must be allowed: %v", err)
	}
	if err := s.GoToStep(StepLearning); err != nil {
		t.Fatalf("going forward to max reached step must be allowed: %v", err)
	}
	if err := s.GoToStep(0); err == nil {
		t.Fatal("step 0 is out of range")
	}
	if err := s.GoToStep(TotalSteps + 1); err == nil {
		t.Fatal("step beyond total is out of range")
	}
}

func TestPrevStepStopsAtFirst(t *testing.T) {
	s := NewFormState()
	s.PrevStep()
	if s.CurrentStep != StepBasicInfo {
		t.Fatalf("PrevStep on first step must stay, got %d", s.CurrentStep)
	}
}

func TestSubmitRequiresAllStepsValid(t *testing.T) {
	s := NewFormState()

	errs, err := s.Submit()
	if err == nil {
		t.Fatal("submitting an empty draft must fail")
	}
	if !errors.Is(err, apperr.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("expected validation errors on empty submit")
	}
	if s.Status != StatusEditing {
		t.Fatalf("failed submit must return to editing, got %s", s.Status)
	}

	s.Draft = validDraft()
	if _, err := s.Submit(); err != nil {
		t.Fatalf("valid draft must submit: %v", err)
	}
	if s.Status != StatusSubmitted {
		t.Fatalf("expected submitted status, got %s", s.Status)
	}
}

func TestSubmitIsIdempotent(t *testing.T) {
	s := NewFormState()
	s.Draft = validDraft()

	if _, err := s.Submit(); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	before, _ := json.Marshal(s)
	if _, err := s.Submit(); err != nil {
		t.Fatalf("repeated submit must be a no-op, got %v", err)
	}
	after, _ := json.Marshal(s)
	if string(before) != string(after) {
		t.Fatal("repeated submit changed state")
	}
}

func TestResetThenSubmitRejected(t *testing.T) {
	s := NewFormState()
	s.Draft = validDraft()
	if _, err := s.Submit(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	s.Reset()
	if s.Status != StatusEditing {
		t.Fatalf("reset must return to editing, got %s", s.Status)
	}
	if s.CurrentStep != StepBasicInfo {
		t.Fatalf("reset must return to step 1, got %d", s.CurrentStep)
	}

	// Пустой черновик сразу после Reset отправить нельзя
	if _, err := s.Submit(); err == nil {
		t.Fatal("submit right after reset must be rejected")
	}
}

func TestProjectOperationsByID(t *testing.T) {
	s := NewFormState()

	id, err := s.AddProject(forms.Project{Title: "Importer"})
	if err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}
	if id == "" {
		t.Fatal("AddProject must assign an ID")
	}

	if err := s.UpdateProject(id, json.RawMessage(`{"description":"CSV importer"}`)); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	if s.Draft.Projects[0].Description != "CSV importer" {
		t.Fatalf("patch not applied: %+v", s.Draft.Projects[0])
	}
	if s.Draft.Projects[0].Title != "Importer" {
		t.Fatal("patch must not clear fields it does not mention")
	}
	if s.Draft.Projects[0].ID != id {
		t.Fatal("patch must not rewrite the project ID")
	}

	prID, err := s.AddPullRequest(id, forms.PullRequest{Title: "Add parser"})
	if err != nil {
		t.Fatalf("AddPullRequest failed: %v", err)
	}
	if s.Draft.Projects[0].PullRequests[0].Status != forms.PRStatusOpen {
		t.Fatal("pull request must default to Open status")
	}
	if err := s.RemovePullRequest(id, prID); err != nil {
		t.Fatalf("RemovePullRequest failed: %v", err)
	}

	if err := s.RemoveProject(id); err != nil {
		t.Fatalf("RemoveProject failed: %v", err)
	}
	if len(s.Draft.Projects) != 0 {
		t.Fatal("project was not removed")
	}
}

func TestUnknownEntryIDLeavesStateUnchanged(t *testing.T) {
	s := NewFormState()
	s.AddProject(forms.Project{Title: "One"})
	before, _ := json.Marshal(s)

	ops := []error{
		s.UpdateProject("missing", json.RawMessage(`{}`)),
		s.RemoveProject("missing"),
		s.RemovePullRequest("missing", "x"),
		func() error { _, err := s.AddMedia("missing", forms.MediaItem{}); return err }(),
		func() error { _, err := s.AddChallenge("missing", forms.Challenge{}); return err }(),
		func() error { _, err := s.AddTicket("missing", forms.Ticket{}); return err }(),
		func() error { _, err := s.AddDocument("missing", forms.Document{}); return err }(),
	}
	for i, err := range ops {
		if !errors.Is(err, apperr.ErrNoSuchEntry) {
			t.Errorf("op %d: expected ErrNoSuchEntry, got %v", i, err)
		}
	}

	after, _ := json.Marshal(s)
	if string(before) != string(after) {
		t.Fatal("failed operations must leave state unchanged")
	}
}

// Последний шаг валиден всегда, но идти дальше некуда: отказ NextStep
// на пятом шаге — не провал валидации
func TestNextStepStopsAtLastStep(t *testing.T) {
	s := NewFormState()
	s.Draft = validDraft()

	for s.CurrentStep < TotalSteps {
		if !s.NextStep() {
			t.Fatalf("step %d must advance on a valid draft", s.CurrentStep)
		}
	}

	if !StepValid(s.CurrentStep, &s.Draft) {
		t.Fatal("review step must be valid")
	}
	if s.NextStep() {
		t.Fatal("NextStep past the last step must refuse")
	}
	if s.CurrentStep != TotalSteps {
		t.Fatalf("refused NextStep must not move, got step %d", s.CurrentStep)
	}
}

// Отправленная форма заморожена: любые мутации черновика отклоняются
// вплоть до явного Reset
func TestSubmittedFormRejectsMutations(t *testing.T) {
	s := NewFormState()
	s.Draft = validDraft()
	if _, err := s.Submit(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	before, _ := json.Marshal(s.Draft)
	ops := []error{
		s.UpdateBasicInfo(json.RawMessage(`{"fullName":"Other"}`)),
		s.UpdateTechStack(json.RawMessage(`{"languages":["Rust"]}`)),
		s.UpdateLearning(json.RawMessage(`{"currentlyLearning":["Zig"]}`)),
		s.ReplaceDraft(forms.Draft{}),
		s.RemoveProject("any"),
		func() error { _, err := s.AddProject(forms.Project{Title: "Late"}); return err }(),
		func() error { _, err := s.AddMedia("any", forms.MediaItem{}); return err }(),
	}
	for i, err := range ops {
		if !errors.Is(err, apperr.ErrAlreadyComplete) {
			t.Errorf("op %d: expected ErrAlreadyComplete, got %v", i, err)
		}
	}

	after, _ := json.Marshal(s.Draft)
	if string(before) != string(after) {
		t.Fatal("submitted draft was modified")
	}

	s.Reset()
	if err := s.UpdateBasicInfo(json.RawMessage(`{"fullName":"New"}`)); err != nil {
		t.Fatalf("mutation after reset must be allowed: %v", err)
	}
}

func TestSectionPatchMergesPartial(t *testing.T) {
	s := NewFormState()
	s.Draft.BasicInfo = validBasicInfo()

	if err := s.UpdateBasicInfo(json.RawMessage(`{"managerName":"O. Kim"}`)); err != nil {
		t.Fatalf("UpdateBasicInfo failed: %v", err)
	}
	if s.Draft.BasicInfo.ManagerName != "O. Kim" {
		t.Fatal("patch field not applied")
	}
	if s.Draft.BasicInfo.FullName != "Ivan Petrov" {
		t.Fatal("patch must not clear unrelated fields")
	}

	if err := s.UpdateTechStack(json.RawMessage(`{"languages":["Go","SQL"]}`)); err != nil {
		t.Fatalf("UpdateTechStack failed: %v", err)
	}
	if len(s.Draft.TechStack.Languages) != 2 {
		t.Fatalf("expected 2 languages, got %v", s.Draft.TechStack.Languages)
	}
}
