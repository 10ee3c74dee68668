package forms

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"internfolio-backend/models/apperr"
	"internfolio-backend/models/forms"
)

// Статус сеанса заполнения формы
type Status string

const (
	StatusEditing    Status = "editing"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
)

// FormState — единственный источник правды о черновике: сам черновик,
// текущий шаг и статус отправки. Контейнер создается явно на запрос,
// никакого глобального состояния. Сохранение — отдельный явный вызов Save.
type FormState struct {
	Draft          forms.Draft `json:"draft"`
	CurrentStep    int         `json:"currentStep"`
	MaxStepReached int         `json:"maxStepReached"`
	Status         Status      `json:"status"`
}

func NewFormState() *FormState {
	return &FormState{
		Draft:          emptyDraft(),
		CurrentStep:    StepBasicInfo,
		MaxStepReached: StepBasicInfo,
		Status:         StatusEditing,
	}
}

func emptyDraft() forms.Draft {
	return forms.Draft{Projects: []forms.Project{}}
}

// LoadFormState читает черновик пользователя из таблицы forms.
// Если записи нет — пустой черновик на первом шаге.
func LoadFormState(db *gorm.DB, userID uint) (*FormState, error) {
	var record forms.Form
	if err := db.Where("user_id = ?", userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewFormState(), nil
		}
		return nil, err
	}

	state := NewFormState()
	if len(record.FormData) > 0 {
		if err := json.Unmarshal(record.FormData, &state.Draft); err != nil {
			return nil, fmt.Errorf("corrupted form_data for user %d: %w", userID, err)
		}
	}
	state.CurrentStep = record.CurrentStep
	state.MaxStepReached = record.MaxStepReached
	if state.CurrentStep < StepBasicInfo || state.CurrentStep > TotalSteps {
		state.CurrentStep = StepBasicInfo
	}
	if state.MaxStepReached < state.CurrentStep {
		state.MaxStepReached = state.CurrentStep
	}
	if record.IsCompleted {
		state.Status = StatusSubmitted
	}
	return state, nil
}

// Save записывает состояние в таблицу forms (upsert по user_id)
func (s *FormState) Save(db *gorm.DB, userID uint) error {
	data, err := json.Marshal(s.Draft)
	if err != nil {
		return err
	}

	var record forms.Form
	if err := db.Where("user_id = ?", userID).First(&record).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record = forms.Form{UserID: userID}
	}

	record.FormData = data
	record.CurrentStep = s.CurrentStep
	record.MaxStepReached = s.MaxStepReached
	record.IsCompleted = s.Status == StatusSubmitted
	return db.Save(&record).Error
}

// editable — отправленная форма заморожена до явного Reset
func (s *FormState) editable() error {
	if s.Status == StatusSubmitted {
		return apperr.ErrAlreadyComplete
	}
	return nil
}

// ReplaceDraft целиком заменяет черновик
func (s *FormState) ReplaceDraft(d forms.Draft) error {
	if err := s.editable(); err != nil {
		return err
	}
	s.Draft = d
	return nil
}

// --- Мутации секций ---
// Патч — частичный JSON-объект; поля, которых нет в патче, не трогаем.
// Валидации здесь нет, она выполняется отдельно при переходе между шагами.

func (s *FormState) UpdateBasicInfo(patch json.RawMessage) error {
	if err := s.editable(); err != nil {
		return err
	}
	return json.Unmarshal(patch, &s.Draft.BasicInfo)
}

func (s *FormState) UpdateTechStack(patch json.RawMessage) error {
	if err := s.editable(); err != nil {
		return err
	}
	return json.Unmarshal(patch, &s.Draft.TechStack)
}

func (s *FormState) UpdateLearning(patch json.RawMessage) error {
	if err := s.editable(); err != nil {
		return err
	}
	return json.Unmarshal(patch, &s.Draft.Learning)
}

// --- Проекты и вложенные записи ---
// Адресация всегда по стабильным ID, не по позициям в массиве

func (s *FormState) AddProject(p forms.Project) (string, error) {
	if err := s.editable(); err != nil {
		return "", err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	s.Draft.Projects = append(s.Draft.Projects, p)
	return p.ID, nil
}

// findProject вызывается только из мутаторов, поэтому заодно
// проверяет, что форма еще редактируется
func (s *FormState) findProject(projectID string) (*forms.Project, error) {
	if err := s.editable(); err != nil {
		return nil, err
	}
	for i := range s.Draft.Projects {
		if s.Draft.Projects[i].ID == projectID {
			return &s.Draft.Projects[i], nil
		}
	}
	return nil, apperr.ErrNoSuchEntry
}

func (s *FormState) UpdateProject(projectID string, patch json.RawMessage) error {
	p, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	id := p.ID
	if err := json.Unmarshal(patch, p); err != nil {
		return err
	}
	p.ID = id // патч не может переписать идентификатор
	return nil
}

func (s *FormState) RemoveProject(projectID string) error {
	if err := s.editable(); err != nil {
		return err
	}
	for i := range s.Draft.Projects {
		if s.Draft.Projects[i].ID == projectID {
			s.Draft.Projects = append(s.Draft.Projects[:i], s.Draft.Projects[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNoSuchEntry
}

func (s *FormState) AddPullRequest(projectID string, pr forms.PullRequest) (string, error) {
	p, err := s.findProject(projectID)
	if err != nil {
		return "", err
	}
	if pr.ID == "" {
		pr.ID = uuid.NewString()
	}
	if pr.Status == "" {
		pr.Status = forms.PRStatusOpen
	}
	p.PullRequests = append(p.PullRequests, pr)
	return pr.ID, nil
}

func (s *FormState) RemovePullRequest(projectID, prID string) error {
	p, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	for i := range p.PullRequests {
		if p.PullRequests[i].ID == prID {
			p.PullRequests = append(p.PullRequests[:i], p.PullRequests[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNoSuchEntry
}

func (s *FormState) AddMedia(projectID string, m forms.MediaItem) (string, error) {
	p, err := s.findProject(projectID)
	if err != nil {
		return "", err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	p.Media = append(p.Media, m)
	return m.ID, nil
}

func (s *FormState) RemoveMedia(projectID, mediaID string) error {
	p, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	for i := range p.Media {
		if p.Media[i].ID == mediaID {
			p.Media = append(p.Media[:i], p.Media[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNoSuchEntry
}

func (s *FormState) AddChallenge(projectID string, c forms.Challenge) (string, error) {
	p, err := s.findProject(projectID)
	if err != nil {
		return "", err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	p.Challenges = append(p.Challenges, c)
	return c.ID, nil
}

func (s *FormState) RemoveChallenge(projectID, challengeID string) error {
	p, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	for i := range p.Challenges {
		if p.Challenges[i].ID == challengeID {
			p.Challenges = append(p.Challenges[:i], p.Challenges[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNoSuchEntry
}

func (s *FormState) AddTicket(projectID string, t forms.Ticket) (string, error) {
	p, err := s.findProject(projectID)
	if err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	p.Tickets = append(p.Tickets, t)
	return t.ID, nil
}

func (s *FormState) RemoveTicket(projectID, ticketID string) error {
	p, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	for i := range p.Tickets {
		if p.Tickets[i].ID == ticketID {
			p.Tickets = append(p.Tickets[:i], p.Tickets[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNoSuchEntry
}

func (s *FormState) AddDocument(projectID string, d forms.Document) (string, error) {
	p, err := s.findProject(projectID)
	if err != nil {
		return "", err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	p.Documents = append(p.Documents, d)
	return d.ID, nil
}

func (s *FormState) RemoveDocument(projectID, documentID string) error {
	p, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	for i := range p.Documents {
		if p.Documents[i].ID == documentID {
			p.Documents = append(p.Documents[:i], p.Documents[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNoSuchEntry
}

// --- Навигация по шагам ---

// NextStep переходит на следующий шаг, если текущий проходит валидацию.
// При невалидном шаге состояние не меняется.
func (s *FormState) NextStep() bool {
	if s.CurrentStep >= TotalSteps {
		return false
	}
	if !StepValid(s.CurrentStep, &s.Draft) {
		return false
	}
	s.CurrentStep++
	if s.CurrentStep > s.MaxStepReached {
		s.MaxStepReached = s.CurrentStep
	}
	return true
}

func (s *FormState) PrevStep() {
	if s.CurrentStep > StepBasicInfo {
		s.CurrentStep--
	}
}

// GoToStep разрешает свободный переход только на уже достигнутые шаги
func (s *FormState) GoToStep(step int) error {
	if step < StepBasicInfo || step > TotalSteps {
		return fmt.Errorf("step %d out of range: %w", step, apperr.ErrNoSuchEntry)
	}
	if step > s.MaxStepReached {
		return fmt.Errorf("step %d not reached yet: %w", step, apperr.ErrValidationFailed)
	}
	s.CurrentStep = step
	return nil
}

// Submit помечает черновик завершенным. Требует валидности всех шагов.
// Идемпотентен: повторный вызов на завершенной форме ничего не меняет.
func (s *FormState) Submit() (map[string]string, error) {
	if s.Status == StatusSubmitted {
		return nil, nil
	}

	s.Status = StatusSubmitting
	for step := StepBasicInfo; step <= TotalSteps; step++ {
		if errs := ValidateStep(step, &s.Draft); len(errs) > 0 {
			s.Status = StatusEditing
			return errs, apperr.ErrValidationFailed
		}
	}

	s.Status = StatusSubmitted
	s.CurrentStep = TotalSteps
	s.MaxStepReached = TotalSteps
	return nil, nil
}

// Reset очищает черновик до исходного пустого состояния.
// Единственный путь из submitted обратно в editing.
func (s *FormState) Reset() {
	s.Draft = emptyDraft()
	s.CurrentStep = StepBasicInfo
	s.MaxStepReached = StepBasicInfo
	s.Status = StatusEditing
}
