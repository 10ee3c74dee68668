package forms

import (
	"encoding/json"
	"errors"
	"net/http"

	"internfolio-backend/config"
	"internfolio-backend/controllers/authentication"
	"internfolio-backend/metrics"
	"internfolio-backend/models/apperr"
	"internfolio-backend/models/forms"
)

func writeError(w http.ResponseWriter, status int, message string, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]interface{}{"success": false, "error": message}
	if details != "" {
		resp["details"] = details
	}
	json.NewEncoder(w).Encode(resp)
}

func writeState(w http.ResponseWriter, state *FormState) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":        true,
		"draft":          state.Draft,
		"currentStep":    state.CurrentStep,
		"maxStepReached": state.MaxStepReached,
		"status":         state.Status,
	})
}

// loadState проверяет токен и поднимает черновик пользователя
func loadState(w http.ResponseWriter, r *http.Request) (*FormState, uint, bool) {
	claims, err := authentication.ValidateToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return nil, 0, false
	}

	state, err := LoadFormState(config.DB, claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load form", err.Error())
		return nil, 0, false
	}
	return state, claims.UserID, true
}

func saveAndRespond(w http.ResponseWriter, state *FormState, userID uint) {
	if err := state.Save(config.DB, userID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save form", err.Error())
		return
	}
	metrics.FormSaves.Inc()
	writeState(w, state)
}

// GetForm — текущее состояние черновика
func GetForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	state, _, ok := loadState(w, r)
	if !ok {
		return
	}
	writeState(w, state)
}

// SaveForm — полная замена черновика (PUT /api/form)
func SaveForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	state, userID, ok := loadState(w, r)
	if !ok {
		return
	}

	var draft forms.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := state.ReplaceDraft(draft); err != nil {
		respondEntryError(w, err)
		return
	}
	saveAndRespond(w, state, userID)
}

// UpdateSection — частичное обновление одной секции черновика.
// Поля, отсутствующие в патче, не затираются.
func UpdateSection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	state, userID, ok := loadState(w, r)
	if !ok {
		return
	}

	var req struct {
		Section string          `json:"section"`
		Patch   json.RawMessage `json:"patch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(req.Patch) == 0 {
		writeError(w, http.StatusBadRequest, "Missing patch", "")
		return
	}

	var err error
	switch req.Section {
	case "basicInfo":
		err = state.UpdateBasicInfo(req.Patch)
	case "techStack":
		err = state.UpdateTechStack(req.Patch)
	case "learning":
		err = state.UpdateLearning(req.Patch)
	default:
		writeError(w, http.StatusBadRequest, "Unknown section: "+req.Section, "")
		return
	}
	if err != nil {
		respondEntryError(w, err)
		return
	}

	saveAndRespond(w, state, userID)
}

// StepHandler — навигация по шагам: next, prev, goto
func StepHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	state, userID, ok := loadState(w, r)
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action"`
		Step   int    `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	switch req.Action {
	case "next":
		// Отказ на последнем шаге — не ошибка валидации, шаг 5 всегда валиден
		if state.CurrentStep >= TotalSteps {
			writeError(w, http.StatusBadRequest, "Already at the last step", "")
			return
		}
		if !state.NextStep() {
			errs := ValidateStep(state.CurrentStep, &state.Draft)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success":     false,
				"error":       "Current step is not valid",
				"errors":      errs,
				"currentStep": state.CurrentStep,
			})
			return
		}
	case "prev":
		state.PrevStep()
	case "goto":
		if err := state.GoToStep(req.Step); err != nil {
			writeError(w, http.StatusBadRequest, "Cannot go to step", err.Error())
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "Unknown action: "+req.Action, "")
		return
	}

	saveAndRespond(w, state, userID)
}

// recordSubmit завершает черновик; счетчик отправок двигает только
// первый успешный переход в submitted, идемпотентный повтор — нет
func recordSubmit(state *FormState) (map[string]string, error) {
	already := state.Status == StatusSubmitted
	errs, err := state.Submit()
	if err == nil && !already {
		metrics.FormSubmits.Inc()
	}
	return errs, err
}

// SubmitForm завершает черновик. Повторная отправка — no-op
func SubmitForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	state, userID, ok := loadState(w, r)
	if !ok {
		return
	}

	if errs, err := recordSubmit(state); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "Validation failed",
			"errors":  errs,
		})
		return
	}

	saveAndRespond(w, state, userID)
}

// ResetForm очищает черновик для нового цикла заполнения
func ResetForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	state, userID, ok := loadState(w, r)
	if !ok {
		return
	}

	state.Reset()
	saveAndRespond(w, state, userID)
}

// ProjectHandler: POST — добавить, PUT — обновить, DELETE — удалить (?id=)
func ProjectHandler(w http.ResponseWriter, r *http.Request) {
	state, userID, ok := loadState(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var p forms.Project
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if _, err := state.AddProject(p); err != nil {
			respondEntryError(w, err)
			return
		}

	case http.MethodPut:
		id := r.URL.Query().Get("id")
		var patch json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if err := state.UpdateProject(id, patch); err != nil {
			respondEntryError(w, err)
			return
		}

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if err := state.RemoveProject(id); err != nil {
			respondEntryError(w, err)
			return
		}

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	saveAndRespond(w, state, userID)
}

func respondEntryError(w http.ResponseWriter, err error) {
	if errors.Is(err, apperr.ErrNoSuchEntry) {
		writeError(w, http.StatusNotFound, "Entry not found", err.Error())
		return
	}
	if errors.Is(err, apperr.ErrAlreadyComplete) {
		writeError(w, http.StatusConflict, "Form already submitted", err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
}

// ProjectEntryHandler — вложенные коллекции проекта:
// /api/form/project/{pull|media|challenge|ticket|document}?project=&id=
func ProjectEntryHandler(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, userID, ok := loadState(w, r)
		if !ok {
			return
		}

		projectID := r.URL.Query().Get("project")
		if projectID == "" {
			writeError(w, http.StatusBadRequest, "Missing project ID", "")
			return
		}

		var err error
		switch r.Method {
		case http.MethodPost:
			err = addProjectEntry(state, kind, projectID, r)
		case http.MethodDelete:
			id := r.URL.Query().Get("id")
			err = removeProjectEntry(state, kind, projectID, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err != nil {
			respondEntryError(w, err)
			return
		}

		saveAndRespond(w, state, userID)
	}
}

func addProjectEntry(state *FormState, kind, projectID string, r *http.Request) error {
	switch kind {
	case "pull":
		var pr forms.PullRequest
		if err := json.NewDecoder(r.Body).Decode(&pr); err != nil {
			return err
		}
		_, err := state.AddPullRequest(projectID, pr)
		return err
	case "media":
		var m forms.MediaItem
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			return err
		}
		_, err := state.AddMedia(projectID, m)
		return err
	case "challenge":
		var c forms.Challenge
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			return err
		}
		_, err := state.AddChallenge(projectID, c)
		return err
	case "ticket":
		var t forms.Ticket
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			return err
		}
		_, err := state.AddTicket(projectID, t)
		return err
	case "document":
		var d forms.Document
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			return err
		}
		_, err := state.AddDocument(projectID, d)
		return err
	}
	return apperr.ErrNoSuchEntry
}

func removeProjectEntry(state *FormState, kind, projectID, id string) error {
	switch kind {
	case "pull":
		return state.RemovePullRequest(projectID, id)
	case "media":
		return state.RemoveMedia(projectID, id)
	case "challenge":
		return state.RemoveChallenge(projectID, id)
	case "ticket":
		return state.RemoveTicket(projectID, id)
	case "document":
		return state.RemoveDocument(projectID, id)
	}
	return apperr.ErrNoSuchEntry
}
