package portfolio

import (
	"encoding/json"
	"net/http"
	"strings"

	"internfolio-backend/config"
	"internfolio-backend/controllers/authentication"
	"internfolio-backend/models/portfolio"
	"internfolio-backend/models/users"
)

// CreateFeedback — POST /api/feedback: отзыв о платформе
func CreateFeedback(w http.ResponseWriter, r *http.Request) {
	claims, err := authentication.ValidateToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	var fb portfolio.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(fb.Text) == "" {
		writeError(w, http.StatusBadRequest, "Feedback text is required", "")
		return
	}

	fb.UserID = claims.UserID
	if fb.AuthorName == "" {
		if user, err := users.GetUserByID(claims.UserID); err == nil {
			fb.AuthorName = user.Name
		}
	}

	if err := config.DB.Create(&fb).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save feedback", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "feedback": fb})
}

// ListFeedback — GET /api/feedback: последние отзывы
func ListFeedback(w http.ResponseWriter, r *http.Request) {
	var feedbacks []portfolio.Feedback
	if err := config.DB.Order("created_at desc").Limit(50).Find(&feedbacks).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch feedback", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "feedback": feedbacks})
}

// FeedbackHandler переключает метод: POST — создать, GET — список
func FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		CreateFeedback(w, r)
	case http.MethodGet:
		ListFeedback(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
