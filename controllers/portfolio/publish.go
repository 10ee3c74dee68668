package portfolio

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"internfolio-backend/config"
	"internfolio-backend/controllers/authentication"
	"internfolio-backend/models/portfolio"
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

// findOrCreate возвращает запись portfolios пользователя, создавая ее
// с новым публичным идентификатором при первом обращении
func findOrCreate(userID uint) (*portfolio.Portfolio, error) {
	var p portfolio.Portfolio
	err := config.DB.Where("user_id = ?", userID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p = portfolio.Portfolio{
		UserID:   userID,
		PublicID: uuid.NewString(),
	}
	if err := config.DB.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	p, err := findOrCreate(claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load portfolio", err.Error())
		return
	}

	p.IsPublished = published
	if err := config.DB.Save(p).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update portfolio", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":     true,
		"publicId":    p.PublicID,
		"isPublished": p.IsPublished,
	})
}

// Publish — POST /api/portfolio/publish
func Publish(w http.ResponseWriter, r *http.Request) {
	setPublished(w, r, true)
}

// Unpublish — POST /api/portfolio/unpublish
func Unpublish(w http.ResponseWriter, r *http.Request) {
	setPublished(w, r, false)
}

// MyPortfolio — GET /api/portfolio/me: публичный идентификатор и флаг
func MyPortfolio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	p, err := findOrCreate(claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load portfolio", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":     true,
		"publicId":    p.PublicID,
		"isPublished": p.IsPublished,
	})
}
