package portfolio

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"internfolio-backend/config"
	"internfolio-backend/metrics"
	"internfolio-backend/models/apperr"
	"internfolio-backend/models/forms"
	"internfolio-backend/models/portfolio"
	"internfolio-backend/models/users"
)

// Внутренние коды результата публичного запроса. Наружу все три варианта
// отказа выглядят одинаково, код остается в логах и метриках
type LookupCode string

const (
	LookupOK           LookupCode = "ok"
	LookupNotFound     LookupCode = "not_found"
	LookupNotPublished LookupCode = "not_published"
	LookupNoData       LookupCode = "no_data"
)

// WriteLookupRefusal пишет один и тот же публичный ответ для всех трех
// вариантов отказа: наружу не утекает, существует ли портфолио вообще
func WriteLookupRefusal(w http.ResponseWriter, code LookupCode) {
	metrics.PortfolioViews.WithLabelValues(string(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   "Portfolio not found",
	})
}

// lookupError сопоставляет код отказа сентинельной ошибке
func lookupError(code LookupCode) error {
	switch code {
	case LookupNotFound:
		return apperr.ErrNotFound
	case LookupNotPublished:
		return apperr.ErrNotPublished
	case LookupNoData:
		return apperr.ErrNoData
	}
	return nil
}

// ResolvePublic — по публичному идентификатору находит владельца,
// проверяет флаг публикации и достает черновик. Только чтение
func ResolvePublic(db *gorm.DB, publicID string) (*forms.Draft, uint, LookupCode, error) {
	var p portfolio.Portfolio
	if err := db.Where("public_id = ?", publicID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, LookupNotFound, lookupError(LookupNotFound)
		}
		return nil, 0, LookupNotFound, errors.Wrapf(apperr.ErrNotFound, "portfolio lookup failed: %v", err)
	}

	if !p.IsPublished {
		return nil, 0, LookupNotPublished, lookupError(LookupNotPublished)
	}

	var record forms.Form
	if err := db.Where("user_id = ?", p.UserID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, LookupNoData, lookupError(LookupNoData)
		}
		return nil, 0, LookupNoData, errors.Wrapf(apperr.ErrNoData, "form lookup failed: %v", err)
	}
	if len(record.FormData) == 0 {
		return nil, 0, LookupNoData, lookupError(LookupNoData)
	}

	var draft forms.Draft
	if err := json.Unmarshal(record.FormData, &draft); err != nil {
		return nil, 0, LookupNoData, errors.Wrapf(apperr.ErrNoData, "corrupted form_data: %v", err)
	}
	return &draft, p.UserID, LookupOK, nil
}

// PublicPortfolio — GET /api/portfolio/{publicID}, без авторизации
func PublicPortfolio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	publicID := strings.TrimPrefix(r.URL.Path, "/api/portfolio/")
	if publicID == "" || strings.Contains(publicID, "/") {
		WriteLookupRefusal(w, LookupNotFound)
		return
	}

	draft, ownerID, code, err := ResolvePublic(config.DB, publicID)
	if code != LookupOK {
		log.Printf("Портфолио %s недоступно (%s): %v", publicID, code, err)
		WriteLookupRefusal(w, code)
		return
	}

	metrics.PortfolioViews.WithLabelValues(string(LookupOK)).Inc()

	// Имя владельца для шапки страницы
	ownerName := ""
	if owner, err := users.GetUserByID(ownerID); err == nil {
		ownerName = owner.Name
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"ownerName": ownerName,
		"draft":     draft,
	})
}
