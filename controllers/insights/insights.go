package insights

import (
	"encoding/json"
	"net/http"
	"os"

	"internfolio-backend/config"
	"internfolio-backend/controllers/authentication"
	"internfolio-backend/controllers/forms"
	"internfolio-backend/services"
)

// GenerateInsightsHandler — POST /api/insights: короткое AI-резюме отчета
func GenerateInsightsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Проверка токена
	claims, err := authentication.ValidateToken(r)
	if err != nil {
		http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
		return
	}

	state, err := forms.LoadFormState(config.DB, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to load form", http.StatusInternalServerError)
		return
	}

	// Получение API-ключа
	apiKey := os.Getenv("AIML_API_KEY")
	if apiKey == "" {
		http.Error(w, "API key is missing", http.StatusInternalServerError)
		return
	}

	prompt := services.GenerateInsightsPrompt(&state.Draft)
	response, err := services.GenerateInsights(apiKey, prompt)
	if err != nil {
		http.Error(w, "Failed to generate insights: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"insights": response,
	})
}
