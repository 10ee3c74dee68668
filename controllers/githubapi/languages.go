package githubapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"sync"

	"internfolio-backend/controllers/authentication"
	"internfolio-backend/metrics"
	"internfolio-backend/services"
)

type LanguageCount struct {
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
}

// AggregateLanguages суммирует байты по языкам всех репозиториев и сортирует
// по убыванию. При равенстве байтов порядок определяется первым появлением
// языка во входных данных (стабильная сортировка)
func AggregateLanguages(perRepo []map[string]int64) []LanguageCount {
	totals := map[string]int64{}
	order := []string{}

	for _, langs := range perRepo {
		// map не упорядочен — обходим ключи отсортированными, чтобы
		// порядок первого появления был детерминирован
		keys := make([]string, 0, len(langs))
		for name := range langs {
			keys = append(keys, name)
		}
		sort.Strings(keys)
		for _, name := range keys {
			if _, seen := totals[name]; !seen {
				order = append(order, name)
			}
			totals[name] += langs[name]
		}
	}

	result := make([]LanguageCount, 0, len(order))
	for _, name := range order {
		result = append(result, LanguageCount{Name: name, Bytes: totals[name]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Bytes > result[j].Bytes
	})
	return result
}

// LanguagesHandler — POST /api/github/languages
func LanguagesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, err := authentication.GithubToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "GitHub token required", err.Error())
		return
	}

	var req struct {
		Repositories []RepoRef `json:"repositories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(req.Repositories) == 0 {
		writeError(w, http.StatusBadRequest, "Missing repositories", "")
		return
	}

	client := services.NewGithubClient(token)
	perRepo := make([]map[string]int64, len(req.Repositories))

	var wg sync.WaitGroup
	for i, ref := range req.Repositories {
		wg.Add(1)
		go func(i int, ref RepoRef) {
			defer wg.Done()
			langs, err := client.Languages(r.Context(), ref.Owner, ref.Name)
			if err != nil {
				log.Printf("Не удалось получить языки %s/%s: %v", ref.Owner, ref.Name, err)
				metrics.GithubUpstreamErrors.Inc()
				return
			}
			perRepo[i] = langs
		}(i, ref)
	}
	wg.Wait()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"languages": AggregateLanguages(perRepo),
	})
}
