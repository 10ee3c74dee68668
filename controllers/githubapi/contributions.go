package githubapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"internfolio-backend/controllers/authentication"
	"internfolio-backend/metrics"
	"internfolio-backend/services"
)

type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

type RepoStats struct {
	Owner        string `json:"owner"`
	Name         string `json:"name"`
	Commits      int    `json:"commits"`
	PullRequests int    `json:"pullRequests"`
	Contributors int    `json:"contributors"`
	LinesOfCode  int    `json:"linesOfCode"`
}

type ContributionTotals struct {
	Commits      int `json:"commits"`
	PullRequests int `json:"pullRequests"`
	Contributors int `json:"contributors"`
	LinesOfCode  int `json:"linesOfCode"`
}

func writeError(w http.ResponseWriter, status int, message string, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]interface{}{"success": false, "error": message}
	if details != "" {
		resp["details"] = details
	}
	json.NewEncoder(w).Encode(resp)
}

// fetchRepoStats собирает статистику одного репозитория. Любая ошибка
// деградирует до нулевых значений — агрегация в целом не падает из-за
// одного репозитория
func fetchRepoStats(ctx context.Context, client *services.GithubClient, ref RepoRef, username, since, until string) RepoStats {
	stats := RepoStats{Owner: ref.Owner, Name: ref.Name}

	commits, err := client.Commits(ctx, ref.Owner, ref.Name, username, since, until)
	if err != nil {
		log.Printf("Не удалось получить коммиты %s/%s: %v", ref.Owner, ref.Name, err)
		metrics.GithubUpstreamErrors.Inc()
		return stats
	}
	pulls, err := client.PullRequests(ctx, ref.Owner, ref.Name)
	if err != nil {
		log.Printf("Не удалось получить pull requests %s/%s: %v", ref.Owner, ref.Name, err)
		metrics.GithubUpstreamErrors.Inc()
		return RepoStats{Owner: ref.Owner, Name: ref.Name}
	}
	contributors, err := client.Contributors(ctx, ref.Owner, ref.Name)
	if err != nil {
		log.Printf("Не удалось получить контрибьюторов %s/%s: %v", ref.Owner, ref.Name, err)
		metrics.GithubUpstreamErrors.Inc()
		return RepoStats{Owner: ref.Owner, Name: ref.Name}
	}
	loc, err := client.LinesOfCode(ctx, ref.Owner, ref.Name)
	if err != nil {
		log.Printf("Не удалось получить статистику строк %s/%s: %v", ref.Owner, ref.Name, err)
		metrics.GithubUpstreamErrors.Inc()
		return RepoStats{Owner: ref.Owner, Name: ref.Name}
	}

	stats.Commits = len(commits)
	stats.PullRequests = len(pulls)
	stats.Contributors = len(contributors)
	stats.LinesOfCode = loc
	return stats
}

// AggregateContributions — fan-out по репозиториям: по горутине на каждый,
// результат пишется в слайс по входному индексу, поэтому порядок вывода
// всегда совпадает с порядком входа, а не с порядком завершения
func AggregateContributions(ctx context.Context, client *services.GithubClient, repos []RepoRef, username, since, until string) ([]RepoStats, ContributionTotals) {
	results := make([]RepoStats, len(repos))

	var wg sync.WaitGroup
	for i, ref := range repos {
		wg.Add(1)
		go func(i int, ref RepoRef) {
			defer wg.Done()
			results[i] = fetchRepoStats(ctx, client, ref, username, since, until)
		}(i, ref)
	}
	wg.Wait()

	var totals ContributionTotals
	for _, s := range results {
		totals.Commits += s.Commits
		totals.PullRequests += s.PullRequests
		totals.Contributors += s.Contributors
		totals.LinesOfCode += s.LinesOfCode
	}
	return results, totals
}

// ContributionsHandler — POST /api/github/contributions
func ContributionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Отсутствие токена — ошибка всего вызова, в отличие от
	// ошибок отдельных репозиториев
	token, err := authentication.GithubToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "GitHub token required", err.Error())
		return
	}

	var req struct {
		Repositories []RepoRef `json:"repositories"`
		StartDate    string    `json:"startDate"`
		EndDate      string    `json:"endDate"`
		Username     string    `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(req.Repositories) == 0 {
		writeError(w, http.StatusBadRequest, "Missing repositories", "")
		return
	}

	// Контекст запроса: уход клиента отменяет все запросы к GitHub
	client := services.NewGithubClient(token)
	results, totals := AggregateContributions(r.Context(), client, req.Repositories, req.Username, req.StartDate, req.EndDate)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"repositories": results,
		"totals":       totals,
	})
}
