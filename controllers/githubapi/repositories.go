package githubapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"internfolio-backend/controllers/authentication"
	"internfolio-backend/services"
)

// ReposHandler — GET /api/github/repositories: не-форки пользователя
func ReposHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, err := authentication.GithubToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "GitHub token required", err.Error())
		return
	}

	client := services.NewGithubClient(token)
	repos, err := client.ListRepositories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch repositories", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"repositories": repos,
	})
}

// RepositoryDetailHandler — GET /api/github/repository/{owner}/{repo}:
// карточка репозитория с языками, PR, коммитами и производной статистикой
func RepositoryDetailHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, err := authentication.GithubToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "GitHub token required", err.Error())
		return
	}

	// Путь: /api/github/repository/{owner}/{repo}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/github/repository/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusBadRequest, "Expected /api/github/repository/{owner}/{repo}", "")
		return
	}
	owner, name := parts[0], parts[1]

	ctx := r.Context()
	client := services.NewGithubClient(token)

	repo, err := client.Repository(ctx, owner, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch repository", err.Error())
		return
	}

	languages, err := client.Languages(ctx, owner, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch languages", err.Error())
		return
	}
	pulls, err := client.PullRequests(ctx, owner, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch pull requests", err.Error())
		return
	}
	commits, err := client.Commits(ctx, owner, name, "", "", "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch commits", err.Error())
		return
	}
	contributors, err := client.Contributors(ctx, owner, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch contributors", err.Error())
		return
	}
	loc, err := client.LinesOfCode(ctx, owner, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch contributor stats", err.Error())
		return
	}

	merged := 0
	for _, pr := range pulls {
		if pr.MergedAt != "" {
			merged++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"repository":   repo,
		"languages":    languages,
		"pullRequests": pulls,
		"commits":      commits,
		"contributors": contributors,
		"stats": map[string]interface{}{
			"commits":      len(commits),
			"pullRequests": len(pulls),
			"mergedPulls":  merged,
			"contributors": len(contributors),
			"linesOfCode":  loc,
		},
	})
}
