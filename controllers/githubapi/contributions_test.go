package githubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"internfolio-backend/services"
)

// Стаб GitHub API: r1 всегда падает, r2 отвечает нормально
func newGithubStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/repos/a/r1/") {
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/commits"):
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"sha": "1"}, {"sha": "2"}, {"sha": "3"},
			})
		case strings.HasSuffix(r.URL.Path, "/pulls"):
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"number": 1, "title": "one"}, {"number": 2, "title": "two"},
			})
		case strings.HasSuffix(r.URL.Path, "/stats/contributors"):
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{
					"author": map[string]string{"login": "alice"},
					"weeks": []map[string]int{
						{"a": 100, "d": 40, "c": 5},
						{"a": 10, "d": 10, "c": 1},
					},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/contributors"):
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"login": "alice"}, {"login": "bob"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestAggregationKeepsInputOrderOnPartialFailure(t *testing.T) {
	server := newGithubStub(t)
	defer server.Close()

	client := services.NewGithubClient("test-token")
	client.BaseURL = server.URL

	repos := []RepoRef{{Owner: "a", Name: "r1"}, {Owner: "b", Name: "r2"}}
	results, totals := AggregateContributions(context.Background(), client, repos, "alice", "", "")

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Порядок — входной, не порядок завершения
	if results[0].Owner != "a" || results[0].Name != "r1" {
		t.Fatalf("result 0 must be the failed repo a/r1, got %s/%s", results[0].Owner, results[0].Name)
	}
	if results[1].Owner != "b" || results[1].Name != "r2" {
		t.Fatalf("result 1 must be b/r2, got %s/%s", results[1].Owner, results[1].Name)
	}

	// Упавший репозиторий — нулевые значения, но агрегация не падает
	if results[0].Commits != 0 || results[0].PullRequests != 0 || results[0].Contributors != 0 || results[0].LinesOfCode != 0 {
		t.Fatalf("failed repo must degrade to zero values, got %+v", results[0])
	}

	if results[1].Commits != 3 {
		t.Errorf("expected 3 commits, got %d", results[1].Commits)
	}
	if results[1].PullRequests != 2 {
		t.Errorf("expected 2 pull requests, got %d", results[1].PullRequests)
	}
	if results[1].Contributors != 2 {
		t.Errorf("expected 2 contributors, got %d", results[1].Contributors)
	}
	if results[1].LinesOfCode != 160 {
		t.Errorf("expected 160 lines of code (100+40+10+10), got %d", results[1].LinesOfCode)
	}

	if totals.Commits != 3 || totals.PullRequests != 2 || totals.LinesOfCode != 160 {
		t.Errorf("totals must count only the successful repo, got %+v", totals)
	}
}

func TestContributionsHandlerRequiresToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/github/contributions",
		strings.NewReader(`{"repositories":[{"owner":"a","name":"r"}]}`))
	rec := httptest.NewRecorder()

	ContributionsHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp["success"] != false {
		t.Fatal("expected success:false in error payload")
	}
}

func TestContributionsHandlerRequiresRepositories(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/github/contributions",
		strings.NewReader(`{"repositories":[]}`))
	// Прямой GitHub-токен в заголовке, без нашего JWT
	req.Header.Set("Authorization", "Bearer ghp_abcdef")
	rec := httptest.NewRecorder()

	ContributionsHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty repositories, got %d", rec.Code)
	}
}
