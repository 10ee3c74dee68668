package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"internfolio-backend/models/apperr"
)

const GithubAPIBase = "https://api.github.com"

// GithubClient — клиент GitHub REST API. Токен — OAuth-токен провайдера,
// он же bearer. BaseURL переопределяется в тестах.
type GithubClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewGithubClient(token string) *GithubClient {
	return &GithubClient{
		BaseURL:    GithubAPIBase,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type GithubRepository struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
	Fork            bool     `json:"fork"`
	Private         bool     `json:"private"`
	HTMLURL         string   `json:"html_url"`
	Language        string   `json:"language"`
	Topics          []string `json:"topics"`
	StargazersCount int      `json:"stargazers_count"`
	UpdatedAt       string   `json:"updated_at"`
}

type GithubPullRequest struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	State    string `json:"state"`
	HTMLURL  string `json:"html_url"`
	MergedAt string `json:"merged_at"`
	User     struct {
		Login string `json:"login"`
	} `json:"user"`
}

type GithubCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

type GithubContributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// Недельные бакеты статистики контрибьютора: a — добавленные строки,
// d — удаленные, c — коммиты
type contributorStat struct {
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
	Weeks []struct {
		Additions int `json:"a"`
		Deletions int `json:"d"`
		Commits   int `json:"c"`
	} `json:"weeks"`
}

func (c *GithubClient) get(ctx context.Context, path string, into interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to GitHub: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// 202 — GitHub еще считает статистику, пустой результат
	if resp.StatusCode == http.StatusAccepted {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(apperr.ErrUpstreamAPI, "GitHub API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("failed to decode GitHub response: %w", err)
	}
	return nil
}

// ListRepositories возвращает до 100 не-форков пользователя (публичные)
func (c *GithubClient) ListRepositories(ctx context.Context) ([]GithubRepository, error) {
	var repos []GithubRepository
	if err := c.get(ctx, "/user/repos?per_page=100&sort=updated", &repos); err != nil {
		return nil, err
	}

	filtered := make([]GithubRepository, 0, len(repos))
	for _, r := range repos {
		if r.Fork || r.Private {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

func (c *GithubClient) Repository(ctx context.Context, owner, name string) (*GithubRepository, error) {
	var repo GithubRepository
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, name), &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// Languages — байты по языкам одного репозитория
func (c *GithubClient) Languages(ctx context.Context, owner, name string) (map[string]int64, error) {
	langs := map[string]int64{}
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/languages", owner, name), &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

func (c *GithubClient) PullRequests(ctx context.Context, owner, name string) ([]GithubPullRequest, error) {
	var pulls []GithubPullRequest
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/pulls?state=all&per_page=100", owner, name), &pulls); err != nil {
		return nil, err
	}
	return pulls, nil
}

// Commits — коммиты автора за период (до 100)
func (c *GithubClient) Commits(ctx context.Context, owner, name, author, since, until string) ([]GithubCommit, error) {
	q := url.Values{}
	q.Set("per_page", "100")
	if author != "" {
		q.Set("author", author)
	}
	if since != "" {
		q.Set("since", since)
	}
	if until != "" {
		q.Set("until", until)
	}

	var commits []GithubCommit
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/commits?%s", owner, name, q.Encode()), &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

func (c *GithubClient) Contributors(ctx context.Context, owner, name string) ([]GithubContributor, error) {
	var contributors []GithubContributor
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/contributors?per_page=100", owner, name), &contributors); err != nil {
		return nil, err
	}
	return contributors, nil
}

// LinesOfCode — оценка объема кода: сумма добавленных и удаленных строк
// по всем недельным бакетам всех контрибьюторов
func (c *GithubClient) LinesOfCode(ctx context.Context, owner, name string) (int, error) {
	var stats []contributorStat
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/stats/contributors", owner, name), &stats); err != nil {
		return 0, err
	}

	total := 0
	for _, s := range stats {
		for _, w := range s.Weeks {
			total += w.Additions + w.Deletions
		}
	}
	return total, nil
}
