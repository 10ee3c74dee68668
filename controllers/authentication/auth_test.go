package authentication

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"internfolio-backend/models/apperr"
)

func TestValidateTokenRequiresHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)

	_, err := ValidateToken(req)
	if err == nil {
		t.Fatal("request without Authorization header must be rejected")
	}
	if !errors.Is(err, apperr.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}

// Прямые токены провайдера должны проходить без нашего JWT:
// префиксные, классические 40-hex PAT и схема "token "
func TestGithubTokenAcceptsProviderTokens(t *testing.T) {
	classicPAT := strings.Repeat("a1f3", 10)
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer ghp_abcdef1234", "ghp_abcdef1234"},
		{"Bearer gho_abcdef1234", "gho_abcdef1234"},
		{"Bearer github_pat_11ABCDEF_xyz", "github_pat_11ABCDEF_xyz"},
		{"Bearer " + classicPAT, classicPAT},
		{"token deadbeef", "deadbeef"},
	}

	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/github/repositories", nil)
		req.Header.Set("Authorization", c.header)

		got, err := GithubToken(req)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.header, err)
			continue
		}
		if got != c.want {
			t.Errorf("%q: expected token %q, got %q", c.header, c.want, got)
		}
	}
}

func TestGithubTokenRejectsUnrecognized(t *testing.T) {
	for _, header := range []string{
		"Bearer not.a.github.token",
		"Bearer ABCDEF",
		"Basic dXNlcjpwYXNz",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/github/repositories", nil)
		req.Header.Set("Authorization", header)

		if _, err := GithubToken(req); err == nil {
			t.Errorf("%q: expected rejection", header)
		} else if !errors.Is(err, apperr.ErrAuthRequired) {
			t.Errorf("%q: expected ErrAuthRequired, got %v", header, err)
		}
	}
}
