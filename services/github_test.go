package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"internfolio-backend/models/apperr"
)

func TestGithubClientWrapsUpstreamFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewGithubClient("test-token")
	client.BaseURL = server.URL

	_, err := client.Repository(context.Background(), "a", "r")
	if err == nil {
		t.Fatal("expected an error from a failing upstream")
	}
	if !errors.Is(err, apperr.ErrUpstreamAPI) {
		t.Fatalf("expected ErrUpstreamAPI, got %v", err)
	}
}

// 202 означает, что GitHub еще пересчитывает статистику — это не ошибка
func TestGithubClientTreatsAcceptedAsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewGithubClient("test-token")
	client.BaseURL = server.URL

	loc, err := client.LinesOfCode(context.Background(), "a", "r")
	if err != nil {
		t.Fatalf("202 must not be treated as a failure: %v", err)
	}
	if loc != 0 {
		t.Fatalf("expected zero lines of code while stats are cooking, got %d", loc)
	}
}
