package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ghshelf/ghshelf/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New("test-token", Opts{BaseURL: server.URL, PageSize: 2, RequestsPerSecond: 1000})
	return client, server
}

func TestValidateToken(t *testing.T) {
	t.Run("accepts a valid token", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/user" {
				t.Errorf("expected /user, got %s", r.URL.Path)
			}
			if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
				t.Errorf("unexpected accept header %q", got)
			}
			if got := r.Header.Get("X-GitHub-Api-Version"); got != apiVersion {
				t.Errorf("unexpected api version header %q", got)
			}
			fmt.Fprint(w, `{"login": "octocat", "name": "Octo Cat", "avatar_url": "https://example.com/a.png"}`)
		}))

		result := client.ValidateToken(context.Background())

		if !result.Valid {
			t.Fatalf("expected valid token, got error %v", result.Err)
		}
		if result.Username != "octocat" {
			t.Errorf("expected username octocat, got %q", result.Username)
		}
		if result.Name != "Octo Cat" {
			t.Errorf("expected name Octo Cat, got %q", result.Name)
		}
	})

	t.Run("classifies a rejected token", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		result := client.ValidateToken(context.Background())

		if result.Valid {
			t.Fatal("expected invalid token")
		}
		var invalid *InvalidTokenError
		if !errors.As(result.Err, &invalid) {
			t.Errorf("expected InvalidTokenError, got %T", result.Err)
		}
	})

	t.Run("fails without a token", func(t *testing.T) {
		client := New("", Opts{})

		result := client.ValidateToken(context.Background())

		if result.Valid {
			t.Fatal("expected invalid result")
		}
		if !errors.Is(result.Err, ErrNoToken) {
			t.Errorf("expected ErrNoToken, got %v", result.Err)
		}
	})
}

func TestErrorClassification(t *testing.T) {
	t.Run("rate limit exhaustion carries the reset time", func(t *testing.T) {
		reset := time.Now().Add(30 * time.Minute).Unix()
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
			w.WriteHeader(http.StatusForbidden)
		}))

		_, err := client.FetchOwned(context.Background(), nil)

		var limited *RateLimitedError
		if !errors.As(err, &limited) {
			t.Fatalf("expected RateLimitedError, got %v", err)
		}
		if limited.ResetAt.Unix() != reset {
			t.Errorf("expected reset %d, got %d", reset, limited.ResetAt.Unix())
		}
	})

	t.Run("forbidden without exhaustion is not a rate limit", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Remaining", "42")
			w.WriteHeader(http.StatusForbidden)
		}))

		_, err := client.FetchOwned(context.Background(), nil)

		var forbidden *ForbiddenError
		if !errors.As(err, &forbidden) {
			t.Fatalf("expected ForbiddenError, got %v", err)
		}
	})

	t.Run("other statuses surface as API errors", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		_, err := client.FetchOwned(context.Background(), nil)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", apiErr.StatusCode)
		}
	})

	t.Run("transport failures surface as network errors", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		client := New("test-token", Opts{BaseURL: server.URL, RequestsPerSecond: 1000})
		_, err := client.FetchOwned(context.Background(), nil)

		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected NetworkError, got %v", err)
		}
	})
}

func TestFetchOwned(t *testing.T) {
	page := func(repos ...remoteRepo) string {
		data, _ := json.Marshal(repos)
		return string(data)
	}
	repo := func(id int64, name string) remoteRepo {
		r := remoteRepo{ID: id, Name: name, HTMLURL: "https://github.com/octocat/" + name, UpdatedAt: "2024-03-01T00:00:00Z"}
		r.Owner.Login = "octocat"
		return r
	}

	t.Run("walks every page until a short one", func(t *testing.T) {
		pages := map[string]string{
			"1": page(repo(1, "alpha"), repo(2, "beta")),
			"2": page(repo(3, "gamma")),
		}
		var requested []string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			num := r.URL.Query().Get("page")
			requested = append(requested, num)
			fmt.Fprint(w, pages[num])
		}))

		var pageCalls int
		repos, err := client.FetchOwned(context.Background(), func(page, items int) {
			pageCalls++
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(repos) != 3 {
			t.Fatalf("expected 3 repos, got %d", len(repos))
		}
		if len(requested) != 2 || requested[0] != "1" || requested[1] != "2" {
			t.Errorf("unexpected page sequence %v", requested)
		}
		if pageCalls != 2 {
			t.Errorf("expected 2 progress callbacks, got %d", pageCalls)
		}
	})

	t.Run("normalizes records with stable identifiers", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, page(repo(42, "alpha")))
		}))

		repos, err := client.FetchOwned(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := repos[0]
		if got.ID != "github-owned-42" {
			t.Errorf("expected id github-owned-42, got %q", got.ID)
		}
		if got.Description != models.NoDescription {
			t.Errorf("expected description placeholder, got %q", got.Description)
		}
		if got.Language != models.NoLanguage {
			t.Errorf("expected language placeholder, got %q", got.Language)
		}
		if got.Owner != "octocat" {
			t.Errorf("expected owner octocat, got %q", got.Owner)
		}
	})

	t.Run("discards earlier pages when a later one fails", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, page(repo(1, "alpha"), repo(2, "beta")))
		}))

		repos, err := client.FetchOwned(context.Background(), nil)
		if err == nil {
			t.Fatal("expected an error")
		}
		if repos != nil {
			t.Errorf("expected no repos on failure, got %d", len(repos))
		}
	})
}

func TestFetchStarred(t *testing.T) {
	t.Run("uses the starred endpoint and id prefix", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/user/starred" {
				t.Errorf("expected /user/starred, got %s", r.URL.Path)
			}
			fmt.Fprint(w, `[{"id": 7, "name": "lib", "owner": {"login": "someone"}}]`)
		}))

		repos, err := client.FetchStarred(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repos[0].ID != "github-starred-7" {
			t.Errorf("expected id github-starred-7, got %q", repos[0].ID)
		}
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("reports the current quota", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"rate": {"limit": 5000, "remaining": 4990, "reset": 1700000000}}`)
		}))

		status := client.RateLimit(context.Background())
		if status == nil {
			t.Fatal("expected a status")
		}
		if status.Remaining != 4990 {
			t.Errorf("expected 4990 remaining, got %d", status.Remaining)
		}
		if status.ResetAt.Unix() != 1700000000 {
			t.Errorf("unexpected reset time %v", status.ResetAt)
		}
	})

	t.Run("returns nil on failure", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		if status := client.RateLimit(context.Background()); status != nil {
			t.Errorf("expected nil status, got %+v", status)
		}
	})
}
