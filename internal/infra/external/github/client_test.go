package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		Token:         "test-token",
		BaseURL:       srv.URL,
		RatePerMinute: 6000,
		Timeout:       2 * time.Second,
	})
}

func TestClient_Disabled(t *testing.T) {
	c := NewClient(Config{})

	assert.False(t, c.Enabled())

	_, err := c.GetUserRepos(context.Background(), "octocat")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_GetUserRepos(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Equal(t, "MVP90-Terminal/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"name":"hello","full_name":"octocat/hello","language":"Go","topics":["cli"],
			 "stargazers_count":42,"forks_count":3,"open_issues_count":1,
			 "created_at":"2024-01-01T00:00:00Z","updated_at":"2025-05-01T00:00:00Z","pushed_at":"2025-05-02T00:00:00Z"}
		]`))
	})

	require.True(t, c.Enabled())

	repos, err := c.GetUserRepos(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "octocat/hello", repos[0].FullName)
	assert.Equal(t, 42, repos[0].Stars)
	assert.Equal(t, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), repos[0].PushedAt)

	scored := ToScoringRepos(repos)
	assert.Equal(t, "Go", scored[0].Language)
	assert.Equal(t, []string{"cli"}, scored[0].Topics)
}

func TestClient_GetRepoCommits(t *testing.T) {
	since := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("with since", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/octocat/hello/commits", r.URL.Path)
			assert.Equal(t, "2025-04-01T00:00:00Z", r.URL.Query().Get("since"))
			assert.Empty(t, r.URL.Query().Get("per_page"))
			w.Write([]byte(`[{"sha":"a","commit":{"author":{"date":"2025-04-02T10:00:00Z"}}}]`))
		})

		commits, err := c.GetRepoCommits(context.Background(), "octocat", "hello", since)
		require.NoError(t, err)
		require.Len(t, commits, 1)
		assert.Equal(t, time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC), ToScoringCommits(commits)[0].AuthorDate)
	})

	t.Run("without since", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.Query().Get("since"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			w.Write([]byte(`[]`))
		})

		commits, err := c.GetRepoCommits(context.Background(), "octocat", "hello", time.Time{})
		require.NoError(t, err)
		assert.Empty(t, commits)
	})
}

func TestClient_GetRepoIssues(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		w.Write([]byte(`[
			{"number":1,"state":"open"},
			{"number":2,"state":"closed"},
			{"number":3,"state":"closed"},
			{"number":4,"state":"open","pull_request":{}}
		]`))
	})

	issues, err := c.GetRepoIssues(context.Background(), "octocat", "hello")
	require.NoError(t, err)

	open, closed := CountIssues(issues)
	assert.Equal(t, 1, open)
	assert.Equal(t, 2, closed)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		headers map[string]string
		want    error
	}{
		{"not found", http.StatusNotFound, nil, ErrNotFound},
		{"too many requests", http.StatusTooManyRequests, nil, ErrRateLimited},
		{"quota exhausted", http.StatusForbidden, map[string]string{"X-RateLimit-Remaining": "0"}, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
			})

			_, err := c.GetUser(context.Background(), "ghost")
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := c.GetUser(context.Background(), "ghost")
		assert.ErrorContains(t, err, "unexpected status: 502")
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		})

		_, err := c.GetUser(context.Background(), "ghost")
		assert.ErrorContains(t, err, "decode response")
	})
}
