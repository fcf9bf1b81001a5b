package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 10 * time.Second
	defaultRPM     = 60

	acceptHeader = "application/vnd.github.v3+json"
	userAgent    = "MVP90-Terminal/1.0"
	pageSize     = "100"
)

var (
	// ErrNotConfigured no token is configured
	ErrNotConfigured = errors.New("github client not configured")

	// ErrRateLimited the API refused the request for quota reasons
	ErrRateLimited = errors.New("github rate limit exceeded")

	// ErrNotFound user or repository does not exist
	ErrNotFound = errors.New("github resource not found")
)

// Config GitHub client settings
type Config struct {
	Token         string
	BaseURL       string
	RatePerMinute int
	Timeout       time.Duration
}

// Client GitHub REST v3 client
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	enabled    bool
}

// NewClient creates a client. Without a token the client is disabled and
// every call returns ErrNotConfigured.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RatePerMinute <= 0 {
		cfg.RatePerMinute = defaultRPM
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = cfg.Timeout
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), cfg.RatePerMinute),
		enabled:    cfg.Token != "",
	}
}

// Enabled reports whether a token is configured
func (c *Client) Enabled() bool {
	return c.enabled
}

// =============================================================================
// API Response Types
// =============================================================================

// RepoDTO repository item
type RepoDTO struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	OpenIssues  int       `json:"open_issues_count"`
	Fork        bool      `json:"fork"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PushedAt    time.Time `json:"pushed_at"`
}

// UserDTO user profile
type UserDTO struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Followers   int       `json:"followers"`
	PublicRepos int       `json:"public_repos"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommitDTO commit item (only the author date is read)
type CommitDTO struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// IssueDTO issue item. Pull requests are also returned by the issues endpoint.
type IssueDTO struct {
	Number      int       `json:"number"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

// =============================================================================
// Endpoints
// =============================================================================

// GetUserRepos lists the user's repositories, most recently updated first
func (c *Client) GetUserRepos(ctx context.Context, username string) ([]RepoDTO, error) {
	params := url.Values{}
	params.Set("sort", "updated")
	params.Set("per_page", pageSize)

	var repos []RepoDTO
	if err := c.get(ctx, fmt.Sprintf("/users/%s/repos", url.PathEscape(username)), params, &repos); err != nil {
		return nil, err
	}

	log.Debug().
		Str("user", username).
		Int("count", len(repos)).
		Msg("Fetched GitHub repos")

	return repos, nil
}

// GetUser fetches a user profile
func (c *Client) GetUser(ctx context.Context, username string) (*UserDTO, error) {
	var user UserDTO
	if err := c.get(ctx, fmt.Sprintf("/users/%s", url.PathEscape(username)), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetRepoCommits lists commits. A zero since returns the latest page.
func (c *Client) GetRepoCommits(ctx context.Context, owner, repo string, since time.Time) ([]CommitDTO, error) {
	params := url.Values{}
	if !since.IsZero() {
		params.Set("since", since.UTC().Format(time.RFC3339))
	} else {
		params.Set("per_page", pageSize)
	}

	var commits []CommitDTO
	path := fmt.Sprintf("/repos/%s/%s/commits", url.PathEscape(owner), url.PathEscape(repo))
	if err := c.get(ctx, path, params, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// GetRepoIssues lists open and closed issues
func (c *Client) GetRepoIssues(ctx context.Context, owner, repo string) ([]IssueDTO, error) {
	params := url.Values{}
	params.Set("state", "all")
	params.Set("per_page", pageSize)

	var issues []IssueDTO
	path := fmt.Sprintf("/repos/%s/%s/issues", url.PathEscape(owner), url.PathEscape(repo))
	if err := c.get(ctx, path, params, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if !c.enabled {
		return ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
