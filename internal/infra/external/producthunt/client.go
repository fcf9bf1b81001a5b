package producthunt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL = "https://api.producthunt.com/v2/api/graphql"
	defaultTimeout = 10 * time.Second
)

var (
	// ErrNotConfigured no token is configured
	ErrNotConfigured = errors.New("product hunt client not configured")

	// ErrPostNotFound the post lookup returned null
	ErrPostNotFound = errors.New("product hunt post not found")
)

// Config Product Hunt client settings
type Config struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// Client Product Hunt GraphQL v2 client
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a client. Without a token every call returns ErrNotConfigured.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
	}
}

// Enabled reports whether a token is configured
func (c *Client) Enabled() bool {
	return c.token != ""
}

// =============================================================================
// Types
// =============================================================================

// Post launch directory entry
type Post struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Tagline       string    `json:"tagline"`
	Description   string    `json:"description"`
	VotesCount    int       `json:"votes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	FeaturedAt    time.Time `json:"featured_at"`
	MakerInside   bool      `json:"maker_inside"`
	Topics        []string  `json:"topics"`
}

type postNode struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Tagline       string     `json:"tagline"`
	Description   string     `json:"description"`
	VotesCount    int        `json:"votesCount"`
	CommentsCount int        `json:"commentsCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	FeaturedAt    *time.Time `json:"featuredAt"`
	MakerInside   bool       `json:"makerInside"`
	Topics        struct {
		Edges []struct {
			Node struct {
				Name string `json:"name"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"topics"`
}

func (n postNode) toPost() Post {
	p := Post{
		ID:            n.ID,
		Name:          n.Name,
		Tagline:       n.Tagline,
		Description:   n.Description,
		VotesCount:    n.VotesCount,
		CommentsCount: n.CommentsCount,
		CreatedAt:     n.CreatedAt,
		MakerInside:   n.MakerInside,
		Topics:        make([]string, 0, len(n.Topics.Edges)),
	}
	if n.FeaturedAt != nil {
		p.FeaturedAt = *n.FeaturedAt
	}
	for _, e := range n.Topics.Edges {
		p.Topics = append(p.Topics, e.Node.Name)
	}
	return p
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// =============================================================================
// Queries
// =============================================================================

const postFields = `
	id
	name
	tagline
	description
	votesCount
	commentsCount
	createdAt
	featuredAt
	makerInside
	topics {
		edges {
			node {
				name
			}
		}
	}`

const topPostsQuery = `
query {
	posts(first: 20, order: VOTES, postedAfter: "2023-01-01") {
		edges {
			node {` + postFields + `
			}
		}
	}
}`

const postByIDQuery = `
query($id: ID!) {
	post(id: $id) {` + postFields + `
	}
}`

const postBySlugQuery = `
query($slug: String!) {
	post(slug: $slug) {` + postFields + `
	}
}`

// SearchPosts fetches the top voted recent posts and keeps those whose
// name, tagline or topics contain term (case-insensitive). An empty term
// keeps everything.
func (c *Client) SearchPosts(ctx context.Context, term string) ([]Post, error) {
	var data struct {
		Posts struct {
			Edges []struct {
				Node postNode `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	}
	if err := c.query(ctx, topPostsQuery, nil, &data); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	posts := make([]Post, 0, len(data.Posts.Edges))
	for _, e := range data.Posts.Edges {
		p := e.Node.toPost()
		if needle == "" || matches(p, needle) {
			posts = append(posts, p)
		}
	}

	log.Debug().
		Str("term", term).
		Int("fetched", len(data.Posts.Edges)).
		Int("matched", len(posts)).
		Msg("Searched Product Hunt posts")

	return posts, nil
}

// GetPostByID fetches a single post
func (c *Client) GetPostByID(ctx context.Context, id string) (*Post, error) {
	return c.getPost(ctx, postByIDQuery, map[string]interface{}{"id": id})
}

// GetPostBySlug fetches a single post by its URL slug
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	return c.getPost(ctx, postBySlugQuery, map[string]interface{}{"slug": slug})
}

func (c *Client) getPost(ctx context.Context, q string, vars map[string]interface{}) (*Post, error) {
	var data struct {
		Post *postNode `json:"post"`
	}
	if err := c.query(ctx, q, vars, &data); err != nil {
		return nil, err
	}
	if data.Post == nil {
		return nil, ErrPostNotFound
	}

	p := data.Post.toPost()
	return &p, nil
}

func (c *Client) query(ctx context.Context, q string, vars map[string]interface{}, out interface{}) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(graphqlRequest{Query: q, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("decode response: empty data")
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func matches(p Post, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Tagline), needle) {
		return true
	}
	for _, t := range p.Topics {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
