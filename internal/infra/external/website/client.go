package website

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 5 * time.Second
	userAgent      = "MVP90-Terminal/1.0"
)

// ErrNotConfigured probing is switched off
var ErrNotConfigured = errors.New("website probe disabled")

// Config probe settings
type Config struct {
	Enabled bool
	Timeout time.Duration
}

// Meta public metadata scraped from a landing page
type Meta struct {
	URL         string
	Title       string
	Description string
	Keywords    []string
}

// Client landing page meta probe
type Client struct {
	httpClient *http.Client
	enabled    bool
}

// NewClient creates a probe client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		enabled:    cfg.Enabled,
	}
}

// Enabled reports whether probing is switched on
func (c *Client) Enabled() bool {
	return c.enabled
}

// Probe fetches the page and reads <title>, meta description and meta keywords
func (c *Client) Probe(ctx context.Context, pageURL string) (*Meta, error) {
	if !c.enabled {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	meta := &Meta{
		URL:         pageURL,
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: metaContent(doc, "description"),
	}

	if kw := metaContent(doc, "keywords"); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				meta.Keywords = append(meta.Keywords, k)
			}
		}
	}

	// fall back to Open Graph when the plain description is missing
	if meta.Description == "" {
		if og, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
			meta.Description = strings.TrimSpace(og)
		}
	}

	log.Debug().
		Str("url", pageURL).
		Str("title", meta.Title).
		Int("keywords", len(meta.Keywords)).
		Msg("Probed website")

	return meta, nil
}

// Text title and description joined for keyword scoring
func (m *Meta) Text() string {
	return strings.TrimSpace(m.Title + " " + m.Description)
}

func metaContent(doc *goquery.Document, name string) string {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if n, _ := s.Attr("name"); strings.EqualFold(n, name) {
			content, _ = s.Attr("content")
			return false
		}
		return true
	})
	return strings.TrimSpace(content)
}
