package signals

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thebenmerlin/MVP90/internal/domain/metric"
	"github.com/thebenmerlin/MVP90/internal/domain/startup"
	"github.com/thebenmerlin/MVP90/internal/infra/external/github"
	"github.com/thebenmerlin/MVP90/internal/infra/external/producthunt"
	"github.com/thebenmerlin/MVP90/internal/infra/external/website"
	"github.com/thebenmerlin/MVP90/internal/strategy/scoring"
)

// Source names
const (
	SourceGitHub      = "github"
	SourceProductHunt = "producthunt"
	SourceWebsite     = "website"
)

// commitWindow how far back commits are requested for the top repo
const commitWindow = 56 * 24 * time.Hour

// =============================================================================
// GitHub
// =============================================================================

// GitHubAPI subset of the GitHub client used here
type GitHubAPI interface {
	Enabled() bool
	GetUserRepos(ctx context.Context, username string) ([]github.RepoDTO, error)
	GetRepoCommits(ctx context.Context, owner, repo string, since time.Time) ([]github.CommitDTO, error)
	GetRepoIssues(ctx context.Context, owner, repo string) ([]github.IssueDTO, error)
}

// GitHubSource derives novelty, cloneability, stars and developer activity
type GitHubSource struct {
	api GitHubAPI
	now func() time.Time
}

// NewGitHubSource creates the source. A nil clock uses time.Now.
func NewGitHubSource(api GitHubAPI, clock func() time.Time) *GitHubSource {
	if clock == nil {
		clock = time.Now
	}
	return &GitHubSource{api: api, now: clock}
}

// Name implements Source
func (g *GitHubSource) Name() string { return SourceGitHub }

// Enabled implements Source
func (g *GitHubSource) Enabled() bool { return g.api.Enabled() }

// Applies implements Source
func (g *GitHubSource) Applies(e startup.Entity) bool { return e.GitHubUsername != "" }

// Fetch implements Source. The repo list is required; commits and issues of
// the most recently updated repo are best effort.
func (g *GitHubSource) Fetch(ctx context.Context, e startup.Entity) Result {
	dtos, err := g.api.GetUserRepos(ctx, e.GitHubUsername)
	if err != nil {
		return failed(SourceGitHub, err)
	}

	now := g.now()
	repos := github.ToScoringRepos(dtos)

	var commits []scoring.Commit
	open, closed := 0, 0
	if len(dtos) > 0 {
		owner, name := splitFullName(dtos[0].FullName, e.GitHubUsername, dtos[0].Name)

		if c, err := g.api.GetRepoCommits(ctx, owner, name, now.Add(-commitWindow)); err != nil {
			log.Warn().Err(err).Int("entity_id", e.ID).Str("repo", dtos[0].FullName).Msg("GitHub commits unavailable")
		} else {
			commits = github.ToScoringCommits(c)
		}

		if issues, err := g.api.GetRepoIssues(ctx, owner, name); err != nil {
			log.Warn().Err(err).Int("entity_id", e.ID).Str("repo", dtos[0].FullName).Msg("GitHub issues unavailable")
		} else {
			open, closed = github.CountIssues(issues)
		}
	}

	stars := scoring.TotalStars(repos)
	en := Enrichment{
		Novelty:      intPtr(scoring.NoveltyEstimate(repos, now)),
		Cloneability: intPtr(scoring.CloneabilityEstimate(repos)),
		GitHubStars:  intPtr(stars),
	}

	live := func(name string, typ metric.Type, value interface{}) metric.Metric {
		return metric.Metric{
			Name:       name,
			Value:      value,
			Type:       typ,
			Timestamp:  now,
			Source:     "GitHub API",
			Provenance: metric.ProvenanceLive,
		}
	}

	en.Metrics = append(en.Metrics,
		live(metric.GitHubActivityLevel, metric.TypeNumber, scoring.ActivityLevel(repos, commits, now)),
		live(metric.RepoOwnershipScore, metric.TypeNumber, scoring.OwnershipScore(repos)),
		live(metric.GitHubStarsCount, metric.TypeNumber, stars),
		live(metric.RepoForksCount, metric.TypeNumber, scoring.TotalForks(repos)),
		live(metric.WeeklyCommitFrequency, metric.TypeNumber, scoring.WeeklyCommitFrequency(commits, now)),
		live(metric.PublicMVPRepoFlag, metric.TypeBoolean, len(repos) > 0),
		live(metric.IssueActivityCount, metric.TypeNumber, scoring.IssueRatio(open, closed)),
	)

	if latest := scoring.LatestPush(repos); !latest.IsZero() {
		en.Metrics = append(en.Metrics, live(metric.RecentDevActivityTS, metric.TypeTimestamp, latest))
	}

	if len(repos) > 0 {
		fresh := live(metric.FreshnessScore, metric.TypeNumber, scoring.FreshnessScore(repos[0].CreatedAt, repos[0].UpdatedAt, now))
		fresh.Provenance = metric.ProvenanceCalculated
		en.Metrics = append(en.Metrics, fresh)
	}

	return ok(SourceGitHub, en)
}

// splitFullName "owner/name" -> owner, name
func splitFullName(fullName, fallbackOwner, fallbackName string) (string, string) {
	if owner, name, found := strings.Cut(fullName, "/"); found && owner != "" && name != "" {
		return owner, name
	}
	return fallbackOwner, fallbackName
}

// =============================================================================
// Product Hunt
// =============================================================================

// ProductHuntAPI subset of the Product Hunt client used here
type ProductHuntAPI interface {
	Enabled() bool
	GetPostBySlug(ctx context.Context, slug string) (*producthunt.Post, error)
}

// ProductHuntSource derives launch presence, votes and text originality
type ProductHuntSource struct {
	api ProductHuntAPI
	now func() time.Time
}

// NewProductHuntSource creates the source. A nil clock uses time.Now.
func NewProductHuntSource(api ProductHuntAPI, clock func() time.Time) *ProductHuntSource {
	if clock == nil {
		clock = time.Now
	}
	return &ProductHuntSource{api: api, now: clock}
}

// Name implements Source
func (p *ProductHuntSource) Name() string { return SourceProductHunt }

// Enabled implements Source
func (p *ProductHuntSource) Enabled() bool { return p.api.Enabled() }

// Applies implements Source
func (p *ProductHuntSource) Applies(e startup.Entity) bool { return e.ProductHuntSlug != "" }

// Fetch implements Source
func (p *ProductHuntSource) Fetch(ctx context.Context, e startup.Entity) Result {
	post, err := p.api.GetPostBySlug(ctx, e.ProductHuntSlug)
	if err != nil {
		return failed(SourceProductHunt, err)
	}

	now := p.now()
	originality := scoring.OriginalityScore(post.Tagline+" "+post.Description, post.Topics)

	return ok(SourceProductHunt, Enrichment{
		Novelty:          intPtr(originalityToNovelty(originality)),
		ProductHuntVotes: intPtr(post.VotesCount),
		Metrics: []metric.Metric{
			{Name: metric.ProductHuntLaunchPresence, Value: true, Type: metric.TypeBoolean, Timestamp: now, Source: "Product Hunt API", Provenance: metric.ProvenanceLive},
			{Name: metric.ProductHuntUpvotes, Value: post.VotesCount, Type: metric.TypeNumber, Timestamp: now, Source: "Product Hunt API", Provenance: metric.ProvenanceLive},
			{Name: metric.OriginalityScore, Value: originality, Type: metric.TypeNumber, Timestamp: now, Source: "Product Hunt API", Provenance: metric.ProvenanceCalculated},
		},
	})
}

// =============================================================================
// Website
// =============================================================================

// WebsiteAPI subset of the website probe used here
type WebsiteAPI interface {
	Enabled() bool
	Probe(ctx context.Context, url string) (*website.Meta, error)
}

// WebsiteSource derives text originality from the landing page
type WebsiteSource struct {
	api WebsiteAPI
	now func() time.Time
}

// NewWebsiteSource creates the source. A nil clock uses time.Now.
func NewWebsiteSource(api WebsiteAPI, clock func() time.Time) *WebsiteSource {
	if clock == nil {
		clock = time.Now
	}
	return &WebsiteSource{api: api, now: clock}
}

// Name implements Source
func (w *WebsiteSource) Name() string { return SourceWebsite }

// Enabled implements Source
func (w *WebsiteSource) Enabled() bool { return w.api.Enabled() }

// Applies implements Source
func (w *WebsiteSource) Applies(e startup.Entity) bool { return e.WebsiteURL != "" }

// Fetch implements Source
func (w *WebsiteSource) Fetch(ctx context.Context, e startup.Entity) Result {
	meta, err := w.api.Probe(ctx, e.WebsiteURL)
	if err != nil {
		return failed(SourceWebsite, err)
	}

	originality := scoring.OriginalityScore(meta.Text(), meta.Keywords)

	return ok(SourceWebsite, Enrichment{
		Novelty: intPtr(originalityToNovelty(originality)),
		Metrics: []metric.Metric{
			{Name: metric.OriginalityScore, Value: originality, Type: metric.TypeNumber, Timestamp: w.now(), Source: "Website probe", Provenance: metric.ProvenanceCalculated},
		},
	})
}

// originalityToNovelty maps a 0-100 originality score onto the 0-10 novelty scale
func originalityToNovelty(originality int) int {
	return startup.ClampScore(int(math.Round(float64(originality) / 10)))
}
