package startup

// ActionTag is the routing classification of a tracked startup
type ActionTag string

const (
	ActionBuild ActionTag = "Build"
	ActionScout ActionTag = "Scout"
	ActionStore ActionTag = "Store"
)

// Valid reports whether the tag is one of Build, Scout, Store
func (t ActionTag) Valid() bool {
	switch t {
	case ActionBuild, ActionScout, ActionStore:
		return true
	default:
		return false
	}
}

// Score bounds
const (
	MinScore = 0
	MaxScore = 10
)

// TractionSignals nested traction counters (all non-negative)
type TractionSignals struct {
	GitHubStars      int `json:"githubStars"`
	TwitterFollowers int `json:"twitterFollowers"`
	SubstackPosts    int `json:"substackPosts"`
	ProductHuntVotes int `json:"productHuntVotes"`
}

// Signal is a tracked startup and its derived scores
type Signal struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Pitch             string `json:"pitch"`
	Industry          string `json:"industry"`
	Region            string `json:"region"`
	Source            string `json:"source"`
	Team              string `json:"team"`
	FounderBackground string `json:"founderBackground"`

	NoveltyScore       int   `json:"noveltyScore"`      // 0-10
	CloneabilityScore  int   `json:"cloneabilityScore"` // 0-10, lower = harder to clone
	IndiaMarketFit     int   `json:"indiaMarketFit"`    // 0-10
	EstimatedBuildCost int64 `json:"estimatedBuildCost"`

	TractionSignals TractionSignals `json:"tractionSignals"`
	ActionTag       ActionTag       `json:"actionTag"`
	LastUpdated     string          `json:"lastUpdated"`

	GitHubUsername  string `json:"githubUsername,omitempty"`
	ProductHuntSlug string `json:"productHuntSlug,omitempty"`
	WebsiteURL      string `json:"websiteUrl,omitempty"`

	RealTimeData bool `json:"realTimeData"`
}

// Entity is the static configuration of a tracked startup
type Entity struct {
	ID                 int       `yaml:"id" json:"id"`
	Name               string    `yaml:"name" json:"name"`
	Pitch              string    `yaml:"pitch" json:"pitch"`
	Industry           string    `yaml:"industry" json:"industry"`
	Region             string    `yaml:"region" json:"region"`
	Source             string    `yaml:"source" json:"source"`
	Team               string    `yaml:"team" json:"team"`
	FounderBackground  string    `yaml:"founder_background" json:"founderBackground"`
	GitHubUsername     string    `yaml:"github_username" json:"githubUsername,omitempty"`
	ProductHuntSlug    string    `yaml:"producthunt_slug" json:"productHuntSlug,omitempty"`
	WebsiteURL         string    `yaml:"website_url" json:"websiteUrl,omitempty"`
	ActionTag          ActionTag `yaml:"action_tag" json:"actionTag"`
	EstimatedBuildCost int64     `yaml:"estimated_build_cost" json:"estimatedBuildCost"`
	IndiaMarketFit     int       `yaml:"india_market_fit" json:"indiaMarketFit"` // 0 = unset
}

// BaseSignal copies the static identity of the entity into a Signal.
// Scores and traction are left zero.
func (e Entity) BaseSignal() Signal {
	return Signal{
		ID:                 e.ID,
		Name:               e.Name,
		Pitch:              e.Pitch,
		Industry:           e.Industry,
		Region:             e.Region,
		Source:             e.Source,
		Team:               e.Team,
		FounderBackground:  e.FounderBackground,
		EstimatedBuildCost: e.EstimatedBuildCost,
		ActionTag:          e.ActionTag,
		GitHubUsername:     e.GitHubUsername,
		ProductHuntSlug:    e.ProductHuntSlug,
		WebsiteURL:         e.WebsiteURL,
	}
}

// ClampScore bounds a score to [MinScore, MaxScore]
func ClampScore(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
