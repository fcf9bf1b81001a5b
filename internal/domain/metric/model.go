package metric

import "time"

// Type of a metric value
type Type string

const (
	TypeNumber    Type = "number"
	TypeBoolean   Type = "boolean"
	TypeTimestamp Type = "timestamp"
	TypeObject    Type = "object"
)

// Provenance of a metric value
type Provenance string

const (
	ProvenanceMock       Provenance = "mock"
	ProvenanceLive       Provenance = "live"
	ProvenanceCalculated Provenance = "calculated"
)

// Canonical metric names
const (
	GitHubActivityLevel        = "github_activity_level"
	RepoOwnershipScore         = "repo_ownership_score"
	RecentDevActivityTS        = "recent_dev_activity_ts"
	ProductHuntLaunchPresence  = "producthunt_launch_presence"
	ProductHuntUpvotes         = "producthunt_upvotes"
	GitHubStarsCount           = "github_stars_count"
	WeeklyCommitFrequency      = "weekly_commit_frequency"
	RepoForksCount             = "repo_forks_count"
	IssueActivityCount         = "issue_activity_count"
	PublicMVPRepoFlag          = "public_mvp_repo_flag"
	SavedToWatchlistCount      = "saved_to_watchlist_count"
	SignalClickthroughRate     = "signal_clickthrough_rate"
	UserNotesCommentsCount     = "user_notes_comments_count"
	RoutingActionDistribution  = "routing_action_distribution"
	RevisitCount               = "revisit_count"
	OriginalityScore           = "originality_score"
	ReplicabilityScore         = "replicability_score"
	InferredTeamSize           = "inferred_team_size"
	IdeaSaturationScore        = "idea_saturation_score"
	FreshnessScore             = "freshness_score"
	UsersSavingStartup         = "users_saving_startup"
	UsersRoutedToBuildOrScout  = "users_routed_to_build_or_scout"
	IngestionToActionTime      = "ingestion_to_action_time"
	TagPopularityScore         = "tag_popularity_score"
	WeeklySignalVelocityScore  = "weekly_signal_velocity_score"
	ViewDepthPerSession        = "view_depth_per_session"
)

// Metric is a named measurement
type Metric struct {
	Name        string      `json:"metric"`
	Value       interface{} `json:"value"`
	Type        Type        `json:"type"`
	Unit        string      `json:"unit,omitempty"`
	Range       string      `json:"range,omitempty"`
	Description string      `json:"description"`
	Timestamp   time.Time   `json:"timestamp"`
	Source      string      `json:"source"`

	Provenance Provenance `json:"-"`
}

// Group is a named set of metric names shown together
type Group struct {
	Name    string   `json:"name" yaml:"name"`
	Metrics []string `json:"metrics" yaml:"metrics"`
}
