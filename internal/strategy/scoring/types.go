package scoring

import "time"

// Repo repository facts used by the formulas
type Repo struct {
	FullName   string
	Language   string
	Topics     []string
	Stars      int
	Forks      int
	OpenIssues int
	CreatedAt  time.Time
	UpdatedAt  time.Time
	PushedAt   time.Time
}

// Commit commit facts used by the formulas
type Commit struct {
	AuthorDate time.Time
}

// Formula bounds
const (
	MaxActivityLevel = 1000
	MaxPercentScore  = 100

	activeRepoWindowMonths = 3
	activeRepoWeight       = 10

	commitWindowWeeks = 8

	noveltyCap         = 10
	noveltyRecentBonus = 2
	noveltyRecentDays  = 30

	cloneabilityBase             = 8
	cloneabilityFloor            = 1
	cloneabilityComplexPenalty   = 3
	cloneabilityPopularPenalty   = 2
	cloneabilityPopularStars     = 1000
	cloneabilityPortfolioPenalty = 1
	cloneabilityPortfolioSize    = 10
)

// stopWords generic business words ignored by OriginalityScore
var stopWords = map[string]struct{}{
	"app":      {},
	"platform": {},
	"software": {},
	"tool":     {},
	"service":  {},
	"system":   {},
}

// complexLanguages languages that raise the replication barrier
var complexLanguages = map[string]struct{}{
	"rust":     {},
	"c++":      {},
	"c":        {},
	"haskell":  {},
	"scala":    {},
	"go":       {},
	"assembly": {},
	"cuda":     {},
	"verilog":  {},
	"vhdl":     {},
}
