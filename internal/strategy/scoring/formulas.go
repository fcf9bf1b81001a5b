package scoring

import (
	"math"
	"strings"
	"time"
)

// ActivityLevel commits plus ten per recently updated repo, capped at 1000.
// A repo is active if updated within the last three months.
func ActivityLevel(repos []Repo, commits []Commit, now time.Time) int {
	cutoff := now.AddDate(0, -activeRepoWindowMonths, 0)

	active := 0
	for _, r := range repos {
		if r.UpdatedAt.After(cutoff) {
			active++
		}
	}

	level := len(commits) + active*activeRepoWeight
	if level > MaxActivityLevel {
		return MaxActivityLevel
	}
	return level
}

// OwnershipScore counts repos whose full name has no namespace separator.
// Weak proxy for owned vs forked/org repos.
func OwnershipScore(repos []Repo) int {
	owned := 0
	for _, r := range repos {
		if !strings.Contains(r.FullName, "/") {
			owned++
		}
	}
	return owned
}

// WeeklyCommitFrequency commits per week over the trailing 8 weeks
func WeeklyCommitFrequency(commits []Commit, now time.Time) float64 {
	if len(commits) == 0 {
		return 0
	}

	cutoff := now.AddDate(0, 0, -commitWindowWeeks*7)

	recent := 0
	for _, c := range commits {
		if c.AuthorDate.After(cutoff) {
			recent++
		}
	}

	return float64(recent) / commitWindowWeeks
}

// OriginalityScore keyword-uniqueness score in [0,100].
// 70% share of non-generic words, 30% tag rarity (fewer tags = rarer).
func OriginalityScore(description string, tags []string) int {
	words := strings.Fields(strings.ToLower(description))

	ratio := 0.0
	if len(words) > 0 {
		unique := 0
		for _, w := range words {
			if _, stop := stopWords[w]; !stop {
				unique++
			}
		}
		ratio = float64(unique) / float64(len(words))
	}

	tagRarity := 0.5
	if len(tags) > 0 {
		n := len(tags)
		if n > 5 {
			n = 5
		}
		tagRarity = float64(5-n) / 5
	}

	return clampPercent(math.Round((ratio*0.7 + tagRarity*0.3) * 100))
}

// ReplicabilityScore in [0,100]. Lower means harder to replicate.
func ReplicabilityScore(techComplexity, teamSize int, hasPatents bool) int {
	score := 50
	score -= techComplexity * 10

	teamPenalty := teamSize * 5
	if teamPenalty > 25 {
		teamPenalty = 25
	}
	score -= teamPenalty

	if hasPatents {
		score -= 15
	}

	return clampPercent(float64(score))
}

// FreshnessScore linear recency decay in [0,100].
// Update recency carries 70%, founding recency 30%.
func FreshnessScore(createdAt, updatedAt, now time.Time) int {
	daysSinceCreation := now.Sub(createdAt).Hours() / 24
	daysSinceUpdate := now.Sub(updatedAt).Hours() / 24

	creationScore := math.Max(0, 100-daysSinceCreation/3)
	updateScore := math.Max(0, 100-daysSinceUpdate)

	return clampPercent(math.Round(creationScore*0.3 + updateScore*0.7))
}

// =============================================================================
// Estimators (0-10 scale)
// =============================================================================

// NoveltyEstimate language diversity + half the topic diversity + a bonus
// when anything was pushed in the last 30 days, capped at 10.
func NoveltyEstimate(repos []Repo, now time.Time) int {
	languages := make(map[string]struct{})
	topics := make(map[string]struct{})
	recent := false
	cutoff := now.AddDate(0, 0, -noveltyRecentDays)

	for _, r := range repos {
		if r.Language != "" {
			languages[strings.ToLower(r.Language)] = struct{}{}
		}
		for _, t := range r.Topics {
			topics[strings.ToLower(t)] = struct{}{}
		}
		if r.PushedAt.After(cutoff) {
			recent = true
		}
	}

	score := float64(len(languages)) + float64(len(topics))/2
	if recent {
		score += noveltyRecentBonus
	}

	return int(math.Min(noveltyCap, math.Round(score)))
}

// CloneabilityEstimate starts at 8 and loses points for complex languages,
// a popular top repo and a large portfolio. Floor 1.
func CloneabilityEstimate(repos []Repo) int {
	score := cloneabilityBase

	hasComplex := false
	topStars := 0
	for _, r := range repos {
		if _, ok := complexLanguages[strings.ToLower(r.Language)]; ok {
			hasComplex = true
		}
		if r.Stars > topStars {
			topStars = r.Stars
		}
	}

	if hasComplex {
		score -= cloneabilityComplexPenalty
	}
	if topStars > cloneabilityPopularStars {
		score -= cloneabilityPopularPenalty
	}
	if len(repos) > cloneabilityPortfolioSize {
		score -= cloneabilityPortfolioPenalty
	}

	if score < cloneabilityFloor {
		return cloneabilityFloor
	}
	return score
}

// TotalStars sum of stars across repos
func TotalStars(repos []Repo) int {
	total := 0
	for _, r := range repos {
		total += r.Stars
	}
	return total
}

// TotalForks sum of forks across repos
func TotalForks(repos []Repo) int {
	total := 0
	for _, r := range repos {
		total += r.Forks
	}
	return total
}

// IssueRatio open to closed issue ratio, 0 when nothing is closed
func IssueRatio(open, closed int) float64 {
	if closed == 0 {
		return 0
	}
	return math.Round(float64(open)/float64(closed)*100) / 100
}

// LatestPush most recent push time across repos (zero if none)
func LatestPush(repos []Repo) time.Time {
	var latest time.Time
	for _, r := range repos {
		if r.PushedAt.After(latest) {
			latest = r.PushedAt
		}
	}
	return latest
}

func clampPercent(v float64) int {
	if v < 0 {
		return 0
	}
	if v > MaxPercentScore {
		return MaxPercentScore
	}
	return int(v)
}
