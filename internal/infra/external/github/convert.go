package github

import "github.com/thebenmerlin/MVP90/internal/strategy/scoring"

// ToScoringRepos DTO -> formula input
func ToScoringRepos(dtos []RepoDTO) []scoring.Repo {
	repos := make([]scoring.Repo, 0, len(dtos))
	for _, d := range dtos {
		repos = append(repos, scoring.Repo{
			FullName:   d.FullName,
			Language:   d.Language,
			Topics:     d.Topics,
			Stars:      d.Stars,
			Forks:      d.Forks,
			OpenIssues: d.OpenIssues,
			CreatedAt:  d.CreatedAt,
			UpdatedAt:  d.UpdatedAt,
			PushedAt:   d.PushedAt,
		})
	}
	return repos
}

// ToScoringCommits DTO -> formula input
func ToScoringCommits(dtos []CommitDTO) []scoring.Commit {
	commits := make([]scoring.Commit, 0, len(dtos))
	for _, d := range dtos {
		commits = append(commits, scoring.Commit{AuthorDate: d.Commit.Author.Date})
	}
	return commits
}

// CountIssues splits issues into open and closed, skipping pull requests
func CountIssues(issues []IssueDTO) (open, closed int) {
	for _, i := range issues {
		if i.PullRequest != nil {
			continue
		}
		if i.State == "closed" {
			closed++
		} else {
			open++
		}
	}
	return open, closed
}
