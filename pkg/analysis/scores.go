package analysis

import (
	"context"
	"math"
	"time"

	"github.com/matzehuels/stacklens/pkg/registry"
)

// MaintenanceScore grades how recently the repository received a push:
// 1 within six months, 0.5 within a year, 0.2 within two years, else 0.
// Archived repositories score 0.
func MaintenanceScore(repo registry.RepoInfo, now time.Time) float64 {
	if repo.Archived || repo.PushedAt == nil {
		return 0
	}
	pushed := *repo.PushedAt
	switch {
	case pushed.After(now.AddDate(0, -6, 0)):
		return 1
	case pushed.After(now.AddDate(-1, 0, 0)):
		return 0.5
	case pushed.After(now.AddDate(-2, 0, 0)):
		return 0.2
	default:
		return 0
	}
}

// ActivelyMaintained reports a push within the last six months on a
// repository that is not archived.
func ActivelyMaintained(repo registry.RepoInfo, now time.Time) bool {
	return !repo.Archived && repo.PushedAt != nil && repo.PushedAt.After(now.AddDate(0, -6, 0))
}

// PopularityScore maps monthly downloads onto [0, 1] logarithmically;
// 10^8 downloads a month saturates.
func PopularityScore(monthly int64) float64 {
	if monthly <= 0 {
		return 0
	}
	return math.Min(1, math.Log10(float64(monthly)+1)/8)
}

// QualityScore awards 0.25 for each of description, license, repository
// and homepage.
func QualityScore(info registry.Metadata) float64 {
	score := 0.0
	for _, field := range []string{info.Description, info.License, info.Repository, info.Homepage} {
		if field != "" {
			score += 0.25
		}
	}
	return score
}

// NpmScore blends the three scores into a 0-100 grade.
func NpmScore(popularity, quality, maintenance float64) int {
	return int(math.Round(100 * (0.5*popularity + 0.3*quality + 0.2*maintenance)))
}

// WeeklyDownloads estimates a weekly count from a monthly one.
func WeeklyDownloads(monthly int64) int64 {
	return monthly * 7 / 30
}

func (a *Aggregator) repo(ctx context.Context, info registry.Metadata) registry.RepoInfo {
	if info.Repository == "" {
		return registry.RepoInfo{}
	}
	return a.src.GitHubInfo(ctx, info.Repository)
}

func (a *Aggregator) maintenance(ctx context.Context, name string) MaintenanceInfo {
	repo := a.repo(ctx, a.src.PackageInfo(ctx, name))
	if repo.IsEmpty() {
		return MaintenanceInfo{}
	}
	now := a.now()
	return MaintenanceInfo{
		LastCommit:         repo.PushedAt,
		OpenIssues:         repo.OpenIssues,
		Archived:           repo.Archived,
		MaintenanceScore:   MaintenanceScore(repo, now),
		ActivelyMaintained: ActivelyMaintained(repo, now),
	}
}

func (a *Aggregator) popularity(ctx context.Context, name string) PopularityInfo {
	info := a.src.PackageInfo(ctx, name)
	monthly := a.src.DownloadStats(ctx, name).Downloads
	repo := a.repo(ctx, info)

	pop := PopularityScore(monthly)
	quality := QualityScore(info)
	return PopularityInfo{
		WeeklyDownloads:  WeeklyDownloads(monthly),
		MonthlyDownloads: monthly,
		GitHubStars:      repo.Stars,
		GitHubForks:      repo.Forks,
		NpmScore:         NpmScore(pop, quality, MaintenanceScore(repo, a.now())),
		QualityScore:     quality,
		PopularityScore:  pop,
	}
}
