package analysis

import (
	"context"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/stacklens/pkg/registry"
)

const historyLength = 10

func (a *Aggregator) versionHistory(ctx context.Context, name string) []VersionInfo {
	return VersionHistory(a.src.PackageInfo(ctx, name), a.src.PackageVersions(ctx, name))
}

// VersionHistory describes the newest ten of versions (sorted newest
// first), each classified against the next older version in the list.
func VersionHistory(info registry.Metadata, versions []string) []VersionInfo {
	n := min(len(versions), historyLength)
	out := make([]VersionInfo, 0, n)
	for i := range n {
		v := versions[i]
		entry := VersionInfo{Version: v, ChangeType: ChangeUnknown}
		if i+1 < len(versions) {
			entry.ChangeType = classifyChange(v, versions[i+1])
		}
		if meta, ok := info.Versions[v]; ok {
			entry.Deprecated = meta.Deprecated
			entry.DeprecationReason = meta.Reason
			if !meta.PublishedAt.IsZero() {
				published := meta.PublishedAt
				entry.PublishedDate = &published
			}
		}
		out = append(out, entry)
	}
	return out
}

// classifyChange names the component that changed from prev to v.
func classifyChange(v, prev string) ChangeType {
	cur, err := semver.NewVersion(v)
	if err != nil {
		return ChangeUnknown
	}
	old, err := semver.NewVersion(prev)
	if err != nil {
		return ChangeUnknown
	}
	switch {
	case cur.Prerelease() != "":
		return ChangePrerelease
	case cur.Major() != old.Major():
		return ChangeMajor
	case cur.Minor() != old.Minor():
		return ChangeMinor
	case cur.Patch() != old.Patch():
		return ChangePatch
	case old.Prerelease() != "":
		return releaseOf(cur)
	default:
		return ChangeUnknown
	}
}

// releaseOf classifies a final release that follows its own prerelease by
// the shape of its version number.
func releaseOf(v *semver.Version) ChangeType {
	switch {
	case v.Minor() == 0 && v.Patch() == 0:
		return ChangeMajor
	case v.Patch() == 0:
		return ChangeMinor
	default:
		return ChangePatch
	}
}
