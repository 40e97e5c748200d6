package registry

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// SortVersionsDesc orders versions newest first by semantic version.
// Strings that do not parse as versions go last, in lexical order.
func SortVersionsDesc(versions []string) {
	parsed := make(map[string]*semver.Version, len(versions))
	for _, v := range versions {
		if sv, err := semver.NewVersion(v); err == nil {
			parsed[v] = sv
		}
	}
	sort.SliceStable(versions, func(i, j int) bool {
		a, aok := parsed[versions[i]]
		b, bok := parsed[versions[j]]
		switch {
		case aok && bok:
			if c := a.Compare(b); c != 0 {
				return c > 0
			}
			return versions[i] < versions[j]
		case aok != bok:
			return aok
		default:
			return versions[i] < versions[j]
		}
	})
}
