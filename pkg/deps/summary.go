package deps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/stacklens/pkg/registry"
)

// VersionConflict is a package resolved at more than one version.
type VersionConflict struct {
	PackageName         string   `json:"packageName"`
	ConflictingVersions []string `json:"conflictingVersions"`
	DependentPackages   []string `json:"dependentPackages"`
	RecommendedVersion  string   `json:"recommendedVersion"`
	Severity            string   `json:"severity"`
	Resolution          string   `json:"resolution"`
}

// Summary describes the shape of a dependency tree.
type Summary struct {
	Production int `json:"dependenciesCount"`
	Dev        int `json:"devDependenciesCount"`
	Peer       int `json:"peerDependenciesCount"`
	Optional   int `json:"optionalDependenciesCount"`

	Circular   []string          `json:"circularDependencies"`
	Duplicates []string          `json:"duplicateDependencies"`
	Conflicts  []VersionConflict `json:"versionConflicts"`
}

// Summarize derives a Summary from a built tree. Type counts cover the
// root's children only; the other fields cover the whole tree.
func Summarize(tree *Node) Summary {
	s := Summary{
		Circular:   []string{},
		Duplicates: []string{},
		Conflicts:  []VersionConflict{},
	}
	if tree == nil {
		return s
	}

	for _, c := range tree.Children {
		switch c.Type {
		case Production:
			s.Production++
		case Development:
			s.Dev++
		case Peer:
			s.Peer++
		case Optional:
			s.Optional++
		}
	}

	seen := map[string]int{}
	versions := map[string]map[string]bool{}
	dependents := map[string]map[string]bool{}

	tree.Walk(func(n *Node, path []*Node) {
		if i := cycleStart(n, path); i >= 0 {
			s.Circular = append(s.Circular, cyclePath(path[i:], n))
			return
		}
		seen[n.Name]++
		if len(path) == 0 {
			return
		}
		if versions[n.Name] == nil {
			versions[n.Name] = map[string]bool{}
			dependents[n.Name] = map[string]bool{}
		}
		versions[n.Name][n.Version] = true
		dependents[n.Name][path[len(path)-1].Name] = true
	})

	for name, count := range seen {
		if count > 1 {
			s.Duplicates = append(s.Duplicates, name)
		}
	}
	sort.Strings(s.Duplicates)

	for name, vs := range versions {
		if len(vs) < 2 {
			continue
		}
		s.Conflicts = append(s.Conflicts, newConflict(name, setKeys(vs), setKeys(dependents[name])))
	}
	sort.Slice(s.Conflicts, func(i, j int) bool {
		return s.Conflicts[i].PackageName < s.Conflicts[j].PackageName
	})
	return s
}

// cycleStart returns the index in path of the ancestor n repeats, or -1.
func cycleStart(n *Node, path []*Node) int {
	for i, p := range path {
		if p.Name == n.Name && p.Version == n.Version {
			return i
		}
	}
	return -1
}

func cyclePath(path []*Node, back *Node) string {
	names := make([]string, 0, len(path)+1)
	for _, p := range path {
		names = append(names, p.Name)
	}
	names = append(names, back.Name)
	return strings.Join(names, " -> ")
}

func newConflict(name string, versions, dependents []string) VersionConflict {
	registry.SortVersionsDesc(versions)
	sort.Strings(dependents)
	recommended := versions[0]

	severity := "low"
	if majorsDiffer(versions) {
		severity = "medium"
	}
	return VersionConflict{
		PackageName:         name,
		ConflictingVersions: versions,
		DependentPackages:   dependents,
		RecommendedVersion:  recommended,
		Severity:            severity,
		Resolution:          fmt.Sprintf("Align dependents on %s@%s", name, recommended),
	}
}

// majorsDiffer reports whether the parseable versions span more than one
// major version.
func majorsDiffer(versions []string) bool {
	major := int64(-1)
	for _, v := range versions {
		sv, err := semver.NewVersion(v)
		if err != nil {
			continue
		}
		if major >= 0 && int64(sv.Major()) != major {
			return true
		}
		major = int64(sv.Major())
	}
	return false
}

func setKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
