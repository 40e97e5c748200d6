package analysis

import (
	"time"

	"github.com/matzehuels/stacklens/pkg/deps"
	"github.com/matzehuels/stacklens/pkg/registry"
)

// Report is the composite analysis of one package version. Every section
// is filled independently; a section whose sources failed keeps its
// default.
type Report struct {
	ID            string     `json:"id"`
	Name          string     `json:"packageName"`
	Version       string     `json:"version"`
	Description   string     `json:"description,omitempty"`
	Author        string     `json:"author,omitempty"`
	License       string     `json:"license,omitempty"`
	Homepage      string     `json:"homepage,omitempty"`
	Repository    string     `json:"repository,omitempty"`
	LastPublished *time.Time `json:"lastPublished,omitempty"`
	AnalyzedAt    time.Time  `json:"analyzedAt"`

	BundleSize     BundleSizeInfo         `json:"bundleSize"`
	Dependencies   DependencyInfo         `json:"dependencies"`
	Security       SecurityInfo           `json:"security"`
	Maintenance    MaintenanceInfo        `json:"maintenance"`
	Popularity     PopularityInfo         `json:"popularity"`
	Alternatives   []registry.Alternative `json:"alternatives"`
	Optimizations  []Suggestion           `json:"optimizations"`
	VersionHistory []VersionInfo          `json:"versionHistory"`
}

// BundleSizeInfo describes the distributable size of a package version.
type BundleSizeInfo struct {
	Uncompressed      int64            `json:"uncompressed"`
	Gzipped           int64            `json:"gzipped"`
	Brotli            int64            `json:"brotli"`
	Treeshakable      bool             `json:"treeshakable"`
	Breakdown         map[string]int64 `json:"breakdown"`
	BundleAnalysisURL string           `json:"bundleAnalysisUrl"`
}

// DependencyInfo is the dependency tree with its derived summary.
type DependencyInfo struct {
	deps.Summary
	Tree []*deps.Node `json:"dependencyTree"`
}

// SecurityInfo collects advisories, deprecation and license posture.
type SecurityInfo struct {
	VulnerabilityCount        int                      `json:"vulnerabilityCount"`
	Vulnerabilities           []registry.Vulnerability `json:"vulnerabilities"`
	HasDeprecatedDependencies bool                     `json:"hasDeprecatedDependencies"`
	DeprecatedPackages        []string                 `json:"deprecatedPackages"`
	LicenseCompatibility      string                   `json:"licenseCompatibility"`
}

// MaintenanceInfo is derived from the package's GitHub repository.
type MaintenanceInfo struct {
	LastCommit         *time.Time `json:"lastCommit,omitempty"`
	OpenIssues         int        `json:"openIssues"`
	Archived           bool       `json:"archived"`
	MaintenanceScore   float64    `json:"maintenanceScore"`
	ActivelyMaintained bool       `json:"activelyMaintained"`
}

// PopularityInfo is derived from download counts, repository stars and
// metadata completeness.
type PopularityInfo struct {
	WeeklyDownloads  int64   `json:"weeklyDownloads"`
	MonthlyDownloads int64   `json:"monthlyDownloads"`
	GitHubStars      int     `json:"githubStars"`
	GitHubForks      int     `json:"githubForks"`
	NpmScore         int     `json:"npmScore"`
	QualityScore     float64 `json:"qualityScore"`
	PopularityScore  float64 `json:"popularityScore"`
}

// VersionInfo is one entry of a package's release history.
type VersionInfo struct {
	Version           string     `json:"version"`
	PublishedDate     *time.Time `json:"publishedDate,omitempty"`
	Deprecated        bool       `json:"deprecated"`
	DeprecationReason string     `json:"deprecationReason,omitempty"`
	ChangeType        ChangeType `json:"changeType"`
}

// ChangeType classifies a release against the one before it.
type ChangeType string

const (
	ChangeMajor      ChangeType = "major"
	ChangeMinor      ChangeType = "minor"
	ChangePatch      ChangeType = "patch"
	ChangePrerelease ChangeType = "prerelease"
	ChangeUnknown    ChangeType = "unknown"
)

// Suggestion is an optimization hint for consumers of a package.
type Suggestion struct {
	Type             SuggestionType `json:"type"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Impact           Impact         `json:"impact"`
	PotentialSavings int64          `json:"potentialSavings"`
	Difficulty       string         `json:"difficulty"`
	Recommendation   string         `json:"recommendation"`
	CodeExample      string         `json:"codeExample,omitempty"`
}

// SuggestionType names the kind of optimization.
type SuggestionType string

const (
	RemoveUnused       SuggestionType = "remove-unused"
	TreeShaking        SuggestionType = "tree-shaking"
	CodeSplitting      SuggestionType = "code-splitting"
	DynamicImport      SuggestionType = "dynamic-import"
	BundleSplitting    SuggestionType = "bundle-splitting"
	AlternativePackage SuggestionType = "alternative-package"
	VersionUpdate      SuggestionType = "version-update"
	PeerDependency     SuggestionType = "peer-dependency"
)

// Impact grades the expected benefit of a suggestion.
type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactVeryHigh Impact = "very-high"
)

// License compatibility classes.
const (
	LicensePermissive  = "permissive"
	LicenseCopyleft    = "copyleft"
	LicenseProprietary = "proprietary"
	LicenseOther       = "other"
	LicenseUnknown     = "unknown"
)

func defaultDependencyInfo() DependencyInfo {
	return DependencyInfo{Summary: deps.Summarize(nil), Tree: []*deps.Node{}}
}

func defaultSecurityInfo() SecurityInfo {
	return SecurityInfo{
		Vulnerabilities:      []registry.Vulnerability{},
		DeprecatedPackages:   []string{},
		LicenseCompatibility: LicenseUnknown,
	}
}
