package analysis

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stacklens/pkg/registry"
)

// SecurityAnalyzer combines advisories, deprecation and license posture.
type SecurityAnalyzer struct {
	src    Source
	logger *log.Logger
}

// NewSecurityAnalyzer creates a SecurityAnalyzer reading from src. A nil
// logger discards output.
func NewSecurityAnalyzer(src Source, logger *log.Logger) *SecurityAnalyzer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SecurityAnalyzer{src: src, logger: logger}
}

// Analyze fetches the three inputs concurrently and merges them. An input
// that cannot be read keeps its default.
func (s *SecurityAnalyzer) Analyze(ctx context.Context, name, version string) SecurityInfo {
	var (
		g          errgroup.Group
		advisories []registry.Vulnerability
		deprecated bool
		license    = LicenseUnknown
	)
	g.Go(s.task("advisories", name, func() { advisories = s.src.SecurityAdvisories(ctx, name) }))
	g.Go(s.task("deprecation", name, func() { deprecated = s.src.IsDeprecated(ctx, name) }))
	g.Go(s.task("license", name, func() { license = ClassifyLicense(s.src.PackageInfo(ctx, name).License) }))
	_ = g.Wait()

	info := defaultSecurityInfo()
	if advisories != nil {
		info.Vulnerabilities = advisories
	}
	info.VulnerabilityCount = len(info.Vulnerabilities)
	info.HasDeprecatedDependencies = deprecated
	if deprecated {
		info.DeprecatedPackages = []string{name}
	}
	info.LicenseCompatibility = license
	return info
}

func (s *SecurityAnalyzer) task(input, name string, fn func()) func() error {
	return func() error {
		defer func() {
			if p := recover(); p != nil {
				s.logger.Warn("security input failed", "input", input, "package", name, "err", p)
			}
		}()
		fn()
		return nil
	}
}

// ClassifyLicense maps a license string to a compatibility class by
// keyword: MIT, BSD and Apache licenses are permissive, GPL variants
// copyleft. An empty license is unknown.
func ClassifyLicense(license string) string {
	if strings.TrimSpace(license) == "" {
		return LicenseUnknown
	}
	l := strings.ToLower(license)
	switch {
	case containsAny(l, "mit", "bsd", "apache"):
		return LicensePermissive
	case containsAny(l, "gpl", "copyleft"):
		return LicenseCopyleft
	case containsAny(l, "proprietary", "commercial"):
		return LicenseProprietary
	default:
		return LicenseOther
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
