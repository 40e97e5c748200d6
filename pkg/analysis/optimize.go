package analysis

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	largeBundle  = 100_000
	mediumBundle = 50_000
)

// OptimizationAdvisor derives optimization hints from bundle measurements.
type OptimizationAdvisor struct {
	src Source
}

// NewOptimizationAdvisor creates an OptimizationAdvisor reading from src.
func NewOptimizationAdvisor(src Source) *OptimizationAdvisor {
	return &OptimizationAdvisor{src: src}
}

// GenerateSuggestions returns the suggestions for name@version. A version
// update hint is always included.
func (o *OptimizationAdvisor) GenerateSuggestions(ctx context.Context, name, version string) []Suggestion {
	b := o.src.BundleInfo(ctx, name, version)
	return Suggestions(name, b.Size, b.HasJSModule)
}

// Suggestions applies the size thresholds to a bundle of size bytes.
func Suggestions(name string, size int64, hasJSModule bool) []Suggestion {
	var out []Suggestion
	if size > largeBundle {
		out = append(out, Suggestion{
			Type:             BundleSplitting,
			Title:            "Large Bundle Size",
			Description:      fmt.Sprintf("This package has a large bundle size (%s). Consider code splitting or finding lighter alternatives.", FormatBytes(size)),
			Impact:           ImpactHigh,
			PotentialSavings: size / 2,
			Difficulty:       "medium",
			Recommendation:   "Implement code splitting or dynamic imports",
			CodeExample:      "import('./large-module').then(module => { /* use module */ });",
		})
	}
	if !hasJSModule {
		out = append(out, Suggestion{
			Type:             TreeShaking,
			Title:            "Enable Tree Shaking",
			Description:      "This package doesn't support ES modules, which limits tree-shaking effectiveness.",
			Impact:           ImpactMedium,
			PotentialSavings: size / 4,
			Difficulty:       "low",
			Recommendation:   "Look for ES module alternatives or use specific imports",
			CodeExample:      fmt.Sprintf("import { specificFunction } from '%s/lib/specific';", name),
		})
	}
	if size > mediumBundle {
		out = append(out, Suggestion{
			Type:             DynamicImport,
			Title:            "Consider Dynamic Imports",
			Description:      "This package could benefit from dynamic imports to reduce initial bundle size.",
			Impact:           ImpactMedium,
			PotentialSavings: size,
			Difficulty:       "low",
			Recommendation:   "Load this package only when needed",
			CodeExample:      fmt.Sprintf("const %s = await import('%s');", identifier(name), name),
		})
	}
	return append(out, Suggestion{
		Type:             VersionUpdate,
		Title:            "Check for Updates",
		Description:      "Ensure you're using the latest version for performance improvements and security fixes.",
		Impact:           ImpactLow,
		PotentialSavings: 0,
		Difficulty:       "low",
		Recommendation:   "Update to the latest stable version",
		CodeExample:      "npm update " + name,
	})
}

// FormatBytes renders n as B, KB or MB with one decimal.
func FormatBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}

// identifier turns a package name into a camel-cased variable name:
// "@babel/preset-env" becomes "babelPresetEnv".
func identifier(name string) string {
	name = strings.ReplaceAll(name, "@", "")
	name = strings.ReplaceAll(name, "/", "-")

	var b strings.Builder
	for i, part := range strings.Split(name, "-") {
		if i == 0 || part == "" {
			b.WriteString(part)
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}
