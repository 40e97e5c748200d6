package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stacklens/pkg/registry"
)

func types(s []Suggestion) []SuggestionType {
	out := make([]SuggestionType, len(s))
	for i, x := range s {
		out[i] = x.Type
	}
	return out
}

func TestSuggestionsThresholds(t *testing.T) {
	tests := []struct {
		name        string
		size        int64
		hasJSModule bool
		want        []SuggestionType
	}{
		{"small esm", 10_000, true, []SuggestionType{VersionUpdate}},
		{"small cjs", 10_000, false, []SuggestionType{TreeShaking, VersionUpdate}},
		{"exactly 50000", 50_000, true, []SuggestionType{VersionUpdate}},
		{"50001", 50_001, true, []SuggestionType{DynamicImport, VersionUpdate}},
		{"exactly 100000", 100_000, true, []SuggestionType{DynamicImport, VersionUpdate}},
		{"100001", 100_001, true, []SuggestionType{BundleSplitting, DynamicImport, VersionUpdate}},
		{"large cjs", 200_000, false, []SuggestionType{BundleSplitting, TreeShaking, DynamicImport, VersionUpdate}},
		{"unmeasured", 0, false, []SuggestionType{TreeShaking, VersionUpdate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types(Suggestions("pkg", tt.size, tt.hasJSModule)))
		})
	}
}

func TestSuggestionsSavings(t *testing.T) {
	s := Suggestions("moment", 200_000, false)
	require.Len(t, s, 4)

	assert.Equal(t, int64(100_000), s[0].PotentialSavings)
	assert.Equal(t, ImpactHigh, s[0].Impact)
	assert.Equal(t, "medium", s[0].Difficulty)
	assert.Equal(t, "This package has a large bundle size (195.3 KB). Consider code splitting or finding lighter alternatives.", s[0].Description)

	assert.Equal(t, int64(50_000), s[1].PotentialSavings)
	assert.Equal(t, ImpactMedium, s[1].Impact)
	assert.Equal(t, "import { specificFunction } from 'moment/lib/specific';", s[1].CodeExample)

	assert.Equal(t, int64(200_000), s[2].PotentialSavings)
	assert.Equal(t, "const moment = await import('moment');", s[2].CodeExample)

	assert.Equal(t, int64(0), s[3].PotentialSavings)
	assert.Equal(t, ImpactLow, s[3].Impact)
	assert.Equal(t, "npm update moment", s[3].CodeExample)
}

func TestSuggestionsSplittingBoundary(t *testing.T) {
	s := Suggestions("pkg", 100_001, true)
	require.NotEmpty(t, s)
	assert.Equal(t, BundleSplitting, s[0].Type)
	assert.Equal(t, int64(50_000), s[0].PotentialSavings)

	assert.NotContains(t, types(Suggestions("pkg", 100_000, true)), BundleSplitting)
}

func TestIdentifier(t *testing.T) {
	tests := map[string]string{
		"lodash":            "lodash",
		"date-fns":          "dateFns",
		"@babel/preset-env": "babelPresetEnv",
		"@types/node":       "typesNode",
		"a--b":              "aB",
	}
	for in, want := range tests {
		assert.Equal(t, want, identifier(in), in)
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KB", FormatBytes(1024))
	assert.Equal(t, "97.7 KB", FormatBytes(100_000))
	assert.Equal(t, "1.5 MB", FormatBytes(1536*1024))
}

func TestOptimizationAdvisorUsesBundleInfo(t *testing.T) {
	src := newFakeSource()
	src.bundles["react@18.2.0"] = registry.Bundle{Size: 6_400, HasJSModule: false}

	s := NewOptimizationAdvisor(src).GenerateSuggestions(context.Background(), "react", "18.2.0")
	assert.Equal(t, []SuggestionType{TreeShaking, VersionUpdate}, types(s))
	assert.Equal(t, int64(1_600), s[0].PotentialSavings)
}
