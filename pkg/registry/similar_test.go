package registry

import (
	"context"
	"testing"

	"github.com/matzehuels/stacklens/pkg/integrations/npm"
)

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"express", "Fast, unopinionated, minimalist web framework", "fast unopinionated minimalist"},
		{"stopwords and short words", "The tool is for parsing of the JSON data with ease", "tool parsing json"},
		{"punctuation splits", "date-time library: formatting/parsing", "date time library"},
		{"exactly ten chars", "abcdefghij", ""},
		{"eleven chars", "abcdefghijk", "abcdefghijk"},
		{"only short words", "a b c d e f g h", ""},
		{"empty", "", ""},
		{"stopwords longer than three", "with were were with", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Keywords(tt.in); got != tt.want {
				t.Errorf("Keywords(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimilarPackages(t *testing.T) {
	n := newFakeNPM()
	n.packages["express"] = &npm.Metadata{Name: "express", Description: "Fast, unopinionated, minimalist web framework"}
	n.search = []npm.SearchResult{
		{Name: "express"},
		{Name: "koa", Description: "Koa web app framework"},
		{Name: "fastify"},
		{Name: "hapi"},
		{Name: "restify"},
		{Name: "polka"},
		{Name: "micro"},
	}
	c := newTestClient(n, nil, nil)

	got := c.SimilarPackages(context.Background(), "express")
	if len(got) != 5 {
		t.Fatalf("SimilarPackages = %d entries, want 5", len(got))
	}
	for _, alt := range got {
		if alt.Name == "express" {
			t.Error("the package itself must be excluded")
		}
		if alt.MigrationDifficulty != "moderate" {
			t.Errorf("%s difficulty = %q", alt.Name, alt.MigrationDifficulty)
		}
	}
	if got[0].Name != "koa" || got[0].Description != "Koa web app framework" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Description != "Alternative package" {
		t.Errorf("fallback description = %q", got[1].Description)
	}
}

func TestSimilarPackagesShortDescription(t *testing.T) {
	n := newFakeNPM()
	n.packages["tiny"] = &npm.Metadata{Name: "tiny", Description: "tiny lib"}
	c := newTestClient(n, nil, nil)

	if got := c.SimilarPackages(context.Background(), "tiny"); len(got) != 0 {
		t.Errorf("SimilarPackages = %+v, want empty", got)
	}
	if n.Calls("search") != 0 {
		t.Error("no search should run without keywords")
	}
}
