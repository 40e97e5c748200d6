package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stacklens/pkg/analysis"
	"github.com/matzehuels/stacklens/pkg/deps"
	"github.com/matzehuels/stacklens/pkg/registry"
)

func TestWriteReport(t *testing.T) {
	published := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)
	r := &analysis.Report{
		Name:          "express",
		Version:       "4.18.2",
		License:       "MIT",
		LastPublished: &published,
		Dependencies: analysis.DependencyInfo{
			Summary: deps.Summary{Production: 31, Circular: []string{"a -> b -> a"}},
		},
		Security: analysis.SecurityInfo{
			VulnerabilityCount: 1,
			Vulnerabilities:    []registry.Vulnerability{{Severity: "high", Title: "Open redirect", PatchedVersions: ">=4.19.2"}},
		},
		VersionHistory: []analysis.VersionInfo{{Version: "4.18.2", ChangeType: analysis.ChangePatch}},
	}

	var buf bytes.Buffer
	writeReport(&buf, r)
	out := buf.String()

	for _, want := range []string{
		"express@4.18.2",
		"2024-03-25",
		"31",
		"a -> b -> a",
		"Open redirect",
		">=4.19.2",
		registry.BundleUnavailable,
		"Recent versions",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Alternatives") {
		t.Error("empty sections should be omitted")
	}
}

func TestWriteKeyValueSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeKeyValue(&buf, "Homepage", "")
	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing", buf.String())
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{12_300, "12.3k"},
		{4_100_000, "4.1M"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.n); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer description", 8, "a longe…"},
		{"ünïcödé text", 5, "ünïc…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := formatDate(nil); got != "" {
		t.Errorf("formatDate(nil) = %q", got)
	}
	d := time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC)
	if got := formatDate(&d); got != "2023-01-02" {
		t.Errorf("formatDate() = %q", got)
	}
}
