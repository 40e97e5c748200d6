package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stacklens/pkg/analysis"
	"github.com/matzehuels/stacklens/pkg/registry"
)

const dateFormat = "2006-01-02"

// writeReport renders a full package report.
func writeReport(w io.Writer, r *analysis.Report) {
	fmt.Fprintln(w, StyleTitle.Render(r.Name+"@"+r.Version))
	if r.Description != "" {
		fmt.Fprintln(w, StyleDim.Render(r.Description))
	}

	writeSection(w, "Package")
	writeKeyValue(w, "License", r.License)
	writeKeyValue(w, "Author", r.Author)
	writeKeyValue(w, "Homepage", r.Homepage)
	writeKeyValue(w, "Repository", r.Repository)
	writeKeyValue(w, "Last published", formatDate(r.LastPublished))

	writeBundle(w, r.BundleSize)

	d := r.Dependencies
	writeSection(w, "Dependencies")
	writeKeyValue(w, "Production", strconv.Itoa(d.Production))
	writeKeyValue(w, "Development", strconv.Itoa(d.Dev))
	writeKeyValue(w, "Peer", strconv.Itoa(d.Peer))
	writeKeyValue(w, "Optional", strconv.Itoa(d.Optional))
	if len(d.Duplicates) > 0 {
		writeKeyValue(w, "Duplicates", strings.Join(d.Duplicates, ", "))
	}
	for _, c := range d.Conflicts {
		writeBullet(w, StyleWarning.Render(c.PackageName), strings.Join(c.ConflictingVersions, " vs ")+" ("+c.Severity+")")
	}
	for _, cycle := range d.Circular {
		writeBullet(w, StyleDanger.Render("cycle"), cycle)
	}

	writeSecurity(w, r.Security)

	m := r.Maintenance
	writeSection(w, "Maintenance")
	writeKeyValue(w, "Score", formatScore(m.MaintenanceScore))
	writeKeyValue(w, "Active", yesNo(m.ActivelyMaintained))
	writeKeyValue(w, "Last commit", formatDate(m.LastCommit))
	writeKeyValue(w, "Open issues", strconv.Itoa(m.OpenIssues))
	if m.Archived {
		writeKeyValue(w, "Archived", StyleDanger.Render("yes"))
	}

	p := r.Popularity
	writeSection(w, "Popularity")
	writeKeyValue(w, "Weekly", formatCount(p.WeeklyDownloads))
	writeKeyValue(w, "Monthly", formatCount(p.MonthlyDownloads))
	writeKeyValue(w, "Stars", formatCount(int64(p.GitHubStars)))
	writeKeyValue(w, "npm score", strconv.Itoa(p.NpmScore))

	writeAlternatives(w, r.Alternatives)
	writeSuggestions(w, r.Optimizations)
	writeVersionHistory(w, r.VersionHistory)
}

func writeBundle(w io.Writer, b analysis.BundleSizeInfo) {
	writeSection(w, "Bundle")
	if b.Uncompressed == 0 && b.Gzipped == 0 {
		fmt.Fprintln(w, "  "+StyleDim.Render(registry.BundleUnavailable))
		return
	}
	writeKeyValue(w, "Minified", analysis.FormatBytes(b.Uncompressed))
	writeKeyValue(w, "Gzipped", analysis.FormatBytes(b.Gzipped))
	if b.Brotli > 0 {
		writeKeyValue(w, "Brotli", analysis.FormatBytes(b.Brotli))
	}
	writeKeyValue(w, "Tree-shakable", yesNo(b.Treeshakable))
	writeKeyValue(w, "Details", b.BundleAnalysisURL)
}

func writeSecurity(w io.Writer, s analysis.SecurityInfo) {
	writeSection(w, "Security")
	count := strconv.Itoa(s.VulnerabilityCount)
	if s.VulnerabilityCount > 0 {
		count = StyleDanger.Render(count)
	}
	writeKeyValue(w, "Advisories", count)
	writeKeyValue(w, "License type", s.LicenseCompatibility)
	for _, v := range s.Vulnerabilities {
		writeBullet(w, severityStyle(v.Severity).Render(v.Severity)+" "+v.Title, v.PatchedVersions)
	}
	if s.HasDeprecatedDependencies {
		writeKeyValue(w, "Deprecated", StyleWarning.Render(strings.Join(s.DeprecatedPackages, ", ")))
	}
}

func writeAlternatives(w io.Writer, alts []registry.Alternative) {
	if len(alts) == 0 {
		return
	}
	writeSection(w, "Alternatives")
	for _, a := range alts {
		writeBullet(w, StyleNumber.Render(a.Name), a.Description)
	}
}

func writeSuggestions(w io.Writer, suggestions []analysis.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	writeSection(w, "Suggestions")
	for _, s := range suggestions {
		detail := string(s.Impact) + " impact"
		if s.PotentialSavings > 0 {
			detail += ", saves ~" + analysis.FormatBytes(s.PotentialSavings)
		}
		writeBullet(w, s.Title, detail)
		if s.Recommendation != "" {
			fmt.Fprintln(w, "    "+StyleDim.Render(s.Recommendation))
		}
	}
}

func writeVersionHistory(w io.Writer, versions []analysis.VersionInfo) {
	if len(versions) == 0 {
		return
	}
	writeSection(w, "Recent versions")
	rows := make([][]string, 0, len(versions))
	for _, v := range versions {
		note := ""
		if v.Deprecated {
			note = "deprecated"
		}
		rows = append(rows, []string{v.Version, formatDate(v.PublishedDate), string(v.ChangeType), note})
	}
	fmt.Fprintln(w, newTable([]string{"Version", "Published", "Change", ""}, rows).Render())
}

// writeComparison renders one row per package, sorted by name.
func writeComparison(w io.Writer, reports map[string]*analysis.Report) {
	names := make([]string, 0, len(reports))
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		r := reports[name]
		rows = append(rows, []string{
			name,
			r.Version,
			analysis.FormatBytes(r.BundleSize.Gzipped),
			strconv.Itoa(r.Dependencies.Production),
			strconv.Itoa(r.Security.VulnerabilityCount),
			formatCount(r.Popularity.WeeklyDownloads),
			strconv.Itoa(r.Popularity.NpmScore),
		})
	}
	fmt.Fprintln(w, newTable([]string{"Package", "Version", "Gzipped", "Deps", "Advisories", "Weekly", "Score"}, rows).Render())
}

// writeSearchResults renders search hits as a table.
func writeSearchResults(w io.Writer, results []registry.SearchResult) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, r.Version, truncate(r.Description, 60)})
	}
	fmt.Fprintln(w, newTable([]string{"Package", "Version", "Description"}, rows).Render())
}

func newTable(headers []string, rows [][]string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		})
}

// =============================================================================
// Formatting
// =============================================================================

func severityStyle(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "critical", "high":
		return StyleDanger
	case "moderate", "medium":
		return StyleWarning
	default:
		return StyleDim
	}
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatCount abbreviates large counts: 950, 12.3k, 4.1M.
func formatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "k"
	default:
		return strconv.FormatInt(n, 10)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
