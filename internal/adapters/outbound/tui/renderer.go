// Package tui renders scan and migration results for the terminal.
package tui

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/cadmod/cadmod/internal/domain"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3")
	dim     = lipgloss.Color("#6B7280")
	faint   = lipgloss.Color("#3F3F46")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
	info    = lipgloss.Color("#8B949E")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(64)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	criticalStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	infoStyle     = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	separatorLine = faintStyle.Render(strings.Repeat("─", 60))
)

func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case domain.SeverityCritical:
		return criticalStyle
	case domain.SeverityWarning:
		return warnStyle
	default:
		return infoStyle
	}
}

// RenderScan renders a full scan result: header box, per-type table,
// then the ordered findings.
func RenderScan(result *domain.ScanResult) string {
	var b strings.Builder

	title := headerStyle.Render("cadmod")
	subtitle := dimStyle.Render("Legacy Syntax Scan")
	verdict := passStyle.Render("clean")
	if result.HasCritical() {
		verdict = criticalStyle.Render(fmt.Sprintf("%d critical", result.CountsBySeverity[domain.SeverityCritical]))
	} else if result.TotalPatternsFound > 0 {
		verdict = warnStyle.Render(fmt.Sprintf("%d finding(s)", result.TotalPatternsFound))
	}

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + verdict))
	b.WriteString("\n\n")
	b.WriteString("  " + dimStyle.Render(result.Summary))
	b.WriteString("\n\n")

	if result.TotalPatternsFound == 0 {
		b.WriteString("  " + passStyle.Render("No legacy patterns found.") + "\n")
		return b.String()
	}

	b.WriteString(renderTypeTable(result))
	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	for _, f := range result.Findings {
		renderFinding(&b, f)
	}
	return b.String()
}

func renderTypeTable(result *domain.ScanResult) string {
	types := make([]string, 0, len(result.CountsByType))
	for t := range result.CountsByType {
		types = append(types, t)
	}
	sort.Strings(types)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Pattern Type", "Count"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})
	for _, t := range types {
		table.Append([]string{t, fmt.Sprintf("%d", result.CountsByType[t])})
	}
	table.SetFooter([]string{"Total", fmt.Sprintf("%d", result.TotalPatternsFound)})
	table.Render()
	return buf.String()
}

func renderFinding(b *strings.Builder, f domain.Finding) {
	tag := severityStyle(f.Severity).Render(fmt.Sprintf("[%s]", f.Severity))
	location := fileStyle.Render(fmt.Sprintf("%s:%d:%d", f.Location.File, f.Location.Line, f.Location.Column))
	fmt.Fprintf(b, "  %s %s %s\n", tag, location, titleStyle.Render(f.Description))
	fmt.Fprintf(b, "      %s\n", dimStyle.Render(f.Pattern))
	if f.SuggestedFix != "" {
		fmt.Fprintf(b, "      %s\n", infoStyle.Render("fix: "+f.SuggestedFix))
	}
}

// RenderMigration renders the outcome of a template migration run.
func RenderMigration(run *domain.MigrationRun) string {
	var b strings.Builder

	title := headerStyle.Render("cadmod")
	subtitle := dimStyle.Render("Template Migration")
	stats := run.Statistics
	verdict := passStyle.Render(fmt.Sprintf("%d migrated", stats.SuccessfulMigrations))
	if stats.FailedMigrations > 0 {
		verdict = criticalStyle.Render(fmt.Sprintf("%d failed", stats.FailedMigrations))
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + verdict))
	b.WriteString("\n\n")

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.Append([]string{"Templates processed", fmt.Sprintf("%d", stats.TotalFilesProcessed)})
	table.Append([]string{"Successful migrations", fmt.Sprintf("%d", stats.SuccessfulMigrations)})
	table.Append([]string{"Failed migrations", fmt.Sprintf("%d", stats.FailedMigrations)})
	table.Append([]string{"Transformations applied", fmt.Sprintf("%d", stats.TransformationsApplied)})
	table.Append([]string{"Lines migrated", fmt.Sprintf("%d", stats.LinesOfCodeMigrated)})
	table.Render()
	b.Write(buf.Bytes())
	b.WriteString("\n")

	for _, r := range run.Results {
		switch {
		case r.Error != "":
			fmt.Fprintf(&b, "  %s %s: %s\n", criticalStyle.Render("✗"), r.TemplateName, r.Error)
		case r.Migrated:
			fmt.Fprintf(&b, "  %s %s (%s)\n", passStyle.Render("✓"), r.TemplateName,
				strings.Join(r.TransformationsApplied, ", "))
		default:
			fmt.Fprintf(&b, "  %s %s already modern\n", faintStyle.Render("○"), r.TemplateName)
		}
	}
	return b.String()
}
