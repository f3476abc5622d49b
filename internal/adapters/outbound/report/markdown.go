package report

import (
	"fmt"
	"strings"

	"github.com/cadmod/cadmod/internal/domain"
)

func renderMarkdown(result *domain.ScanResult, opts Options) string {
	var b strings.Builder

	b.WriteString("# Legacy Syntax Scan Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", opts.timestamp().Format("2006-01-02 15:04:05 UTC"))
	if opts.CommitHash != "" {
		fmt.Fprintf(&b, "Commit: `%s`\n\n", opts.CommitHash)
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "%s\n\n", result.Summary)
	fmt.Fprintf(&b, "- Files scanned: %d\n", result.FilesScanned)
	fmt.Fprintf(&b, "- Files with legacy patterns: %d\n", result.FilesWithLegacyPatterns)
	fmt.Fprintf(&b, "- Total patterns found: %d\n\n", result.TotalPatternsFound)

	if result.TotalPatternsFound == 0 {
		return b.String()
	}

	if opts.GroupBy == GroupBySeverity {
		renderBySeverity(&b, result, opts)
	} else {
		renderByFile(&b, result, opts)
	}
	return b.String()
}

func renderByFile(b *strings.Builder, result *domain.ScanResult, opts Options) {
	b.WriteString("## Findings by File\n\n")

	// Findings are already sorted; preserve first-appearance order of
	// files so the report stays deterministic.
	var order []string
	grouped := make(map[string][]domain.Finding)
	for _, f := range result.Findings {
		file := f.Location.File
		if _, seen := grouped[file]; !seen {
			order = append(order, file)
		}
		grouped[file] = append(grouped[file], f)
	}

	for _, file := range order {
		fmt.Fprintf(b, "### %s\n\n", file)
		for _, f := range grouped[file] {
			renderFinding(b, f, opts)
		}
	}
}

func renderBySeverity(b *strings.Builder, result *domain.ScanResult, opts Options) {
	b.WriteString("## Findings by Severity\n\n")

	for _, sev := range []string{domain.SeverityCritical, domain.SeverityWarning, domain.SeveritySuggestion} {
		var findings []domain.Finding
		for _, f := range result.Findings {
			if f.Severity == sev {
				findings = append(findings, f)
			}
		}
		if len(findings) == 0 {
			continue
		}
		fmt.Fprintf(b, "### %s (%d)\n\n", strings.ToUpper(sev[:1])+sev[1:], len(findings))
		for _, f := range findings {
			renderFinding(b, f, opts)
		}
	}
}

func renderFinding(b *strings.Builder, f domain.Finding, opts Options) {
	fmt.Fprintf(b, "- **%s** `%s` at %s:%d:%d (%s severity, %s impact)\n",
		f.Type, f.Pattern, f.Location.File, f.Location.Line, f.Location.Column, f.Severity, f.Impact)
	fmt.Fprintf(b, "  - %s\n", f.Description)
	if f.SuggestedFix != "" {
		fmt.Fprintf(b, "  - Fix: %s\n", f.SuggestedFix)
	}
	if opts.IncludeContext && f.Location.Context != "" {
		b.WriteString("\n  ```cadence\n")
		for _, line := range strings.Split(f.Location.Context, "\n") {
			fmt.Fprintf(b, "  %s\n", line)
		}
		b.WriteString("  ```\n")
	}
	b.WriteString("\n")
}
