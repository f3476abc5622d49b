package report

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/cadmod/cadmod/internal/domain"
)

var csvHeader = []string{
	"file", "line", "column", "type", "severity", "impact",
	"pattern", "description", "suggested_fix", "context",
}

// renderCSV emits one row per finding. encoding/csv quotes embedded
// commas and doubles embedded quotes, which the context and description
// fields depend on.
func renderCSV(result *domain.ScanResult) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, f := range result.Findings {
		row := []string{
			f.Location.File,
			strconv.Itoa(f.Location.Line),
			strconv.Itoa(f.Location.Column),
			f.Type,
			f.Severity,
			f.Impact,
			f.Pattern,
			f.Description,
			f.SuggestedFix,
			f.Location.Context,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return b.String(), w.Error()
}
