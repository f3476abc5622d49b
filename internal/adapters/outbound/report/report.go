// Package report renders a ScanResult in the three supported output
// formats. All formats derive from the same result; nothing re-scans.
package report

import (
	"fmt"
	"time"

	"github.com/cadmod/cadmod/internal/domain"
)

// Format selects the report output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
)

// Grouping selects how the markdown report groups findings.
type Grouping string

const (
	GroupByFile     Grouping = "file"
	GroupBySeverity Grouping = "severity"
)

// Options tunes report generation.
type Options struct {
	Format         Format
	GroupBy        Grouping
	IncludeContext bool
	CommitHash     string
	// GeneratedAt overrides the report timestamp; zero means now.
	// Fixing it makes report output reproducible.
	GeneratedAt time.Time
}

// Generate renders the scan result in the requested format.
func Generate(result *domain.ScanResult, opts Options) (string, error) {
	switch opts.Format {
	case FormatMarkdown, "":
		return renderMarkdown(result, opts), nil
	case FormatJSON:
		return renderJSON(result, opts)
	case FormatCSV:
		return renderCSV(result)
	default:
		return "", fmt.Errorf("unknown report format %q", opts.Format)
	}
}

func (o Options) timestamp() time.Time {
	if o.GeneratedAt.IsZero() {
		return time.Now().UTC()
	}
	return o.GeneratedAt.UTC()
}
