package domain

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
)

// Error categories. Configuration failures are not collected here; they
// abort the run before any scanning or migration begins.
const (
	ErrorCategorySyntax         = "syntax"
	ErrorCategoryTransformation = "transformation"
	ErrorCategoryValidation     = "validation"
	ErrorCategorySystem         = "system"
)

// MigrationError is one recorded per-item failure.
type MigrationError struct {
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Severity string `json:"severity"`
}

// MigrationWarning is a non-blocking observation recorded during a run.
type MigrationWarning struct {
	File       string `json:"file"`
	Line       int    `json:"line,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// CollectorStatistics summarizes a collector's contents.
type CollectorStatistics struct {
	TotalErrors      int            `json:"total_errors"`
	TotalWarnings    int            `json:"total_warnings"`
	ErrorsByCategory map[string]int `json:"errors_by_category"`
	ErrorsBySeverity map[string]int `json:"errors_by_severity"`
	AffectedFiles    []string       `json:"affected_files"`
}

// Collector accumulates errors and warnings for a single run. Each run
// owns its own instance; there is no process-wide shared collector.
// Appends are mutex-guarded so parallel migration workers can share one.
type Collector struct {
	mu       sync.Mutex
	log      *slog.Logger
	errors   []MigrationError
	warnings []MigrationWarning
}

// NewCollector returns an empty collector logging through logger.
// A nil logger falls back to slog.Default.
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{log: logger}
}

// CreateError records an error and emits a log record for it.
func (c *Collector) CreateError(file, message, category, severity string, line, column int) MigrationError {
	if severity == "" {
		severity = SeverityCritical
	}
	e := MigrationError{
		File:     file,
		Line:     line,
		Column:   column,
		Message:  message,
		Category: category,
		Severity: severity,
	}

	c.mu.Lock()
	c.errors = append(c.errors, e)
	c.mu.Unlock()

	c.log.Error("migration error",
		"file", file, "category", category, "severity", severity,
		"line", line, "message", message)
	return e
}

// CreateWarning records a warning and emits a log record for it.
func (c *Collector) CreateWarning(file, message string, line int, suggestion string) MigrationWarning {
	w := MigrationWarning{
		File:       file,
		Line:       line,
		Message:    message,
		Suggestion: suggestion,
	}

	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()

	c.log.Warn("migration warning", "file", file, "line", line, "message", message)
	return w
}

// Errors returns a copy of all recorded errors.
func (c *Collector) Errors() []MigrationError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]MigrationError, len(c.errors))
	copy(out, c.errors)
	return out
}

// Warnings returns a copy of all recorded warnings.
func (c *Collector) Warnings() []MigrationWarning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]MigrationWarning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// ErrorsForFile returns the errors recorded against one file.
func (c *Collector) ErrorsForFile(file string) []MigrationError {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []MigrationError
	for _, e := range c.errors {
		if e.File == file {
			out = append(out, e)
		}
	}
	return out
}

// ErrorsForCategory returns the errors recorded under one category.
func (c *Collector) ErrorsForCategory(category string) []MigrationError {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []MigrationError
	for _, e := range c.errors {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// HasErrors reports whether any error was recorded.
func (c *Collector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors) > 0
}

// HasCriticalErrors reports whether any critical-severity error was recorded.
func (c *Collector) HasCriticalErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.errors {
		if e.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// Statistics returns per-category/per-severity counts and the sorted
// set of distinct affected files.
func (c *Collector) Statistics() CollectorStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()

	byCategory := make(map[string]int)
	bySeverity := make(map[string]int)
	files := make(map[string]bool)
	for _, e := range c.errors {
		byCategory[e.Category]++
		bySeverity[e.Severity]++
		files[e.File] = true
	}
	for _, w := range c.warnings {
		files[w.File] = true
	}

	affected := make([]string, 0, len(files))
	for f := range files {
		affected = append(affected, f)
	}
	sort.Strings(affected)

	return CollectorStatistics{
		TotalErrors:      len(c.errors),
		TotalWarnings:    len(c.warnings),
		ErrorsByCategory: byCategory,
		ErrorsBySeverity: bySeverity,
		AffectedFiles:    affected,
	}
}

// Report renders a deterministic plain-text summary of the collector.
func (c *Collector) Report() string {
	stats := c.Statistics()
	errs := c.Errors()
	warns := c.Warnings()

	var b strings.Builder
	fmt.Fprintf(&b, "Migration report: %d error(s), %d warning(s)\n\n",
		stats.TotalErrors, stats.TotalWarnings)

	if stats.TotalErrors > 0 {
		table := tablewriter.NewWriter(&b)
		table.SetHeader([]string{"Category", "Count"})
		table.SetBorder(false)
		table.SetCenterSeparator("")
		categories := make([]string, 0, len(stats.ErrorsByCategory))
		for cat := range stats.ErrorsByCategory {
			categories = append(categories, cat)
		}
		sort.Strings(categories)
		for _, cat := range categories {
			table.Append([]string{cat, fmt.Sprintf("%d", stats.ErrorsByCategory[cat])})
		}
		table.Render()
		b.WriteString("\n")
	}

	for _, e := range errs {
		if e.Line > 0 {
			fmt.Fprintf(&b, "ERROR [%s] %s:%d: %s\n", e.Category, e.File, e.Line, e.Message)
		} else {
			fmt.Fprintf(&b, "ERROR [%s] %s: %s\n", e.Category, e.File, e.Message)
		}
	}
	for _, w := range warns {
		if w.Line > 0 {
			fmt.Fprintf(&b, "WARN  %s:%d: %s\n", w.File, w.Line, w.Message)
		} else {
			fmt.Fprintf(&b, "WARN  %s: %s\n", w.File, w.Message)
		}
		if w.Suggestion != "" {
			fmt.Fprintf(&b, "      suggestion: %s\n", w.Suggestion)
		}
	}

	if len(stats.AffectedFiles) > 0 {
		fmt.Fprintf(&b, "\nAffected files: %s\n", strings.Join(stats.AffectedFiles, ", "))
	}
	return b.String()
}

// Reset clears the collector for reuse between independent runs.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = nil
	c.warnings = nil
}
