package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Severity of a finding or issue.
const (
	SeverityCritical   = "critical"
	SeverityWarning    = "warning"
	SeveritySuggestion = "suggestion"
)

// Impact describes how disruptive a legacy construct is to migrate.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// Rule categories. Every transformation rule and detection pattern
// belongs to exactly one.
const (
	CategoryAccessModifier = "access-modifier"
	CategoryInterface      = "interface"
	CategoryStorage        = "storage"
	CategoryFunction       = "function"
	CategoryImport         = "import"
)

// Location points at one occurrence inside a scanned file or template.
// Line and Column are 1-based.
type Location struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Context string `json:"context,omitempty"`
}

// Finding is one located occurrence of a legacy construct.
// Findings are never deduplicated: two hits on the same line are two findings.
type Finding struct {
	Type         string   `json:"type"`
	Pattern      string   `json:"pattern"`
	Location     Location `json:"location"`
	Severity     string   `json:"severity"`
	Description  string   `json:"description"`
	SuggestedFix string   `json:"suggested_fix,omitempty"`
	Impact       string   `json:"impact"`
}

// ScanResult aggregates the findings of one scan over a tree or a
// template corpus.
type ScanResult struct {
	RootPath                string         `json:"root_path,omitempty"`
	FilesScanned            int            `json:"files_scanned"`
	FilesWithLegacyPatterns int            `json:"files_with_legacy_patterns"`
	TotalPatternsFound      int            `json:"total_patterns_found"`
	CountsByType            map[string]int `json:"counts_by_type"`
	CountsBySeverity        map[string]int `json:"counts_by_severity"`
	Findings                []Finding      `json:"findings"`
	Summary                 string         `json:"summary"`
}

var severityRank = map[string]int{
	SeverityCritical:   0,
	SeverityWarning:    1,
	SeveritySuggestion: 2,
}

var impactRank = map[string]int{
	ImpactHigh:   0,
	ImpactMedium: 1,
	ImpactLow:    2,
}

// SortFindings orders findings by severity desc, impact desc, then file
// and line so that repeated scans of an unchanged tree serialize
// byte-identically.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if severityRank[a.Severity] != severityRank[b.Severity] {
			return severityRank[a.Severity] < severityRank[b.Severity]
		}
		if impactRank[a.Impact] != impactRank[b.Impact] {
			return impactRank[a.Impact] < impactRank[b.Impact]
		}
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		return a.Location.Column < b.Location.Column
	})
}

// BuildScanResult assembles counts, ordering and the prose summary from
// raw findings. totalFiles is the number of files (or templates) scanned.
func BuildScanResult(rootPath string, totalFiles int, findings []Finding) *ScanResult {
	SortFindings(findings)

	byType := make(map[string]int)
	bySeverity := make(map[string]int)
	files := make(map[string]bool)
	for _, f := range findings {
		byType[f.Type]++
		bySeverity[f.Severity]++
		files[f.Location.File] = true
	}

	result := &ScanResult{
		RootPath:                rootPath,
		FilesScanned:            totalFiles,
		FilesWithLegacyPatterns: len(files),
		TotalPatternsFound:      len(findings),
		CountsByType:            byType,
		CountsBySeverity:        bySeverity,
		Findings:                findings,
	}
	result.Summary = summarize(result)
	return result
}

func summarize(r *ScanResult) string {
	if r.TotalPatternsFound == 0 {
		return fmt.Sprintf("Scanned %d file(s); no legacy patterns found.", r.FilesScanned)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scanned %d file(s); found %d legacy pattern(s) in %d file(s).",
		r.FilesScanned, r.TotalPatternsFound, r.FilesWithLegacyPatterns)
	for _, sev := range []string{SeverityCritical, SeverityWarning, SeveritySuggestion} {
		if n := r.CountsBySeverity[sev]; n > 0 {
			fmt.Fprintf(&b, " %s: %d.", sev, n)
		}
	}
	return b.String()
}

// HasCritical reports whether any finding is critical. The scan
// command's exit code hangs off this.
func (r *ScanResult) HasCritical() bool {
	return r.CountsBySeverity[SeverityCritical] > 0
}

// ValidationResult is the flat verdict returned by ValidateCode.
// IsValid is true iff Errors is empty. Warnings only block when the
// caller opted into strict mode, in which case they are promoted into
// Errors before the verdict is computed.
type ValidationResult struct {
	IsValid            bool     `json:"is_valid"`
	Errors             []string `json:"errors"`
	Warnings           []string `json:"warnings"`
	CompilationSuccess bool     `json:"compilation_success"`
}

// CodeLocation points inside a single code string. 1-based, with an
// optional matched-token length.
type CodeLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Length int `json:"length,omitempty"`
}

// SyntaxIssue is one diagnostic from a validator pass.
type SyntaxIssue struct {
	Message  string       `json:"message"`
	Severity string       `json:"severity"`
	Location CodeLocation `json:"location"`
}

// SyntaxValidationResult holds the decomposed diagnostics of the
// multi-pass validator.
type SyntaxValidationResult struct {
	BracketErrors    []SyntaxIssue `json:"bracket_errors"`
	StatementErrors  []SyntaxIssue `json:"statement_errors"`
	StyleWarnings    []SyntaxIssue `json:"style_warnings"`
	StructuralIssues []SyntaxIssue `json:"structural_issues"`
	FunctionIssues   []SyntaxIssue `json:"function_issues"`
	EventIssues      []SyntaxIssue `json:"event_issues"`
}

// IsValid requires zero bracket/statement errors, zero error-severity
// structural issues, and zero function/event issues. Style warnings and
// warning-severity structural issues never block.
func (r *SyntaxValidationResult) IsValid() bool {
	if len(r.BracketErrors) > 0 || len(r.StatementErrors) > 0 {
		return false
	}
	for _, issue := range r.StructuralIssues {
		if issue.Severity == "error" {
			return false
		}
	}
	return len(r.FunctionIssues) == 0 && len(r.EventIssues) == 0
}

// MigrationStatistics accumulates over one controller run.
// Invariant: SuccessfulMigrations + FailedMigrations <= TotalFilesProcessed.
type MigrationStatistics struct {
	TotalFilesProcessed    int `json:"total_files_processed"`
	SuccessfulMigrations   int `json:"successful_migrations"`
	FailedMigrations       int `json:"failed_migrations"`
	TransformationsApplied int `json:"transformations_applied"`
	LinesOfCodeMigrated    int `json:"lines_of_code_migrated"`
}

// Template is one named source sample from the external template store.
// Only the migration controller mutates templates, and only after a
// successful transform plus re-validation. On failure the original is
// retained verbatim.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Code        string   `json:"code"`
	Author      string   `json:"author,omitempty"`
	Downloads   int      `json:"downloads,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
}

// TemplateMigration records the outcome of migrating one template.
type TemplateMigration struct {
	TemplateID             string   `json:"template_id"`
	TemplateName           string   `json:"template_name"`
	Migrated               bool     `json:"migrated"`
	TransformationsApplied []string `json:"transformations_applied,omitempty"`
	ValidationPassed       bool     `json:"validation_passed"`
	Error                  string   `json:"error,omitempty"`
}

// MigrationRun is the full result of processing a template corpus.
type MigrationRun struct {
	Templates  []Template          `json:"templates"`
	Results    []TemplateMigration `json:"results"`
	Statistics MigrationStatistics `json:"statistics"`
	Errors     []MigrationError    `json:"errors,omitempty"`
	Warnings   []MigrationWarning  `json:"warnings,omitempty"`
}
