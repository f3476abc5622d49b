package domain_test

import (
	"testing"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortFindings_SeverityThenImpactThenLocation(t *testing.T) {
	findings := []domain.Finding{
		{Type: "c", Severity: domain.SeveritySuggestion, Impact: domain.ImpactLow, Location: domain.Location{File: "a.cdc", Line: 1}},
		{Type: "b", Severity: domain.SeverityCritical, Impact: domain.ImpactMedium, Location: domain.Location{File: "b.cdc", Line: 2}},
		{Type: "a", Severity: domain.SeverityCritical, Impact: domain.ImpactHigh, Location: domain.Location{File: "z.cdc", Line: 9}},
		{Type: "d", Severity: domain.SeverityWarning, Impact: domain.ImpactHigh, Location: domain.Location{File: "a.cdc", Line: 5}},
	}

	domain.SortFindings(findings)

	assert.Equal(t, "a", findings[0].Type)
	assert.Equal(t, "b", findings[1].Type)
	assert.Equal(t, "d", findings[2].Type)
	assert.Equal(t, "c", findings[3].Type)
}

func TestSortFindings_TiesBreakOnFileLineColumn(t *testing.T) {
	findings := []domain.Finding{
		{Severity: domain.SeverityCritical, Impact: domain.ImpactHigh, Location: domain.Location{File: "b.cdc", Line: 1, Column: 1}},
		{Severity: domain.SeverityCritical, Impact: domain.ImpactHigh, Location: domain.Location{File: "a.cdc", Line: 7, Column: 2}},
		{Severity: domain.SeverityCritical, Impact: domain.ImpactHigh, Location: domain.Location{File: "a.cdc", Line: 7, Column: 1}},
		{Severity: domain.SeverityCritical, Impact: domain.ImpactHigh, Location: domain.Location{File: "a.cdc", Line: 3, Column: 9}},
	}

	domain.SortFindings(findings)

	assert.Equal(t, domain.Location{File: "a.cdc", Line: 3, Column: 9}, findings[0].Location)
	assert.Equal(t, domain.Location{File: "a.cdc", Line: 7, Column: 1}, findings[1].Location)
	assert.Equal(t, domain.Location{File: "a.cdc", Line: 7, Column: 2}, findings[2].Location)
	assert.Equal(t, domain.Location{File: "b.cdc", Line: 1, Column: 1}, findings[3].Location)
}

func TestBuildScanResult_Counts(t *testing.T) {
	findings := []domain.Finding{
		{Type: "legacy-access-modifier", Severity: domain.SeverityCritical, Impact: domain.ImpactHigh, Location: domain.Location{File: "a.cdc", Line: 1}},
		{Type: "legacy-access-modifier", Severity: domain.SeverityCritical, Impact: domain.ImpactHigh, Location: domain.Location{File: "a.cdc", Line: 4}},
		{Type: "comma-interface-conformance", Severity: domain.SeverityWarning, Impact: domain.ImpactMedium, Location: domain.Location{File: "b.cdc", Line: 2}},
	}

	result := domain.BuildScanResult("/project", 10, findings)

	assert.Equal(t, 10, result.FilesScanned)
	assert.Equal(t, 2, result.FilesWithLegacyPatterns)
	assert.Equal(t, 3, result.TotalPatternsFound)
	assert.Equal(t, 2, result.CountsByType["legacy-access-modifier"])
	assert.Equal(t, 1, result.CountsByType["comma-interface-conformance"])
	assert.Equal(t, 2, result.CountsBySeverity[domain.SeverityCritical])
	assert.Contains(t, result.Summary, "found 3 legacy pattern(s) in 2 file(s)")
	assert.True(t, result.HasCritical())
}

func TestBuildScanResult_Empty(t *testing.T) {
	result := domain.BuildScanResult("/project", 4, nil)

	assert.Equal(t, 0, result.TotalPatternsFound)
	assert.Equal(t, "Scanned 4 file(s); no legacy patterns found.", result.Summary)
	assert.False(t, result.HasCritical())
}

func TestSyntaxValidationResult_IsValid(t *testing.T) {
	clean := &domain.SyntaxValidationResult{}
	assert.True(t, clean.IsValid())

	withStyle := &domain.SyntaxValidationResult{
		StyleWarnings: []domain.SyntaxIssue{{Message: "spacing", Severity: "warning"}},
	}
	assert.True(t, withStyle.IsValid(), "style warnings never block")

	withStructuralWarning := &domain.SyntaxValidationResult{
		StructuralIssues: []domain.SyntaxIssue{{Message: "no destroy", Severity: "warning"}},
	}
	assert.True(t, withStructuralWarning.IsValid())

	withStructuralError := &domain.SyntaxValidationResult{
		StructuralIssues: []domain.SyntaxIssue{{Message: "no init", Severity: "error"}},
	}
	assert.False(t, withStructuralError.IsValid())

	withBrackets := &domain.SyntaxValidationResult{
		BracketErrors: []domain.SyntaxIssue{{Message: "unclosed", Severity: "error"}},
	}
	assert.False(t, withBrackets.IsValid())
}

func TestMigrationStatistics_Invariant(t *testing.T) {
	stats := domain.MigrationStatistics{
		TotalFilesProcessed:  10,
		SuccessfulMigrations: 6,
		FailedMigrations:     2,
	}
	require.LessOrEqual(t, stats.SuccessfulMigrations+stats.FailedMigrations, stats.TotalFilesProcessed)
}
