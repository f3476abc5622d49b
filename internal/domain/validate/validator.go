// Package validate is the multi-pass textual analyzer. It never builds
// an AST: every pass works on raw text with the shared lexical
// stripping applied first.
package validate

import (
	"fmt"
	"regexp"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/lexical"
	"github.com/cadmod/cadmod/internal/domain/rules"
)

// Options tunes ValidateCode. Strict promotes warnings into errors.
type Options struct {
	Strict bool
}

// Rejection is the hot-path verdict returned by ShouldRejectCode.
type Rejection struct {
	ShouldReject bool   `json:"should_reject"`
	Reason       string `json:"reason,omitempty"`
}

type compiledPattern struct {
	re      *regexp.Regexp
	pattern domain.DetectionPattern
}

// Validator runs the legacy-pattern checks and the syntax passes.
type Validator struct {
	legacy    []compiledPattern
	rejection []compiledPattern
}

// New compiles the registry's detection patterns. A pattern that fails
// to compile aborts construction; the rule set is untrustworthy.
func New(reg *rules.Registry) (*Validator, error) {
	compile := func(patterns []domain.DetectionPattern) ([]compiledPattern, error) {
		out := make([]compiledPattern, 0, len(patterns))
		for _, p := range patterns {
			re, err := regexp.Compile(p.Pattern)
			if err != nil {
				return nil, fmt.Errorf("compiling detection pattern %q: %w", p.Type, err)
			}
			out = append(out, compiledPattern{re: re, pattern: p})
		}
		return out, nil
	}

	legacy, err := compile(reg.NeedsMigrationPatterns())
	if err != nil {
		return nil, err
	}
	rejection, err := compile(reg.RejectionPatterns())
	if err != nil {
		return nil, err
	}
	return &Validator{legacy: legacy, rejection: rejection}, nil
}

// ValidateSyntax runs every syntax pass and returns the decomposed
// diagnostics.
func (v *Validator) ValidateSyntax(code string) *domain.SyntaxValidationResult {
	return &domain.SyntaxValidationResult{
		BracketErrors:    CheckBrackets(code),
		StatementErrors:  CheckStatements(code),
		StyleWarnings:    CheckStyle(code),
		StructuralIssues: CheckStructure(code),
		FunctionIssues:   CheckFunctions(code),
		EventIssues:      CheckEvents(code),
	}
}

// ValidateCode runs the legacy-pattern checks plus full syntax
// validation and merges both into flat error/warning lists.
func (v *Validator) ValidateCode(code string, opts Options) *domain.ValidationResult {
	var errs, warns []string

	stripped := lexical.Strip(code)
	for _, p := range v.legacy {
		for _, loc := range p.re.FindAllStringIndex(stripped, -1) {
			line, col := lexical.LineColumn(stripped, loc[0])
			errs = append(errs, fmt.Sprintf("%d:%d: %s", line, col, p.pattern.Description))
		}
	}

	syntax := v.ValidateSyntax(code)
	flatten := func(issues []domain.SyntaxIssue) {
		for _, issue := range issues {
			rendered := fmt.Sprintf("%d:%d: %s", issue.Location.Line, issue.Location.Column, issue.Message)
			if issue.Severity == "error" {
				errs = append(errs, rendered)
			} else {
				warns = append(warns, rendered)
			}
		}
	}
	flatten(syntax.BracketErrors)
	flatten(syntax.StatementErrors)
	flatten(syntax.StructuralIssues)
	flatten(syntax.FunctionIssues)
	flatten(syntax.EventIssues)
	flatten(syntax.StyleWarnings)

	if opts.Strict {
		errs = append(errs, warns...)
	}

	return &domain.ValidationResult{
		IsValid:            len(errs) == 0,
		Errors:             errs,
		Warnings:           warns,
		CompilationSuccess: len(syntax.BracketErrors) == 0 && len(syntax.StatementErrors) == 0,
	}
}

// ShouldRejectCode is the short-circuit check against the fixed
// automatic-rejection patterns, run on the hot path before the full
// validator.
func (v *Validator) ShouldRejectCode(code string) Rejection {
	stripped := lexical.Strip(code)
	for _, p := range v.rejection {
		if p.re.MatchString(stripped) {
			return Rejection{ShouldReject: true, Reason: p.pattern.Description}
		}
	}
	return Rejection{}
}
