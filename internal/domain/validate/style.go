package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/lexical"
)

var (
	// spaceBeforeCall matches an identifier separated from its call
	// parentheses by whitespace. Control-flow keywords are legitimate.
	spaceBeforeCall = regexp.MustCompile(`\b(\w+)[ \t]+\(`)
	controlKeywords = map[string]bool{
		"if": true, "while": true, "for": true, "switch": true,
		"return": true, "fun": true, "case": true, "in": true,
	}

	// tightOperator matches arithmetic operators with no surrounding
	// spaces. The slash is handled separately to spare path literals.
	tightOperator = regexp.MustCompile(`\w[+*%]\w`)
	tightSlash    = regexp.MustCompile(`\w/\w`)

	pathLiteral = regexp.MustCompile(`/(storage|public|private)/\w+`)

	moveOperator = regexp.MustCompile(`<-`)
)

// destroyPairWindow is how many lines around a move operator are
// searched for a teardown call.
const destroyPairWindow = 5

// CheckStyle emits warnings only: call/operator spacing, function name
// casing, and move operators with no teardown call nearby.
func CheckStyle(code string) []domain.SyntaxIssue {
	stripped := lexical.Strip(code)
	lines := strings.Split(stripped, "\n")

	var issues []domain.SyntaxIssue
	for i, line := range lines {
		issues = append(issues, checkSpacing(line, i+1)...)
		issues = append(issues, checkFunctionNames(line, i+1)...)
		issues = append(issues, checkMoves(lines, line, i)...)
	}
	return issues
}

func checkSpacing(line string, lineNum int) []domain.SyntaxIssue {
	var issues []domain.SyntaxIssue

	for _, m := range spaceBeforeCall.FindAllStringSubmatchIndex(line, -1) {
		name := line[m[2]:m[3]]
		if controlKeywords[name] {
			continue
		}
		issues = append(issues, domain.SyntaxIssue{
			Message:  fmt.Sprintf("space between %q and its call parentheses", name),
			Severity: "warning",
			Location: domain.CodeLocation{Line: lineNum, Column: m[0] + 1},
		})
	}

	if m := tightOperator.FindStringIndex(line); m != nil {
		issues = append(issues, domain.SyntaxIssue{
			Message:  "operator should be surrounded by spaces",
			Severity: "warning",
			Location: domain.CodeLocation{Line: lineNum, Column: m[0] + 2},
		})
	}
	if m := tightSlash.FindStringIndex(line); m != nil && !pathLiteral.MatchString(line) {
		issues = append(issues, domain.SyntaxIssue{
			Message:  "operator should be surrounded by spaces",
			Severity: "warning",
			Location: domain.CodeLocation{Line: lineNum, Column: m[0] + 2},
		})
	}
	return issues
}

// checkFunctionNames warns on function names that are not lowerCamelCase.
// The reserved lifecycle names are exempt.
func checkFunctionNames(line string, lineNum int) []domain.SyntaxIssue {
	var issues []domain.SyntaxIssue
	for _, m := range funDecl.FindAllStringSubmatchIndex(line, -1) {
		name := line[m[2]:m[3]]
		if lifecycleFuncs[name] || isLowerCamelCase(name) {
			continue
		}
		issues = append(issues, domain.SyntaxIssue{
			Message:  fmt.Sprintf("function name %q is not lowerCamelCase", name),
			Severity: "warning",
			Location: domain.CodeLocation{Line: lineNum, Column: m[2] + 1, Length: len(name)},
		})
	}
	return issues
}

func isLowerCamelCase(name string) bool {
	if name == "" || strings.Contains(name, "_") {
		return false
	}
	if !unicode.IsLower(rune(name[0])) {
		return false
	}
	// Every CamelCase word must be alphanumeric; splitting also rejects
	// digits-only fragments glued to symbols.
	for _, word := range camelcase.Split(name) {
		for _, r := range word {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return false
			}
		}
	}
	return true
}

// checkMoves warns when a move operator has no destroy call within a
// small window of surrounding lines. Heuristic resource-safety nudge.
func checkMoves(lines []string, line string, idx int) []domain.SyntaxIssue {
	m := moveOperator.FindStringIndex(line)
	if m == nil {
		return nil
	}

	start := idx - destroyPairWindow
	if start < 0 {
		start = 0
	}
	end := idx + destroyPairWindow
	if end >= len(lines) {
		end = len(lines) - 1
	}
	for j := start; j <= end; j++ {
		if strings.Contains(lines[j], "destroy") {
			return nil
		}
	}

	return []domain.SyntaxIssue{{
		Message:  "resource moved with no destroy call nearby",
		Severity: "warning",
		Location: domain.CodeLocation{Line: idx + 1, Column: m[0] + 1, Length: 2},
	}}
}
