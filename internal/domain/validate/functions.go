package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/lexical"
)

// lifecycleFuncs are the reserved constructor/destructor functions.
// They never require a return type and are exempt from naming checks.
var lifecycleFuncs = map[string]bool{"init": true, "destroy": true}

var funDecl = regexp.MustCompile(`\bfun\s+(\w+)`)

// returnsValue matches a return statement that carries an expression.
var returnsValue = regexp.MustCompile(`\breturn\s+\S`)

// CheckFunctions validates every function declaration: incomplete
// signatures, missing bodies and missing return types.
func CheckFunctions(code string) []domain.SyntaxIssue {
	stripped := lexical.Strip(code)
	lines := strings.Split(stripped, "\n")

	var issues []domain.SyntaxIssue
	for i, line := range lines {
		m := funDecl.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		name := line[m[2]:m[3]]
		lineNum := i + 1
		col := m[0] + 1

		opens := strings.Count(line, "(")
		closes := strings.Count(line, ")")
		if opens != closes {
			issues = append(issues, domain.SyntaxIssue{
				Message:  fmt.Sprintf("incomplete signature for function %q: unbalanced parentheses", name),
				Severity: "error",
				Location: domain.CodeLocation{Line: lineNum, Column: col, Length: m[3] - m[0]},
			})
			continue
		}
		if opens == 0 {
			issues = append(issues, domain.SyntaxIssue{
				Message:  fmt.Sprintf("incomplete signature for function %q: missing parameter list", name),
				Severity: "error",
				Location: domain.CodeLocation{Line: lineNum, Column: col, Length: m[3] - m[0]},
			})
			continue
		}

		body, hasBody := functionBody(lines, i)
		if !hasBody {
			issues = append(issues, domain.SyntaxIssue{
				Message:  fmt.Sprintf("function %q has no body", name),
				Severity: "error",
				Location: domain.CodeLocation{Line: lineNum, Column: col, Length: m[3] - m[0]},
			})
			continue
		}

		if lifecycleFuncs[name] {
			continue
		}
		if returnsValue.MatchString(body) && !hasReturnType(line, m[3]) {
			issues = append(issues, domain.SyntaxIssue{
				Message:  fmt.Sprintf("function %q returns a value but declares no return type", name),
				Severity: "error",
				Location: domain.CodeLocation{Line: lineNum, Column: col, Length: m[3] - m[0]},
			})
		}
	}
	return issues
}

// hasReturnType reports whether a declaration annotates a return type
// after the parameter list's closing paren. from is the offset just
// past the function name, so parens in a same-line body or in an access
// modifier never shift the search.
func hasReturnType(line string, from int) bool {
	sig := line
	if brace := strings.Index(sig[from:], "{"); brace >= 0 {
		sig = sig[:from+brace]
	}
	depth := 0
	for i := from; i < len(sig); i++ {
		switch sig[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return strings.Contains(sig[i+1:], ":")
			}
		}
	}
	return false
}

// functionBody returns the brace-delimited body text of the function
// declared at declLine, and whether an opening brace was found on the
// declaration line or the next non-blank line.
func functionBody(lines []string, declLine int) (string, bool) {
	start := -1
	if strings.Contains(lines[declLine], "{") {
		start = declLine
	} else {
		for j := declLine + 1; j < len(lines); j++ {
			trimmed := strings.TrimSpace(lines[j])
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "{") {
				start = j
			}
			break
		}
	}
	if start == -1 {
		return "", false
	}

	var b strings.Builder
	depth := 0
	opened := false
	for j := start; j < len(lines); j++ {
		for _, c := range lines[j] {
			switch c {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}
		if j > start || opened {
			b.WriteString(lines[j])
			b.WriteString("\n")
		}
		if opened && depth <= 0 {
			return b.String(), true
		}
	}
	return b.String(), opened
}
