package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/lexical"
)

var (
	// bareBinding matches `var x` / `let x` with neither a type
	// annotation nor an initializer on the line.
	bareBinding = regexp.MustCompile(`\b(var|let)\s+(\w+)\s*$`)

	// statementKeywords open statements that must end in a terminator
	// or a brace. Control flow and return are deliberately excluded.
	statementKeywords = regexp.MustCompile(`^\s*(var|let|import|pre|post|emit)\b`)
)

// continuationEnd flags a line that trails off mid-expression.
const continuationEnd = "=+-*/%,.<>&|:("

// CheckStatements flags incomplete declarations and dangling statements.
func CheckStatements(code string) []domain.SyntaxIssue {
	stripped := lexical.Strip(code)
	lines := strings.Split(stripped, "\n")

	var issues []domain.SyntaxIssue
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}

		if m := bareBinding.FindStringSubmatchIndex(trimmed); m != nil {
			issues = append(issues, domain.SyntaxIssue{
				Message: fmt.Sprintf("declaration of %q has neither a type annotation nor an initializer",
					trimmed[m[4]:m[5]]),
				Severity: "error",
				Location: domain.CodeLocation{Line: i + 1, Column: m[0] + 1},
			})
			continue
		}

		if statementKeywords.MatchString(trimmed) {
			last := trimmed[len(trimmed)-1]
			if strings.IndexByte(continuationEnd, last) >= 0 {
				issues = append(issues, domain.SyntaxIssue{
					Message:  fmt.Sprintf("statement ends mid-expression with %q", string(last)),
					Severity: "error",
					Location: domain.CodeLocation{Line: i + 1, Column: len(trimmed)},
				})
			}
		}
	}
	return issues
}
