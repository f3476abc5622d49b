package validate

import (
	"fmt"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/lexical"
)

var bracketPairs = map[byte]byte{')': '(', '}': '{', ']': '['}

type openBracket struct {
	char   byte
	offset int
}

// CheckBrackets runs a stack-based scan of (){}[] over the code with
// comments and string literals stripped first, so brackets that appear
// only in text are not counted. One error per unmatched closer, one per
// type mismatch, one per unclosed opener left on the stack.
func CheckBrackets(code string) []domain.SyntaxIssue {
	stripped := lexical.Strip(code)

	var issues []domain.SyntaxIssue
	var stack []openBracket

	for i := 0; i < len(stripped); i++ {
		c := stripped[i]
		switch c {
		case '(', '{', '[':
			stack = append(stack, openBracket{char: c, offset: i})
		case ')', '}', ']':
			if len(stack) == 0 {
				line, col := lexical.LineColumn(stripped, i)
				issues = append(issues, domain.SyntaxIssue{
					Message:  fmt.Sprintf("unmatched closing '%c'", c),
					Severity: "error",
					Location: domain.CodeLocation{Line: line, Column: col, Length: 1},
				})
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.char != bracketPairs[c] {
				line, col := lexical.LineColumn(stripped, i)
				issues = append(issues, domain.SyntaxIssue{
					Message:  fmt.Sprintf("mismatched bracket: '%c' closed by '%c'", top.char, c),
					Severity: "error",
					Location: domain.CodeLocation{Line: line, Column: col, Length: 1},
				})
			}
		}
	}

	for _, open := range stack {
		line, col := lexical.LineColumn(stripped, open.offset)
		issues = append(issues, domain.SyntaxIssue{
			Message:  fmt.Sprintf("unclosed '%c'", open.char),
			Severity: "error",
			Location: domain.CodeLocation{Line: line, Column: col, Length: 1},
		})
	}

	return issues
}
