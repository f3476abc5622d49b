package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/lexical"
)

// destroyWindow bounds how many lines after a resource declaration are
// searched for a destroy handler.
const destroyWindow = 60

var (
	// bareDecl matches a contract/resource declaration line that starts
	// without any access qualifier.
	bareDecl = regexp.MustCompile(`^\s*(contract|resource)(\s+interface)?\s+\w+`)

	resourceDecl = regexp.MustCompile(`\bresource\s+(\w+)`)
	contractDecl = regexp.MustCompile(`\bcontract\s+(\w+)`)
	destroyDecl  = regexp.MustCompile(`\bdestroy\s*\(\s*\)`)
	initDecl     = regexp.MustCompile(`\binit\s*\(`)

	// executableMember marks a contract body that carries behavior and
	// therefore must declare an initializer.
	executableMember = regexp.MustCompile(`\bfun\s+\w+|\bresource\s+\w+`)
)

// CheckStructure validates contract and resource declarations: missing
// access qualifiers, resources without a destroy handler, and contracts
// without an initializer.
func CheckStructure(code string) []domain.SyntaxIssue {
	stripped := lexical.Strip(code)
	lines := strings.Split(stripped, "\n")

	var issues []domain.SyntaxIssue

	for i, line := range lines {
		if m := bareDecl.FindStringSubmatchIndex(line); m != nil {
			kind := line[m[2]:m[3]]
			issues = append(issues, domain.SyntaxIssue{
				Message:  fmt.Sprintf("%s declaration missing access qualifier", kind),
				Severity: "error",
				Location: domain.CodeLocation{Line: i + 1, Column: m[2] + 1},
			})
		}

		if m := resourceDecl.FindStringSubmatchIndex(line); m != nil && !strings.Contains(line, "interface") {
			name := line[m[2]:m[3]]
			if !hasDestroyHandler(lines, i) {
				issues = append(issues, domain.SyntaxIssue{
					Message:  fmt.Sprintf("resource %q defines no destroy handler", name),
					Severity: "warning",
					Location: domain.CodeLocation{Line: i + 1, Column: m[0] + 1},
				})
			}
		}
	}

	issues = append(issues, checkContractInit(stripped, lines)...)
	return issues
}

// hasDestroyHandler scans a bounded window of lines following a
// resource declaration for a destroy() with a balanced-brace body.
func hasDestroyHandler(lines []string, declLine int) bool {
	end := declLine + destroyWindow
	if end > len(lines) {
		end = len(lines)
	}
	for j := declLine; j < end; j++ {
		if !destroyDecl.MatchString(lines[j]) {
			continue
		}
		if _, ok := functionBody(lines, j); ok {
			return true
		}
	}
	return false
}

// checkContractInit flags a contract that declares executable members
// but no initializer anywhere. A field-only skeleton gets a warning
// instead of an error.
func checkContractInit(stripped string, lines []string) []domain.SyntaxIssue {
	if strings.Contains(stripped, "contract interface") {
		return nil
	}
	m := contractDecl.FindStringIndex(stripped)
	if m == nil || initDecl.MatchString(stripped) {
		return nil
	}

	line, col := lexical.LineColumn(stripped, m[0])
	severity := "warning"
	body := stripped[m[1]:]
	if executableMember.MatchString(body) {
		severity = "error"
	}
	return []domain.SyntaxIssue{{
		Message:  "contract declares no initializer",
		Severity: severity,
		Location: domain.CodeLocation{Line: line, Column: col},
	}}
}
