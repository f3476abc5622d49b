package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/lexical"
)

// primitiveTypes is the fixed set of event parameter base types.
var primitiveTypes = map[string]bool{
	"Int": true, "Int8": true, "Int16": true, "Int32": true, "Int64": true,
	"Int128": true, "Int256": true,
	"UInt": true, "UInt8": true, "UInt16": true, "UInt32": true, "UInt64": true,
	"UInt128": true, "UInt256": true,
	"Fix64": true, "UFix64": true,
	"String": true, "Character": true, "Bool": true, "Address": true,
}

var (
	eventDecl       = regexp.MustCompile(`\bevent\s+(\w+)`)
	eventWithParams = regexp.MustCompile(`\bevent\s+(\w+)\s*\(([^)]*)\)`)
	eventParam      = regexp.MustCompile(`^(\w+)\s*:\s*(.+)$`)

	// namedType follows the identifier convention: capitalized,
	// optionally dotted (Contract.Type).
	namedType = regexp.MustCompile(`^[A-Z]\w*(\.[A-Z]\w*)*$`)

	legacyQualifier = regexp.MustCompile(`\b(pub|priv)\b`)
)

// CheckEvents validates event declarations: access qualifier presence,
// name: Type parameter form, and the parameter type vocabulary.
func CheckEvents(code string) []domain.SyntaxIssue {
	stripped := lexical.Strip(code)
	lines := strings.Split(stripped, "\n")

	var issues []domain.SyntaxIssue
	for i, line := range lines {
		decl := eventDecl.FindStringSubmatchIndex(line)
		if decl == nil {
			continue
		}
		name := line[decl[2]:decl[3]]
		lineNum := i + 1
		col := decl[0] + 1

		if !eventHasQualifier(line, decl[0]) {
			issues = append(issues, domain.SyntaxIssue{
				Message:  fmt.Sprintf("event %q missing access qualifier", name),
				Severity: "error",
				Location: domain.CodeLocation{Line: lineNum, Column: col},
			})
		}

		withParams := eventWithParams.FindStringSubmatch(eventDeclText(lines, i))
		if withParams == nil {
			issues = append(issues, domain.SyntaxIssue{
				Message:  fmt.Sprintf("event %q declared without a parameter list", name),
				Severity: "error",
				Location: domain.CodeLocation{Line: lineNum, Column: col},
			})
			continue
		}

		params := strings.TrimSpace(withParams[2])
		if params == "" {
			continue
		}
		for _, raw := range strings.Split(params, ",") {
			param := strings.TrimSpace(raw)
			m := eventParam.FindStringSubmatch(param)
			if m == nil {
				issues = append(issues, domain.SyntaxIssue{
					Message:  fmt.Sprintf("event %q parameter %q is not in name: Type form", name, param),
					Severity: "error",
					Location: domain.CodeLocation{Line: lineNum, Column: col},
				})
				continue
			}
			typ := strings.TrimSpace(m[2])
			if !validEventType(typ) {
				issues = append(issues, domain.SyntaxIssue{
					Message:  fmt.Sprintf("event %q parameter %q has unrecognized type %q", name, m[1], typ),
					Severity: "error",
					Location: domain.CodeLocation{Line: lineNum, Column: col},
				})
			}
		}
	}
	return issues
}

// eventDeclText joins the declaration line with its continuation lines
// until the parameter list's parentheses balance, so a parameter list
// wrapped across lines is classified like a single-line one.
func eventDeclText(lines []string, declLine int) string {
	text := lines[declLine]
	depth := strings.Count(text, "(") - strings.Count(text, ")")
	for j := declLine + 1; j < len(lines) && depth > 0; j++ {
		text += " " + strings.TrimSpace(lines[j])
		depth += strings.Count(lines[j], "(") - strings.Count(lines[j], ")")
	}
	return text
}

// eventHasQualifier reports whether the text before the event keyword
// carries an access qualifier (modern or legacy).
func eventHasQualifier(line string, eventStart int) bool {
	prefix := line[:eventStart]
	return strings.Contains(prefix, "access(") || legacyQualifier.MatchString(prefix)
}

// validEventType accepts the fixed primitive set, arrays/optionals/
// references of valid types, and capitalized (optionally dotted)
// identifiers.
func validEventType(typ string) bool {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return false
	}
	if primitiveTypes[typ] {
		return true
	}
	if strings.HasPrefix(typ, "[") && strings.HasSuffix(typ, "]") {
		return validEventType(typ[1 : len(typ)-1])
	}
	if strings.HasSuffix(typ, "?") {
		return validEventType(typ[:len(typ)-1])
	}
	if strings.HasPrefix(typ, "&") {
		return validEventType(typ[1:])
	}
	return namedType.MatchString(typ)
}
