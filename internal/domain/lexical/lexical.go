// Package lexical centralizes the comment/string-stripping and
// keyword-boundary heuristics shared by the transformer, the validator
// and the scanner. Every component that needs to know whether a match
// sits inside a comment, a string literal or a test fixture goes
// through this package, so the heuristics cannot drift apart.
package lexical

import (
	"strings"
)

// Strip returns src with line comments, block comments and string
// literal contents blanked out. Every replaced byte becomes a space and
// newlines are preserved, so offsets, line numbers and columns computed
// against the stripped text are valid against the original.
func Strip(src string) string {
	out := []byte(src)

	const (
		stateCode = iota
		stateLineComment
		stateBlockComment
		stateString
	)

	state := stateCode
	depth := 0 // block comments nest in Cadence
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch state {
		case stateCode:
			switch {
			case c == '/' && i+1 < len(out) && out[i+1] == '/':
				state = stateLineComment
				out[i] = ' '
			case c == '/' && i+1 < len(out) && out[i+1] == '*':
				state = stateBlockComment
				depth = 1
				out[i] = ' '
			case c == '"':
				state = stateString
				// keep the opening quote so quoted regions stay visible
			}
		case stateLineComment:
			if c == '\n' {
				state = stateCode
			} else {
				out[i] = ' '
			}
		case stateBlockComment:
			switch {
			case c == '/' && i+1 < len(out) && out[i+1] == '*':
				depth++
				out[i] = ' '
			case c == '*' && i+1 < len(out) && out[i+1] == '/':
				depth--
				out[i] = ' '
				i++
				out[i] = ' '
				if depth == 0 {
					state = stateCode
				}
			case c != '\n':
				out[i] = ' '
			}
		case stateString:
			switch {
			case c == '\\' && i+1 < len(out):
				out[i] = ' '
				i++
				if out[i] != '\n' {
					out[i] = ' '
				}
			case c == '"':
				state = stateCode
			case c == '\n':
				// unterminated string; resync at end of line
				state = stateCode
			default:
				out[i] = ' '
			}
		}
	}
	return string(out)
}

// LineColumn converts a byte offset into 1-based line and column numbers.
func LineColumn(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	line, col = 1, 1
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// InLineComment reports whether the 1-based column of a line falls
// after a // comment marker that is itself outside a string literal.
func InLineComment(line string, col int) bool {
	limit := col - 1
	if limit > len(line) {
		limit = len(line)
	}
	inString := false
	for i := 0; i < limit; i++ {
		switch line[i] {
		case '\\':
			if inString {
				i++
			}
		case '"':
			inString = !inString
		case '/':
			if !inString && i+1 < len(line) && line[i+1] == '/' && i+1 < limit {
				return true
			}
		}
	}
	return false
}

// InStringLiteral reports whether the 1-based column of a line falls
// inside a double-quoted string, by counting unescaped quotes before
// the column.
func InStringLiteral(line string, col int) bool {
	limit := col - 1
	if limit > len(line) {
		limit = len(line)
	}
	quotes := 0
	for i := 0; i < limit; i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			quotes++
		}
	}
	return quotes%2 == 1
}

// assertionMarkers flag lines that talk about legacy patterns instead
// of containing legacy code: test assertions and documentation prose.
var assertionMarkers = []string{
	"assert(", "expect(", "XCTAssert", "t.Error", "t.Fatal",
	"should", "deprecated", "legacy", "example:", "e.g.",
}

// LooksLikeAssertion reports whether a line reads like an assertion or
// documentation about a legacy pattern rather than the pattern itself.
func LooksLikeAssertion(line string) bool {
	lower := strings.ToLower(line)
	trimmed := strings.TrimSpace(lower)
	if strings.HasPrefix(trimmed, "///") || strings.HasPrefix(trimmed, "*") {
		return true
	}
	for _, marker := range assertionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// fixtureFragments map path fragments to a fixture context label.
var fixtureFragments = []struct {
	fragment string
	label    string
}{
	{"test", "test"},
	{"spec", "spec"},
	{"doc", "doc"},
	{"example", "example"},
	{"fixture", "test"},
	{"sample", "example"},
}

// FixtureContext classifies a relative path as a test/spec/doc/example
// fixture. Returns the label, or "" for production code.
func FixtureContext(relPath string) string {
	lower := strings.ToLower(relPath)
	for _, f := range fixtureFragments {
		if strings.Contains(lower, f.fragment) {
			return f.label
		}
	}
	return ""
}

// ContextWindow extracts the matched line plus one line before and
// after, for embedding in a finding.
func ContextWindow(lines []string, lineNum int) string {
	idx := lineNum - 1
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	start := idx - 1
	if start < 0 {
		start = 0
	}
	end := idx + 1
	if end >= len(lines) {
		end = len(lines) - 1
	}
	return strings.Join(lines[start:end+1], "\n")
}
