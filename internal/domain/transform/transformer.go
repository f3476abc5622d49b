// Package transform applies the ordered rewrite passes that modernize
// legacy Cadence source. Every pass is idempotent: re-applying it to
// already-modern code is a no-op.
package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/lexical"
	"github.com/cadmod/cadmod/internal/domain/rules"
)

// Result holds the rewritten code and the substitution counts of one
// TransformAll call. ByCategory feeds the controller's per-template
// transformation diff.
type Result struct {
	Code       string         `json:"code"`
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
	description string
	category    string
}

// Transformer applies the registry's rules in their fixed order.
type Transformer struct {
	byCategory      map[string][]compiledRule
	conformanceJoin bool
}

// conformanceHead matches a declaration head followed by a
// comma-separated conformance list before the opening brace. The list
// excludes braces, so type-constraint syntax like &{Interface} never
// matches.
var conformanceHead = regexp.MustCompile(
	`\b(resource|struct|contract)((?:\s+interface)?\s+\w+)\s*:\s*([^{}\n]*,[^{}\n]*?)\s*\{`)

// getterFun matches a function declaration whose name reads like a
// getter and whose signature carries a return type. The optional view
// capture keeps the pass idempotent.
var getterFun = regexp.MustCompile(
	`\b(view\s+)?(fun\s+(?:get|is|has)[A-Z]\w*\s*\([^)]*\)\s*:)`)

// New compiles the registry's rule set. A rule that fails to compile is
// a configuration-level failure: the transformer refuses to start.
func New(reg *rules.Registry) (*Transformer, error) {
	t := &Transformer{byCategory: make(map[string][]compiledRule)}
	for _, rule := range reg.Rules() {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling rule %q: %w", rule.Description, err)
		}
		if rule.Category == domain.CategoryInterface && rule.Description == rules.ConformanceRuleDescription {
			// The built-in conformance rewrite splices submatches and
			// cannot run as a plain substitution. Its presence in the
			// registry switches the structural pass on; any other
			// interface rule is applied as a substitution after it.
			t.conformanceJoin = true
			continue
		}
		t.byCategory[rule.Category] = append(t.byCategory[rule.Category], compiledRule{
			re:          re,
			replacement: rule.Replacement,
			description: rule.Description,
			category:    rule.Category,
		})
	}
	return t, nil
}

// rewriteOutsideLiterals matches re against the comment- and
// string-blanked view of code and splices each rewrite back into the
// original text. Blanking preserves offsets, so match positions carry
// over and literal or comment content is never rewritten. expand
// receives the blanked text with one match's submatch indices;
// returning ok=false keeps the original text for that match.
func rewriteOutsideLiterals(re *regexp.Regexp, code string, expand func(stripped string, m []int) (string, bool)) (string, int) {
	stripped := lexical.Strip(code)
	matches := re.FindAllStringSubmatchIndex(stripped, -1)
	if len(matches) == 0 {
		return code, 0
	}

	var b strings.Builder
	last := 0
	count := 0
	for _, m := range matches {
		b.WriteString(code[last:m[0]])
		if repl, ok := expand(stripped, m); ok {
			b.WriteString(repl)
			count++
		} else {
			b.WriteString(code[m[0]:m[1]])
		}
		last = m[1]
	}
	b.WriteString(code[last:])
	return b.String(), count
}

// applyCategory runs the ordered rules of one category as regex
// substitutions over the blanked view of the code.
func (t *Transformer) applyCategory(category, code string) (string, int) {
	total := 0
	for _, rule := range t.byCategory[category] {
		re, replacement := rule.re, rule.replacement
		var n int
		code, n = rewriteOutsideLiterals(re, code, func(stripped string, m []int) (string, bool) {
			return string(re.ExpandString(nil, replacement, stripped, m)), true
		})
		total += n
	}
	return code, total
}

// TransformAccessModifiers rewrites legacy access modifiers in
// declaration position. The setter-qualified rule runs first; the
// plain pub pattern is a substring match of the qualified one.
func (t *Transformer) TransformAccessModifiers(code string) (string, int) {
	return t.applyCategory(domain.CategoryAccessModifier, code)
}

// TransformConformances joins comma-separated interface conformance
// lists with &. Only declaration heads are rewritten; restriction
// syntax containing braces is left alone. Caller-supplied rules in the
// interface category run after the built-in rewrite.
func (t *Transformer) TransformConformances(code string) (string, int) {
	count := 0
	if t.conformanceJoin {
		code, count = rewriteOutsideLiterals(conformanceHead, code, func(stripped string, m []int) (string, bool) {
			items := strings.Split(stripped[m[6]:m[7]], ",")
			for i := range items {
				items[i] = strings.TrimSpace(items[i])
			}
			head := stripped[m[2]:m[3]] + stripped[m[4]:m[5]]
			return fmt.Sprintf("%s: %s {", head, strings.Join(items, " & ")), true
		})
	}
	rewritten, n := t.applyCategory(domain.CategoryInterface, code)
	return rewritten, count + n
}

// TransformStorageAPI renames flat storage calls to the namespaced API.
// The rewritten receiver ends in "storage", which no rule matches, so
// the pass is idempotent.
func (t *Transformer) TransformStorageAPI(code string) (string, int) {
	return t.applyCategory(domain.CategoryStorage, code)
}

// TransformFunctions infers the view qualifier for getter-like
// functions and applies any caller-supplied function rules.
func (t *Transformer) TransformFunctions(code string) (string, int) {
	code, count := rewriteOutsideLiterals(getterFun, code, func(stripped string, m []int) (string, bool) {
		if m[2] >= 0 {
			return "", false // already view
		}
		return "view " + stripped[m[4]:m[5]], true
	})
	rewritten, n := t.applyCategory(domain.CategoryFunction, code)
	return rewritten, count + n
}

// TransformImports normalizes import statements. No default rules ship
// in this category; the pass applies caller-supplied import rules and
// is otherwise a no-op reserved for future defaults.
func (t *Transformer) TransformImports(code string) (string, int) {
	return t.applyCategory(domain.CategoryImport, code)
}

// TransformAll applies every pass in fixed order: access modifiers,
// interface conformance, storage API, function annotation, imports.
// It never fails; code without matches passes through unchanged.
func (t *Transformer) TransformAll(code string) Result {
	result := Result{ByCategory: make(map[string]int)}

	passes := []struct {
		category string
		apply    func(string) (string, int)
	}{
		{domain.CategoryAccessModifier, t.TransformAccessModifiers},
		{domain.CategoryInterface, t.TransformConformances},
		{domain.CategoryStorage, t.TransformStorageAPI},
		{domain.CategoryFunction, t.TransformFunctions},
		{domain.CategoryImport, t.TransformImports},
	}

	for _, pass := range passes {
		var n int
		code, n = pass.apply(code)
		if n > 0 {
			result.ByCategory[pass.category] += n
			result.Total += n
		}
	}

	result.Code = code
	return result
}
