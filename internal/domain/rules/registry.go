// Package rules holds the ordered catalog of transformation rules and
// legacy-detection patterns. The registry feeds both the transformer
// and the scanner so the pattern catalog is single-sourced.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cadmod/cadmod/internal/domain"
)

// declKeywords are the declaration keywords that may follow a legacy
// access modifier. A modifier is only legacy syntax when a declaration
// follows; identifiers that merely contain "pub" are left alone.
const declKeywords = `var|let|fun|resource|struct|contract|interface|event|enum|case`

// storageReceivers are the account-typed identifiers whose flat storage
// calls are renamed to the namespaced API.
const storageReceivers = `account|signer|acct|authAccount`

// ConformanceRuleDescription names the built-in conformance rewrite.
// The transformer implements this rule with submatch surgery rather
// than as a plain substitution; removing it by description disables
// the pass.
const ConformanceRuleDescription = "Join interface conformance lists with &"

// Pattern types reported by the scanner.
const (
	TypeLegacyAccessModifier = "legacy-access-modifier"
	TypeLegacySetterModifier = "legacy-setter-modifier"
	TypeLegacyPrivModifier   = "legacy-priv-modifier"
	TypeLegacyStorageAPI     = "legacy-storage-api"
	TypeCommaConformance     = "comma-interface-conformance"
	TypeHardcodedAddress     = "hardcoded-import-address"
)

// defaultRules is the fixed default rule set, in application order.
// The setter-qualified rule must precede the plain pub rule: the plain
// pattern is a substring match of the qualified one.
func defaultRules() []domain.TransformationRule {
	rules := []domain.TransformationRule{
		{
			Pattern:     `pub\(set\)\s+(` + declKeywords + `)\b`,
			Replacement: `access(all) $1`,
			Description: "Rewrite pub(set) declarations to access(all)",
			Category:    domain.CategoryAccessModifier,
		},
		{
			Pattern:     `\bpub\s+(` + declKeywords + `)\b`,
			Replacement: `access(all) $1`,
			Description: "Rewrite pub declarations to access(all)",
			Category:    domain.CategoryAccessModifier,
		},
		{
			Pattern:     `\bpriv\s+(` + declKeywords + `)\b`,
			Replacement: `access(self) $1`,
			Description: "Rewrite priv declarations to access(self)",
			Category:    domain.CategoryAccessModifier,
		},
		{
			Pattern:     `\b(resource|struct|contract)(\s+interface)?\s+\w+\s*:\s*[^{}\n]*,[^{}\n]*\{`,
			Replacement: `&`,
			Description: ConformanceRuleDescription,
			Category:    domain.CategoryInterface,
		},
	}

	for _, method := range []string{"save", "load", "copy", "borrow"} {
		rules = append(rules, domain.TransformationRule{
			Pattern:     `\b(` + storageReceivers + `)\.` + method + `\(`,
			Replacement: `$1.storage.` + method + `(`,
			Description: fmt.Sprintf("Rename %s to the namespaced storage API", method),
			Category:    domain.CategoryStorage,
		})
	}
	return rules
}

// defaultDetection is the detection superset: every transformation rule
// pattern plus heuristics that flag constructs the transformer does not
// rewrite automatically.
func defaultDetection() []domain.DetectionPattern {
	return []domain.DetectionPattern{
		{
			Type:         TypeLegacySetterModifier,
			Pattern:      `pub\(set\)\s+(?:` + declKeywords + `)\b`,
			Description:  "Legacy pub(set) access modifier",
			SuggestedFix: "Replace with access(all) and an explicit setter",
			Severity:     domain.SeverityCritical,
			Impact:       domain.ImpactHigh,
		},
		{
			Type:         TypeLegacyAccessModifier,
			Pattern:      `\bpub\s+(?:` + declKeywords + `)\b`,
			Description:  "Legacy pub access modifier",
			SuggestedFix: "Replace pub with access(all)",
			Severity:     domain.SeverityCritical,
			Impact:       domain.ImpactHigh,
		},
		{
			Type:         TypeLegacyPrivModifier,
			Pattern:      `\bpriv\s+(?:` + declKeywords + `)\b`,
			Description:  "Legacy priv access modifier",
			SuggestedFix: "Replace priv with access(self)",
			Severity:     domain.SeverityCritical,
			Impact:       domain.ImpactMedium,
		},
		{
			Type:         TypeLegacyStorageAPI,
			Pattern:      `\b(?:` + storageReceivers + `)\.(?:save|load|copy|borrow)\(`,
			Description:  "Legacy flat storage API call",
			SuggestedFix: "Use the account.storage namespace",
			Severity:     domain.SeverityCritical,
			Impact:       domain.ImpactHigh,
		},
		{
			Type:         TypeCommaConformance,
			Pattern:      `\b(?:resource|struct|contract)(?:\s+interface)?\s+\w+\s*:\s*[^{}\n]*,[^{}\n]*\{`,
			Description:  "Comma-separated interface conformance list",
			SuggestedFix: "Join conformances with &",
			Severity:     domain.SeverityWarning,
			Impact:       domain.ImpactMedium,
		},
		{
			Type:         TypeHardcodedAddress,
			Pattern:      `import\s+\w+\s+from\s+0x[0-9a-fA-F]+`,
			Description:  "Hardcoded contract address in import",
			SuggestedFix: "Use a string import resolved by the project configuration",
			Severity:     domain.SeveritySuggestion,
			Impact:       domain.ImpactLow,
		},
	}
}

// Config is an immutable snapshot of a registry.
type Config struct {
	TargetVersion string                      `json:"target_version"`
	Rules         []domain.TransformationRule `json:"rules"`
	Detection     []domain.DetectionPattern   `json:"detection"`
}

// Registry is the ordered rule catalog. The default rule set is fixed;
// caller additions extend it and never replace defaults.
type Registry struct {
	targetVersion string
	rules         []domain.TransformationRule
	detection     []domain.DetectionPattern
}

// NewRegistry returns a registry seeded with the default rule set,
// extended by the configuration's extra rules.
func NewRegistry(cfg domain.EngineConfig) *Registry {
	r := &Registry{
		targetVersion: cfg.TargetVersion,
		rules:         defaultRules(),
		detection:     defaultDetection(),
	}
	for _, rule := range cfg.ExtraRules {
		r.AddTransformationRule(rule)
	}
	return r
}

// Config returns an immutable snapshot of the merged rule set.
func (r *Registry) Config() Config {
	rules := make([]domain.TransformationRule, len(r.rules))
	copy(rules, r.rules)
	detection := make([]domain.DetectionPattern, len(r.detection))
	copy(detection, r.detection)
	return Config{
		TargetVersion: r.targetVersion,
		Rules:         rules,
		Detection:     detection,
	}
}

// AddTransformationRule appends a caller-supplied rule after the
// existing rules. Appending keeps the default ordering intact.
func (r *Registry) AddTransformationRule(rule domain.TransformationRule) {
	r.rules = append(r.rules, rule)
}

// RemoveTransformationRule removes every rule whose description matches
// exactly. It returns the number of rules removed.
func (r *Registry) RemoveTransformationRule(description string) int {
	kept := r.rules[:0]
	removed := 0
	for _, rule := range r.rules {
		if rule.Description == description {
			removed++
			continue
		}
		kept = append(kept, rule)
	}
	r.rules = kept
	return removed
}

// Rules returns the ordered transformation rules.
func (r *Registry) Rules() []domain.TransformationRule {
	out := make([]domain.TransformationRule, len(r.rules))
	copy(out, r.rules)
	return out
}

// RulesForCategory returns the ordered rules of one category.
func (r *Registry) RulesForCategory(category string) []domain.TransformationRule {
	var out []domain.TransformationRule
	for _, rule := range r.rules {
		if rule.Category == category {
			out = append(out, rule)
		}
	}
	return out
}

// DetectionPatterns returns the scanner's detection superset.
func (r *Registry) DetectionPatterns() []domain.DetectionPattern {
	out := make([]domain.DetectionPattern, len(r.detection))
	copy(out, r.detection)
	return out
}

// needsMigrationTypes are the detection pattern types whose presence
// makes a template a migration candidate.
var needsMigrationTypes = map[string]bool{
	TypeLegacyAccessModifier: true,
	TypeLegacySetterModifier: true,
	TypeLegacyPrivModifier:   true,
	TypeLegacyStorageAPI:     true,
	TypeCommaConformance:     true,
}

// NeedsMigrationPatterns returns the detection subset that marks code
// as needing migration: keyword rewrites, conformance commas and legacy
// storage calls. Hardcoded addresses are reported but do not by
// themselves trigger a rewrite.
func (r *Registry) NeedsMigrationPatterns() []domain.DetectionPattern {
	var out []domain.DetectionPattern
	for _, p := range r.detection {
		if needsMigrationTypes[p.Type] {
			out = append(out, p)
		}
	}
	return out
}

// rejectionTypes are the fixed automatic-rejection patterns checked on
// the hot path before full validation.
var rejectionTypes = map[string]bool{
	TypeLegacyAccessModifier: true,
	TypeLegacySetterModifier: true,
	TypeLegacyPrivModifier:   true,
	TypeLegacyStorageAPI:     true,
}

// RejectionPatterns returns the patterns that cause automatic rejection.
func (r *Registry) RejectionPatterns() []domain.DetectionPattern {
	var out []domain.DetectionPattern
	for _, p := range r.detection {
		if rejectionTypes[p.Type] {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the registry itself and reports every violation.
func (r *Registry) Validate() error {
	var problems []string

	if strings.TrimSpace(r.targetVersion) == "" {
		problems = append(problems, "target version must not be empty")
	}
	if len(r.rules) == 0 {
		problems = append(problems, "rule list must not be empty")
	}
	for i, rule := range r.rules {
		if err := rule.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("rule %d (%s): %v", i, rule.Description, err))
			continue
		}
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			problems = append(problems, fmt.Sprintf("rule %d (%s): invalid pattern: %v", i, rule.Description, err))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}
