package domain

import (
	"errors"
	"fmt"
	"strings"
)

// SuppressionPolicy selects how matches in comments, string literals
// and test/doc fixtures are treated.
type SuppressionPolicy string

const (
	// PolicyGeneral keeps such matches but downgrades them to
	// suggestion severity and annotates the detected context.
	PolicyGeneral SuppressionPolicy = "general"
	// PolicyProduction discards such matches and skips test/spec/doc
	// directories outright.
	PolicyProduction SuppressionPolicy = "production"
)

// ValidPolicies enumerates the recognized suppression policies.
var ValidPolicies = []SuppressionPolicy{PolicyGeneral, PolicyProduction}

// LogConfig configures the rotating run log.
type LogConfig struct {
	File       string `yaml:"file"        json:"file,omitempty"`
	Level      string `yaml:"level"       json:"level,omitempty"`
	MaxSizeMB  int    `yaml:"max_size"    json:"max_size,omitempty"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age"     json:"max_age,omitempty"`
}

// EngineConfig holds run-level configuration loaded from .cadmod.yaml.
// Caller-supplied rules extend the registry defaults; they never
// replace them.
type EngineConfig struct {
	TargetVersion string               `yaml:"target_version" json:"target_version"`
	Policy        SuppressionPolicy    `yaml:"policy"         json:"policy,omitempty"`
	Strict        bool                 `yaml:"strict"         json:"strict,omitempty"`
	Workers       int                  `yaml:"workers"        json:"workers,omitempty"`
	ExcludePaths  []string             `yaml:"exclude_paths"  json:"exclude_paths,omitempty"`
	ExtraRules    []TransformationRule `yaml:"extra_rules"    json:"extra_rules,omitempty"`
	Log           LogConfig            `yaml:"log"            json:"log,omitempty"`
}

// TransformationRule rewrites one legacy construct to its modern form.
// Immutable once added to a registry; Description doubles as the
// removal key and must be unique per registry for removal to be
// unambiguous.
type TransformationRule struct {
	Pattern     string `yaml:"pattern"     json:"pattern"`
	Replacement string `yaml:"replacement" json:"replacement"`
	Description string `yaml:"description" json:"description"`
	Category    string `yaml:"category"    json:"category"`
}

// DetectionPattern locates one legacy construct without rewriting it.
type DetectionPattern struct {
	Type         string `json:"type"`
	Pattern      string `json:"pattern"`
	Description  string `json:"description"`
	SuggestedFix string `json:"suggested_fix"`
	Severity     string `json:"severity"`
	Impact       string `json:"impact"`
}

// DefaultConfig returns the configuration used when no .cadmod.yaml exists.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		TargetVersion: "1.0",
		Policy:        PolicyGeneral,
		Workers:       4,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// ValidCategories enumerates the rule categories.
var ValidCategories = []string{
	CategoryAccessModifier,
	CategoryInterface,
	CategoryStorage,
	CategoryFunction,
	CategoryImport,
}

func validCategory(c string) bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Validate checks the configuration and reports every violation, not
// just the first. A non-nil error means the run cannot produce
// trustworthy results and must abort before scanning or migrating.
func (c EngineConfig) Validate() error {
	var problems []string

	if strings.TrimSpace(c.TargetVersion) == "" {
		problems = append(problems, "target_version must not be empty")
	}
	if c.Policy != "" && c.Policy != PolicyGeneral && c.Policy != PolicyProduction {
		problems = append(problems, fmt.Sprintf("unknown policy %q (valid: general, production)", c.Policy))
	}
	if c.Workers < 0 {
		problems = append(problems, "workers must not be negative")
	}

	for i, r := range c.ExtraRules {
		if err := r.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("extra_rules[%d]: %v", i, err))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}

// Validate reports every missing or invalid field of a rule.
func (r TransformationRule) Validate() error {
	var problems []string
	if r.Pattern == "" {
		problems = append(problems, "missing pattern")
	}
	if r.Replacement == "" {
		problems = append(problems, "missing replacement")
	}
	if r.Description == "" {
		problems = append(problems, "missing description")
	}
	if r.Category == "" {
		problems = append(problems, "missing category")
	} else if !validCategory(r.Category) {
		problems = append(problems, fmt.Sprintf("unknown category %q", r.Category))
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, ", "))
}
