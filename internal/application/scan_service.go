package application

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/lexical"
	"github.com/cadmod/cadmod/internal/domain/rules"
)

// fixtureSkipDirs are skipped outright under the production policy, on
// top of the walker's built-in skip list.
var fixtureSkipDirs = []string{"test", "tests", "spec", "specs", "doc", "docs", "examples", "fixtures"}

type compiledDetection struct {
	re      *regexp.Regexp
	pattern domain.DetectionPattern
}

// ScanService walks a file tree (or an in-memory template corpus),
// applies the registry's detection superset and classifies matches.
// One scanner, parameterized by suppression policy: the production
// policy discards fixture/comment/string matches, the general policy
// downgrades them to suggestions and annotates the detected context.
type ScanService struct {
	walker    domain.TreeWalker
	policy    domain.SuppressionPolicy
	collector *domain.Collector
	patterns  []compiledDetection
}

// NewScanService compiles the registry's detection patterns. The
// registry must validate before a scanner is built from it.
func NewScanService(reg *rules.Registry, walker domain.TreeWalker, policy domain.SuppressionPolicy, collector *domain.Collector) (*ScanService, error) {
	if policy == "" {
		policy = domain.PolicyGeneral
	}
	s := &ScanService{walker: walker, policy: policy, collector: collector}
	for _, p := range reg.DetectionPatterns() {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling detection pattern %q: %w", p.Type, err)
		}
		s.patterns = append(s.patterns, compiledDetection{re: re, pattern: p})
	}
	return s, nil
}

// Scan walks root and returns the classified findings. Unreadable
// files are recorded as system errors and skipped; they never abort
// the scan.
func (s *ScanService) Scan(root string, excludePaths []string) (*domain.ScanResult, error) {
	skip := excludePaths
	if s.policy == domain.PolicyProduction {
		skip = append(append([]string{}, excludePaths...), fixtureSkipDirs...)
	}

	files, failures, err := s.walker.Walk(root, skip)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	for _, f := range failures {
		s.collector.CreateError(f.Path, f.Message, domain.ErrorCategorySystem, domain.SeverityWarning, 0, 0)
	}

	var findings []domain.Finding
	for _, f := range files {
		findings = append(findings, s.scanContent(f.RelPath, f.Content)...)
	}
	return domain.BuildScanResult(root, len(files), findings), nil
}

// ScanTemplates applies the same detection pipeline to a finite
// in-memory corpus; the template name stands in for the file path.
func (s *ScanService) ScanTemplates(templates []domain.Template) *domain.ScanResult {
	var findings []domain.Finding
	for _, tpl := range templates {
		findings = append(findings, s.scanContent(tpl.Name, tpl.Code)...)
	}
	return domain.BuildScanResult("", len(templates), findings)
}

// scanContent matches every detection pattern against each line and
// classifies the hits. Matches are never deduplicated.
func (s *ScanService) scanContent(relPath, content string) []domain.Finding {
	lines := strings.Split(content, "\n")
	fixture := lexical.FixtureContext(relPath)

	var findings []domain.Finding
	for i, line := range lines {
		for _, p := range s.patterns {
			for _, loc := range p.re.FindAllStringIndex(line, -1) {
				col := loc[0] + 1
				finding, keep := s.classify(p.pattern, relPath, lines, i+1, col, line[loc[0]:loc[1]], fixture)
				if keep {
					findings = append(findings, finding)
				}
			}
		}
	}
	return findings
}

// classify applies the suppression policy to one raw match.
func (s *ScanService) classify(p domain.DetectionPattern, relPath string, lines []string, lineNum, col int, matched, fixture string) (domain.Finding, bool) {
	line := lines[lineNum-1]

	context := fixture
	switch {
	case lexical.InLineComment(line, col):
		context = "comment"
	case lexical.InStringLiteral(line, col):
		context = "string"
	case context == "" && lexical.LooksLikeAssertion(line):
		context = "doc"
	}

	finding := domain.Finding{
		Type:    p.Type,
		Pattern: matched,
		Location: domain.Location{
			File:    relPath,
			Line:    lineNum,
			Column:  col,
			Context: lexical.ContextWindow(lines, lineNum),
		},
		Severity:     p.Severity,
		Description:  p.Description,
		SuggestedFix: p.SuggestedFix,
		Impact:       p.Impact,
	}

	if context == "" {
		return finding, true
	}

	if s.policy == domain.PolicyProduction {
		return domain.Finding{}, false
	}

	// General policy: demote rather than discard, so nothing is ever
	// silently dropped.
	finding.Severity = domain.SeveritySuggestion
	finding.Description = fmt.Sprintf("%s (in %s context)", p.Description, context)
	return finding, true
}
