package application

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/lexical"
	"github.com/cadmod/cadmod/internal/domain/rules"
	"github.com/cadmod/cadmod/internal/domain/transform"
	"github.com/cadmod/cadmod/internal/domain/validate"
)

const migratedTag = "cadence-1.0"

// ProgressFunc is called once per processed template.
type ProgressFunc func()

// MigrateService orchestrates scan → transform → validate →
// metadata-update for a template corpus. Items that fail migration are
// preserved verbatim; one failing item never aborts the run.
type MigrateService struct {
	transformer *transform.Transformer
	validator   *validate.Validator
	collector   *domain.Collector
	needs       []*regexp.Regexp
	workers     int
}

// NewMigrateService wires the transformer and validator built from one
// shared registry. Invalid rules surface here, before any item is
// touched.
func NewMigrateService(reg *rules.Registry, collector *domain.Collector, workers int) (*MigrateService, error) {
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule registry: %w", err)
	}

	transformer, err := transform.New(reg)
	if err != nil {
		return nil, err
	}
	validator, err := validate.New(reg)
	if err != nil {
		return nil, err
	}

	var needs []*regexp.Regexp
	for _, p := range reg.NeedsMigrationPatterns() {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling needs-migration pattern %q: %w", p.Type, err)
		}
		needs = append(needs, re)
	}

	if workers < 1 {
		workers = 1
	}
	return &MigrateService{
		transformer: transformer,
		validator:   validator,
		collector:   collector,
		needs:       needs,
		workers:     workers,
	}, nil
}

// NeedsMigration reports whether any needs-migration pattern matches
// the template's code: keyword rewrites, conformance commas or legacy
// storage calls.
func (s *MigrateService) NeedsMigration(tpl domain.Template) bool {
	stripped := lexical.Strip(tpl.Code)
	for _, re := range s.needs {
		if re.MatchString(stripped) {
			return true
		}
	}
	return false
}

// MigrateTemplate migrates a single template. Already-modern templates
// pass through unchanged. A transform whose output still fails
// validation leaves the original untouched and records the failure; it
// is never silently swapped in.
func (s *MigrateService) MigrateTemplate(tpl domain.Template) (domain.Template, domain.TemplateMigration) {
	result := domain.TemplateMigration{TemplateID: tpl.ID, TemplateName: tpl.Name}

	if !s.NeedsMigration(tpl) {
		result.ValidationPassed = true
		return tpl, result
	}

	transformed := s.transformer.TransformAll(tpl.Code)
	result.TransformationsApplied = appliedCategories(transformed)

	verdict := s.validator.ValidateCode(transformed.Code, validate.Options{})
	if !verdict.IsValid {
		result.ValidationPassed = false
		result.Error = fmt.Sprintf("transformed code failed validation: %s", strings.Join(verdict.Errors, "; "))
		s.collector.CreateError(tpl.Name, result.Error, domain.ErrorCategoryValidation, domain.SeverityCritical, 0, 0)
		return tpl, result
	}

	tpl.Code = transformed.Code
	tpl.Tags = appendTag(tpl.Tags, migratedTag)
	if !strings.Contains(tpl.Description, "Migrated to Cadence 1.0") {
		tpl.Description = strings.TrimSpace(tpl.Description + " [Migrated to Cadence 1.0]")
	}
	result.Migrated = true
	result.ValidationPassed = true
	return tpl, result
}

// ProcessAll migrates a corpus with a bounded worker pool. Completion
// order is not deterministic, so results are collected by index and the
// corpus order is preserved for reporting. Cancelling the context stops
// scheduling new items; items already running finish.
func (s *MigrateService) ProcessAll(ctx context.Context, templates []domain.Template, progress ProgressFunc) *domain.MigrationRun {
	migrated := make([]domain.Template, len(templates))
	results := make([]domain.TemplateMigration, len(templates))

	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for i, tpl := range templates {
		if ctx.Err() != nil {
			// Run-level cancellation: remaining items are recorded
			// untouched.
			migrated[i] = tpl
			results[i] = domain.TemplateMigration{
				TemplateID:   tpl.ID,
				TemplateName: tpl.Name,
				Error:        "cancelled before processing",
			}
			continue
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					migrated[i] = tpl
					results[i] = domain.TemplateMigration{
						TemplateID:   tpl.ID,
						TemplateName: tpl.Name,
						Error:        fmt.Sprintf("transformation panic: %v", r),
					}
					s.collector.CreateError(tpl.Name, results[i].Error,
						domain.ErrorCategoryTransformation, domain.SeverityCritical, 0, 0)
				}
				if progress != nil {
					progress()
				}
			}()
			migrated[i], results[i] = s.MigrateTemplate(tpl)
			return nil
		})
	}
	_ = g.Wait()

	return &domain.MigrationRun{
		Templates:  migrated,
		Results:    results,
		Statistics: buildStatistics(templates, results),
		Errors:     s.collector.Errors(),
		Warnings:   s.collector.Warnings(),
	}
}

func buildStatistics(templates []domain.Template, results []domain.TemplateMigration) domain.MigrationStatistics {
	stats := domain.MigrationStatistics{TotalFilesProcessed: len(templates)}
	for i, r := range results {
		switch {
		case r.Migrated:
			stats.SuccessfulMigrations++
			stats.TransformationsApplied += len(r.TransformationsApplied)
			stats.LinesOfCodeMigrated += len(strings.Split(templates[i].Code, "\n"))
		case r.Error != "":
			stats.FailedMigrations++
		}
	}
	return stats
}

// appliedCategories infers which named transformation categories
// actually changed the text, from the per-pass substitution counts.
func appliedCategories(result transform.Result) []string {
	var out []string
	for category, n := range result.ByCategory {
		if n > 0 {
			out = append(out, category)
		}
	}
	sort.Strings(out)
	return out
}

func appendTag(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}
