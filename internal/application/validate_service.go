package application

import (
	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/rules"
	"github.com/cadmod/cadmod/internal/domain/validate"
)

// ReviewVerdict is the combined gate result for one submitted code
// string.
type ReviewVerdict struct {
	Rejected   bool                     `json:"rejected"`
	Reason     string                   `json:"reason,omitempty"`
	Validation *domain.ValidationResult `json:"validation,omitempty"`
}

// ValidateService gates arbitrary code strings submitted by an
// external generation pipeline: the fixed rejection patterns run first
// on the hot path, the full validator only for code that survives them.
type ValidateService struct {
	validator *validate.Validator
	strict    bool
}

func NewValidateService(reg *rules.Registry, strict bool) (*ValidateService, error) {
	validator, err := validate.New(reg)
	if err != nil {
		return nil, err
	}
	return &ValidateService{validator: validator, strict: strict}, nil
}

// Review runs the rejection short-circuit, then full validation.
func (s *ValidateService) Review(code string) ReviewVerdict {
	if rejection := s.validator.ShouldRejectCode(code); rejection.ShouldReject {
		return ReviewVerdict{Rejected: true, Reason: rejection.Reason}
	}

	verdict := s.validator.ValidateCode(code, validate.Options{Strict: s.strict})
	return ReviewVerdict{
		Rejected:   !verdict.IsValid,
		Validation: verdict,
	}
}

// ValidateSyntax exposes the decomposed diagnostics for callers that
// want more than the flat verdict.
func (s *ValidateService) ValidateSyntax(code string) *domain.SyntaxValidationResult {
	return s.validator.ValidateSyntax(code)
}

// CheckRejection exposes the hot-path check on its own.
func (s *ValidateService) CheckRejection(code string) validate.Rejection {
	return s.validator.ShouldRejectCode(code)
}
