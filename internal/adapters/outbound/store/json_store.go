// Package store persists the template corpus as a JSON file. It stands
// in for the external template store the migration pipeline feeds from.
package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cadmod/cadmod/internal/domain"
)

// JSONStore implements domain.TemplateStore over a single JSON file
// holding an ordered array of templates.
type JSONStore struct{}

func New() *JSONStore { return &JSONStore{} }

func (s *JSONStore) Load(path string) ([]domain.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template corpus: %w", err)
	}

	var templates []domain.Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parsing template corpus %s: %w", path, err)
	}
	return templates, nil
}

func (s *JSONStore) Save(path string, templates []domain.Template) error {
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
