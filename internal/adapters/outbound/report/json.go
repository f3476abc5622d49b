package report

import (
	"encoding/json"
	"time"

	"github.com/cadmod/cadmod/internal/domain"
)

// SchemaVersion identifies the JSON report schema for programmatic
// consumers.
const SchemaVersion = "1.0"

type jsonReport struct {
	SchemaVersion string             `json:"schema_version"`
	GeneratedAt   time.Time          `json:"generated_at"`
	CommitHash    string             `json:"commit_hash,omitempty"`
	Scan          *domain.ScanResult `json:"scan"`
}

func renderJSON(result *domain.ScanResult, opts Options) (string, error) {
	payload := jsonReport{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   opts.timestamp(),
		CommitHash:    opts.CommitHash,
		Scan:          result,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
