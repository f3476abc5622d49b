package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	configAdapter "github.com/cadmod/cadmod/internal/adapters/outbound/config"
	"github.com/cadmod/cadmod/internal/application"
	"github.com/cadmod/cadmod/internal/domain/rules"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func newValidateCmd() *cobra.Command {
	var (
		strict     bool
		rejectOnly bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file|->",
		Short: "Validate a single Cadence source",
		Long:  "Run the legacy-pattern checks and the full syntax validator over one file (or stdin with -). Generation pipelines gate AI-produced code on this command's exit code.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var code []byte
			var err error
			if args[0] == "-" {
				code, err = io.ReadAll(cmd.InOrStdin())
			} else {
				code, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading source: %w", err)
			}

			cfg, err := configAdapter.New().Load(".")
			if err != nil {
				return err
			}
			if strict {
				cfg.Strict = true
			}

			registry := rules.NewRegistry(cfg)
			if err := registry.Validate(); err != nil {
				return fmt.Errorf("invalid rule registry: %w", err)
			}
			validateSvc, err := application.NewValidateService(registry, cfg.Strict)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if rejectOnly {
				rejection := validateSvc.CheckRejection(string(code))
				if err := enc.Encode(rejection); err != nil {
					return err
				}
				if rejection.ShouldReject {
					return fmt.Errorf("rejected: %s", rejection.Reason)
				}
				return nil
			}

			verdict := validateSvc.Review(string(code))
			if err := enc.Encode(verdict); err != nil {
				return err
			}
			if verdict.Rejected {
				if verdict.Reason != "" {
					return fmt.Errorf("rejected: %s", verdict.Reason)
				}
				return fmt.Errorf("validation failed: %d error(s)", len(verdict.Validation.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")
	cmd.Flags().BoolVar(&rejectOnly, "reject", false, "Run only the fast rejection check")

	return cmd
}
