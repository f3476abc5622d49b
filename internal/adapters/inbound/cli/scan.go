package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configAdapter "github.com/cadmod/cadmod/internal/adapters/outbound/config"
	"github.com/cadmod/cadmod/internal/adapters/outbound/gitinfo"
	"github.com/cadmod/cadmod/internal/adapters/outbound/report"
	"github.com/cadmod/cadmod/internal/adapters/outbound/tui"
	"github.com/cadmod/cadmod/internal/adapters/outbound/walker"
	"github.com/cadmod/cadmod/internal/application"
	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/rules"
	"github.com/cadmod/cadmod/internal/logging"
)

func newScanCmd() *cobra.Command {
	var (
		format     string
		outPath    string
		policy     string
		groupBy    string
		context    bool
		production bool
		exclude    []string
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a source tree for legacy Cadence syntax",
		Long:  "Walk a directory tree, apply the legacy-detection patterns and report findings. Exits non-zero when critical findings remain.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			absRoot, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg, err := configAdapter.New().Load(absRoot)
			if err != nil {
				return err
			}
			if production {
				policy = string(domain.PolicyProduction)
			}
			if policy != "" {
				cfg.Policy = domain.SuppressionPolicy(policy)
			}
			if len(exclude) > 0 {
				cfg.ExcludePaths = append(cfg.ExcludePaths, exclude...)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := logging.Setup(cfg.Log)
			collector := domain.NewCollector(logger)

			registry := rules.NewRegistry(cfg)
			if err := registry.Validate(); err != nil {
				return fmt.Errorf("invalid rule registry: %w", err)
			}

			scanSvc, err := application.NewScanService(registry, walker.New(), cfg.Policy, collector)
			if err != nil {
				return err
			}

			result, err := scanSvc.Scan(absRoot, cfg.ExcludePaths)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			var commitHash string
			if git := gitinfo.New(); git.IsGitRepo(absRoot) {
				commitHash, _ = git.CommitHash(absRoot)
			}

			opts := report.Options{
				Format:         report.Format(format),
				GroupBy:        report.Grouping(groupBy),
				IncludeContext: context,
				CommitHash:     commitHash,
			}

			switch {
			case outPath != "":
				text, err := report.Generate(result, opts)
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderScan(result))
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
			case format != "":
				text, err := report.Generate(result, opts)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderScan(result))
			}

			if collector.HasErrors() {
				fmt.Fprint(cmd.ErrOrStderr(), collector.Report())
			}

			if result.HasCritical() {
				return fmt.Errorf("%d critical finding(s) remain",
					result.CountsBySeverity[domain.SeverityCritical])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Report format: markdown, json or csv (default: terminal)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the report to a file")
	cmd.Flags().StringVar(&policy, "policy", "", "Suppression policy: general or production")
	cmd.Flags().BoolVar(&production, "production", false, "Shorthand for --policy production")
	cmd.Flags().StringVar(&groupBy, "group-by", "file", "Markdown grouping: file or severity")
	cmd.Flags().BoolVar(&context, "context", false, "Inline the context window per finding (markdown)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Additional directory fragments to skip")

	return cmd
}
