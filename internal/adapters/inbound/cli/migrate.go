package cli

import (
	"encoding/json"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	configAdapter "github.com/cadmod/cadmod/internal/adapters/outbound/config"
	"github.com/cadmod/cadmod/internal/adapters/outbound/store"
	"github.com/cadmod/cadmod/internal/adapters/outbound/tui"
	"github.com/cadmod/cadmod/internal/application"
	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/rules"
	"github.com/cadmod/cadmod/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	var (
		outPath    string
		resultPath string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "migrate <corpus.json>",
		Short: "Migrate a template corpus to modern Cadence",
		Long:  "Load a template corpus, rewrite every template that needs migration, re-validate the result and write the updated corpus. Templates that fail validation keep their original code.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpusPath := args[0]

			cfg, err := configAdapter.New().Load(".")
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := logging.Setup(cfg.Log)
			collector := domain.NewCollector(logger)

			registry := rules.NewRegistry(cfg)
			migrateSvc, err := application.NewMigrateService(registry, collector, cfg.Workers)
			if err != nil {
				return err
			}

			templateStore := store.New()
			templates, err := templateStore.Load(corpusPath)
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(templates),
				progressbar.OptionSetDescription("migrating"),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionClearOnFinish(),
			)

			run := migrateSvc.ProcessAll(cmd.Context(), templates, func() {
				_ = bar.Add(1)
			})

			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderMigration(run))

			if outPath == "" {
				outPath = corpusPath
			}
			if err := templateStore.Save(outPath, run.Templates); err != nil {
				return fmt.Errorf("writing corpus: %w", err)
			}

			if resultPath != "" {
				data, err := json.MarshalIndent(run, "", "  ")
				if err != nil {
					return err
				}
				if err := writeFile(resultPath, append(data, '\n')); err != nil {
					return fmt.Errorf("writing run result: %w", err)
				}
			}

			if run.Statistics.FailedMigrations > 0 {
				return fmt.Errorf("%d template(s) failed migration", run.Statistics.FailedMigrations)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output corpus path (default: overwrite input)")
	cmd.Flags().StringVar(&resultPath, "results", "", "Write the full run result as JSON")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel migration workers (default from config)")

	return cmd
}
