package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	configAdapter "github.com/cadmod/cadmod/internal/adapters/outbound/config"
	"github.com/cadmod/cadmod/internal/domain/rules"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the transformation rules and detection patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configAdapter.New().Load(".")
			if err != nil {
				return err
			}
			registry := rules.NewRegistry(cfg)
			snapshot := registry.Config()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Target version: %s\n\nTransformation rules (applied in order):\n", snapshot.TargetVersion)

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"#", "Category", "Description"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			for i, r := range snapshot.Rules {
				table.Append([]string{fmt.Sprintf("%d", i+1), r.Category, r.Description})
			}
			table.Render()

			fmt.Fprintf(out, "\nDetection patterns:\n")
			detection := tablewriter.NewWriter(out)
			detection.SetHeader([]string{"Type", "Severity", "Impact"})
			detection.SetBorder(false)
			detection.SetCenterSeparator("")
			for _, p := range snapshot.Detection {
				detection.Append([]string{p.Type, p.Severity, p.Impact})
			}
			detection.Render()
			return nil
		},
	}
	return cmd
}
