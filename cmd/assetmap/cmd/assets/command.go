// Package assets provides the assets command.
package assets

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/assetmap/internal/appcontext"
	"github.com/agentstation/assetmap/internal/cmd/cmdutil"
	"github.com/agentstation/assetmap/internal/cmd/output"
	"github.com/agentstation/assetmap/internal/cmd/table"
	"github.com/agentstation/assetmap/internal/filter"
)

// NewCommand creates the assets command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assets",
		GroupID: "core",
		Short:   "List reconciled assets, drilled into a dashboard card",
		Example: `  # Production assets missing from Defender
  assetmap assets -i inventory.xlsx --intune intune.csv --defender defender.csv -d missing_defender

  # Search MacBooks for a user
  assetmap assets -i inventory.xlsx --jamf jamf.xlsx --device MacBook -s ayşe`,
		Args: cobra.NoArgs,
	}
	inputs := cmdutil.AddInputFlags(cmd)
	filters := cmdutil.AddFilterFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		f, err := filters.Filter()
		if err != nil {
			return err
		}
		snap, err := cmdutil.Reconcile(cmd.Context(), app, inputs)
		if err != nil {
			return err
		}
		am, err := app.Assetmap()
		if err != nil {
			return err
		}
		f.Policy = am.Policy()

		list := filter.Apply(f.Select(snap), f)
		format := output.DetectFormat(app.OutputFormat())
		return output.Print(cmd.OutOrStdout(), format, list, table.AssetsToTableData(list, format == output.FormatWide))
	}

	return cmd
}
