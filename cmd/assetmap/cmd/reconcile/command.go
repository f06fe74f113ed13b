// Package reconcile provides the reconcile command.
package reconcile

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/assetmap/internal/appcontext"
	"github.com/agentstation/assetmap/internal/cmd/cmdutil"
	"github.com/agentstation/assetmap/internal/cmd/emoji"
	"github.com/agentstation/assetmap/internal/cmd/output"
	"github.com/agentstation/assetmap/internal/cmd/table"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// Result is the structured output of a run.
type Result struct {
	Snapshot inventory.Summary        `json:"snapshot" yaml:"snapshot"`
	Promoted *inventory.Summary       `json:"promoted,omitempty" yaml:"promoted,omitempty"`
	Stats    inventory.DashboardStats `json:"stats" yaml:"stats"`
}

// NewCommand creates the reconcile command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var promote bool

	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "core",
		Short:   "Reconcile an inventory against Intune, Jamf and Defender reports",
		Long: `Reconcile reads the asset inventory and any management reports given,
matches every asset against each report and prints the dashboard figures
of the resulting snapshot.

Reports are optional; a source without a report counts every asset as
missing from it.`,
		Example: `  # Inventory with all three reports
  assetmap reconcile -i inventory.xlsx --intune intune.csv --jamf jamf.xlsx --defender defender.csv

  # Promote the result to a permanent snapshot for the period
  assetmap reconcile -i inventory.xlsx --intune intune.csv --label 2025-11 --promote`,
		Args: cobra.NoArgs,
	}
	inputs := cmdutil.AddInputFlags(cmd)
	cmd.Flags().BoolVar(&promote, "promote", false, "Promote the draft to a permanent snapshot (requires --label)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		snap, err := cmdutil.Reconcile(cmd.Context(), app, inputs)
		if err != nil {
			return err
		}

		result := Result{Snapshot: snap.Summary(), Stats: snap.Stats}
		if promote {
			am, err := app.Assetmap()
			if err != nil {
				return err
			}
			promoted, err := am.Promote(snap.ID, inputs.Label)
			if err != nil {
				return err
			}
			summary := promoted.Summary()
			result.Promoted = &summary
		}

		return render(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), result)
	}

	return cmd
}

func render(w io.Writer, format output.Format, result Result) error {
	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(w, result)
	}

	summary := result.Snapshot
	if result.Promoted != nil {
		summary = *result.Promoted
	}
	if err := output.Print(w, format, nil, table.SummaryToTableData(summary)); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w)
	if err := output.Print(w, format, nil, table.StatsToTableData(result.Stats)); err != nil {
		return err
	}

	var orphans int
	for _, n := range result.Stats.OrphanCounts {
		orphans += n
	}
	if orphans > 0 {
		_, _ = fmt.Fprintf(w, "\n%s %d management records have no inventory asset; see `assetmap orphans`\n", emoji.Warning, orphans)
	}
	return nil
}
