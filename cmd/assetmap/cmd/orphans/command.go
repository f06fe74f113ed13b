// Package orphans provides the orphans command.
package orphans

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/assetmap/internal/appcontext"
	"github.com/agentstation/assetmap/internal/cmd/cmdutil"
	"github.com/agentstation/assetmap/internal/cmd/output"
	"github.com/agentstation/assetmap/internal/cmd/table"
	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// NewCommand creates the orphans command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:     "orphans",
		GroupID: "core",
		Short:   "List management records with no matching inventory asset",
		Example: `  assetmap orphans -i inventory.xlsx --intune intune.csv --source intune`,
		Args:    cobra.NoArgs,
	}
	inputs := cmdutil.AddInputFlags(cmd)
	cmd.Flags().StringVar(&source, "source", "", "Only show orphans of one report (intune, jamf, defender)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		var only inventory.Source
		if source != "" {
			s, ok := inventory.ParseSource(source)
			if !ok {
				return &errors.ValidationError{Field: "source", Value: source, Message: "must be intune, jamf or defender"}
			}
			only = s
		}

		snap, err := cmdutil.Reconcile(cmd.Context(), app, inputs)
		if err != nil {
			return err
		}

		list := make([]inventory.Asset, 0, len(snap.Orphans))
		for _, o := range snap.Orphans {
			if only == "" || o.OrphanSource == only {
				list = append(list, o)
			}
		}

		format := output.DetectFormat(app.OutputFormat())
		if len(list) == 0 && (format == output.FormatTable || format == output.FormatWide) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No orphaned records")
			return nil
		}
		return output.Print(cmd.OutOrStdout(), format, list, table.OrphansToTableData(list))
	}

	return cmd
}
