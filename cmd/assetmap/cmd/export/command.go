// Package export provides the export command.
package export

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/assetmap/internal/appcontext"
	"github.com/agentstation/assetmap/internal/cmd/cmdutil"
	"github.com/agentstation/assetmap/internal/filter"
	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/export"
)

// Export kinds.
const (
	KindCSV    = "csv"
	KindReport = "report"
)

// NewCommand creates the export command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		kind string
		file string
	)

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "core",
		Short:   "Export filtered assets as CSV or the snapshot as a markdown report",
		Example: `  # Excel-friendly CSV of production assets missing from Intune
  assetmap export -i inventory.xlsx --intune intune.csv -d missing_intune -f missing.csv

  # Markdown report to stdout
  assetmap export -i inventory.xlsx --intune intune.csv --jamf jamf.xlsx --kind report`,
		Args: cobra.NoArgs,
	}
	inputs := cmdutil.AddInputFlags(cmd)
	filters := cmdutil.AddFilterFlags(cmd)
	cmd.Flags().StringVar(&kind, "kind", KindCSV, "Export kind: csv or report")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to file instead of stdout")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		kind = strings.ToLower(kind)
		if kind != KindCSV && kind != KindReport {
			return &errors.ValidationError{Field: "kind", Value: kind, Message: "must be csv or report"}
		}
		f, err := filters.Filter()
		if err != nil {
			return err
		}

		snap, err := cmdutil.Reconcile(cmd.Context(), app, inputs)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if file != "" {
			out, err := os.Create(file) //nolint:gosec // operator supplied path
			if err != nil {
				return errors.WrapIO("create", file, err)
			}
			defer func() { _ = out.Close() }()
			w = out
		}

		if kind == KindReport {
			return export.WriteReport(w, snap)
		}

		am, err := app.Assetmap()
		if err != nil {
			return err
		}
		f.Policy = am.Policy()
		f.Limit, f.Offset = 0, 0
		rows := filter.Apply(f.Select(snap), f)

		app.Logger().Debug().Int("rows", len(rows)).Str("dashboard", string(f.Dashboard)).Msg("Exporting assets")
		return export.WriteCSV(w, rows)
	}

	return cmd
}
