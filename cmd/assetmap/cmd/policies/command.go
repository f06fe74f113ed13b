// Package policies provides the policies command.
package policies

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/assetmap/internal/appcontext"
	"github.com/agentstation/assetmap/internal/cmd/output"
	"github.com/agentstation/assetmap/internal/cmd/table"
	"github.com/agentstation/assetmap/pkg/stats"
)

// NewCommand creates the policies command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "policies",
		GroupID: "management",
		Short:   "List the compliance policies",
		Long: `Policies lists the registered compliance policies. The active one,
chosen with --policy or a policy file, is marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			am, err := app.Assetmap()
			if err != nil {
				return err
			}

			list := stats.List()
			active := am.Policy()
			if !stats.Has(active.Name) {
				list = append(list, active)
			}

			format := output.DetectFormat(app.OutputFormat())
			return output.Print(cmd.OutOrStdout(), format, list, table.PoliciesToTableData(list, active.Name))
		},
	}
}
