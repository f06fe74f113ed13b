// Package narrative provides the narrative command.
package narrative

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/assetmap/internal/appcontext"
	"github.com/agentstation/assetmap/internal/cmd/cmdutil"
	"github.com/agentstation/assetmap/internal/cmd/output"
)

// requestTimeout bounds one narrative generation.
const requestTimeout = 2 * time.Minute

// Result is the structured output of the command.
type Result struct {
	SnapshotID string `json:"snapshot_id" yaml:"snapshot_id"`
	Narrative  string `json:"narrative" yaml:"narrative"`
}

// NewCommand creates the narrative command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "narrative",
		GroupID: "core",
		Short:   "Write an executive summary of the dashboard figures with Gemini",
		Long: `Narrative reconciles the given files and asks Gemini for a markdown
executive summary of the resulting dashboard figures. Only aggregate
numbers are sent; no asset records leave the machine.

Requires GEMINI_API_KEY (or GOOGLE_API_KEY).`,
		Example: `  GEMINI_API_KEY=... assetmap narrative -i inventory.xlsx --intune intune.csv --jamf jamf.xlsx --defender defender.csv`,
		Args:    cobra.NoArgs,
	}
	inputs := cmdutil.AddInputFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		narrator, err := app.Narrator(ctx)
		if err != nil {
			return err
		}

		snap, err := cmdutil.Reconcile(ctx, app, inputs)
		if err != nil {
			return err
		}

		text, err := narrator.Generate(ctx, snap.Stats)
		if err != nil {
			return err
		}

		format := output.DetectFormat(app.OutputFormat())
		switch format {
		case output.FormatJSON, output.FormatYAML:
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), Result{SnapshotID: snap.ID, Narrative: text})
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}

	return cmd
}
