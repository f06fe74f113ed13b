// Package cmdutil provides the flags shared by the assetmap commands that
// reconcile files and browse the result.
package cmdutil

import (
	"context"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/assetmap"
	"github.com/agentstation/assetmap/internal/appcontext"
	"github.com/agentstation/assetmap/internal/filter"
	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/tabular"
)

// InputFlags names the files of one reconciliation run.
type InputFlags struct {
	Inventory string
	Intune    string
	Jamf      string
	Defender  string
	Label     string
}

// InputFlagNames are the file flags added by AddInputFlags.
var InputFlagNames = []string{"inventory", "intune", "jamf", "defender"}

// AddInputFlags adds the input file flags to a command.
func AddInputFlags(cmd *cobra.Command) *InputFlags {
	flags := &InputFlags{}

	cmd.Flags().StringVarP(&flags.Inventory, "inventory", "i", "",
		"Asset inventory file (xlsx, xlsm or csv)")
	cmd.Flags().StringVar(&flags.Intune, "intune", "",
		"Intune device report")
	cmd.Flags().StringVar(&flags.Jamf, "jamf", "",
		"Jamf computer report")
	cmd.Flags().StringVar(&flags.Defender, "defender", "",
		"Defender device report")
	cmd.Flags().StringVar(&flags.Label, "label", "",
		"Period label for the snapshot (e.g. 2025-11)")

	for _, name := range InputFlagNames {
		_ = cmd.MarkFlagFilename(name, tabular.Extensions()...)
	}

	return flags
}

// Inputs turns the flags into reconciliation inputs.
func (f *InputFlags) Inputs() (assetmap.Inputs, error) {
	if f.Inventory == "" {
		return assetmap.Inputs{}, errors.MissingInventory()
	}
	in := assetmap.Inputs{
		Inventory: assetmap.PathFile(f.Inventory),
		Label:     f.Label,
	}
	for source, path := range map[inventory.Source]string{
		inventory.SourceIntune:   f.Intune,
		inventory.SourceJamf:     f.Jamf,
		inventory.SourceDefender: f.Defender,
	} {
		if path != "" {
			in.SetReport(source, assetmap.PathFile(path))
		}
	}
	return in, nil
}

// Reconcile runs the reconciliation the flags describe on the app session.
func Reconcile(ctx context.Context, app appcontext.Interface, flags *InputFlags) (*inventory.Snapshot, error) {
	in, err := flags.Inputs()
	if err != nil {
		return nil, err
	}
	am, err := app.Assetmap()
	if err != nil {
		return nil, err
	}
	return am.Reconcile(ctx, in)
}

// FilterFlags holds the asset list filters.
type FilterFlags struct {
	Dashboard string
	Device    string
	Status    string
	Brand     string
	Model     string
	User      string
	Search    string
	Limit     int
	Offset    int
}

// AddFilterFlags adds asset filter flags to a command.
func AddFilterFlags(cmd *cobra.Command) *FilterFlags {
	flags := &FilterFlags{}

	cmd.Flags().StringVarP(&flags.Dashboard, "dashboard", "d", "",
		"Dashboard card: all, compliant, missing_intune, missing_jamf, missing_defender, stock, orphan_intune, orphan_jamf, orphan_defender")
	cmd.Flags().StringVar(&flags.Device, "device", "",
		"Device type (Desktop, Notebook, MacBook, iPhone, iPad, Monitor, Other)")
	cmd.Flags().StringVar(&flags.Status, "status", "",
		"Exact status description")
	cmd.Flags().StringVar(&flags.Brand, "brand", "",
		"Exact brand")
	cmd.Flags().StringVar(&flags.Model, "model", "",
		"Exact model")
	cmd.Flags().StringVar(&flags.User, "user", "",
		"Exact assigned user")
	cmd.Flags().StringVarP(&flags.Search, "search", "s", "",
		"Case-insensitive search over hostname, tag, serial and user")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0,
		"Limit number of results (0 for all)")
	cmd.Flags().IntVar(&flags.Offset, "offset", 0,
		"Skip the first n results")

	return flags
}

// Filter validates the flags into a filter.Filter.
func (f *FilterFlags) Filter() (filter.Filter, error) {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("dashboard", f.Dashboard)
	set("device", f.Device)
	set("status", f.Status)
	set("brand", f.Brand)
	set("model", f.Model)
	set("user", f.User)
	set("q", f.Search)
	q.Set("limit", strconv.Itoa(f.Limit))
	q.Set("offset", strconv.Itoa(f.Offset))
	return filter.ParseQuery(q)
}
