package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/assetmap/cmd/assetmap/cmd/assets"
	"github.com/agentstation/assetmap/cmd/assetmap/cmd/completion"
	"github.com/agentstation/assetmap/cmd/assetmap/cmd/export"
	"github.com/agentstation/assetmap/cmd/assetmap/cmd/man"
	"github.com/agentstation/assetmap/cmd/assetmap/cmd/narrative"
	"github.com/agentstation/assetmap/cmd/assetmap/cmd/orphans"
	"github.com/agentstation/assetmap/cmd/assetmap/cmd/policies"
	"github.com/agentstation/assetmap/cmd/assetmap/cmd/reconcile"
	"github.com/agentstation/assetmap/cmd/assetmap/cmd/serve"
	"github.com/agentstation/assetmap/cmd/assetmap/cmd/version"
	"github.com/agentstation/assetmap/internal/cmd/output"
	"github.com/agentstation/assetmap/pkg/stats"
)

// Execute runs the assetmap CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "assetmap",
		Short:   "Asset inventory reconciliation CLI",
		Version: a.version,
		Long: `Assetmap reconciles a corporate asset inventory against Intune, Jamf
and Defender reports. It tells you which production devices are missing
from each management source, which management records have no inventory
asset, and how compliant the fleet is under a configurable policy.

Files may be xlsx, xlsm or csv. Headers are matched case-insensitively
with Turkish-aware folding.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "management", Title: "Management Commands:"})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "config file (default is ./.assetmap.yaml or $HOME/.assetmap.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, wide, json, yaml, markdown")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.StringVar(&a.config.Policy, "policy", a.config.Policy, "compliance policy name")
	flags.StringVar(&a.config.PolicyFile, "policy-file", a.config.PolicyFile, "YAML compliance policy (overrides --policy)")
	flags.StringVar(&a.config.AssetsConfig, "assets-config", a.config.AssetsConfig, "YAML file with exemptions, keywords and column aliases")
	flags.IntVar(&a.config.Concurrency, "concurrency", a.config.Concurrency, "files decoded in parallel")

	_ = rootCmd.RegisterFlagCompletionFunc("policy", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, p := range stats.List() {
			names = append(names, p.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.SetVersionTemplate("assetmap {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs. It reloads an explicit
// config file, validates the output format and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if a.config.ConfigFile != "" && cmd.Flags().Changed("config") {
		loaded, err := LoadConfig(a.config.ConfigFile)
		if err != nil {
			return err
		}
		overlayFlags(cmd, loaded, a.config)
		a.config = loaded
	}

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	a.setLogger(NewLogger(a.config))
	return nil
}

// overlayFlags copies explicitly set persistent flags from cur onto loaded.
func overlayFlags(cmd *cobra.Command, loaded, cur *Config) {
	changed := cmd.Flags().Changed
	loaded.ConfigFile = cur.ConfigFile
	if changed("verbose") {
		loaded.Verbose = cur.Verbose
	}
	if changed("quiet") {
		loaded.Quiet = cur.Quiet
	}
	if changed("no-color") {
		loaded.NoColor = cur.NoColor
	}
	if changed("format") {
		loaded.Format = cur.Format
	}
	if changed("log-level") {
		loaded.LogLevel = cur.LogLevel
	}
	if changed("policy") {
		loaded.Policy = cur.Policy
	}
	if changed("policy-file") {
		loaded.PolicyFile = cur.PolicyFile
	}
	if changed("assets-config") {
		loaded.AssetsConfig = cur.AssetsConfig
	}
	if changed("concurrency") {
		loaded.Concurrency = cur.Concurrency
	}
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(reconcile.NewCommand(a))
	rootCmd.AddCommand(assets.NewCommand(a))
	rootCmd.AddCommand(orphans.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))
	rootCmd.AddCommand(narrative.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a, a.config.Server))

	// Management commands
	rootCmd.AddCommand(policies.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())
	rootCmd.AddCommand(man.NewCommand())
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
