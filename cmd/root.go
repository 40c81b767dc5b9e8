// Package cmd wires the rps command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/rps-results/cmd/compare"
	"github.com/tphakala/rps-results/cmd/dataset"
	"github.com/tphakala/rps-results/cmd/export"
	"github.com/tphakala/rps-results/cmd/migrate"
	"github.com/tphakala/rps-results/cmd/rebuild"
	"github.com/tphakala/rps-results/internal/app"
	"github.com/tphakala/rps-results/internal/conf"
)

// flags holds the global command line overrides.
type flags struct {
	configPath string
	debug      bool
	projectID  uint
	database   string
}

// RootCommand creates and returns the root command
func RootCommand(ctx *app.Context) *cobra.Command {
	var f flags

	rootCmd := &cobra.Command{
		Use:           "rps",
		Short:         "Structural analysis result cache and dataset engine",
		Version:       ctx.Build.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, &f, ctx)

	rootCmd.AddCommand(
		migrate.Command(ctx),
		rebuild.Command(ctx),
		dataset.Command(ctx),
		compare.Command(ctx),
		export.Command(ctx),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initialize(cmd, &f, ctx)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		ctx.Close()
	}

	return rootCmd
}

// initialize loads the settings and applies command line overrides. The
// runtime itself is assembled lazily by the commands that need it.
func initialize(cmd *cobra.Command, f *flags, ctx *app.Context) error {
	settings, err := conf.Load(f.configPath)
	if err != nil {
		return err
	}

	flagSet := cmd.Flags()
	if flagSet.Changed("debug") {
		settings.Debug = f.debug
	}
	if flagSet.Changed("project") {
		settings.Project.ID = f.projectID
	}
	if flagSet.Changed("database") {
		settings.Database.Type = conf.DatabaseSQLite
		settings.Database.SQLite.Path = f.database
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	*ctx.Settings = *settings
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, f *flags, ctx *app.Context) {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Path to the config file")
	pf.BoolVarP(&f.debug, "debug", "d", false, "Enable debug output")
	pf.UintVarP(&f.projectID, "project", "p", 0, "Project id, overrides project.id")
	pf.StringVar(&f.database, "database", "", "SQLite project database, overrides database settings")
	pf.StringVar(&ctx.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")
}
