// Package cli implements the island commands.
package cli

import (
	"github.com/genricoloni/island/internal/config"
	"github.com/spf13/cobra"
)

// options holds the flags shared by every command
type options struct {
	configPath string
	surface    string
	addr       string
	source     string
	players    []string
	logLevel   string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "island",
		Short: "A dynamic island for whatever is playing",
		Long: `Island shows a pill-shaped widget with the date and time that expands
into a now-playing card whenever a media player is active.

Without a subcommand, it runs the island.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIsland(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (.yaml or .toml)")
	pf.StringVar(&opts.surface, "surface", "", "where to draw the island: web or term")
	pf.StringVar(&opts.addr, "addr", "", "listen address of the web surface")
	pf.StringVar(&opts.source, "source", "", "now-playing source: mpris or mpd")
	pf.StringSliceVar(&opts.players, "players", nil, "preferred MPRIS players, highest priority first")
	pf.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(newNowCmd(opts))
	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadValues reads configuration and applies explicitly set flags on top
func loadValues(cmd *cobra.Command, opts *options) (config.Values, error) {
	v, err := config.Load(opts.configPath)
	if err != nil {
		return config.Values{}, err
	}

	fs := cmd.Flags()
	if fs.Changed("surface") {
		v.Surface = opts.surface
	}
	if fs.Changed("addr") {
		v.ListenAddr = opts.addr
	}
	if fs.Changed("source") {
		v.Source = opts.source
	}
	if fs.Changed("players") {
		v.Players = config.NormalizePlayers(opts.players)
	}
	if fs.Changed("log-level") {
		v.LogLevel = opts.logLevel
	}

	if err := v.Validate(); err != nil {
		return config.Values{}, err
	}
	return v, nil
}
