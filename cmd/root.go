// Package cmd implements the newsmapper command-line interface.
package cmd

import (
	"context"
	"fmt"

	infraconfig "github.com/elizabethzhu1/newsmapper/infrastructure/config"
	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/config"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X ...cmd.Version=...".
var Version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string
	// debug forces debug logging and gin debug mode.
	debug bool
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "newsmapper",
		Short:         "Place world news headlines on a map",
		Long:          `newsmapper fetches world headlines, extracts and resolves their locations, and lays them out as map markers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default is $CONFIG_PATH or ./%s)", config.DefaultPath))
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCommand(),
		newResolveCommand(),
		newLayoutCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// loadConfig loads configuration from --config, CONFIG_PATH or the default
// path, in that order.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = infraconfig.GetConfigPath(config.DefaultPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
		cfg.Service.Debug = true
	}
	return cfg, nil
}

// newLogger builds the service logger tagged with the service name.
func newLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		logger.String("service", cfg.Service.Name),
		logger.String("version", Version),
	), nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsmapper version %s\n", Version)
		},
	}
}
