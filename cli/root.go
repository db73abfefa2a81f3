package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/waitlist-app/config"
	"github.com/yeremiapane/waitlist-app/services"
	"github.com/yeremiapane/waitlist-app/utils"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "waitlist",
		Short:         "Walk-in waitlist and table seating service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML config file (overrides environment)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	return cmd
}

// Execute runs the root command; main exits non-zero on error.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig -> config plus logger setup, shared by every subcommand
func loadConfig(opts *RootOptions) (config.Config, error) {
	utils.InitLogger()
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if err := utils.ConfigureLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return cfg, err
	}
	if _, err := services.ParsePolicy(cfg.TransitionPolicy); err != nil {
		return cfg, fmt.Errorf("TRANSITION_POLICY: %w", err)
	}
	return cfg, nil
}
