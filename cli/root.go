package cli

import (
	"fmt"
	"os"

	"github.com/raxitsanghani/grill-food-web-sub000/config"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string

	Config *config.Config
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "grill",
		Short: "Grill restaurant ordering platform",
		Long: `Runs the Customer Service and the Admin Service of the Grill ordering
platform, and a terminal client that follows a customer's orders live.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.LogLevel != "" {
				cfg.App.LogLevel = opts.LogLevel
			}
			utils.InitLogger(cfg.App.LogLevel, cfg.App.LogFormat)
			opts.Config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")

	cmd.AddCommand(NewCustomerCommand(opts))
	cmd.AddCommand(NewAdminCommand(opts))
	cmd.AddCommand(NewTrackCommand(opts))
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
