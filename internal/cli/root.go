package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"go.leafdb/internal/config"
	"go.leafdb/internal/engine"
)

var cfg *config.Config

var (
	homeFlag     string
	configFlag   string
	logLevelFlag string
	maxPagesFlag uint32
)

var rootCmd = &cobra.Command{
	Use:           "leafdb [path]",
	Short:         "leafdb - single table record store",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(homeFlag, configFlag)
		if err != nil {
			return fmt.Errorf("Failed to load config: %w", err)
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevelFlag
		}
		if cmd.Flags().Changed("max-pages") {
			cfg.MaxPages = maxPagesFlag
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}

		db, err := engine.OpenFromConfig(cfg, name)
		if err != nil {
			return fmt.Errorf("Failed to open Database: %w", err)
		}

		// Only prompt when a person is typing, scripted input gets bare output
		prompt := ""
		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			prompt = Prompt
		}

		return runREPL(db, cmd.InOrStdin(), cmd.OutOrStdout(), prompt)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&homeFlag, "home", "", "leafdb home directory (default $LEAFDB_HOME or ~/.local/share/leafdb)")
	flags.StringVar(&configFlag, "config", "", "path to config.yaml (default <home>/config.yaml)")
	flags.StringVar(&logLevelFlag, "log-level", "info", "log level: debug, info, warn, error")
	flags.Uint32Var(&maxPagesFlag, "max-pages", config.DefaultMaxPages, "maximum number of pages the pager may address")
}
