package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fyerfyer/druid-atpg/pkg/utils"
)

var (
	cfgFile  string
	logLevel string
	cfg      utils.Config
	logger   zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "druid",
	Short: "SAT-based automatic test pattern generation for gate-level netlists",
	Long: `druid generates compact test sets for stuck-at and transition-delay
faults: it builds a levelized circuit model, enumerates representative
faults, and runs a SAT-based generator with bit-parallel fault
simulation for fault dropping and pattern grading.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = utils.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Framework.LogLevel = logLevel
		}
		logger = utils.NewLogger(utils.LoggerConfig{
			Level:  utils.LogLevel(cfg.Framework.LogLevel),
			Format: utils.LogFormat(cfg.Framework.LogFormat),
		})
		return nil
	},
}

// Execute runs the CLI
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (trace|debug|info|warn|error)")
}
