package cmd

import (
	"log/slog"

	"github.com/jsphweid/ornamentum/constants"
	"github.com/jsphweid/ornamentum/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    *constants.Config
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "ornamentum",
	Short: "Writes out ornaments as the notes a performer plays",
	Long: `ornamentum reads scores whose notes carry mordents, trills, turns,
appoggiaturas and tremolos, and writes them back with every ornament
realized into plain notes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = constants.Load()
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger = logging.New(level)
		return nil
	},
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
