package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eugenenazirov/pallet-optimizer/internal/logging"
)

var version = "dev"

// SetVersion overrides the version printed by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

type rootOptions struct {
	jsonOutput bool
	verbose    bool
	logger     *zap.Logger
}

// NewRootCommand builds the palletcalc command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:     "palletcalc",
		Version: version,
		Short:   "Calculate how many boxes fit on a pallet",
		Long: `palletcalc works out how many identical boxes fit on a pallet, trying both
horizontal orientations of the box, and how many pallets a shipment needs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !opts.verbose {
				return nil
			}
			logger, err := logging.New(logging.Options{Level: "debug", Format: "console"})
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = opts.logger.Sync()
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log calculation details to stderr")

	cmd.AddCommand(newOptimizeCommand(opts))
	cmd.AddCommand(newPalletCommand(opts))

	return cmd
}

// Execute runs the palletcalc command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
