package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/mathtree/internal/config"
	"github.com/njchilds90/mathtree/internal/logging"
)

// app carries what the persistent flags resolve to.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "mathtree",
		Short: "Incremental algebraic expression editor",
		Long: `mathtree edits an expression tree the way a field-per-operand editor
does: text typed into a field resolves it to a number or a monomial, an
operator character restructures the tree by precedence, and deleting next
to an operator folds its operands into one field.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			// Console output on stderr; stdout is for results.
			cfg.Logging.Format = "console"
			logger, err := logging.New(cfg.Logging, a.verbose)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newEvalCmd(a))
	root.AddCommand(newReplayCmd(a))
	root.AddCommand(newREPLCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
