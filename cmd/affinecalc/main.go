// affinecalc evaluates chains of elementary functions over affine forms.
//
// Usage:
//
//	affinecalc eval 0 1 "sqr,exp"
//	affinecalc sweep --parts 64 -- -2 2 "sin,sqr"
//	affinecalc serve --port 8080
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	affine "github.com/njchilds90/goaffine"
	"github.com/njchilds90/goaffine/interval"
)

var (
	// Global flags
	verbose    bool
	configPath string
	policy     string
	mode       string

	logger *zap.Logger
	cfg    *affine.Config
)

var rootCmd = &cobra.Command{
	Use:   "affinecalc",
	Short: "Self-validated range evaluation with affine arithmetic",
	Long: `affinecalc runs a program, a comma-separated chain of operations such as
"sqr,exp,pow:3", over the affine form of an interval and prints a guaranteed
enclosure of the result.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = affine.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if policy != "" {
			cfg.Policy = policy
		}
		if mode != "" {
			cfg.Mode = mode
		}
		if verbose {
			cfg.Logging.Level = zapcore.DebugLevel.String()
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = cfg.NewLogger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval LO HI [PROGRAM]",
	Short: "Run a program over the affine form of [LO, HI]",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runEval,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep LO HI [PROGRAM]",
	Short: "Split [LO, HI] into parts and hull the program results",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runSweep,
}

var parts int

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "affine.yaml", "Path to the YAML config")
	rootCmd.PersistentFlags().StringVar(&policy, "policy", "", "Storage policy: compensated, enclosed or sparse")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "", "Linearization mode: chebyshev or minrange")

	sweepCmd.Flags().IntVarP(&parts, "parts", "n", 16, "Number of sub-enclosures")

	rootCmd.AddCommand(evalCmd, sweepCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseArgs reads LO HI [PROGRAM].
func parseArgs(args []string) (interval.Interval, affine.Program, error) {
	lo, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return interval.Interval{}, nil, fmt.Errorf("%w: lo: %w", affine.ErrBadParam, err)
	}
	hi, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return interval.Interval{}, nil, fmt.Errorf("%w: hi: %w", affine.ErrBadParam, err)
	}
	if lo > hi {
		return interval.Interval{}, nil, fmt.Errorf("%w: lo %g > hi %g", affine.ErrBadParam, lo, hi)
	}
	var prog affine.Program
	if len(args) == 3 {
		if prog, err = affine.ParseProgram(args[2]); err != nil {
			return interval.Interval{}, nil, err
		}
	}
	return interval.New(lo, hi), prog, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	x, prog, err := parseArgs(args)
	if err != nil {
		return err
	}
	s, err := affine.NewSpaceFromConfig(cfg, affine.WithLogger(logger))
	if err != nil {
		return err
	}
	f := s.Fresh(x)
	rng := prog.Run(f)
	if tol := cfg.Compaction.Tolerance; tol > 0 {
		f.Compact(tol)
	}
	logger.Debug("evaluated", zap.Stringer("program", prog), zap.Stringer("x", x), zap.Int("terms", f.Len()))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "form: ", f)
	fmt.Fprintln(out, "range:", rng)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	x, prog, err := parseArgs(args)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	res, err := affine.Sweep(ctx, cfg, x, parts, prog, affine.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Debug("swept", zap.Stringer("program", prog), zap.Int("parts", len(res.Parts)))
	fmt.Fprintln(cmd.OutOrStdout(), "range:", res.Range)
	return nil
}
