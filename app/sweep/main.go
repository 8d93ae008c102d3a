package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"patrolBandit/business/experiment"
	"patrolBandit/internal/repository/tabular"
	"patrolBandit/pkg/config"
	"patrolBandit/pkg/logger"
)

var (
	configPath     string
	outDir         string
	seed           uint64
	sizes          []int
	horizon        int
	trials         int
	policies       []string
	parallel       bool
	diagnostics    bool
	noEarlyStop    bool
	underreporting bool
	noProgress     bool
)

var rootCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a bandit policy sweep over problem sizes",
	Long: `Generate one patrol problem per size, run every policy on it and write
distance_<M>.csv (and observability_<M>.csv with --diagnostics) per size.
Flags override values read from --config.`,
	SilenceUsage: true,
	RunE:         runSweep,
}

func init() {
	def := experiment.DefaultConfig()
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML sweep file")
	f.StringVarP(&outDir, "out", "o", "", "output directory (default SIM_OUTPUT_DIR)")
	f.Uint64Var(&seed, "seed", def.Seed, "random seed")
	f.IntSliceVar(&sizes, "sizes", def.Sizes, "numbers of arms M")
	f.IntVar(&horizon, "horizon", def.Horizon, "maximum rounds per run")
	f.IntVar(&trials, "trials", def.Trials, "binomial trials N per observation")
	f.StringSliceVar(&policies, "policies", def.Policies, "policies in run order")
	f.BoolVar(&parallel, "parallel", false, "run the policies of a size concurrently")
	f.BoolVar(&diagnostics, "diagnostics", false, "record the observability estimate")
	f.BoolVar(&noEarlyStop, "no-early-stop", false, "always run to the horizon")
	f.BoolVar(&underreporting, "underreporting", false, "widen LLR's confidence region to M")
	f.BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSweep(cmd *cobra.Command, _ []string) error {
	env, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(logger.Config{
		Environment: env.App.Environment,
		Level:       env.Log.Level,
		Format:      env.Log.Format,
		File:        env.Log.File,
		MaxSizeMB:   env.Log.MaxSizeMB,
		MaxBackups:  env.Log.MaxBackups,
		MaxAgeDays:  env.Log.MaxAgeDays,
	})

	cfg := experiment.DefaultConfig()
	if configPath != "" {
		if cfg, err = experiment.LoadConfig(configPath); err != nil {
			return err
		}
	}
	applyFlags(cmd, &cfg)
	if outDir == "" {
		outDir = env.Simulation.OutputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := experiment.NewRunner(cfg, tabular.NewCSVWriter(outDir))

	var bar *progressbar.ProgressBar
	if !noProgress {
		total := 0
		for range cfg.Sizes {
			total += len(cfg.Policies) * cfg.Horizon
		}
		bar = progressbar.NewOptions(total, progressbar.OptionSetWriter(os.Stderr))

		var mu sync.Mutex
		runner.WithProgress(func(int, string, int) {
			mu.Lock()
			_ = bar.Add(1)
			mu.Unlock()
		})
	}

	report, err := runner.Run(ctx)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "M\tPOLICY\tSTATE\tROUNDS\tFINAL\tMEAN")
	for _, size := range report.Sizes {
		for _, s := range size.Summary() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.4f\t%.4f\n",
				size.Arms, s.Policy, s.State, s.Rounds, s.FinalDistance, s.MeanDistance)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logger.Info("sweep finished", "trace_id", report.TraceID, "out", outDir)
	return nil
}

// applyFlags overrides the file config with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *experiment.Config) {
	f := cmd.Flags()
	if configPath == "" || f.Changed("seed") {
		cfg.Seed = seed
	}
	if configPath == "" || f.Changed("sizes") {
		cfg.Sizes = sizes
	}
	if configPath == "" || f.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if configPath == "" || f.Changed("trials") {
		cfg.Trials = trials
	}
	if configPath == "" || f.Changed("policies") {
		cfg.Policies = policies
	}
	if f.Changed("parallel") {
		cfg.Parallel = parallel
	}
	if f.Changed("diagnostics") {
		cfg.Diagnostics = diagnostics
	}
	if f.Changed("no-early-stop") {
		cfg.NoEarlyStop = noEarlyStop
	}
	if f.Changed("underreporting") {
		cfg.Underreporting = underreporting
	}
}
