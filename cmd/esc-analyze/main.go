package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"esccli/pkg/contracts"
)

// flags holds the command-line overrides of the loaded configuration
type flags struct {
	configPath  string
	outDir      string
	format      string
	workers     int
	scope       string
	logLevel    string
	metricsFile string
	trace       bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "esc-analyze <input-dir>",
		Short: "Summarize ESC LTE calibration logs into an Excel report",
		Long: `esc-analyze reads every QDART calibration log in a directory, extracts the
Tx linearizer sweep powers and RxFreqComp LNA offsets of each ESC LTE band,
and writes the per-band statistics and averaged offset tables to
"Organized Data.xlsx" next to the logs.

Logs whose LNA offsets cannot be parsed are reported as corrupt and left
out of the averages.`,
		Args:          cobra.ExactArgs(1),
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML configuration file (default: esc-analyze.yaml if present)")
	cmd.Flags().StringVarP(&f.outDir, "out", "o", "", "Report directory (default: the input directory)")
	cmd.Flags().StringVar(&f.format, "format", "", "Report format: xlsx, csv or both")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Logs extracted concurrently")
	cmd.Flags().StringVar(&f.scope, "scope", "", "Corruption scope: log or band")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	cmd.Flags().BoolVar(&f.trace, "trace", false, "Print pipeline spans to stderr")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
