package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"esccli/internal/config"
	"esccli/internal/dataprocessing"
	apperrors "esccli/internal/errors"
	"esccli/internal/exporter"
	"esccli/internal/files"
	"esccli/internal/infrastructure"
	"esccli/internal/validation"
	"esccli/pkg/contracts"
	"esccli/pkg/contracts/domain"
)

// loadConfig loads the configuration and applies the flags the user set
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	if f.configPath != "" {
		if err := validation.NewFileValidator(nil).ValidateFile(f.configPath); err != nil {
			return nil, apperrors.NewConfigError("config", err)
		}
	}
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, apperrors.NewConfigError("", err)
	}

	changed := cmd.Flags().Changed
	if changed("out") {
		cfg.Output.Directory = f.outDir
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("workers") {
		cfg.Analysis.Workers = f.workers
	}
	if changed("scope") {
		cfg.Analysis.CorruptionScope = f.scope
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("metrics-file") {
		cfg.Telemetry.MetricsFile = f.metricsFile
	}
	// a metrics file from any source implies collecting metrics
	if cfg.Telemetry.MetricsFile != "" {
		cfg.Telemetry.EnableMetrics = true
	}
	if f.trace {
		cfg.Telemetry.TraceExporter = "stdout"
	}
	cfg.Telemetry.ServiceVersion = contracts.Version

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("flags", err)
	}
	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, f *flags, inputDir string) error {
	started := time.Now()
	ctx := infrastructure.ContextWithTraceID(cmd.Context())

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	runtimeMetrics, err := infrastructure.NewRuntimeMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to create runtime metrics: %w", err)
	}

	result, err := analyzeDirectory(ctx, cfg, logger, metrics, inputDir)
	if err != nil {
		return err
	}
	stats := runtimeMetrics.Collect(ctx, started)
	logger.DebugContext(ctx, "Runtime usage",
		slog.Int64("heap_bytes", stats.MemoryUsage),
		slog.Int64("system_bytes", stats.MemorySystem),
		slog.Int("gc_cycles", int(stats.GCCount)))

	outDir := cfg.OutputDir(inputDir)
	if err := exportResult(cfg, logger, result, outDir); err != nil {
		return err
	}

	if cfg.Telemetry.MetricsFile != "" && providers.Registry != nil {
		if err := providers.WriteMetricsFile(cfg.Telemetry.MetricsFile); err != nil {
			return apperrors.NewIOError(cfg.Telemetry.MetricsFile, err)
		}
	}

	printSummary(cmd.OutOrStdout(), result, time.Since(started))
	return nil
}

// analyzeDirectory discovers, loads and analyzes the logs of inputDir
func analyzeDirectory(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *infrastructure.PipelineMetrics, inputDir string) (*domain.AnalysisResult, error) {
	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(inputDir); err != nil {
		return nil, err
	}

	found, err := files.NewDiscovery("").FindLogFiles(inputDir, cfg.Analysis.LogExtensions)
	if err != nil {
		return nil, apperrors.NewIOError(inputDir, err)
	}
	if len(found) == 0 {
		return nil, apperrors.NewEmptyBatch(inputDir)
	}
	logger.InfoContext(ctx, "Logs discovered",
		slog.String("directory", inputDir),
		slog.Int("count", len(found)))

	blobs, err := files.NewReader(logger).ReadAll(ctx, found)
	if err != nil {
		return nil, err
	}

	opts, err := dataprocessing.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return dataprocessing.NewPipeline(opts, logger, metrics).Run(ctx, blobs)
}

// exportResult writes the reports selected by the output format
func exportResult(cfg *config.Config, logger *slog.Logger, result *domain.AnalysisResult, outDir string) error {
	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(outDir); err != nil {
		return err
	}

	format := cfg.Output.Format
	if format == "xlsx" || format == "both" {
		path := filepath.Join(outDir, cfg.Output.FileName)
		if err := exporter.NewWorkbookExporter(logger).Export(result, path); err != nil {
			return apperrors.NewIOError(path, err)
		}
	}
	if format == "csv" || format == "both" {
		if err := exporter.NewCSVWriter(logger).ExportResult(result, outDir); err != nil {
			return apperrors.NewIOError(outDir, err)
		}
	}
	return nil
}

func printSummary(w io.Writer, result *domain.AnalysisResult, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Success! Completed in %d seconds.\n", int(elapsed.Seconds()))
	fmt.Fprintf(w, "%d logs processed.\n", result.ProcessedCount())
	fmt.Fprintf(w, "%d corrupt logs.\n", result.CorruptCount())
	for _, c := range result.Corrupt {
		fmt.Fprintf(w, "  %s\n", c.LogID)
	}
}
