package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment override, e.g. ESC_ANALYSIS_WORKERS
const EnvPrefix = "ESC"

// DefaultOutputName is the workbook the analyzer writes next to the logs
const DefaultOutputName = "Organized Data.xlsx"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Markers   MarkersConfig   `yaml:"markers" envconfig:"MARKERS"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// AnalysisConfig tunes the extraction pipeline
type AnalysisConfig struct {
	Workers         int      `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=256"`
	PowerWindow     int      `yaml:"power_window" envconfig:"POWER_WINDOW" validate:"min=8"`
	OffsetWindow    int      `yaml:"offset_window" envconfig:"OFFSET_WINDOW" validate:"min=8"`
	CorruptionScope string   `yaml:"corruption_scope" envconfig:"CORRUPTION_SCOPE" validate:"oneof=log band"`
	LogExtensions   []string `yaml:"log_extensions" envconfig:"LOG_EXTENSIONS" validate:"min=1,dive,required"`
}

// MarkersConfig holds the literal tokens scanned for in report text
type MarkersConfig struct {
	BandPrefix        string `yaml:"band_prefix" envconfig:"BAND_PREFIX" validate:"required"`
	DiversityAnchor   string `yaml:"diversity_anchor" envconfig:"DIVERSITY_ANCHOR" validate:"required"`
	Terminal          string `yaml:"terminal" envconfig:"TERMINAL" validate:"required"`
	LNABlock          string `yaml:"lna_block" envconfig:"LNA_BLOCK" validate:"required"`
	ChannelTerminator string `yaml:"channel_terminator" envconfig:"CHANNEL_TERMINATOR" validate:"required"`
	OffsetLabel       string `yaml:"offset_label" envconfig:"OFFSET_LABEL" validate:"required"`
	MaxPowerLabel     string `yaml:"max_power_label" envconfig:"MAX_POWER_LABEL" validate:"required"`
	MinPowerLabel     string `yaml:"min_power_label" envconfig:"MIN_POWER_LABEL" validate:"required"`
	ValueOpen         string `yaml:"value_open" envconfig:"VALUE_OPEN" validate:"required"`
	ValueClose        string `yaml:"value_close" envconfig:"VALUE_CLOSE" validate:"required"`
}

// OutputConfig controls where and how reports are written
type OutputConfig struct {
	// Directory defaults to the input directory when empty
	Directory string `yaml:"directory" envconfig:"DIRECTORY"`
	FileName  string `yaml:"file_name" envconfig:"FILE_NAME" validate:"required"`
	Format    string `yaml:"format" envconfig:"FORMAT" validate:"oneof=xlsx csv both"`
}

// TelemetryConfig controls tracing and metrics export
type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	EnableMetrics  bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	ServiceVersion string `yaml:"service_version" envconfig:"SERVICE_VERSION"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/esc-analyze.log",
		},
		Analysis: AnalysisConfig{
			Workers:         4,
			PowerWindow:     40,
			OffsetWindow:    40,
			CorruptionScope: "log",
			LogExtensions:   []string{".xml"},
		},
		Markers: MarkersConfig{
			BandPrefix:        "ESC LTE ",
			DiversityAnchor:   "ESC LTE B17</ExtendedName><NodeName>ESC LTE B17</NodeName>",
			Terminal:          "Run_RSB_Pcell_Tx_LO_Cal",
			LNABlock:          "LNA",
			ChannelTerminator: "Channel",
			OffsetLabel:       "RxFCompLNAOffset",
			MaxPowerLabel:     "Tx Lin Swp Max Power",
			MinPowerLabel:     "Tx Lin Swp Min Power",
			ValueOpen:         "<V>",
			ValueClose:        "</V>",
		},
		Output: OutputConfig{
			FileName: DefaultOutputName,
			Format:   "xlsx",
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			EnableMetrics:  true,
			ServiceVersion: "dev",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// ESC_* environment variables, in increasing order of precedence.
// An empty path skips the file unless one is found in a standard location.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile returns the first config file found in the usual places
func findConfigFile() string {
	locations := []string{
		"esc-analyze.yaml",
		filepath.Join("configs", "esc-analyze.yaml"),
	}
	if exe, err := os.Executable(); err == nil {
		locations = append(locations, filepath.Join(filepath.Dir(exe), "esc-analyze.yaml"))
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Validate checks every field against its validate tag
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// OutputDir resolves the report directory for a given input directory
func (c *Config) OutputDir(inputDir string) string {
	if c.Output.Directory != "" {
		return c.Output.Directory
	}
	return inputDir
}
