package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "esc-analyze.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, 40, cfg.Analysis.PowerWindow)
	assert.Equal(t, 40, cfg.Analysis.OffsetWindow)
	assert.Equal(t, "log", cfg.Analysis.CorruptionScope)
	assert.Equal(t, []string{".xml"}, cfg.Analysis.LogExtensions)
	assert.Equal(t, "Run_RSB_Pcell_Tx_LO_Cal", cfg.Markers.Terminal)
	assert.Equal(t, DefaultOutputName, cfg.Output.FileName)
	assert.Equal(t, "xlsx", cfg.Output.Format)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults when no file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "file overlays defaults",
			file: `
analysis:
  workers: 8
  corruption_scope: band
output:
  format: both
  directory: /tmp/reports
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8, cfg.Analysis.Workers)
				assert.Equal(t, "band", cfg.Analysis.CorruptionScope)
				assert.Equal(t, "both", cfg.Output.Format)
				assert.Equal(t, "/tmp/reports", cfg.Output.Directory)
				// untouched fields keep their defaults
				assert.Equal(t, 40, cfg.Analysis.PowerWindow)
				assert.Equal(t, DefaultOutputName, cfg.Output.FileName)
			},
		},
		{
			name: "env overrides defaults",
			env: map[string]string{
				"ESC_ANALYSIS_WORKERS":        "12",
				"ESC_ANALYSIS_LOG_EXTENSIONS": ".xml,.txt",
				"ESC_LOGGING_LEVEL":           "debug",
				"ESC_MARKERS_TERMINAL":        "END_OF_LOG",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 12, cfg.Analysis.Workers)
				assert.Equal(t, []string{".xml", ".txt"}, cfg.Analysis.LogExtensions)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "END_OF_LOG", cfg.Markers.Terminal)
			},
		},
		{
			name: "env wins over file",
			file: "analysis:\n  workers: 8\n",
			env:  map[string]string{"ESC_ANALYSIS_WORKERS": "2"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2, cfg.Analysis.Workers)
			},
		},
		{
			name:    "invalid scope in file",
			file:    "analysis:\n  corruption_scope: family\n",
			wantErr: true,
		},
		{
			name:    "zero workers from env",
			env:     map[string]string{"ESC_ANALYSIS_WORKERS": "0"},
			wantErr: true,
		},
		{
			name:    "unparsable env value",
			env:     map[string]string{"ESC_ANALYSIS_WORKERS": "many"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "analysis: [workers",
			wantErr: true,
		},
		{
			name:    "file logging without a path",
			file:    "logging:\n  output: file\n  file_path: \"\"\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"unknown output format", func(c *Config) { c.Output.Format = "pdf" }},
		{"tiny power window", func(c *Config) { c.Analysis.PowerWindow = 4 }},
		{"no extensions", func(c *Config) { c.Analysis.LogExtensions = nil }},
		{"empty marker", func(c *Config) { c.Markers.DiversityAnchor = "" }},
		{"unknown trace exporter", func(c *Config) { c.Telemetry.TraceExporter = "jaeger" }},
		{"empty file name", func(c *Config) { c.Output.FileName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOutputDir(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "logs/in", cfg.OutputDir("logs/in"))

	cfg.Output.Directory = "reports"
	assert.Equal(t, "reports", cfg.OutputDir("logs/in"))
}
