// Package config loads the analyzer configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file
//	3. Default values (lowest priority)
//
// Command-line flags are applied on top by the CLI.
//
// # Environment Variables
//
// All environment variables follow the pattern ESC_<SECTION>_<FIELD>:
//
//	ESC_ANALYSIS_WORKERS=8
//	ESC_ANALYSIS_CORRUPTION_SCOPE=band
//	ESC_LOGGING_LEVEL=debug
//	ESC_OUTPUT_FORMAT=both
//
// # Validation
//
// Every field carries a validate tag checked by go-playground/validator
// after all sources are merged.
package config
