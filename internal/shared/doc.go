// Package shared holds helpers used across the analyzer packages.
//
// The testutil subpackage captures slog records so tests can assert on the
// warnings a pipeline run emits:
//
//	logger, handler := testutil.NewTestLogger(t)
//	p := dataprocessing.NewPipeline(opts, logger, nil)
//	...
//	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Band segment missing")
package shared
