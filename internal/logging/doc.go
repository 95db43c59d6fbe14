// Package logging assembles structured slog loggers and formatting helpers used
// across viidemo commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so the preview server can tag
// log lines with request correlation IDs. The package also provides the
// opt-in render trace (the page's debug mode) and a no-op logger for tests and
// wiring code that cannot fail.
package logging
