// Package logging assembles structured slog loggers and formatting helpers used
// across dupereview.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so review code can automatically
// tag log lines with session IDs, pages, and correlation IDs. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every command emits
// data with the same shape and routing.
package logging
