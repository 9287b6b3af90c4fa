// Package services defines shared utilities consumed by the review workflow
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, page numbers, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the reviewer-facing taxonomy (input, lookup, precondition,
//     submission).
//
// Use these helpers when wiring new review logic so error reporting and
// observability stay uniform across commands and the interactive view.
package services
