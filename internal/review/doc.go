// Package review drives a review session one candidate pair at a time.
//
// The Controller owns the current selection and the enrichment state for it.
// Each selection gets a new generation number; enrichment results arriving
// with an older generation are discarded so a slow lookup for a pair the
// reviewer has already left can never change the pair now on screen.
//
// Disposition rules:
//
//   - Mark records Merge, Redistribution, Different or Review directly.
//   - RequestDelete opens a DeleteFlow for one side unless that side is
//     already deleted or has a destroy edit pending in the catalog.
//   - ConfirmDelete submits the destroy edit and records Delete only after
//     the catalog accepts it. A failed submission keeps the flow open.
//   - Whenever fresh enrichment shows either side already deleted, a row not
//     yet marked Delete is forced to Delete.
//
// The Controller is not safe for concurrent use; callers drive it from a
// single goroutine (the TUI event loop or a CLI command).
package review
