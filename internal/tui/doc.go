// Package tui is the interactive review screen.
//
// The bubbletea event loop is the single thread that drives the
// review.Controller. Catalog lookups and destroy submissions run as tea.Cmds
// and report back as messages; lookups carry the generation of the selection
// they were started for so the controller can drop results that arrive after
// the reviewer has moved on.
package tui
