// Package main hosts the dupereview CLI entrypoint and command graph.
//
// The Cobra-based command tree loads candidate-pair batches into the
// persisted review session, lists and inspects pairs with live catalog
// details, records dispositions, submits destroy edits, exports the
// annotated batch, and opens the interactive review screen. It centralizes
// configuration resolution, session store access, the single-reviewer lock
// and logging setup so subcommands can focus on presentation.
//
// Keep this package lean: add behavior to the internal packages first, then
// surface it through a command or flag here.
package main
