// Package session owns the review session: the loaded batch, the frozen
// active view used for paging, and the durable copy kept in a key/value
// store.
//
// A Manager is the only writer. Load replaces the session with a freshly
// filtered batch, Restore rebuilds it from the store at start-up, SetStatus
// records a disposition and persists it before returning, and Clear erases
// everything. Rows are addressed by their index in the batch, captured once
// at load time, so duplicate scene pairs never alias each other.
//
// The stored form is a versioned JSON envelope. Blobs written by the original
// browser tool ({"filename": ..., "data": [...]}) are migrated on read.
package session
