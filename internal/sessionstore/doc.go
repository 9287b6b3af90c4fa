// Package sessionstore provides the durable key/value backends that hold a
// serialized review session.
//
// SQLite is the default backend and keeps one row per session key under the
// configured state directory. Redis lets several workstations share a single
// session. Memory exists for tests. Every backend replaces the stored blob
// atomically; concurrent writers are last-write-wins.
//
// Mutating commands additionally hold an advisory file lock (see Lock) so two
// local processes cannot interleave writes to the same session.
package sessionstore
