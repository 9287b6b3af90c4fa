// Package enrich resolves live catalog state for both sides of a candidate
// pair: the scene record and the number of pending destroy edits against it.
package enrich
