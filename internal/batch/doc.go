// Package batch models a batch of candidate duplicate-scene pairs and moves it
// in and out of delimited text.
//
// A batch is produced offline by the fingerprint similarity job and exported
// as CSV with one row per candidate pair. Parse reads that file into ordered
// CandidateRow values, Filter derives the rows still awaiting review, and
// Serialize writes the full batch back out (statuses included) so decisions
// can be merged into the shared review spreadsheet.
//
// Row order is significant: indexes into Batch.Rows are the stable row
// identity used by the session and review packages for the lifetime of a
// session.
package batch
