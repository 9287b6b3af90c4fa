package tui

import (
	"dupereview/internal/enrich"
	"dupereview/internal/review"
)

// sideLoadedMsg carries one side's lookup for the selection with Generation.
type sideLoadedMsg struct {
	Generation uint64
	Side       enrich.Side
	Snapshot   enrich.Snapshot
}

// deleteDoneMsg reports the outcome of a destroy submission.
type deleteDoneMsg struct {
	Request review.DeleteRequest
	Err     error
}
