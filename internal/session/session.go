package session

import (
	"time"

	"dupereview/internal/batch"
)

// Entry is a row together with its stable index in the batch.
type Entry struct {
	Index int
	Row   *batch.CandidateRow
}

// Session is the in-memory review state.
type Session struct {
	ID      string
	Mode    batch.Mode
	Batch   *batch.Batch
	SavedAt time.Time
	// LastPage is the page recorded by the previous process; informational only.
	LastPage int

	active []int
	page   int
}

func newSession(id string, b *batch.Batch, mode batch.Mode) *Session {
	s := &Session{ID: id, Mode: mode, Batch: b}
	s.active = batch.Filter(b.Rows, mode)
	if len(s.active) > 0 {
		s.page = 1
	}
	return s
}

// Filename returns the name of the imported file.
func (s *Session) Filename() string {
	if s == nil || s.Batch == nil {
		return ""
	}
	return s.Batch.Filename
}

// PageCount returns the size of the active set.
func (s *Session) PageCount() int {
	if s == nil {
		return 0
	}
	return len(s.active)
}

// Page returns the current 1-based page, or 0 when nothing is reviewable.
func (s *Session) Page() int {
	if s == nil {
		return 0
	}
	return s.page
}

// Active returns the batch indexes of the active set in page order.
func (s *Session) Active() []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s.active))
	copy(out, s.active)
	return out
}

// At returns the entry shown on page, or false when page is out of range.
func (s *Session) At(page int) (Entry, bool) {
	if s == nil || page < 1 || page > len(s.active) {
		return Entry{}, false
	}
	idx := s.active[page-1]
	return Entry{Index: idx, Row: s.Batch.Rows[idx]}, true
}

// Current returns the entry on the current page.
func (s *Session) Current() (Entry, bool) {
	return s.At(s.Page())
}

// Row returns the row at a batch index.
func (s *Session) Row(index int) (*batch.CandidateRow, bool) {
	if s == nil || s.Batch == nil || index < 0 || index >= len(s.Batch.Rows) {
		return nil, false
	}
	return s.Batch.Rows[index], true
}

// Counts tallies statuses across the full batch.
func (s *Session) Counts() map[batch.Status]int {
	if s == nil {
		return map[batch.Status]int{}
	}
	return s.Batch.Counts()
}
