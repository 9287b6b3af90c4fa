package batch

import (
	"strings"
)

// Status is the reviewer disposition recorded for a candidate pair.
type Status string

const (
	StatusUnset          Status = ""
	StatusReview         Status = "Review"
	StatusDelete         Status = "Delete"
	StatusMerge          Status = "Merge"
	StatusRedistribution Status = "Redistribution"
	StatusDifferent      Status = "Different"
)

var allStatuses = []Status{
	StatusReview,
	StatusDelete,
	StatusMerge,
	StatusRedistribution,
	StatusDifferent,
}

var statusByKey = func() map[string]Status {
	set := make(map[string]Status, len(allStatuses))
	for _, status := range allStatuses {
		set[strings.ToLower(string(status))] = status
	}
	return set
}()

// AllStatuses returns the known statuses in display order.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus maps a cell value onto a known Status. Matching ignores case and
// surrounding whitespace; an empty value is StatusUnset. Unknown values are
// returned verbatim with ok=false so they survive a round trip.
func ParseStatus(value string) (Status, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return StatusUnset, true
	}
	if status, ok := statusByKey[strings.ToLower(trimmed)]; ok {
		return status, true
	}
	return Status(trimmed), false
}

// Known reports whether s is one of the defined dispositions (or unset).
func (s Status) Known() bool {
	if s == StatusUnset {
		return true
	}
	_, ok := statusByKey[strings.ToLower(string(s))]
	return ok
}

// Pending reports whether the row still awaits a reviewer decision.
func (s Status) Pending() bool {
	return s == StatusUnset || s == StatusReview
}

// Terminal reports whether s is a recorded decision. Unknown imported values
// count as decisions so they are never silently reviewed again.
func (s Status) Terminal() bool {
	return !s.Pending()
}

// Label returns the display label; unset rows display as Review.
func (s Status) Label() string {
	if s == StatusUnset {
		return string(StatusReview)
	}
	return string(s)
}
