package batch

import (
	"fmt"
	"strings"
)

// Mode selects which rows a load makes reviewable.
type Mode string

const (
	// ModeFiltered keeps rows that still await a decision.
	ModeFiltered Mode = "filtered"
	// ModeUnfiltered keeps every row.
	ModeUnfiltered Mode = "unfiltered"
)

// ParseMode converts a config or flag value into a Mode. Empty means filtered.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(ModeFiltered):
		return ModeFiltered, nil
	case string(ModeUnfiltered), "all":
		return ModeUnfiltered, nil
	default:
		return "", fmt.Errorf("unknown load mode %q (want filtered or unfiltered)", value)
	}
}

// Filter returns the indexes of rows that are active under mode, in batch order.
func Filter(rows []*CandidateRow, mode Mode) []int {
	active := make([]int, 0, len(rows))
	for i, row := range rows {
		if mode == ModeUnfiltered || row.Status.Pending() {
			active = append(active, i)
		}
	}
	return active
}
