package enrich

import (
	"errors"
	"fmt"

	"dupereview/internal/catalog"
)

// Side names one half of a candidate pair.
type Side int

const (
	SideA Side = iota
	SideB
)

// Sides lists both sides in display order.
var Sides = [2]Side{SideA, SideB}

func (s Side) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// ParseSide accepts "a" or "b" in either case.
func ParseSide(value string) (Side, error) {
	switch value {
	case "a", "A":
		return SideA, nil
	case "b", "B":
		return SideB, nil
	default:
		return SideA, fmt.Errorf("unknown side %q (want a or b)", value)
	}
}

// Snapshot is the enrichment result for one scene id.
type Snapshot struct {
	SceneID            string
	Scene              *catalog.Scene
	PendingDeleteCount int
	Err                error
}

// Loaded reports whether both lookups succeeded.
func (s Snapshot) Loaded() bool {
	return s.Err == nil && s.Scene != nil
}

// AlreadyDeleted is true when the scene is deleted or a destroy edit is pending.
func (s Snapshot) AlreadyDeleted() bool {
	if s.Scene != nil && s.Scene.Deleted {
		return true
	}
	return s.PendingDeleteCount > 0
}

// DeletionLabel returns the title suffix shown for deleted scenes.
func (s Snapshot) DeletionLabel() string {
	switch {
	case s.Scene != nil && s.Scene.Deleted:
		return "(Deleted)"
	case s.PendingDeleteCount > 0:
		return "(Delete In Progress)"
	default:
		return ""
	}
}

// PairResult holds both sides of one fetch.
type PairResult struct {
	A Snapshot
	B Snapshot
}

// Side returns the snapshot for side.
func (p PairResult) Side(side Side) Snapshot {
	if side == SideB {
		return p.B
	}
	return p.A
}

// Err joins the per-side errors, or returns nil when both sides loaded.
func (p PairResult) Err() error {
	return errors.Join(p.A.Err, p.B.Err)
}
