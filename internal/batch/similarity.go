package batch

import "strings"

// Verdict interprets a similarity cell.
type Verdict int

const (
	VerdictRaw Verdict = iota
	VerdictIdentical
	VerdictDifferent
)

// Classify maps the sentinel values written by the similarity job. Any other
// value is an opaque score.
func Classify(value string) Verdict {
	switch strings.TrimSpace(value) {
	case "1.0":
		return VerdictIdentical
	case "0":
		return VerdictDifferent
	default:
		return VerdictRaw
	}
}

// Display renders value the way the comparison table shows it.
func (v Verdict) Display(value string) string {
	switch v {
	case VerdictIdentical:
		return "Identical"
	case VerdictDifferent:
		return "Different"
	default:
		return value
	}
}

// Similarity is one labelled score of a candidate row.
type Similarity struct {
	Label   string
	Value   string
	Verdict Verdict
}

// Similarities returns the comparison scores of r in display order.
func (r *CandidateRow) Similarities() []Similarity {
	pairs := []struct {
		label string
		value string
	}{
		{"Title (difflib)", r.TitleDifflib},
		{"Studio", r.Studio},
		{"Image (PHASH)", r.ImagePHash},
		{"Image (AHASH)", r.ImageAHash},
		{"URLs", r.URLsCheck},
	}
	out := make([]Similarity, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Similarity{Label: p.label, Value: p.value, Verdict: Classify(p.value)})
	}
	return out
}
