package batch

// Column names shared by the importer and the exporter.
const (
	ColumnSceneA       = "SceneA_ID"
	ColumnSceneB       = "SceneB_ID"
	ColumnTitleDifflib = "Title_difflib"
	ColumnStudio       = "Studio"
	ColumnImagePHash   = "Image_phash"
	ColumnImageAHash   = "Image_ahash"
	ColumnURLsCheck    = "URLs_check"
	ColumnStatus       = "Status"
)

// Columns lists the known header names in canonical order.
var Columns = []string{
	ColumnSceneA,
	ColumnSceneB,
	ColumnTitleDifflib,
	ColumnStudio,
	ColumnImagePHash,
	ColumnImageAHash,
	ColumnURLsCheck,
	ColumnStatus,
}

// CandidateRow is one similarity-comparison result.
type CandidateRow struct {
	SceneAID     string
	SceneBID     string
	TitleDifflib string
	Studio       string
	ImagePHash   string
	ImageAHash   string
	URLsCheck    string
	Status       Status
	// Extra holds columns the importer does not know about, keyed by header.
	Extra map[string]string
}

// Batch is an ordered set of candidate rows plus the header they were read with.
type Batch struct {
	Filename string
	Header   []string
	Rows     []*CandidateRow
}

// Value returns the cell for the given header name.
func (r *CandidateRow) Value(column string) string {
	switch column {
	case ColumnSceneA:
		return r.SceneAID
	case ColumnSceneB:
		return r.SceneBID
	case ColumnTitleDifflib:
		return r.TitleDifflib
	case ColumnStudio:
		return r.Studio
	case ColumnImagePHash:
		return r.ImagePHash
	case ColumnImageAHash:
		return r.ImageAHash
	case ColumnURLsCheck:
		return r.URLsCheck
	case ColumnStatus:
		return string(r.Status)
	default:
		return r.Extra[column]
	}
}

// SetValue assigns the cell for the given header name.
func (r *CandidateRow) SetValue(column, value string) {
	switch column {
	case ColumnSceneA:
		r.SceneAID = value
	case ColumnSceneB:
		r.SceneBID = value
	case ColumnTitleDifflib:
		r.TitleDifflib = value
	case ColumnStudio:
		r.Studio = value
	case ColumnImagePHash:
		r.ImagePHash = value
	case ColumnImageAHash:
		r.ImageAHash = value
	case ColumnURLsCheck:
		r.URLsCheck = value
	case ColumnStatus:
		r.Status, _ = ParseStatus(value)
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[column] = value
	}
}

// Counts tallies rows per displayed status label.
func (b *Batch) Counts() map[Status]int {
	counts := make(map[Status]int)
	if b == nil {
		return counts
	}
	for _, row := range b.Rows {
		status := row.Status
		if status == StatusUnset {
			status = StatusReview
		}
		counts[status]++
	}
	return counts
}

// Len returns the number of rows in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}
