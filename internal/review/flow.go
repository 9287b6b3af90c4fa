package review

import (
	"fmt"
	"strings"

	"dupereview/internal/enrich"
)

// DeleteFlow is an open request to destroy one side of the current pair.
type DeleteFlow struct {
	Index      int
	Side       enrich.Side
	SceneID    string
	OtherID    string
	Note       string
	Submitting bool
	// LastErr holds the most recent submission failure, if any.
	LastErr error
}

// DeleteRequest is what the catalog needs to file a destroy edit.
type DeleteRequest struct {
	Index   int
	Side    enrich.Side
	SceneID string
	Note    string
}

// DupeNote builds the default edit note pointing at the surviving scene.
func DupeNote(baseURL, otherID string) string {
	return fmt.Sprintf("Dupe of %s/scenes/%s", strings.TrimRight(baseURL, "/"), otherID)
}
