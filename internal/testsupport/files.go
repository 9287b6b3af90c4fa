package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PairsHeader is the header row written by the similarity job.
const PairsHeader = "SceneA_ID,SceneB_ID,Title_difflib,Studio,Image_phash,Image_ahash,URLs_check,Status"

// WriteCSV writes a pairs file under dir with the standard header and the
// given records joined by CRLF. It returns the file path.
func WriteCSV(t testing.TB, dir, name string, records ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	lines := append([]string{PairsHeader}, records...)
	content := strings.Join(lines, "\r\n") + "\r\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
