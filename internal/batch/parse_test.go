package batch_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dupereview/internal/batch"
	"dupereview/internal/services"
)

const sampleCSV = "SceneA_ID,SceneB_ID,Title_difflib,Studio,Image_phash,Image_ahash,URLs_check,Status\r\n" +
	"a-1,b-1,0.93,1.0,1.0,0.98,0,\r\n" +
	"a-2,b-2,0.41,0,0.5,0.51,0,Different\r\n" +
	"\r\n" +
	"a-3,b-3,1.0,1.0,1.0,1.0,1.0,Review\r\n"

func TestParseMapsColumnsAndSkipsBlankLines(t *testing.T) {
	b, err := batch.Parse(strings.NewReader(sampleCSV), batch.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if b.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", b.Len())
	}
	first := b.Rows[0]
	if first.SceneAID != "a-1" || first.SceneBID != "b-1" {
		t.Fatalf("unexpected ids: %#v", first)
	}
	if first.TitleDifflib != "0.93" || first.Studio != "1.0" || first.ImagePHash != "1.0" || first.ImageAHash != "0.98" || first.URLsCheck != "0" {
		t.Fatalf("unexpected similarity fields: %#v", first)
	}
	if first.Status != batch.StatusUnset {
		t.Fatalf("expected unset status, got %q", first.Status)
	}
	if b.Rows[1].Status != batch.StatusDifferent {
		t.Fatalf("expected Different, got %q", b.Rows[1].Status)
	}
	if b.Rows[2].Status != batch.StatusReview {
		t.Fatalf("expected Review, got %q", b.Rows[2].Status)
	}
}

func TestParseCleansCarriageReturnArtifacts(t *testing.T) {
	input := " SceneA_ID\\r , SceneB_ID ,Status\\r\n  a-1\\r ,b-1 , merge \\r\n"
	b, err := batch.Parse(strings.NewReader(input), batch.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := strings.Join(b.Header, "|"); got != "SceneA_ID|SceneB_ID|Status" {
		t.Fatalf("unexpected header %q", got)
	}
	row := b.Rows[0]
	if row.SceneAID != "a-1" || row.SceneBID != "b-1" {
		t.Fatalf("unexpected ids: %#v", row)
	}
	if row.Status != batch.StatusMerge {
		t.Fatalf("expected case-insensitive Merge, got %q", row.Status)
	}
}

func TestParseKeepsInteriorBackslashR(t *testing.T) {
	input := "SceneA_ID,SceneB_ID,Report\r\na,b,C:\\reports\\r\r\n"
	b, err := batch.Parse(strings.NewReader(input), batch.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := b.Rows[0].Value("Report"); got != `C:\reports` {
		t.Fatalf("expected interior text kept, got %q", got)
	}
}

func TestParseHonoursDelimiter(t *testing.T) {
	input := "SceneA_ID;SceneB_ID;Status\r\na;b;Merge\r\n"
	b, err := batch.Parse(strings.NewReader(input), batch.ParseOptions{Delimiter: ';'})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if b.Rows[0].SceneBID != "b" || b.Rows[0].Status != batch.StatusMerge {
		t.Fatalf("unexpected row: %#v", b.Rows[0])
	}
}

func TestParseStripsByteOrderMark(t *testing.T) {
	input := "\ufeffSceneA_ID,SceneB_ID\na,b\n"
	b, err := batch.Parse(strings.NewReader(input), batch.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if b.Header[0] != batch.ColumnSceneA {
		t.Fatalf("expected BOM stripped, got %q", b.Header[0])
	}
}

func TestParseRejectsInvalidInput(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"missing scene b": "SceneA_ID,Status\r\na,\r\n",
		"duplicate":       "SceneA_ID,SceneB_ID,SceneA_ID\r\na,b,c\r\n",
		"blank id":        "SceneA_ID,SceneB_ID\r\na,\r\n",
		"extra fields":    "SceneA_ID,SceneB_ID\r\na,b,c\r\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := batch.Parse(strings.NewReader(input), batch.ParseOptions{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrInput) {
				t.Fatalf("expected input error, got %v", err)
			}
		})
	}
}

func TestParsePreservesUnknownColumnsAndStatuses(t *testing.T) {
	input := "SceneA_ID,SceneB_ID,Reviewer,Status\r\na,b,jo,Escalated\r\n"
	b, err := batch.Parse(strings.NewReader(input), batch.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	row := b.Rows[0]
	if row.Extra["Reviewer"] != "jo" {
		t.Fatalf("expected extra column preserved, got %#v", row.Extra)
	}
	if row.Status != batch.Status("Escalated") || row.Status.Known() {
		t.Fatalf("expected unknown status preserved verbatim, got %q", row.Status)
	}
	if row.Status.Pending() {
		t.Fatal("unknown statuses must not be treated as pending")
	}
}

func TestReadFileRequiresCSVMediaType(t *testing.T) {
	dir := t.TempDir()
	wrong := filepath.Join(dir, "pairs.json")
	if err := os.WriteFile(wrong, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := batch.ReadFile(wrong, batch.ParseOptions{}); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error for non-csv file, got %v", err)
	}

	right := filepath.Join(dir, "pairs.csv")
	if err := os.WriteFile(right, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := batch.ReadFile(right, batch.ParseOptions{})
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if b.Filename != "pairs.csv" {
		t.Fatalf("expected filename pairs.csv, got %q", b.Filename)
	}
}

func TestMediaType(t *testing.T) {
	cases := map[string]string{
		"pairs.csv":  batch.MediaTypeCSV,
		"PAIRS.CSV":  batch.MediaTypeCSV,
		"pairs.tsv":  "text/tab-separated-values",
		"pairs":      "application/octet-stream",
		"pairs.txt":  "text/plain",
		"notes.json": "application/json",
	}
	for path, want := range cases {
		if got := batch.MediaType(path); got != want {
			t.Fatalf("MediaType(%q) = %q, want %q", path, got, want)
		}
	}
}
