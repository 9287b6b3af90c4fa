package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"dupereview/internal/services"
)

// MediaTypeCSV is the only media type accepted for import.
const MediaTypeCSV = "text/csv"

const defaultDelimiter = ','

// ParseOptions controls how delimited text is read.
type ParseOptions struct {
	// Delimiter separates fields; zero means comma.
	Delimiter rune
}

func (o ParseOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return defaultDelimiter
	}
	return o.Delimiter
}

// MediaType infers the media type of an import file from its extension.
func MediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return MediaTypeCSV
	case ".tsv", ".tab":
		return "text/tab-separated-values"
	case ".txt":
		return "text/plain"
	case "":
		return "application/octet-stream"
	}
	if value := mime.TypeByExtension(ext); value != "" {
		if mediaType, _, err := mime.ParseMediaType(value); err == nil {
			return mediaType
		}
	}
	return "application/octet-stream"
}

// ReadFile validates the media type of path and parses it. The returned batch
// carries the base name of path as its Filename.
func ReadFile(path string, opts ParseOptions) (*Batch, error) {
	if mediaType := MediaType(path); mediaType != MediaTypeCSV {
		return nil, services.Wrap(services.ErrInput, "batch", "read",
			fmt.Sprintf("invalid scene file selected: %s has media type %s, want %s", filepath.Base(path), mediaType, MediaTypeCSV), nil)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "batch", "read", "open scene file", err)
	}
	defer file.Close()

	b, err := Parse(file, opts)
	if err != nil {
		return nil, err
	}
	b.Filename = filepath.Base(path)
	return b, nil
}

// Parse reads a header row followed by candidate rows. Blank records are
// skipped; every remaining record must name both scenes.
func Parse(r io.Reader, opts ParseOptions) (*Batch, error) {
	reader := csv.NewReader(r)
	reader.Comma = opts.delimiter()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rawHeader, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, services.Wrap(services.ErrInput, "batch", "parse", "scene file is empty", nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "batch", "parse", "read header", err)
	}

	header, err := cleanHeader(rawHeader)
	if err != nil {
		return nil, err
	}

	b := &Batch{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrInput, "batch", "parse", "read record", err)
		}
		line, _ := reader.FieldPos(0)
		row, skip, err := buildRow(header, record, line)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		b.Rows = append(b.Rows, row)
	}
	return b, nil
}

func cleanHeader(raw []string) ([]string, error) {
	header := make([]string, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, value := range raw {
		name := cleanValue(value)
		if i == 0 {
			name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		}
		if name == "" {
			return nil, services.Wrap(services.ErrInput, "batch", "parse",
				fmt.Sprintf("header column %d is empty", i+1), nil)
		}
		if _, dup := seen[name]; dup {
			return nil, services.Wrap(services.ErrInput, "batch", "parse",
				fmt.Sprintf("header column %q appears more than once", name), nil)
		}
		seen[name] = struct{}{}
		header[i] = name
	}
	for _, required := range []string{ColumnSceneA, ColumnSceneB} {
		if _, ok := seen[required]; !ok {
			return nil, services.Wrap(services.ErrInput, "batch", "parse",
				fmt.Sprintf("header is missing required column %s", required), nil)
		}
	}
	return header, nil
}

func buildRow(header, record []string, line int) (*CandidateRow, bool, error) {
	values := make([]string, len(record))
	blank := true
	for i, value := range record {
		values[i] = cleanValue(value)
		if values[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil, true, nil
	}
	for i := len(header); i < len(values); i++ {
		if values[i] != "" {
			return nil, false, services.Wrap(services.ErrInput, "batch", "parse",
				fmt.Sprintf("line %d has %d fields but the header has %d", line, len(values), len(header)), nil)
		}
	}

	row := &CandidateRow{}
	for i, name := range header {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		row.SetValue(name, value)
	}
	if row.SceneAID == "" {
		return nil, false, services.Wrap(services.ErrInput, "batch", "parse",
			fmt.Sprintf("line %d is missing %s", line, ColumnSceneA), nil)
	}
	if row.SceneBID == "" {
		return nil, false, services.Wrap(services.ErrInput, "batch", "parse",
			fmt.Sprintf("line %d is missing %s", line, ColumnSceneB), nil)
	}
	return row, false, nil
}

// cleanValue strips carriage-return artifacts left behind by spreadsheet
// exports (the raw byte and the literal two-character token) and whitespace
// from both ends of a cell. Interior text is kept as is.
func cleanValue(value string) string {
	for {
		trimmed := strings.TrimSpace(value)
		trimmed = strings.TrimPrefix(trimmed, `\r`)
		trimmed = strings.TrimSuffix(trimmed, `\r`)
		if trimmed == value {
			return trimmed
		}
		value = trimmed
	}
}
