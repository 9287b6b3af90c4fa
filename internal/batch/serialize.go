package batch

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SerializeOptions controls how a batch is written.
type SerializeOptions struct {
	// Delimiter separates fields; zero means comma.
	Delimiter rune
}

// ExportHeader returns the header used on export: the imported header with
// any missing required columns appended, or the canonical columns when the
// batch was not read from a file.
func (b *Batch) ExportHeader() []string {
	if b == nil || len(b.Header) == 0 {
		cp := make([]string, len(Columns))
		copy(cp, Columns)
		return cp
	}
	header := make([]string, len(b.Header), len(b.Header)+3)
	copy(header, b.Header)
	for _, required := range []string{ColumnSceneA, ColumnSceneB, ColumnStatus} {
		present := false
		for _, name := range header {
			if name == required {
				present = true
				break
			}
		}
		if !present {
			header = append(header, required)
		}
	}
	return header
}

// Serialize writes every row of b, resolved or not, with CRLF record
// separators and a header row.
func Serialize(w io.Writer, b *Batch, opts SerializeOptions) error {
	if b == nil {
		return fmt.Errorf("serialize: batch is nil")
	}
	writer := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		writer.Comma = opts.Delimiter
	}
	writer.UseCRLF = true

	header := b.ExportHeader()
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(header))
	for i, row := range b.Rows {
		for j, name := range header {
			record[j] = row.Value(name)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile serializes b to path atomically via a temp file.
func WriteFile(path string, b *Batch, opts SerializeOptions) error {
	var buf bytes.Buffer
	if err := Serialize(&buf, b, opts); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "export-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
