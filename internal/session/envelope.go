package session

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"dupereview/internal/batch"
	"dupereview/internal/services"
)

// envelopeVersion is bumped whenever the stored shape changes; decode keeps
// reading every older version.
const envelopeVersion = 1

type envelope struct {
	Version  int                 `json:"version"`
	ID       string              `json:"id"`
	Filename string              `json:"filename"`
	Mode     batch.Mode          `json:"mode"`
	Page     int                 `json:"page"`
	Header   []string            `json:"header,omitempty"`
	Rows     []map[string]string `json:"rows"`
	SavedAt  time.Time           `json:"saved_at"`
}

// legacyEnvelope is the unversioned blob written by the browser tool.
type legacyEnvelope struct {
	Filename string              `json:"filename"`
	Data     []map[string]string `json:"data"`
}

func encode(s *Session, savedAt time.Time) ([]byte, error) {
	header := s.Batch.ExportHeader()
	rows := make([]map[string]string, 0, len(s.Batch.Rows))
	for _, row := range s.Batch.Rows {
		values := make(map[string]string, len(header))
		for _, name := range header {
			values[name] = row.Value(name)
		}
		rows = append(rows, values)
	}
	env := envelope{
		Version:  envelopeVersion,
		ID:       s.ID,
		Filename: s.Batch.Filename,
		Mode:     s.Mode,
		Page:     s.page,
		Header:   header,
		Rows:     rows,
		SavedAt:  savedAt.UTC(),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

// decoded is a stored session before the active view is rebuilt.
type decoded struct {
	id       string
	mode     batch.Mode
	page     int
	savedAt  time.Time
	batch    *batch.Batch
	migrated bool
}

func decode(data []byte) (*decoded, error) {
	var probe struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, services.Wrap(services.ErrValidation, "session", "decode", "stored session is not valid JSON", err)
	}
	if probe.Version == nil {
		return decodeLegacy(data)
	}
	if *probe.Version > envelopeVersion {
		return nil, services.Wrap(services.ErrValidation, "session", "decode",
			fmt.Sprintf("stored session version %d is newer than supported version %d", *probe.Version, envelopeVersion), nil)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, services.Wrap(services.ErrValidation, "session", "decode", "malformed session envelope", err)
	}
	mode, err := batch.ParseMode(string(env.Mode))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "session", "decode", "stored mode", err)
	}
	header := env.Header
	if len(header) == 0 {
		header = headerFromRows(env.Rows)
	}
	b, err := rowsToBatch(env.Filename, header, env.Rows)
	if err != nil {
		return nil, err
	}
	return &decoded{id: env.ID, mode: mode, page: env.Page, savedAt: env.SavedAt, batch: b}, nil
}

func decodeLegacy(data []byte) (*decoded, error) {
	var legacy legacyEnvelope
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, services.Wrap(services.ErrValidation, "session", "decode", "malformed legacy session", err)
	}
	b, err := rowsToBatch(legacy.Filename, headerFromRows(legacy.Data), legacy.Data)
	if err != nil {
		return nil, err
	}
	return &decoded{mode: batch.ModeFiltered, batch: b, migrated: true}, nil
}

func rowsToBatch(filename string, header []string, rows []map[string]string) (*batch.Batch, error) {
	b := &batch.Batch{Filename: filename, Header: header, Rows: make([]*batch.CandidateRow, 0, len(rows))}
	for i, values := range rows {
		row := &batch.CandidateRow{}
		for _, name := range header {
			row.SetValue(name, values[name])
		}
		if row.SceneAID == "" || row.SceneBID == "" {
			return nil, services.Wrap(services.ErrValidation, "session", "decode",
				fmt.Sprintf("stored row %d is missing a scene id", i+1), nil)
		}
		b.Rows = append(b.Rows, row)
	}
	return b, nil
}

// headerFromRows recovers a column order when none was stored: known columns
// in canonical order, then any others alphabetically.
func headerFromRows(rows []map[string]string) []string {
	seen := make(map[string]struct{})
	for _, values := range rows {
		for name := range values {
			seen[name] = struct{}{}
		}
	}
	header := make([]string, 0, len(seen))
	for _, name := range batch.Columns {
		if _, ok := seen[name]; ok {
			header = append(header, name)
			delete(seen, name)
		}
	}
	extras := make([]string, 0, len(seen))
	for name := range seen {
		extras = append(extras, name)
	}
	sort.Strings(extras)
	return append(header, extras...)
}
