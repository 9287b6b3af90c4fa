package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"dupereview/internal/batch"
	"dupereview/internal/services"
	"dupereview/internal/session"
	"dupereview/internal/sessionstore"
)

func TestRestoreMigratesLegacyBlob(t *testing.T) {
	store := sessionstore.NewMemory()
	ctx := context.Background()
	legacy := `{"filename":"old.csv","data":[` +
		`{"SceneA_ID":"a1","SceneB_ID":"b1","Title_difflib":"1.0","Status":"Delete"},` +
		`{"SceneA_ID":"a2","SceneB_ID":"b2","Title_difflib":"0.4","Notes":"keep"},` +
		`{"SceneA_ID":"a3","SceneB_ID":"b3","Status":"Review"}]}`
	if err := store.Put(ctx, key, []byte(legacy)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mgr := session.NewManager(store, key)
	s, err := mgr.Restore(ctx)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.Filename() != "old.csv" || s.Batch.Len() != 3 {
		t.Fatalf("unexpected restored batch: %q %d", s.Filename(), s.Batch.Len())
	}
	if s.Mode != batch.ModeFiltered || s.PageCount() != 2 {
		t.Fatalf("expected filtered mode with 2 pages, got %s/%d", s.Mode, s.PageCount())
	}
	if s.Batch.Rows[1].Extra["Notes"] != "keep" {
		t.Fatalf("expected unknown column carried over, got %#v", s.Batch.Rows[1].Extra)
	}
	if s.ID == "" {
		t.Fatal("expected migrated session to receive an id")
	}

	data, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var stored map[string]any
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stored["version"] != float64(1) {
		t.Fatalf("expected migrated envelope written back, got %v", stored)
	}
}

func TestRestoreRejectsBadBlobs(t *testing.T) {
	cases := map[string]string{
		"not json":       `{{`,
		"newer version":  `{"version":99,"rows":[]}`,
		"missing id":     `{"version":1,"mode":"filtered","header":["SceneA_ID","SceneB_ID"],"rows":[{"SceneA_ID":"a"}]}`,
		"bad mode":       `{"version":1,"mode":"sideways","rows":[]}`,
		"legacy missing": `{"filename":"x.csv","data":[{"SceneB_ID":"b"}]}`,
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			store := sessionstore.NewMemory()
			if err := store.Put(context.Background(), key, []byte(blob)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			_, err := session.NewManager(store, key).Restore(context.Background())
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
