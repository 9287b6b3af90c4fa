package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"dupereview/internal/batch"
	"dupereview/internal/services"
	"dupereview/internal/session"
	"dupereview/internal/sessionstore"
)

const key = "scenes-compare"

func mustParse(t *testing.T, input string) *batch.Batch {
	t.Helper()
	b, err := batch.Parse(strings.NewReader(input), batch.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b.Filename = "pairs.csv"
	return b
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func TestLoadFiltersAndPersists(t *testing.T) {
	store := sessionstore.NewMemory()
	mgr := session.NewManager(store, key, session.WithClock(fixedClock))
	ctx := context.Background()

	b := mustParse(t, "SceneA_ID,SceneB_ID,Status\r\na1,b1,\r\na2,b2,Different\r\na3,b3,\r\n")
	s, err := mgr.Load(ctx, b, batch.ModeFiltered)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(s.Active(), []int{0, 2}) {
		t.Fatalf("unexpected active set %v", s.Active())
	}
	if s.PageCount() != 2 || s.Page() != 1 {
		t.Fatalf("expected 2 pages starting at 1, got %d/%d", s.Page(), s.PageCount())
	}
	entry, ok := s.Current()
	if !ok || entry.Index != 0 || entry.Row.SceneAID != "a1" {
		t.Fatalf("unexpected current entry %#v", entry)
	}
	second, ok := s.At(2)
	if !ok || second.Index != 2 || second.Row.SceneAID != "a3" {
		t.Fatalf("unexpected page 2 entry %#v", second)
	}
	if _, ok := s.At(3); ok {
		t.Fatal("page beyond active set must yield no pair")
	}
	if _, ok := s.At(0); ok {
		t.Fatal("page 0 must yield no pair")
	}

	data, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("expected stored session: %v", err)
	}
	var stored map[string]any
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("stored session is not JSON: %v", err)
	}
	if stored["version"] != float64(1) || stored["filename"] != "pairs.csv" || stored["mode"] != "filtered" {
		t.Fatalf("unexpected envelope %v", stored)
	}
	if !s.SavedAt.Equal(fixedClock()) {
		t.Fatalf("expected SavedAt from clock, got %v", s.SavedAt)
	}
}

func TestLoadEmptyActiveSetHasNoPage(t *testing.T) {
	mgr := session.NewManager(sessionstore.NewMemory(), key)
	b := mustParse(t, "SceneA_ID,SceneB_ID,Status\r\na1,b1,Merge\r\n")
	s, err := mgr.Load(context.Background(), b, batch.ModeFiltered)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.PageCount() != 0 || s.Page() != 0 {
		t.Fatalf("expected no pages, got %d/%d", s.Page(), s.PageCount())
	}
	if _, ok := s.Current(); ok {
		t.Fatal("expected no current pair")
	}
}

func TestRestoreAfterMarkingRows(t *testing.T) {
	store := sessionstore.NewMemory()
	ctx := context.Background()
	input := "SceneA_ID,SceneB_ID,Status\r\n" +
		"a1,b1,\r\na2,b2,\r\na3,b3,Review\r\na4,b4,\r\na5,b5,\r\n"

	first := session.NewManager(store, key)
	s, err := first.Load(ctx, mustParse(t, input), batch.ModeFiltered)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.PageCount() != 5 {
		t.Fatalf("expected 5 pages, got %d", s.PageCount())
	}
	for _, idx := range []int{1, 3} {
		if err := first.SetStatus(ctx, idx, batch.StatusDelete); err != nil {
			t.Fatalf("SetStatus(%d): %v", idx, err)
		}
	}
	if s.PageCount() != 5 {
		t.Fatalf("active set must stay frozen after status changes, got %d", s.PageCount())
	}
	if err := first.SetPage(ctx, 4); err != nil {
		t.Fatalf("SetPage: %v", err)
	}

	second := session.NewManager(store, key)
	restored, err := second.Restore(ctx)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored == nil {
		t.Fatal("expected restored session")
	}
	if restored.ID != s.ID {
		t.Fatalf("expected session id preserved, got %q want %q", restored.ID, s.ID)
	}
	if restored.Filename() != "pairs.csv" {
		t.Fatalf("unexpected filename %q", restored.Filename())
	}
	if restored.Batch.Rows[1].Status != batch.StatusDelete || restored.Batch.Rows[3].Status != batch.StatusDelete {
		t.Fatal("expected rows 2 and 4 restored as Delete")
	}
	if !reflect.DeepEqual(restored.Active(), []int{0, 2, 4}) {
		t.Fatalf("expected active set to exclude deleted rows, got %v", restored.Active())
	}
	if restored.Page() != 1 {
		t.Fatalf("expected page reset to 1, got %d", restored.Page())
	}
	if restored.LastPage != 4 {
		t.Fatalf("expected last page 4 recorded, got %d", restored.LastPage)
	}
}

func TestRestoreWithoutStoredSession(t *testing.T) {
	mgr := session.NewManager(sessionstore.NewMemory(), key)
	s, err := mgr.Restore(context.Background())
	if err != nil || s != nil {
		t.Fatalf("expected nil session and nil error, got %v, %v", s, err)
	}
}

func TestSetStatusRevertsOnPersistFailure(t *testing.T) {
	store := sessionstore.NewMemory()
	mgr := session.NewManager(store, key)
	ctx := context.Background()
	if _, err := mgr.Load(ctx, mustParse(t, "SceneA_ID,SceneB_ID\r\na,b\r\n"), batch.ModeFiltered); err != nil {
		t.Fatalf("Load: %v", err)
	}
	store.FailPut = errors.New("disk full")
	if err := mgr.SetStatus(ctx, 0, batch.StatusMerge); err == nil {
		t.Fatal("expected persist failure")
	}
	if got := mgr.Current().Batch.Rows[0].Status; got != batch.StatusUnset {
		t.Fatalf("expected status reverted, got %q", got)
	}
}

func TestSetStatusValidation(t *testing.T) {
	mgr := session.NewManager(sessionstore.NewMemory(), key)
	ctx := context.Background()
	if err := mgr.SetStatus(ctx, 0, batch.StatusMerge); !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected precondition error without session, got %v", err)
	}
	if _, err := mgr.Load(ctx, mustParse(t, "SceneA_ID,SceneB_ID\r\na,b\r\n"), batch.ModeFiltered); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := mgr.SetStatus(ctx, 5, batch.StatusMerge); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error for bad index, got %v", err)
	}
	if err := mgr.SetStatus(ctx, 0, batch.Status("Escalated")); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
	if err := mgr.SetPage(ctx, 2); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error for out-of-range page, got %v", err)
	}
}

func TestDuplicatePairsAreAddressedByIndex(t *testing.T) {
	mgr := session.NewManager(sessionstore.NewMemory(), key)
	ctx := context.Background()
	s, err := mgr.Load(ctx, mustParse(t, "SceneA_ID,SceneB_ID\r\na,b\r\na,b\r\n"), batch.ModeFiltered)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := mgr.SetStatus(ctx, 1, batch.StatusDifferent); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if s.Batch.Rows[0].Status != batch.StatusUnset {
		t.Fatal("first duplicate must be untouched")
	}
	entry, _ := s.At(2)
	if entry.Row.Status != batch.StatusDifferent {
		t.Fatal("active view must share the mutated row")
	}
}

func TestLoadFailureKeepsPreviousSession(t *testing.T) {
	store := sessionstore.NewMemory()
	mgr := session.NewManager(store, key)
	ctx := context.Background()
	original, err := mgr.Load(ctx, mustParse(t, "SceneA_ID,SceneB_ID\r\na,b\r\n"), batch.ModeFiltered)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	before, _ := store.Get(ctx, key)

	store.FailPut = errors.New("disk full")
	if _, err := mgr.Load(ctx, mustParse(t, "SceneA_ID,SceneB_ID\r\nx,y\r\n"), batch.ModeFiltered); err == nil {
		t.Fatal("expected Load to fail")
	}
	if mgr.Current() != original {
		t.Fatal("expected previous session to stay current")
	}
	after, _ := store.Get(ctx, key)
	if string(before) != string(after) {
		t.Fatal("stored session must be untouched by a failed load")
	}
}

func TestClear(t *testing.T) {
	store := sessionstore.NewMemory()
	mgr := session.NewManager(store, key)
	ctx := context.Background()
	if _, err := mgr.Load(ctx, mustParse(t, "SceneA_ID,SceneB_ID\r\na,b\r\n"), batch.ModeUnfiltered); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := mgr.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if mgr.Current() != nil {
		t.Fatal("expected no session after clear")
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, sessionstore.ErrNotFound) {
		t.Fatalf("expected stored session removed, got %v", err)
	}
	if s, err := session.NewManager(store, key).Restore(ctx); s != nil || err != nil {
		t.Fatalf("expected blank restore after clear, got %v, %v", s, err)
	}
}

func TestRestorePreservesUnfilteredMode(t *testing.T) {
	store := sessionstore.NewMemory()
	ctx := context.Background()
	mgr := session.NewManager(store, key)
	if _, err := mgr.Load(ctx, mustParse(t, "SceneA_ID,SceneB_ID,Status\r\na,b,Merge\r\nc,d,\r\n"), batch.ModeUnfiltered); err != nil {
		t.Fatalf("Load: %v", err)
	}
	restored, err := session.NewManager(store, key).Restore(ctx)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Mode != batch.ModeUnfiltered || restored.PageCount() != 2 {
		t.Fatalf("expected unfiltered restore with 2 pages, got %s/%d", restored.Mode, restored.PageCount())
	}
}
