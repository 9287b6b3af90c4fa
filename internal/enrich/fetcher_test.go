package enrich_test

import (
	"context"
	"errors"
	"testing"

	"dupereview/internal/catalog"
	"dupereview/internal/enrich"
	"dupereview/internal/services"
)

type fakeSource struct {
	scenes   map[string]*catalog.Scene
	counts   map[string]int
	countErr error
	calls    []string
}

func (f *fakeSource) FindScene(_ context.Context, id string) (*catalog.Scene, error) {
	f.calls = append(f.calls, "scene:"+id)
	scene, ok := f.scenes[id]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "find scene", id, nil)
	}
	return scene, nil
}

func (f *fakeSource) PendingDestroyCount(_ context.Context, id string) (int, error) {
	f.calls = append(f.calls, "count:"+id)
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[id], nil
}

func TestFetchResolvesBothSides(t *testing.T) {
	source := &fakeSource{
		scenes: map[string]*catalog.Scene{"a": {ID: "a"}, "b": {ID: "b", Deleted: true}},
		counts: map[string]int{"a": 1},
	}
	result := enrich.NewFetcher(source, nil).Fetch(context.Background(), "a", "b")
	if err := result.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.A.Loaded() || result.A.PendingDeleteCount != 1 || !result.A.AlreadyDeleted() {
		t.Fatalf("unexpected side A: %#v", result.A)
	}
	if !result.B.AlreadyDeleted() || result.B.DeletionLabel() != "(Deleted)" {
		t.Fatalf("unexpected side B: %#v", result.B)
	}
	if result.A.DeletionLabel() != "(Delete In Progress)" {
		t.Fatalf("unexpected side A label %q", result.A.DeletionLabel())
	}
}

func TestFetchContinuesAfterSideAFails(t *testing.T) {
	source := &fakeSource{scenes: map[string]*catalog.Scene{"b": {ID: "b"}}}
	result := enrich.NewFetcher(source, nil).Fetch(context.Background(), "missing", "b")
	if !errors.Is(result.A.Err, services.ErrNotFound) {
		t.Fatalf("expected not found on side A, got %v", result.A.Err)
	}
	if !result.B.Loaded() {
		t.Fatalf("expected side B to load, got %#v", result.B)
	}
	if !errors.Is(result.Err(), services.ErrNotFound) {
		t.Fatalf("expected joined error to carry ErrNotFound, got %v", result.Err())
	}
	want := []string{"scene:missing", "scene:b", "count:b"}
	if len(source.calls) != len(want) {
		t.Fatalf("unexpected calls %v", source.calls)
	}
	for i := range want {
		if source.calls[i] != want[i] {
			t.Fatalf("unexpected calls %v", source.calls)
		}
	}
}

func TestFetchSideKeepsSceneWhenCountFails(t *testing.T) {
	source := &fakeSource{
		scenes:   map[string]*catalog.Scene{"a": {ID: "a"}},
		countErr: errors.New("boom"),
	}
	snap := enrich.NewFetcher(source, nil).FetchSide(context.Background(), "a")
	if snap.Scene == nil || snap.Err == nil || snap.Loaded() {
		t.Fatalf("expected scene with error, got %#v", snap)
	}
}

func TestFetchSideRejectsEmptyID(t *testing.T) {
	snap := enrich.NewFetcher(&fakeSource{}, nil).FetchSide(context.Background(), " ")
	if !errors.Is(snap.Err, services.ErrInput) {
		t.Fatalf("expected input error, got %v", snap.Err)
	}
}

func TestParseSide(t *testing.T) {
	if side, err := enrich.ParseSide("b"); err != nil || side != enrich.SideB {
		t.Fatalf("ParseSide(b) = %v, %v", side, err)
	}
	if _, err := enrich.ParseSide("c"); err == nil {
		t.Fatal("expected error for unknown side")
	}
	if enrich.SideA.Other() != enrich.SideB || enrich.SideB.String() != "B" {
		t.Fatal("unexpected side helpers")
	}
}
