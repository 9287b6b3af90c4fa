package enrich

import (
	"context"
	"log/slog"
	"strings"

	"dupereview/internal/catalog"
	"dupereview/internal/logging"
	"dupereview/internal/services"
)

// Source is the read side of the catalog.
type Source interface {
	FindScene(ctx context.Context, id string) (*catalog.Scene, error)
	PendingDestroyCount(ctx context.Context, id string) (int, error)
}

// Fetcher resolves snapshots from a Source. It holds no cache; every call
// goes to the catalog.
type Fetcher struct {
	source Source
	logger *slog.Logger
}

// NewFetcher builds a Fetcher over source.
func NewFetcher(source Source, logger *slog.Logger) *Fetcher {
	return &Fetcher{source: source, logger: logging.NewComponentLogger(logger, "enrich")}
}

// FetchSide resolves one scene id. A failed count lookup still returns the
// scene record alongside the error.
func (f *Fetcher) FetchSide(ctx context.Context, id string) Snapshot {
	snap := Snapshot{SceneID: strings.TrimSpace(id)}
	if snap.SceneID == "" {
		snap.Err = services.Wrap(services.ErrInput, "enrich", "fetch", "scene id is empty", nil)
		return snap
	}
	scene, err := f.source.FindScene(ctx, snap.SceneID)
	if err != nil {
		snap.Err = err
		logging.WarnWithContext(logging.WithContext(ctx, f.logger), "scene lookup failed", "enrich_lookup_failed",
			logging.SceneID(snap.SceneID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the scene id and catalog connectivity"),
		)
		return snap
	}
	snap.Scene = scene
	count, err := f.source.PendingDestroyCount(ctx, snap.SceneID)
	if err != nil {
		snap.Err = err
		logging.WarnWithContext(logging.WithContext(ctx, f.logger), "pending edit count failed", "enrich_count_failed",
			logging.SceneID(snap.SceneID),
			logging.Error(err),
		)
		return snap
	}
	snap.PendingDeleteCount = count
	return snap
}

// Fetch resolves both sides. Side B is fetched whatever happened to side A.
func (f *Fetcher) Fetch(ctx context.Context, sceneA, sceneB string) PairResult {
	return PairResult{
		A: f.FetchSide(ctx, sceneA),
		B: f.FetchSide(ctx, sceneB),
	}
}
