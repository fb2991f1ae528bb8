package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adiwidjaja/tokolens/internal/search"
)

// SyncSpec describes one sync target: an aggregate query against the
// source store and a pure transform from a result row to an index
// document with a deterministic identity.
type SyncSpec[R any] struct {
	Index     string
	Mapping   string
	Fetch     func(context.Context) ([]R, error)
	Transform func(R) search.Document
}

// Sync pulls aggregate rows from the source and upserts them into the
// named index, creating the index from the spec's mapping when absent.
// Re-running with unchanged source data leaves the index identical.
//
// Zero rows is a no-op: empty results are usually a transient or
// filter artifact, not a signal to wipe history, so existing documents
// are left alone. Individual document failures inside the bulk batch
// are logged and skipped; the returned count covers successes only.
func Sync[R any](ctx context.Context, store search.Store, spec SyncSpec[R]) (int, error) {
	rows, err := spec.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching rows for %s: %w", spec.Index, err)
	}

	if len(rows) == 0 {
		slog.Info("no rows to sync", "index", spec.Index)
		return 0, nil
	}

	if err := store.Ping(ctx); err != nil {
		return 0, err
	}

	exists, err := store.Exists(ctx, spec.Index)
	if err != nil {
		return 0, fmt.Errorf("checking index %s: %w", spec.Index, err)
	}

	if !exists {
		if err := store.Create(ctx, spec.Index, spec.Mapping); err != nil {
			return 0, fmt.Errorf("creating index %s: %w", spec.Index, err)
		}

		slog.Info("created index", "index", spec.Index)
	}

	docs := make([]search.Document, len(rows))
	for i, row := range rows {
		docs[i] = spec.Transform(row)
	}

	success, failed, err := store.BulkUpsert(ctx, spec.Index, docs)
	if err != nil {
		return 0, fmt.Errorf("bulk upsert into %s: %w", spec.Index, err)
	}

	if len(failed) > 0 {
		slog.Warn("documents failed to index",
			"index", spec.Index,
			"failed", len(failed),
			"first_id", failed[0].ID,
			"first_reason", failed[0].Reason,
		)
	}

	slog.Info("synced documents", "index", spec.Index, "count", success)

	return success, nil
}
