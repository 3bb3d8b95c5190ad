// Package hybrid contains the dual-store synchronization engine: a
// reconciler that merges the local and remote snapshots into one
// authoritative record set, and a facade that fans every operation out to
// both stores and folds the two outcomes into one result.
package hybrid

import (
	"context"

	"github.com/progitman/progitman/internal/logging"
	"github.com/progitman/progitman/internal/models"
	"github.com/progitman/progitman/internal/storage"
)

// Reconciler resolves differences between the two store snapshots.
//
// Policy: the remote store is the permanent source of truth
// on read. Any record the remote reports that the local store is missing or
// disagrees with is written back to local. Records that exist only locally
// are left untouched and excluded from the result; they stay local-only
// until an explicit save targets them. A record without a last-modified
// timestamp is considered older than any record that carries one, which the
// remote-wins rule subsumes.
//
// A documented consequence: a delete that reached only the local store is
// undone on the next pass, because the remote snapshot still reports the
// record as live. Local deletes become final only once they also succeed
// remotely.
type Reconciler struct {
	local  storage.Store
	logger logging.Logger
}

func NewReconciler(local storage.Store, logger logging.Logger) *Reconciler {
	return &Reconciler{local: local, logger: logger.With("module", "reconciler")}
}

// Merge returns the authoritative record set for the given snapshots and
// heals the local store where it lags behind. Healing is best effort: an
// individual local write failure is logged and skipped, never fatal.
// The reconciler keeps no state between calls.
func (r *Reconciler) Merge(ctx context.Context, local, remote []*models.Profile) []*models.Profile {
	localByID := make(map[string]*models.Profile, len(local))
	for _, p := range local {
		localByID[p.ID] = p
	}

	var stale []*models.Profile
	for _, rp := range remote {
		lp, ok := localByID[rp.ID]
		if !ok || !lp.PayloadEquals(rp) {
			stale = append(stale, rp)
		}
	}

	for _, p := range stale {
		if _, err := r.local.Put(ctx, p.Clone()); err != nil {
			r.logger.Warn(ctx, "healing write failed", "id", p.ID, "error", err)
		}
	}

	if len(stale) > 0 {
		r.logger.Info(ctx, "healed local store", "records", len(stale))
	}

	return remote
}
