package hybrid

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/progitman/progitman/internal/logging"
	"github.com/progitman/progitman/internal/models"
	"github.com/progitman/progitman/internal/storage"
)

// Service is the public entry point for record operations. Every call fans
// out to both stores concurrently and joins the two outcomes all-settled:
// both results are observed before anything is decided, so a fast failure on
// one side never hides the other side's success.
//
// The service holds no record state between calls. The one concurrency
// hazard it does not guard against is two overlapping saves for the same id;
// the remote store's last write wins and callers are expected to serialize
// edits to a single record themselves.
type Service struct {
	local      storage.Store
	remote     storage.Store
	reconciler *Reconciler
	logger     logging.Logger
}

// NewService wires the facade from its collaborators. Dependencies are
// passed explicitly; nothing here is a process-wide singleton.
func NewService(local, remote storage.Store, logger logging.Logger) *Service {
	return &Service{
		local:      local,
		remote:     remote,
		reconciler: NewReconciler(local, logger),
		logger:     logger.With("module", "hybrid"),
	}
}

// SaveProfile writes p to both stores. Success means at least one store
// accepted the write; only a dual failure is surfaced. When the remote store
// assigns a new id, the local copy is converged onto that id best-effort so
// every subsequent write targets the same record on both sides.
func (s *Service) SaveProfile(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	pending := p.Clone()
	if pending.ID == "" {
		pending.ID = models.NewLocalID()
	}

	var (
		localErr     error
		remoteStored *models.Profile
		remoteErr    error
	)

	// all-settled join: the closures record their outcome and never return
	// an error, so neither side can short-circuit the other
	var g errgroup.Group
	g.Go(func() error {
		_, localErr = s.local.Put(ctx, pending.Clone())
		return nil
	})
	g.Go(func() error {
		remoteStored, remoteErr = s.remote.Put(ctx, pending.Clone())
		return nil
	})
	_ = g.Wait()

	switch classify(localErr, remoteErr) {
	case bothFailed:
		return nil, &DualWriteError{Op: "save", Local: localErr, Remote: remoteErr}
	case localOnly:
		s.logger.Warn(ctx, "remote save failed, profile is locally pending", "id", pending.ID, "error", remoteErr)
		return pending, nil
	case remoteOnly:
		s.logger.Warn(ctx, "local save failed", "id", pending.ID, "error", localErr)
	}

	result := pending.Clone()
	result.ID = remoteStored.ID
	result.UpdatedAt = remoteStored.UpdatedAt

	if remoteStored.ID != pending.ID {
		// converge the local copy onto the remote-assigned id
		if _, err := s.local.Put(ctx, result.Clone()); err != nil {
			s.logger.Warn(ctx, "could not adopt remote id locally", "id", result.ID, "error", err)
		} else if localErr == nil {
			if err := s.local.Delete(ctx, pending.ID); err != nil {
				s.logger.Warn(ctx, "could not drop temporary local copy", "id", pending.ID, "error", err)
			}
		}
	}

	return result, nil
}

// ListProfiles returns the authoritative record set. Both stores are listed
// concurrently; with the remote snapshot in hand the reconciler merges and
// heals, otherwise the local snapshot is served unmodified (degraded but
// available). Only a dual failure is surfaced.
func (s *Service) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	var (
		localProfiles, remoteProfiles []*models.Profile
		localErr, remoteErr           error
	)

	var g errgroup.Group
	g.Go(func() error {
		localProfiles, localErr = s.local.ListAll(ctx)
		return nil
	})
	g.Go(func() error {
		remoteProfiles, remoteErr = s.remote.ListAll(ctx)
		return nil
	})
	_ = g.Wait()

	switch classify(localErr, remoteErr) {
	case bothFailed:
		return nil, &DualWriteError{Op: "list", Local: localErr, Remote: remoteErr}
	case localOnly:
		s.logger.Warn(ctx, "remote list failed, serving local snapshot", "error", remoteErr)
		return localProfiles, nil
	case remoteOnly:
		s.logger.Warn(ctx, "local list failed, merging against empty snapshot", "error", localErr)
		localProfiles = nil
	}

	return s.reconciler.Merge(ctx, localProfiles, remoteProfiles), nil
}

// DeleteProfile removes the record from both stores. Success means at least
// one store performed the delete; the asymmetric consequence (a local-only
// delete resurfacing on the next sync) is documented on Reconciler.
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	var localErr, remoteErr error

	var g errgroup.Group
	g.Go(func() error {
		localErr = s.local.Delete(ctx, id)
		return nil
	})
	g.Go(func() error {
		remoteErr = s.remote.Delete(ctx, id)
		return nil
	})
	_ = g.Wait()

	switch classify(localErr, remoteErr) {
	case bothFailed:
		return &DualWriteError{Op: "delete", Local: localErr, Remote: remoteErr}
	case localOnly:
		s.logger.Warn(ctx, "remote delete failed, record will resurface on next sync", "id", id, "error", remoteErr)
	case remoteOnly:
		s.logger.Warn(ctx, "local delete failed", "id", id, "error", localErr)
	}

	return nil
}

// ForceSync triggers reconciliation for its healing side effects.
func (s *Service) ForceSync(ctx context.Context) error {
	_, err := s.ListProfiles(ctx)
	return err
}
