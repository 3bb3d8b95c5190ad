package hybrid

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/progitman/progitman/internal/logging"
	"github.com/progitman/progitman/internal/models"
	"github.com/progitman/progitman/internal/storage"
)

// fakeStore is an in-memory storage.Store with switchable failure modes.
// With assignIDs set it behaves like the remote store: new records get a
// UUID and every write gets a fresh timestamp.
type fakeStore struct {
	mu        sync.Mutex
	profiles  map[string]*models.Profile
	assignIDs bool

	failPut    error
	failList   error
	failDelete error

	puts    []string
	deletes []string
}

func newFakeStore(assignIDs bool, seed ...*models.Profile) *fakeStore {
	s := &fakeStore{profiles: make(map[string]*models.Profile), assignIDs: assignIDs}
	for _, p := range seed {
		s.profiles[p.ID] = p.Clone()
	}
	return s
}

func (s *fakeStore) Put(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut != nil {
		return nil, s.failPut
	}

	stored := p.Clone()
	if s.assignIDs {
		if !models.IsRemoteID(stored.ID) {
			stored.ID = uuid.NewString()
		}
		stored.UpdatedAt = time.Now().UTC()
	}
	s.profiles[stored.ID] = stored.Clone()
	s.puts = append(s.puts, stored.ID)
	return stored, nil
}

func (s *fakeStore) ListAll(ctx context.Context) ([]*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList != nil {
		return nil, s.failList
	}

	result := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		result = append(result, p.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete != nil {
		return s.failDelete
	}
	delete(s.profiles, id)
	s.deletes = append(s.deletes, id)
	return nil
}

func (s *fakeStore) get(id string) *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[id].Clone()
}

func (s *fakeStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.profiles[id]
	return ok
}

var _ storage.Store = (*fakeStore)(nil)

func testLogger(t *testing.T) logging.Logger {
	t.Helper()
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ids(profiles []*models.Profile) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.ID)
	}
	return out
}
