// Package versions keeps a bounded, newest-first list of whole-workspace
// snapshots that can be restored over the primary documents.
package versions

import (
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/listenupapp/corkboard/internal/domain"
	"github.com/listenupapp/corkboard/internal/id"
	"github.com/listenupapp/corkboard/internal/logger"
	"github.com/listenupapp/corkboard/internal/storage"
)

// Documents is the subset of the persistence adapter the version store needs.
type Documents interface {
	LoadAll() storage.State
	SaveAll(storage.State)
	GetVersions() []domain.Version
	SaveVersions([]domain.Version)
	ClearVersions()
}

// Store manages the version history document.
type Store struct {
	mu     sync.Mutex
	docs   Documents
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a version store over docs.
func New(docs Documents, log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		docs:   docs,
		logger: logger.OrDiscard(log),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveCurrentStateAsVersion snapshots the persisted primary documents and
// prepends the snapshot, evicting the oldest beyond domain.MaxVersions.
func (s *Store) SaveCurrentStateAsVersion(description string) domain.Version {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.docs.LoadAll()
	data, err := json.Marshal(domain.Snapshot{
		Boards:   state.Boards,
		Folders:  state.Folders,
		Settings: state.Settings,
		Archived: state.Archived,
	})
	if err != nil {
		// Every field is plain data, so this only fires on a programming error.
		s.logger.Error("failed to encode snapshot", "error", err)
	}

	v := domain.Version{
		ID:          id.MustGenerate(id.PrefixVersion),
		Timestamp:   s.now(),
		Description: description,
		Data:        string(data),
	}

	list := append([]domain.Version{v}, s.docs.GetVersions()...)
	if len(list) > domain.MaxVersions {
		list = list[:domain.MaxVersions]
	}
	s.docs.SaveVersions(list)

	s.logger.Info("version saved", "version_id", v.ID, "description", description, "retained", len(list))
	return v
}

// RestoreVersion overwrites the four primary documents with the snapshot's
// payload. It reports false when the id is unknown or the payload is corrupt.
func (s *Store) RestoreVersion(versionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.docs.GetVersions()
	idx := slices.IndexFunc(list, func(v domain.Version) bool { return v.ID == versionID })
	if idx < 0 {
		s.logger.Warn("version not found", "version_id", versionID)
		return false
	}
	v := list[idx]

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(v.Data), &snap); err != nil {
		s.logger.Warn("version payload corrupt", "version_id", versionID, "error", err)
		return false
	}

	s.docs.SaveAll(storage.State{
		Boards:   orEmpty(snap.Boards),
		Folders:  orEmpty(snap.Folders),
		Settings: snap.Settings.Normalize(),
		Archived: snap.Archived.Normalize(),
	})
	s.logger.Info("version restored", "version_id", versionID, "description", v.Description)
	return true
}

// List returns the stored versions, newest first.
func (s *Store) List() []domain.Version {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs.GetVersions()
}

// Get returns the version with the given id.
func (s *Store) Get(versionID string) (domain.Version, bool) {
	for _, v := range s.List() {
		if v.ID == versionID {
			return v, true
		}
	}
	return domain.Version{}, false
}

// Clear drops the whole history.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs.ClearVersions()
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
