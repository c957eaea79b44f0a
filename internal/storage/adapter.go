package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/listenupapp/corkboard/internal/domain"
	domainerrors "github.com/listenupapp/corkboard/internal/errors"
	"github.com/listenupapp/corkboard/internal/logger"
)

// FailureHandler is told about every write or read failure the adapter swallows.
type FailureHandler func(key string, err error)

// State is the full set of primary documents.
type State struct {
	Boards   []domain.Board
	Folders  []domain.Folder
	Settings domain.Settings
	Archived domain.Archive
}

// Adapter reads and writes the workspace documents. It never returns errors:
// failures are logged and handed to the FailureHandler, and reads fall back to defaults.
type Adapter struct {
	kv        KV
	logger    *slog.Logger
	onFailure FailureHandler
}

// NewAdapter creates an adapter over kv.
func NewAdapter(kv KV, log *slog.Logger) *Adapter {
	return &Adapter{kv: kv, logger: logger.OrDiscard(log)}
}

// OnFailure installs the handler called for swallowed failures. Not safe to call concurrently with I/O.
func (a *Adapter) OnFailure(h FailureHandler) {
	a.onFailure = h
}

// SaveBoards persists the board list.
func (a *Adapter) SaveBoards(boards []domain.Board) {
	if boards == nil {
		boards = []domain.Board{}
	}
	a.save(KeyBoards, boards)
}

// GetBoards returns the stored board list, or an empty list.
func (a *Adapter) GetBoards() []domain.Board {
	var boards []domain.Board
	if !a.load(KeyBoards, &boards) || boards == nil {
		return []domain.Board{}
	}
	return boards
}

// SaveFolders persists the folder list.
func (a *Adapter) SaveFolders(folders []domain.Folder) {
	if folders == nil {
		folders = []domain.Folder{}
	}
	a.save(KeyFolders, folders)
}

// GetFolders returns the stored folder list, or an empty list.
func (a *Adapter) GetFolders() []domain.Folder {
	var folders []domain.Folder
	if !a.load(KeyFolders, &folders) || folders == nil {
		return []domain.Folder{}
	}
	return folders
}

// SaveSettings persists the settings document.
func (a *Adapter) SaveSettings(s domain.Settings) {
	a.save(KeySettings, s)
}

// GetSettings returns the stored settings normalized, or the defaults.
// Fields missing from the stored document keep their default values.
func (a *Adapter) GetSettings() domain.Settings {
	s := domain.DefaultSettings()
	if !a.load(KeySettings, &s) {
		return domain.DefaultSettings()
	}
	return s.Normalize()
}

// SaveArchived persists the archive store.
func (a *Adapter) SaveArchived(archive domain.Archive) {
	a.save(KeyArchived, archive.Normalize())
}

// GetArchived returns the stored archive, or an empty one.
func (a *Adapter) GetArchived() domain.Archive {
	var archive domain.Archive
	if !a.load(KeyArchived, &archive) {
		return domain.EmptyArchive()
	}
	return archive.Normalize()
}

// SaveVersions persists the version list.
func (a *Adapter) SaveVersions(versions []domain.Version) {
	if versions == nil {
		versions = []domain.Version{}
	}
	a.save(KeyVersions, versions)
}

// GetVersions returns the stored versions, or an empty list.
func (a *Adapter) GetVersions() []domain.Version {
	var versions []domain.Version
	if !a.load(KeyVersions, &versions) || versions == nil {
		return []domain.Version{}
	}
	return versions
}

// ClearVersions removes the version document; GetVersions then returns an empty list.
func (a *Adapter) ClearVersions() {
	if err := a.kv.Delete(KeyVersions); err != nil {
		a.fail(KeyVersions, fmt.Errorf("delete %s: %w", KeyVersions, err))
	}
}

// SaveAll persists the four primary documents.
func (a *Adapter) SaveAll(s State) {
	a.SaveBoards(s.Boards)
	a.SaveFolders(s.Folders)
	a.SaveSettings(s.Settings)
	a.SaveArchived(s.Archived)
}

// LoadAll reads the four primary documents.
func (a *Adapter) LoadAll() State {
	return State{
		Boards:   a.GetBoards(),
		Folders:  a.GetFolders(),
		Settings: a.GetSettings(),
		Archived: a.GetArchived(),
	}
}

// Close closes the underlying store.
func (a *Adapter) Close() error {
	return a.kv.Close()
}

func (a *Adapter) save(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		a.fail(key, fmt.Errorf("marshal %s: %w", key, err))
		return
	}
	if err := a.kv.Set(key, data); err != nil {
		a.fail(key, fmt.Errorf("write %s: %w", key, err))
		return
	}
	a.logger.Debug("document saved", "key", key, "bytes", len(data))
}

// load decodes the document at key into v and reports whether it succeeded.
// A missing key is not a failure; a corrupt document is logged and ignored.
func (a *Adapter) load(key string, v any) bool {
	data, err := a.kv.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return false
	}
	if err != nil {
		a.fail(key, fmt.Errorf("read %s: %w", key, err))
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		a.logger.Warn("corrupt document, using defaults", "key", key, "error", err)
		return false
	}
	return true
}

func (a *Adapter) fail(key string, err error) {
	a.logger.Error("storage failure", "key", key, "error", err)
	if a.onFailure != nil {
		a.onFailure(key, domainerrors.StorageFailure(err, key))
	}
}
