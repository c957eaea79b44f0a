// Package workspace is the authoritative in-memory model of boards, folders,
// settings and archived entities. Every mutation rebuilds the affected path of
// the board tree copy-on-write, swaps the top-level slice and persists it
// before returning.
package workspace

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/listenupapp/corkboard/internal/domain"
	domainerrors "github.com/listenupapp/corkboard/internal/errors"
	"github.com/listenupapp/corkboard/internal/id"
	"github.com/listenupapp/corkboard/internal/logger"
	"github.com/listenupapp/corkboard/internal/media"
	"github.com/listenupapp/corkboard/internal/storage"
	"github.com/listenupapp/corkboard/internal/validation"
)

// Documents is the persistence adapter as seen by the workspace.
type Documents interface {
	SaveBoards([]domain.Board)
	SaveFolders([]domain.Folder)
	SaveSettings(domain.Settings)
	SaveArchived(domain.Archive)
	SaveAll(storage.State)
	LoadAll() storage.State
	OnFailure(storage.FailureHandler)
}

// VersionStore records and restores whole-state snapshots.
type VersionStore interface {
	SaveCurrentStateAsVersion(description string) domain.Version
	RestoreVersion(versionID string) bool
	List() []domain.Version
}

// FileResolver turns raw file content into a referenceable URL. Release is
// called once no file item refers to a resolved URL any more. Stored lists
// the URLs the resolver still holds content for.
type FileResolver interface {
	Resolve(ctx context.Context, src media.Source) (media.Resolved, error)
	Release(url string)
	Stored() []string
}

// Store owns the workspace state. It is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	docs      Documents
	versions  VersionStore
	logger    *slog.Logger
	notifier  Notifier
	emitter   EventEmitter
	indexer   SearchIndexer
	resolver  FileResolver
	validator *validation.Validator
	now       func() time.Time

	boards           []domain.Board
	folders          []domain.Folder
	settings         domain.Settings
	archived         domain.Archive
	currentBoardID   string
	sidebarCollapsed bool

	// Storage failures reported while s.mu is held, drained by deliver.
	failMu   sync.Mutex
	failures []Notice

	autosave autosaveState
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = logger.OrDiscard(l) }
}

// WithNotifier sets the user notification channel.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithEmitter sets the change-event sink.
func WithEmitter(e EventEmitter) Option {
	return func(s *Store) { s.emitter = e }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithFileResolver sets how imported files become URLs.
func WithFileResolver(r FileResolver) Option {
	return func(s *Store) { s.resolver = r }
}

// WithSearchIndexer sets the search index kept in step with live boards.
func WithSearchIndexer(i SearchIndexer) Option {
	return func(s *Store) { s.indexer = i }
}

// WithValidator sets the validator used for imports and patches.
func WithValidator(v *validation.Validator) Option {
	return func(s *Store) { s.validator = v }
}

// WithAutosaveInterval overrides Settings.AutoSaveInterval for the autosave loop.
func WithAutosaveInterval(d time.Duration) Option {
	return func(s *Store) { s.autosave.override = d }
}

// New creates an empty store. Call Load to hydrate it from storage.
func New(docs Documents, versions VersionStore, opts ...Option) *Store {
	s := &Store{
		docs:      docs,
		versions:  versions,
		logger:    logger.Discard(),
		notifier:  NoopNotifier{},
		emitter:   NoopEmitter{},
		indexer:   NoopSearchIndexer{},
		validator: validation.New(),
		now:       func() time.Time { return time.Now().UTC() },
		boards:    []domain.Board{},
		folders:   []domain.Folder{},
		settings:  domain.DefaultSettings(),
		archived:  domain.EmptyArchive(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = media.NewResolver(nil, s.logger)
	}

	docs.OnFailure(func(key string, err error) {
		s.failMu.Lock()
		defer s.failMu.Unlock()
		s.failures = append(s.failures, Notice{
			Level:   LevelError,
			Code:    domainerrors.CodeStorageFailure,
			Message: "Changes to " + key + " could not be saved: " + err.Error(),
		})
	})
	return s
}

// Load hydrates the store from storage. On first run, when there are neither
// live nor archived boards, it seeds a starter board.
func (s *Store) Load() {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.docs.LoadAll()
	s.boards = st.Boards
	s.folders = st.Folders
	s.settings = st.Settings
	s.archived = st.Archived

	if len(s.boards) == 0 && len(s.archived.Boards) == 0 {
		if err := s.seedLocked(); err != nil {
			s.logger.Error("failed to seed starter board", "error", err)
		}
	}
	s.currentBoardID = s.firstLiveBoardLocked()
	fx.reindex = true
	fx.sweep = s.referencedFiles()

	s.logger.Info("workspace loaded",
		"boards", len(s.boards),
		"folders", len(s.folders),
		"archived", s.archived.Len(),
	)
}

func (s *Store) seedLocked() error {
	now := s.now()
	board, err := s.newBoard("My Board", now)
	if err != nil {
		return err
	}
	for i, name := range []string{"To Do", "In Progress", "Done"} {
		block, err := s.newBlock(board.ID, name, i, now)
		if err != nil {
			return err
		}
		board.Blocks = append(board.Blocks, block)
	}
	s.boards = []domain.Board{board}
	s.docs.SaveBoards(s.boards)
	s.logger.Info("seeded starter board", "board_id", board.ID)
	return nil
}

// Boards returns every board in the live list, including ones flagged archived.
func (s *Store) Boards() []domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneBoards(s.boards)
}

// LiveBoards returns the boards that are not archived.
func (s *Store) LiveBoards() []domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Board, 0, len(s.boards))
	for _, b := range s.boards {
		if !b.Archived {
			out = append(out, b.Clone())
		}
	}
	return out
}

// Board returns the board with the given id.
func (s *Store) Board(boardID string) (domain.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bi := s.boardIndex(boardID); bi >= 0 {
		return s.boards[bi].Clone(), true
	}
	return domain.Board{}, false
}

// Block returns the live block with the given id.
func (s *Store) Block(blockID string) (domain.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bi, bli, ok := s.locateBlock(blockID); ok {
		return s.boards[bi].Blocks[bli].Clone(), true
	}
	return domain.Block{}, false
}

// Item returns the live item with the given id.
func (s *Store) Item(itemID string) (domain.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bi, bli, ii, ok := s.locateItem(itemID); ok {
		return s.boards[bi].Blocks[bli].Items[ii].Clone(), true
	}
	return nil, false
}

// Folders returns every folder in the live list, including ones flagged archived.
func (s *Store) Folders() []domain.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneFolders(s.folders)
}

// Folder returns the folder with the given id.
func (s *Store) Folder(folderID string) (domain.Folder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fi := s.folderIndex(folderID); fi >= 0 {
		return s.folders[fi].Clone(), true
	}
	return domain.Folder{}, false
}

// Settings returns the current settings.
func (s *Store) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Archived returns a copy of the archive store.
func (s *Store) Archived() domain.Archive {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.archived.Clone()
}

// CurrentBoardID returns the selected board, or "" when none is selected.
func (s *Store) CurrentBoardID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentBoardID
}

// SidebarCollapsed reports the sidebar flag.
func (s *Store) SidebarCollapsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebarCollapsed
}

// Versions returns the stored snapshots, newest first.
func (s *Store) Versions() []domain.Version {
	return s.versions.List()
}

// ToggleSidebar flips the sidebar flag and returns the new value.
func (s *Store) ToggleSidebar() bool {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sidebarCollapsed = !s.sidebarCollapsed
	fx.emit(EventSidebarToggled, "", s.now())
	return s.sidebarCollapsed
}

// state captures the four primary documents. Callers must hold s.mu.
func (s *Store) state() storage.State {
	return storage.State{
		Boards:   s.boards,
		Folders:  s.folders,
		Settings: s.settings,
		Archived: s.archived,
	}
}

func (s *Store) firstLiveBoardLocked() string {
	i := slices.IndexFunc(s.boards, func(b domain.Board) bool { return !b.Archived })
	if i < 0 {
		return ""
	}
	return s.boards[i].ID
}

func (s *Store) newID(prefix string) (string, error) {
	v, err := id.Generate(prefix)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "could not generate id")
	}
	return v, nil
}

// notFound builds a NotFound error and queues it as a notice.
func (s *Store) notFound(fx *effects, format string, args ...any) error {
	err := domainerrors.NotFoundf(format, args...)
	fx.notify(LevelError, err.Code, err.Message)
	s.logger.Debug("mutation target not found", "error", err)
	return err
}

// reject queues a domain error as a notice and returns it.
func (s *Store) reject(fx *effects, err error) error {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		fx.notify(LevelError, domainErr.Code, domainErr.Message)
	} else {
		fx.notify(LevelError, domainerrors.CodeInternal, err.Error())
	}
	return err
}
