package workspace

import (
	"context"
	"time"

	"github.com/listenupapp/corkboard/internal/domain"
	domainerrors "github.com/listenupapp/corkboard/internal/errors"
)

// Level is the severity of a user-facing notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a transient user-facing message (a toast).
type Notice struct {
	Level   Level
	Code    domainerrors.Code
	Message string
}

// Notifier delivers notices to whatever presents them to the user.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// NoopNotifier drops every notice.
type NoopNotifier struct{}

// Notify implements Notifier as a no-op.
func (NoopNotifier) Notify(Notice) {}

// EventType names a state change.
type EventType string

const (
	EventBoardCreated   EventType = "board.created"
	EventBoardUpdated   EventType = "board.updated"
	EventBoardArchived  EventType = "board.archived"
	EventBoardRestored  EventType = "board.restored"
	EventBoardDeleted   EventType = "board.deleted"
	EventBoardSelected  EventType = "board.selected"
	EventBlockCreated   EventType = "block.created"
	EventBlockUpdated   EventType = "block.updated"
	EventBlockArchived  EventType = "block.archived"
	EventBlockRestored  EventType = "block.restored"
	EventBlockDeleted   EventType = "block.deleted"
	EventItemCreated    EventType = "item.created"
	EventItemUpdated    EventType = "item.updated"
	EventItemArchived   EventType = "item.archived"
	EventItemRestored   EventType = "item.restored"
	EventItemDeleted    EventType = "item.deleted"
	EventFolderCreated  EventType = "folder.created"
	EventFolderUpdated  EventType = "folder.updated"
	EventFolderArchived EventType = "folder.archived"
	EventFolderRestored EventType = "folder.restored"
	EventFolderDeleted  EventType = "folder.deleted"
	EventSettingsUpdate EventType = "settings.updated"
	EventSidebarToggled EventType = "sidebar.toggled"
	EventStateImported  EventType = "state.imported"
	EventStateRestored  EventType = "state.restored"
)

// Event describes one committed mutation.
type Event struct {
	Type     EventType
	EntityID string
	At       time.Time
}

// EventEmitter receives committed mutations, e.g. to refresh a view.
type EventEmitter interface {
	Emit(Event)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter as a no-op.
func (NoopEmitter) Emit(Event) {}

// SearchIndexer keeps a search index in step with the live boards.
type SearchIndexer interface {
	IndexBoard(ctx context.Context, board domain.Board) error
	DeleteBoard(ctx context.Context, boardID string) error
	Reindex(ctx context.Context, boards []domain.Board) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexBoard is a no-op.
func (NoopSearchIndexer) IndexBoard(context.Context, domain.Board) error { return nil }

// DeleteBoard is a no-op.
func (NoopSearchIndexer) DeleteBoard(context.Context, string) error { return nil }

// Reindex is a no-op.
func (NoopSearchIndexer) Reindex(context.Context, []domain.Board) error { return nil }

// effects collects the side effects of one mutation so they can be delivered
// after the store lock is released.
type effects struct {
	notices []Notice
	events  []Event
	index   []domain.Board
	unindex []string
	reindex bool

	// release holds file URLs that no live or archived item refers to.
	release []string
	// sweep, when set, holds every referenced file URL; stored files outside
	// it are released.
	sweep map[string]bool

	// rescheduleAutosave is set when the autosave period may have changed.
	rescheduleAutosave bool
}

func (fx *effects) notify(level Level, code domainerrors.Code, msg string) {
	fx.notices = append(fx.notices, Notice{Level: level, Code: code, Message: msg})
}

func (fx *effects) emit(t EventType, entityID string, at time.Time) {
	fx.events = append(fx.events, Event{Type: t, EntityID: entityID, At: at})
}

// touchBoard queues a board for re-indexing. The board is cloned so the
// indexer sees the state as of this mutation.
func (fx *effects) touchBoard(b domain.Board) {
	fx.index = append(fx.index, b.Clone())
}

// deliver runs the collected side effects. Must be called without s.mu held.
func (s *Store) deliver(fx *effects) {
	s.failMu.Lock()
	failures := s.failures
	s.failures = nil
	s.failMu.Unlock()

	for _, n := range fx.notices {
		s.notifier.Notify(n)
	}
	for _, n := range failures {
		s.notifier.Notify(n)
	}
	for _, e := range fx.events {
		s.emitter.Emit(e)
	}
	if fx.rescheduleAutosave {
		s.restartAutosave()
	}

	s.releaseFiles(fx.release)
	if fx.sweep != nil {
		s.sweepFiles(fx.sweep)
	}

	ctx := context.Background()
	if fx.reindex {
		if err := s.indexer.Reindex(ctx, s.LiveBoards()); err != nil {
			s.logger.Warn("failed to rebuild search index", "error", err)
		}
		return
	}
	for _, id := range fx.unindex {
		if err := s.indexer.DeleteBoard(ctx, id); err != nil {
			s.logger.Warn("failed to remove board from search", "board_id", id, "error", err)
		}
	}
	for _, b := range fx.index {
		var err error
		if b.Archived {
			err = s.indexer.DeleteBoard(ctx, b.ID)
		} else {
			err = s.indexer.IndexBoard(ctx, b)
		}
		if err != nil {
			s.logger.Warn("failed to index board for search", "board_id", b.ID, "error", err)
		}
	}
}
