package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/corkboard/internal/config"
	"github.com/listenupapp/corkboard/internal/logger"
	"github.com/listenupapp/corkboard/internal/media"
	"github.com/listenupapp/corkboard/internal/versions"
	"github.com/listenupapp/corkboard/internal/workspace"
)

// WorkspaceHandle wraps the workspace store with shutdown capability.
type WorkspaceHandle struct {
	*workspace.Store
	logger *slog.Logger
}

// Shutdown implements do.Shutdownable. It flushes the workspace to storage.
func (h *WorkspaceHandle) Shutdown() error {
	done := make(chan error, 1)
	go func() { done <- h.Close() }()

	select {
	case err := <-done:
		return err
	case <-time.After(shutdownTimeout):
		h.logger.Error("Timed out waiting for final save", "timeout", shutdownTimeout)
		return context.DeadlineExceeded
	}
}

// ProvideWorkspace builds the single workspace store for the process and
// loads it from storage.
func ProvideWorkspace(i do.Injector) (*WorkspaceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	docs := do.MustInvoke[*DocumentsHandle](i)
	vs := do.MustInvoke[*versions.Store](i)
	resolver := do.MustInvoke[*media.Resolver](i)

	wsLog := log.WithComponent("workspace")
	opts := []workspace.Option{
		workspace.WithLogger(wsLog),
		workspace.WithNotifier(NoticeLog{logger: wsLog}),
		workspace.WithEmitter(EventLog{logger: wsLog}),
		workspace.WithFileResolver(resolver),
	}
	if cfg.Autosave.Interval > 0 {
		opts = append(opts, workspace.WithAutosaveInterval(cfg.Autosave.Interval))
	}
	if cfg.Search.Enabled {
		index := do.MustInvoke[*SearchIndexHandle](i)
		opts = append(opts, workspace.WithSearchIndexer(index.Index))
	}

	store := workspace.New(docs.Adapter, vs, opts...)
	store.Load()

	if cfg.Search.Enabled {
		index := do.MustInvoke[*SearchIndexHandle](i)
		count, _ := index.DocumentCount()
		log.Info("Search index initialized", "documents", count)
	}

	return &WorkspaceHandle{Store: store, logger: wsLog}, nil
}

// NoticeLog writes workspace notices to the log.
type NoticeLog struct {
	logger *slog.Logger
}

// Notify implements workspace.Notifier.
func (n NoticeLog) Notify(notice workspace.Notice) {
	level := slog.LevelInfo
	switch notice.Level {
	case workspace.LevelWarning:
		level = slog.LevelWarn
	case workspace.LevelError:
		level = slog.LevelError
	}
	attrs := []any{"level_name", string(notice.Level)}
	if notice.Code != "" {
		attrs = append(attrs, "code", string(notice.Code))
	}
	n.logger.Log(context.Background(), level, notice.Message, attrs...)
}

// EventLog writes change events to the debug log.
type EventLog struct {
	logger *slog.Logger
}

// Emit implements workspace.EventEmitter.
func (e EventLog) Emit(ev workspace.Event) {
	e.logger.Debug("workspace event", "type", string(ev.Type), "entity_id", ev.EntityID)
}
