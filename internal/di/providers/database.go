package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/corkboard/internal/config"
	"github.com/listenupapp/corkboard/internal/logger"
	"github.com/listenupapp/corkboard/internal/storage"
	"github.com/listenupapp/corkboard/internal/versions"
)

// DocumentsHandle wraps the persistence adapter with shutdown capability.
type DocumentsHandle struct {
	*storage.Adapter
}

// Shutdown implements do.Shutdownable.
func (h *DocumentsHandle) Shutdown() error {
	return h.Close()
}

// ProvideDocuments opens the configured key-value backend and wraps it in the
// persistence adapter.
func ProvideDocuments(i do.Injector) (*DocumentsHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := cfg.DatabasePath()
	var (
		kv  storage.KV
		err error
	)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		kv, err = storage.OpenSQLite(path, log.WithComponent("sqlite"))
	default:
		kv, err = storage.OpenBadger(path, log.WithComponent("badger"))
	}
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "backend", cfg.Storage.Backend, "path", path)

	return &DocumentsHandle{Adapter: storage.NewAdapter(kv, log.WithComponent("storage"))}, nil
}

// ProvideVersions provides the version snapshot store.
func ProvideVersions(i do.Injector) (*versions.Store, error) {
	docs := do.MustInvoke[*DocumentsHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return versions.New(docs.Adapter, log.WithComponent("versions")), nil
}
