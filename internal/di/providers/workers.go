package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/corkboard/internal/logger"
)

// AutosaveJob runs the workspace autosave loop for long-lived processes.
type AutosaveJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *AutosaveJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideAutosaveJob starts autosave on the workspace. One-shot commands do
// not invoke it; their changes are flushed by the workspace on shutdown.
func ProvideAutosaveJob(i do.Injector) (*AutosaveJob, error) {
	ws := do.MustInvoke[*WorkspaceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	ws.StartAutosave(ctx)

	log.Info("Autosave started", "interval", ws.AutosaveInterval())

	return &AutosaveJob{cancel: cancel}, nil
}
