// Package di provides dependency injection configuration for the corkboard process.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/corkboard/internal/config"
	"github.com/listenupapp/corkboard/internal/di/providers"
	"github.com/listenupapp/corkboard/internal/logger"
	"github.com/listenupapp/corkboard/internal/media"
	"github.com/listenupapp/corkboard/internal/versions"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideDocuments)
	do.Provide(injector, providers.ProvideVersions)
	do.Provide(injector, providers.ProvideFileResolver)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Workspace
	do.Provide(injector, providers.ProvideWorkspace)

	// Workers
	do.Provide(injector, providers.ProvideAutosaveJob)

	return injector
}

// Bootstrap loads the workspace and everything it depends on. Workers are
// started separately by long-running commands.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.DocumentsHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*versions.Store](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*media.Resolver](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.WorkspaceHandle](injector); err != nil {
		return err
	}
	return nil
}

// Workspace returns the bootstrapped workspace store.
func Workspace(injector do.Injector) *providers.WorkspaceHandle {
	return do.MustInvoke[*providers.WorkspaceHandle](injector)
}

// StartWorkers starts the background jobs of a long-running process.
func StartWorkers(injector do.Injector) error {
	_, err := do.Invoke[*providers.AutosaveJob](injector)
	return err
}
