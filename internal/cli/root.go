// Package cli implements the corkboard command line on top of the workspace store.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/listenupapp/corkboard/internal/config"
	"github.com/listenupapp/corkboard/internal/di"
	"github.com/listenupapp/corkboard/internal/di/providers"
	"github.com/listenupapp/corkboard/internal/logger"
)

// App carries global flags shared by every command.
type App struct {
	Flags  config.Flags
	Pretty bool
}

// NewRootCmd builds the corkboard command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "corkboard",
		Short:        "Local-first boards, blocks and cards",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Keep the workspace open with autosave until interrupted
  corkboard serve

  # Scriptable commands
  corkboard boards list
  corkboard cards create <block-id> "Fix login bug"
  corkboard export --out backup.json
`),
	}

	cmd.PersistentFlags().AddGoFlagSet(config.NewFlagSet("corkboard", &app.Flags))
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newBoardsCmd(app))
	cmd.AddCommand(newBlocksCmd(app))
	cmd.AddCommand(newCardsCmd(app))
	cmd.AddCommand(newNotesCmd(app))
	cmd.AddCommand(newSheetsCmd(app))
	cmd.AddCommand(newFilesCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newFoldersCmd(app))
	cmd.AddCommand(newSettingsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newVersionsCmd(app))
	cmd.AddCommand(newSearchCmd(app))

	return cmd
}

// session is an open workspace for the duration of one command.
type session struct {
	injector *do.RootScope
	ws       *providers.WorkspaceHandle
	log      *logger.Logger
}

// open resolves configuration and bootstraps the container.
func (app *App) open() (*session, error) {
	cfg, err := app.Flags.Resolve()
	if err != nil {
		return nil, err
	}

	injector := di.NewContainer(cfg)
	if err := di.Bootstrap(injector); err != nil {
		_ = injector.Shutdown()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &session{
		injector: injector,
		ws:       di.Workspace(injector),
		log:      do.MustInvoke[*logger.Logger](injector),
	}, nil
}

// close flushes the workspace and releases storage.
func (s *session) close() {
	if err := s.injector.Shutdown(); err != nil {
		s.log.WithError(err).Error("Shutdown error")
	}
}

// withWorkspace runs fn against an open workspace and closes it afterwards.
func (app *App) withWorkspace(cmd *cobra.Command, fn func(s *session) error) error {
	s, err := app.open()
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.close()

	if err := fn(s); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
