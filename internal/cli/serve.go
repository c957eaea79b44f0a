package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/listenupapp/corkboard/internal/di"
)

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Keep the workspace open with autosave until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				if err := di.StartWorkers(s.injector); err != nil {
					return err
				}

				ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
				defer stop()

				s.log.Info("Workspace open", "boards", len(s.ws.LiveBoards()))
				<-ctx.Done()
				s.log.Info("Shutting down gracefully...")
				return nil
			})
		},
	}
}

// background returns the command context, or a background one when unset.
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
