package cli

import (
	"errors"
	"strings"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/listenupapp/corkboard/internal/config"
	"github.com/listenupapp/corkboard/internal/di/providers"
	"github.com/listenupapp/corkboard/internal/search"
)

func newSearchCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over live boards and items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			return app.withWorkspace(cmd, func(s *session) error {
				if !do.MustInvoke[*config.Config](s.injector).Search.Enabled {
					return errors.New("search is disabled")
				}
				index := do.MustInvoke[*providers.SearchIndexHandle](s.injector)
				hits, err := index.Search(background(cmd), q, limit)
				if err != nil {
					return err
				}
				if hits == nil {
					hits = []search.Hit{}
				}
				return writeOut(cmd, app, hits)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", search.DefaultLimit, "Maximum number of hits")
	return cmd
}
