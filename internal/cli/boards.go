package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/listenupapp/corkboard/internal/domain"
	"github.com/listenupapp/corkboard/internal/workspace"
)

func newBoardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List and manage boards",
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				boards := s.ws.LiveBoards()
				if all {
					boards = s.ws.Boards()
				}
				return writeOut(cmd, app, map[string]any{
					"data": boards,
					"meta": map[string]any{"currentBoardId": s.ws.CurrentBoardID()},
				})
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "Include archived boards")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a board and select it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return app.withWorkspace(cmd, func(s *session) error {
				b, err := s.ws.CreateBoard(name)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, b)
			})
		},
	})

	var wallpaper string
	update := &cobra.Command{
		Use:   "update <board-id> [name]",
		Short: "Rename a board or change its wallpaper",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch workspace.BoardPatch
			if len(args) == 2 {
				patch.Name = &args[1]
			}
			if cmd.Flags().Changed("wallpaper") {
				patch.Wallpaper = &wallpaper
			}
			return app.withWorkspace(cmd, func(s *session) error {
				b, err := s.ws.UpdateBoard(args[0], patch)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, b)
			})
		},
	}
	update.Flags().StringVar(&wallpaper, "wallpaper", "", "Hex color or image URL")
	cmd.AddCommand(update)

	cmd.AddCommand(idCmd(app, "archive <board-id>", "Archive a board", func(s *session, id string) error {
		return s.ws.ArchiveBoard(id)
	}))
	cmd.AddCommand(idCmd(app, "restore <board-id>", "Restore an archived board", func(s *session, id string) error {
		return s.ws.RestoreBoard(id)
	}))
	cmd.AddCommand(idCmd(app, "delete <board-id>", "Delete a board permanently", func(s *session, id string) error {
		return s.ws.DeleteBoard(id)
	}))
	cmd.AddCommand(idCmd(app, "pin <board-id>", "Pin a board", func(s *session, id string) error {
		_, err := s.ws.PinBoard(id)
		return err
	}))
	cmd.AddCommand(idCmd(app, "unpin <board-id>", "Unpin a board", func(s *session, id string) error {
		_, err := s.ws.UnpinBoard(id)
		return err
	}))

	cmd.AddCommand(&cobra.Command{
		Use:   "duplicate <board-id>",
		Short: "Copy a board with all its blocks and items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				b, err := s.ws.DuplicateBoard(args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, b)
			})
		},
	})

	return cmd
}

func newBlocksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Manage the blocks of a board",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <board-id> <name>",
		Short: "Append a block to a board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				bl, err := s.ws.CreateBlock(args[0], args[1])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, bl)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <block-id> <name>",
		Short: "Rename a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				bl, err := s.ws.UpdateBlock(args[0], workspace.BlockPatch{Name: &args[1]})
				if err != nil {
					return err
				}
				return writeOut(cmd, app, bl)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "move <block-id> <index>",
		Short: "Move a block to a position on its board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withWorkspace(cmd, func(s *session) error {
				b, err := s.ws.MoveBlock(args[0], index)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, blockSummaries(b))
			})
		},
	})

	cmd.AddCommand(idCmd(app, "archive <block-id>", "Archive a block with its items", func(s *session, id string) error {
		return s.ws.ArchiveBlock(id)
	}))
	cmd.AddCommand(idCmd(app, "restore <block-id>", "Restore an archived block", func(s *session, id string) error {
		return s.ws.RestoreBlock(id)
	}))
	cmd.AddCommand(idCmd(app, "delete <block-id>", "Delete a block permanently", func(s *session, id string) error {
		return s.ws.DeleteBlock(id)
	}))

	return cmd
}

// idCmd builds a command that applies op to a single id and prints it back.
func idCmd(app *App, use, short string, op func(s *session, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				if err := op(s, args[0]); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"id": args[0], "ok": true})
			})
		},
	}
}

type blockSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
	Items int    `json:"items"`
}

func blockSummaries(b domain.Board) []blockSummary {
	out := make([]blockSummary, 0, len(b.Blocks))
	for _, bl := range b.SortedBlocks() {
		out = append(out, blockSummary{ID: bl.ID, Name: bl.Name, Order: bl.Order, Items: len(bl.Items)})
	}
	return out
}
