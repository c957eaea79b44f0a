package cli

import (
	"github.com/spf13/cobra"

	"github.com/listenupapp/corkboard/internal/workspace"
)

func newFoldersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Organize boards into folders",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				return writeOut(cmd, app, s.ws.Folders())
			})
		},
	})

	var parent string
	create := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return app.withWorkspace(cmd, func(s *session) error {
				f, err := s.ws.CreateFolder(name, parent)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, f)
			})
		},
	}
	create.Flags().StringVar(&parent, "parent", "", "Parent folder id")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <folder-id> <name>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				f, err := s.ws.UpdateFolder(args[0], workspace.FolderPatch{Name: &args[1]})
				if err != nil {
					return err
				}
				return writeOut(cmd, app, f)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <folder-id> <board-id>",
		Short: "Move a board into a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				f, err := s.ws.MoveBoardToFolder(args[1], args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, f)
			})
		},
	})

	cmd.AddCommand(idCmd(app, "remove <board-id>", "Take a board out of its folder", func(s *session, id string) error {
		return s.ws.RemoveBoardFromFolder(id)
	}))
	cmd.AddCommand(idCmd(app, "toggle <folder-id>", "Expand or collapse a folder", func(s *session, id string) error {
		_, err := s.ws.ToggleFolderExpanded(id)
		return err
	}))
	cmd.AddCommand(idCmd(app, "archive <folder-id>", "Archive a folder", func(s *session, id string) error {
		return s.ws.ArchiveFolder(id)
	}))
	cmd.AddCommand(idCmd(app, "restore <folder-id>", "Restore an archived folder", func(s *session, id string) error {
		return s.ws.RestoreFolder(id)
	}))
	cmd.AddCommand(idCmd(app, "delete <folder-id>", "Delete a folder; its subfolders move up", func(s *session, id string) error {
		return s.ws.DeleteFolder(id)
	}))

	var to string
	move := &cobra.Command{
		Use:   "move <folder-id>",
		Short: "Nest a folder under another, or at the top level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				if err := s.ws.MoveFolder(args[0], to); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"id": args[0], "parentId": to})
			})
		},
	}
	move.Flags().StringVar(&to, "to", "", "New parent folder id (empty for top level)")
	cmd.AddCommand(move)

	return cmd
}
