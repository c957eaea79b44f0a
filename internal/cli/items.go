package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/listenupapp/corkboard/internal/domain"
	"github.com/listenupapp/corkboard/internal/media"
	"github.com/listenupapp/corkboard/internal/workspace"
)

func newCardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Create and update cards",
	}

	var draft workspace.CardDraft
	var due string
	create := &cobra.Command{
		Use:   "create <block-id> <title>",
		Short: "Add a card to a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.Title = args[1]
			if due != "" {
				t, err := time.Parse(time.RFC3339, due)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("invalid due date %q: %w", due, err))
				}
				draft.DueDate = &t
			}
			return app.withWorkspace(cmd, func(s *session) error {
				c, err := s.ws.CreateCard(args[0], draft)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, c)
			})
		},
	}
	create.Flags().StringVar(&draft.Description, "description", "", "Card description (HTML is converted to markdown)")
	create.Flags().StringSliceVar(&draft.Checklist, "check", nil, "Checklist entry (repeatable)")
	create.Flags().StringSliceVar(&draft.Labels, "label", nil, "Label (repeatable)")
	create.Flags().StringVar(&draft.Cover, "cover", "", "Cover color or image URL")
	create.Flags().StringVar(&due, "due", "", "Due date (RFC 3339)")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <card-id>",
		Short: "Flip a card between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				c, err := s.ws.ToggleCardStatus(args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, c)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check <card-id> <checklist-id>",
		Short: "Toggle a checklist entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				c, err := s.ws.ToggleChecklistItem(args[0], args[1])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, c)
			})
		},
	})

	return cmd
}

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Create markdown notes",
	}

	var html bool
	create := &cobra.Command{
		Use:   "create <block-id> <content>",
		Short: "Add a markdown note to a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				var (
					n   *domain.MarkdownNote
					err error
				)
				if html {
					n, err = s.ws.CreateMarkdownNoteFromHTML(args[0], args[1])
				} else {
					n, err = s.ws.CreateMarkdownNote(args[0], args[1])
				}
				if err != nil {
					return err
				}
				return writeOut(cmd, app, n)
			})
		},
	}
	create.Flags().BoolVar(&html, "html", false, "Content is HTML to convert")
	cmd.AddCommand(create)

	return cmd
}

func newFilesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Import files into blocks",
	}

	var mimeType string
	add := &cobra.Command{
		Use:   "add <block-id> <path>",
		Short: "Import a file as a file item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1]) //#nosec G304 -- importing a user-chosen file is the point
			if err != nil {
				return writeErr(cmd, err)
			}
			src := media.Source{Name: filepath.Base(args[1]), Type: mimeType, Data: data}

			return app.withWorkspace(cmd, func(s *session) error {
				ctx := background(cmd)
				f, err := s.ws.ImportFile(ctx, args[0], src).Wait(ctx)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, f)
			})
		},
	}
	add.Flags().StringVar(&mimeType, "type", "", "MIME type (sniffed when empty)")
	cmd.AddCommand(add)

	return cmd
}

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Archive, restore, delete and move items of any kind",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <item-id>",
		Short: "Print a live item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				it, ok := s.ws.Item(args[0])
				if !ok {
					return fmt.Errorf("item %s not found", args[0])
				}
				return writeOut(cmd, app, it)
			})
		},
	})

	cmd.AddCommand(idCmd(app, "archive <item-id>", "Archive an item", func(s *session, id string) error {
		return s.ws.ArchiveItem(id)
	}))
	cmd.AddCommand(idCmd(app, "restore <item-id>", "Restore an archived item", func(s *session, id string) error {
		return s.ws.RestoreItem(id)
	}))
	cmd.AddCommand(idCmd(app, "delete <item-id>", "Delete an item permanently", func(s *session, id string) error {
		return s.ws.DeleteItem(id)
	}))

	cmd.AddCommand(&cobra.Command{
		Use:   "move <item-id> <block-id> <index>",
		Short: "Move an item to a position in a block",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withWorkspace(cmd, func(s *session) error {
				it, err := s.ws.MoveItem(args[0], args[1], index)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, it)
			})
		},
	})

	return cmd
}

func newSheetsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Create spreadsheets",
	}

	var columns []string
	create := &cobra.Command{
		Use:   "create <block-id> <title>",
		Short: "Add a spreadsheet to a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cols []domain.SheetColumn
			for _, name := range columns {
				cols = append(cols, domain.SheetColumn{Name: name, Type: domain.ColumnText})
			}
			return app.withWorkspace(cmd, func(s *session) error {
				sh, err := s.ws.CreateSpreadsheet(args[0], args[1], cols)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, sh)
			})
		},
	}
	create.Flags().StringSliceVar(&columns, "column", nil, "Text column name (repeatable; defaults apply when omitted)")
	cmd.AddCommand(create)

	return cmd
}
