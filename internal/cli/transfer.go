package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole workspace as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				data, err := s.ws.ExportData()
				if err != nil {
					return err
				}
				if out == "" {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), data)
					return err
				}
				if err := os.WriteFile(out, []byte(data), 0o600); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				return writeOut(cmd, app, map[string]any{"path": out, "bytes": len(data)})
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "File to write (stdout when empty)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the workspace with an export file",
		Long:  "Replace the workspace with an export file. A version is saved before and after, so the import can be undone with versions restore.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0]) //#nosec G304 -- importing a user-chosen file is the point
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withWorkspace(cmd, func(s *session) error {
				if !s.ws.ImportData(string(data)) {
					return errors.New("import rejected: file is not a corkboard export")
				}
				return writeOut(cmd, app, map[string]any{
					"boards":  len(s.ws.Boards()),
					"folders": len(s.ws.Folders()),
				})
			})
		},
	}
}

func newVersionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List, save and restore workspace snapshots",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				type entry struct {
					ID          string `json:"id"`
					Timestamp   string `json:"timestamp"`
					Description string `json:"description"`
				}
				list := []entry{}
				for _, v := range s.ws.Versions() {
					list = append(list, entry{ID: v.ID, Timestamp: v.Timestamp.Format("2006-01-02 15:04:05"), Description: v.Description})
				}
				return writeOut(cmd, app, list)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save <description>",
		Short: "Save a snapshot now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				v := s.ws.SaveVersion(args[0])
				return writeOut(cmd, app, map[string]any{"id": v.ID, "description": v.Description})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <version-id>",
		Short: "Overwrite the workspace with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				if !s.ws.RestoreVersion(args[0]) {
					return fmt.Errorf("version %s could not be restored", args[0])
				}
				return writeOut(cmd, app, map[string]any{"id": args[0], "ok": true})
			})
		},
	})

	return cmd
}
