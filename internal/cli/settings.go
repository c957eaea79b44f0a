package cli

import (
	"github.com/spf13/cobra"

	"github.com/listenupapp/corkboard/internal/domain"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change workspace settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withWorkspace(cmd, func(s *session) error {
				return writeOut(cmd, app, s.ws.Settings())
			})
		},
	})

	var (
		theme     string
		wallpaper string
		autosave  int
		width     int
		height    int
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change settings; unset flags are left as they are",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.SettingsPatch
			flags := cmd.Flags()
			if flags.Changed("theme") {
				t := domain.Theme(theme)
				patch.Theme = &t
			}
			if flags.Changed("wallpaper") {
				patch.DefaultWallpaper = &wallpaper
			}
			if flags.Changed("autosave") {
				patch.AutoSaveInterval = &autosave
			}
			if flags.Changed("block-width") {
				patch.DefaultBlockWidth = &width
			}
			if flags.Changed("block-height") {
				patch.DefaultBlockHeight = &height
			}
			return app.withWorkspace(cmd, func(s *session) error {
				return writeOut(cmd, app, s.ws.UpdateSettings(patch))
			})
		},
	}
	set.Flags().StringVar(&theme, "theme", "", "light or dark")
	set.Flags().StringVar(&wallpaper, "wallpaper", "", "Default wallpaper for new boards")
	set.Flags().IntVar(&autosave, "autosave", 0, "Autosave period in seconds")
	set.Flags().IntVar(&width, "block-width", 0, "Default block width")
	set.Flags().IntVar(&height, "block-height", 0, "Default block height")
	cmd.AddCommand(set)

	return cmd
}
