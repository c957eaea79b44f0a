package domain

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a supported theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// CoerceTheme maps anything other than light or dark to light.
func CoerceTheme(t Theme) Theme {
	if t.Valid() {
		return t
	}
	return ThemeLight
}

// ScrollOrientation is the direction blocks scroll in a board.
type ScrollOrientation string

const (
	ScrollHorizontal ScrollOrientation = "horizontal"
	ScrollVertical   ScrollOrientation = "vertical"
)

// MinAutoSaveInterval is the smallest autosave period, in seconds, the workspace will honor.
const MinAutoSaveInterval = 5

// Settings is the process-wide preferences document.
type Settings struct {
	Theme               Theme             `json:"theme"`
	DefaultWallpaper    string            `json:"defaultWallpaper,omitempty"`
	ScrollOrientation   ScrollOrientation `json:"scrollOrientation"`
	BlockAutoAdjust     bool              `json:"blockAutoAdjust"`
	EditInWorkspace     bool              `json:"editInWorkspace"`
	DefaultBlockWidth   int               `json:"defaultBlockWidth"`
	DefaultBlockHeight  int               `json:"defaultBlockHeight"`
	AutoSaveInterval    int               `json:"autoSaveInterval"`
	HorizontalAlignment bool              `json:"horizontalAlignment"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		Theme:               ThemeLight,
		ScrollOrientation:   ScrollHorizontal,
		BlockAutoAdjust:     true,
		EditInWorkspace:     false,
		DefaultBlockWidth:   300,
		DefaultBlockHeight:  500,
		AutoSaveInterval:    30,
		HorizontalAlignment: true,
	}
}

// Normalize coerces invalid enum values and fills non-positive dimensions from defaults.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	s.Theme = CoerceTheme(s.Theme)
	if s.ScrollOrientation != ScrollHorizontal && s.ScrollOrientation != ScrollVertical {
		s.ScrollOrientation = def.ScrollOrientation
	}
	if s.DefaultBlockWidth <= 0 {
		s.DefaultBlockWidth = def.DefaultBlockWidth
	}
	if s.DefaultBlockHeight <= 0 {
		s.DefaultBlockHeight = def.DefaultBlockHeight
	}
	if s.AutoSaveInterval <= 0 {
		s.AutoSaveInterval = def.AutoSaveInterval
	}
	return s
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	Theme               *Theme             `json:"theme,omitempty"`
	DefaultWallpaper    *string            `json:"defaultWallpaper,omitempty"`
	ScrollOrientation   *ScrollOrientation `json:"scrollOrientation,omitempty"`
	BlockAutoAdjust     *bool              `json:"blockAutoAdjust,omitempty"`
	EditInWorkspace     *bool              `json:"editInWorkspace,omitempty"`
	DefaultBlockWidth   *int               `json:"defaultBlockWidth,omitempty"`
	DefaultBlockHeight  *int               `json:"defaultBlockHeight,omitempty"`
	AutoSaveInterval    *int               `json:"autoSaveInterval,omitempty"`
	HorizontalAlignment *bool              `json:"horizontalAlignment,omitempty"`
}

// Apply shallow-merges p into s. An invalid theme is coerced to light before the merge.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Theme != nil {
		s.Theme = CoerceTheme(*p.Theme)
	}
	if p.DefaultWallpaper != nil {
		s.DefaultWallpaper = *p.DefaultWallpaper
	}
	if p.ScrollOrientation != nil {
		s.ScrollOrientation = *p.ScrollOrientation
	}
	if p.BlockAutoAdjust != nil {
		s.BlockAutoAdjust = *p.BlockAutoAdjust
	}
	if p.EditInWorkspace != nil {
		s.EditInWorkspace = *p.EditInWorkspace
	}
	if p.DefaultBlockWidth != nil {
		s.DefaultBlockWidth = *p.DefaultBlockWidth
	}
	if p.DefaultBlockHeight != nil {
		s.DefaultBlockHeight = *p.DefaultBlockHeight
	}
	if p.AutoSaveInterval != nil {
		s.AutoSaveInterval = *p.AutoSaveInterval
	}
	if p.HorizontalAlignment != nil {
		s.HorizontalAlignment = *p.HorizontalAlignment
	}
	return s
}
