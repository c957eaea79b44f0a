package workspace

import (
	"github.com/listenupapp/corkboard/internal/domain"
)

// UpdateSettings shallow-merges patch into the current settings. An invalid
// theme is coerced to light. A changed autosave interval restarts autosave.
func (s *Store) UpdateSettings(patch domain.SettingsPatch) domain.Settings {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.settings
	s.settings = patch.Apply(prev)
	s.docs.SaveSettings(s.settings)

	fx.rescheduleAutosave = prev.AutoSaveInterval != s.settings.AutoSaveInterval
	fx.emit(EventSettingsUpdate, "", s.now())
	s.logger.Debug("settings updated", "theme", s.settings.Theme, "autosave_interval", s.settings.AutoSaveInterval)
	return s.settings
}
