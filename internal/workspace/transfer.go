package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/listenupapp/corkboard/internal/domain"
	domainerrors "github.com/listenupapp/corkboard/internal/errors"
)

// ExportFormatVersion is written to every export and accepted on import.
const ExportFormatVersion = "1.0.0"

// exportDocument is the export/import file layout.
type exportDocument struct {
	Boards     []domain.Board  `json:"boards"`
	Folders    []domain.Folder `json:"folders"`
	Settings   domain.Settings `json:"settings"`
	Archived   domain.Archive  `json:"archived"`
	Version    string          `json:"version"`
	ExportDate time.Time       `json:"exportDate"`
}

// importDocument is the subset of an export that is checked before decoding.
type importDocument struct {
	Boards   json.RawMessage `json:"boards"`
	Folders  json.RawMessage `json:"folders"`
	Settings json.RawMessage `json:"settings"`
	Archived json.RawMessage `json:"archived"`
}

// importPayload is the decoded import, validated as a whole.
type importPayload struct {
	Boards  []domain.Board  `json:"boards" validate:"dive"`
	Folders []domain.Folder `json:"folders" validate:"dive"`
}

// ExportData serializes the workspace to the export file format.
func (s *Store) ExportData() (string, error) {
	s.mu.Lock()
	doc := exportDocument{
		Boards:     domain.CloneBoards(s.boards),
		Folders:    domain.CloneFolders(s.folders),
		Settings:   s.settings,
		Archived:   s.archived.Clone().Normalize(),
		Version:    ExportFormatVersion,
		ExportDate: s.now(),
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "could not export workspace")
	}
	return string(data), nil
}

// ImportData replaces the workspace with an export. It returns false and
// leaves everything untouched unless boards and folders are lists and
// settings is an object. Snapshots are taken before and after a successful import.
func (s *Store) ImportData(data string) bool {
	var fx effects
	defer s.deliver(&fx)

	st, err := s.decodeImport(data)
	if err != nil {
		s.logger.Warn("import rejected", "error", err)
		s.reject(&fx, err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.guard(opImport, "")

	fx.rescheduleAutosave = s.settings.AutoSaveInterval != st.Settings.AutoSaveInterval
	s.boards = st.Boards
	s.folders = st.Folders
	s.settings = st.Settings
	s.archived = st.Archived
	s.docs.SaveAll(s.state())
	s.currentBoardID = s.firstLiveBoardLocked()

	s.guard(opImportApplied, "")

	fx.reindex = true
	fx.emit(EventStateImported, "", s.now())
	fx.notify(LevelSuccess, "", fmt.Sprintf("Imported %d boards and %d folders", len(st.Boards), len(st.Folders)))
	s.logger.Info("workspace imported", "boards", len(st.Boards), "folders", len(st.Folders))
	return true
}

// decodeImport parses and checks an import without touching the store.
func (s *Store) decodeImport(data string) (importedState, error) {
	var doc importDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return importedState{}, domainerrors.InvalidImportFormat("import is not valid JSON")
	}
	if !isJSON(doc.Boards, '[') || !isJSON(doc.Folders, '[') || !isJSON(doc.Settings, '{') {
		return importedState{}, domainerrors.InvalidImportFormat("import must contain boards and folders lists and a settings object")
	}

	var payload importPayload
	if err := json.Unmarshal(doc.Boards, &payload.Boards); err != nil {
		return importedState{}, domainerrors.InvalidImportFormat("boards: " + err.Error())
	}
	if err := json.Unmarshal(doc.Folders, &payload.Folders); err != nil {
		return importedState{}, domainerrors.InvalidImportFormat("folders: " + err.Error())
	}
	if err := s.validator.Validate(payload); err != nil {
		var domErr *domainerrors.Error
		if domainerrors.As(err, &domErr) {
			return importedState{}, domainerrors.InvalidImportFormat("import failed validation").WithDetails(domErr.Details)
		}
		return importedState{}, domainerrors.InvalidImportFormat(err.Error())
	}

	settings := domain.DefaultSettings()
	if err := json.Unmarshal(doc.Settings, &settings); err != nil {
		return importedState{}, domainerrors.InvalidImportFormat("settings: " + err.Error())
	}

	// The archive is optional; a missing or unreadable one imports as empty.
	archive := domain.EmptyArchive()
	if isJSON(doc.Archived, '{') {
		var a domain.Archive
		if err := json.Unmarshal(doc.Archived, &a); err == nil {
			archive = a
		} else {
			s.logger.Warn("ignoring unreadable archive in import", "error", err)
		}
	}

	return importedState{
		Boards:   orEmpty(payload.Boards),
		Folders:  orEmpty(payload.Folders),
		Settings: settings.Normalize(),
		Archived: archive.Normalize(),
	}, nil
}

type importedState struct {
	Boards   []domain.Board
	Folders  []domain.Folder
	Settings domain.Settings
	Archived domain.Archive
}

// RestoreVersion overwrites the workspace with a stored snapshot and reloads it.
func (s *Store) RestoreVersion(versionID string) bool {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.versions.RestoreVersion(versionID) {
		fx.notify(LevelError, domainerrors.CodeNotFound, "Version "+versionID+" could not be restored")
		return false
	}

	st := s.docs.LoadAll()
	fx.rescheduleAutosave = s.settings.AutoSaveInterval != st.Settings.AutoSaveInterval
	s.boards = st.Boards
	s.folders = st.Folders
	s.settings = st.Settings
	s.archived = st.Archived
	if s.liveBoardIndex(s.currentBoardID) < 0 {
		s.currentBoardID = s.firstLiveBoardLocked()
	}

	fx.reindex = true
	fx.emit(EventStateRestored, versionID, s.now())
	fx.notify(LevelSuccess, "", "Workspace restored")
	s.logger.Info("workspace restored from version", "version_id", versionID)
	return true
}

// SaveVersion records a manual snapshot of the current state.
func (s *Store) SaveVersion(description string) domain.Version {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs.SaveAll(s.state())
	return s.versions.SaveCurrentStateAsVersion(description)
}

// isJSON reports whether raw is present and starts with the given delimiter.
func isJSON(raw json.RawMessage, delim byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == delim
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clip(in)
}
