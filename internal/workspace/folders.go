package workspace

import (
	"slices"
	"strings"

	"github.com/listenupapp/corkboard/internal/domain"
	domainerrors "github.com/listenupapp/corkboard/internal/errors"
	"github.com/listenupapp/corkboard/internal/id"
)

const defaultFolderName = "New Folder"

// FolderPatch is a partial folder update.
type FolderPatch struct {
	Name     *string `json:"name,omitempty"`
	Expanded *bool   `json:"expanded,omitempty"`
}

// CreateFolder adds a folder, nested under parentID when it is not empty.
func (s *Store) CreateFolder(name, parentID string) (domain.Folder, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	pi := -1
	if parentID != "" {
		if pi = s.liveFolderIndex(parentID); pi < 0 {
			return domain.Folder{}, s.notFound(&fx, "folder %s not found", parentID)
		}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultFolderName
	}

	folderID, err := s.newID(id.PrefixFolder)
	if err != nil {
		return domain.Folder{}, s.reject(&fx, err)
	}
	now := s.now()
	f := domain.Folder{
		ID:           folderID,
		Name:         name,
		BoardIDs:     []string{},
		SubfolderIDs: []string{},
		Expanded:     true,
	}
	f.InitTimestamps(now)

	s.folders = append(slices.Clone(s.folders), f)
	if pi >= 0 {
		s.updateFolder(pi, func(p *domain.Folder) {
			p.SubfolderIDs = append(p.SubfolderIDs, folderID)
			p.Touch(now)
		})
	}
	s.docs.SaveFolders(s.folders)

	fx.emit(EventFolderCreated, folderID, now)
	return f.Clone(), nil
}

// UpdateFolder applies patch to a folder.
func (s *Store) UpdateFolder(folderID string, patch FolderPatch) (domain.Folder, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	fi := s.folderIndex(folderID)
	if fi < 0 {
		return domain.Folder{}, s.notFound(&fx, "folder %s not found", folderID)
	}

	now := s.now()
	f := s.updateFolder(fi, func(f *domain.Folder) {
		if patch.Name != nil {
			f.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Expanded != nil {
			f.Expanded = *patch.Expanded
		}
		f.Touch(now)
	})
	s.docs.SaveFolders(s.folders)

	fx.emit(EventFolderUpdated, folderID, now)
	return f.Clone(), nil
}

// ToggleFolderExpanded flips a folder's expanded flag.
func (s *Store) ToggleFolderExpanded(folderID string) (domain.Folder, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	fi := s.folderIndex(folderID)
	if fi < 0 {
		return domain.Folder{}, s.notFound(&fx, "folder %s not found", folderID)
	}

	now := s.now()
	f := s.updateFolder(fi, func(f *domain.Folder) {
		f.Expanded = !f.Expanded
	})
	s.docs.SaveFolders(s.folders)

	fx.emit(EventFolderUpdated, folderID, now)
	return f.Clone(), nil
}

// ArchiveFolder copies a folder into the archive and flags the live copy archived.
func (s *Store) ArchiveFolder(folderID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	fi := s.folderIndex(folderID)
	if fi < 0 {
		return s.notFound(&fx, "folder %s not found", folderID)
	}
	if s.folders[fi].Archived {
		return nil
	}

	s.guard(opArchiveFolder, s.folders[fi].Name)

	now := s.now()
	f := s.updateFolder(fi, func(f *domain.Folder) {
		f.Archived = true
		f.Touch(now)
	})
	s.archived.Folders = append(dropFolder(s.archived.Folders, folderID), f.Clone())

	s.docs.SaveFolders(s.folders)
	s.docs.SaveArchived(s.archived)

	fx.emit(EventFolderArchived, folderID, now)
	s.logger.Info("folder archived", "folder_id", folderID)
	return nil
}

// RestoreFolder returns an archived folder to the live list.
func (s *Store) RestoreFolder(folderID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	ai := slices.IndexFunc(s.archived.Folders, func(f domain.Folder) bool { return f.ID == folderID })
	if ai < 0 {
		return s.notFound(&fx, "archived folder %s not found", folderID)
	}

	now := s.now()
	if fi := s.folderIndex(folderID); fi >= 0 {
		s.updateFolder(fi, func(f *domain.Folder) {
			f.Archived = false
			f.Touch(now)
		})
	} else {
		f := s.archived.Folders[ai].Clone()
		f.Archived = false
		f.Touch(now)
		// Boards may have moved into other folders while this one was archived.
		f.BoardIDs = slices.DeleteFunc(f.BoardIDs, func(boardID string) bool {
			return s.boardIndex(boardID) < 0 || s.folderOf(boardID) >= 0
		})
		s.folders = append(slices.Clone(s.folders), f)
	}
	s.archived.Folders = dropFolder(s.archived.Folders, folderID)

	s.docs.SaveFolders(s.folders)
	s.docs.SaveArchived(s.archived)

	fx.emit(EventFolderRestored, folderID, now)
	return nil
}

// DeleteFolder permanently removes a folder. Its subfolders are lifted into
// its parent (or to the top level) and its boards become unfiled.
func (s *Store) DeleteFolder(folderID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	fi := s.folderIndex(folderID)
	ai := slices.IndexFunc(s.archived.Folders, func(f domain.Folder) bool { return f.ID == folderID })
	if fi < 0 && ai < 0 {
		return s.notFound(&fx, "folder %s not found", folderID)
	}

	var children []string
	if fi >= 0 {
		s.guard(opDeleteFolder, s.folders[fi].Name)
		children = slices.Clone(s.folders[fi].SubfolderIDs)
	} else {
		s.guard(opDeleteFolder, s.archived.Folders[ai].Name)
	}

	now := s.now()
	folders := make([]domain.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		if f.ID == folderID {
			continue
		}
		if slices.Contains(f.SubfolderIDs, folderID) {
			f = f.WithoutSubfolder(folderID)
			f.SubfolderIDs = append(f.SubfolderIDs, children...)
			f.Touch(now)
		}
		folders = append(folders, f)
	}
	s.folders = folders
	s.archived.Folders = dropFolder(s.archived.Folders, folderID)

	s.docs.SaveFolders(s.folders)
	s.docs.SaveArchived(s.archived)

	fx.emit(EventFolderDeleted, folderID, now)
	s.logger.Info("folder deleted", "folder_id", folderID, "lifted_subfolders", len(children))
	return nil
}

// MoveBoardToFolder files a board in exactly one folder, removing it from any other.
func (s *Store) MoveBoardToFolder(boardID, folderID string) (domain.Folder, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.boardIndex(boardID) < 0 {
		return domain.Folder{}, s.notFound(&fx, "board %s not found", boardID)
	}
	fi := s.liveFolderIndex(folderID)
	if fi < 0 {
		return domain.Folder{}, s.notFound(&fx, "folder %s not found", folderID)
	}

	now := s.now()
	s.folders = stripBoard(s.folders, boardID)
	f := s.updateFolder(fi, func(f *domain.Folder) {
		f.BoardIDs = append(f.BoardIDs, boardID)
		f.Touch(now)
	})
	s.docs.SaveFolders(s.folders)

	fx.emit(EventFolderUpdated, folderID, now)
	return f.Clone(), nil
}

// RemoveBoardFromFolder unfiles a board.
func (s *Store) RemoveBoardFromFolder(boardID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	fi := s.folderOf(boardID)
	if fi < 0 {
		return s.notFound(&fx, "board %s is not in a folder", boardID)
	}
	folderID := s.folders[fi].ID

	s.folders = stripBoard(s.folders, boardID)
	s.docs.SaveFolders(s.folders)

	fx.emit(EventFolderUpdated, folderID, s.now())
	return nil
}

// PinFolder gives a folder the next pin position.
func (s *Store) PinFolder(folderID string) (domain.Folder, error) {
	return s.setFolderPin(folderID, true)
}

// UnpinFolder clears a folder's pin position.
func (s *Store) UnpinFolder(folderID string) (domain.Folder, error) {
	return s.setFolderPin(folderID, false)
}

func (s *Store) setFolderPin(folderID string, pinned bool) (domain.Folder, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	fi := s.folderIndex(folderID)
	if fi < 0 {
		return domain.Folder{}, s.notFound(&fx, "folder %s not found", folderID)
	}

	var pin *int
	if pinned {
		if s.folders[fi].PinOrder != nil {
			return s.folders[fi].Clone(), nil
		}
		next := nextPinOrder(s.folders, func(f domain.Folder) *int { return f.PinOrder })
		pin = &next
	}

	now := s.now()
	f := s.updateFolder(fi, func(f *domain.Folder) {
		f.PinOrder = pin
		f.Touch(now)
	})
	s.docs.SaveFolders(s.folders)

	fx.emit(EventFolderUpdated, folderID, now)
	return f.Clone(), nil
}

// MoveFolder re-parents a folder. An empty parent moves it to the top level.
// Moving a folder into itself or one of its descendants is refused.
func (s *Store) MoveFolder(folderID, newParentID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.folderIndex(folderID) < 0 {
		return s.notFound(&fx, "folder %s not found", folderID)
	}
	pi := -1
	if newParentID != "" {
		if pi = s.liveFolderIndex(newParentID); pi < 0 {
			return s.notFound(&fx, "folder %s not found", newParentID)
		}
		if newParentID == folderID || s.isDescendant(newParentID, folderID) {
			return s.reject(&fx, domainerrors.Validationf("cannot move folder %s into its own subtree", folderID))
		}
	}

	now := s.now()
	folders := slices.Clone(s.folders)
	for i, f := range folders {
		switch {
		case i == pi:
			f = f.WithoutSubfolder(folderID)
			f.SubfolderIDs = append(f.SubfolderIDs, folderID)
			f.Touch(now)
		case slices.Contains(f.SubfolderIDs, folderID):
			f = f.WithoutSubfolder(folderID)
			f.Touch(now)
		default:
			continue
		}
		folders[i] = f
	}
	s.folders = folders
	s.docs.SaveFolders(s.folders)

	fx.emit(EventFolderUpdated, folderID, now)
	return nil
}

func (s *Store) liveFolderIndex(folderID string) int {
	fi := s.folderIndex(folderID)
	if fi < 0 || s.folders[fi].Archived {
		return -1
	}
	return fi
}

// folderOf returns the index of the live-list folder containing boardID, or -1.
func (s *Store) folderOf(boardID string) int {
	return slices.IndexFunc(s.folders, func(f domain.Folder) bool { return f.HasBoard(boardID) })
}

// isDescendant reports whether candidate is reachable from ancestor via subfolder links.
func (s *Store) isDescendant(candidate, ancestor string) bool {
	seen := map[string]bool{}
	stack := []string{ancestor}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		fi := s.folderIndex(cur)
		if fi < 0 {
			continue
		}
		for _, child := range s.folders[fi].SubfolderIDs {
			if child == candidate {
				return true
			}
			stack = append(stack, child)
		}
	}
	return false
}

func dropFolder(folders []domain.Folder, folderID string) []domain.Folder {
	return slices.DeleteFunc(slices.Clone(folders), func(f domain.Folder) bool { return f.ID == folderID })
}
