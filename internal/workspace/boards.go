package workspace

import (
	"slices"
	"strings"

	"github.com/listenupapp/corkboard/internal/domain"
	"github.com/listenupapp/corkboard/internal/id"
)

const defaultBoardName = "Untitled Board"

// BoardPatch is a partial board update; nil fields are left unchanged.
type BoardPatch struct {
	Name      *string `json:"name,omitempty"`
	Wallpaper *string `json:"wallpaper,omitempty"`
}

// CreateBoard appends a new empty board and selects it.
func (s *Store) CreateBoard(name string) (domain.Board, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultBoardName
	}

	now := s.now()
	b, err := s.newBoard(name, now)
	if err != nil {
		return domain.Board{}, s.reject(&fx, err)
	}

	s.boards = append(slices.Clone(s.boards), b)
	s.currentBoardID = b.ID
	s.docs.SaveBoards(s.boards)

	fx.emit(EventBoardCreated, b.ID, now)
	fx.touchBoard(b)
	s.logger.Debug("board created", "board_id", b.ID, "name", name)
	return b.Clone(), nil
}

// UpdateBoard applies patch to a board.
func (s *Store) UpdateBoard(boardID string, patch BoardPatch) (domain.Board, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi := s.boardIndex(boardID)
	if bi < 0 {
		return domain.Board{}, s.notFound(&fx, "board %s not found", boardID)
	}

	now := s.now()
	b := s.updateBoard(bi, func(b *domain.Board) {
		if patch.Name != nil {
			b.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Wallpaper != nil {
			b.Wallpaper = *patch.Wallpaper
		}
		b.Touch(now)
	})
	s.docs.SaveBoards(s.boards)

	fx.emit(EventBoardUpdated, b.ID, now)
	fx.touchBoard(b)
	return b.Clone(), nil
}

// ArchiveBoard copies a board into the archive and flags the live copy archived.
// If it was selected, the selection moves to another live board.
func (s *Store) ArchiveBoard(boardID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi := s.boardIndex(boardID)
	if bi < 0 {
		return s.notFound(&fx, "board %s not found", boardID)
	}
	if s.boards[bi].Archived {
		return nil
	}

	s.guard(opArchiveBoard, s.boards[bi].Name)

	now := s.now()
	b := s.updateBoard(bi, func(b *domain.Board) {
		b.Archived = true
		b.Touch(now)
	})

	s.archived.Boards = append(dropBoard(s.archived.Boards, boardID), b.Clone())
	if s.currentBoardID == boardID {
		s.currentBoardID = s.firstLiveBoardLocked()
	}

	s.docs.SaveBoards(s.boards)
	s.docs.SaveArchived(s.archived)

	fx.emit(EventBoardArchived, boardID, now)
	fx.unindex = append(fx.unindex, boardID)
	s.logger.Info("board archived", "board_id", boardID)
	return nil
}

// RestoreBoard returns an archived board to the live list.
func (s *Store) RestoreBoard(boardID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	ai := slices.IndexFunc(s.archived.Boards, func(b domain.Board) bool { return b.ID == boardID })
	if ai < 0 {
		return s.notFound(&fx, "archived board %s not found", boardID)
	}

	now := s.now()
	var b domain.Board
	if bi := s.boardIndex(boardID); bi >= 0 {
		b = s.updateBoard(bi, func(b *domain.Board) {
			b.Archived = false
			b.Touch(now)
		})
	} else {
		b = s.archived.Boards[ai].Clone()
		b.Archived = false
		b.Touch(now)
		s.boards = append(slices.Clone(s.boards), b)
	}

	s.archived.Boards = dropBoard(s.archived.Boards, boardID)
	if s.currentBoardID == "" {
		s.currentBoardID = boardID
	}

	s.docs.SaveBoards(s.boards)
	s.docs.SaveArchived(s.archived)

	fx.emit(EventBoardRestored, boardID, now)
	fx.touchBoard(b)
	return nil
}

// DeleteBoard permanently removes a board from the live list, the archive and every folder.
func (s *Store) DeleteBoard(boardID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi := s.boardIndex(boardID)
	ai := slices.IndexFunc(s.archived.Boards, func(b domain.Board) bool { return b.ID == boardID })
	if bi < 0 && ai < 0 {
		return s.notFound(&fx, "board %s not found", boardID)
	}

	var removed []domain.Board
	if bi >= 0 {
		s.guard(opDeleteBoard, s.boards[bi].Name)
		removed = append(removed, s.boards[bi])
	} else {
		s.guard(opDeleteBoard, s.archived.Boards[ai].Name)
	}
	if ai >= 0 {
		removed = append(removed, s.archived.Boards[ai])
	}

	s.boards = dropBoard(s.boards, boardID)
	s.archived.Boards = dropBoard(s.archived.Boards, boardID)
	s.folders = stripBoard(s.folders, boardID)
	s.archived.Folders = stripBoard(s.archived.Folders, boardID)
	if s.currentBoardID == boardID {
		s.currentBoardID = s.firstLiveBoardLocked()
	}

	s.docs.SaveBoards(s.boards)
	s.docs.SaveFolders(s.folders)
	s.docs.SaveArchived(s.archived)
	s.releaseUnreferenced(&fx, boardFileURLs(removed))

	fx.emit(EventBoardDeleted, boardID, s.now())
	fx.unindex = append(fx.unindex, boardID)
	s.logger.Info("board deleted", "board_id", boardID)
	return nil
}

// SetCurrentBoard selects a live board. An empty id clears the selection.
func (s *Store) SetCurrentBoard(boardID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if boardID != "" && s.liveBoardIndex(boardID) < 0 {
		return s.notFound(&fx, "board %s not found", boardID)
	}
	s.currentBoardID = boardID
	fx.emit(EventBoardSelected, boardID, s.now())
	return nil
}

// PinBoard gives a board the next pin position.
func (s *Store) PinBoard(boardID string) (domain.Board, error) {
	return s.setBoardPin(boardID, true)
}

// UnpinBoard clears a board's pin position.
func (s *Store) UnpinBoard(boardID string) (domain.Board, error) {
	return s.setBoardPin(boardID, false)
}

func (s *Store) setBoardPin(boardID string, pinned bool) (domain.Board, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi := s.boardIndex(boardID)
	if bi < 0 {
		return domain.Board{}, s.notFound(&fx, "board %s not found", boardID)
	}

	var pin *int
	if pinned {
		if s.boards[bi].PinOrder != nil {
			return s.boards[bi].Clone(), nil
		}
		next := nextPinOrder(s.boards, func(b domain.Board) *int { return b.PinOrder })
		pin = &next
	}

	now := s.now()
	b := s.updateBoard(bi, func(b *domain.Board) {
		b.PinOrder = pin
		b.Touch(now)
	})
	s.docs.SaveBoards(s.boards)

	fx.emit(EventBoardUpdated, boardID, now)
	return b.Clone(), nil
}

// DuplicateBoard deep-copies a board with fresh ids for the board, its blocks,
// their items and the entries nested in those items, appends the copy and selects it.
func (s *Store) DuplicateBoard(boardID string) (domain.Board, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi := s.boardIndex(boardID)
	if bi < 0 {
		return domain.Board{}, s.notFound(&fx, "board %s not found", boardID)
	}

	now := s.now()
	src := s.boards[bi].Clone()
	dup, err := s.newBoard(src.Name+" (copy)", now)
	if err != nil {
		return domain.Board{}, s.reject(&fx, err)
	}
	dup.Wallpaper = src.Wallpaper

	for _, bl := range src.Blocks {
		nb, err := s.newBlock(dup.ID, bl.Name, bl.Order, now)
		if err != nil {
			return domain.Board{}, s.reject(&fx, err)
		}
		for _, it := range bl.Items {
			h := it.Header()
			itemID, err := s.newID(prefixFor(h.Type))
			if err != nil {
				return domain.Board{}, s.reject(&fx, err)
			}
			h.ID = itemID
			h.BlockID = nb.ID
			h.InitTimestamps(now)
			if err := s.renewNestedIDs(it); err != nil {
				return domain.Board{}, s.reject(&fx, err)
			}
			nb.Items = append(nb.Items, it)
		}
		dup.Blocks = append(dup.Blocks, nb)
	}

	s.boards = append(slices.Clone(s.boards), dup)
	s.currentBoardID = dup.ID
	s.docs.SaveBoards(s.boards)

	fx.emit(EventBoardCreated, dup.ID, now)
	fx.touchBoard(dup)
	return dup.Clone(), nil
}

// renewNestedIDs gives checklist entries, attachments, columns and rows of a
// copied item ids of their own. Row cells follow their columns' new ids.
func (s *Store) renewNestedIDs(it domain.Item) error {
	switch v := it.(type) {
	case *domain.Card:
		for i := range v.Checklist {
			nid, err := s.newID(id.PrefixChecklist)
			if err != nil {
				return err
			}
			v.Checklist[i].ID = nid
		}
		for i := range v.Attachments {
			nid, err := s.newID(id.PrefixAttachment)
			if err != nil {
				return err
			}
			v.Attachments[i].ID = nid
		}
	case *domain.Spreadsheet:
		columns := make(map[string]string, len(v.Columns))
		for i := range v.Columns {
			nid, err := s.newID(id.PrefixColumn)
			if err != nil {
				return err
			}
			columns[v.Columns[i].ID] = nid
			v.Columns[i].ID = nid
		}
		for i := range v.Rows {
			nid, err := s.newID(id.PrefixRow)
			if err != nil {
				return err
			}
			cells := make(map[string]any, len(v.Rows[i].Cells))
			for col, val := range v.Rows[i].Cells {
				if renamed, ok := columns[col]; ok {
					col = renamed
				}
				cells[col] = val
			}
			v.Rows[i] = domain.SheetRow{ID: nid, Cells: cells}
		}
	}
	return nil
}

func prefixFor(kind domain.ItemKind) string {
	switch kind {
	case domain.KindCard:
		return id.PrefixCard
	case domain.KindSpreadsheet:
		return id.PrefixSpreadsheet
	case domain.KindMarkdownNote:
		return id.PrefixNote
	case domain.KindFile:
		return id.PrefixFile
	default:
		return string(kind)
	}
}

func dropBoard(boards []domain.Board, boardID string) []domain.Board {
	return slices.DeleteFunc(slices.Clone(boards), func(b domain.Board) bool { return b.ID == boardID })
}

// stripBoard removes boardID from every folder that lists it.
func stripBoard(folders []domain.Folder, boardID string) []domain.Folder {
	out := slices.Clone(folders)
	for i, f := range out {
		if f.HasBoard(boardID) {
			out[i] = f.WithoutBoard(boardID)
		}
	}
	return out
}
