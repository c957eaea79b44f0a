package workspace

import (
	"slices"
	"strings"

	"github.com/listenupapp/corkboard/internal/domain"
)

// BlockPatch is a partial block update.
type BlockPatch struct {
	Name *string `json:"name,omitempty"`
}

// CreateBlock appends a block to a live board with order max+1.
func (s *Store) CreateBlock(boardID, name string) (domain.Block, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi := s.liveBoardIndex(boardID)
	if bi < 0 {
		return domain.Block{}, s.notFound(&fx, "board %s not found", boardID)
	}
	name = strings.TrimSpace(name)

	now := s.now()
	bl, err := s.newBlock(boardID, name, s.boards[bi].NextBlockOrder(), now)
	if err != nil {
		return domain.Block{}, s.reject(&fx, err)
	}

	board := s.updateBlocks(bi, func(blocks []domain.Block) []domain.Block {
		return append(blocks, bl)
	})
	s.docs.SaveBoards(s.boards)

	fx.emit(EventBlockCreated, bl.ID, now)
	fx.touchBoard(board)
	return bl.Clone(), nil
}

// UpdateBlock applies patch to a block.
func (s *Store) UpdateBlock(blockID string, patch BlockPatch) (domain.Block, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi, bli, ok := s.locateBlock(blockID)
	if !ok {
		return domain.Block{}, s.notFound(&fx, "block %s not found", blockID)
	}

	now := s.now()
	board := s.updateBlock(bi, bli, func(bl *domain.Block) {
		if patch.Name != nil {
			bl.Name = strings.TrimSpace(*patch.Name)
		}
		bl.Touch(now)
	})
	s.docs.SaveBoards(s.boards)

	fx.emit(EventBlockUpdated, blockID, now)
	fx.touchBoard(board)
	return board.Blocks[bli].Clone(), nil
}

// ArchiveBlock moves a block, with its items, out of its board into the archive.
func (s *Store) ArchiveBlock(blockID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi, bli, ok := s.locateBlock(blockID)
	if !ok {
		return s.notFound(&fx, "block %s not found", blockID)
	}

	now := s.now()
	record := s.boards[bi].Blocks[bli].Clone()
	record.Archived = true
	record.Touch(now)

	board := s.updateBlocks(bi, func(blocks []domain.Block) []domain.Block {
		return slices.Delete(blocks, bli, bli+1)
	})
	s.archived.Blocks = append(dropBlock(s.archived.Blocks, blockID), record)

	s.docs.SaveBoards(s.boards)
	s.docs.SaveArchived(s.archived)

	fx.emit(EventBlockArchived, blockID, now)
	fx.touchBoard(board)
	return nil
}

// RestoreBlock reinserts an archived block into its board. The board must
// still be live; otherwise the archived copy is left untouched.
func (s *Store) RestoreBlock(blockID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	ai := slices.IndexFunc(s.archived.Blocks, func(b domain.Block) bool { return b.ID == blockID })
	if ai < 0 {
		return s.notFound(&fx, "archived block %s not found", blockID)
	}
	record := s.archived.Blocks[ai]

	bi := s.liveBoardIndex(record.BoardID)
	if bi < 0 {
		return s.notFound(&fx, "board %s for block %q no longer exists", record.BoardID, record.Name)
	}

	now := s.now()
	var board domain.Board
	if bli := s.boards[bi].BlockIndex(blockID); bli >= 0 {
		board = s.updateBlock(bi, bli, func(bl *domain.Block) {
			bl.Archived = false
			bl.Touch(now)
		})
	} else {
		bl := record.Clone()
		bl.Archived = false
		bl.Touch(now)
		board = s.updateBlocks(bi, func(blocks []domain.Block) []domain.Block {
			return insertBlockByOrder(blocks, bl)
		})
	}
	s.archived.Blocks = dropBlock(s.archived.Blocks, blockID)

	s.docs.SaveBoards(s.boards)
	s.docs.SaveArchived(s.archived)

	fx.emit(EventBlockRestored, blockID, now)
	fx.touchBoard(board)
	return nil
}

// DeleteBlock permanently removes a block from its board and from the archive.
// Archived items that belonged to it stay archived but can no longer be restored.
func (s *Store) DeleteBlock(blockID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi, bli, live := s.locateBlock(blockID)
	ai := slices.IndexFunc(s.archived.Blocks, func(b domain.Block) bool { return b.ID == blockID })
	if !live && ai < 0 {
		return s.notFound(&fx, "block %s not found", blockID)
	}

	var removed []domain.Block
	if ai >= 0 {
		removed = append(removed, s.archived.Blocks[ai])
	}
	if live {
		removed = append(removed, s.boards[bi].Blocks[bli])
		s.guard(opDeleteBlock, s.boards[bi].Blocks[bli].Name)
		board := s.updateBlocks(bi, func(blocks []domain.Block) []domain.Block {
			return slices.Delete(blocks, bli, bli+1)
		})
		fx.touchBoard(board)
	} else {
		s.guard(opDeleteBlock, s.archived.Blocks[ai].Name)
	}
	s.archived.Blocks = dropBlock(s.archived.Blocks, blockID)

	s.docs.SaveBoards(s.boards)
	s.docs.SaveArchived(s.archived)
	s.releaseUnreferenced(&fx, blockFileURLs(removed))

	fx.emit(EventBlockDeleted, blockID, s.now())
	return nil
}

// MoveBlock moves a block to position index among its siblings and
// renumbers the board's blocks 0..n-1.
func (s *Store) MoveBlock(blockID string, index int) (domain.Board, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi, _, ok := s.locateBlock(blockID)
	if !ok {
		return domain.Board{}, s.notFound(&fx, "block %s not found", blockID)
	}

	now := s.now()
	board := s.updateBlocks(bi, func([]domain.Block) []domain.Block {
		sorted := s.boards[bi].SortedBlocks()
		from := slices.IndexFunc(sorted, func(b domain.Block) bool { return b.ID == blockID })
		moved := sorted[from]
		sorted = slices.Delete(sorted, from, from+1)
		sorted = slices.Insert(sorted, clampIndex(index, len(sorted)), moved)
		for i := range sorted {
			if sorted[i].Order != i || sorted[i].ID == blockID {
				sorted[i].Order = i
				sorted[i].Touch(now)
			}
		}
		return sorted
	})
	s.docs.SaveBoards(s.boards)

	fx.emit(EventBlockUpdated, blockID, now)
	fx.touchBoard(board)
	return board.Clone(), nil
}

func dropBlock(blocks []domain.Block, blockID string) []domain.Block {
	return slices.DeleteFunc(slices.Clone(blocks), func(b domain.Block) bool { return b.ID == blockID })
}
