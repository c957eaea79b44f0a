package workspace

import (
	"slices"
	"time"

	"github.com/listenupapp/corkboard/internal/domain"
	"github.com/listenupapp/corkboard/internal/id"
)

// All helpers in this file expect s.mu to be held.
//
// Nested slices in s.boards may be shared with earlier snapshots, so they are
// never written in place: each helper clones the path it rebuilds and swaps
// in the new top-level slice.

func (s *Store) boardIndex(boardID string) int {
	return slices.IndexFunc(s.boards, func(b domain.Board) bool { return b.ID == boardID })
}

func (s *Store) folderIndex(folderID string) int {
	return slices.IndexFunc(s.folders, func(f domain.Folder) bool { return f.ID == folderID })
}

// liveBoardIndex returns the index of a board that is present and not archived, or -1.
func (s *Store) liveBoardIndex(boardID string) int {
	bi := s.boardIndex(boardID)
	if bi < 0 || s.boards[bi].Archived {
		return -1
	}
	return bi
}

func (s *Store) locateBlock(blockID string) (bi, bli int, ok bool) {
	for bi, b := range s.boards {
		if bli := b.BlockIndex(blockID); bli >= 0 {
			return bi, bli, true
		}
	}
	return -1, -1, false
}

func (s *Store) locateItem(itemID string) (bi, bli, ii int, ok bool) {
	for bi, b := range s.boards {
		for bli, bl := range b.Blocks {
			if ii := bl.Items.Index(itemID); ii >= 0 {
				return bi, bli, ii, true
			}
		}
	}
	return -1, -1, -1, false
}

// updateBoard replaces board bi with the result of fn applied to a copy.
func (s *Store) updateBoard(bi int, fn func(b *domain.Board)) domain.Board {
	boards := slices.Clone(s.boards)
	b := boards[bi]
	fn(&b)
	boards[bi] = b
	s.boards = boards
	return b
}

// updateBlocks lets fn edit a private copy of board bi's block slice.
func (s *Store) updateBlocks(bi int, fn func(blocks []domain.Block) []domain.Block) domain.Board {
	return s.updateBoard(bi, func(b *domain.Board) {
		b.Blocks = fn(slices.Clone(b.Blocks))
	})
}

// updateBlock lets fn edit a copy of one block whose item slice is private.
func (s *Store) updateBlock(bi, bli int, fn func(bl *domain.Block)) domain.Board {
	return s.updateBlocks(bi, func(blocks []domain.Block) []domain.Block {
		bl := blocks[bli]
		bl.Items = slices.Clone(bl.Items)
		fn(&bl)
		blocks[bli] = bl
		return blocks
	})
}

// updateFolder replaces folder fi with the result of fn applied to a copy.
func (s *Store) updateFolder(fi int, fn func(f *domain.Folder)) domain.Folder {
	folders := slices.Clone(s.folders)
	f := folders[fi].Clone()
	fn(&f)
	folders[fi] = f
	s.folders = folders
	return f
}

func (s *Store) newBoard(name string, now time.Time) (domain.Board, error) {
	boardID, err := s.newID(id.PrefixBoard)
	if err != nil {
		return domain.Board{}, err
	}
	b := domain.Board{
		ID:     boardID,
		Name:   name,
		Blocks: []domain.Block{},
	}
	b.InitTimestamps(now)
	return b, nil
}

func (s *Store) newBlock(boardID, name string, order int, now time.Time) (domain.Block, error) {
	blockID, err := s.newID(id.PrefixBlock)
	if err != nil {
		return domain.Block{}, err
	}
	bl := domain.Block{
		ID:      blockID,
		Name:    name,
		BoardID: boardID,
		Items:   domain.ItemList{},
		Order:   order,
	}
	bl.InitTimestamps(now)
	return bl, nil
}

// insertItemByOrder inserts it before the first sibling with a greater order,
// so that ties keep the restored item after existing ones.
func insertItemByOrder(items domain.ItemList, it domain.Item) domain.ItemList {
	order := it.Header().Order
	pos := slices.IndexFunc(items, func(x domain.Item) bool { return x.Header().Order > order })
	if pos < 0 {
		pos = len(items)
	}
	return slices.Insert(items, pos, it)
}

func insertBlockByOrder(blocks []domain.Block, bl domain.Block) []domain.Block {
	pos := slices.IndexFunc(blocks, func(x domain.Block) bool { return x.Order > bl.Order })
	if pos < 0 {
		pos = len(blocks)
	}
	return slices.Insert(blocks, pos, bl)
}

// renumberItems returns items renumbered 0..n-1 in the sequence given. Items
// whose order changes are cloned; the others are shared.
func renumberItems(items domain.ItemList, now time.Time) domain.ItemList {
	out := slices.Clone(items)
	for i, it := range out {
		if it.Header().Order != i {
			c := it.Clone()
			c.Header().Order = i
			c.Header().Touch(now)
			out[i] = c
		}
	}
	return out
}

// clampIndex bounds i to [0, n].
func clampIndex(i, n int) int {
	return max(0, min(i, n))
}

func nextPinOrder[T any](list []T, pin func(T) *int) int {
	next := 0
	for _, v := range list {
		if p := pin(v); p != nil && *p+1 > next {
			next = *p + 1
		}
	}
	return next
}
