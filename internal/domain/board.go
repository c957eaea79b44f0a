package domain

import (
	"slices"
)

// Board is a top-level workspace holding ordered blocks.
type Board struct {
	Timestamps
	ID        string  `json:"id" validate:"required"`
	Name      string  `json:"name"`
	Blocks    []Block `json:"blocks" validate:"dive"`
	Wallpaper string  `json:"wallpaper,omitempty"`
	Archived  bool    `json:"archived"`
	PinOrder  *int    `json:"pinOrder,omitempty"`
}

// Clone deep-copies the board, its blocks and their items.
func (b Board) Clone() Board {
	out := b
	if b.Blocks != nil {
		out.Blocks = make([]Block, len(b.Blocks))
		for i, bl := range b.Blocks {
			out.Blocks[i] = bl.Clone()
		}
	}
	out.PinOrder = clonePin(b.PinOrder)
	return out
}

// BlockIndex returns the position of the block with the given id, or -1.
func (b Board) BlockIndex(id string) int {
	return slices.IndexFunc(b.Blocks, func(bl Block) bool { return bl.ID == id })
}

// NextBlockOrder returns max(order)+1 over the board's blocks, or 0 when there are none.
func (b Board) NextBlockOrder() int {
	next := 0
	for _, bl := range b.Blocks {
		if o := bl.Order + 1; o > next {
			next = o
		}
	}
	return next
}

// SortedBlocks returns the blocks ordered by Order; ties keep insertion order.
func (b Board) SortedBlocks() []Block {
	out := slices.Clone(b.Blocks)
	slices.SortStableFunc(out, func(x, y Block) int { return x.Order - y.Order })
	return out
}

// Block is an ordered column within a board.
type Block struct {
	Timestamps
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name"`
	BoardID  string   `json:"boardId"`
	Items    ItemList `json:"items" validate:"dive"`
	Order    int      `json:"order"`
	Archived bool     `json:"archived"`
}

// Clone deep-copies the block and its items.
func (b Block) Clone() Block {
	out := b
	out.Items = b.Items.Clone()
	return out
}

// CloneBoards deep-copies a board list.
func CloneBoards(boards []Board) []Board {
	if boards == nil {
		return nil
	}
	out := make([]Board, len(boards))
	for i, b := range boards {
		out[i] = b.Clone()
	}
	return out
}

func clonePin(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
