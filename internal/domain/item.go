package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// ItemBase holds the fields shared by every item variant.
type ItemBase struct {
	Timestamps
	ID       string   `json:"id"`
	Type     ItemKind `json:"type"`
	BlockID  string   `json:"blockId"`
	Order    int      `json:"order"`
	Archived bool     `json:"archived"`
}

// Header returns the shared item fields. Promoted to every variant that embeds ItemBase.
func (b *ItemBase) Header() *ItemBase { return b }

func (*ItemBase) isItem() {}

// Item is the tagged union over Card, Spreadsheet, MarkdownNote and FileItem.
//
// Items held by a Block are never modified in place: callers Clone an item,
// change the clone, and hand it back to the workspace.
type Item interface {
	Header() *ItemBase
	Clone() Item
	isItem()
}

// Title returns a human label for any item variant.
func Title(it Item) string {
	switch v := it.(type) {
	case *Card:
		return v.Title
	case *Spreadsheet:
		return v.Title
	case *MarkdownNote:
		return firstLine(v.Content)
	case *FileItem:
		return v.Name
	default:
		return ""
	}
}

// NewItem returns an empty item of the given kind.
func NewItem(kind ItemKind) (Item, error) {
	switch kind {
	case KindCard:
		return &Card{}, nil
	case KindSpreadsheet:
		return &Spreadsheet{}, nil
	case KindMarkdownNote:
		return &MarkdownNote{}, nil
	case KindFile:
		return &FileItem{}, nil
	default:
		return nil, fmt.Errorf("unknown item type %q", kind)
	}
}

// ItemList is an ordered list of heterogeneous items.
// It decodes each element according to its "type" tag.
type ItemList []Item

// UnmarshalJSON decodes a JSON array of tagged items.
func (l *ItemList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(ItemList, 0, len(raws))
	for i, raw := range raws {
		it, err := DecodeItem(raw)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, it)
	}
	*l = out
	return nil
}

// DecodeItem decodes a single tagged item.
func DecodeItem(raw []byte) (Item, error) {
	var tag struct {
		Type ItemKind `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}
	it, err := NewItem(tag.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, it); err != nil {
		return nil, fmt.Errorf("decode %s: %w", tag.Type, err)
	}
	return it, nil
}

// Clone deep-copies the list.
func (l ItemList) Clone() ItemList {
	if l == nil {
		return nil
	}
	out := make(ItemList, len(l))
	for i, it := range l {
		out[i] = it.Clone()
	}
	return out
}

// Index returns the position of the item with the given id, or -1.
func (l ItemList) Index(id string) int {
	return slices.IndexFunc(l, func(it Item) bool { return it.Header().ID == id })
}

// NextOrder returns max(order)+1, or 0 for an empty list.
func (l ItemList) NextOrder() int {
	next := 0
	for _, it := range l {
		if o := it.Header().Order + 1; o > next {
			next = o
		}
	}
	return next
}

// Sorted returns a copy ordered by Order; ties keep insertion order.
func (l ItemList) Sorted() ItemList {
	out := slices.Clone(l)
	slices.SortStableFunc(out, func(a, b Item) int {
		return a.Header().Order - b.Header().Order
	})
	return out
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
