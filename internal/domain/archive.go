package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Archive is the shadow store of soft-deleted entities. Each record is a full
// copy of the entity taken at archive time. In JSON every collection is keyed
// by the archive slot of its entity kind.
type Archive struct {
	Boards       []Board
	Blocks       []Block
	Cards        []*Card
	Spreadsheets []*Spreadsheet
	Notes        []*MarkdownNote
	Files        []*FileItem
	Folders      []Folder
}

// collections maps each archive slot to the collection that holds it.
func (a *Archive) collections() map[ArchiveSlot]any {
	return map[ArchiveSlot]any{
		KindBoard.Slot():        &a.Boards,
		KindBlock.Slot():        &a.Blocks,
		KindCard.Slot():         &a.Cards,
		KindSpreadsheet.Slot():  &a.Spreadsheets,
		KindMarkdownNote.Slot(): &a.Notes,
		KindFile.Slot():         &a.Files,
		KindFolder.Slot():       &a.Folders,
	}
}

// MarshalJSON writes the archive as an object keyed by archive slot.
func (a Archive) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.collections())
}

// UnmarshalJSON reads an object keyed by archive slot. Missing slots stay nil.
func (a *Archive) UnmarshalJSON(data []byte) error {
	var raw map[ArchiveSlot]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Archive
	for slot, dst := range out.collections() {
		msg, ok := raw[slot]
		if !ok {
			continue
		}
		if err := json.Unmarshal(msg, dst); err != nil {
			return fmt.Errorf("archived %s: %w", slot, err)
		}
	}
	*a = out
	return nil
}

// EmptyArchive returns an archive whose collections are all empty (not nil),
// so it serializes with every slot present.
func EmptyArchive() Archive {
	return Archive{
		Boards:       []Board{},
		Blocks:       []Block{},
		Cards:        []*Card{},
		Spreadsheets: []*Spreadsheet{},
		Notes:        []*MarkdownNote{},
		Files:        []*FileItem{},
		Folders:      []Folder{},
	}
}

// Normalize replaces nil collections with empty ones.
func (a Archive) Normalize() Archive {
	if a.Boards == nil {
		a.Boards = []Board{}
	}
	if a.Blocks == nil {
		a.Blocks = []Block{}
	}
	if a.Cards == nil {
		a.Cards = []*Card{}
	}
	if a.Spreadsheets == nil {
		a.Spreadsheets = []*Spreadsheet{}
	}
	if a.Notes == nil {
		a.Notes = []*MarkdownNote{}
	}
	if a.Files == nil {
		a.Files = []*FileItem{}
	}
	if a.Folders == nil {
		a.Folders = []Folder{}
	}
	return a
}

// Clone deep-copies the archive.
func (a Archive) Clone() Archive {
	out := Archive{
		Boards:  CloneBoards(a.Boards),
		Folders: CloneFolders(a.Folders),
	}
	if a.Blocks != nil {
		out.Blocks = make([]Block, len(a.Blocks))
		for i, b := range a.Blocks {
			out.Blocks[i] = b.Clone()
		}
	}
	out.Cards = cloneTyped(a.Cards)
	out.Spreadsheets = cloneTyped(a.Spreadsheets)
	out.Notes = cloneTyped(a.Notes)
	out.Files = cloneTyped(a.Files)
	return out
}

// Items returns the archived items of one kind as generic Items.
func (a Archive) Items(kind ItemKind) []Item {
	switch kind {
	case KindCard:
		return asItems(a.Cards)
	case KindSpreadsheet:
		return asItems(a.Spreadsheets)
	case KindMarkdownNote:
		return asItems(a.Notes)
	case KindFile:
		return asItems(a.Files)
	default:
		return nil
	}
}

// FindItem locates an archived item of any kind by id.
func (a Archive) FindItem(id string) (Item, bool) {
	for _, kind := range ItemKinds {
		for _, it := range a.Items(kind) {
			if it.Header().ID == id {
				return it, true
			}
		}
	}
	return nil, false
}

// WithItem returns a copy of the archive with it appended to its kind's slot,
// replacing any earlier record with the same id.
func (a Archive) WithItem(it Item) Archive {
	out := a.WithoutItem(it.Header().ID)
	switch v := it.Clone().(type) {
	case *Card:
		out.Cards = append(out.Cards, v)
	case *Spreadsheet:
		out.Spreadsheets = append(out.Spreadsheets, v)
	case *MarkdownNote:
		out.Notes = append(out.Notes, v)
	case *FileItem:
		out.Files = append(out.Files, v)
	}
	return out
}

// WithoutItem returns a copy of the archive with the item id removed from every item slot.
func (a Archive) WithoutItem(id string) Archive {
	a.Cards = dropTyped(a.Cards, id)
	a.Spreadsheets = dropTyped(a.Spreadsheets, id)
	a.Notes = dropTyped(a.Notes, id)
	a.Files = dropTyped(a.Files, id)
	return a
}

// Len returns the total number of archived records.
func (a Archive) Len() int {
	return len(a.Boards) + len(a.Blocks) + len(a.Cards) + len(a.Spreadsheets) +
		len(a.Notes) + len(a.Files) + len(a.Folders)
}

func asItems[T Item](in []T) []Item {
	out := make([]Item, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func cloneTyped[T Item](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = v.Clone().(T)
	}
	return out
}

func dropTyped[T Item](in []T, id string) []T {
	return slices.DeleteFunc(slices.Clone(in), func(v T) bool { return v.Header().ID == id })
}
