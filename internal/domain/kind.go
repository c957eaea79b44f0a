package domain

// EntityKind enumerates every entity that can live in the workspace tree or the archive.
type EntityKind string

const (
	KindBoard        EntityKind = "board"
	KindBlock        EntityKind = "block"
	KindCard         EntityKind = "card"
	KindSpreadsheet  EntityKind = "spreadsheet"
	KindMarkdownNote EntityKind = "markdown"
	KindFile         EntityKind = "file"
	KindFolder       EntityKind = "folder"
)

// ItemKind is the type tag of an Item. Its values are the item subset of EntityKind.
type ItemKind = EntityKind

// ItemKinds lists the item variants in archive order.
var ItemKinds = []ItemKind{KindCard, KindSpreadsheet, KindMarkdownNote, KindFile}

// ArchiveSlot is the key of an archive collection in the persisted "archived" document.
type ArchiveSlot string

const (
	SlotBoards       ArchiveSlot = "boards"
	SlotBlocks       ArchiveSlot = "blocks"
	SlotCards        ArchiveSlot = "cards"
	SlotSpreadsheets ArchiveSlot = "spreadsheets"
	SlotNotes        ArchiveSlot = "notes"
	SlotFiles        ArchiveSlot = "files"
	SlotFolders      ArchiveSlot = "folders"
)

// Slot returns the archive collection holding archived entities of kind k.
// The mapping is exhaustive; an unknown kind yields the empty slot.
func (k EntityKind) Slot() ArchiveSlot {
	switch k {
	case KindBoard:
		return SlotBoards
	case KindBlock:
		return SlotBlocks
	case KindCard:
		return SlotCards
	case KindSpreadsheet:
		return SlotSpreadsheets
	case KindMarkdownNote:
		return SlotNotes
	case KindFile:
		return SlotFiles
	case KindFolder:
		return SlotFolders
	default:
		return ""
	}
}
