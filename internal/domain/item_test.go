package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTime() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestItemList_DecodesEachVariant(t *testing.T) {
	ts := Timestamps{CreatedAt: fixedTime(), UpdatedAt: fixedTime()}
	block := Block{
		Timestamps: ts,
		ID:         "block-1",
		Name:       "Todo",
		BoardID:    "board-1",
		Items: ItemList{
			&Card{ItemBase: ItemBase{Timestamps: ts, ID: "card-1", Type: KindCard, BlockID: "block-1"}, Title: "Fix bug", Status: StatusPending},
			&Spreadsheet{ItemBase: ItemBase{Timestamps: ts, ID: "sheet-1", Type: KindSpreadsheet, BlockID: "block-1", Order: 1}, Title: "Budget"},
			&MarkdownNote{ItemBase: ItemBase{Timestamps: ts, ID: "note-1", Type: KindMarkdownNote, BlockID: "block-1", Order: 2}, Content: "# Notes"},
			&FileItem{ItemBase: ItemBase{Timestamps: ts, ID: "file-1", Type: KindFile, BlockID: "block-1", Order: 3}, Name: "a.pdf", URL: "data:application/pdf;base64,AA=="},
		},
	}

	data, err := json.Marshal(block)
	require.NoError(t, err)

	var decoded Block
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded.Items, 4)
	assert.IsType(t, &Card{}, decoded.Items[0])
	assert.IsType(t, &Spreadsheet{}, decoded.Items[1])
	assert.IsType(t, &MarkdownNote{}, decoded.Items[2])
	assert.IsType(t, &FileItem{}, decoded.Items[3])
	assert.Equal(t, block, decoded)
}

func TestItemList_UnknownTypeFails(t *testing.T) {
	var l ItemList
	err := json.Unmarshal([]byte(`[{"id":"x","type":"hologram"}]`), &l)
	assert.Error(t, err)
}

func TestItemList_EmptyStaysNonNil(t *testing.T) {
	var l ItemList
	require.NoError(t, json.Unmarshal([]byte(`[]`), &l))
	assert.NotNil(t, l)
	assert.Empty(t, l)
}

func TestItemList_NextOrder(t *testing.T) {
	var l ItemList
	assert.Equal(t, 0, l.NextOrder())

	l = ItemList{
		&Card{ItemBase: ItemBase{ID: "a", Order: 4}},
		&Card{ItemBase: ItemBase{ID: "b", Order: 1}},
	}
	assert.Equal(t, 5, l.NextOrder())
}

func TestItemList_SortedBreaksTiesByInsertion(t *testing.T) {
	l := ItemList{
		&Card{ItemBase: ItemBase{ID: "a", Order: 2}},
		&Card{ItemBase: ItemBase{ID: "b", Order: 1}},
		&Card{ItemBase: ItemBase{ID: "c", Order: 1}},
	}

	sorted := l.Sorted()

	ids := []string{}
	for _, it := range sorted {
		ids = append(ids, it.Header().ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
}

func TestCard_CloneIsDeep(t *testing.T) {
	due := fixedTime()
	c := &Card{
		ItemBase:  ItemBase{ID: "card-1", Type: KindCard},
		Checklist: []ChecklistItem{{ID: "chk-1", Text: "write test"}},
		DueDate:   &due,
	}

	clone := c.Clone().(*Card)
	clone.Checklist[0].Completed = true
	*clone.DueDate = due.Add(time.Hour)
	clone.Header().Order = 7

	assert.False(t, c.Checklist[0].Completed)
	assert.Equal(t, fixedTime(), *c.DueDate)
	assert.Equal(t, 0, c.Order)
}

func TestArchive_SlotsFollowKind(t *testing.T) {
	a := EmptyArchive()
	a = a.WithItem(&Card{ItemBase: ItemBase{ID: "card-1", Type: KindCard}})
	a = a.WithItem(&MarkdownNote{ItemBase: ItemBase{ID: "note-1", Type: KindMarkdownNote}})

	assert.Len(t, a.Cards, 1)
	assert.Len(t, a.Notes, 1)
	assert.Empty(t, a.Spreadsheets)

	it, ok := a.FindItem("note-1")
	require.True(t, ok)
	assert.Equal(t, KindMarkdownNote, it.Header().Type)

	a = a.WithoutItem("card-1")
	assert.Empty(t, a.Cards)
	assert.Equal(t, 1, a.Len())
}

func TestEntityKind_Slot(t *testing.T) {
	assert.Equal(t, SlotCards, KindCard.Slot())
	assert.Equal(t, SlotSpreadsheets, KindSpreadsheet.Slot())
	assert.Equal(t, SlotFiles, KindFile.Slot())
	assert.Equal(t, SlotFolders, KindFolder.Slot())
	assert.Equal(t, ArchiveSlot(""), EntityKind("bogus").Slot())
}

func TestArchive_JSONKeyedBySlot(t *testing.T) {
	a := EmptyArchive()
	a.Notes = append(a.Notes, &MarkdownNote{ItemBase: ItemBase{ID: "note-1", Type: KindMarkdownNote}, Content: "hi"})

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, kind := range []EntityKind{KindBoard, KindBlock, KindCard, KindSpreadsheet, KindMarkdownNote, KindFile, KindFolder} {
		assert.Contains(t, raw, string(kind.Slot()))
	}
	assert.Len(t, raw, 7)

	var back Archive
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a, back)

	var partial Archive
	require.NoError(t, json.Unmarshal([]byte(`{"cards": []}`), &partial))
	assert.NotNil(t, partial.Cards)
	assert.Nil(t, partial.Boards)
}

func TestSettingsPatch_CoercesTheme(t *testing.T) {
	bogus := Theme("solarized")
	width := 420

	s := SettingsPatch{Theme: &bogus, DefaultBlockWidth: &width}.Apply(DefaultSettings())

	assert.Equal(t, ThemeLight, s.Theme)
	assert.Equal(t, 420, s.DefaultBlockWidth)
	assert.Equal(t, DefaultSettings().AutoSaveInterval, s.AutoSaveInterval)
}

func TestSettings_Normalize(t *testing.T) {
	s := Settings{Theme: "neon", ScrollOrientation: "diagonal"}.Normalize()

	assert.Equal(t, ThemeLight, s.Theme)
	assert.Equal(t, ScrollHorizontal, s.ScrollOrientation)
	assert.Equal(t, 300, s.DefaultBlockWidth)
	assert.Equal(t, 30, s.AutoSaveInterval)
}
