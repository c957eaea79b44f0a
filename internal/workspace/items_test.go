package workspace

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/corkboard/internal/domain"
	domainerrors "github.com/listenupapp/corkboard/internal/errors"
)

// setupBlock creates a board with one block and returns both ids.
func setupBlock(t *testing.T, h *harness) (boardID, blockID string) {
	t.Helper()
	b, err := h.store.CreateBoard("Sprint")
	require.NoError(t, err)
	bl, err := h.store.CreateBlock(b.ID, "Todo")
	require.NoError(t, err)
	return b.ID, bl.ID
}

func itemIDs(t *testing.T, h *harness, blockID string) []string {
	t.Helper()
	bl, ok := h.store.Block(blockID)
	require.True(t, ok)
	var ids []string
	for _, it := range bl.Items.Sorted() {
		ids = append(ids, it.Header().ID)
	}
	return ids
}

func TestScenario_ArchiveAndRestoreCard(t *testing.T) {
	h := newEmptyStore(t)

	b, err := h.store.CreateBoard("Sprint")
	require.NoError(t, err)
	todo, err := h.store.CreateBlock(b.ID, "Todo")
	require.NoError(t, err)
	assert.Equal(t, 0, todo.Order)
	card, err := h.store.CreateCard(todo.ID, CardDraft{Title: "Fix bug"})
	require.NoError(t, err)
	assert.Equal(t, 0, card.Order)

	require.NoError(t, h.store.ArchiveItem(card.ID))

	_, live := h.store.Item(card.ID)
	assert.False(t, live)
	archived := h.store.Archived()
	require.Len(t, archived.Cards, 1)
	assert.Equal(t, card.ID, archived.Cards[0].ID)
	assert.True(t, archived.Cards[0].Archived)

	require.NoError(t, h.store.RestoreItem(card.ID))

	bl, ok := h.store.Block(todo.ID)
	require.True(t, ok)
	require.Len(t, bl.Items, 1)
	restored := bl.Items[0].(*domain.Card)
	assert.Equal(t, card.ID, restored.ID)
	assert.False(t, restored.Archived)
	assert.Empty(t, h.store.Archived().Cards)
}

func TestArchiveRestore_OnlyArchivedAndUpdatedAtChange(t *testing.T) {
	h := newEmptyStore(t)
	_, blockID := setupBlock(t, h)
	due := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	card, err := h.store.CreateCard(blockID, CardDraft{
		Title:       "Fix bug",
		Description: "**urgent**",
		Checklist:   []string{"repro", "patch"},
		Labels:      []string{"bug"},
		DueDate:     &due,
	})
	require.NoError(t, err)

	require.NoError(t, h.store.ArchiveItem(card.ID))
	require.NoError(t, h.store.RestoreItem(card.ID))

	it, ok := h.store.Item(card.ID)
	require.True(t, ok)
	restored := it.(*domain.Card)
	assert.True(t, restored.UpdatedAt.After(card.UpdatedAt))

	restored.UpdatedAt = card.UpdatedAt
	assert.Equal(t, card, restored)
}

func TestRestoreItem_WithoutParentBlockFails(t *testing.T) {
	h := newEmptyStore(t)
	boardID, blockID := setupBlock(t, h)
	card, err := h.store.CreateCard(blockID, CardDraft{Title: "Fix bug"})
	require.NoError(t, err)
	require.NoError(t, h.store.ArchiveItem(card.ID))
	require.NoError(t, h.store.DeleteBlock(blockID))
	before := h.store.Archived()

	err = h.store.RestoreItem(card.ID)
	requireCode(t, err, domainerrors.CodeNotFound)

	assert.Equal(t, before, h.store.Archived())
	_, live := h.store.Item(card.ID)
	assert.False(t, live)
	board, _ := h.store.Board(boardID)
	assert.Empty(t, board.Blocks)
}

func TestRestoreItem_ArchivedBoardFails(t *testing.T) {
	h := newEmptyStore(t)
	boardID, blockID := setupBlock(t, h)
	note, err := h.store.CreateMarkdownNote(blockID, "hello")
	require.NoError(t, err)
	require.NoError(t, h.store.ArchiveItem(note.ID))
	require.NoError(t, h.store.ArchiveBoard(boardID))

	requireCode(t, h.store.RestoreItem(note.ID), domainerrors.CodeNotFound)
	assert.Len(t, h.store.Archived().Notes, 1)
}

func TestCreateItems_OrderIsMonotonic(t *testing.T) {
	h := newEmptyStore(t)
	_, blockID := setupBlock(t, h)

	c, err := h.store.CreateCard(blockID, CardDraft{Title: "one"})
	require.NoError(t, err)
	s, err := h.store.CreateSpreadsheet(blockID, "two", nil)
	require.NoError(t, err)
	n, err := h.store.CreateMarkdownNote(blockID, "three")
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, []int{c.Order, s.Order, n.Order})

	// Orders continue from the maximum, not the count.
	require.NoError(t, h.store.DeleteItem(s.ID))
	next, err := h.store.CreateCard(blockID, CardDraft{Title: "four"})
	require.NoError(t, err)
	assert.Equal(t, 3, next.Order)
}

func TestCreateCard(t *testing.T) {
	h := newEmptyStore(t)
	_, blockID := setupBlock(t, h)

	card, err := h.store.CreateCard(blockID, CardDraft{Title: " Fix bug ", Checklist: []string{"repro"}})
	require.NoError(t, err)
	assert.Equal(t, "Fix bug", card.Title)
	assert.Equal(t, domain.KindCard, card.Type)
	assert.Equal(t, blockID, card.BlockID)
	assert.Equal(t, domain.StatusPending, card.Status)
	require.Len(t, card.Checklist, 1)
	assert.NotEmpty(t, card.Checklist[0].ID)
	assert.False(t, card.Checklist[0].Completed)

	_, err = h.store.CreateCard("block-missing", CardDraft{Title: "x"})
	requireCode(t, err, domainerrors.CodeNotFound)

	covered, err := h.store.CreateCard(blockID, CardDraft{Title: "x", Cover: "covers/red.png"})
	require.NoError(t, err)
	assert.Equal(t, "covers/red.png", covered.Cover)
}

func TestCreateSpreadsheet_Defaults(t *testing.T) {
	h := newEmptyStore(t)
	_, blockID := setupBlock(t, h)

	sheet, err := h.store.CreateSpreadsheet(blockID, "Budget", nil)
	require.NoError(t, err)
	require.Len(t, sheet.Columns, 1)
	assert.Equal(t, "Column 1", sheet.Columns[0].Name)
	assert.Equal(t, domain.ColumnText, sheet.Columns[0].Type)
	assert.Equal(t, domain.DefaultColumnWidth, sheet.Columns[0].Width)
	assert.NotEmpty(t, sheet.Columns[0].ID)
	assert.NotNil(t, sheet.Rows)
	assert.False(t, sheet.LastEditedAt.IsZero())

	_, err = h.store.CreateSpreadsheet(blockID, "Bad", []domain.SheetColumn{{Name: "X", Type: "emoji"}})
	requireCode(t, err, domainerrors.CodeValidation)
}

func TestCreateMarkdownNoteFromHTML(t *testing.T) {
	h := newEmptyStore(t)
	_, blockID := setupBlock(t, h)

	note, err := h.store.CreateMarkdownNoteFromHTML(blockID, "<p>Ship <b>today</b></p>")
	require.NoError(t, err)
	assert.Equal(t, "Ship **today**", note.Content)
	assert.Equal(t, domain.KindMarkdownNote, note.Type)
}

func TestUpdateItem(t *testing.T) {
	h := newEmptyStore(t)
	_, blockID := setupBlock(t, h)
	sheet, err := h.store.CreateSpreadsheet(blockID, "Budget", nil)
	require.NoError(t, err)

	edit := sheet.Clone().(*domain.Spreadsheet)
	edit.Title = "Budget 2026"
	edit.Rows = []domain.SheetRow{{ID: "row-1", Cells: map[string]any{sheet.Columns[0].ID: "Rent"}}}
	edit.Order = 42
	edit.BlockID = "elsewhere"

	got, err := h.store.UpdateItem(edit)
	require.NoError(t, err)
	updated := got.(*domain.Spreadsheet)
	assert.Equal(t, "Budget 2026", updated.Title)
	assert.Len(t, updated.Rows, 1)
	assert.Equal(t, sheet.Order, updated.Order)
	assert.Equal(t, blockID, updated.BlockID)
	assert.Equal(t, sheet.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.LastEditedAt.After(sheet.LastEditedAt))
	assert.True(t, h.rec.hasEvent(EventItemUpdated, sheet.ID))
}

func TestUpdateItem_Errors(t *testing.T) {
	h := newEmptyStore(t)
	_, blockID := setupBlock(t, h)
	card, err := h.store.CreateCard(blockID, CardDraft{Title: "Fix bug"})
	require.NoError(t, err)

	_, err = h.store.UpdateItem(nil)
	requireCode(t, err, domainerrors.CodeValidation)

	impostor := &domain.MarkdownNote{ItemBase: domain.ItemBase{ID: card.ID}, Content: "hi"}
	_, err = h.store.UpdateItem(impostor)
	requireCode(t, err, domainerrors.CodeValidation)

	ghost := &domain.Card{ItemBase: domain.ItemBase{ID: "card-missing"}}
	_, err = h.store.UpdateItem(ghost)
	requireCode(t, err, domainerrors.CodeNotFound)
}

func TestUpdateItem_StoresLongTitle(t *testing.T) {
	h := newEmptyStore(t)
	_, blockID := setupBlock(t, h)
	card, err := h.store.CreateCard(blockID, CardDraft{Title: "Fix bug"})
	require.NoError(t, err)

	edit := card.Clone().(*domain.Card)
	edit.Title = strings.Repeat("t", 501)
	got, err := h.store.UpdateItem(edit)
	require.NoError(t, err)
	assert.Equal(t, edit.Title, got.(*domain.Card).Title)
}

func TestToggleCardStatusAndChecklist(t *testing.T) {
	h := newEmptyStore(t)
	_, blockID := setupBlock(t, h)
	card, err := h.store.CreateCard(blockID, CardDraft{Title: "Fix bug", Checklist: []string{"repro", "patch"}})
	require.NoError(t, err)

	got, err := h.store.ToggleCardStatus(card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	got, err = h.store.ToggleCardStatus(card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	got, err = h.store.ToggleChecklistItem(card.ID, card.Checklist[1].ID)
	require.NoError(t, err)
	done, total := got.ChecklistProgress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)
	assert.True(t, got.Checklist[1].Completed)

	_, err = h.store.ToggleChecklistItem(card.ID, "chk-missing")
	requireCode(t, err, domainerrors.CodeNotFound)

	note, err := h.store.CreateMarkdownNote(blockID, "not a card")
	require.NoError(t, err)
	_, err = h.store.ToggleCardStatus(note.ID)
	requireCode(t, err, domainerrors.CodeValidation)
}

func TestDeleteItem(t *testing.T) {
	h := newEmptyStore(t)
	_, blockID := setupBlock(t, h)
	live, err := h.store.CreateCard(blockID, CardDraft{Title: "live"})
	require.NoError(t, err)
	archived, err := h.store.CreateCard(blockID, CardDraft{Title: "archived"})
	require.NoError(t, err)
	require.NoError(t, h.store.ArchiveItem(archived.ID))

	require.NoError(t, h.store.DeleteItem(live.ID))
	require.NoError(t, h.store.DeleteItem(archived.ID))

	assert.Empty(t, itemIDs(t, h, blockID))
	assert.Empty(t, h.store.Archived().Cards)
	requireCode(t, h.store.DeleteItem(live.ID), domainerrors.CodeNotFound)
}

func TestMoveItem_WithinBlock(t *testing.T) {
	h := newEmptyStore(t)
	_, blockID := setupBlock(t, h)
	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		c, err := h.store.CreateCard(blockID, CardDraft{Title: title})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	moved, err := h.store.MoveItem(ids[0], blockID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, moved.Header().Order)
	assert.Equal(t, []string{ids[1], ids[2], ids[0]}, itemIDs(t, h, blockID))

	bl, _ := h.store.Block(blockID)
	for i, it := range bl.Items.Sorted() {
		assert.Equal(t, i, it.Header().Order)
	}
}

func TestMoveItem_AcrossBoards(t *testing.T) {
	h := newEmptyStore(t)
	_, from := setupBlock(t, h)
	_, to := setupBlock(t, h)
	a, err := h.store.CreateCard(from, CardDraft{Title: "a"})
	require.NoError(t, err)
	b, err := h.store.CreateCard(from, CardDraft{Title: "b"})
	require.NoError(t, err)
	x, err := h.store.CreateCard(to, CardDraft{Title: "x"})
	require.NoError(t, err)

	moved, err := h.store.MoveItem(a.ID, to, 0)
	require.NoError(t, err)
	assert.Equal(t, to, moved.Header().BlockID)
	assert.Equal(t, 0, moved.Header().Order)

	assert.Equal(t, []string{b.ID}, itemIDs(t, h, from))
	assert.Equal(t, []string{a.ID, x.ID}, itemIDs(t, h, to))

	rest, _ := h.store.Item(b.ID)
	assert.Equal(t, 0, rest.Header().Order)

	_, err = h.store.MoveItem(a.ID, "block-missing", 0)
	requireCode(t, err, domainerrors.CodeNotFound)
}

func TestMoveItem_LastItemToFrontOfOtherBlock(t *testing.T) {
	h := newEmptyStore(t)
	boardID, from := setupBlock(t, h)
	to, err := h.store.CreateBlock(boardID, "Done")
	require.NoError(t, err)

	var src []string
	for _, title := range []string{"a0", "a1", "a2"} {
		c, err := h.store.CreateCard(from, CardDraft{Title: title})
		require.NoError(t, err)
		src = append(src, c.ID)
	}
	x, err := h.store.CreateCard(to.ID, CardDraft{Title: "x"})
	require.NoError(t, err)

	moved, err := h.store.MoveItem(src[2], to.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Header().Order)
	assert.Equal(t, []string{src[2], x.ID}, itemIDs(t, h, to.ID))
	assert.Equal(t, []string{src[0], src[1]}, itemIDs(t, h, from))

	bl, _ := h.store.Block(to.ID)
	for i, it := range bl.Items {
		assert.Equal(t, i, it.Header().Order)
	}
}
