package workspace

import (
	"slices"
	"strings"
	"time"

	"github.com/listenupapp/corkboard/internal/domain"
	domainerrors "github.com/listenupapp/corkboard/internal/errors"
	"github.com/listenupapp/corkboard/internal/id"
	"github.com/listenupapp/corkboard/internal/markdown"
)

// CardDraft holds the caller-supplied fields of a new card.
type CardDraft struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Checklist    []string   `json:"checklist,omitempty"`
	Labels       []string   `json:"labels,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ReminderDate *time.Time `json:"reminderDate,omitempty"`
	Cover        string     `json:"cover,omitempty"`
}

// CreateCard adds a pending card to a block.
func (s *Store) CreateCard(blockID string, draft CardDraft) (*domain.Card, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	desc, err := markdown.FromHTML(draft.Description)
	if err != nil {
		return nil, s.reject(&fx, domainerrors.Wrap(err, domainerrors.CodeValidation, "could not convert card description"))
	}

	card := &domain.Card{
		Title:        strings.TrimSpace(draft.Title),
		Description:  desc,
		Status:       domain.StatusPending,
		Labels:       slices.Clone(draft.Labels),
		DueDate:      draft.DueDate,
		ReminderDate: draft.ReminderDate,
		Cover:        draft.Cover,
	}
	for _, text := range draft.Checklist {
		chkID, err := s.newID(id.PrefixChecklist)
		if err != nil {
			return nil, s.reject(&fx, err)
		}
		card.Checklist = append(card.Checklist, domain.ChecklistItem{ID: chkID, Text: text})
	}

	// Clone detaches the caller's date pointers.
	it, err := s.insertItem(&fx, blockID, card.Clone())
	if err != nil {
		return nil, err
	}
	return it.(*domain.Card), nil
}

// CreateSpreadsheet adds a spreadsheet to a block. Columns without an id or
// width get one; with no columns a single text column is created.
func (s *Store) CreateSpreadsheet(blockID, title string, columns []domain.SheetColumn) (*domain.Spreadsheet, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(columns) == 0 {
		columns = []domain.SheetColumn{{Name: "Column 1", Type: domain.ColumnText}}
	}
	cols := make([]domain.SheetColumn, len(columns))
	for i, c := range columns {
		if c.ID == "" {
			colID, err := s.newID(id.PrefixColumn)
			if err != nil {
				return nil, s.reject(&fx, err)
			}
			c.ID = colID
		}
		if c.Width <= 0 {
			c.Width = domain.DefaultColumnWidth
		}
		if c.Type == "" {
			c.Type = domain.ColumnText
		}
		cols[i] = c
	}

	sheet := &domain.Spreadsheet{
		Title:        strings.TrimSpace(title),
		Columns:      cols,
		Rows:         []domain.SheetRow{},
		LastEditedAt: s.now(),
	}
	if err := s.validator.Validate(sheet); err != nil {
		return nil, s.reject(&fx, err)
	}

	it, err := s.insertItem(&fx, blockID, sheet)
	if err != nil {
		return nil, err
	}
	return it.(*domain.Spreadsheet), nil
}

// CreateMarkdownNote adds a markdown note to a block.
func (s *Store) CreateMarkdownNote(blockID, content string) (*domain.MarkdownNote, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.insertItem(&fx, blockID, &domain.MarkdownNote{Content: content})
	if err != nil {
		return nil, err
	}
	return it.(*domain.MarkdownNote), nil
}

// CreateMarkdownNoteFromHTML converts pasted HTML to markdown and adds it as a note.
// Input without markup is stored as-is.
func (s *Store) CreateMarkdownNoteFromHTML(blockID, html string) (*domain.MarkdownNote, error) {
	content, err := markdown.FromHTML(html)
	if err != nil {
		var fx effects
		err = s.reject(&fx, domainerrors.Wrap(err, domainerrors.CodeValidation, "could not convert pasted content"))
		s.deliver(&fx)
		return nil, err
	}
	return s.CreateMarkdownNote(blockID, content)
}

// insertItem stamps a new item's header and appends it to a block with order
// max+1. Callers must hold s.mu.
func (s *Store) insertItem(fx *effects, blockID string, it domain.Item) (domain.Item, error) {
	bi, bli, ok := s.locateBlock(blockID)
	if !ok || s.boards[bi].Archived {
		return nil, s.notFound(fx, "block %s not found", blockID)
	}

	kind := kindOf(it)
	itemID, err := s.newID(prefixFor(kind))
	if err != nil {
		return nil, s.reject(fx, err)
	}

	now := s.now()
	h := it.Header()
	h.ID = itemID
	h.Type = kind
	h.BlockID = blockID
	h.Order = s.boards[bi].Blocks[bli].Items.NextOrder()
	h.Archived = false
	h.InitTimestamps(now)

	board := s.updateBlock(bi, bli, func(bl *domain.Block) {
		bl.Items = append(bl.Items, it)
	})
	s.docs.SaveBoards(s.boards)

	fx.emit(EventItemCreated, itemID, now)
	fx.touchBoard(board)
	s.logger.Debug("item created", "item_id", itemID, "type", kind, "block_id", blockID, "order", h.Order)
	return it.Clone(), nil
}

// UpdateItem replaces a live item with item. The id, type, block, order and
// creation time of the stored item are kept; spreadsheets get a fresh lastEditedAt.
func (s *Store) UpdateItem(item domain.Item) (domain.Item, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if item == nil {
		return nil, s.reject(&fx, domainerrors.Validation("item is required"))
	}
	itemID := item.Header().ID
	bi, bli, ii, ok := s.locateItem(itemID)
	if !ok {
		return nil, s.notFound(&fx, "item %s not found", itemID)
	}
	current := s.boards[bi].Blocks[bli].Items[ii]
	if kindOf(item) != current.Header().Type {
		return nil, s.reject(&fx, domainerrors.Validationf("item %s is a %s, not a %s", itemID, current.Header().Type, kindOf(item)))
	}
	if err := s.validator.Validate(item); err != nil {
		return nil, s.reject(&fx, err)
	}

	now := s.now()
	next := item.Clone()
	h, prev := next.Header(), current.Header()
	h.Type = prev.Type
	h.BlockID = prev.BlockID
	h.Order = prev.Order
	h.Archived = false
	h.CreatedAt = prev.CreatedAt
	h.Touch(now)
	if sheet, ok := next.(*domain.Spreadsheet); ok {
		sheet.LastEditedAt = now
	}

	board := s.replaceItem(bi, bli, ii, next)
	fx.emit(EventItemUpdated, itemID, now)
	fx.touchBoard(board)
	return next.Clone(), nil
}

// ToggleCardStatus flips a card between pending and completed.
func (s *Store) ToggleCardStatus(cardID string) (*domain.Card, error) {
	return s.editCard(cardID, func(c *domain.Card) error {
		if c.Status == domain.StatusCompleted {
			c.Status = domain.StatusPending
		} else {
			c.Status = domain.StatusCompleted
		}
		return nil
	})
}

// ToggleChecklistItem flips one checklist entry of a card.
func (s *Store) ToggleChecklistItem(cardID, checklistID string) (*domain.Card, error) {
	return s.editCard(cardID, func(c *domain.Card) error {
		i := slices.IndexFunc(c.Checklist, func(ci domain.ChecklistItem) bool { return ci.ID == checklistID })
		if i < 0 {
			return domainerrors.NotFoundf("checklist item %s not found on card %s", checklistID, cardID)
		}
		c.Checklist[i].Completed = !c.Checklist[i].Completed
		return nil
	})
}

func (s *Store) editCard(cardID string, fn func(c *domain.Card) error) (*domain.Card, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi, bli, ii, ok := s.locateItem(cardID)
	if !ok {
		return nil, s.notFound(&fx, "card %s not found", cardID)
	}
	card, ok := s.boards[bi].Blocks[bli].Items[ii].Clone().(*domain.Card)
	if !ok {
		return nil, s.reject(&fx, domainerrors.Validationf("item %s is not a card", cardID))
	}
	if err := fn(card); err != nil {
		return nil, s.reject(&fx, err)
	}

	now := s.now()
	card.Touch(now)
	board := s.replaceItem(bi, bli, ii, card)
	fx.emit(EventItemUpdated, cardID, now)
	fx.touchBoard(board)
	return card.Clone().(*domain.Card), nil
}

// replaceItem swaps in it at position ii and persists the boards.
func (s *Store) replaceItem(bi, bli, ii int, it domain.Item) domain.Board {
	board := s.updateBlock(bi, bli, func(bl *domain.Block) {
		bl.Items[ii] = it
	})
	s.docs.SaveBoards(s.boards)
	return board
}

// ArchiveItem moves a live item into its kind's archive slot.
func (s *Store) ArchiveItem(itemID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi, bli, ii, ok := s.locateItem(itemID)
	if !ok {
		return s.notFound(&fx, "item %s not found", itemID)
	}

	now := s.now()
	record := s.boards[bi].Blocks[bli].Items[ii].Clone()
	record.Header().Archived = true
	record.Header().Touch(now)

	board := s.updateBlock(bi, bli, func(bl *domain.Block) {
		bl.Items = slices.Delete(bl.Items, ii, ii+1)
	})
	s.archived = s.archived.WithItem(record)

	s.docs.SaveBoards(s.boards)
	s.docs.SaveArchived(s.archived)

	fx.emit(EventItemArchived, itemID, now)
	fx.touchBoard(board)
	return nil
}

// RestoreItem reinserts an archived item into its block at the position its
// order implies. The block must still be live; otherwise nothing changes.
func (s *Store) RestoreItem(itemID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.archived.FindItem(itemID)
	if !ok {
		return s.notFound(&fx, "archived item %s not found", itemID)
	}
	blockID := record.Header().BlockID

	bi, bli, ok := s.locateBlock(blockID)
	if !ok || s.boards[bi].Archived {
		return s.notFound(&fx, "block %s for %q no longer exists", blockID, domain.Title(record))
	}

	now := s.now()
	restored := record.Clone()
	restored.Header().Archived = false
	restored.Header().Touch(now)

	board := s.updateBlock(bi, bli, func(bl *domain.Block) {
		if i := bl.Items.Index(itemID); i >= 0 {
			bl.Items[i] = restored
			return
		}
		bl.Items = insertItemByOrder(bl.Items, restored)
	})
	s.archived = s.archived.WithoutItem(itemID)

	s.docs.SaveBoards(s.boards)
	s.docs.SaveArchived(s.archived)

	fx.emit(EventItemRestored, itemID, now)
	fx.touchBoard(board)
	return nil
}

// DeleteItem permanently removes an item from its block and from the archive.
func (s *Store) DeleteItem(itemID string) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	bi, bli, ii, live := s.locateItem(itemID)
	archivedItem, archived := s.archived.FindItem(itemID)
	if !live && !archived {
		return s.notFound(&fx, "item %s not found", itemID)
	}

	var removed []domain.Item
	if archived {
		removed = append(removed, archivedItem)
	}
	if live {
		removed = append(removed, s.boards[bi].Blocks[bli].Items[ii])
		board := s.updateBlock(bi, bli, func(bl *domain.Block) {
			bl.Items = slices.Delete(bl.Items, ii, ii+1)
		})
		fx.touchBoard(board)
		s.docs.SaveBoards(s.boards)
	}
	if archived {
		s.archived = s.archived.WithoutItem(itemID)
		s.docs.SaveArchived(s.archived)
	}
	s.releaseUnreferenced(&fx, itemFileURLs(removed))

	fx.emit(EventItemDeleted, itemID, s.now())
	return nil
}

// MoveItem moves an item to position index of the target block, which may be
// its current block. Both blocks are renumbered 0..n-1.
func (s *Store) MoveItem(itemID, toBlockID string, index int) (domain.Item, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	sbi, sbli, ii, ok := s.locateItem(itemID)
	if !ok {
		return nil, s.notFound(&fx, "item %s not found", itemID)
	}
	tbi, tbli, ok := s.locateBlock(toBlockID)
	if !ok || s.boards[tbi].Archived {
		return nil, s.notFound(&fx, "block %s not found", toBlockID)
	}

	now := s.now()
	moved := s.boards[sbi].Blocks[sbli].Items[ii].Clone()
	moved.Header().BlockID = toBlockID
	moved.Header().Touch(now)

	s.updateBlock(sbi, sbli, func(bl *domain.Block) {
		bl.Items = slices.Delete(bl.Items, ii, ii+1)
		if sbi != tbi || sbli != tbli {
			bl.Items = renumberItems(bl.Items.Sorted(), now)
		}
	})
	board := s.updateBlock(tbi, tbli, func(bl *domain.Block) {
		sorted := bl.Items.Sorted()
		sorted = slices.Insert(sorted, clampIndex(index, len(sorted)), moved)
		bl.Items = renumberItems(sorted, now)
	})
	s.docs.SaveBoards(s.boards)

	if sbi != tbi {
		fx.touchBoard(s.boards[sbi])
	}
	fx.emit(EventItemUpdated, itemID, now)
	fx.touchBoard(board)

	it, _ := s.findItemIn(board, itemID)
	return it, nil
}

func (s *Store) findItemIn(board domain.Board, itemID string) (domain.Item, bool) {
	for _, bl := range board.Blocks {
		if i := bl.Items.Index(itemID); i >= 0 {
			return bl.Items[i].Clone(), true
		}
	}
	return nil, false
}

// kindOf derives the type tag from the concrete variant.
func kindOf(it domain.Item) domain.ItemKind {
	switch it.(type) {
	case *domain.Card:
		return domain.KindCard
	case *domain.Spreadsheet:
		return domain.KindSpreadsheet
	case *domain.MarkdownNote:
		return domain.KindMarkdownNote
	case *domain.FileItem:
		return domain.KindFile
	default:
		return it.Header().Type
	}
}
