package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/corkboard/internal/domain"
	"github.com/listenupapp/corkboard/internal/logger"
)

// Index wraps an in-memory Bleve index of the live boards.
//
// Thread safety: All public methods are safe for concurrent use.
// The mutex also keeps the per-board document bookkeeping in step with the index.
type Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	logger *slog.Logger

	// boardDocs lists the document ids indexed for each board, so a board
	// can be replaced or dropped without querying the index.
	boardDocs map[string][]string
}

// NewIndex creates an empty in-memory index.
func NewIndex(log *slog.Logger) (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{
		index:     index,
		logger:    logger.OrDiscard(log),
		boardDocs: make(map[string][]string),
	}, nil
}

// Close closes the index and releases resources.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.index.Close()
}

// IndexBoard replaces every document of the board with its current contents.
// An archived board is removed instead.
func (x *Index) IndexBoard(ctx context.Context, board domain.Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	if board.Archived {
		return x.deleteBoardLocked(board.ID)
	}
	return x.indexBoardLocked(board)
}

// DeleteBoard removes every document of the board.
func (x *Index) DeleteBoard(ctx context.Context, boardID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.deleteBoardLocked(boardID)
}

// Reindex drops everything and indexes boards from scratch.
func (x *Index) Reindex(ctx context.Context, boards []domain.Board) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	batch := x.index.NewBatch()
	for _, ids := range x.boardDocs {
		for _, id := range ids {
			batch.Delete(id)
		}
	}
	if batch.Size() > 0 {
		if err := x.index.Batch(batch); err != nil {
			return fmt.Errorf("clear index: %w", err)
		}
	}
	x.boardDocs = make(map[string][]string)

	for _, b := range boards {
		if err := ctx.Err(); err != nil {
			return err
		}
		if b.Archived {
			continue
		}
		if err := x.indexBoardLocked(b); err != nil {
			return err
		}
	}
	x.logger.Debug("search index rebuilt", "boards", len(x.boardDocs))
	return nil
}

// DocumentCount returns the total number of indexed documents.
func (x *Index) DocumentCount() (uint64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.DocCount()
}

func (x *Index) indexBoardLocked(board domain.Board) error {
	docs := BoardDocuments(board)

	batch := x.index.NewBatch()
	keep := make(map[string]bool, len(docs))
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
		keep[doc.ID] = true
		ids = append(ids, doc.ID)
	}
	for _, id := range x.boardDocs[board.ID] {
		if !keep[id] {
			batch.Delete(id)
		}
	}

	if err := x.index.Batch(batch); err != nil {
		return fmt.Errorf("commit board %s: %w", board.ID, err)
	}
	x.boardDocs[board.ID] = ids
	return nil
}

func (x *Index) deleteBoardLocked(boardID string) error {
	ids, ok := x.boardDocs[boardID]
	if !ok {
		return nil
	}
	batch := x.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	if err := x.index.Batch(batch); err != nil {
		return fmt.Errorf("delete board %s: %w", boardID, err)
	}
	delete(x.boardDocs, boardID)
	return nil
}
