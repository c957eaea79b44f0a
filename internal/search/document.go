// Package search provides full-text search over the live boards using Bleve.
// Boards, blocks and items are indexed as flat documents tagged with the
// board and block they belong to.
package search

import (
	"fmt"
	"strings"

	"github.com/listenupapp/corkboard/internal/domain"
)

// Document is the unified document structure for the Bleve index.
type Document struct {
	ID      string            `json:"id"`
	Kind    domain.EntityKind `json:"kind"`
	BoardID string            `json:"board_id"`
	BlockID string            `json:"block_id,omitempty"`

	// Title is the primary search target: board or block name, card or
	// spreadsheet title, first line of a note, file name.
	Title string `json:"title"`

	// Body holds the remaining searchable text of an item.
	Body string `json:"body,omitempty"`

	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"kind":       string(d.Kind),
		"board_id":   d.BoardID,
		"title":      d.Title,
		"updated_at": d.UpdatedAt,
	}
	if d.BlockID != "" {
		m["block_id"] = d.BlockID
	}
	if d.Body != "" {
		m["body"] = d.Body
	}
	return m
}

// BoardDocuments flattens a board into one document for the board, one per
// block and one per item.
func BoardDocuments(b domain.Board) []*Document {
	docs := []*Document{{
		ID:        b.ID,
		Kind:      domain.KindBoard,
		BoardID:   b.ID,
		Title:     b.Name,
		UpdatedAt: b.UpdatedAt.UnixMilli(),
	}}
	for _, bl := range b.Blocks {
		docs = append(docs, &Document{
			ID:        bl.ID,
			Kind:      domain.KindBlock,
			BoardID:   b.ID,
			BlockID:   bl.ID,
			Title:     bl.Name,
			UpdatedAt: bl.UpdatedAt.UnixMilli(),
		})
		for _, it := range bl.Items {
			docs = append(docs, ItemDocument(b.ID, it))
		}
	}
	return docs
}

// ItemDocument converts one item to a Document.
func ItemDocument(boardID string, it domain.Item) *Document {
	h := it.Header()
	return &Document{
		ID:        h.ID,
		Kind:      h.Type,
		BoardID:   boardID,
		BlockID:   h.BlockID,
		Title:     domain.Title(it),
		Body:      itemBody(it),
		UpdatedAt: h.UpdatedAt.UnixMilli(),
	}
}

func itemBody(it domain.Item) string {
	var parts []string
	switch v := it.(type) {
	case *domain.Card:
		parts = append(parts, v.Description)
		for _, ci := range v.Checklist {
			parts = append(parts, ci.Text)
		}
		parts = append(parts, v.Labels...)
		for _, a := range v.Attachments {
			parts = append(parts, a.Name)
		}
	case *domain.Spreadsheet:
		for _, c := range v.Columns {
			parts = append(parts, c.Name)
		}
		for _, r := range v.Rows {
			for _, cell := range r.Cells {
				if cell != nil {
					parts = append(parts, fmt.Sprint(cell))
				}
			}
		}
	case *domain.MarkdownNote:
		parts = append(parts, v.Content)
	case *domain.FileItem:
		parts = append(parts, v.FileType)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
