package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/listenupapp/corkboard/internal/domain"
)

// DefaultLimit is the number of hits returned when the caller passes no limit.
const DefaultLimit = 20

// Hit is a single search result.
type Hit struct {
	ID      string            `json:"id"`
	Kind    domain.EntityKind `json:"kind"`
	BoardID string            `json:"boardId"`
	BlockID string            `json:"blockId,omitempty"`
	Title   string            `json:"title"`
	Score   float64           `json:"score"`
}

// Search returns the best matches for q, most relevant first. A blank query
// matches nothing.
func (x *Index) Search(ctx context.Context, q string, limit int) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Hit{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildQuery(q), limit, 0, false)
	req.SortBy([]string{"-_score", "title"})
	req.Fields = []string{"kind", "board_id", "block_id", "title"}

	res, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields["kind"].(string); ok {
			hit.Kind = domain.EntityKind(v)
		}
		if v, ok := h.Fields["board_id"].(string); ok {
			hit.BoardID = v
		}
		if v, ok := h.Fields["block_id"].(string); ok {
			hit.BlockID = v
		}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// buildQuery matches titles first, then bodies, tolerating one typo and
// completing a partially typed title word.
func buildQuery(q string) query.Query {
	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	bodyMatch := bleve.NewMatchQuery(q)
	bodyMatch.SetField("body")

	fuzzy := bleve.NewMatchQuery(q)
	fuzzy.SetField("title")
	fuzzy.SetFuzziness(1)
	fuzzy.SetBoost(0.8)

	queries := []query.Query{titleMatch, bodyMatch, fuzzy}

	// Prefix for autocomplete on the last word (minimum 2 chars)
	words := strings.Fields(strings.ToLower(q))
	if last := words[len(words)-1]; len(last) >= 2 {
		prefix := bleve.NewPrefixQuery(last)
		prefix.SetField("title_prefix")
		prefix.SetBoost(0.5)
		queries = append(queries, prefix)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
