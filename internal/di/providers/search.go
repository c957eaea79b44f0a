package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/corkboard/internal/logger"
	"github.com/listenupapp/corkboard/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index. It is filled when
// the workspace loads.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(log.WithComponent("search"))
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: index}, nil
}
