package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/listenupapp/corkboard/internal/domain"
	domainerrors "github.com/listenupapp/corkboard/internal/errors"
	"github.com/listenupapp/corkboard/internal/media"
)

// FileImport is the pending result of ImportFile.
//
// If the context passed to ImportFile is cancelled before the content is
// resolved, no item is created and the import fails with the context's error.
// Once resolution finishes the item is added in a single mutation, which fails
// with NotFound if the target block was removed in the meantime.
type FileImport struct {
	done chan struct{}
	item *domain.FileItem
	err  error
}

// Done is closed when the import has finished, successfully or not.
func (f *FileImport) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the import finishes or ctx is done. Abandoning the wait
// does not cancel the import.
func (f *FileImport) Wait(ctx context.Context) (*domain.FileItem, error) {
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome. It must only be called after Done is closed.
func (f *FileImport) Result() (*domain.FileItem, error) {
	if f.item == nil {
		return nil, f.err
	}
	return f.item.Clone().(*domain.FileItem), f.err
}

func (f *FileImport) finish(item *domain.FileItem, err error) {
	f.item, f.err = item, err
	close(f.done)
}

// ImportFile resolves src to a URL in the background and then adds it to
// blockID as a FileItem.
func (s *Store) ImportFile(ctx context.Context, blockID string, src media.Source) *FileImport {
	f := &FileImport{done: make(chan struct{})}

	if err := s.checkFileImport(blockID, src); err != nil {
		f.finish(nil, err)
		return f
	}

	go func() {
		resolved, err := s.resolver.Resolve(ctx, src)
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.logger.Debug("file import cancelled", "block_id", blockID, "name", src.Name)
			if err == nil {
				s.resolver.Release(resolved.URL)
			}
			f.finish(nil, ctxErr)
			return
		}
		if err != nil {
			f.finish(nil, s.failFileImport(src, err))
			return
		}
		f.finish(s.addFile(blockID, src.Name, resolved))
	}()
	return f
}

// checkFileImport rejects imports that cannot succeed before any work starts.
func (s *Store) checkFileImport(blockID string, src media.Source) error {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validator.Validate(src); err != nil {
		return s.reject(&fx, err)
	}
	if bi, _, ok := s.locateBlock(blockID); !ok || s.boards[bi].Archived {
		return s.notFound(&fx, "block %s not found", blockID)
	}
	return nil
}

func (s *Store) failFileImport(src media.Source, err error) error {
	var fx effects
	defer s.deliver(&fx)

	code := domainerrors.CodeInternal
	if errors.Is(err, media.ErrEmptyFile) {
		code = domainerrors.CodeValidation
	}
	s.logger.Warn("file import failed", "name", src.Name, "error", err)
	return s.reject(&fx, domainerrors.Wrap(err, code, "could not import "+src.Name))
}

func (s *Store) addFile(blockID, name string, r media.Resolved) (*domain.FileItem, error) {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.insertItem(&fx, blockID, &domain.FileItem{
		Name:      name,
		FileType:  r.FileType,
		URL:       r.URL,
		Thumbnail: r.Thumbnail,
		BlurHash:  r.BlurHash,
		Size:      r.Size,
	})
	if err != nil {
		fx.release = append(fx.release, r.URL)
		return nil, err
	}
	return it.(*domain.FileItem), nil
}

// releaseUnreferenced queues the urls that no live or archived file item
// still refers to. Must be called with s.mu held, after the removal.
func (s *Store) releaseUnreferenced(fx *effects, urls []string) {
	if len(urls) == 0 {
		return
	}
	inUse := s.referencedFiles()
	for _, u := range urls {
		if !inUse[u] && !slices.Contains(fx.release, u) {
			fx.release = append(fx.release, u)
		}
	}
}

// referencedFiles returns the URLs of every live and archived file item.
// Must be called with s.mu held.
func (s *Store) referencedFiles() map[string]bool {
	inUse := make(map[string]bool)
	for _, u := range boardFileURLs(s.boards) {
		inUse[u] = true
	}
	for _, u := range boardFileURLs(s.archived.Boards) {
		inUse[u] = true
	}
	for _, u := range blockFileURLs(s.archived.Blocks) {
		inUse[u] = true
	}
	for _, f := range s.archived.Files {
		inUse[f.URL] = true
	}
	return inUse
}

// releaseFiles hands urls back to the resolver unless a saved version still
// refers to them. Must be called without s.mu held.
func (s *Store) releaseFiles(urls []string) {
	if len(urls) == 0 {
		return
	}
	versions := s.versions.List()
	for _, u := range urls {
		if pinnedByVersion(versions, u) {
			s.logger.Debug("file kept for saved version", "url", u)
			continue
		}
		s.resolver.Release(u)
	}
}

// sweepFiles releases stored files that neither inUse nor a saved version
// refers to. Must be called without s.mu held.
func (s *Store) sweepFiles(inUse map[string]bool) {
	var orphans []string
	for _, u := range s.resolver.Stored() {
		if !inUse[u] {
			orphans = append(orphans, u)
		}
	}
	if len(orphans) > 0 {
		s.logger.Info("releasing unreferenced files", "count", len(orphans))
	}
	s.releaseFiles(orphans)
}

func pinnedByVersion(versions []domain.Version, u string) bool {
	quoted, err := json.Marshal(u)
	if err != nil {
		return true
	}
	for _, v := range versions {
		if strings.Contains(v.Data, string(quoted)) {
			return true
		}
	}
	return false
}

func itemFileURLs(items []domain.Item) []string {
	var urls []string
	for _, it := range items {
		if f, ok := it.(*domain.FileItem); ok && f.URL != "" {
			urls = append(urls, f.URL)
		}
	}
	return urls
}

func blockFileURLs(blocks []domain.Block) []string {
	var urls []string
	for _, bl := range blocks {
		urls = append(urls, itemFileURLs(bl.Items)...)
	}
	return urls
}

func boardFileURLs(boards []domain.Board) []string {
	var urls []string
	for _, b := range boards {
		urls = append(urls, blockFileURLs(b.Blocks)...)
	}
	return urls
}
