package workspace

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/corkboard/internal/domain"
	domainerrors "github.com/listenupapp/corkboard/internal/errors"
	"github.com/listenupapp/corkboard/internal/media"
)

// releaseLog records the URLs handed back to a resolver.
type releaseLog struct {
	mu   sync.Mutex
	urls []string
}

func (l *releaseLog) Release(url string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.urls = append(l.urls, url)
}

func (l *releaseLog) Stored() []string { return nil }

func (l *releaseLog) released() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.urls...)
}

// blockingResolver resolves only after proceed is closed or ctx is done.
type blockingResolver struct {
	releaseLog
	started chan struct{}
	proceed chan struct{}
}

func newBlockingResolver() *blockingResolver {
	return &blockingResolver{started: make(chan struct{}), proceed: make(chan struct{})}
}

func (r *blockingResolver) Resolve(ctx context.Context, src media.Source) (media.Resolved, error) {
	close(r.started)
	select {
	case <-r.proceed:
		return media.Resolved{URL: "file:///tmp/" + src.Name, FileType: "text/plain", Size: int64(len(src.Data))}, nil
	case <-ctx.Done():
		return media.Resolved{}, ctx.Err()
	}
}

// cancellingResolver finishes resolving but cancels the caller's context first.
type cancellingResolver struct {
	releaseLog
	cancel context.CancelFunc
}

func (r *cancellingResolver) Resolve(_ context.Context, src media.Source) (media.Resolved, error) {
	r.cancel()
	return media.Resolved{URL: "file:///tmp/" + src.Name, FileType: "text/plain", Size: int64(len(src.Data))}, nil
}

func newDiskStore(t *testing.T) (*harness, *media.Storage) {
	t.Helper()
	st, err := media.NewStorage(t.TempDir(), "files")
	require.NoError(t, err)
	return newEmptyStore(t, WithFileResolver(media.NewResolver(st, nil))), st
}

func importText(t *testing.T, h *harness, blockID, name string) *domain.FileItem {
	t.Helper()
	item, err := waitImport(t, h.store.ImportFile(context.Background(), blockID, media.Source{Name: name, Data: []byte("content of " + name)}))
	require.NoError(t, err)
	return item
}

func blobPath(t *testing.T, fileURL string) string {
	t.Helper()
	u, err := url.Parse(fileURL)
	require.NoError(t, err)
	require.Equal(t, "file", u.Scheme)
	return filepath.FromSlash(u.Path)
}

func waitImport(t *testing.T, f *FileImport) (*domain.FileItem, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	item, err := f.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "import did not finish")
	return item, err
}

func setupFileBlock(t *testing.T, h *harness) domain.Block {
	t.Helper()
	b, err := h.store.CreateBoard("Files")
	require.NoError(t, err)
	bl, err := h.store.CreateBlock(b.ID, "Inbox")
	require.NoError(t, err)
	return bl
}

func TestImportFile_Inline(t *testing.T) {
	h := newEmptyStore(t)
	bl := setupFileBlock(t, h)

	f := h.store.ImportFile(context.Background(), bl.ID, media.Source{Name: "notes.txt", Data: []byte("hello world\n")})
	item, err := waitImport(t, f)
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", item.Name)
	assert.Equal(t, "text/plain", item.FileType)
	assert.True(t, strings.HasPrefix(item.URL, "data:text/plain;base64,"))
	assert.Equal(t, int64(12), item.Size)
	assert.Equal(t, bl.ID, item.BlockID)
	assert.Equal(t, 0, item.Order)

	got, ok := h.store.Item(item.ID)
	require.True(t, ok)
	assert.Equal(t, item.URL, got.(*domain.FileItem).URL)
	assert.True(t, h.rec.hasEvent(EventItemCreated, item.ID))
}

func TestImportFile_CancelledCreatesNothing(t *testing.T) {
	r := newBlockingResolver()
	h := newEmptyStore(t, WithFileResolver(r))
	bl := setupFileBlock(t, h)

	ctx, cancel := context.WithCancel(context.Background())
	f := h.store.ImportFile(ctx, bl.ID, media.Source{Name: "big.bin", Data: []byte{1, 2, 3}})
	<-r.started
	cancel()

	_, err := waitImport(t, f)
	require.ErrorIs(t, err, context.Canceled)

	got, ok := h.store.Block(bl.ID)
	require.True(t, ok)
	assert.Empty(t, got.Items)
}

func TestImportFile_BlockRemovedWhileResolving(t *testing.T) {
	r := newBlockingResolver()
	h := newEmptyStore(t, WithFileResolver(r))
	bl := setupFileBlock(t, h)

	f := h.store.ImportFile(context.Background(), bl.ID, media.Source{Name: "late.txt", Data: []byte("x")})
	<-r.started
	require.NoError(t, h.store.DeleteBlock(bl.ID))
	close(r.proceed)

	_, err := waitImport(t, f)
	requireCode(t, err, domainerrors.CodeNotFound)
	assert.Equal(t, []string{"file:///tmp/late.txt"}, r.released())
}

func TestImportFile_CancelledAfterResolveReleasesContent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &cancellingResolver{cancel: cancel}
	h := newEmptyStore(t, WithFileResolver(r))
	bl := setupFileBlock(t, h)

	_, err := waitImport(t, h.store.ImportFile(ctx, bl.ID, media.Source{Name: "done.txt", Data: []byte("x")}))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"file:///tmp/done.txt"}, r.released())

	got, _ := h.store.Block(bl.ID)
	assert.Empty(t, got.Items)
}

func TestDeleteItem_ReleasesStoredFile(t *testing.T) {
	h, _ := newDiskStore(t)
	bl := setupFileBlock(t, h)
	item := importText(t, h, bl.ID, "report.txt")
	path := blobPath(t, item.URL)
	require.FileExists(t, path)

	// A duplicated board shares the stored file.
	dup, err := h.store.DuplicateBoard(bl.BoardID)
	require.NoError(t, err)
	require.Len(t, dup.Blocks, 1)
	require.Len(t, dup.Blocks[0].Items, 1)
	copyID := dup.Blocks[0].Items[0].Header().ID

	require.NoError(t, h.store.DeleteItem(item.ID))
	assert.FileExists(t, path)

	require.NoError(t, h.store.ArchiveItem(copyID))
	assert.FileExists(t, path)

	require.NoError(t, h.store.DeleteItem(copyID))
	assert.NoFileExists(t, path)
}

func TestDeleteBlock_KeepsFileWhileSnapshotRefersToIt(t *testing.T) {
	h, st := newDiskStore(t)
	bl := setupFileBlock(t, h)
	item := importText(t, h, bl.ID, "plan.txt")
	path := blobPath(t, item.URL)

	require.NoError(t, h.store.DeleteBlock(bl.ID))
	assert.FileExists(t, path, "the snapshot taken before the delete still refers to the file")

	h.versions.Clear()
	h.store.Load()
	assert.NoFileExists(t, path)

	names, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDeleteBoard_ReleasesFilesOnNextLoad(t *testing.T) {
	h, _ := newDiskStore(t)
	bl := setupFileBlock(t, h)
	live := importText(t, h, bl.ID, "live.txt")
	archived := importText(t, h, bl.ID, "archived.txt")
	require.NoError(t, h.store.ArchiveItem(archived.ID))
	require.NoError(t, h.store.ArchiveBoard(bl.BoardID))

	require.NoError(t, h.store.DeleteBoard(bl.BoardID))
	h.versions.Clear()
	h.store.Load()

	assert.NoFileExists(t, blobPath(t, live.URL))
	// The archived item lives on in the archive.
	assert.FileExists(t, blobPath(t, archived.URL))

	require.NoError(t, h.store.DeleteItem(archived.ID))
	assert.NoFileExists(t, blobPath(t, archived.URL))
}

func TestLoad_SweepsUnreferencedFiles(t *testing.T) {
	h, st := newDiskStore(t)
	bl := setupFileBlock(t, h)
	kept := importText(t, h, bl.ID, "kept.txt")

	stray, err := st.Save("file-stray.txt", []byte("left behind"))
	require.NoError(t, err)

	h.store.Load()

	assert.NoFileExists(t, stray)
	assert.FileExists(t, blobPath(t, kept.URL))
}

func TestImportFile_Rejections(t *testing.T) {
	h := newEmptyStore(t)
	bl := setupFileBlock(t, h)

	_, err := waitImport(t, h.store.ImportFile(context.Background(), "block-missing", media.Source{Name: "a.txt", Data: []byte("a")}))
	requireCode(t, err, domainerrors.CodeNotFound)

	_, err = waitImport(t, h.store.ImportFile(context.Background(), bl.ID, media.Source{Name: "", Data: []byte("a")}))
	requireCode(t, err, domainerrors.CodeValidation)

	_, err = waitImport(t, h.store.ImportFile(context.Background(), bl.ID, media.Source{Name: "empty.txt"}))
	requireCode(t, err, domainerrors.CodeValidation)

	n, ok := h.rec.lastNotice()
	require.True(t, ok)
	assert.Equal(t, LevelError, n.Level)

	got, _ := h.store.Block(bl.ID)
	assert.Empty(t, got.Items)
}
