package workspace

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/corkboard/internal/domain"
	domainerrors "github.com/listenupapp/corkboard/internal/errors"
	"github.com/listenupapp/corkboard/internal/storage"
	"github.com/listenupapp/corkboard/internal/versions"
)

// testClock hands out strictly increasing timestamps one second apart.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// recorder captures notices and events.
type recorder struct {
	mu      sync.Mutex
	notices []Notice
	events  []Event
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) lastNotice() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func (r *recorder) hasEvent(t EventType, entityID string) bool {
	for _, e := range r.Events() {
		if e.Type == t && e.EntityID == entityID {
			return true
		}
	}
	return false
}

// flakyKV fails writes while fail is set.
type flakyKV struct {
	storage.KV
	fail atomic.Bool
}

func (f *flakyKV) Set(key string, value []byte) error {
	if f.fail.Load() {
		return errors.New("disk full")
	}
	return f.KV.Set(key, value)
}

type harness struct {
	store    *Store
	docs     *storage.Adapter
	kv       *flakyKV
	versions *versions.Store
	rec      *recorder
	clock    *testClock
}

// newHarness builds an unloaded store over in-memory badger.
func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	kv, err := storage.OpenBadgerInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	h := &harness{
		kv:    &flakyKV{KV: kv},
		rec:   &recorder{},
		clock: newTestClock(),
	}
	h.docs = storage.NewAdapter(h.kv, nil)
	h.versions = versions.New(h.docs, nil, versions.WithClock(h.clock.Now))

	base := []Option{
		WithNotifier(h.rec),
		WithEmitter(h.rec),
		WithClock(h.clock.Now),
	}
	h.store = New(h.docs, h.versions, append(base, opts...)...)
	return h
}

// newEmptyStore returns a loaded store with the starter board removed.
func newEmptyStore(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := newHarness(t, opts...)
	h.store.Load()
	for _, b := range h.store.Boards() {
		require.NoError(t, h.store.DeleteBoard(b.ID))
	}
	h.versions.Clear()
	return h
}

func ptr[T any](v T) *T { return &v }

func requireCode(t *testing.T, err error, code domainerrors.Code) {
	t.Helper()
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %T: %v", err, err)
	assert.Equal(t, code, domainErr.Code)
}

func TestLoad_SeedsStarterBoard(t *testing.T) {
	h := newHarness(t)
	h.store.Load()

	boards := h.store.Boards()
	require.Len(t, boards, 1)
	assert.Equal(t, "My Board", boards[0].Name)
	require.Len(t, boards[0].Blocks, 3)
	for i, name := range []string{"To Do", "In Progress", "Done"} {
		assert.Equal(t, name, boards[0].Blocks[i].Name)
		assert.Equal(t, i, boards[0].Blocks[i].Order)
		assert.Equal(t, boards[0].ID, boards[0].Blocks[i].BoardID)
	}
	assert.Equal(t, boards[0].ID, h.store.CurrentBoardID())

	// The seed is persisted.
	assert.Equal(t, boards, h.docs.GetBoards())
}

func TestLoad_DoesNotSeedWhenOnlyArchivedBoardsExist(t *testing.T) {
	h := newHarness(t)
	h.store.Load()
	boardID := h.store.Boards()[0].ID
	require.NoError(t, h.store.ArchiveBoard(boardID))

	reloaded := New(h.docs, h.versions, WithClock(h.clock.Now))
	reloaded.Load()

	boards := reloaded.Boards()
	require.Len(t, boards, 1)
	assert.Equal(t, boardID, boards[0].ID)
	assert.True(t, boards[0].Archived)
	assert.Empty(t, reloaded.CurrentBoardID())
}

func TestLoad_RestoresPersistedState(t *testing.T) {
	h := newEmptyStore(t)
	b, err := h.store.CreateBoard("Sprint")
	require.NoError(t, err)
	bl, err := h.store.CreateBlock(b.ID, "Todo")
	require.NoError(t, err)
	_, err = h.store.CreateCard(bl.ID, CardDraft{Title: "Fix bug"})
	require.NoError(t, err)
	_, err = h.store.CreateFolder("Work", "")
	require.NoError(t, err)
	h.store.UpdateSettings(domain.SettingsPatch{Theme: ptr(domain.ThemeDark)})

	reloaded := New(h.docs, h.versions)
	reloaded.Load()

	assert.Equal(t, h.store.Boards(), reloaded.Boards())
	assert.Equal(t, h.store.Folders(), reloaded.Folders())
	assert.Equal(t, h.store.Settings(), reloaded.Settings())
	assert.Equal(t, b.ID, reloaded.CurrentBoardID())
}

func TestReads_ReturnCopies(t *testing.T) {
	h := newEmptyStore(t)
	b, err := h.store.CreateBoard("Sprint")
	require.NoError(t, err)

	boards := h.store.Boards()
	boards[0].Name = "Changed"
	boards[0].Blocks = append(boards[0].Blocks, domain.Block{ID: "intruder"})

	got, ok := h.store.Board(b.ID)
	require.True(t, ok)
	assert.Equal(t, "Sprint", got.Name)
	assert.Empty(t, got.Blocks)
}

func TestLiveBoards_ExcludesArchived(t *testing.T) {
	h := newEmptyStore(t)
	a, err := h.store.CreateBoard("A")
	require.NoError(t, err)
	b, err := h.store.CreateBoard("B")
	require.NoError(t, err)
	require.NoError(t, h.store.ArchiveBoard(a.ID))

	live := h.store.LiveBoards()
	require.Len(t, live, 1)
	assert.Equal(t, b.ID, live[0].ID)
	assert.Len(t, h.store.Boards(), 2)
}

func TestToggleSidebar(t *testing.T) {
	h := newEmptyStore(t)

	assert.False(t, h.store.SidebarCollapsed())
	assert.True(t, h.store.ToggleSidebar())
	assert.True(t, h.store.SidebarCollapsed())
	assert.False(t, h.store.ToggleSidebar())
	assert.True(t, h.rec.hasEvent(EventSidebarToggled, ""))
}

func TestStorageFailure_IsReportedButStateKept(t *testing.T) {
	h := newEmptyStore(t)
	h.kv.fail.Store(true)

	b, err := h.store.CreateBoard("Offline")
	require.NoError(t, err)

	got, ok := h.store.Board(b.ID)
	require.True(t, ok)
	assert.Equal(t, "Offline", got.Name)

	n, ok := h.rec.lastNotice()
	require.True(t, ok)
	assert.Equal(t, LevelError, n.Level)
	assert.Equal(t, domainerrors.CodeStorageFailure, n.Code)
	assert.Contains(t, n.Message, storage.KeyBoards)

	// Nothing reached the disk.
	assert.Empty(t, h.docs.GetBoards())

	// Once storage recovers, the next save catches up.
	h.kv.fail.Store(false)
	h.store.SaveNow()
	assert.Equal(t, h.store.Boards(), h.docs.GetBoards())
}

func TestNotFound_NotifiesAndMutatesNothing(t *testing.T) {
	h := newEmptyStore(t)
	before := h.store.Boards()

	_, err := h.store.CreateBlock("board-missing", "Todo")
	requireCode(t, err, domainerrors.CodeNotFound)

	n, ok := h.rec.lastNotice()
	require.True(t, ok)
	assert.Equal(t, domainerrors.CodeNotFound, n.Code)
	assert.Equal(t, before, h.store.Boards())
}
