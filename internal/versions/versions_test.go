package versions

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/corkboard/internal/domain"
	"github.com/listenupapp/corkboard/internal/storage"
)

func setupStore(t *testing.T) (*Store, *storage.Adapter) {
	t.Helper()
	kv, err := storage.OpenBadgerInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	adapter := storage.NewAdapter(kv, nil)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return New(adapter, nil, WithClock(clock)), adapter
}

func TestSaveCurrentStateAsVersion_KeepsFiveNewestFirst(t *testing.T) {
	s, _ := setupStore(t)

	for i := 1; i <= 7; i++ {
		s.SaveCurrentStateAsVersion(fmt.Sprintf("v%d", i))
	}

	list := s.List()
	require.Len(t, list, domain.MaxVersions)

	var descs []string
	for _, v := range list {
		descs = append(descs, v.Description)
	}
	assert.Equal(t, []string{"v7", "v6", "v5", "v4", "v3"}, descs)
	assert.True(t, list[0].Timestamp.After(list[4].Timestamp))
}

func TestRestoreVersion_OverwritesPrimaryDocuments(t *testing.T) {
	s, adapter := setupStore(t)

	original := []domain.Board{{ID: "board-1", Name: "Sprint", Blocks: []domain.Block{}}}
	adapter.SaveBoards(original)
	adapter.SaveSettings(domain.Settings{Theme: domain.ThemeDark}.Normalize())
	v := s.SaveCurrentStateAsVersion("before change")

	adapter.SaveBoards([]domain.Board{{ID: "board-2", Name: "Other", Blocks: []domain.Block{}}})
	adapter.SaveSettings(domain.DefaultSettings())

	require.True(t, s.RestoreVersion(v.ID))

	assert.Equal(t, original, adapter.GetBoards())
	assert.Equal(t, domain.ThemeDark, adapter.GetSettings().Theme)
	assert.Len(t, s.List(), 1)
}

func TestRestoreVersion_UnknownOrCorrupt(t *testing.T) {
	s, adapter := setupStore(t)

	assert.False(t, s.RestoreVersion("ver-missing"))

	adapter.SaveVersions([]domain.Version{{ID: "ver-bad", Data: "{broken"}})
	adapter.SaveBoards([]domain.Board{{ID: "board-1", Blocks: []domain.Block{}}})

	assert.False(t, s.RestoreVersion("ver-bad"))
	assert.Len(t, adapter.GetBoards(), 1)
}

func TestGetAndClear(t *testing.T) {
	s, _ := setupStore(t)
	v := s.SaveCurrentStateAsVersion("checkpoint")

	got, ok := s.Get(v.ID)
	require.True(t, ok)
	assert.Equal(t, "checkpoint", got.Description)

	s.Clear()
	_, ok = s.Get(v.ID)
	assert.False(t, ok)
	assert.Empty(t, s.List())
}
