package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDataURL(t *testing.T, u string) []byte {
	t.Helper()
	_, payload, ok := strings.Cut(u, ";base64,")
	require.True(t, ok, "not a base64 data URL: %s", u)
	data, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	return data
}

func TestResolver_InlineImage(t *testing.T) {
	r := NewResolver(nil, nil)
	data := testPNG(t, 400, 100)

	res, err := r.Resolve(context.Background(), Source{Name: "chart.png", Data: data})
	require.NoError(t, err)

	assert.Equal(t, "image/png", res.FileType)
	assert.Equal(t, int64(len(data)), res.Size)
	assert.Equal(t, data, decodeDataURL(t, res.URL))
	assert.NotEmpty(t, res.BlurHash)

	thumb, err := png.Decode(bytes.NewReader(decodeDataURL(t, res.Thumbnail)))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailSize, thumb.Bounds().Dx())
	assert.Equal(t, 50, thumb.Bounds().Dy())
}

func TestResolver_SniffsTextWithoutPreview(t *testing.T) {
	r := NewResolver(nil, nil)

	res, err := r.Resolve(context.Background(), Source{Name: "notes", Data: []byte("just some plain text\n")})
	require.NoError(t, err)

	assert.Equal(t, "text/plain", res.FileType)
	assert.True(t, strings.HasPrefix(res.URL, "data:text/plain;base64,"))
	assert.Empty(t, res.Thumbnail)
	assert.Empty(t, res.BlurHash)
}

func TestResolver_CallerTypeWins(t *testing.T) {
	r := NewResolver(nil, nil)

	res, err := r.Resolve(context.Background(), Source{Name: "a.csv", Type: "Text/CSV; charset=utf-8", Data: []byte("a,b\n1,2\n")})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", res.FileType)
}

func TestResolver_DiskMode(t *testing.T) {
	st, err := NewStorage(t.TempDir(), "files")
	require.NoError(t, err)
	r := NewResolver(st, nil)
	data := testPNG(t, 10, 10)

	res, err := r.Resolve(context.Background(), Source{Name: "tiny.png", Data: data})
	require.NoError(t, err)

	u, err := url.Parse(res.URL)
	require.NoError(t, err)
	assert.Equal(t, "file", u.Scheme)
	assert.Equal(t, ".png", filepath.Ext(u.Path))

	stored, err := os.ReadFile(filepath.FromSlash(u.Path))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
	assert.NotEmpty(t, res.Thumbnail)
}

func TestResolver_Release(t *testing.T) {
	dir := t.TempDir()
	st, err := NewStorage(dir, "files")
	require.NoError(t, err)
	r := NewResolver(st, nil)

	res, err := r.Resolve(context.Background(), Source{Name: "notes.txt", Data: []byte("hello")})
	require.NoError(t, err)
	u, err := url.Parse(res.URL)
	require.NoError(t, err)
	require.FileExists(t, filepath.FromSlash(u.Path))

	outside := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	r.Release((&url.URL{Scheme: "file", Path: filepath.ToSlash(outside)}).String())
	r.Release("data:text/plain;base64,aGVsbG8=")
	assert.FileExists(t, outside)

	r.Release(res.URL)
	assert.NoFileExists(t, filepath.FromSlash(u.Path))

	// Releasing twice is harmless.
	r.Release(res.URL)
	NewResolver(nil, nil).Release(res.URL)
}

func TestResolver_Errors(t *testing.T) {
	r := NewResolver(nil, nil)

	_, err := r.Resolve(context.Background(), Source{Name: "empty.txt"})
	assert.ErrorIs(t, err, ErrEmptyFile)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Resolve(ctx, Source{Name: "a.txt", Data: []byte("x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorage(t *testing.T) {
	_, err := NewStorage("", "files")
	assert.Error(t, err)

	st, err := NewStorage(t.TempDir(), "files")
	require.NoError(t, err)

	path, err := st.Save("file-1.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, st.Path("file-1.txt"), path)
	assert.True(t, st.Exists("file-1.txt"))

	assert.True(t, filepath.IsAbs(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	require.NoError(t, st.Delete("file-1.txt"))
	require.NoError(t, st.Delete("file-1.txt"))
	assert.False(t, st.Exists("file-1.txt"))

	_, err = st.Save("../escape", []byte("x"))
	assert.Error(t, err)
	_, err = st.Save("empty", nil)
	assert.Error(t, err)
}
