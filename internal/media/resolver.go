package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/listenupapp/corkboard/internal/id"
	"github.com/listenupapp/corkboard/internal/logger"
)

// ErrEmptyFile is returned when a Source carries no bytes.
var ErrEmptyFile = errors.New("file is empty")

// Source is raw file content offered for import.
type Source struct {
	Name string `json:"name" validate:"required"`
	// Type is the MIME type reported by the caller; sniffed when empty.
	Type string `json:"type"`
	Data []byte `json:"-"`
}

// Resolved is a file made referenceable.
type Resolved struct {
	URL       string
	FileType  string
	Thumbnail string
	BlurHash  string
	Size      int64
}

// Resolver turns Sources into URLs. With a nil Storage it produces
// self-contained data: URLs; otherwise it writes the bytes to disk and
// returns file:// URLs.
type Resolver struct {
	storage *Storage
	logger  *slog.Logger
}

// NewResolver creates a resolver. storage may be nil for inline mode.
func NewResolver(storage *Storage, log *slog.Logger) *Resolver {
	return &Resolver{storage: storage, logger: logger.OrDiscard(log)}
}

// Resolve sniffs the content type, stores or inlines the bytes, and for
// images adds a PNG thumbnail data: URL and a blurhash. Cancellation is
// checked between phases.
func (r *Resolver) Resolve(ctx context.Context, src Source) (Resolved, error) {
	if err := ctx.Err(); err != nil {
		return Resolved{}, err
	}
	if len(src.Data) == 0 {
		return Resolved{}, ErrEmptyFile
	}

	out := Resolved{
		FileType: contentType(src),
		Size:     int64(len(src.Data)),
	}

	u, err := r.store(src, out.FileType)
	if err != nil {
		return Resolved{}, err
	}
	out.URL = u

	if !strings.HasPrefix(out.FileType, "image/") {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		r.Release(u)
		return Resolved{}, err
	}

	img, err := DecodeImage(src.Data)
	if err != nil {
		// Unsupported image formats are kept without a preview.
		r.logger.Debug("no preview for image", "name", src.Name, "type", out.FileType, "error", err)
		return out, nil
	}
	if thumb, err := Thumbnail(img, ThumbnailSize); err == nil {
		out.Thumbnail = DataURL("image/png", thumb)
	} else {
		r.logger.Warn("thumbnail failed", "name", src.Name, "error", err)
	}
	if hash, err := ComputeBlurHash(img); err == nil {
		out.BlurHash = hash
	} else {
		r.logger.Warn("blurhash failed", "name", src.Name, "error", err)
	}

	if err := ctx.Err(); err != nil {
		r.Release(u)
		return Resolved{}, err
	}
	return out, nil
}

func (r *Resolver) store(src Source, mimeType string) (string, error) {
	if r.storage == nil {
		return DataURL(mimeType, src.Data), nil
	}

	fileID, err := id.Generate(id.PrefixFile)
	if err != nil {
		return "", err
	}
	ext := filepath.Ext(src.Name)
	if ext == "" {
		if m := mimetype.Lookup(mimeType); m != nil {
			ext = m.Extension()
		}
	}
	path, err := r.storage.Save(fileID+ext, src.Data)
	if err != nil {
		return "", fmt.Errorf("store %s: %w", src.Name, err)
	}
	return fileURL(path), nil
}

func fileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

// Stored returns the file:// URLs of every blob in disk storage.
func (r *Resolver) Stored() []string {
	if r.storage == nil {
		return nil
	}
	names, err := r.storage.List()
	if err != nil {
		r.logger.Warn("failed to list stored files", "error", err)
		return nil
	}
	urls := make([]string, len(names))
	for i, name := range names {
		urls[i] = fileURL(r.storage.Path(name))
	}
	return urls
}

// Release removes the stored blob behind a file:// URL produced by this
// resolver. URLs it did not store, including data: URLs, are ignored.
func (r *Resolver) Release(u string) {
	if r.storage == nil || !strings.HasPrefix(u, "file://") {
		return
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return
	}
	path := filepath.FromSlash(parsed.Path)
	name := filepath.Base(path)
	if r.storage.Path(name) != path || !r.storage.Exists(name) {
		return
	}
	if err := r.storage.Delete(name); err != nil {
		r.logger.Warn("failed to remove file", "url", u, "error", err)
		return
	}
	r.logger.Debug("file released", "url", u)
}
