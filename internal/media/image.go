package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// blurHashSize is the target size for BlurHash computation.
	// A small thumbnail produces nearly identical results in milliseconds.
	blurHashSize = 64

	// ThumbnailSize bounds the longer edge of generated thumbnails.
	ThumbnailSize = 200
)

// DecodeImage decodes any registered image format.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ComputeBlurHash generates a BlurHash string from an image.
// Uses 4x3 components for a good balance of size (~20-30 chars) and detail.
func ComputeBlurHash(img image.Image) (string, error) {
	hash, err := blurhash.Encode(4, 3, fit(img, blurHashSize, draw.NearestNeighbor))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// Thumbnail scales img so its longer edge is at most size and encodes it as PNG.
func Thumbnail(img image.Image, size int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, fit(img, size, draw.CatmullRom)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales img down, keeping its aspect ratio, so neither edge exceeds size.
// Images that already fit are returned unchanged.
func fit(img image.Image, size int, scaler draw.Scaler) image.Image {
	bounds := img.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()
	if srcWidth <= size && srcHeight <= size {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = size
		dstHeight = max(1, srcHeight*size/srcWidth)
	} else {
		dstHeight = size
		dstWidth = max(1, srcWidth*size/srcHeight)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	scaler.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
