package utils

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

const (
	// ThumbnailSize is the bounding box for generated thumbnails
	ThumbnailSize = 320
	// MaxImageWidth caps stored image width; larger uploads are downscaled
	MaxImageWidth = 1920
)

// Thumbnail generates a JPEG thumbnail fitting within ThumbnailSize,
// preserving aspect ratio.
func Thumbnail(input io.Reader) ([]byte, error) {
	src, err := imaging.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}

	thumb := imaging.Fit(src, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %v", err)
	}
	return buf.Bytes(), nil
}

// NormalizeImage downscales oversized images to MaxImageWidth, returning
// the original bytes untouched when no resize is needed.
func NormalizeImage(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}

	if src.Bounds().Dx() <= MaxImageWidth {
		return data, nil
	}

	resized := imaging.Resize(src, MaxImageWidth, 0, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, resized, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %v", err)
	}
	return buf.Bytes(), nil
}
