// Package output writes rendered images to their destinations: local files,
// S3-compatible object storage, and scaled-down previews.
package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Sink stores a rendered image under a name and returns where it ended up
type Sink interface {
	Write(ctx context.Context, name string, img image.Image) (string, error)
}

// Encode writes img to w in the format implied by name's extension. Names
// without a recognised extension are encoded as PNG.
func Encode(w io.Writer, name string, img image.Image) error {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		format = imaging.PNG
	}
	if err := imaging.Encode(w, img, format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return nil
}

// EncodeBytes is Encode into a new buffer
func EncodeBytes(name string, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, name, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContentType returns the MIME type matching name's extension
func ContentType(name string) string {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return "image/png"
	}
	switch format {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.GIF:
		return "image/gif"
	case imaging.TIFF:
		return "image/tiff"
	case imaging.BMP:
		return "image/bmp"
	default:
		return "image/png"
	}
}
