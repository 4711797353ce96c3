package output

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// FileSink saves images into a local directory
type FileSink struct {
	Dir          string
	FlipVertical bool // Store rows bottom-up, as the camera produces them
}

// NewFileSink creates a file sink rooted at dir
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Write saves img as Dir/name, creating directories as needed. The format
// follows the file extension.
func (f *FileSink) Write(ctx context.Context, name string, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(f.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if f.FlipVertical {
		img = imaging.FlipV(img)
	}

	if _, err := imaging.FormatFromFilename(path); err != nil {
		path += ".png"
	}
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}
