package output

import (
	"image"

	"github.com/nfnt/resize"
)

// Preview scales img down so that it is at most maxWidth pixels wide,
// keeping the aspect ratio. Smaller images and a zero maxWidth return img
// unchanged.
func Preview(img image.Image, maxWidth uint) image.Image {
	if maxWidth == 0 || uint(img.Bounds().Dx()) <= maxWidth {
		return img
	}
	return resize.Resize(maxWidth, 0, img, resize.Bilinear)
}

// Thumbnail scales img to fit inside a maxWidth x maxHeight box
func Thumbnail(img image.Image, maxWidth, maxHeight uint) image.Image {
	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Bilinear)
}
