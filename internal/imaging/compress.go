package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// DefaultJPEGQuality bounds outbound payload size before the inference call.
const DefaultJPEGQuality = 85

// Decode decodes JPEG or PNG bytes into an image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Compress re-encodes an image as JPEG at the given quality (1-100). It never
// resizes; for a fixed quality and identical input the output is identical.
func Compress(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Downscale caps the longest side of an image at maxDim, preserving aspect
// ratio. Images already within the cap are returned unchanged. This runs
// before the quality gate so that oversized camera captures do not blow up
// payload size; it is deliberately separate from Compress.
func Downscale(img image.Image, maxDim uint) image.Image {
	if maxDim == 0 {
		return img
	}
	bounds := img.Bounds()
	w, h := uint(bounds.Dx()), uint(bounds.Dy())
	if w <= maxDim && h <= maxDim {
		return img
	}
	if w >= h {
		return resize.Resize(maxDim, 0, img, resize.Lanczos3)
	}
	return resize.Resize(0, maxDim, img, resize.Lanczos3)
}
