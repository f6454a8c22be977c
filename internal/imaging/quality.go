package imaging

import (
	"fmt"
	"image"
	"image/color"
)

// Defaults for the quality gate. Both are tunable through GateOptions; the
// blur threshold in particular does not generalize across cameras.
const (
	DefaultMinDimension  = 300
	DefaultBlurThreshold = 100
)

// GateOptions controls the quality gate thresholds.
type GateOptions struct {
	MinDimension  int
	BlurThreshold float64
}

// Verdict is the outcome of the quality gate for one image.
type Verdict struct {
	OK     bool
	Reason string
}

// Check runs the quality gate on a decoded image: a resolution floor first,
// then a blur estimate. Checks short-circuit on the first failure. The image
// is never modified.
func Check(img image.Image, opts GateOptions) Verdict {
	if opts.MinDimension <= 0 {
		opts.MinDimension = DefaultMinDimension
	}
	if opts.BlurThreshold <= 0 {
		opts.BlurThreshold = DefaultBlurThreshold
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < opts.MinDimension || h < opts.MinDimension {
		return Verdict{Reason: fmt.Sprintf("resolution too low (%dx%d, minimum %dx%d)", w, h, opts.MinDimension, opts.MinDimension)}
	}

	if v := LaplacianVariance(Grayscale(img)); v < opts.BlurThreshold {
		return Verdict{Reason: fmt.Sprintf("too blurry (sharpness %.1f, threshold %.1f)", v, opts.BlurThreshold)}
	}

	return Verdict{OK: true}
}

// Grayscale converts an image to 8-bit grayscale.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// LaplacianVariance measures high-frequency content by convolving the
// grayscale image with a 4-neighbour Laplacian kernel and returning the
// variance of the response. Low values mean little edge energy, which
// correlates with blur. Border pixels are skipped.
func LaplacianVariance(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	responses := make([]float64, 0, (w-2)*(h-2))
	var sum float64
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			center := float64(gray.GrayAt(x, y).Y)
			lap := float64(gray.GrayAt(x-1, y).Y) +
				float64(gray.GrayAt(x+1, y).Y) +
				float64(gray.GrayAt(x, y-1).Y) +
				float64(gray.GrayAt(x, y+1).Y) -
				4*center
			responses = append(responses, lap)
			sum += lap
		}
	}

	mean := sum / float64(len(responses))
	var variance float64
	for _, r := range responses {
		d := r - mean
		variance += d * d
	}
	return variance / float64(len(responses))
}
