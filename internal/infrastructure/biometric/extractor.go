// Package biometric provides the default feature-extraction capability used
// when no external face-recognition model is wired in: a deterministic
// luminance grid-pooling embedding. It is not a trained model; it exists so
// the verification pipeline has a concrete, reproducible implementation
// behind the ports.FeatureExtractor interface that real models can replace.
package biometric

import (
	"context"
	"image"

	"github.com/smartballot/voting-api/internal/core/domain"
)

const (
	gridSize = 8
	// minFaceDim is the smallest image dimension that can plausibly contain a
	// face for the pooling grid.
	minFaceDim = 16
)

// GridExtractor implements ports.FeatureExtractor by averaging pixel
// luminance over a gridSize x gridSize partition of the image, yielding a
// 64-dimensional vector in [0, 1] per cell.
type GridExtractor struct{}

func NewGridExtractor() *GridExtractor {
	return &GridExtractor{}
}

// Extract computes the grid embedding. Images too small for the grid, or
// with no luminance structure at all, are rejected as containing no
// detectable face.
func (e *GridExtractor) Extract(ctx context.Context, img image.Image) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < minFaceDim || h < minFaceDim {
		return nil, domain.ErrNoFaceDetected
	}

	sums := make([]float64, gridSize*gridSize)
	counts := make([]int, gridSize*gridSize)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		// CPU-bound loop; honor cancellation between rows.
		if y%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		cy := (y - bounds.Min.Y) * gridSize / h
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cx := (x - bounds.Min.X) * gridSize / w
			r, g, b, _ := img.At(x, y).RGBA()
			// ITU-R BT.601 luma, 16-bit channels normalized to [0, 1].
			luma := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535.0
			cell := cy*gridSize + cx
			sums[cell] += luma
			counts[cell]++
		}
	}

	vec := make([]float64, gridSize*gridSize)
	flat := true
	for i := range vec {
		if counts[i] > 0 {
			vec[i] = sums[i] / float64(counts[i])
		}
		if vec[i] != vec[0] {
			flat = false
		}
	}
	if flat {
		// Uniform image: nothing resembling facial structure.
		return nil, domain.ErrNoFaceDetected
	}
	return vec, nil
}
