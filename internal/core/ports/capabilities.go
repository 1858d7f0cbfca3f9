package ports

import (
	"context"
	"image"
)

// FeatureExtractor turns a raster face image into a fixed-length feature
// vector. Implementations wrap whatever model is available; a deterministic
// grid-pooling extractor ships as the default and tests inject fakes.
// Returns domain.ErrNoFaceDetected when no face can be located.
type FeatureExtractor interface {
	Extract(ctx context.Context, img image.Image) ([]float64, error)
}

// OutlierScorer assigns an anomaly score to every row of a feature matrix.
// Higher scores mean more anomalous. Scores are comparable only within one
// call; ranking is the contract, not the absolute values.
type OutlierScorer interface {
	Score(features [][]float64) ([]float64, error)
}
