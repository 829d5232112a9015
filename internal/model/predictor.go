// Package model provides the regression-model capability behind prediction:
// ONNX-exported artifacts loaded at startup, with a zero-output stand-in
// when an artifact is missing so the rest of the pipeline keeps working in a
// degraded mode.
package model

import (
	"context"

	"github.com/agrovista/lactoprofile/internal/features"
)

// Predictor turns a feature frame into a fatty-acid vector. Implementations
// additionally expose features.Schema when their artifact carries
// feature-name metadata; callers align frames through features.Align before
// calling Predict.
type Predictor interface {
	Predict(ctx context.Context, f features.Frame) ([]float64, error)
	Close() error
}

// ZeroPredictor is the degraded stand-in used when a model artifact is
// absent: it predicts an all-zero profile of the configured size, keeping
// downstream consumers functional without a model.
type ZeroPredictor struct {
	Size int
}

func (z ZeroPredictor) Predict(context.Context, features.Frame) ([]float64, error) {
	return make([]float64, z.Size), nil
}

func (ZeroPredictor) Close() error { return nil }
