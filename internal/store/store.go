// Package store persists diets and their fatty-acid predictions. Two
// implementations exist: a SQLite-backed store for deployments and an
// in-memory store for tests and local development.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a diet or prediction does not exist.
var ErrNotFound = errors.New("not found")

// Diet is a stored ration: the four group ratios plus the full by-code
// composition serialized as JSON.
type Diet struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	CornRatio    float64   `json:"corn_ratio"`
	SoybeanRatio float64   `json:"soybean_ratio"`
	AlfalfaRatio float64   `json:"alfalfa_ratio"`
	OtherRatio   float64   `json:"other_ratio"`
	// Composition holds the sparse code->percent map as a JSON document.
	Composition string    `json:"composition,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Prediction is a stored model output for a diet. Only the six steered
// acids are kept as columns; the full profile travels in ProfileJSON.
type Prediction struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	DietID      string    `gorm:"index;not null" json:"diet_id"`
	Lauric      float64   `json:"lauric"`
	Palmitic    float64   `json:"palmitic"`
	Stearic     float64   `json:"stearic"`
	Oleic       float64   `json:"oleic"`
	Linoleic    float64   `json:"linoleic"`
	Linolenic   float64   `json:"linolenic"`
	ProfileJSON string    `json:"profile,omitempty"`
	Confidence  string    `json:"confidence"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store defines the persistence operations used by the service.
type Store interface {
	CreateDiet(ctx context.Context, diet *Diet) error
	GetDiet(ctx context.Context, dietID string) (*Diet, error)
	UpdateDiet(ctx context.Context, diet *Diet) error
	DeleteDiet(ctx context.Context, dietID string) error
	ListDiets(ctx context.Context) ([]*Diet, error)

	CreatePrediction(ctx context.Context, prediction *Prediction) error
	ListPredictions(ctx context.Context, dietID string) ([]*Prediction, error)

	Close() error
}
