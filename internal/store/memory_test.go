package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreDietLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	diet := &Diet{
		Name:         "Рацион март",
		CornRatio:    40,
		SoybeanRatio: 25,
		AlfalfaRatio: 20,
		OtherRatio:   15,
		Composition:  `{"01":40,"05":25,"11":20,"14":15}`,
	}
	require.NoError(t, s.CreateDiet(ctx, diet))
	require.NotEmpty(t, diet.ID)

	got, err := s.GetDiet(ctx, diet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Рацион март", got.Name)
	assert.Equal(t, 40.0, got.CornRatio)
	assert.False(t, got.CreatedAt.IsZero())

	got.Name = "Рацион апрель"
	got.CornRatio = 35
	require.NoError(t, s.UpdateDiet(ctx, got))

	updated, err := s.GetDiet(ctx, diet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Рацион апрель", updated.Name)
	assert.Equal(t, 35.0, updated.CornRatio)
	assert.Equal(t, got.CreatedAt, updated.CreatedAt)

	require.NoError(t, s.DeleteDiet(ctx, diet.ID))
	_, err = s.GetDiet(ctx, diet.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.GetDiet(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.UpdateDiet(ctx, &Diet{ID: "missing"}), ErrNotFound)
	assert.ErrorIs(t, s.DeleteDiet(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, s.CreatePrediction(ctx, &Prediction{DietID: "missing"}), ErrNotFound)
}

func TestMemoryStorePredictions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	diet := &Diet{Name: "Тестовый рацион"}
	require.NoError(t, s.CreateDiet(ctx, diet))

	first := &Prediction{
		DietID:     diet.ID,
		Lauric:     3.1,
		Palmitic:   28.0,
		Confidence: "normal",
	}
	require.NoError(t, s.CreatePrediction(ctx, first))
	require.NotEmpty(t, first.ID)

	second := &Prediction{DietID: diet.ID, Confidence: "reduced"}
	require.NoError(t, s.CreatePrediction(ctx, second))

	predictions, err := s.ListPredictions(ctx, diet.ID)
	require.NoError(t, err)
	assert.Len(t, predictions, 2)

	// Deleting the diet removes its predictions as well.
	require.NoError(t, s.DeleteDiet(ctx, diet.ID))
	predictions, err = s.ListPredictions(ctx, diet.ID)
	require.NoError(t, err)
	assert.Empty(t, predictions)
}

func TestMemoryStoreCopiesOnRead(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	diet := &Diet{Name: "Исходный"}
	require.NoError(t, s.CreateDiet(ctx, diet))

	got, err := s.GetDiet(ctx, diet.ID)
	require.NoError(t, err)
	got.Name = "Изменённый"

	again, err := s.GetDiet(ctx, diet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Исходный", again.Name)
}
