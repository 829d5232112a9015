package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovista/lactoprofile/internal/analysis"
	"github.com/agrovista/lactoprofile/internal/extraction"
	"github.com/agrovista/lactoprofile/internal/model"
	"github.com/agrovista/lactoprofile/internal/store"
	"github.com/agrovista/lactoprofile/internal/taxonomy"
)

func newTestService(t *testing.T) *DietService {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Empty model dir: both pathways degrade to the zero stand-in.
	provider := model.NewProvider(model.ProviderConfig{
		Dir:        t.TempDir(),
		OutputSize: len(analysis.FattyAcids),
	}, log)
	extractor := extraction.NewService(extraction.DefaultConfig(), log)
	return NewDietService(store.NewMemoryStore(), extractor, provider, log)
}

func validRatios() map[taxonomy.Group]float64 {
	return map[taxonomy.Group]float64{
		taxonomy.GroupCorn:    40,
		taxonomy.GroupSoybean: 25,
		taxonomy.GroupAlfalfa: 20,
		taxonomy.GroupOther:   15,
	}
}

func TestCreateDietValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateDiet(ctx, CreateDietRequest{Ratios: validRatios()})
	assert.Error(t, err, "missing name must be rejected")

	_, err = svc.CreateDiet(ctx, CreateDietRequest{
		Name:   "Несбалансированный",
		Ratios: map[taxonomy.Group]float64{taxonomy.GroupCorn: 40},
	})
	assert.Error(t, err, "ratios far from 100 must be rejected")

	diet, err := svc.CreateDiet(ctx, CreateDietRequest{
		Name:        "Рацион 12",
		Ratios:      validRatios(),
		Composition: map[string]float64{"01": 40, "05": 25, "11": 20, "14": 15},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, diet.ID)
	assert.JSONEq(t, `{"01":40,"05":25,"11":20,"14":15}`, diet.Composition)
}

func TestPredictDegradedProvider(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	diet, err := svc.CreateDiet(ctx, CreateDietRequest{
		Name:        "Рацион без моделей",
		Ratios:      validRatios(),
		Composition: map[string]float64{"01": 40, "05": 25},
	})
	require.NoError(t, err)

	result, err := svc.Predict(ctx, diet.ID, map[string]float64{"СП": 18.5})
	require.NoError(t, err)

	// Zero stand-ins produce the all-zero profile and a reduced confidence.
	assert.Equal(t, ConfidenceReduced, result.Prediction.Confidence)
	assert.Len(t, result.Profile, len(analysis.FattyAcids))
	for acid, value := range result.Profile {
		assert.Zerof(t, value, "acid %s", acid)
	}

	// Zero lauric is below target, so recommendations fire.
	assert.NotEmpty(t, result.Recommendations)

	predictions, err := svc.ListPredictions(ctx, diet.ID)
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	assert.Equal(t, ConfidenceReduced, predictions[0].Confidence)
}

func TestPredictUnknownDiet(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Predict(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestIngredientFrameLayout(t *testing.T) {
	svc := newTestService(t)
	composition := map[string]float64{
		"01": 30.0, // rolled corn
		"05": 20.0, // soybean meal
		"06": 10.0, // corn silage, folded into the "02" column
		"24": 5.0,  // sudan silage, likewise
		"14": 10.0, // hay
		"33": 2.0,  // chalk: constant in training, no column
		"99": 7.0,  // unknown code: warned and dropped
	}
	raw, err := json.Marshal(composition)
	require.NoError(t, err)
	diet := &store.Diet{Composition: string(raw)}

	frame, err := svc.ingredientFrame(diet)
	require.NoError(t, err)

	wantColumns := make([]string, len(ingredientCodes))
	for i, code := range ingredientCodes {
		wantColumns[i] = taxonomy.Label(code) + " % СВ"
	}
	assert.Equal(t, wantColumns, frame.Columns(), "column layout is fixed")

	got := func(code string) float64 {
		v, ok := frame.Get(taxonomy.Label(code) + " % СВ")
		require.True(t, ok, "missing column for code %s", code)
		return v
	}
	assert.Equal(t, 30.0, got("01"))
	assert.Equal(t, 20.0, got("05"))
	assert.Equal(t, 10.0, got("14"))
	// The "02" column carries the silage total, the "06" column its own mass.
	assert.Equal(t, 15.0, got("02"))
	assert.Equal(t, 10.0, got("06"))
	// Dropped codes have no column at all.
	_, ok := frame.Get(taxonomy.Label("33") + " % СВ")
	assert.False(t, ok)

	// The layout is identical across calls: the model reads positionally.
	again, err := svc.ingredientFrame(diet)
	require.NoError(t, err)
	assert.Equal(t, frame.Columns(), again.Columns())
	assert.Equal(t, frame.Values(), again.Values())
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want []float64
	}{
		{
			name: "both pathways",
			a:    []float64{2, 4},
			b:    []float64{4, 8},
			want: []float64{3, 6},
		},
		{
			name: "single pathway",
			a:    []float64{2, 4},
			b:    nil,
			want: []float64{2, 4},
		},
		{
			name: "length mismatch",
			a:    []float64{2},
			b:    []float64{4, 8},
			want: []float64{3, 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, average(tt.a, tt.b))
		})
	}
	assert.Len(t, average(nil, nil), len(analysis.FattyAcids))
}

func TestRouterCRUD(t *testing.T) {
	svc := newTestService(t)
	server := httptest.NewServer(svc.Router())
	defer server.Close()

	// Health.
	resp, err := http.Get(server.URL + "/api/v1/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Create.
	body, _ := json.Marshal(map[string]any{
		"name": "Рацион апрель",
		"ratios": map[string]float64{
			"corn": 40, "soybean": 25, "alfalfa": 20, "other": 15,
		},
		"composition": map[string]float64{"01": 40, "05": 25, "11": 20, "14": 15},
	})
	resp, err = http.Post(server.URL+"/api/v1/diets/", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created store.Diet
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.NotEmpty(t, created.ID)

	// Get.
	resp, err = http.Get(server.URL + "/api/v1/diets/" + created.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Predict.
	resp, err = http.Post(server.URL+"/api/v1/diets/"+created.ID+"/predict", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var predicted PredictionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&predicted))
	resp.Body.Close()
	assert.Equal(t, created.ID, predicted.Prediction.DietID)

	// List predictions.
	resp, err = http.Get(server.URL + "/api/v1/diets/" + created.ID + "/predictions")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Delete, then the diet is gone.
	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/diets/"+created.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/v1/diets/" + created.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestExtractRejectsMissingFile(t *testing.T) {
	svc := newTestService(t)
	server := httptest.NewServer(svc.Router())
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/diets/extract", "application/json", bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
