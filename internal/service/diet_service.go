// Package service implements the application operations over the
// extraction, model, analysis and store packages, and exposes them as a
// JSON API.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/agrovista/lactoprofile/internal/analysis"
	"github.com/agrovista/lactoprofile/internal/extraction"
	"github.com/agrovista/lactoprofile/internal/features"
	"github.com/agrovista/lactoprofile/internal/model"
	"github.com/agrovista/lactoprofile/internal/store"
	"github.com/agrovista/lactoprofile/internal/taxonomy"
)

// ConfidenceNormal and ConfidenceReduced qualify a prediction. Reduced
// means the inputs were degraded: defaulted nutrient slots, a missing model
// artifact, or a feature frame the model schema could not be aligned to.
const (
	ConfidenceNormal  = "normal"
	ConfidenceReduced = "reduced"
)

// DietService wires extraction, prediction and persistence together.
type DietService struct {
	store     store.Store
	extractor *extraction.Service
	provider  *model.Provider
	log       *slog.Logger
}

func NewDietService(st store.Store, extractor *extraction.Service, provider *model.Provider, log *slog.Logger) *DietService {
	return &DietService{
		store:     st,
		extractor: extractor,
		provider:  provider,
		log:       log.With("component", "diet_service"),
	}
}

// CreateDietRequest is the payload for storing a diet.
type CreateDietRequest struct {
	Name string `json:"name"`
	// Ratios are the four group percentages.
	Ratios map[taxonomy.Group]float64 `json:"ratios"`
	// Composition is the sparse code->percent breakdown, optional.
	Composition map[string]float64 `json:"composition,omitempty"`
}

// CreateDiet validates the group ratios and stores the diet.
func (s *DietService) CreateDiet(ctx context.Context, req CreateDietRequest) (*store.Diet, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("diet name is required")
	}
	if err := analysis.ValidateRatios(req.Ratios); err != nil {
		return nil, err
	}

	diet := &store.Diet{
		Name:         req.Name,
		CornRatio:    req.Ratios[taxonomy.GroupCorn],
		SoybeanRatio: req.Ratios[taxonomy.GroupSoybean],
		AlfalfaRatio: req.Ratios[taxonomy.GroupAlfalfa],
		OtherRatio:   req.Ratios[taxonomy.GroupOther],
	}
	if len(req.Composition) > 0 {
		raw, err := json.Marshal(req.Composition)
		if err != nil {
			return nil, fmt.Errorf("encoding composition: %w", err)
		}
		diet.Composition = string(raw)
	}
	if err := s.store.CreateDiet(ctx, diet); err != nil {
		return nil, err
	}
	return diet, nil
}

// Extract runs the PDF pipeline on an uploaded report.
func (s *DietService) Extract(ctx context.Context, pdfPath string) (*extraction.Result, error) {
	return s.extractor.Extract(ctx, pdfPath)
}

// PredictionResult is the full response of a prediction run.
type PredictionResult struct {
	Prediction      *store.Prediction         `json:"prediction"`
	Profile         map[analysis.Acid]float64 `json:"profile"`
	Checks          []analysis.AcidCheck      `json:"checks"`
	Recommendations []string                  `json:"recommendations"`
}

// Predict runs both regression pathways for a stored diet, averages their
// outputs, assesses the profile and persists the result. Nutrient readings
// are optional; missing slots are zero-filled and the prediction is marked
// reduced-confidence.
func (s *DietService) Predict(ctx context.Context, dietID string, nutrients map[string]float64) (*PredictionResult, error) {
	diet, err := s.store.GetDiet(ctx, dietID)
	if err != nil {
		return nil, err
	}

	reduced := false

	ingFrame, err := s.ingredientFrame(diet)
	if err != nil {
		return nil, err
	}
	nutFeatures := extraction.MapNutrients(nutrients)
	if nutFeatures.Degraded() {
		reduced = true
	}
	nutFrame := nutrientFrame(nutFeatures)

	ingOut, ok := s.runPathway(ctx, model.PathwayIngredient, s.provider.Ingredient(), ingFrame)
	if !ok {
		reduced = true
	}
	nutOut, ok := s.runPathway(ctx, model.PathwayNutrient, s.provider.Nutrient(), nutFrame)
	if !ok {
		reduced = true
	}
	if s.provider.Degraded(model.PathwayIngredient) || s.provider.Degraded(model.PathwayNutrient) {
		reduced = true
	}

	averaged := average(ingOut, nutOut)
	profile := analysis.Profile(averaged)
	checks := analysis.CheckRanges(profile)
	ratios := map[taxonomy.Group]float64{
		taxonomy.GroupCorn:    diet.CornRatio,
		taxonomy.GroupSoybean: diet.SoybeanRatio,
		taxonomy.GroupAlfalfa: diet.AlfalfaRatio,
		taxonomy.GroupOther:   diet.OtherRatio,
	}
	recommendations := analysis.Recommend(checks, ratios)

	confidence := ConfidenceNormal
	if reduced {
		confidence = ConfidenceReduced
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}
	prediction := &store.Prediction{
		DietID:      diet.ID,
		Lauric:      profile[analysis.AcidLauric],
		Palmitic:    profile[analysis.AcidPalmitic],
		Stearic:     profile[analysis.AcidStearic],
		Oleic:       profile[analysis.AcidOleic],
		Linoleic:    profile[analysis.AcidLinoleic],
		Linolenic:   profile[analysis.AcidLinolenic],
		ProfileJSON: string(profileJSON),
		Confidence:  confidence,
	}
	if err := s.store.CreatePrediction(ctx, prediction); err != nil {
		return nil, err
	}

	return &PredictionResult{
		Prediction:      prediction,
		Profile:         profile,
		Checks:          checks,
		Recommendations: recommendations,
	}, nil
}

// ingredientCodes is the training-time column layout of the ingredient
// pathway: ascending code order with the haylage-family columns removed and
// the additive codes that were constant across the training rations
// (фураж, жмых льняной, дрожжи, дробина, концентраты, премикс, мел, соль,
// поташ) dropped. The order is part of the trained-model contract: the
// model consumes the values positionally whenever no sidecar schema ships
// with the artifact.
var ingredientCodes = []string{
	"01", "02", "04", "05", "06", "07", "08", "09", "12", "14", "15",
	"17", "19", "20", "22", "25", "27", "30", "32", "35", "37", "45",
}

// ingredientFrame builds the one-row observation the ingredient pathway
// consumes: the fixed ingredientCodes columns, named "<label> % СВ",
// zero-filled for codes the composition lacks. The "02" column carries the
// summed silage mass (codes 06 and 24) rather than its own haylage
// percentage; the training pipeline folded the columns that way, and the
// serving frame has to reproduce it or the positional input shifts.
func (s *DietService) ingredientFrame(diet *store.Diet) (features.Frame, error) {
	composition := make(map[string]float64)
	if diet.Composition != "" {
		if err := json.Unmarshal([]byte(diet.Composition), &composition); err != nil {
			return features.Frame{}, fmt.Errorf("decoding composition for diet %s: %w", diet.ID, err)
		}
	}
	totals := make(map[string]float64, len(composition))
	for code, percent := range composition {
		if !taxonomy.Known(code) {
			s.log.Warn("composition references unknown code", "code", code, "diet_id", diet.ID)
			continue
		}
		totals[code] += percent
	}

	columns := make([]string, len(ingredientCodes))
	values := make(map[string]float64, len(ingredientCodes))
	for i, code := range ingredientCodes {
		column := taxonomy.Label(code) + " % СВ"
		columns[i] = column
		v := totals[code]
		if code == "02" {
			v = totals[taxonomy.CodeCornSilage] + totals[taxonomy.CodeSudanSilage]
		}
		values[column] = v
	}
	return features.FromMap(columns, values), nil
}

// nutrientFrame turns the mapped slot values into a Frame keyed by slot
// name.
func nutrientFrame(nf extraction.NutrientFeatures) features.Frame {
	columns := make([]string, len(extraction.NutrientSlots))
	values := make(map[string]float64, len(extraction.NutrientSlots))
	for i, slot := range extraction.NutrientSlots {
		columns[i] = string(slot)
		values[string(slot)] = nf.Values[slot]
	}
	return features.FromMap(columns, values)
}

// runPathway aligns the frame to the predictor's schema and runs it. A
// pathway failure degrades the prediction instead of failing it; the
// averaged output then leans on the other pathway.
func (s *DietService) runPathway(ctx context.Context, pathway model.Pathway, predictor model.Predictor, frame features.Frame) ([]float64, bool) {
	aligned, ok := features.Align(frame, predictor)
	if !ok {
		s.log.Warn("feature frame could not be aligned to model schema",
			"pathway", string(pathway), "columns", frame.Len())
	}
	out, err := predictor.Predict(ctx, aligned)
	if err != nil {
		s.log.Warn("pathway prediction failed", "pathway", string(pathway), "error", err)
		return nil, false
	}
	return out, ok
}

// average combines the two pathway outputs index-wise. A nil output (a
// failed pathway) contributes nothing; both nil yields the zero profile.
func average(a, b []float64) []float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		n = len(analysis.FattyAcids)
	}
	out := make([]float64, n)
	for i := range out {
		var sum float64
		var count int
		if i < len(a) {
			sum += a[i]
			count++
		}
		if i < len(b) {
			sum += b[i]
			count++
		}
		if count > 0 {
			out[i] = sum / float64(count)
		}
	}
	return out
}

// GetDiet returns one stored diet.
func (s *DietService) GetDiet(ctx context.Context, dietID string) (*store.Diet, error) {
	return s.store.GetDiet(ctx, dietID)
}

// ListDiets returns all stored diets, newest first.
func (s *DietService) ListDiets(ctx context.Context) ([]*store.Diet, error) {
	return s.store.ListDiets(ctx)
}

// ListPredictions returns a diet's predictions, newest first.
func (s *DietService) ListPredictions(ctx context.Context, dietID string) ([]*store.Prediction, error) {
	if _, err := s.store.GetDiet(ctx, dietID); err != nil {
		return nil, err
	}
	return s.store.ListPredictions(ctx, dietID)
}

// DeleteDiet removes a diet and its predictions.
func (s *DietService) DeleteDiet(ctx context.Context, dietID string) error {
	return s.store.DeleteDiet(ctx, dietID)
}
