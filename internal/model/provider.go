package model

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Pathway names the two independent regression pathways.
type Pathway string

const (
	PathwayIngredient Pathway = "ingredient"
	PathwayNutrient   Pathway = "nutrient"
)

// ProviderConfig locates the model artifacts directory. Each pathway loads
// <dir>/<pathway>_model.onnx with an optional <name>.features.json sidecar.
type ProviderConfig struct {
	Dir         string
	LibraryPath string
	OutputSize  int
}

// Provider resolves both pathway predictors once at application start.
// A missing artifact degrades that pathway to a zero stand-in with a logged
// warning instead of failing startup; Degraded reports which pathways run
// without a real model.
type Provider struct {
	ingredient Predictor
	nutrient   Predictor
	degraded   map[Pathway]bool
}

func NewProvider(cfg ProviderConfig, log *slog.Logger) *Provider {
	log = log.With("component", "model_provider")
	p := &Provider{degraded: make(map[Pathway]bool)}
	p.ingredient = p.load(cfg, PathwayIngredient, log)
	p.nutrient = p.load(cfg, PathwayNutrient, log)
	return p
}

func (p *Provider) load(cfg ProviderConfig, pathway Pathway, log *slog.Logger) Predictor {
	modelPath := filepath.Join(cfg.Dir, string(pathway)+"_model.onnx")
	if _, err := os.Stat(modelPath); err != nil {
		log.Warn("model artifact missing, predictions degrade to zero",
			"pathway", pathway, "path", modelPath, "error", err)
		p.degraded[pathway] = true
		return ZeroPredictor{Size: cfg.OutputSize}
	}

	featuresPath := strings.TrimSuffix(modelPath, ".onnx") + ".features.json"
	if _, err := os.Stat(featuresPath); err != nil {
		featuresPath = ""
	}

	pred, err := NewONNXPredictor(ONNXConfig{
		ModelPath:    modelPath,
		FeaturesPath: featuresPath,
		LibraryPath:  cfg.LibraryPath,
		OutputSize:   cfg.OutputSize,
	})
	if err != nil {
		log.Warn("model artifact failed to load, predictions degrade to zero",
			"pathway", pathway, "path", modelPath, "error", err)
		p.degraded[pathway] = true
		return ZeroPredictor{Size: cfg.OutputSize}
	}

	log.Info("model loaded", "pathway", pathway, "path", modelPath,
		"hasSchema", featuresPath != "")
	return pred
}

// Ingredient returns the ingredient-pathway predictor.
func (p *Provider) Ingredient() Predictor { return p.ingredient }

// Nutrient returns the nutrient-pathway predictor.
func (p *Provider) Nutrient() Predictor { return p.nutrient }

// Degraded reports whether the pathway runs on the zero stand-in.
func (p *Provider) Degraded(pathway Pathway) bool { return p.degraded[pathway] }

func (p *Provider) Close() error {
	err := p.ingredient.Close()
	if nerr := p.nutrient.Close(); err == nil {
		err = nerr
	}
	return err
}
