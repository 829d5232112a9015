package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/agrovista/lactoprofile/internal/features"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initRuntime initializes the shared onnxruntime environment once per
// process. The shared library path may be overridden for hosts where the
// runtime is not on the default search path.
func initRuntime(libraryPath string) error {
	ortInitOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// ONNXPredictor runs an exported regression model through onnxruntime.
// Sessions hold native resources; Close must be called when done.
type ONNXPredictor struct {
	mu           sync.Mutex
	session      *ort.DynamicAdvancedSession
	inputSize    int
	outputSize   int
	featureNames []string
}

// ONNXConfig locates one exported model artifact.
type ONNXConfig struct {
	ModelPath string
	// FeaturesPath points to the sidecar JSON array of feature-column
	// names exported alongside the model. Optional: without it the
	// predictor exposes no schema and frames pass through unaligned.
	FeaturesPath string
	// LibraryPath overrides the onnxruntime shared library location.
	LibraryPath string
	InputSize   int
	OutputSize  int
}

// NewONNXPredictor loads the artifact and its optional feature-name
// sidecar.
func NewONNXPredictor(cfg ONNXConfig) (*ONNXPredictor, error) {
	if err := initRuntime(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{"input"}, []string{"output"}, nil)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", cfg.ModelPath, err)
	}

	p := &ONNXPredictor{
		session:    session,
		inputSize:  cfg.InputSize,
		outputSize: cfg.OutputSize,
	}

	if cfg.FeaturesPath != "" {
		names, err := readFeatureNames(cfg.FeaturesPath)
		if err != nil {
			session.Destroy()
			return nil, err
		}
		p.featureNames = names
		if p.inputSize == 0 {
			p.inputSize = len(names)
		}
	}
	return p, nil
}

// FeatureNames implements features.Schema when a sidecar was present.
func (p *ONNXPredictor) FeatureNames() []string {
	return p.featureNames
}

func (p *ONNXPredictor) Predict(ctx context.Context, f features.Frame) ([]float64, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	values := f.Values()
	if p.inputSize > 0 && len(values) != p.inputSize {
		return nil, fmt.Errorf("model expects %d features, got %d", p.inputSize, len(values))
	}

	input := make([]float32, len(values))
	for i, v := range values {
		input[i] = float32(v)
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(input))), input)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(p.outputSize)))
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	// onnxruntime sessions are not safe for concurrent Run calls.
	p.mu.Lock()
	err = p.session.Run([]ort.Value{inputTensor}, []ort.Value{outputTensor})
	p.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("run model: %w", err)
	}

	raw := outputTensor.GetData()
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out, nil
}

func (p *ONNXPredictor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != nil {
		err := p.session.Destroy()
		p.session = nil
		return err
	}
	return nil
}

func readFeatureNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature names %s: %w", path, err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parse feature names %s: %w", path, err)
	}
	return names, nil
}
