package classifier

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cardguard-dev/cardguard/internal/model"
)

// defaultThreshold is the fraud probability at or above which Predict
// returns 1.
const defaultThreshold = 0.5

// Logistic is a binary logistic scorer with fixed weights.
type Logistic struct {
	Features  []string  `yaml:"features"`
	Weights   []float64 `yaml:"weights"`
	Bias      float64   `yaml:"bias"`
	Threshold float64   `yaml:"threshold,omitempty"`
}

// Load reads a model file and checks it was exported for the fixed
// feature order.
func Load(path string) (*Logistic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	var m Logistic
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	if err := m.Check(); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return &m, nil
}

// Save writes m as YAML.
func Save(path string, m *Logistic) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	return nil
}

// Check verifies the feature list matches model.FeatureColumns exactly
// and that there is one weight per feature.
func (m *Logistic) Check() error {
	if !slices.Equal(m.Features, model.FeatureColumns) {
		return fmt.Errorf("feature order %v does not match %v", m.Features, model.FeatureColumns)
	}
	if len(m.Weights) != model.NumFeatures {
		return fmt.Errorf("expected %d weights, got %d", model.NumFeatures, len(m.Weights))
	}
	if m.Threshold < 0 || m.Threshold > 1 {
		return errors.New("threshold must be within [0, 1]")
	}
	return nil
}

func (m *Logistic) threshold() float64 {
	if m.Threshold == 0 {
		return defaultThreshold
	}
	return m.Threshold
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// PredictProba implements Classifier.
func (m *Logistic) PredictProba(x [][]float64) ([][2]float64, error) {
	if err := CheckShape(x); err != nil {
		return nil, err
	}
	out := make([][2]float64, len(x))
	for i, row := range x {
		z := m.Bias
		for j, v := range row {
			z += m.Weights[j] * v
		}
		p := sigmoid(z)
		out[i] = [2]float64{1 - p, p}
	}
	return out, nil
}

// Predict implements Classifier.
func (m *Logistic) Predict(x [][]float64) ([]int, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	t := m.threshold()
	out := make([]int, len(proba))
	for i, p := range proba {
		if p[1] >= t {
			out[i] = 1
		}
	}
	return out, nil
}
