package classifier

import (
	"github.com/cardguard-dev/cardguard/internal/features"
	"github.com/cardguard-dev/cardguard/internal/model"
)

// Classifier scores feature matrices laid out in model.FeatureColumns order.
type Classifier interface {
	// Predict returns 0 (legitimate) or 1 (fraud) per row.
	Predict(x [][]float64) ([]int, error)
	// PredictProba returns [P(legit), P(fraud)] per row.
	PredictProba(x [][]float64) ([][2]float64, error)
}

// CheckShape rejects any row that is not exactly model.NumFeatures wide.
func CheckShape(x [][]float64) error {
	for i, row := range x {
		if len(row) != model.NumFeatures {
			return &features.ShapeError{Row: i + 1, Want: model.NumFeatures, Got: len(row)}
		}
	}
	return nil
}
