package classifier

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cardguard-dev/cardguard/internal/features"
)

// Labels for prediction output.
const (
	LabelLegitimate = "Legitimate"
	LabelFraudulent = "Fraudulent"
)

// Prediction is the classifier verdict for one feature vector.
type Prediction struct {
	Class       int     // 0 legit, 1 fraud
	Probability float64 // P(fraud)
}

// Label returns the human-readable class name.
func (p Prediction) Label() string {
	if p.Class == 1 {
		return LabelFraudulent
	}
	return LabelLegitimate
}

// Confidence returns the probability of the predicted class.
func (p Prediction) Confidence() float64 {
	if p.Class == 1 {
		return p.Probability
	}
	return 1 - p.Probability
}

// Score runs c over every vector of fb. The matrix is assembled from the
// vectors, so the classifier always sees the fixed feature order.
func Score(c Classifier, fb *features.FeatureBatch) ([]Prediction, error) {
	x := fb.Matrix()
	classes, err := c.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	proba, err := c.PredictProba(x)
	if err != nil {
		return nil, fmt.Errorf("predict proba: %w", err)
	}
	if len(classes) != len(x) || len(proba) != len(x) {
		return nil, fmt.Errorf("classifier returned %d/%d results for %d rows", len(classes), len(proba), len(x))
	}

	out := make([]Prediction, len(x))
	for i := range x {
		out[i] = Prediction{Class: classes[i], Probability: proba[i][1]}
	}
	return out, nil
}

// ResultColumns are appended to the feature columns in prediction output.
var ResultColumns = []string{"prediction", "confidence_pct", "prediction_label"}

// WriteCSV writes each vector followed by its prediction, its fraud
// probability as a percentage rounded to two places, and its label.
func WriteCSV(w io.Writer, fb *features.FeatureBatch, preds []Prediction) error {
	if len(preds) != len(fb.Rows) {
		return fmt.Errorf("have %d predictions for %d rows", len(preds), len(fb.Rows))
	}
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append(fb.Columns(), ResultColumns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, v := range fb.Rows {
		p := preds[i]
		row := append(v.Record(fb.Labeled),
			fmt.Sprintf("%d", p.Class),
			decimal.NewFromFloat(p.Probability*100).StringFixed(2),
			p.Label(),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
