package model

import "fmt"

// StandardScaler holds the feature-wise centering and scaling parameters
// fitted alongside the trained estimators. It ships inside the artifact
// bundle and is never refit at prediction time: refitting on whatever
// batch happens to arrive would silently change the model's inputs.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform returns (x - mean) / scale per column. A zero scale (constant
// training column) divides by one, matching the fitting convention.
func (s *StandardScaler) Transform(matrix [][]float64) ([][]float64, error) {
	if len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("scaler is corrupt: %d means vs %d scales", len(s.Mean), len(s.Scale))
	}

	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("row %d has %d features, scaler expects %d", i, len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scale := s.Scale[j]
			if scale == 0 {
				scale = 1
			}
			scaled[j] = (v - s.Mean[j]) / scale
		}
		out[i] = scaled
	}
	return out, nil
}

// NumFeatures returns the feature width the scaler was fitted on.
func (s *StandardScaler) NumFeatures() int {
	return len(s.Mean)
}

// Estimator is the opaque contract every bundle member honors: a scaled
// feature matrix in, one predicted value per row out.
type Estimator interface {
	Predict(matrix [][]float64) []float64
	NumFeatures() int
}

// LinearEstimator is the serialized form bundle members ship in: an
// intercept plus one coefficient per feature column.
type LinearEstimator struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// Predict computes intercept + coefficients . row for each row.
func (e *LinearEstimator) Predict(matrix [][]float64) []float64 {
	out := make([]float64, len(matrix))
	for i, row := range matrix {
		v := e.Intercept
		for j, c := range e.Coefficients {
			v += c * row[j]
		}
		out[i] = v
	}
	return out
}

// NumFeatures returns the feature width the estimator was fitted on.
func (e *LinearEstimator) NumFeatures() int {
	return len(e.Coefficients)
}
