package model

import "fmt"

// DemandModel is the single contract the simulation pipeline depends on:
// an unscaled feature matrix in, predicted booking days per row out.
// Scaling happens inside, with the scaler paired to the trained weights.
//
// Output is a continuous estimate, neither rounded nor clamped to [0,365];
// callers needing whole days truncate explicitly.
type DemandModel interface {
	Predict(matrix [][]float64) ([]float64, error)
}

// SingleModel wraps one estimator plus its paired scaler.
type SingleModel struct {
	scaler    *StandardScaler
	estimator Estimator
}

// NewSingleModel validates that scaler and estimator were fitted on the
// same feature width and returns the adapter.
func NewSingleModel(scaler *StandardScaler, est Estimator) (*SingleModel, error) {
	if scaler.NumFeatures() != est.NumFeatures() {
		return nil, fmt.Errorf("scaler fitted on %d features, estimator on %d: mismatched artifact",
			scaler.NumFeatures(), est.NumFeatures())
	}
	return &SingleModel{scaler: scaler, estimator: est}, nil
}

// Predict scales the matrix and runs the estimator.
func (m *SingleModel) Predict(matrix [][]float64) ([]float64, error) {
	scaled, err := m.scaler.Transform(matrix)
	if err != nil {
		return nil, err
	}
	return m.estimator.Predict(scaled), nil
}

// Ensemble blend weights. Fixed design constants chosen during model
// selection, not learned and not configurable.
var ensembleWeights = map[string]float64{
	"rf":  4,
	"lgb": 2,
	"gb":  2,
	"knn": 2,
}

const ensembleWeightSum = 10.0

// EnsembleMembers lists the regressors an ensemble bundle must contain.
var EnsembleMembers = []string{"rf", "lgb", "gb", "knn"}

// EnsembleModel blends four regressors with the fixed 4:2:2:2 weighting,
// all reading the same scaled matrix.
type EnsembleModel struct {
	scaler  *StandardScaler
	members map[string]Estimator
}

// NewEnsembleModel checks that every member is present and fitted on the
// scaler's feature width before any prediction can run.
func NewEnsembleModel(scaler *StandardScaler, members map[string]Estimator) (*EnsembleModel, error) {
	for _, name := range EnsembleMembers {
		est, ok := members[name]
		if !ok {
			return nil, fmt.Errorf("ensemble bundle missing estimator %q", name)
		}
		if est.NumFeatures() != scaler.NumFeatures() {
			return nil, fmt.Errorf("estimator %q fitted on %d features, scaler on %d: mismatched artifact",
				name, est.NumFeatures(), scaler.NumFeatures())
		}
	}
	return &EnsembleModel{scaler: scaler, members: members}, nil
}

// Predict scales once, runs each member, and combines with the fixed
// weighted average.
func (m *EnsembleModel) Predict(matrix [][]float64) ([]float64, error) {
	scaled, err := m.scaler.Transform(matrix)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(matrix))
	for _, name := range EnsembleMembers {
		preds := m.members[name].Predict(scaled)
		w := ensembleWeights[name]
		for i, p := range preds {
			out[i] += p * w
		}
	}
	for i := range out {
		out[i] /= ensembleWeightSum
	}
	return out, nil
}
