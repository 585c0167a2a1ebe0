package model

import (
	"os"
	"path/filepath"
	"testing"

	"airbnb-fee-simulator/utils"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write artifact fixture: %v", err)
	}
	return path
}

func TestArtifactStore_LoadSingleModel(t *testing.T) {
	path := writeArtifact(t, `{
		"scaler": {"mean": [0, 0], "scale": [1, 1]},
		"model": {"intercept": 1, "coefficients": [2, 3]}
	}`)

	store := NewArtifactStore("http://unused.invalid/model.json", path, 1, utils.NewLogger())
	m, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	preds, err := m.Predict([][]float64{{1, 1}})
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if preds[0] != 6 {
		t.Errorf("prediction = %v, want 6", preds[0])
	}
}

func TestArtifactStore_LoadEnsembleModel(t *testing.T) {
	path := writeArtifact(t, `{
		"scaler": {"mean": [0], "scale": [1]},
		"models": {
			"rf":  {"intercept": 10, "coefficients": [0]},
			"lgb": {"intercept": 20, "coefficients": [0]},
			"gb":  {"intercept": 30, "coefficients": [0]},
			"knn": {"intercept": 40, "coefficients": [0]}
		}
	}`)

	store := NewArtifactStore("http://unused.invalid/model.json", path, 1, utils.NewLogger())
	m, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	preds, err := m.Predict([][]float64{{0}})
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if preds[0] != 22.0 {
		t.Errorf("prediction = %v, want 22.0", preds[0])
	}
}

func TestArtifactStore_LoadOnce(t *testing.T) {
	path := writeArtifact(t, `{
		"scaler": {"mean": [0], "scale": [1]},
		"model": {"intercept": 5, "coefficients": [0]}
	}`)

	store := NewArtifactStore("http://unused.invalid/model.json", path, 1, utils.NewLogger())
	m1, err := store.Load()
	if err != nil {
		t.Fatalf("first Load returned error: %v", err)
	}

	// Corrupting the cache after the first load must not matter: the
	// decoded model is held for the process lifetime.
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("failed to overwrite fixture: %v", err)
	}

	m2, err := store.Load()
	if err != nil {
		t.Fatalf("second Load returned error: %v", err)
	}
	if m1 != m2 {
		t.Error("Load did not return the held model on second call")
	}
}

func TestArtifactStore_CorruptArtifact(t *testing.T) {
	path := writeArtifact(t, `{"scaler": {`)

	store := NewArtifactStore("http://unused.invalid/model.json", path, 1, utils.NewLogger())
	if _, err := store.Load(); err == nil {
		t.Error("Load accepted a corrupt artifact")
	}
}

func TestBuildModel_Validation(t *testing.T) {
	scaler := identityScaler(1)

	cases := []struct {
		name string
		spec *bundleSpec
	}{
		{"no scaler", &bundleSpec{Model: constantEstimator(1)}},
		{"no estimators", &bundleSpec{Scaler: scaler}},
		{"both variants", &bundleSpec{
			Scaler: scaler,
			Model:  constantEstimator(1),
			Models: map[string]*LinearEstimator{"rf": constantEstimator(1)},
		}},
		{"partial ensemble", &bundleSpec{
			Scaler: scaler,
			Models: map[string]*LinearEstimator{"rf": constantEstimator(1)},
		}},
	}

	for _, c := range cases {
		if _, err := buildModel(c.spec); err == nil {
			t.Errorf("%s: buildModel accepted an invalid bundle", c.name)
		}
	}
}
