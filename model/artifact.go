package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"airbnb-fee-simulator/utils"

	"github.com/go-resty/resty/v2"
)

// bundleSpec is the on-disk artifact layout. Exactly one of Model or
// Models is set: a single regressor, or the named ensemble collection.
// The scaler always rides along in the same file so the pairing between
// scaling parameters and trained weights can never drift.
type bundleSpec struct {
	Scaler *StandardScaler             `json:"scaler"`
	Model  *LinearEstimator            `json:"model,omitempty"`
	Models map[string]*LinearEstimator `json:"models,omitempty"`
}

// ArtifactStore resolves the model bundle: check the fixed local cache
// path, download from remote storage if absent, decode and validate once,
// then hold the model for the process lifetime.
//
// The cache check is existence-only; no checksum is verified. A corrupted
// cache file surfaces as a decode or dimension-mismatch error at load
// time, before any prediction is attempted.
type ArtifactStore struct {
	url        string
	cachePath  string
	maxRetries int
	client     *resty.Client
	logger     *utils.Logger

	once  sync.Once
	model DemandModel
	err   error
}

// NewArtifactStore creates an ArtifactStore fetching from url and caching
// at cachePath.
func NewArtifactStore(url, cachePath string, maxRetries int, logger *utils.Logger) *ArtifactStore {
	return &ArtifactStore{
		url:        url,
		cachePath:  cachePath,
		maxRetries: maxRetries,
		client:     resty.New().SetTimeout(60 * time.Second),
		logger:     logger,
	}
}

// Load returns the demand model, fetching and decoding the artifact on
// first use. Subsequent calls return the held model (or the original
// failure) without touching disk or network again.
func (s *ArtifactStore) Load() (DemandModel, error) {
	s.once.Do(func() {
		s.model, s.err = s.load()
	})
	return s.model, s.err
}

func (s *ArtifactStore) load() (DemandModel, error) {
	if _, err := os.Stat(s.cachePath); os.IsNotExist(err) {
		if err := s.fetch(); err != nil {
			return nil, err
		}
	} else {
		s.logger.Info("Using cached model artifact: %s", s.cachePath)
	}

	data, err := os.ReadFile(s.cachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var spec bundleSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact %s: %w", s.cachePath, err)
	}

	return buildModel(&spec)
}

// fetch downloads the artifact with bounded retry and writes it to the
// cache path.
func (s *ArtifactStore) fetch() error {
	dir := filepath.Dir(s.cachePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create model cache directory: %w", err)
	}

	s.logger.Info("Downloading model artifact from %s", s.url)
	return utils.RetryWithBackoff("model download", s.maxRetries, func() error {
		resp, err := s.client.R().Get(s.url)
		if err != nil {
			return fmt.Errorf("artifact request failed: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("artifact fetch returned HTTP %d", resp.StatusCode())
		}
		if err := os.WriteFile(s.cachePath, resp.Body(), 0644); err != nil {
			return fmt.Errorf("failed to write model cache file: %w", err)
		}
		s.logger.Info("Model artifact cached at %s (%d bytes)", s.cachePath, len(resp.Body()))
		return nil
	}, s.logger)
}

// buildModel selects the adapter variant by which bundle fields are
// present, validating scaler/estimator pairing before returning.
func buildModel(spec *bundleSpec) (DemandModel, error) {
	if spec.Scaler == nil {
		return nil, fmt.Errorf("model artifact has no scaler")
	}

	switch {
	case spec.Model != nil && spec.Models != nil:
		return nil, fmt.Errorf("model artifact sets both single and ensemble fields")
	case spec.Model != nil:
		return NewSingleModel(spec.Scaler, spec.Model)
	case spec.Models != nil:
		members := make(map[string]Estimator, len(spec.Models))
		for name, est := range spec.Models {
			members[name] = est
		}
		return NewEnsembleModel(spec.Scaler, members)
	default:
		return nil, fmt.Errorf("model artifact contains no estimators")
	}
}
