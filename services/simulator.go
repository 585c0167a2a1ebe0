package services

import (
	"fmt"

	"airbnb-fee-simulator/model"
	"airbnb-fee-simulator/models"
	"airbnb-fee-simulator/utils"
)

// Simulator composes tiering, feature derivation, demand prediction and
// revenue aggregation into one stateless pipeline. It is a pure function
// of its inputs plus the injected demand model.
type Simulator struct {
	assigner *FeeAssigner
	deriver  *FeatureDeriver
	demand   model.DemandModel
	logger   *utils.Logger
}

// NewSimulator creates a Simulator around an already-loaded demand model.
func NewSimulator(demand model.DemandModel, logger *utils.Logger) *Simulator {
	return &Simulator{
		assigner: NewFeeAssigner(logger),
		deriver:  NewFeatureDeriver(logger),
		demand:   demand,
		logger:   logger,
	}
}

// UpdateColumnsByFeeChange exposes the tiering step on the simulator so
// presentation callers can re-tag a table without running a prediction.
func (s *Simulator) UpdateColumnsByFeeChange(listings []*models.Listing, schedule models.FeeSchedule) {
	s.assigner.UpdateColumnsByFeeChange(listings, schedule)
}

// PredictBookedDays derives the feature matrix for the given listings,
// runs the demand model, and fills BookedNew on each row.
func (s *Simulator) PredictBookedDays(listings []*models.Listing) error {
	matrix := s.deriver.Matrix(listings)
	preds, err := s.demand.Predict(matrix)
	if err != nil {
		return fmt.Errorf("demand prediction failed: %w", err)
	}
	if len(preds) != len(listings) {
		return fmt.Errorf("demand model returned %d predictions for %d listings", len(preds), len(listings))
	}
	for i, l := range listings {
		l.BookedNew = preds[i]
	}
	return nil
}

// Simulate runs the full pipeline on a private copy of raw: tier and fee
// assignment, demand prediction, then revenue aggregation. The caller's
// table is never mutated.
func (s *Simulator) Simulate(raw []*models.Listing, schedule models.FeeSchedule) ([]*models.Listing, *models.RevenueSummary, error) {
	listings := models.CloneListings(raw)

	s.assigner.UpdateColumnsByFeeChange(listings, schedule)

	if err := s.PredictBookedDays(listings); err != nil {
		return nil, nil, err
	}

	summary, err := CalculateRevenue(listings)
	if err != nil {
		return nil, nil, err
	}

	return listings, summary, nil
}
