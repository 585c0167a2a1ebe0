package services

import (
	"errors"

	"airbnb-fee-simulator/models"
)

// ErrZeroBaseline means the dataset produced zero original fee revenue, so
// a percentage change is undefined. Surfaced as an explicit error instead
// of letting the division produce Inf or NaN.
var ErrZeroBaseline = errors.New("original revenue is zero, revenue change undefined")

// CalculateRevenue fills each listing's Sales column and aggregates the
// before/after platform fee revenue:
//
//	original  = sum(price * booked * 0.033)       flat fee, observed bookings
//	simulated = sum(price * booked_new * fee)     tiered fee, predicted bookings
//
// Units: all fees are fractions, so the totals are in dataset currency.
func CalculateRevenue(listings []*models.Listing) (*models.RevenueSummary, error) {
	var original, simulated float64
	for _, l := range listings {
		original += l.Price * l.Booked * BaselineFee
		l.Sales = l.Price * l.BookedNew * l.FeeAfter
		simulated += l.Sales
	}

	if original == 0 {
		return nil, ErrZeroBaseline
	}

	return &models.RevenueSummary{
		OriginalTotal:    original,
		SimulatedTotal:   simulated,
		RevenueChangePct: (simulated - original) / original * 100,
	}, nil
}

// SalesByTier groups simulated fee revenue by volume tier for reporting.
func SalesByTier(listings []*models.Listing) map[models.Tier]float64 {
	out := make(map[models.Tier]float64, 3)
	for _, l := range listings {
		out[l.BookedGroup] += l.Sales
	}
	return out
}

// HostRevenue aggregates what hosts keep under the original flat fee and
// under the simulated tiered fee. Host revenue is listing revenue minus
// the platform's fee cut.
func HostRevenue(listings []*models.Listing) (original, simulated float64) {
	for _, l := range listings {
		origRev := l.Price * l.Booked
		original += origRev - origRev*BaselineFee

		simRev := l.Price * l.BookedNew
		simulated += simRev - simRev*l.FeeAfter
	}
	return original, simulated
}
