package services

import (
	"airbnb-fee-simulator/models"
	"airbnb-fee-simulator/utils"
)

// Booking-volume bin edges and the status-quo flat fee. These are fixed
// domain constants, not configuration: the tiers partition (-1, 365] with
// no gaps and no overlap.
const (
	lowTierMaxDays = 120.0
	midTierMaxDays = 240.0
	MaxBookedDays  = 365.0

	// BaselineFee is the flat 3.3% fee every listing pays today.
	BaselineFee = 0.033
)

// Fee-sensitivity coefficients: how much each host-quality column shifts
// per percentage point of fee change. Estimated offline alongside the
// demand model.
var feeSensitivity = struct {
	cleanliness   float64
	communication float64
	checkin       float64
	value         float64
	reviews       float64
}{
	cleanliness:   -0.0003,
	communication: -0.0018,
	checkin:       -0.002,
	value:         -0.0035,
	reviews:       -0.002,
}

// TierForBooked classifies a booking count into its volume tier using the
// half-open bins (-1,120] -> low, (120,240] -> mid, (240,365] -> high.
// The -1 lower bound means zero booked days lands in low.
func TierForBooked(booked float64) models.Tier {
	switch {
	case booked <= lowTierMaxDays:
		return models.TierLow
	case booked <= midTierMaxDays:
		return models.TierMid
	default:
		return models.TierHigh
	}
}

// FeeAssigner tags each listing with its volume tier and the before/after
// fee rates, and applies the fee-sensitivity shifts to the host-quality
// columns the demand model reads.
type FeeAssigner struct {
	logger *utils.Logger
}

// NewFeeAssigner creates a new FeeAssigner
func NewFeeAssigner(logger *utils.Logger) *FeeAssigner {
	return &FeeAssigner{logger: logger}
}

// UpdateColumnsByFeeChange mutates the given listings in place:
// BookedGroup, FeeBefore (always the flat baseline) and FeeAfter (the
// tier's proposed rate, clamped at zero), then shifts the review-score
// columns proportionally to the fee change. Callers own copy-on-write:
// pass a snapshot, never a table shared across grid-search cells.
func (a *FeeAssigner) UpdateColumnsByFeeChange(listings []*models.Listing, schedule models.FeeSchedule) {
	for _, l := range listings {
		l.BookedGroup = TierForBooked(l.Booked)
		l.FeeBefore = BaselineFee

		fee := schedule.Rate(l.BookedGroup)
		if fee < 0 {
			fee = 0
		}
		l.FeeAfter = fee

		// Fee delta in percentage points drives the sensitivity shifts.
		feeDelta := (l.FeeAfter - l.FeeBefore) * 100
		l.ReviewScoresCleanliness += feeSensitivity.cleanliness * feeDelta
		l.ReviewScoresCommunication += feeSensitivity.communication * feeDelta
		l.ReviewScoresCheckin += feeSensitivity.checkin * feeDelta
		l.ReviewScoresValue += feeSensitivity.value * feeDelta
		l.NumberOfReviews += feeSensitivity.reviews * feeDelta
	}

	a.logger.Debug("Assigned tiers and fees to %d listings (high=%.3f mid=%.3f low=%.3f)",
		len(listings), schedule.High, schedule.Mid, schedule.Low)
}
