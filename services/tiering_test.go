package services

import (
	"testing"

	"airbnb-fee-simulator/models"
	"airbnb-fee-simulator/utils"
)

func testListing(booked float64) *models.Listing {
	return &models.Listing{
		ID:                        1,
		Price:                     100,
		Booked:                    booked,
		HostResponseRate:          0.9,
		HostAcceptanceRate:        0.8,
		NumberOfReviews:           50,
		ReviewScoresCleanliness:   4.5,
		ReviewScoresCommunication: 4.6,
		ReviewScoresCheckin:       4.7,
		ReviewScoresValue:         4.4,
	}
}

func TestTierForBooked_Boundaries(t *testing.T) {
	cases := []struct {
		booked float64
		want   models.Tier
	}{
		{0, models.TierLow},
		{60, models.TierLow},
		{120, models.TierLow},
		{120.0001, models.TierMid},
		{240, models.TierMid},
		{240.0001, models.TierHigh},
		{300, models.TierHigh},
		{365, models.TierHigh},
	}

	for _, c := range cases {
		if got := TierForBooked(c.booked); got != c.want {
			t.Errorf("TierForBooked(%v) = %q, want %q", c.booked, got, c.want)
		}
	}
}

func TestUpdateColumnsByFeeChange_FeeAssignment(t *testing.T) {
	assigner := NewFeeAssigner(utils.NewLogger())
	schedule := models.FeeSchedule{High: 0.025, Mid: 0.030, Low: 0.060}

	listings := []*models.Listing{
		testListing(300), // high
		testListing(200), // mid
		testListing(50),  // low
	}
	assigner.UpdateColumnsByFeeChange(listings, schedule)

	wantFees := []float64{0.025, 0.030, 0.060}
	for i, l := range listings {
		if l.FeeBefore != BaselineFee {
			t.Errorf("listing %d: FeeBefore = %v, want %v", i, l.FeeBefore, BaselineFee)
		}
		if l.FeeAfter != wantFees[i] {
			t.Errorf("listing %d: FeeAfter = %v, want %v", i, l.FeeAfter, wantFees[i])
		}
	}
}

func TestUpdateColumnsByFeeChange_FeeBeforeIgnoresSchedule(t *testing.T) {
	assigner := NewFeeAssigner(utils.NewLogger())

	for _, schedule := range []models.FeeSchedule{
		{High: 0, Mid: 0, Low: 0},
		{High: 0.01, Mid: 0.02, Low: 0.05},
		{High: 0.1, Mid: 0.1, Low: 0.1},
	} {
		l := testListing(150)
		assigner.UpdateColumnsByFeeChange([]*models.Listing{l}, schedule)
		if l.FeeBefore != 0.033 {
			t.Errorf("schedule %+v: FeeBefore = %v, want 0.033", schedule, l.FeeBefore)
		}
	}
}

func TestUpdateColumnsByFeeChange_ClampsNegativeFee(t *testing.T) {
	assigner := NewFeeAssigner(utils.NewLogger())
	l := testListing(50)

	assigner.UpdateColumnsByFeeChange([]*models.Listing{l}, models.FeeSchedule{High: 0.01, Mid: 0.02, Low: -0.05})

	if l.FeeAfter != 0 {
		t.Errorf("FeeAfter = %v, want 0 (clamped)", l.FeeAfter)
	}
}

func TestUpdateColumnsByFeeChange_Idempotent(t *testing.T) {
	assigner := NewFeeAssigner(utils.NewLogger())
	schedule := models.FeeSchedule{High: 0.02, Mid: 0.03, Low: 0.05}

	l := testListing(200)
	assigner.UpdateColumnsByFeeChange([]*models.Listing{l}, schedule)

	group, before, after := l.BookedGroup, l.FeeBefore, l.FeeAfter
	assigner.UpdateColumnsByFeeChange([]*models.Listing{l}, schedule)

	if l.BookedGroup != group || l.FeeBefore != before || l.FeeAfter != after {
		t.Errorf("re-applying the same schedule changed tier/fee columns: group %q->%q, before %v->%v, after %v->%v",
			group, l.BookedGroup, before, l.FeeBefore, after, l.FeeAfter)
	}
}

func TestUpdateColumnsByFeeChange_SensitivityShift(t *testing.T) {
	assigner := NewFeeAssigner(utils.NewLogger())
	l := testListing(50) // low tier

	// Low fee 6% -> delta of +2.7 percentage points over the 3.3% baseline.
	assigner.UpdateColumnsByFeeChange([]*models.Listing{l}, models.FeeSchedule{High: 0.02, Mid: 0.03, Low: 0.06})

	delta := (0.06 - 0.033) * 100
	if got, want := l.ReviewScoresValue, 4.4-0.0035*delta; !almostEqual(got, want) {
		t.Errorf("ReviewScoresValue = %v, want %v", got, want)
	}
	if got, want := l.NumberOfReviews, 50-0.002*delta; !almostEqual(got, want) {
		t.Errorf("NumberOfReviews = %v, want %v", got, want)
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
