package models

import "time"

// Tier buckets a listing by its historical annual booking days.
// The name describes booking volume, not fee level: the high-volume tier
// ends up with the lowest fee in the optimal schedule. That inversion is
// the domain convention and is kept everywhere.
type Tier string

const (
	TierLow  Tier = "low"
	TierMid  Tier = "mid"
	TierHigh Tier = "high"
)

// FeeSchedule maps each volume tier to a platform fee rate.
// Rates are fractions (0.033 = 3.3%) everywhere inside the program;
// percentages exist only at I/O boundaries.
type FeeSchedule struct {
	High float64
	Mid  float64
	Low  float64
}

// Rate returns the fee rate assigned to a tier.
func (s FeeSchedule) Rate(t Tier) float64 {
	switch t {
	case TierHigh:
		return s.High
	case TierMid:
		return s.Mid
	default:
		return s.Low
	}
}

// Listing represents one row of the input dataset, plus the columns a
// simulation run augments it with.
type Listing struct {
	ID     int64
	Price  float64
	Booked float64 // days booked in the observed year, 0-365

	HostResponseRate   float64
	HostAcceptanceRate float64
	HostIsSuperhost    float64
	InstantBookable    float64
	NumberOfReviews    float64
	NumberOfReviewsLTM float64
	ReviewsPerMonth    float64
	Accommodates       float64
	Bedrooms           float64

	ReviewScoresCleanliness   float64
	ReviewScoresCommunication float64
	ReviewScoresCheckin       float64
	ReviewScoresValue         float64

	HasBasicScore      float64
	HasSafetyScore     float64
	HasHygieneScore    float64
	HasCookingScore    float64
	HasSleepScore      float64
	HasAppliancesScore float64
	HasWorkScore       float64
	HasCheckinScore    float64
	HasPetScore        float64
	HasLongtermScore   float64

	// Augmented per simulation run, never persisted back to the dataset.
	BookedGroup Tier
	FeeBefore   float64
	FeeAfter    float64
	BookedNew   float64 // continuous model estimate, not clamped
	Sales       float64
}

// Clone returns an independent copy of the listing.
func (l *Listing) Clone() *Listing {
	c := *l
	return &c
}

// CloneListings deep-copies a table so a simulation run can mutate its own
// snapshot without touching the caller's rows.
func CloneListings(listings []*Listing) []*Listing {
	out := make([]*Listing, len(listings))
	for i, l := range listings {
		out[i] = l.Clone()
	}
	return out
}

// BookedNewDays truncates the continuous prediction toward zero for
// display and storage paths that need whole days.
func (l *Listing) BookedNewDays() int {
	return int(l.BookedNew)
}

// RevenueSummary holds the three aggregate scalars of a simulation run.
type RevenueSummary struct {
	OriginalTotal    float64
	SimulatedTotal   float64
	RevenueChangePct float64
}

// SearchResult is the outcome of a successful fee grid search.
type SearchResult struct {
	Schedule            FeeSchedule
	PlatformRevenue     float64
	HostRevenue         float64
	HostRevenueDeltaPct float64
	Evaluated           int // grid cells simulated
	Feasible            int // cells that met the host-revenue floor
}

// SimulationRun bundles everything a storage backend persists about one
// completed simulation.
type SimulationRun struct {
	Schedule  FeeSchedule
	Summary   RevenueSummary
	Listings  []*Listing
	CreatedAt time.Time
}
