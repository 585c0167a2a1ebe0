package services

import (
	"math"

	"airbnb-fee-simulator/models"
	"airbnb-fee-simulator/utils"
)

// FeatureColumns is the fixed model-input ordering. The scaler and the
// trained estimators in the model artifact are fitted against exactly this
// layout; reordering it invalidates every artifact in circulation.
//
// The identifier, target, tier and fee columns are deliberately absent:
// the fee's influence on demand enters through the sensitivity-shifted
// host-quality columns.
var FeatureColumns = []string{
	"price",
	"host_response_rate",
	"host_acceptance_rate",
	"host_is_superhost",
	"instant_bookable",
	"number_of_reviews",
	"number_of_reviews_ltm",
	"reviews_per_month",
	"accommodates",
	"bedrooms",
	"review_scores_cleanliness",
	"review_scores_communication",
	"review_scores_checkin",
	"review_scores_value",
	"has_basic_score",
	"has_safety_score",
	"has_hygiene_score",
	"has_cooking_score",
	"has_sleep_score",
	"has_appliances_score",
	"has_work_score",
	"has_checkin_score",
	"has_pet_score",
	"has_longterm_score",
	"host_response_gap",
	"review_density",
	"recent_review_ratio",
	"host_activity_score",
	"reviews_x_beds",
	"acceptance_per_bed",
	"monthly_review_score",
	"sleep_x_work",
	"log_reviews",
	"log_beds",
	"log_accommodates",
	"is_popular",
	"size_category",
	"bedroom_category",
	"is_premium",
	"log_checkin_score",
	"log_longterm_score",
	"avg_facility_score",
	"sum_facility_score",
}

// FeatureDeriver turns augmented listings into the numeric matrix the
// demand model consumes. Every derived column is a pure function of the
// listing's own fields; the one cross-row input, the population mean of
// number_of_reviews, is passed in explicitly.
type FeatureDeriver struct {
	logger *utils.Logger
}

// NewFeatureDeriver creates a new FeatureDeriver
func NewFeatureDeriver(logger *utils.Logger) *FeatureDeriver {
	return &FeatureDeriver{logger: logger}
}

// MeanReviews returns the population mean of number_of_reviews for the
// is_popular flag. It must be recomputed fresh for every batch: filtering
// the table changes the mean, and with it which listings count as popular.
func MeanReviews(listings []*models.Listing) float64 {
	if len(listings) == 0 {
		return 0
	}
	var sum float64
	for _, l := range listings {
		sum += l.NumberOfReviews
	}
	return sum / float64(len(listings))
}

// Derive builds the model-input row for one listing, ordered per
// FeatureColumns. meanReviews is the batch statistic from MeanReviews.
func (d *FeatureDeriver) Derive(l *models.Listing, meanReviews float64) []float64 {
	// Ratio denominators carry additive epsilon guards so a zero column
	// never divides by zero.
	responseGap := l.HostResponseRate - l.HostAcceptanceRate
	reviewDensity := l.NumberOfReviews / (l.Accommodates + 1e-5)
	recentReviewRatio := l.NumberOfReviewsLTM / (l.NumberOfReviews + 1)
	hostActivityScore := l.HostResponseRate * l.HostIsSuperhost
	reviewsXBeds := l.NumberOfReviews * l.Bedrooms
	acceptancePerBed := l.HostAcceptanceRate / (l.Bedrooms + 1)
	monthlyReviewScore := l.ReviewsPerMonth * l.HasHygieneScore
	sleepXWork := l.HasSleepScore * l.HasWorkScore

	isPopular := 0.0
	if l.NumberOfReviews > meanReviews {
		isPopular = 1.0
	}

	isPremium := 0.0
	if l.HostIsSuperhost == 1.0 && l.InstantBookable == 1.0 {
		isPremium = 1.0
	}

	facilityScores := [...]float64{
		l.HasBasicScore, l.HasSafetyScore, l.HasHygieneScore,
		l.HasCookingScore, l.HasSleepScore, l.HasAppliancesScore,
		l.HasWorkScore, l.HasCheckinScore, l.HasPetScore, l.HasLongtermScore,
	}
	var sumFacility float64
	for _, s := range facilityScores {
		sumFacility += s
	}
	avgFacility := sumFacility / float64(len(facilityScores))

	return []float64{
		l.Price,
		l.HostResponseRate,
		l.HostAcceptanceRate,
		l.HostIsSuperhost,
		l.InstantBookable,
		l.NumberOfReviews,
		l.NumberOfReviewsLTM,
		l.ReviewsPerMonth,
		l.Accommodates,
		l.Bedrooms,
		l.ReviewScoresCleanliness,
		l.ReviewScoresCommunication,
		l.ReviewScoresCheckin,
		l.ReviewScoresValue,
		l.HasBasicScore,
		l.HasSafetyScore,
		l.HasHygieneScore,
		l.HasCookingScore,
		l.HasSleepScore,
		l.HasAppliancesScore,
		l.HasWorkScore,
		l.HasCheckinScore,
		l.HasPetScore,
		l.HasLongtermScore,
		responseGap,
		reviewDensity,
		recentReviewRatio,
		hostActivityScore,
		reviewsXBeds,
		acceptancePerBed,
		monthlyReviewScore,
		sleepXWork,
		math.Log1p(l.NumberOfReviews),
		math.Log1p(l.Bedrooms),
		math.Log1p(l.Accommodates),
		isPopular,
		sizeCategory(l.Accommodates),
		bedroomCategory(l.Bedrooms),
		isPremium,
		math.Log1p(l.HasCheckinScore),
		math.Log1p(l.HasLongtermScore),
		avgFacility,
		sumFacility,
	}
}

// Matrix derives the full feature matrix for a batch, recomputing the
// review-count mean on exactly this batch.
func (d *FeatureDeriver) Matrix(listings []*models.Listing) [][]float64 {
	mean := MeanReviews(listings)
	rows := make([][]float64, len(listings))
	for i, l := range listings {
		rows[i] = d.Derive(l, mean)
	}
	d.logger.Debug("Derived %d-column feature matrix for %d listings (mean reviews %.2f)",
		len(FeatureColumns), len(listings), mean)
	return rows
}

// sizeCategory bins accommodates into small integer codes:
// (0,2] -> 0, (2,4] -> 1, (4,10] -> 2, above -> 3.
func sizeCategory(accommodates float64) float64 {
	switch {
	case accommodates <= 2:
		return 0
	case accommodates <= 4:
		return 1
	case accommodates <= 10:
		return 2
	default:
		return 3
	}
}

// bedroomCategory bins bedrooms with a -0.1 lower bound so studios (zero
// bedrooms) land in the first bucket: (-0.1,1] -> 0, (1,2] -> 1,
// (2,3] -> 2, above -> 3.
func bedroomCategory(bedrooms float64) float64 {
	switch {
	case bedrooms <= 1:
		return 0
	case bedrooms <= 2:
		return 1
	case bedrooms <= 3:
		return 2
	default:
		return 3
	}
}
