package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"airbnb-fee-simulator/models"
	"airbnb-fee-simulator/utils"
)

// ErrMissingColumn wraps schema failures so callers can branch on them.
var ErrMissingColumn = errors.New("missing required column")

// requiredColumns are the dataset columns feature derivation depends on.
// A dataset missing any of them fails at load time with the column named;
// nothing is silently defaulted.
var requiredColumns = []string{
	"id",
	"price",
	"booked",
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
}

// CSVReader loads the listing dataset from a header-addressed CSV file
type CSVReader struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVReader creates a new CSVReader
func NewCSVReader(filePath string, logger *utils.Logger) *CSVReader {
	return &CSVReader{filePath: filePath, logger: logger}
}

// ReadListings parses the dataset, validating the schema up front and the
// per-row invariants (price >= 0, 0 <= booked <= 365) as it goes.
func (r *CSVReader) ReadListings() ([]*models.Listing, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("dataset %s: %w: %q", r.filePath, ErrMissingColumn, name)
		}
	}

	var listings []*models.Listing
	line := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read dataset row %d: %w", line+1, err)
		}
		line++

		l, err := parseListing(record, cols)
		if err != nil {
			return nil, fmt.Errorf("dataset row %d: %w", line, err)
		}
		listings = append(listings, l)
	}

	r.logger.Info("Loaded %d listings from %s", len(listings), r.filePath)
	return listings, nil
}

func parseListing(record []string, cols map[string]int) (*models.Listing, error) {
	field := func(name string) (float64, error) {
		raw := strings.TrimSpace(record[cols[name]])
		// Boolean columns sometimes arrive as t/f flags.
		switch strings.ToLower(raw) {
		case "t", "true":
			return 1, nil
		case "f", "false":
			return 0, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: invalid value %q", name, raw)
		}
		return v, nil
	}

	id, err := strconv.ParseInt(strings.TrimSpace(record[cols["id"]]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("column \"id\": invalid value %q", record[cols["id"]])
	}

	l := &models.Listing{ID: id}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"price", &l.Price},
		{"booked", &l.Booked},
		{"host_response_rate", &l.HostResponseRate},
		{"host_acceptance_rate", &l.HostAcceptanceRate},
		{"host_is_superhost", &l.HostIsSuperhost},
		{"instant_bookable", &l.InstantBookable},
		{"number_of_reviews", &l.NumberOfReviews},
		{"number_of_reviews_ltm", &l.NumberOfReviewsLTM},
		{"reviews_per_month", &l.ReviewsPerMonth},
		{"accommodates", &l.Accommodates},
		{"bedrooms", &l.Bedrooms},
		{"review_scores_cleanliness", &l.ReviewScoresCleanliness},
		{"review_scores_communication", &l.ReviewScoresCommunication},
		{"review_scores_checkin", &l.ReviewScoresCheckin},
		{"review_scores_value", &l.ReviewScoresValue},
		{"has_basic_score", &l.HasBasicScore},
		{"has_safety_score", &l.HasSafetyScore},
		{"has_hygiene_score", &l.HasHygieneScore},
		{"has_cooking_score", &l.HasCookingScore},
		{"has_sleep_score", &l.HasSleepScore},
		{"has_appliances_score", &l.HasAppliancesScore},
		{"has_work_score", &l.HasWorkScore},
		{"has_checkin_score", &l.HasCheckinScore},
		{"has_pet_score", &l.HasPetScore},
		{"has_longterm_score", &l.HasLongtermScore},
	} {
		v, err := field(f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	if l.Price < 0 {
		return nil, fmt.Errorf("listing %d: negative price %.2f", l.ID, l.Price)
	}
	if l.Booked < 0 || l.Booked > 365 {
		return nil, fmt.Errorf("listing %d: booked %.1f outside [0, 365]", l.ID, l.Booked)
	}

	return l, nil
}
