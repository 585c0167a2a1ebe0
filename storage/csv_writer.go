package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"airbnb-fee-simulator/models"
	"airbnb-fee-simulator/utils"
)

// CSVWriter exports per-listing simulation results to a CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// WriteResults writes the augmented listing table after a simulation run.
// Fees are written as fractions, matching the internal unit.
func (w *CSVWriter) WriteResults(listings []*models.Listing) error {
	// Ensure output directory exists
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"id", "price", "booked", "booked_group",
		"fee_before", "fee_after", "booked_new", "booked_new_days", "sales",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, l := range listings {
		row := []string{
			strconv.FormatInt(l.ID, 10),
			strconv.FormatFloat(l.Price, 'f', 2, 64),
			strconv.FormatFloat(l.Booked, 'f', 0, 64),
			string(l.BookedGroup),
			strconv.FormatFloat(l.FeeBefore, 'f', 4, 64),
			strconv.FormatFloat(l.FeeAfter, 'f', 4, 64),
			strconv.FormatFloat(l.BookedNew, 'f', 4, 64),
			strconv.Itoa(l.BookedNewDays()),
			strconv.FormatFloat(l.Sales, 'f', 2, 64),
		}
		if err := writer.Write(row); err != nil {
			w.logger.Error("Failed to write CSV row for listing %d: %v", l.ID, err)
		}
	}

	w.logger.Info("Simulation results written to: %s (%d rows)", w.filePath, len(listings))
	return nil
}
