package storage

import "airbnb-fee-simulator/models"

// DatasetReader loads the raw listing table a simulation runs over.
type DatasetReader interface {
	ReadListings() ([]*models.Listing, error)
}

// ResultStorage persists a completed simulation run.
type ResultStorage interface {
	SaveRun(run *models.SimulationRun) error
	Close() error
}
