package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"airbnb-fee-simulator/api"
	"airbnb-fee-simulator/config"
	"airbnb-fee-simulator/model"
	"airbnb-fee-simulator/models"
	"airbnb-fee-simulator/services"
	"airbnb-fee-simulator/storage"
	"airbnb-fee-simulator/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	serve := flag.Bool("serve", false, "run the HTTP API instead of the batch pipeline")
	flag.Parse()

	// ================== Bootstrap ====================
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetDebug(cfg.Debug)

	logger.Info("Airbnb Fee-Tier Revenue Simulator")
	logger.Info("Dataset: %s | Fee grid: step %.2f%% max %.2f%% | Workers: %d",
		cfg.DatasetPath, cfg.FeeStep*100, cfg.FeeMax*100, cfg.SearchWorkers)

	// ================== Dataset ======================
	reader := storage.NewCSVReader(cfg.DatasetPath, logger)
	raw, err := reader.ReadListings()
	if err != nil {
		logger.Error("Cannot load dataset: %v", err)
		os.Exit(1)
	}
	if len(raw) == 0 {
		logger.Warn("Dataset is empty — nothing to simulate")
		os.Exit(0)
	}

	// ================== Demand model =================
	store := model.NewArtifactStore(cfg.ModelArtifactURL, cfg.ModelCachePath, cfg.MaxRetries, logger)
	demand, err := store.Load()
	if err != nil {
		logger.Error("Cannot load demand model: %v", err)
		os.Exit(1)
	}

	sim := services.NewSimulator(demand, logger)
	search := services.NewGridSearch(sim, cfg.FeeStep, cfg.FeeMax, cfg.SearchWorkers, logger)

	if *serve {
		runServer(cfg, sim, search, raw, logger)
		return
	}

	runBatch(cfg, sim, search, raw, logger)
}

// runServer exposes the simulation entry points over HTTP for the
// presentation layer.
func runServer(cfg *config.Config, sim *services.Simulator, search *services.GridSearch,
	raw []*models.Listing, logger *utils.Logger) {

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	api.SetupRoutes(r.Group("/api"), sim, search, raw, cfg.SearchTimeout, logger)

	logger.Info("Serving simulation API on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("HTTP server failed: %v", err)
		os.Exit(1)
	}
}

// runBatch searches for the optimal fee schedule, re-simulates it, and
// writes results to CSV and (when configured) PostgreSQL.
func runBatch(cfg *config.Config, sim *services.Simulator, search *services.GridSearch,
	raw []*models.Listing, logger *utils.Logger) {

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SearchTimeout)
	defer cancel()

	result, err := search.Search(ctx, raw)
	if err != nil {
		if errors.Is(err, services.ErrNoFeasibleSchedule) {
			logger.Error("No fee schedule met the constraints (host revenue +1.5%%, short < mid < long, mid <= 3.3%%)")
		} else {
			logger.Error("Grid search failed: %v", err)
		}
		os.Exit(1)
	}

	listings, summary, err := sim.Simulate(raw, result.Schedule)
	if err != nil {
		logger.Error("Final simulation failed: %v", err)
		os.Exit(1)
	}

	// ========= CSV: per-listing results ==============
	csvWriter := storage.NewCSVWriter(cfg.OutputCSVPath, logger)
	if err := csvWriter.WriteResults(listings); err != nil {
		logger.Error("Failed to write CSV: %v", err)
		// Non-fatal: continue to DB storage and the report
	}

	// ========= PostgreSQL: run history ===============
	if cfg.DatabaseURL != "" {
		pgWriter, err := storage.NewPostgresWriter(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Warn("Skipping PostgreSQL storage: %v", err)
		} else {
			defer pgWriter.Close()
			if err := pgWriter.CreateTables(); err != nil {
				logger.Warn("Failed to create DB tables: %v", err)
			} else if err := pgWriter.SaveRun(&models.SimulationRun{
				Schedule:  result.Schedule,
				Summary:   *summary,
				Listings:  listings,
				CreatedAt: time.Now(),
			}); err != nil {
				logger.Warn("Failed to store run: %v", err)
			}
		}
	}

	// ==== Report =====================================
	services.PrintSimulationReport(summary, result.Schedule, services.SalesByTier(listings), result)

	fmt.Println(" Done! Per-listing results →", cfg.OutputCSVPath)
}
