package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application-level configuration.
// Fee values are stored as fractions; the *_PCT env vars are converted on load.
type Config struct {
	// Input
	DatasetPath string

	// Model artifact
	ModelArtifactURL string
	ModelCachePath   string
	MaxRetries       int

	// Output
	OutputCSVPath string
	DatabaseURL   string // empty disables Postgres persistence

	// Grid search
	FeeStep       float64
	FeeMax        float64
	SearchWorkers int
	SearchTimeout time.Duration

	// HTTP
	Port string

	Debug bool
}

// Load reads configuration from a .env file (if present) and the
// environment, falling back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatasetPath: getEnv("DATASET_PATH", "assets/inside_airbnb_merged_final_data.csv"),

		ModelArtifactURL: getEnv("MODEL_ARTIFACT_URL", "https://storage.googleapis.com/airbnb-fee-sim/booked_days_ensemble.json"),
		ModelCachePath:   getEnv("MODEL_CACHE_PATH", "models/booked_days_model.json"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),

		OutputCSVPath: getEnv("OUTPUT_CSV_PATH", "output/simulation_results.csv"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		FeeStep:       getEnvFloat("FEE_STEP_PCT", 0.5) / 100,
		FeeMax:        getEnvFloat("FEE_MAX_PCT", 6.0) / 100,
		SearchWorkers: getEnvInt("SEARCH_WORKERS", 4),
		SearchTimeout: time.Duration(getEnvInt("SEARCH_TIMEOUT_SEC", 600)) * time.Second,

		Port: getEnv("PORT", "8080"),

		Debug: getEnv("DEBUG", "false") == "true",
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
