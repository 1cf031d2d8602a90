package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"reefmetrics/domain/core"
	"reefmetrics/domain/reef"
)

// Config represents the complete pipeline configuration
type Config struct {
	Paths       PathConfig
	Sampling    SamplingConfig
	Uncertainty reef.UncertaintyConfig
	Database    DatabaseConfig
	Server      ServerConfig
}

// PathConfig holds input table and output locations
type PathConfig struct {
	CriteriaMedianFile  string
	ExpertPoolFile      string
	ReefMetadataFile    string
	DeploymentModelFile string
	ProductionModelFile string
	OutputDir           string
}

// SamplingConfig holds simulation and draw counts
type SamplingConfig struct {
	Sims        int
	Draws       int
	Contingency float64
	Seed        uint64
	Workers     int
}

// DatabaseConfig holds postgres settings for the optional result store
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds the results API settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from a .env file (if present) and the
// environment, applying defaults and validating before returning.
func Load() (*Config, error) {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{
		Paths: PathConfig{
			CriteriaMedianFile:  getEnv("REEF_CRITERIA_MEDIAN_FILE", "datasets/criteria_median.csv"),
			ExpertPoolFile:      getEnv("REEF_EXPERT_POOL_FILE", "datasets/expert_pool.csv"),
			ReefMetadataFile:    getEnv("REEF_METADATA_FILE", "datasets/econ_spatial.csv"),
			DeploymentModelFile: getEnv("REEF_DEPLOY_MODEL_FILE", "datasets/deployment_model.xlsx"),
			ProductionModelFile: getEnv("REEF_PROD_MODEL_FILE", "datasets/production_model.xlsx"),
			OutputDir:           getEnv("REEF_OUTPUT_DIR", "econ_outputs"),
		},
		Sampling: SamplingConfig{
			Sims:        getEnvInt("REEF_NSIMS", 20),
			Draws:       getEnvInt("REEF_NDRAWS", 4),
			Contingency: getEnvFloat("REEF_CONTINGENCY", 0.8),
			Seed:        uint64(getEnvInt("REEF_SEED", 0)),
			Workers:     getEnvInt("REEF_WORKERS", 4),
		},
		Uncertainty: reef.UncertaintyConfig{
			EcologicalReplicates: getEnvBool("REEF_UNCERT_ECOL", true),
			ShelterVolumeModel:   getEnvBool("REEF_UNCERT_SHELTER", false),
			ExpertThresholds:     getEnvBool("REEF_UNCERT_EXPERT", true),
			RTIIntercept:         getEnvBool("REEF_UNCERT_RTI", true),
			RFIIntercepts:        getEnvBool("REEF_UNCERT_RFI", true),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnv("REEF_API_PORT", "8090"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the numeric settings make sense.
func (c *Config) Validate() error {
	if c.Sampling.Sims < 1 {
		return core.NewConfigError("REEF_NSIMS", "must be at least 1")
	}
	if c.Sampling.Draws < 1 {
		return core.NewConfigError("REEF_NDRAWS", "must be at least 1")
	}
	if c.Sampling.Contingency < 0 {
		return core.NewConfigError("REEF_CONTINGENCY", "must be non-negative")
	}
	if c.Sampling.Workers < 1 {
		return core.NewConfigError("REEF_WORKERS", "must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
