package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every knob of a batch scan run. Environment variables give
// the defaults; CLI flags layered on top by the caller win.
type Config struct {
	Env           string
	DatabaseURL   string
	ResultsDir    string
	ScannerBin    string
	ParallelOrgs  int
	WorkersPerOrg int
	JobTimeout    time.Duration
	Debug         bool
	ListenAddr    string // live status endpoint; empty disables it
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// Load reads configuration from a .env file (if present) and the
// environment. DATABASE_URL is required: both organization discovery and the
// scanner itself read from that store.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:           getenv("APP_ENV", "development"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		ResultsDir:    getenv("RESULTS_DIR", "results"),
		ScannerBin:    getenv("SCANNER_BIN", "force-push-scanner"),
		ParallelOrgs:  getenvInt("PARALLEL_ORGS", 4),
		WorkersPerOrg: getenvInt("WORKERS_PER_ORG", 8),
		JobTimeout:    getenvDuration("JOB_TIMEOUT", time.Hour),
		ListenAddr:    os.Getenv("LISTEN_ADDR"),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

// Validate rejects values no run can proceed with.
func (c Config) Validate() error {
	if c.ParallelOrgs < 1 {
		return fmt.Errorf("parallel orgs must be >= 1, got %d", c.ParallelOrgs)
	}
	if c.WorkersPerOrg < 1 {
		return fmt.Errorf("workers per org must be >= 1, got %d", c.WorkersPerOrg)
	}
	if c.JobTimeout <= 0 {
		return fmt.Errorf("job timeout must be positive, got %s", c.JobTimeout)
	}
	if c.ScannerBin == "" {
		return fmt.Errorf("scanner binary not set")
	}
	return nil
}
