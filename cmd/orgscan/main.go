package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	httpadapter "orgscan/internal/adapters/http"
	pg "orgscan/internal/adapters/postgres"
	scanadapter "orgscan/internal/adapters/scanner"
	"orgscan/internal/config"
	"orgscan/internal/domain"
	"orgscan/internal/services/results"
	"orgscan/internal/workers/scanrunner"
)

const exitInterrupted = 130

func main() {
	cfg, cfgErr := config.Load()

	debug := flag.Bool("debug", false, "write per-organization scanner logs under <results-dir>/logs")
	parallel := flag.Int("parallel-orgs", cfg.ParallelOrgs, "maximum concurrent organization scans")
	workers := flag.Int("workers-per-org", cfg.WorkersPerOrg, "worker count passed through to each scanner invocation")
	resultsDir := flag.String("results-dir", cfg.ResultsDir, "root directory for findings artifacts")
	jobTimeout := flag.Duration("job-timeout", cfg.JobTimeout, "wall-clock deadline per organization scan")
	scannerBin := flag.String("scanner-bin", cfg.ScannerBin, "external scanner executable")
	listen := flag.String("listen", cfg.ListenAddr, "address of the live status endpoint (empty disables)")
	migrate := flag.Bool("migrate", false, "apply schema migrations before scanning")
	flag.Usage = usage
	flag.Parse()

	cfg.Debug = *debug
	cfg.ParallelOrgs = *parallel
	cfg.WorkersPerOrg = *workers
	cfg.ResultsDir = *resultsDir
	cfg.JobTimeout = *jobTimeout
	cfg.ScannerBin = *scannerBin
	cfg.ListenAddr = *listen

	if cfgErr != nil {
		log.Fatal(cfgErr)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runID := uuid.New().String()
	log.Printf("run %s: parallel-orgs=%d workers-per-org=%d job-timeout=%s", runID, cfg.ParallelOrgs, cfg.WorkersPerOrg, cfg.JobTimeout)

	if *migrate {
		if err := pg.Migrate(ctx, cfg.DatabaseURL); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Print("migrations applied")
	}

	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		log.Fatalf("create results dir: %v", err)
	}

	orgs, err := organizations(ctx, cfg, flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	if len(orgs) == 0 {
		log.Print("no organizations to scan")
		return
	}

	collector := results.New(cfg.ResultsDir)
	pool := scanrunner.New(scanadapter.New(cfg), collector, cfg.ParallelOrgs, cfg.JobTimeout, os.Stdout)

	if cfg.ListenAddr != "" {
		srv := &http.Server{Addr: cfg.ListenAddr, Handler: httpadapter.New(runID, pool).Routes()}
		defer srv.Close()
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("status endpoint: %v", err)
			}
		}()
		log.Printf("status endpoint on %s", cfg.ListenAddr)
	}

	var interrupted atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received %s: draining, terminating in-flight scanners", sig)
		interrupted.Store(true)
		cancel()
	}()

	start := time.Now()
	fmt.Printf("scanning %d organizations, %d at a time\n", len(orgs), cfg.ParallelOrgs)
	counters := pool.Run(ctx, orgs)

	fmt.Printf("\nscanned %d organizations in %s: %d succeeded, %d failed, %d with verified secrets\n",
		counters.Total, time.Since(start).Round(time.Second), counters.Succeeded, counters.Failed, counters.FoundSecrets)

	if interrupted.Load() {
		collector.Sweep()
		os.Exit(exitInterrupted)
	}
}

// organizations resolves the job list: the positional override if given,
// otherwise the full most-recent-first list from the store. The store
// connection is only held for this one startup query.
func organizations(ctx context.Context, cfg config.Config, override string) ([]domain.Organization, error) {
	if override != "" {
		return []domain.Organization{domain.Organization(override)}, nil
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pg.ErrSourceUnavailable, err)
	}
	defer db.Close()
	return db.List(ctx)
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [organization]\n\n", os.Args[0])
	fmt.Fprint(flag.CommandLine.Output(), "Scans every organization with recorded force-push events, or only the one\ngiven as a positional argument.\n\nFlags:\n")
	flag.PrintDefaults()
}
