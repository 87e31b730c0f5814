package scanner

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"orgscan/internal/config"
	"orgscan/internal/domain"
	"orgscan/internal/ports"
)

var _ ports.ScanRunner = (*Runner)(nil)

// Runner launches one external scanner subprocess per organization and
// supervises it to exit or deadline. Each subprocess runs in its own process
// group so termination reaches the scanner's children (git, trufflehog) as
// well.
type Runner struct {
	bin         string
	databaseURL string
	resultsDir  string
	workers     int
	debug       bool
	grace       time.Duration
}

func New(cfg config.Config) *Runner {
	return &Runner{
		bin:         cfg.ScannerBin,
		databaseURL: cfg.DatabaseURL,
		resultsDir:  cfg.ResultsDir,
		workers:     cfg.WorkersPerOrg,
		debug:       cfg.Debug,
		grace:       10 * time.Second,
	}
}

// args builds the scanner invocation for one organization.
func (r *Runner) args(org domain.Organization) []string {
	a := []string{
		string(org), "scan",
		"--db-url", r.databaseURL,
		"--max-workers", strconv.Itoa(r.workers),
		"--results-dir", r.resultsDir,
	}
	if r.debug {
		a = append(a, "--verbose")
	}
	return a
}

// Run executes org's scan, blocking until the subprocess exits, the deadline
// elapses, or ctx is canceled. It never blocks past deadline plus the
// termination grace period.
func (r *Runner) Run(ctx context.Context, org domain.Organization, deadline time.Duration) domain.ScanResult {
	cmd := exec.Command(r.bin, r.args(org)...)
	configureProcessGroup(cmd)

	out, closeOut := r.output(org)
	cmd.Stdout = out
	cmd.Stderr = out
	defer closeOut()

	if err := cmd.Start(); err != nil {
		log.Printf("scan %s: start scanner: %v", org, err)
		return domain.ScanResult{ExitCode: -1}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	var timedOut bool
	select {
	case err := <-done:
		return r.result(org, exitCode(err), false)
	case <-timer.C:
		timedOut = true
	case <-ctx.Done():
	}

	r.terminate(cmd, done)
	return r.result(org, -1, timedOut)
}

// terminate asks the whole process group to stop, waits out the grace
// period, then force-kills. The force kill is the backstop for scanners that
// ignore the graceful signal; <-done afterwards guarantees the process is
// reaped before the job closes.
func (r *Runner) terminate(cmd *exec.Cmd, done <-chan error) {
	terminateProcessGroup(cmd)
	grace := r.grace
	if grace <= 0 {
		grace = 10 * time.Second
	}
	select {
	case <-done:
	case <-time.After(grace):
		killProcessGroup(cmd)
		<-done
	}
}

func (r *Runner) result(org domain.Organization, exitCode int, timedOut bool) domain.ScanResult {
	return domain.ScanResult{
		ExitCode:         exitCode,
		TimedOut:         timedOut,
		ArtifactNonEmpty: artifactNonEmpty(domain.StagingArtifact(r.resultsDir, org)),
	}
}

// output returns the subprocess output sink: a per-organization log file in
// debug mode, nothing otherwise.
func (r *Runner) output(org domain.Organization) (io.Writer, func()) {
	if !r.debug {
		return io.Discard, func() {}
	}
	dir := filepath.Join(r.resultsDir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("scan %s: create log dir: %v", org, err)
		return io.Discard, func() {}
	}
	f, err := os.Create(filepath.Join(dir, string(org)+".log"))
	if err != nil {
		log.Printf("scan %s: create log file: %v", org, err)
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}

func artifactNonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
