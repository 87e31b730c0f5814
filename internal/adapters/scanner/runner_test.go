//go:build !windows

package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgscan/internal/domain"
)

// fakeScanner writes an executable shell script standing in for the external
// scanner binary.
func fakeScanner(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-scanner")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func testRunner(bin, resultsDir string) *Runner {
	return &Runner{
		bin:         bin,
		databaseURL: "postgres://localhost/pushes",
		resultsDir:  resultsDir,
		workers:     8,
		grace:       200 * time.Millisecond,
	}
}

func TestRunCleanExit(t *testing.T) {
	r := testRunner(fakeScanner(t, "exit 0"), t.TempDir())

	res := r.Run(context.Background(), "acme", time.Minute)
	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.TimedOut)
	assert.False(t, res.ArtifactNonEmpty)
}

func TestRunNonzeroExit(t *testing.T) {
	r := testRunner(fakeScanner(t, "exit 3"), t.TempDir())

	res := r.Run(context.Background(), "acme", time.Minute)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.TimedOut)
}

func TestRunDetectsArtifact(t *testing.T) {
	resultsDir := t.TempDir()
	staging := domain.StagingArtifact(resultsDir, "acme")
	r := testRunner(fakeScanner(t, "printf secret > "+staging), resultsDir)

	res := r.Run(context.Background(), "acme", time.Minute)
	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.ArtifactNonEmpty)
}

func TestRunIgnoresEmptyArtifact(t *testing.T) {
	resultsDir := t.TempDir()
	staging := domain.StagingArtifact(resultsDir, "acme")
	r := testRunner(fakeScanner(t, ": > "+staging), resultsDir)

	res := r.Run(context.Background(), "acme", time.Minute)
	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.ArtifactNonEmpty)
}

func TestRunDeadline(t *testing.T) {
	r := testRunner(fakeScanner(t, "sleep 30"), t.TempDir())

	start := time.Now()
	res := r.Run(context.Background(), "acme", 100*time.Millisecond)
	assert.True(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	// Deadline plus grace, with headroom; never the scanner's own runtime.
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunContextCanceled(t *testing.T) {
	r := testRunner(fakeScanner(t, "sleep 30"), t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res := r.Run(ctx, "acme", time.Minute)
	assert.False(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunStartFailure(t *testing.T) {
	r := testRunner(filepath.Join(t.TempDir(), "missing-scanner"), t.TempDir())

	res := r.Run(context.Background(), "acme", time.Minute)
	assert.Equal(t, -1, res.ExitCode)
	assert.False(t, res.TimedOut)
}

func TestArgs(t *testing.T) {
	r := testRunner("force-push-scanner", "results")

	assert.Equal(t, []string{
		"acme", "scan",
		"--db-url", "postgres://localhost/pushes",
		"--max-workers", "8",
		"--results-dir", "results",
	}, r.args("acme"))

	r.debug = true
	assert.Contains(t, r.args("acme"), "--verbose")
}

func TestDebugLogFile(t *testing.T) {
	resultsDir := t.TempDir()
	r := testRunner(fakeScanner(t, "echo scanning"), resultsDir)
	r.debug = true

	res := r.Run(context.Background(), "acme", time.Minute)
	assert.Equal(t, 0, res.ExitCode)

	data, err := os.ReadFile(filepath.Join(resultsDir, "logs", "acme.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "scanning")
}
