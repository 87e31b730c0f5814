package results

import (
	"fmt"
	"os"
	"path/filepath"

	"orgscan/internal/domain"
	"orgscan/internal/ports"
)

var _ ports.ResultCollector = (*Service)(nil)

// Service owns the scanner's staging artifact once a job's outcome is known.
// Found-secrets artifacts are relocated into a per-organization directory;
// every other outcome must leave the shared staging path empty so a later
// job cannot observe a stale file.
type Service struct {
	resultsDir string
}

func New(resultsDir string) *Service {
	return &Service{resultsDir: resultsDir}
}

func (s *Service) Collect(org domain.Organization, outcome domain.ScanOutcome) error {
	staging := domain.StagingArtifact(s.resultsDir, org)

	if outcome != domain.OutcomeFindings {
		if err := os.Remove(staging); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove staging artifact for %s: %w", org, err)
		}
		return nil
	}

	final := domain.FinalArtifact(s.resultsDir, org)
	if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return fmt.Errorf("create results dir for %s: %w", org, err)
	}
	if err := os.Rename(staging, final); err != nil {
		return fmt.Errorf("relocate artifact for %s: %w", org, err)
	}
	return nil
}

// Sweep removes any staging artifacts still sitting at the results root,
// typically left by scanners killed mid-write during shutdown.
func (s *Service) Sweep() {
	stale, err := filepath.Glob(filepath.Join(s.resultsDir, "verified_secrets_*.json"))
	if err != nil {
		return
	}
	for _, path := range stale {
		_ = os.Remove(path)
	}
}
