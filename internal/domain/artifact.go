package domain

import "path/filepath"

// The external scanner writes its findings file at a fixed path directly
// under the results root. That path is shared staging: every job for the
// same org name targets it, so the collector must clear or relocate it
// before the job closes.

// StagingArtifact is where the scanner leaves the findings file for org.
func StagingArtifact(resultsDir string, org Organization) string {
	return filepath.Join(resultsDir, "verified_secrets_"+string(org)+".json")
}

// FinalArtifact is the per-organization destination of a relocated findings
// file.
func FinalArtifact(resultsDir string, org Organization) string {
	return filepath.Join(resultsDir, string(org), "verified_secrets_"+string(org)+".json")
}
