package domain

// Core domain types for a batch scan run. Everything here is derived from the
// organization list and the per-job subprocess results; nothing is persisted.

// Organization is the opaque identifier of one source-control org to scan.
// Uniqueness and ordering (most recent force-push activity first) are the
// organization source's responsibility.
type Organization string

// ScanJob is one scheduled scan attempt for one organization. Index is
// 1-based and follows source order; a job has no identity beyond its
// lifetime.
type ScanJob struct {
	Org   Organization
	Index int
	Total int
}

// ScanOutcome is the terminal classification of a job.
type ScanOutcome string

const (
	OutcomeSuccess  ScanOutcome = "success"
	OutcomeFindings ScanOutcome = "found-secrets"
	OutcomeFailed   ScanOutcome = "failed"
	OutcomeTimedOut ScanOutcome = "timed-out"
)

// ScanResult is what a worker observed from the scanner subprocess, before
// classification. ExitCode is -1 when the process could not be started or
// was killed before exiting on its own.
type ScanResult struct {
	ExitCode int
	TimedOut bool
	// ArtifactNonEmpty reports whether the scanner left a non-empty findings
	// file at its staging path.
	ArtifactNonEmpty bool
}

// JobReport pairs a finished job with its classified outcome. Reports flow
// over a channel to the single goroutine that owns the run counters.
type JobReport struct {
	Job      ScanJob
	Outcome  ScanOutcome
	ExitCode int
}

// RunCounters aggregates terminal outcomes for one run. Owned by exactly one
// goroutine; readers get copies.
//
// Invariants at run completion: Succeeded+Failed == Total (timed-out jobs
// count as failed) and FoundSecrets <= Succeeded.
type RunCounters struct {
	Total        int
	Succeeded    int
	Failed       int
	FoundSecrets int
}

// Record folds one terminal outcome into the counters.
func (c *RunCounters) Record(o ScanOutcome) {
	c.Total++
	switch o {
	case OutcomeSuccess:
		c.Succeeded++
	case OutcomeFindings:
		c.Succeeded++
		c.FoundSecrets++
	case OutcomeFailed, OutcomeTimedOut:
		c.Failed++
	}
}
