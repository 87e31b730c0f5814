package ports

import (
	"context"
	"time"

	"orgscan/internal/domain"
)

// OrganizationSource produces the distinct organizations to scan, most
// recent force-push activity first. Implementations must not return
// duplicates.
type OrganizationSource interface {
	List(ctx context.Context) ([]domain.Organization, error)
}

// ScanRunner executes one organization's scan subprocess to completion or
// deadline. It blocks for at most deadline plus a small termination grace
// period and never returns an error for a scan that merely failed; errors
// are reserved for the runner's own misconfiguration.
type ScanRunner interface {
	Run(ctx context.Context, org domain.Organization, deadline time.Duration) domain.ScanResult
}

// ResultCollector takes exclusive ownership of the scanner's staging
// artifact once a job's outcome is known: relocate it for found-secrets
// outcomes, remove it for everything else. Collect must complete before the
// job is reported so concurrent jobs never observe each other's staging
// files.
type ResultCollector interface {
	Collect(org domain.Organization, outcome domain.ScanOutcome) error
}
