package postgres

import (
	"context"
	"errors"
	"fmt"

	"orgscan/internal/domain"
	"orgscan/internal/ports"
)

var _ ports.OrganizationSource = (*DB)(nil)

// ErrSourceUnavailable wraps any failure to read the organization list. The
// orchestrator treats it as fatal: no jobs are dispatched.
var ErrSourceUnavailable = errors.New("organization source unavailable")

// List returns every distinct organization with recorded force-push events,
// most recent activity first. The GROUP BY both deduplicates and gives the
// recency ordering in one pass.
func (db *DB) List(ctx context.Context) ([]domain.Organization, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT repo_org
		FROM pushes
		GROUP BY repo_org
		ORDER BY MAX(timestamp) DESC, repo_org
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var org string
		if err := rows.Scan(&org); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		orgs = append(orgs, domain.Organization(org))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return orgs, nil
}
