package sql

import (
	"context"
	"errors"
	"fmt"
	"time"
)

func (r *Repository) ClaimJobRun(ctx context.Context, name string, at time.Time, ttl time.Duration) (bool, error) {
	if name == "" {
		return false, errors.New("job name is required")
	}
	if ttl <= 0 {
		return false, errors.New("claim ttl must be positive")
	}

	res, err := r.exec(ctx, r.queries.ClaimJobRunQuery(name, at, at.Add(-ttl)))
	if err != nil {
		return false, fmt.Errorf("claim job run: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *Repository) ReleaseJobRun(ctx context.Context, name string, day time.Time) error {
	if _, err := r.exec(ctx, r.queries.ReleaseJobRunQuery(name, day)); err != nil {
		return fmt.Errorf("release job run: %w", err)
	}
	return nil
}
