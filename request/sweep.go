package request

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sweep finds offered requests whose deadline has passed and drives each
// through the shared re-offer/expire policy. One failing request does not
// stop the rest; failures come back joined.
//
// Sweep is idempotent: a request already re-offered or expired by an
// earlier pass (or by a concurrent accept) fails the re-check under its row
// lock and is skipped.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.repo.ListExpiredOffered(ctx, now)
	if err != nil {
		return 0, err
	}

	var (
		swept int
		errs  []error
	)
	for _, id := range ids {
		acted, err := s.sweepOne(ctx, id, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("request %s: %w", id, err))
			continue
		}
		if acted {
			swept++
		}
	}
	return swept, errors.Join(errs...)
}

func (s *Service) sweepOne(ctx context.Context, id string, now time.Time) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("request: begin sweep tx: %w", err)
	}
	defer tx.Rollback(ctx)

	req, err := s.repo.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	// The candidate list was computed without a lock; someone may have
	// accepted, cancelled or re-offered in between.
	if req.Status != StatusOffered || req.OfferExpiresAt == nil || req.OfferExpiresAt.After(now) {
		return false, nil
	}

	if err := s.offers.ExpireOpen(ctx, tx, id, ""); err != nil {
		return false, err
	}
	all, err := s.offers.ListByRequest(ctx, tx, id)
	if err != nil {
		return false, err
	}
	if _, err := s.advanceAfterRound(ctx, tx, req, all); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("request: commit sweep: %w", err)
	}
	return true, nil
}
