package request

import (
	"context"
	"testing"
	"time"

	"quickfixhub/offer"
)

func TestSweep_ReoffersAfterTimeout(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2", "p-3", "p-4")
	req := fx.create(t)

	fx.clock.Advance(OfferTimeout + time.Minute)

	swept, err := fx.svc.Sweep(context.Background(), fx.clock.Now())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if swept != 1 {
		t.Fatalf("expected 1 swept, got %d", swept)
	}

	updated, err := fx.svc.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.Status != StatusOffered || updated.OfferRound != 2 {
		t.Fatalf("expected round 2 offered, got %s round %d", updated.Status, updated.OfferRound)
	}
	want := fx.clock.Now().Add(OfferTimeout)
	if updated.OfferExpiresAt == nil || !updated.OfferExpiresAt.Equal(want) {
		t.Fatalf("expected new deadline %v, got %v", want, updated.OfferExpiresAt)
	}

	// Round one's offers are all expired; the fresh provider holds the only
	// open one.
	for _, pid := range []string{"p-1", "p-2", "p-3"} {
		if got := fx.ledger.status(req.ID, pid); got != offer.StatusExpired {
			t.Errorf("%s: expected expired, got %s", pid, got)
		}
	}
	if got := fx.ledger.status(req.ID, "p-4"); got != offer.StatusOffered {
		t.Errorf("p-4: expected offered, got %s", got)
	}
	fx.assertInvariants(t)
}

func TestSweep_ExpiresWhenNoFreshProviders(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2")
	req := fx.create(t)

	fx.clock.Advance(OfferTimeout + time.Minute)

	if _, err := fx.svc.Sweep(context.Background(), fx.clock.Now()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	updated, err := fx.svc.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.Status != StatusExpired {
		t.Fatalf("expected expired, got %s", updated.Status)
	}
	fx.assertInvariants(t)
}

func TestSweep_ExpiresAfterMaxRounds(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2", "p-3", "p-4", "p-5", "p-6", "p-7", "p-8", "p-9", "p-10")
	req := fx.create(t)

	for round := 1; round <= MaxOfferRounds; round++ {
		fx.clock.Advance(OfferTimeout + time.Minute)
		if _, err := fx.svc.Sweep(context.Background(), fx.clock.Now()); err != nil {
			t.Fatalf("sweep round %d: %v", round, err)
		}
	}

	updated, err := fx.svc.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.Status != StatusExpired {
		t.Fatalf("expected expired after %d rounds, got %s round %d", MaxOfferRounds, updated.Status, updated.OfferRound)
	}
	if updated.OfferRound != MaxOfferRounds {
		t.Fatalf("expected round %d, got %d", MaxOfferRounds, updated.OfferRound)
	}
	fx.assertInvariants(t)
}

func TestSweep_SkipsUnexpiredDeadlines(t *testing.T) {
	fx := newEngine(t, "p-1")
	req := fx.create(t)

	fx.clock.Advance(OfferTimeout - time.Minute)

	swept, err := fx.svc.Sweep(context.Background(), fx.clock.Now())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if swept != 0 {
		t.Fatalf("expected 0 swept, got %d", swept)
	}

	updated, err := fx.svc.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.Status != StatusOffered || updated.OfferRound != 1 {
		t.Fatalf("request should be untouched, got %s round %d", updated.Status, updated.OfferRound)
	}
}

func TestSweep_SecondPassIsNoOp(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2")
	req := fx.create(t)

	fx.clock.Advance(OfferTimeout + time.Minute)
	now := fx.clock.Now()

	if _, err := fx.svc.Sweep(context.Background(), now); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	after, err := fx.svc.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	swept, err := fx.svc.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if swept != 0 {
		t.Fatalf("expected second sweep to act on nothing, got %d", swept)
	}

	again, err := fx.svc.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Status != after.Status || again.OfferRound != after.OfferRound {
		t.Fatalf("second sweep changed state: %s round %d -> %s round %d",
			after.Status, after.OfferRound, again.Status, again.OfferRound)
	}
}
