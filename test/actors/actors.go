package actors

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"quickfixhub/request"
)

// Actors hammer the lifecycle through the real service layer. Business
// rejections and dropped connections are expected under contention and
// chaos, so every call's error is swallowed; the oracles judge the
// resulting state, not the individual calls.

// Homeowner submits service requests and occasionally cancels one that is
// still pending or offered.
func Homeowner(ctx context.Context, svc *request.Service, userID string, serviceTypes []string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		st := serviceTypes[rand.Intn(len(serviceTypes))]
		_, _ = svc.Create(ctx, request.CreateParams{
			UserID:        userID,
			UserName:      "Stress Homeowner",
			UserEmail:     "stress@example.com",
			UserPhone:     "555-0100",
			ServiceType:   st,
			Description:   "stress " + st,
			Address:       "12 Main St",
			PreferredDate: "2025-06-05",
		})

		if rand.Intn(4) == 0 {
			if mine, err := svc.ListMine(ctx, userID); err == nil {
				for _, req := range mine {
					if req.Status == request.StatusPending || req.Status == request.StatusOffered {
						_, _ = svc.Cancel(ctx, req.ID, userID)
						break
					}
				}
			}
		}
		time.Sleep(time.Duration(30+rand.Intn(60)) * time.Millisecond)
	}
}

// Provider races other providers over open offers, accepting some and
// rejecting the rest, and works its assigned jobs toward completion.
func Provider(ctx context.Context, svc *request.Service, providerID string, stop <-chan struct{}) error {
	contact := request.ProviderContact{
		ProviderID: providerID,
		Name:       "Stress Provider",
		Phone:      "555-0199",
		Email:      fmt.Sprintf("%s@example.com", providerID),
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		if avail, err := svc.ListAvailableJobs(ctx, providerID); err == nil && len(avail) > 0 {
			job := avail[rand.Intn(len(avail))]
			if rand.Intn(10) < 6 {
				_, _ = svc.Accept(ctx, job.ID, contact)
			} else {
				_, _ = svc.Reject(ctx, job.ID, providerID)
			}
		}

		if jobs, err := svc.ListAssignedJobs(ctx, providerID); err == nil {
			for _, job := range jobs {
				switch {
				case job.Status == request.StatusAccepted && rand.Intn(3) == 0:
					_, _ = svc.Start(ctx, job.ID, providerID)
				case job.Status == request.StatusInProgress && rand.Intn(3) == 0:
					_, _ = svc.Complete(ctx, job.ID, providerID)
				}
			}
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Sweeper runs the timeout sweep as of a point past every live deadline, so
// rounds expire instantly instead of after the real timeout. Racing it
// against accepting providers is the whole point.
func Sweeper(ctx context.Context, svc *request.Service, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, _ = svc.Sweep(ctx, time.Now().UTC().Add(request.OfferTimeout+time.Minute))
		time.Sleep(time.Duration(200+rand.Intn(300)) * time.Millisecond)
	}
}
