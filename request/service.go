package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickfixhub/offer"
	"quickfixhub/provider"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// OfferTimeout is how long a round stays open before the sweeper may
	// expire it.
	OfferTimeout = 15 * time.Minute
	// MaxOfferRounds bounds how many batches a request may fan out.
	MaxOfferRounds = 3
	// OfferBatchSize is the number of providers contacted per round.
	OfferBatchSize = 3

	completedJobEarnings = 50
	dashboardRating      = 4.9
)

var (
	// ErrValidation signals missing or malformed input on create.
	ErrValidation = errors.New("request: invalid input")
	// ErrForbidden signals the actor does not own the request.
	ErrForbidden = errors.New("request: forbidden")
	// ErrInvalidState signals the operation is not legal in the request's
	// current lifecycle state.
	ErrInvalidState = errors.New("request: invalid state")
)

// TxBeginner abstracts the pgx pool so services can be tested with fakes.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OfferLedger is the slice of the offer repository the lifecycle drives.
type OfferLedger interface {
	CreateBatch(ctx context.Context, tx pgx.Tx, requestID string, providerIDs []string, now time.Time) ([]offer.Offer, error)
	GetActive(ctx context.Context, tx pgx.Tx, requestID, providerID string) (offer.Offer, error)
	MarkStatus(ctx context.Context, tx pgx.Tx, requestID, providerID string, status offer.Status) error
	ExpireOpen(ctx context.Context, tx pgx.Tx, requestID, exceptProviderID string) error
	ListByRequest(ctx context.Context, tx pgx.Tx, requestID string) ([]offer.Offer, error)
}

// Ranker supplies the eligible, ranked candidate list for a request.
type Ranker interface {
	Rank(ctx context.Context, serviceType, address string, exclude map[string]bool) ([]provider.Candidate, error)
}

// Notifier is a fire-and-forget sink. Implementations must never fail the
// business operation; delivery errors are theirs to log.
type Notifier interface {
	Notify(ctx context.Context, subject, message string)
}

// Service is the state machine for service requests. Every mutating method
// opens a transaction and locks the request row first, so operations on the
// same request are serialized while different requests proceed in parallel.
type Service struct {
	pool     TxBeginner
	repo     Repository
	offers   OfferLedger
	ranker   Ranker
	notifier Notifier
	now      func() time.Time
	idGen    func() string
}

// NewService wires the lifecycle over its collaborators.
func NewService(pool TxBeginner, repo Repository, offers OfferLedger, ranker Ranker) *Service {
	return &Service{
		pool:   pool,
		repo:   repo,
		offers: offers,
		ranker: ranker,
		now:    time.Now,
		idGen:  func() string { return uuid.NewString() },
	}
}

// WithNotifier attaches a notification sink.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithIDGenerator overrides request id generation, for tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGen = gen
	return s
}

// Create validates and persists a new request, then immediately runs the
// first offer round. With no eligible providers the request goes straight
// to expired.
func (s *Service) Create(ctx context.Context, params CreateParams) (ServiceRequest, error) {
	switch {
	case params.ServiceType == "":
		return ServiceRequest{}, fmt.Errorf("%w: serviceType is required", ErrValidation)
	case params.Description == "":
		return ServiceRequest{}, fmt.Errorf("%w: description is required", ErrValidation)
	case params.Address == "":
		return ServiceRequest{}, fmt.Errorf("%w: address is required", ErrValidation)
	case params.PreferredDate == "":
		return ServiceRequest{}, fmt.Errorf("%w: preferredDate is required", ErrValidation)
	case params.UserID == "":
		return ServiceRequest{}, fmt.Errorf("%w: missing requester", ErrValidation)
	}

	now := s.now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ServiceRequest{}, fmt.Errorf("request: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := s.repo.Create(ctx, tx, ServiceRequest{
		ID:            s.idGen(),
		UserID:        params.UserID,
		UserName:      params.UserName,
		UserEmail:     params.UserEmail,
		UserPhone:     params.UserPhone,
		ServiceType:   params.ServiceType,
		Description:   params.Description,
		Address:       params.Address,
		PreferredDate: params.PreferredDate,
		PreferredTime: params.PreferredTime,
		Status:        StatusPending,
		OfferRound:    0,
		CreatedAt:     now,
	})
	if err != nil {
		return ServiceRequest{}, err
	}

	ranked, err := s.ranker.Rank(ctx, created.ServiceType, created.Address, nil)
	if err != nil {
		return ServiceRequest{}, err
	}

	batch := candidateIDs(ranked, OfferBatchSize)
	if len(batch) == 0 {
		created, err = s.repo.UpdateStatus(ctx, tx, created.ID, StatusExpired, now)
	} else {
		created, err = s.startRound(ctx, tx, created, batch)
	}
	if err != nil {
		return ServiceRequest{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ServiceRequest{}, fmt.Errorf("request: commit create: %w", err)
	}

	if created.Status == StatusOffered {
		s.notify(ctx, "New service request",
			fmt.Sprintf("Request %s (%s) offered to %d providers, round %d",
				created.ID, created.ServiceType, len(batch), created.OfferRound))
	}
	return created, nil
}

// Accept assigns the request to the provider holding an active offer and
// expires every other open offer. This is the only path that assigns a
// provider.
func (s *Service) Accept(ctx context.Context, requestID string, contact ProviderContact) (ServiceRequest, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ServiceRequest{}, fmt.Errorf("request: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := s.repo.GetForUpdate(ctx, tx, requestID); err != nil {
		return ServiceRequest{}, err
	}
	if _, err := s.offers.GetActive(ctx, tx, requestID, contact.ProviderID); err != nil {
		return ServiceRequest{}, err
	}

	if err := s.offers.MarkStatus(ctx, tx, requestID, contact.ProviderID, offer.StatusAccepted); err != nil {
		return ServiceRequest{}, err
	}
	updated, err := s.repo.Assign(ctx, tx, requestID, contact, s.now().UTC())
	if err != nil {
		return ServiceRequest{}, err
	}
	if err := s.offers.ExpireOpen(ctx, tx, requestID, contact.ProviderID); err != nil {
		return ServiceRequest{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ServiceRequest{}, fmt.Errorf("request: commit accept: %w", err)
	}

	s.notify(ctx, "Offer accepted",
		fmt.Sprintf("Provider %s accepted request %s", contact.ProviderID, requestID))
	return updated, nil
}

// Reject marks the provider's offer rejected. While other offers of the
// round remain open nothing else happens; once the last one is decided the
// shared re-offer policy runs.
func (s *Service) Reject(ctx context.Context, requestID, providerID string) (ServiceRequest, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ServiceRequest{}, fmt.Errorf("request: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	req, err := s.repo.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return ServiceRequest{}, err
	}
	if _, err := s.offers.GetActive(ctx, tx, requestID, providerID); err != nil {
		return ServiceRequest{}, err
	}
	if err := s.offers.MarkStatus(ctx, tx, requestID, providerID, offer.StatusRejected); err != nil {
		return ServiceRequest{}, err
	}

	all, err := s.offers.ListByRequest(ctx, tx, requestID)
	if err != nil {
		return ServiceRequest{}, err
	}

	if hasOpenOffer(all) {
		// Other providers are still deciding.
		if err := tx.Commit(ctx); err != nil {
			return ServiceRequest{}, fmt.Errorf("request: commit reject: %w", err)
		}
		return req, nil
	}

	updated, err := s.advanceAfterRound(ctx, tx, req, all)
	if err != nil {
		return ServiceRequest{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return ServiceRequest{}, fmt.Errorf("request: commit reject: %w", err)
	}
	return updated, nil
}

// Start moves an accepted job to in_progress. Only the assigned provider
// may start it.
func (s *Service) Start(ctx context.Context, requestID, providerID string) (ServiceRequest, error) {
	return s.advanceJob(ctx, requestID, providerID, StatusAccepted, StatusInProgress)
}

// Complete moves an in_progress job to completed. Only the assigned
// provider may complete it.
func (s *Service) Complete(ctx context.Context, requestID, providerID string) (ServiceRequest, error) {
	return s.advanceJob(ctx, requestID, providerID, StatusInProgress, StatusCompleted)
}

func (s *Service) advanceJob(ctx context.Context, requestID, providerID string, from, to Status) (ServiceRequest, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ServiceRequest{}, fmt.Errorf("request: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	req, err := s.repo.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return ServiceRequest{}, err
	}
	if req.AssignedProviderID == nil || *req.AssignedProviderID != providerID {
		return ServiceRequest{}, fmt.Errorf("%w: request not assigned to provider", ErrInvalidState)
	}
	if req.Status != from {
		return ServiceRequest{}, fmt.Errorf("%w: cannot move %s job to %s", ErrInvalidState, req.Status, to)
	}

	updated, err := s.repo.UpdateStatus(ctx, tx, requestID, to, s.now().UTC())
	if err != nil {
		return ServiceRequest{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return ServiceRequest{}, fmt.Errorf("request: commit advance: %w", err)
	}
	return updated, nil
}

// Cancel is homeowner-initiated and only legal while the request is still
// pending or offered. Open offers are expired in the same transaction.
func (s *Service) Cancel(ctx context.Context, requestID, requesterID string) (ServiceRequest, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ServiceRequest{}, fmt.Errorf("request: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	req, err := s.repo.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return ServiceRequest{}, err
	}
	if req.UserID != requesterID {
		return ServiceRequest{}, ErrForbidden
	}
	if req.Status != StatusPending && req.Status != StatusOffered {
		return ServiceRequest{}, fmt.Errorf("%w: cannot cancel %s request", ErrInvalidState, req.Status)
	}

	updated, err := s.repo.UpdateStatus(ctx, tx, requestID, StatusCancelled, s.now().UTC())
	if err != nil {
		return ServiceRequest{}, err
	}
	if err := s.offers.ExpireOpen(ctx, tx, requestID, ""); err != nil {
		return ServiceRequest{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ServiceRequest{}, fmt.Errorf("request: commit cancel: %w", err)
	}
	return updated, nil
}

// startRound creates the offer batch and stamps the request offered with a
// fresh deadline.
func (s *Service) startRound(ctx context.Context, tx pgx.Tx, req ServiceRequest, providerIDs []string) (ServiceRequest, error) {
	now := s.now().UTC()
	if _, err := s.offers.CreateBatch(ctx, tx, req.ID, providerIDs, now); err != nil {
		return ServiceRequest{}, err
	}
	return s.repo.MarkOffered(ctx, tx, req.ID, req.OfferRound+1, now.Add(OfferTimeout), now)
}

// advanceAfterRound is the single re-offer/expire policy shared by Reject
// and the sweeper: exhaust rounds, otherwise re-offer to fresh providers,
// otherwise expire.
func (s *Service) advanceAfterRound(ctx context.Context, tx pgx.Tx, req ServiceRequest, allOffers []offer.Offer) (ServiceRequest, error) {
	now := s.now().UTC()

	if req.OfferRound >= MaxOfferRounds {
		return s.repo.UpdateStatus(ctx, tx, req.ID, StatusExpired, now)
	}

	contacted := make(map[string]bool, len(allOffers))
	for _, o := range allOffers {
		contacted[o.ProviderID] = true
	}

	ranked, err := s.ranker.Rank(ctx, req.ServiceType, req.Address, contacted)
	if err != nil {
		return ServiceRequest{}, err
	}
	if len(ranked) == 0 {
		return s.repo.UpdateStatus(ctx, tx, req.ID, StatusExpired, now)
	}

	updated, err := s.startRound(ctx, tx, req, candidateIDs(ranked, OfferBatchSize))
	if err != nil {
		return ServiceRequest{}, err
	}
	s.notify(ctx, "Request re-offered",
		fmt.Sprintf("Request %s entered offer round %d", updated.ID, updated.OfferRound))
	return updated, nil
}

// Get returns a single request.
func (s *Service) Get(ctx context.Context, id string) (ServiceRequest, error) {
	return s.repo.Get(ctx, id)
}

// ListMine returns the homeowner's own requests, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]ServiceRequest, error) {
	return s.repo.ListByRequester(ctx, userID)
}

// ListAvailableJobs returns requests the provider holds an open offer on.
func (s *Service) ListAvailableJobs(ctx context.Context, providerID string) ([]ServiceRequest, error) {
	return s.repo.ListWithOpenOfferFor(ctx, providerID)
}

// ListAssignedJobs returns the provider's accepted, in-progress and
// completed jobs.
func (s *Service) ListAssignedJobs(ctx context.Context, providerID string) ([]ServiceRequest, error) {
	return s.repo.ListAssigned(ctx, providerID)
}

// Dashboard aggregates the provider's workload counts and the flat
// per-completed-job earnings figure.
func (s *Service) Dashboard(ctx context.Context, providerID string) (DashboardSummary, error) {
	jobs, err := s.repo.ListAssigned(ctx, providerID)
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := DashboardSummary{Rating: dashboardRating}
	for _, job := range jobs {
		switch job.Status {
		case StatusCompleted:
			summary.JobsCompleted++
			summary.Earnings += completedJobEarnings
		case StatusAccepted, StatusInProgress:
			summary.ActiveJobs++
		}
	}
	return summary, nil
}

func (s *Service) notify(ctx context.Context, subject, message string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, subject, message)
	}
}

func candidateIDs(ranked []provider.Candidate, limit int) []string {
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	ids := make([]string, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.ProviderID)
	}
	return ids
}

func hasOpenOffer(offers []offer.Offer) bool {
	for _, o := range offers {
		if o.Status == offer.StatusOffered {
			return true
		}
	}
	return false
}
