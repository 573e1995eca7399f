package request

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"quickfixhub/offer"
	"quickfixhub/provider"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestCreate_OffersToTopProviders(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2")

	req := fx.create(t)

	if req.Status != StatusOffered {
		t.Fatalf("expected status offered, got %s", req.Status)
	}
	if req.OfferRound != 1 {
		t.Fatalf("expected offer round 1, got %d", req.OfferRound)
	}
	if req.OfferExpiresAt == nil || !req.OfferExpiresAt.Equal(testBase.Add(OfferTimeout)) {
		t.Fatalf("expected deadline %v, got %v", testBase.Add(OfferTimeout), req.OfferExpiresAt)
	}

	offers := fx.ledger.all(req.ID)
	if len(offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(offers))
	}
	for _, o := range offers {
		if o.Status != offer.StatusOffered {
			t.Errorf("offer to %s: expected offered, got %s", o.ProviderID, o.Status)
		}
	}
	fx.assertInvariants(t)
}

func TestCreate_BatchIsCappedAtThree(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2", "p-3", "p-4", "p-5")

	req := fx.create(t)

	if got := len(fx.ledger.all(req.ID)); got != OfferBatchSize {
		t.Fatalf("expected %d offers, got %d", OfferBatchSize, got)
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	fx := newEngine(t, "p-1")

	cases := []CreateParams{
		{UserID: "u-1", Description: "leak", Address: "a", PreferredDate: "2025-06-05"},
		{UserID: "u-1", ServiceType: "plumbing", Address: "a", PreferredDate: "2025-06-05"},
		{UserID: "u-1", ServiceType: "plumbing", Description: "leak", PreferredDate: "2025-06-05"},
		{UserID: "u-1", ServiceType: "plumbing", Description: "leak", Address: "a"},
	}
	for i, params := range cases {
		if _, err := fx.svc.Create(context.Background(), params); !errors.Is(err, ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestCreate_RankerFailureAborts(t *testing.T) {
	fx := newEngine(t, "p-1")
	fx.ranker.err = errors.New("provider store down")

	if _, err := fx.svc.Create(context.Background(), CreateParams{
		UserID: "u-1", ServiceType: "plumbing", Description: "leak",
		Address: "12 Main St", PreferredDate: "2025-06-05",
	}); err == nil {
		t.Fatal("expected ranking failure to abort create")
	}
}

func TestCreate_NoEligibleProviders_Expires(t *testing.T) {
	fx := newEngine(t)

	req := fx.create(t)

	if req.Status != StatusExpired {
		t.Fatalf("expected expired, got %s", req.Status)
	}
	if req.OfferRound != 0 {
		t.Fatalf("expected round 0, got %d", req.OfferRound)
	}
	if req.OfferExpiresAt != nil {
		t.Fatal("expired request must not carry an offer deadline")
	}
	if len(fx.ledger.all(req.ID)) != 0 {
		t.Fatal("no offers should exist")
	}
	fx.assertInvariants(t)
}

func TestAccept_AssignsProviderAndExpiresOthers(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2")
	req := fx.create(t)

	accepted, err := fx.svc.Accept(context.Background(), req.ID, ProviderContact{
		ProviderID: "p-1", Name: "Pat Plumber", Phone: "555-0111", Email: "pat@example.com",
	})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	if accepted.Status != StatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}
	if accepted.AssignedProviderID == nil || *accepted.AssignedProviderID != "p-1" {
		t.Fatalf("expected assignment to p-1, got %v", accepted.AssignedProviderID)
	}
	if accepted.ProviderName == nil || *accepted.ProviderName != "Pat Plumber" {
		t.Fatal("provider contact snapshot missing")
	}
	if accepted.OfferExpiresAt != nil {
		t.Fatal("accepted request must not carry an offer deadline")
	}

	if got := fx.ledger.status(req.ID, "p-1"); got != offer.StatusAccepted {
		t.Errorf("p-1 offer: expected accepted, got %s", got)
	}
	if got := fx.ledger.status(req.ID, "p-2"); got != offer.StatusExpired {
		t.Errorf("p-2 offer: expected expired, got %s", got)
	}
	fx.assertInvariants(t)
}

func TestAccept_LoserGetsNoActiveOffer(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2")
	req := fx.create(t)

	if _, err := fx.svc.Accept(context.Background(), req.ID, contact("p-1")); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := fx.svc.Accept(context.Background(), req.ID, contact("p-2")); !errors.Is(err, offer.ErrNoActiveOffer) {
		t.Fatalf("second accept: expected ErrNoActiveOffer, got %v", err)
	}
	fx.assertInvariants(t)
}

func TestAccept_UnknownRequest(t *testing.T) {
	fx := newEngine(t, "p-1")

	if _, err := fx.svc.Accept(context.Background(), "missing", contact("p-1")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReject_WaitsWhileOthersDeciding(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2")
	req := fx.create(t)

	updated, err := fx.svc.Reject(context.Background(), req.ID, "p-1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}

	if updated.Status != StatusOffered || updated.OfferRound != 1 {
		t.Fatalf("expected round 1 still offered, got %s round %d", updated.Status, updated.OfferRound)
	}
	if got := fx.ledger.status(req.ID, "p-2"); got != offer.StatusOffered {
		t.Errorf("p-2 offer should remain offered, got %s", got)
	}
}

func TestReject_LastRejectionReoffersFreshProviders(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2", "p-3", "p-4")
	// Round 1 fans out to the top three.
	req := fx.create(t)

	for _, pid := range []string{"p-1", "p-2"} {
		if _, err := fx.svc.Reject(context.Background(), req.ID, pid); err != nil {
			t.Fatalf("reject %s: %v", pid, err)
		}
	}
	updated, err := fx.svc.Reject(context.Background(), req.ID, "p-3")
	if err != nil {
		t.Fatalf("final reject: %v", err)
	}

	if updated.Status != StatusOffered || updated.OfferRound != 2 {
		t.Fatalf("expected round 2 offered, got %s round %d", updated.Status, updated.OfferRound)
	}
	if got := fx.ledger.status(req.ID, "p-4"); got != offer.StatusOffered {
		t.Errorf("expected fresh offer to p-4, got %s", got)
	}

	// The uniqueness law: nobody is contacted twice across rounds.
	counts := map[string]int{}
	for _, o := range fx.ledger.all(req.ID) {
		counts[o.ProviderID]++
	}
	for pid, n := range counts {
		if n != 1 {
			t.Errorf("provider %s contacted %d times", pid, n)
		}
	}
	fx.assertInvariants(t)
}

func TestReject_NoFreshProviders_Expires(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2")
	req := fx.create(t)

	if _, err := fx.svc.Reject(context.Background(), req.ID, "p-1"); err != nil {
		t.Fatalf("reject p-1: %v", err)
	}
	updated, err := fx.svc.Reject(context.Background(), req.ID, "p-2")
	if err != nil {
		t.Fatalf("reject p-2: %v", err)
	}

	if updated.Status != StatusExpired {
		t.Fatalf("expected expired, got %s", updated.Status)
	}
	fx.assertInvariants(t)
}

func TestReject_RoundsExhausted_ExpiresDespiteFreshProviders(t *testing.T) {
	ids := make([]string, 0, 12)
	for i := 1; i <= 12; i++ {
		ids = append(ids, fmt.Sprintf("p-%02d", i))
	}
	fx := newEngine(t, ids...)
	req := fx.create(t)

	// Burn through all three rounds.
	for round := 1; round <= MaxOfferRounds; round++ {
		current := fx.ledger.open(req.ID)
		if len(current) == 0 {
			t.Fatalf("round %d: no open offers", round)
		}
		for _, pid := range current {
			if _, err := fx.svc.Reject(context.Background(), req.ID, pid); err != nil {
				t.Fatalf("round %d reject %s: %v", round, pid, err)
			}
		}
	}

	final, err := fx.svc.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if final.Status != StatusExpired {
		t.Fatalf("expected expired after %d rounds, got %s", MaxOfferRounds, final.Status)
	}
	if final.OfferRound > MaxOfferRounds {
		t.Fatalf("offer round %d exceeds max %d", final.OfferRound, MaxOfferRounds)
	}
	fx.assertInvariants(t)
}

func TestReject_TwiceFails(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2")
	req := fx.create(t)

	if _, err := fx.svc.Reject(context.Background(), req.ID, "p-1"); err != nil {
		t.Fatalf("first reject: %v", err)
	}
	if _, err := fx.svc.Reject(context.Background(), req.ID, "p-1"); !errors.Is(err, offer.ErrNoActiveOffer) {
		t.Fatalf("expected ErrNoActiveOffer, got %v", err)
	}
}

func TestStartAndComplete(t *testing.T) {
	fx := newEngine(t, "p-1")
	req := fx.create(t)

	if _, err := fx.svc.Accept(context.Background(), req.ID, contact("p-1")); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// Completing before starting is illegal.
	if _, err := fx.svc.Complete(context.Background(), req.ID, "p-1"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("complete before start: expected ErrInvalidState, got %v", err)
	}
	// So is a stranger starting someone else's job.
	if _, err := fx.svc.Start(context.Background(), req.ID, "p-9"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("start by stranger: expected ErrInvalidState, got %v", err)
	}

	started, err := fx.svc.Start(context.Background(), req.ID, "p-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != StatusInProgress {
		t.Fatalf("expected in_progress, got %s", started.Status)
	}

	completed, err := fx.svc.Complete(context.Background(), req.ID, "p-1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
	fx.assertInvariants(t)
}

func TestCancel_Rules(t *testing.T) {
	fx := newEngine(t, "p-1", "p-2")
	req := fx.create(t)

	// A stranger may not cancel.
	if _, err := fx.svc.Cancel(context.Background(), req.ID, "u-other"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	cancelled, err := fx.svc.Cancel(context.Background(), req.ID, req.UserID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.OfferExpiresAt != nil {
		t.Fatal("cancelled request must not carry an offer deadline")
	}
	for _, o := range fx.ledger.all(req.ID) {
		if o.Status != offer.StatusExpired {
			t.Errorf("offer to %s should be expired, got %s", o.ProviderID, o.Status)
		}
	}

	// Terminal states cannot be cancelled again.
	if _, err := fx.svc.Cancel(context.Background(), req.ID, req.UserID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	fx.assertInvariants(t)
}

func TestCancel_InProgressFails(t *testing.T) {
	fx := newEngine(t, "p-1")
	req := fx.create(t)

	if _, err := fx.svc.Accept(context.Background(), req.ID, contact("p-1")); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := fx.svc.Start(context.Background(), req.ID, "p-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := fx.svc.Cancel(context.Background(), req.ID, req.UserID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestDashboard_CountsAssignedWork(t *testing.T) {
	fx := newEngine(t, "p-1")

	first := fx.create(t)
	if _, err := fx.svc.Accept(context.Background(), first.ID, contact("p-1")); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := fx.svc.Start(context.Background(), first.ID, "p-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := fx.svc.Complete(context.Background(), first.ID, "p-1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	fx.svc.WithIDGenerator(func() string { return "req-2" })
	second := fx.create(t)
	if _, err := fx.svc.Accept(context.Background(), second.ID, contact("p-1")); err != nil {
		t.Fatalf("accept second: %v", err)
	}

	summary, err := fx.svc.Dashboard(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if summary.JobsCompleted != 1 || summary.ActiveJobs != 1 {
		t.Fatalf("expected 1 completed / 1 active, got %d / %d", summary.JobsCompleted, summary.ActiveJobs)
	}
	if summary.Earnings != completedJobEarnings {
		t.Fatalf("expected earnings %d, got %d", completedJobEarnings, summary.Earnings)
	}
}

// --- fixture ---

type engineFixture struct {
	svc    *Service
	store  *fakeStore
	ledger *fakeLedger
	ranker *fakeRanker
	clock  *fakeClock
}

func newEngine(t *testing.T, providerIDs ...string) *engineFixture {
	t.Helper()

	candidates := make([]provider.Candidate, 0, len(providerIDs))
	for _, id := range providerIDs {
		candidates = append(candidates, provider.Candidate{ProviderID: id, Score: 30})
	}

	store := newFakeStore()
	ledger := newFakeLedger()
	ranker := &fakeRanker{candidates: candidates}
	clock := &fakeClock{now: testBase}

	svc := NewService(&fakePool{}, store, ledger, ranker).
		WithClock(clock.Now).
		WithIDGenerator(func() string { return "req-1" })

	return &engineFixture{
		svc:    svc,
		store:  store,
		ledger: ledger,
		ranker: ranker,
		clock:  clock,
	}
}

func (fx *engineFixture) create(t *testing.T) ServiceRequest {
	t.Helper()
	req, err := fx.svc.Create(context.Background(), CreateParams{
		UserID:        "u-1",
		UserName:      "Holly Homeowner",
		UserEmail:     "holly@example.com",
		UserPhone:     "555-0100",
		ServiceType:   "plumbing",
		Description:   "kitchen sink leaking",
		Address:       "12 Main St",
		PreferredDate: "2025-06-05",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return req
}

// assertInvariants checks the assignment and deadline laws on every stored
// request.
func (fx *engineFixture) assertInvariants(t *testing.T) {
	t.Helper()
	for id, req := range fx.store.requests {
		assigned := req.AssignedProviderID != nil
		shouldBe := req.Status == StatusAccepted || req.Status == StatusInProgress || req.Status == StatusCompleted
		if assigned != shouldBe {
			t.Errorf("request %s: assigned=%v but status=%s", id, assigned, req.Status)
		}
		hasDeadline := req.OfferExpiresAt != nil
		if hasDeadline != (req.Status == StatusOffered) {
			t.Errorf("request %s: deadline=%v but status=%s", id, hasDeadline, req.Status)
		}
		if req.OfferRound > MaxOfferRounds {
			t.Errorf("request %s: round %d exceeds max", id, req.OfferRound)
		}
	}
}

func contact(providerID string) ProviderContact {
	return ProviderContact{
		ProviderID: providerID,
		Name:       "Provider " + providerID,
		Phone:      "555-0199",
		Email:      providerID + "@example.com",
	}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// --- fakes ---

type fakeStore struct {
	requests map[string]*ServiceRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{requests: make(map[string]*ServiceRequest)}
}

func (f *fakeStore) Create(ctx context.Context, tx pgx.Tx, req ServiceRequest) (ServiceRequest, error) {
	req.UpdatedAt = req.CreatedAt
	f.requests[req.ID] = &req
	return req, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (ServiceRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return ServiceRequest{}, ErrNotFound
	}
	return *req, nil
}

func (f *fakeStore) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (ServiceRequest, error) {
	return f.Get(ctx, id)
}

func (f *fakeStore) MarkOffered(ctx context.Context, tx pgx.Tx, id string, round int, expiresAt, now time.Time) (ServiceRequest, error) {
	req := f.requests[id]
	req.Status = StatusOffered
	req.OfferRound = round
	req.OfferExpiresAt = &expiresAt
	req.UpdatedAt = now
	return *req, nil
}

func (f *fakeStore) Assign(ctx context.Context, tx pgx.Tx, id string, contact ProviderContact, now time.Time) (ServiceRequest, error) {
	req := f.requests[id]
	req.Status = StatusAccepted
	req.AssignedProviderID = &contact.ProviderID
	req.ProviderName = &contact.Name
	req.ProviderPhone = &contact.Phone
	req.ProviderEmail = &contact.Email
	req.OfferExpiresAt = nil
	req.UpdatedAt = now
	return *req, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status Status, now time.Time) (ServiceRequest, error) {
	req := f.requests[id]
	req.Status = status
	req.OfferExpiresAt = nil
	req.UpdatedAt = now
	return *req, nil
}

func (f *fakeStore) ListByRequester(ctx context.Context, userID string) ([]ServiceRequest, error) {
	out := []ServiceRequest{}
	for _, req := range f.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAssigned(ctx context.Context, providerID string) ([]ServiceRequest, error) {
	out := []ServiceRequest{}
	for _, req := range f.requests {
		if req.AssignedProviderID != nil && *req.AssignedProviderID == providerID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeStore) ListWithOpenOfferFor(ctx context.Context, providerID string) ([]ServiceRequest, error) {
	panic("not used in unit tests")
}

func (f *fakeStore) ListExpiredOffered(ctx context.Context, now time.Time) ([]string, error) {
	ids := []string{}
	for id, req := range f.requests {
		if req.Status == StatusOffered && req.OfferExpiresAt != nil && !req.OfferExpiresAt.After(now) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeLedger struct {
	offers map[string]map[string]*offer.Offer
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{offers: make(map[string]map[string]*offer.Offer)}
}

func (f *fakeLedger) CreateBatch(ctx context.Context, tx pgx.Tx, requestID string, providerIDs []string, now time.Time) ([]offer.Offer, error) {
	byProvider := f.offers[requestID]
	if byProvider == nil {
		byProvider = make(map[string]*offer.Offer)
		f.offers[requestID] = byProvider
	}

	created := []offer.Offer{}
	for _, pid := range providerIDs {
		if _, exists := byProvider[pid]; exists {
			return nil, fmt.Errorf("%w: provider %s, request %s", offer.ErrDuplicateOffer, pid, requestID)
		}
		o := &offer.Offer{RequestID: requestID, ProviderID: pid, Status: offer.StatusOffered, CreatedAt: now}
		byProvider[pid] = o
		created = append(created, *o)
	}
	return created, nil
}

func (f *fakeLedger) GetActive(ctx context.Context, tx pgx.Tx, requestID, providerID string) (offer.Offer, error) {
	o, ok := f.offers[requestID][providerID]
	if !ok || o.Status != offer.StatusOffered {
		return offer.Offer{}, offer.ErrNoActiveOffer
	}
	return *o, nil
}

func (f *fakeLedger) MarkStatus(ctx context.Context, tx pgx.Tx, requestID, providerID string, status offer.Status) error {
	o, ok := f.offers[requestID][providerID]
	if !ok {
		return offer.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeLedger) ExpireOpen(ctx context.Context, tx pgx.Tx, requestID, exceptProviderID string) error {
	for pid, o := range f.offers[requestID] {
		if pid == exceptProviderID {
			continue
		}
		if o.Status == offer.StatusOffered {
			o.Status = offer.StatusExpired
		}
	}
	return nil
}

func (f *fakeLedger) ListByRequest(ctx context.Context, tx pgx.Tx, requestID string) ([]offer.Offer, error) {
	return f.all(requestID), nil
}

func (f *fakeLedger) all(requestID string) []offer.Offer {
	out := []offer.Offer{}
	for _, o := range f.offers[requestID] {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProviderID < out[j].ProviderID })
	return out
}

func (f *fakeLedger) open(requestID string) []string {
	ids := []string{}
	for pid, o := range f.offers[requestID] {
		if o.Status == offer.StatusOffered {
			ids = append(ids, pid)
		}
	}
	sort.Strings(ids)
	return ids
}

func (f *fakeLedger) status(requestID, providerID string) offer.Status {
	if o, ok := f.offers[requestID][providerID]; ok {
		return o.Status
	}
	return ""
}

type fakeRanker struct {
	candidates []provider.Candidate
	err        error
}

func (f *fakeRanker) Rank(ctx context.Context, serviceType, address string, exclude map[string]bool) ([]provider.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []provider.Candidate{}
	for _, c := range f.candidates {
		if !exclude[c.ProviderID] {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- minimal pgx fakes, per the pool contract ---

type fakePool struct{}

func (f *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

type fakeTx struct {
	committed bool
	rolled    bool
}

func (f *fakeTx) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("fakeTx does not support nested transactions")
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolled = true
	return nil
}

func (f *fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}

func (f *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}

func (f *fakeTx) LargeObjects() pgx.LargeObjects {
	panic("not implemented")
}

func (f *fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}

func (f *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}

func (f *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not implemented")
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not implemented")
}

func (f *fakeTx) Conn() *pgx.Conn {
	return nil
}
