package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNoActiveOffer signals that no offer in status "offered" exists for
	// the (request, provider) pair. Rejected, accepted and expired offers
	// behave as not found so a provider cannot act twice.
	ErrNoActiveOffer = errors.New("offer: no active offer")
	// ErrDuplicateOffer signals an attempt to contact a provider a second
	// time for the same request. This is an internal invariant violation,
	// never a caller mistake.
	ErrDuplicateOffer = errors.New("offer: provider already contacted for request")
	// ErrNotFound signals that the offer record does not exist at all.
	ErrNotFound = errors.New("offer: not found")
)

// Repository owns offer records. Write methods run inside the caller's
// transaction so offer transitions commit atomically with the request
// status change that drove them.
type Repository interface {
	CreateBatch(ctx context.Context, tx pgx.Tx, requestID string, providerIDs []string, now time.Time) ([]Offer, error)
	GetActive(ctx context.Context, tx pgx.Tx, requestID, providerID string) (Offer, error)
	MarkStatus(ctx context.Context, tx pgx.Tx, requestID, providerID string, status Status) error
	ExpireOpen(ctx context.Context, tx pgx.Tx, requestID, exceptProviderID string) error
	ListByRequest(ctx context.Context, tx pgx.Tx, requestID string) ([]Offer, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed offer repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CreateBatch inserts one offered record per provider. The table primary
// key rejects any provider already contacted for the request, in any
// status, which keeps the per-pair uniqueness law durable across rounds
// and restarts.
func (r *PGRepository) CreateBatch(ctx context.Context, tx pgx.Tx, requestID string, providerIDs []string, now time.Time) ([]Offer, error) {
	const insertSQL = `
		INSERT INTO service_offers (request_id, provider_id, status, created_at)
		VALUES ($1, $2, 'offered', $3)
		RETURNING request_id::text, provider_id::text, status, created_at
	`

	created := make([]Offer, 0, len(providerIDs))
	for _, providerID := range providerIDs {
		o, err := scanOffer(tx.QueryRow(ctx, insertSQL, requestID, providerID, now))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return nil, fmt.Errorf("%w: provider %s, request %s", ErrDuplicateOffer, providerID, requestID)
			}
			return nil, fmt.Errorf("offer: create: %w", err)
		}
		created = append(created, o)
	}
	return created, nil
}

// GetActive returns the offer only while its status is "offered".
func (r *PGRepository) GetActive(ctx context.Context, tx pgx.Tx, requestID, providerID string) (Offer, error) {
	const selectSQL = `
		SELECT request_id::text, provider_id::text, status, created_at
		FROM service_offers
		WHERE request_id = $1 AND provider_id = $2
		FOR UPDATE
	`

	o, err := scanOffer(tx.QueryRow(ctx, selectSQL, requestID, providerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, ErrNoActiveOffer
		}
		return Offer{}, fmt.Errorf("offer: get active: %w", err)
	}
	if o.Status != StatusOffered {
		return Offer{}, ErrNoActiveOffer
	}
	return o, nil
}

func (r *PGRepository) MarkStatus(ctx context.Context, tx pgx.Tx, requestID, providerID string, status Status) error {
	const updateSQL = `
		UPDATE service_offers
		SET status = $3
		WHERE request_id = $1 AND provider_id = $2
	`

	tag, err := tx.Exec(ctx, updateSQL, requestID, providerID, status)
	if err != nil {
		return fmt.Errorf("offer: mark status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpireOpen transitions every offer of the request still in "offered" to
// "expired", skipping exceptProviderID when non-empty. Used both when one
// provider accepts and when a round times out.
func (r *PGRepository) ExpireOpen(ctx context.Context, tx pgx.Tx, requestID, exceptProviderID string) error {
	const updateSQL = `
		UPDATE service_offers
		SET status = 'expired'
		WHERE request_id = $1
		  AND status = 'offered'
		  AND ($2 = '' OR provider_id::text <> $2)
	`

	if _, err := tx.Exec(ctx, updateSQL, requestID, exceptProviderID); err != nil {
		return fmt.Errorf("offer: expire open: %w", err)
	}
	return nil
}

func (r *PGRepository) ListByRequest(ctx context.Context, tx pgx.Tx, requestID string) ([]Offer, error) {
	const query = `
		SELECT request_id::text, provider_id::text, status, created_at
		FROM service_offers
		WHERE request_id = $1
		ORDER BY provider_id
	`

	rows, err := tx.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("offer: list by request: %w", err)
	}
	defer rows.Close()

	return collectOffers(rows)
}

func collectOffers(rows pgx.Rows) ([]Offer, error) {
	offers := make([]Offer, 0, 8)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("offer: scan: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("offer: iterate: %w", err)
	}
	return offers, nil
}

func scanOffer(row pgx.Row) (Offer, error) {
	var o Offer
	return o, row.Scan(&o.RequestID, &o.ProviderID, &o.Status, &o.CreatedAt)
}
