package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals that the service request does not exist.
var ErrNotFound = errors.New("request: not found")

const requestColumns = `id::text, user_id::text, user_name, user_email, user_phone,
	service_type, description, address, preferred_date, preferred_time,
	status, assigned_provider_id::text, provider_name, provider_phone, provider_email,
	offer_round, offer_expires_at, created_at, updated_at`

// Repository handles data access for service requests. Methods that take a
// pgx.Tx participate in the caller's transaction; GetForUpdate locks the
// request row, which is what serializes all mutating operations per
// request id.
type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, req ServiceRequest) (ServiceRequest, error)
	Get(ctx context.Context, id string) (ServiceRequest, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (ServiceRequest, error)
	MarkOffered(ctx context.Context, tx pgx.Tx, id string, round int, expiresAt, now time.Time) (ServiceRequest, error)
	Assign(ctx context.Context, tx pgx.Tx, id string, contact ProviderContact, now time.Time) (ServiceRequest, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status Status, now time.Time) (ServiceRequest, error)
	ListByRequester(ctx context.Context, userID string) ([]ServiceRequest, error)
	ListAssigned(ctx context.Context, providerID string) ([]ServiceRequest, error)
	ListWithOpenOfferFor(ctx context.Context, providerID string) ([]ServiceRequest, error)
	ListExpiredOffered(ctx context.Context, now time.Time) ([]string, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed request repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, tx pgx.Tx, req ServiceRequest) (ServiceRequest, error) {
	query := fmt.Sprintf(`
		INSERT INTO service_requests (id, user_id, user_name, user_email, user_phone,
			service_type, description, address, preferred_date, preferred_time,
			status, offer_round, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		RETURNING %s`, requestColumns)

	row := tx.QueryRow(ctx, query,
		req.ID,
		req.UserID,
		req.UserName,
		req.UserEmail,
		req.UserPhone,
		req.ServiceType,
		req.Description,
		req.Address,
		req.PreferredDate,
		req.PreferredTime,
		req.Status,
		req.OfferRound,
		req.CreatedAt,
	)

	created, err := scanRequest(row)
	if err != nil {
		return ServiceRequest{}, fmt.Errorf("request: create: %w", err)
	}
	return created, nil
}

func (r *PGRepository) Get(ctx context.Context, id string) (ServiceRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_requests WHERE id = $1`, requestColumns)

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceRequest{}, ErrNotFound
		}
		return ServiceRequest{}, fmt.Errorf("request: get: %w", err)
	}
	return req, nil
}

func (r *PGRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (ServiceRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_requests WHERE id = $1 FOR UPDATE`, requestColumns)

	req, err := scanRequest(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceRequest{}, ErrNotFound
		}
		return ServiceRequest{}, fmt.Errorf("request: get for update: %w", err)
	}
	return req, nil
}

// MarkOffered records the start of an offer round: status offered, the new
// round number and its deadline.
func (r *PGRepository) MarkOffered(ctx context.Context, tx pgx.Tx, id string, round int, expiresAt, now time.Time) (ServiceRequest, error) {
	query := fmt.Sprintf(`
		UPDATE service_requests
		SET status = 'offered',
		    offer_round = $2,
		    offer_expires_at = $3,
		    updated_at = $4
		WHERE id = $1
		RETURNING %s`, requestColumns)

	req, err := scanRequest(tx.QueryRow(ctx, query, id, round, expiresAt, now))
	if err != nil {
		return ServiceRequest{}, fmt.Errorf("request: mark offered: %w", err)
	}
	return req, nil
}

// Assign is the only write that sets assigned_provider_id. It snapshots the
// provider contact and clears the offer deadline.
func (r *PGRepository) Assign(ctx context.Context, tx pgx.Tx, id string, contact ProviderContact, now time.Time) (ServiceRequest, error) {
	query := fmt.Sprintf(`
		UPDATE service_requests
		SET status = 'accepted',
		    assigned_provider_id = $2,
		    provider_name = $3,
		    provider_phone = $4,
		    provider_email = $5,
		    offer_expires_at = NULL,
		    updated_at = $6
		WHERE id = $1
		RETURNING %s`, requestColumns)

	req, err := scanRequest(tx.QueryRow(ctx, query, id, contact.ProviderID, contact.Name, contact.Phone, contact.Email, now))
	if err != nil {
		return ServiceRequest{}, fmt.Errorf("request: assign: %w", err)
	}
	return req, nil
}

// UpdateStatus moves the request to the given status. The offer deadline is
// cleared: every status other than offered has no deadline, and offered is
// only ever entered through MarkOffered.
func (r *PGRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status Status, now time.Time) (ServiceRequest, error) {
	query := fmt.Sprintf(`
		UPDATE service_requests
		SET status = $2,
		    offer_expires_at = NULL,
		    updated_at = $3
		WHERE id = $1
		RETURNING %s`, requestColumns)

	req, err := scanRequest(tx.QueryRow(ctx, query, id, status, now))
	if err != nil {
		return ServiceRequest{}, fmt.Errorf("request: update status: %w", err)
	}
	return req, nil
}

func (r *PGRepository) ListByRequester(ctx context.Context, userID string) ([]ServiceRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM service_requests
		WHERE user_id = $1
		ORDER BY created_at DESC`, requestColumns)

	return r.list(ctx, query, userID)
}

// ListAssigned returns the provider's assigned jobs in accepted,
// in_progress or completed.
func (r *PGRepository) ListAssigned(ctx context.Context, providerID string) ([]ServiceRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM service_requests
		WHERE assigned_provider_id = $1
		  AND status IN ('accepted', 'in_progress', 'completed')
		ORDER BY updated_at DESC`, requestColumns)

	return r.list(ctx, query, providerID)
}

// ListWithOpenOfferFor returns requests the provider currently holds an
// open offer on, i.e. their available jobs.
func (r *PGRepository) ListWithOpenOfferFor(ctx context.Context, providerID string) ([]ServiceRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM service_requests r
		WHERE EXISTS (
			SELECT 1 FROM service_offers o
			WHERE o.request_id = r.id
			  AND o.provider_id = $1
			  AND o.status = 'offered'
		)
		ORDER BY r.offer_expires_at`, requestColumnsQualified("r"))

	return r.list(ctx, query, providerID)
}

// ListExpiredOffered returns ids of requests in status offered whose
// deadline has passed. Ids only: the sweeper re-reads each request under
// its row lock before acting.
func (r *PGRepository) ListExpiredOffered(ctx context.Context, now time.Time) ([]string, error) {
	const query = `
		SELECT id::text FROM service_requests
		WHERE status = 'offered' AND offer_expires_at <= $1
		ORDER BY offer_expires_at
	`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("request: list expired: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, 8)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("request: scan expired id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("request: iterate expired ids: %w", err)
	}
	return ids, nil
}

func (r *PGRepository) list(ctx context.Context, query string, args ...any) ([]ServiceRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("request: list: %w", err)
	}
	defer rows.Close()

	reqs := make([]ServiceRequest, 0, 8)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("request: scan list row: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("request: iterate list: %w", err)
	}
	return reqs, nil
}

func requestColumnsQualified(alias string) string {
	return fmt.Sprintf(`%[1]s.id::text, %[1]s.user_id::text, %[1]s.user_name, %[1]s.user_email, %[1]s.user_phone,
	%[1]s.service_type, %[1]s.description, %[1]s.address, %[1]s.preferred_date, %[1]s.preferred_time,
	%[1]s.status, %[1]s.assigned_provider_id::text, %[1]s.provider_name, %[1]s.provider_phone, %[1]s.provider_email,
	%[1]s.offer_round, %[1]s.offer_expires_at, %[1]s.created_at, %[1]s.updated_at`, alias)
}

func scanRequest(row pgx.Row) (ServiceRequest, error) {
	var req ServiceRequest
	return req, row.Scan(
		&req.ID,
		&req.UserID,
		&req.UserName,
		&req.UserEmail,
		&req.UserPhone,
		&req.ServiceType,
		&req.Description,
		&req.Address,
		&req.PreferredDate,
		&req.PreferredTime,
		&req.Status,
		&req.AssignedProviderID,
		&req.ProviderName,
		&req.ProviderPhone,
		&req.ProviderEmail,
		&req.OfferRound,
		&req.OfferExpiresAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
}
