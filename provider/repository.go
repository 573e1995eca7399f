package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrProfileNotFound signals that no profile exists for the provider.
	ErrProfileNotFound = errors.New("provider: profile not found")
	// ErrDuplicateProfile signals that the provider already has a profile.
	ErrDuplicateProfile = errors.New("provider: profile already exists")
)

// Repository handles data access for provider profiles and load counts.
type Repository interface {
	CreateProfile(ctx context.Context, params CreateProfileParams) (Profile, error)
	GetByID(ctx context.Context, providerID string) (Profile, error)
	ListCandidates(ctx context.Context, serviceType string) ([]CandidateLoad, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed provider repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) CreateProfile(ctx context.Context, params CreateProfileParams) (Profile, error) {
	const insertSQL = `
		INSERT INTO provider_profiles (provider_id, service_types, address)
		VALUES ($1, $2, $3)
		RETURNING provider_id::text, service_types, address, is_verified, created_at
	`

	profile, err := scanProfile(r.pool.QueryRow(ctx, insertSQL, params.ProviderID, params.ServiceTypes, params.Address))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Profile{}, ErrDuplicateProfile
		}
		return Profile{}, fmt.Errorf("provider: create profile: %w", err)
	}
	return profile, nil
}

func (r *PGRepository) GetByID(ctx context.Context, providerID string) (Profile, error) {
	const selectSQL = `
		SELECT provider_id::text, service_types, address, is_verified, created_at
		FROM provider_profiles
		WHERE provider_id = $1
	`

	profile, err := scanProfile(r.pool.QueryRow(ctx, selectSQL, providerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("provider: get profile: %w", err)
	}
	return profile, nil
}

// ListCandidates returns every provider offering the service type together
// with their current active job count. Capacity filtering and scoring stay
// in the ranker so they can be unit tested.
func (r *PGRepository) ListCandidates(ctx context.Context, serviceType string) ([]CandidateLoad, error) {
	const query = `
		SELECT p.provider_id::text,
		       COUNT(r.id) FILTER (WHERE r.status IN ('accepted', 'in_progress'))::int AS active_jobs
		FROM provider_profiles p
		LEFT JOIN service_requests r ON r.assigned_provider_id = p.provider_id
		WHERE $1 = ANY (p.service_types)
		GROUP BY p.provider_id
	`

	rows, err := r.pool.Query(ctx, query, serviceType)
	if err != nil {
		return nil, fmt.Errorf("provider: list candidates: %w", err)
	}
	defer rows.Close()

	loads := make([]CandidateLoad, 0, 8)
	for rows.Next() {
		var load CandidateLoad
		if err := rows.Scan(&load.ProviderID, &load.ActiveJobs); err != nil {
			return nil, fmt.Errorf("provider: scan candidate: %w", err)
		}
		loads = append(loads, load)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("provider: iterate candidates: %w", err)
	}
	return loads, nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	return p, row.Scan(
		&p.ProviderID,
		&p.ServiceTypes,
		&p.Address,
		&p.IsVerified,
		&p.CreatedAt,
	)
}
