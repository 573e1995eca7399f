package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

// All returns the lifecycle invariants as SQL queries. Each query selects
// violating rows; an empty result means the invariant holds.
func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_assignment_matches_status",
			SQL: `SELECT id, status, assigned_provider_id FROM service_requests
                  WHERE (assigned_provider_id IS NULL) <>
                        (status NOT IN ('accepted','in_progress','completed'))`,
		},
		{
			Name: "O2_deadline_matches_status",
			SQL: `SELECT id, status, offer_expires_at FROM service_requests
                  WHERE (offer_expires_at IS NOT NULL) <> (status = 'offered')`,
		},
		{
			Name: "O3_offer_round_bounds",
			SQL: `SELECT id, status, offer_round FROM service_requests
                  WHERE offer_round > 3
                     OR offer_round < 0
                     OR (status = 'offered' AND offer_round < 1)`,
		},
		{
			Name: "O4_single_accepted_offer",
			SQL: `SELECT request_id, COUNT(*) FROM service_offers
                  WHERE status = 'accepted'
                  GROUP BY request_id HAVING COUNT(*) > 1`,
		},
		{
			Name: "O5_accepted_offer_matches_assignment",
			SQL: `SELECT o.request_id, o.provider_id FROM service_offers o
                  JOIN service_requests r ON r.id = o.request_id
                  WHERE o.status = 'accepted'
                    AND (r.assigned_provider_id IS NULL
                         OR r.assigned_provider_id <> o.provider_id)`,
		},
		{
			Name: "O6_no_open_offers_off_round",
			SQL: `SELECT o.request_id, o.provider_id FROM service_offers o
                  JOIN service_requests r ON r.id = o.request_id
                  WHERE o.status = 'offered' AND r.status <> 'offered'`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample
// row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
