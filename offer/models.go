package offer

import "time"

type Status string

const (
	StatusOffered  Status = "offered"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// Offer is a time-bounded proposal to a single provider for a single
// request. Identity is the (request_id, provider_id) pair; a provider is
// contacted at most once per request across all rounds.
type Offer struct {
	RequestID  string
	ProviderID string
	Status     Status
	CreatedAt  time.Time
}
