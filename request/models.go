package request

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusOffered    Status = "offered"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusExpired    Status = "expired"
)

// IsTerminal reports whether no further transition may leave the status.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// ServiceRequest is a homeowner's submitted service need, tracked through
// the offer lifecycle. AssignedProviderID is non-nil exactly while status
// is accepted, in_progress or completed; OfferExpiresAt is non-nil exactly
// while status is offered.
type ServiceRequest struct {
	ID                 string
	UserID             string
	UserName           string
	UserEmail          string
	UserPhone          string
	ServiceType        string
	Description        string
	Address            string
	PreferredDate      string
	PreferredTime      *string
	Status             Status
	AssignedProviderID *string
	ProviderName       *string
	ProviderPhone      *string
	ProviderEmail      *string
	OfferRound         int
	OfferExpiresAt     *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CreateParams carries a new request plus the requester contact snapshot
// taken at submission time.
type CreateParams struct {
	UserID        string
	UserName      string
	UserEmail     string
	UserPhone     string
	ServiceType   string
	Description   string
	Address       string
	PreferredDate string
	PreferredTime *string
}

// ProviderContact is the snapshot copied onto a request when a provider
// accepts.
type ProviderContact struct {
	ProviderID string
	Name       string
	Phone      string
	Email      string
}

// DashboardSummary aggregates a provider's workload for their dashboard.
type DashboardSummary struct {
	JobsCompleted int
	ActiveJobs    int
	Rating        float64
	Earnings      int
}
