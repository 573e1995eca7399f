package provider

import "time"

// Profile describes what a provider offers. It is read-only input to
// ranking; the offer engine never mutates it.
type Profile struct {
	ProviderID   string
	ServiceTypes []string
	Address      string
	IsVerified   bool
	CreatedAt    time.Time
}

// CreateProfileParams contains the fields required to register a provider.
type CreateProfileParams struct {
	ProviderID   string
	ServiceTypes []string
	Address      string
}

// CandidateLoad pairs a provider with their current number of active jobs
// (requests assigned to them in accepted or in_progress).
type CandidateLoad struct {
	ProviderID string
	ActiveJobs int
}

// Candidate is a ranked provider eligible for an offer round.
type Candidate struct {
	ProviderID string
	Score      int
}
