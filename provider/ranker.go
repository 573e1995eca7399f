package provider

import (
	"context"
	"sort"
)

// MaxActiveJobs is the capacity limit: providers at or above this many
// accepted/in_progress assignments are not offered further work.
const MaxActiveJobs = 3

// CandidateSource supplies the raw provider load rows the ranker scores.
type CandidateSource interface {
	ListCandidates(ctx context.Context, serviceType string) ([]CandidateLoad, error)
}

// Ranker computes the eligible, ranked candidate list for a request. It has
// no side effects; the result is a pure function of current provider and
// request state.
type Ranker struct {
	source CandidateSource
}

// NewRanker builds a Ranker over the given candidate source.
func NewRanker(source CandidateSource) *Ranker {
	return &Ranker{source: source}
}

// Rank returns providers that offer serviceType and have spare capacity,
// minus anything in exclude, ordered by descending score. Score is
// (capacity - active jobs) * 10, so providers with the most headroom come
// first. Equal scores are broken on provider id ascending to keep the
// ordering deterministic.
//
// The address is carried for parity with the request but does not narrow
// the result: matching is a flat address model.
func (r *Ranker) Rank(ctx context.Context, serviceType, address string, exclude map[string]bool) ([]Candidate, error) {
	loads, err := r.source.ListCandidates(ctx, serviceType)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(loads))
	for _, load := range loads {
		if exclude[load.ProviderID] {
			continue
		}
		if load.ActiveJobs >= MaxActiveJobs {
			continue
		}
		candidates = append(candidates, Candidate{
			ProviderID: load.ProviderID,
			Score:      (MaxActiveJobs - load.ActiveJobs) * 10,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ProviderID < candidates[j].ProviderID
	})

	return candidates, nil
}
