package assignment

import (
	"context"

	"github.com/spec-kit/appeal-router/internal/domain"
)

// LinkSource supplies active operators linked to a source with their weights
// and capacities. The pgx-backed affinity repository implements it in
// production.
type LinkSource interface {
	ListEligible(ctx context.Context, sourceID string) ([]domain.SourceLink, error)
}

// Resolution is the candidate set for one routing attempt. Linked and
// PositiveLinked count the active linked operators before the capacity
// filter so callers can tell "no linked operator", "nothing selectable", and
// "all selectable operators saturated" apart.
type Resolution struct {
	Candidates     []Candidate
	Linked         int
	PositiveLinked int
}

// Resolver computes the candidate operator set for a source. It has no side
// effects: affinity data comes from the link source and live loads from the
// guard, read as a snapshot per call. An unknown source resolves to an empty
// set, which is a normal outcome, not an error.
type Resolver struct {
	links LinkSource
	guard Guard
}

// NewResolver constructs the resolver.
func NewResolver(links LinkSource, guard Guard) *Resolver {
	return &Resolver{links: links, guard: guard}
}

// Resolve returns operators that are active, linked to the source, and under
// capacity. Zero-weight links stay in the result as non-selectable
// candidates.
func (r *Resolver) Resolve(ctx context.Context, sourceID string) (Resolution, error) {
	linked, err := r.links.ListEligible(ctx, sourceID)
	if err != nil {
		return Resolution{}, err
	}
	if len(linked) == 0 {
		return Resolution{}, nil
	}

	ids := make([]string, 0, len(linked))
	for _, link := range linked {
		ids = append(ids, link.OperatorID)
	}
	loads, err := r.guard.Loads(ctx, ids)
	if err != nil {
		return Resolution{}, err
	}

	resolution := Resolution{Linked: len(linked)}
	for _, link := range linked {
		if link.Weight > 0 {
			resolution.PositiveLinked++
		}
		if loads[link.OperatorID] >= link.MaxLoad {
			continue
		}
		resolution.Candidates = append(resolution.Candidates, Candidate{
			OperatorID:        link.OperatorID,
			Weight:            link.Weight,
			MaxLoad:           link.MaxLoad,
			AvailableCapacity: link.MaxLoad - loads[link.OperatorID],
		})
	}
	return resolution, nil
}
