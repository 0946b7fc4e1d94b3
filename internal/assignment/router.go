package assignment

import "context"

// Reason explains an assignment decision.
type Reason string

const (
	ReasonAssigned          Reason = "assigned"
	ReasonNoLinkedOperator  Reason = "no_linked_operator"
	ReasonNoPositiveWeight  Reason = "no_positive_weight"
	ReasonCapacityExhausted Reason = "capacity_exhausted"
)

// Decision is the outcome of one routing attempt. OperatorID is empty when
// the appeal stays unassigned; the decision is terminal either way.
type Decision struct {
	OperatorID string
	Reason     Reason
}

// Assigned reports whether an operator won the draw and reserved a slot.
func (d Decision) Assigned() bool {
	return d.OperatorID != ""
}

// Router composes the resolver, the selector, and the guard into the assign
// operation. A successful decision carries a held reservation; the caller
// must Release it through the guard if the appeal record is never written.
type Router struct {
	resolver *Resolver
	selector *Selector
	guard    Guard
	retries  int
}

// NewRouter constructs the router. retries bounds how many times a lost
// reservation race triggers a re-resolve against a fresh snapshot.
func NewRouter(resolver *Resolver, selector *Selector, guard Guard, retries int) *Router {
	if retries < 0 {
		retries = 0
	}
	return &Router{resolver: resolver, selector: selector, guard: guard, retries: retries}
}

// Assign picks at most one operator for the source. Empty candidate sets and
// all-zero-weight sets yield an unassigned decision; only collaborator
// failures surface as errors.
func (r *Router) Assign(ctx context.Context, sourceID string) (Decision, error) {
	decision := Decision{Reason: ReasonNoLinkedOperator}
	for attempt := 0; attempt <= r.retries; attempt++ {
		resolution, err := r.resolver.Resolve(ctx, sourceID)
		if err != nil {
			return Decision{}, err
		}
		if resolution.Linked == 0 {
			return Decision{Reason: ReasonNoLinkedOperator}, nil
		}
		// without a positive weight nothing is ever selectable, regardless
		// of capacity
		if resolution.PositiveLinked == 0 {
			return Decision{Reason: ReasonNoPositiveWeight}, nil
		}
		if len(resolution.Candidates) == 0 {
			return Decision{Reason: ReasonCapacityExhausted}, nil
		}

		winner, ok := r.selector.Pick(resolution.Candidates)
		if !ok {
			// the remaining candidates are all zero weight; every
			// selectable operator was filtered out as saturated
			return Decision{Reason: ReasonCapacityExhausted}, nil
		}

		reserved, err := r.guard.TryReserve(ctx, winner.OperatorID, winner.MaxLoad)
		if err != nil {
			return Decision{}, err
		}
		if reserved {
			return Decision{OperatorID: winner.OperatorID, Reason: ReasonAssigned}, nil
		}
		// lost the race for the last slot; retry against a fresh snapshot
		decision = Decision{Reason: ReasonCapacityExhausted}
	}
	return decision, nil
}
