package contract

import (
	"context"

	statex "github.com/tanpawarit/erp-support-agent/agent/state"
)

// Classifier maps raw ticket text to problem categories plus a rationale.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (ClassifyResponse, error)
}

// PolicySelector picks the single best-fit policy from the candidates it is
// shown. The candidate list is a request, not a hard constraint: callers
// validate only that the returned name is non-empty.
type PolicySelector interface {
	Select(ctx context.Context, req PolicySelectRequest) (PolicySelectResponse, error)
}

// Resolver produces one reasoning step at a time for the bounded
// reason-and-act loop.
type Resolver interface {
	Step(ctx context.Context, req ResolverStepRequest) (ResolverStepResponse, error)
}

// Registry bundles the three stage oracles.
type Registry interface {
	Classifier() Classifier
	PolicySelector() PolicySelector
	Resolver() Resolver
}

// ToolRegistry dispatches a named tool against the business-record store.
// Failures come back as human-readable text prefixed with "Error:", never as
// a Go error; the resolver loop feeds them to the oracle and continues.
type ToolRegistry interface {
	Invoke(ctx context.Context, tool string, input string) string
	Names() []string
}

// Sink durably stores the final TicketState keyed by ticket id. Upsert is
// idempotent: re-saving the same ticket id updates the stored record.
type Sink interface {
	Upsert(ctx context.Context, meta TicketMeta, st *statex.TicketState) error
}
