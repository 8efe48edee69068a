package pipelinenode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
)

// PersistState hands the resolved state to the sink. Persistence is
// best-effort: a sink failure is logged, never fatal, because the caller
// still gets the computed resolution.
func PersistState(ctx context.Context, in *GraphState, sink contractx.Sink) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if err := sink.Upsert(ctx, in.Meta, in.State); err != nil {
		log.Warn().
			Err(err).
			Str("ticket_id", in.Meta.TicketID).
			Msg("persist ticket state failed")
	}
	return in, nil
}
