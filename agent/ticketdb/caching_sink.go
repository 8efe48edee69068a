package ticketdb

import (
	"context"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
	statex "github.com/tanpawarit/erp-support-agent/agent/state"
)

// CachingSink writes through to the wrapped sink and mirrors the final state
// into the Redis cache for fast retrieval. The cache write is best-effort:
// a cache failure is logged and never fails the upsert.
type CachingSink struct {
	sink  contractx.Sink
	cache *RedisCache
}

var _ contractx.Sink = (*CachingSink)(nil)

func NewCachingSink(sink contractx.Sink, cache *RedisCache) *CachingSink {
	return &CachingSink{sink: sink, cache: cache}
}

func (s *CachingSink) Upsert(ctx context.Context, meta contractx.TicketMeta, st *statex.TicketState) error {
	if err := s.sink.Upsert(ctx, meta, st); err != nil {
		return err
	}
	if err := s.cache.Put(ctx, st); err != nil {
		log.Warn().Err(err).Str("ticket_id", st.TicketID).Msg("cache ticket state failed")
	}
	return nil
}

// Lookup reads a previously resolved ticket from the cache.
func (s *CachingSink) Lookup(ctx context.Context, ticketID string) (*statex.TicketState, error) {
	return s.cache.Get(ctx, ticketID)
}
