package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	statex "github.com/tanpawarit/erp-support-agent/agent/state"
)

const defaultWorkers = 4

// EventPublisher pushes resolved-ticket events to an external queue.
// *qstash.Client satisfies it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, destination string, payload any) error
}

type DispatcherConfig struct {
	Workers int
	// EventDestination, when set together with a publisher, receives a
	// ticket.resolved event per successfully processed ticket.
	EventDestination string
}

// Result pairs a ticket request with its pipeline outcome.
type Result struct {
	Request TicketRequest
	State   *statex.TicketState
	Err     error
}

// Dispatcher fans ticket requests out over a fixed worker pool. Workers share
// only the service; each invocation is independent.
type Dispatcher struct {
	svc       *Service
	publisher EventPublisher

	workers     int
	destination string
}

func NewDispatcher(svc *Service, publisher EventPublisher, cfg DispatcherConfig) (*Dispatcher, error) {
	if svc == nil {
		return nil, errors.New("pipeline service is required")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Dispatcher{
		svc:         svc,
		publisher:   publisher,
		workers:     workers,
		destination: cfg.EventDestination,
	}, nil
}

// Run consumes requests until the channel closes or the context ends, and
// emits one Result per request. The returned channel closes when all workers
// finish.
func (d *Dispatcher) Run(ctx context.Context, requests <-chan TicketRequest) <-chan Result {
	results := make(chan Result)

	var wg sync.WaitGroup
	wg.Add(d.workers)
	for i := 0; i < d.workers; i++ {
		go func() {
			defer wg.Done()
			d.work(ctx, requests, results)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (d *Dispatcher) work(ctx context.Context, requests <-chan TicketRequest, results chan<- Result) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-requests:
			if !ok {
				return
			}

			st, err := d.svc.ProcessTicket(ctx, req)
			if err != nil {
				log.Error().
					Err(err).
					Str("ticket_id", req.TicketID).
					Msg("process ticket failed")
			} else {
				d.notifyResolved(ctx, req, st)
			}

			select {
			case results <- Result{Request: req, State: st, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (d *Dispatcher) notifyResolved(ctx context.Context, req TicketRequest, st *statex.TicketState) {
	if d.publisher == nil || d.destination == "" || st == nil {
		return
	}

	payload := map[string]any{
		"event":        "ticket.resolved",
		"ticket_id":    st.TicketID,
		"customer_id":  req.CustomerID,
		"action_taken": st.ActionTaken,
		"reason":       st.Reason,
		"processed_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := d.publisher.PublishJSON(ctx, d.destination, payload); err != nil {
		log.Warn().
			Err(err).
			Str("ticket_id", st.TicketID).
			Msg("publish ticket resolved event failed")
	}
}
