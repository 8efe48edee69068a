package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
	nodex "github.com/tanpawarit/erp-support-agent/agent/nodes"
	policyx "github.com/tanpawarit/erp-support-agent/agent/policy"
	statex "github.com/tanpawarit/erp-support-agent/agent/state"
)

var (
	ErrInvalidTicketID    = nodex.ErrInvalidTicketID
	ErrInvalidDescription = nodex.ErrInvalidDescription
)

type Config struct {
	// ProductReference is the identifier-to-name/price table injected into
	// the resolver task brief.
	ProductReference string
	MaxResolverSteps int
}

// TicketRequest is one support ticket to run through the pipeline.
type TicketRequest struct {
	TicketID     string
	CustomerID   string
	Description  string
	ReceivedDate time.Time
}

// Service runs tickets through classify -> policy -> resolve -> persist.
// A single Service is safe for concurrent use; per-ticket state lives in the
// graph input and output only.
type Service struct {
	models  contractx.Registry
	tools   contractx.ToolRegistry
	catalog *policyx.Catalog
	sink    contractx.Sink

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	productRef string
	maxSteps   int

	now func() time.Time
}

func New(
	models contractx.Registry,
	tools contractx.ToolRegistry,
	catalog *policyx.Catalog,
	sink contractx.Sink,
	cfg Config,
) (*Service, error) {
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if tools == nil {
		return nil, errors.New("tool registry is required")
	}
	if catalog == nil {
		catalog = policyx.NewCatalog()
	}
	if sink == nil {
		sink = noopSink{}
	}

	maxSteps := cfg.MaxResolverSteps
	if maxSteps <= 0 {
		maxSteps = nodex.DefaultMaxResolverSteps
	}

	s := &Service{
		models:     models,
		tools:      tools,
		catalog:    catalog,
		sink:       sink,
		productRef: cfg.ProductReference,
		maxSteps:   maxSteps,
		now:        time.Now,
	}

	graphRunner, err := s.compileProcessTicketGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// ProcessTicket runs one ticket through all three stages and returns the
// terminal state. Persistence failures do not fail the call.
func (s *Service) ProcessTicket(ctx context.Context, req TicketRequest) (*statex.TicketState, error) {
	out, err := s.graphRunner.Invoke(ctx, nodex.GraphInput{
		TicketID:     req.TicketID,
		CustomerID:   req.CustomerID,
		Description:  req.Description,
		ReceivedDate: req.ReceivedDate,
	})
	if err != nil {
		return nil, err
	}
	return out.State, nil
}

type noopSink struct{}

func (noopSink) Upsert(context.Context, contractx.TicketMeta, *statex.TicketState) error {
	return nil
}
