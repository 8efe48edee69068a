package ticketdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
	statex "github.com/tanpawarit/erp-support-agent/agent/state"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// NewDB opens a bun Postgres handle from the DSN.
func NewDB(cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("ticketdb dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// PostgresSink persists terminal ticket states, keyed by ticket id.
type PostgresSink struct {
	db  bun.IDB
	now func() time.Time
}

func NewPostgresSink(db bun.IDB) (*PostgresSink, error) {
	if db == nil {
		return nil, errors.New("ticketdb database handle is required")
	}
	return &PostgresSink{db: db, now: time.Now}, nil
}

var _ contractx.Sink = (*PostgresSink)(nil)

// CreateTables creates the tickets and ticket_states tables if absent.
func (s *PostgresSink) CreateTables(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*Ticket)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: create tickets table: %v", contractx.ErrPersistence, err)
	}
	if _, err := s.db.NewCreateTable().
		Model((*TicketStateRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: create ticket_states table: %v", contractx.ErrPersistence, err)
	}
	return nil
}

// Upsert saves the ticket plus its terminal state. Replaying the same ticket
// id updates both rows in place.
func (s *PostgresSink) Upsert(ctx context.Context, meta contractx.TicketMeta, st *statex.TicketState) error {
	if st == nil {
		return fmt.Errorf("%w: %v", contractx.ErrPersistence, statex.ErrNilTicketState)
	}
	ticketID := strings.TrimSpace(meta.TicketID)
	if ticketID == "" {
		return fmt.Errorf("%w: %v", contractx.ErrPersistence, statex.ErrInvalidTicket)
	}

	processed := s.now().UTC()
	ticket := &Ticket{
		TicketID:      ticketID,
		CustomerID:    meta.CustomerID,
		Description:   meta.Description,
		ReceivedDate:  meta.ReceivedDate,
		ProcessedDate: &processed,
		Status:        "resolved",
	}

	if _, err := s.db.NewInsert().
		Model(ticket).
		On("CONFLICT (ticket_id) DO UPDATE").
		Set("processed_date = EXCLUDED.processed_date").
		Set("status = EXCLUDED.status").
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: upsert ticket=%s: %v", contractx.ErrPersistence, ticketID, err)
	}

	row, err := stateRow(ticketID, st)
	if err != nil {
		return fmt.Errorf("%w: snapshot ticket=%s: %v", contractx.ErrPersistence, ticketID, err)
	}

	if _, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (ticket_id) DO UPDATE").
		Set("problems = EXCLUDED.problems").
		Set("policy_name = EXCLUDED.policy_name").
		Set("policy_desc = EXCLUDED.policy_desc").
		Set("action_taken = EXCLUDED.action_taken").
		Set("reason = EXCLUDED.reason").
		Set("reasoning = EXCLUDED.reasoning").
		Set("thought_process = EXCLUDED.thought_process").
		Set("messages = EXCLUDED.messages").
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: upsert ticket state=%s: %v", contractx.ErrPersistence, ticketID, err)
	}

	return nil
}
