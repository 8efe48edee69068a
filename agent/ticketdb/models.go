package ticketdb

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Ticket is the durable record for one support ticket. Status moves
// new -> resolved when the pipeline persists a terminal state.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID            int64      `bun:"id,pk,autoincrement"`
	TicketID      string     `bun:"ticket_id,unique,notnull"`
	CustomerID    string     `bun:"customer_id"`
	Description   string     `bun:"description,type:text"`
	ReceivedDate  time.Time  `bun:"received_date,nullzero"`
	ProcessedDate *time.Time `bun:"processed_date"`
	Status        string     `bun:"status,notnull,default:'new'"`
}

// TicketStateRow is the full terminal state snapshot, one row per ticket.
// The trail columns hold pre-marshaled JSON so the row shape stays stable
// regardless of how the in-memory state model evolves.
type TicketStateRow struct {
	bun.BaseModel `bun:"table:ticket_states,alias:ts"`

	ID       int64  `bun:"id,pk,autoincrement"`
	TicketID string `bun:"ticket_id,unique,notnull"`

	Problems       json.RawMessage `bun:"problems,type:jsonb"`
	PolicyName     string          `bun:"policy_name"`
	PolicyDesc     string          `bun:"policy_desc,type:text"`
	ActionTaken    string          `bun:"action_taken"`
	Reason         string          `bun:"reason,type:text"`
	Reasoning      json.RawMessage `bun:"reasoning,type:jsonb"`
	ThoughtProcess json.RawMessage `bun:"thought_process,type:jsonb"`
	Messages       json.RawMessage `bun:"messages,type:jsonb"`
}

// MessageRecord is the persisted shape of one audit message.
type MessageRecord struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
