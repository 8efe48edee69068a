package pipelinenode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
	statex "github.com/tanpawarit/erp-support-agent/agent/state"
)

var (
	ErrInvalidTicketID    = errors.New("ticket id is empty")
	ErrInvalidDescription = errors.New("ticket description is empty")
)

type GraphInput struct {
	TicketID     string
	CustomerID   string
	Description  string
	ReceivedDate time.Time
}

type GraphOutput struct {
	State *statex.TicketState
}

type GraphState struct {
	Meta contractx.TicketMeta
	Now  time.Time

	State *statex.TicketState
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	ticketID := strings.TrimSpace(in.TicketID)
	if ticketID == "" {
		return nil, ErrInvalidTicketID
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, ErrInvalidDescription
	}

	now := nowFn().UTC()
	received := in.ReceivedDate
	if received.IsZero() {
		received = now
	}

	return &GraphState{
		Meta: contractx.TicketMeta{
			TicketID:     ticketID,
			CustomerID:   strings.TrimSpace(in.CustomerID),
			Description:  description,
			ReceivedDate: received.UTC(),
		},
		Now:   now,
		State: statex.NewTicketState(ticketID, description),
	}, nil
}
