package ticketdb

import (
	"encoding/json"
	"fmt"

	statex "github.com/tanpawarit/erp-support-agent/agent/state"
)

// messageRecords flattens the audit conversation into {type, content} pairs.
func messageRecords(st *statex.TicketState) []MessageRecord {
	if st == nil {
		return nil
	}
	records := make([]MessageRecord, 0, len(st.Messages))
	for _, msg := range st.Messages {
		records = append(records, MessageRecord{
			Type:    messageType(msg.Role),
			Content: msg.Content,
		})
	}
	return records
}

func messageType(role statex.Role) string {
	switch role {
	case statex.RoleHuman:
		return "human"
	case statex.RoleAssistant:
		return "ai"
	case statex.RoleTool:
		return "tool"
	default:
		return string(role)
	}
}

// stateRow snapshots a terminal ticket state into its persisted row shape.
func stateRow(ticketID string, st *statex.TicketState) (*TicketStateRow, error) {
	problems, err := json.Marshal(st.Problems)
	if err != nil {
		return nil, fmt.Errorf("marshal problems: %w", err)
	}
	reasoning, err := json.Marshal(st.Reasoning)
	if err != nil {
		return nil, fmt.Errorf("marshal reasoning: %w", err)
	}
	thoughts, err := json.Marshal(st.ThoughtProcess)
	if err != nil {
		return nil, fmt.Errorf("marshal thought process: %w", err)
	}
	messages, err := json.Marshal(messageRecords(st))
	if err != nil {
		return nil, fmt.Errorf("marshal messages: %w", err)
	}

	return &TicketStateRow{
		TicketID:       ticketID,
		Problems:       problems,
		PolicyName:     st.PolicyName,
		PolicyDesc:     st.PolicyDescription,
		ActionTaken:    st.ActionTaken,
		Reason:         st.Reason,
		Reasoning:      reasoning,
		ThoughtProcess: thoughts,
		Messages:       messages,
	}, nil
}
