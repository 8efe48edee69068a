package state

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Terminal actions form a closed set.
const (
	ActionResend        = "Resend item"
	ActionRefund        = "Refund issued"
	ActionInformational = "Informational resolution"
)

var (
	ErrNilTicketState = errors.New("ticket state is nil")
	ErrInvalidTicket  = errors.New("ticket id is empty")
)

// Message is one entry in the audit conversation. Insertion order is the
// canonical order; entries are append-only and never mutated.
type Message struct {
	Role       Role   `json:"role"`
	Content    string `json:"content"`
	ToolName   string `json:"tool_name,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// ResolverStep is one iteration of the resolver loop: the oracle's thought,
// the tool it chose (if any), the input it passed, and the tool's textual
// result.
type ResolverStep struct {
	Thought     string `json:"thought"`
	Action      string `json:"action,omitempty"`
	ActionInput string `json:"action_input,omitempty"`
	Result      string `json:"result,omitempty"`
}

// ThoughtStep is a per-stage audit record.
type ThoughtStep struct {
	Step          string         `json:"step"`
	Reasoning     string         `json:"reasoning"`
	Output        string         `json:"output"`
	DetailedSteps []ResolverStep `json:"detailed_steps,omitempty"`
}

// TicketState is the single record threaded through the pipeline. It is
// created once per ticket, mutated in strict stage order, and terminal after
// the resolver stage.
type TicketState struct {
	TicketID string `json:"ticket_id"`

	Messages []Message `json:"messages"`
	Problems []string  `json:"problems,omitempty"`

	PolicyName        string `json:"policy_name,omitempty"`
	PolicyDescription string `json:"policy_description,omitempty"`

	ActionTaken string `json:"action_taken,omitempty"`
	Reason      string `json:"reason,omitempty"`

	Reasoning      map[string]string `json:"reasoning,omitempty"`
	ThoughtProcess []ThoughtStep     `json:"thought_process,omitempty"`
}

// NewTicketState seeds the state with the original customer message as the
// sole conversation entry.
func NewTicketState(ticketID, issue string) *TicketState {
	return &TicketState{
		TicketID: strings.TrimSpace(ticketID),
		Messages: []Message{
			{Role: RoleHuman, Content: issue},
		},
		Reasoning: make(map[string]string, 3),
	}
}

// Issue returns the original customer message.
func (s *TicketState) Issue() string {
	if s == nil || len(s.Messages) == 0 {
		return ""
	}
	return s.Messages[0].Content
}

func (s *TicketState) AppendAssistant(content string) {
	s.Messages = append(s.Messages, Message{Role: RoleAssistant, Content: content})
}

func (s *TicketState) AppendTool(name, content, callID string) {
	s.Messages = append(s.Messages, Message{
		Role:       RoleTool,
		Content:    content,
		ToolName:   name,
		ToolCallID: callID,
	})
}

// AddReasoning records a stage rationale. A stage's entry is written once;
// later stages accumulate under their own keys.
func (s *TicketState) AddReasoning(stage, rationale string) {
	if s.Reasoning == nil {
		s.Reasoning = make(map[string]string, 3)
	}
	s.Reasoning[stage] = rationale
}

func (s *TicketState) AddThought(step ThoughtStep) {
	s.ThoughtProcess = append(s.ThoughtProcess, step)
}

func (s *TicketState) Validate() error {
	if s == nil {
		return ErrNilTicketState
	}
	if strings.TrimSpace(s.TicketID) == "" {
		return ErrInvalidTicket
	}
	if len(s.Messages) == 0 {
		return errors.New("ticket state has no messages")
	}
	return nil
}
