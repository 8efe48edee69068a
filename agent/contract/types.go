package contract

import (
	"time"

	statex "github.com/tanpawarit/erp-support-agent/agent/state"
)

// Stage names the three pipeline stages. They double as keys into
// TicketState.Reasoning and as per-stage model selectors.
type Stage string

const (
	StageClassify Stage = "classify"
	StagePolicy   Stage = "policy"
	StageResolve  Stage = "resolve"
)

type ClassifyRequest struct {
	Issue string `json:"issue"`
}

type ClassifyResponse struct {
	ProblemTypes []string `json:"problem_types"`
	Reasoning    string   `json:"reasoning"`
}

// PolicyCandidate is one catalog entry as shown to the oracle.
type PolicyCandidate struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	WhenToUse          string   `json:"when_to_use"`
	ApplicableProblems []string `json:"applicable_problems"`
}

type PolicySelectRequest struct {
	Issue         string            `json:"issue"`
	ProblemTypes  []string          `json:"problem_types"`
	IssueAnalysis string            `json:"issue_analysis"`
	Candidates    []PolicyCandidate `json:"candidates"`
}

type PolicySelectResponse struct {
	PolicyName        string `json:"policy_name"`
	PolicyDescription string `json:"policy_description"`
	Reasoning         string `json:"reasoning"`
	ApplicationNotes  string `json:"application_notes,omitempty"`
}

// ResolverStepRequest carries the task brief plus the transcript of steps
// taken so far. The oracle sees its own prior thoughts and tool results and
// proposes exactly one next move.
type ResolverStepRequest struct {
	Task  string               `json:"task"`
	Steps []statex.ResolverStep `json:"steps,omitempty"`
}

// ResolverStepResponse is one move: either a tool invocation (Action +
// ActionInput) or a terminal FinalAnswer, never both.
type ResolverStepResponse struct {
	Thought     string `json:"thought"`
	Action      string `json:"action,omitempty"`
	ActionInput string `json:"action_input,omitempty"`
	FinalAnswer string `json:"final_answer,omitempty"`
}

// TicketMeta identifies a ticket to the persistence sink.
type TicketMeta struct {
	TicketID     string    `json:"ticket_id"`
	CustomerID   string    `json:"customer_id"`
	Description  string    `json:"description"`
	ReceivedDate time.Time `json:"received_date"`
}
