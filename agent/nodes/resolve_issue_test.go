package pipelinenode

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
	erpx "github.com/tanpawarit/erp-support-agent/agent/erp"
	policyx "github.com/tanpawarit/erp-support-agent/agent/policy"
	toolx "github.com/tanpawarit/erp-support-agent/agent/tool"
)

type scriptedResolver struct {
	steps []contractx.ResolverStepResponse
	err   error
	idx   int
}

func (s *scriptedResolver) Step(ctx context.Context, req contractx.ResolverStepRequest) (contractx.ResolverStepResponse, error) {
	if s.err != nil {
		return contractx.ResolverStepResponse{}, s.err
	}
	if s.idx >= len(s.steps) {
		return contractx.ResolverStepResponse{}, errors.New("no scripted step left")
	}
	step := s.steps[s.idx]
	s.idx++
	return step, nil
}

func TestResolveIssueResendFlow(t *testing.T) {
	t.Parallel()

	store := erpx.NewStore(erpx.WithRandSeed(1))
	tools := toolx.NewRegistry(store)

	in := newGraphState(t, "my headphones from order ORD12345 arrived broken")
	in.State.Problems = []string{policyx.ProblemDamaged}
	in.State.PolicyName = "Damaged Item Policy"
	in.State.PolicyDescription = "Immediate replacement or full refund for damaged items."

	resolver := &scriptedResolver{
		steps: []contractx.ResolverStepResponse{
			{Thought: "check whether replacement stock exists", Action: "check_stock", ActionInput: "P1001"},
			{Thought: "stock is available, ship a replacement", Action: "initialize_resend", ActionInput: "ORD12345/P1001"},
			{Thought: "replacement initiated", FinalAnswer: "A replacement Premium Wireless Headphones has been sent for order ORD12345."},
		},
	}

	out, err := ResolveIssue(context.Background(), in, resolver, tools, store.ProductReference(), DefaultMaxResolverSteps)
	if err != nil {
		t.Fatalf("ResolveIssue() error = %v", err)
	}

	if out.State.ActionTaken != "Resend item" {
		t.Fatalf("unexpected action: %s", out.State.ActionTaken)
	}
	if out.State.Reason != "Item in stock and eligible for replacement per policy." {
		t.Fatalf("unexpected reason: %s", out.State.Reason)
	}

	if qty, ok := store.StockLevel("P1001"); !ok || qty != 44 {
		t.Fatalf("expected stock decremented to 44, got %d", qty)
	}

	last := out.State.Messages[len(out.State.Messages)-1]
	if !strings.HasPrefix(last.Content, "✅ **Resolution**: Resend item | Reason:") {
		t.Fatalf("unexpected resolution message: %q", last.Content)
	}

	if out.State.Reasoning["resolve"] == "" {
		t.Fatal("expected resolve reasoning summary")
	}
	if !strings.Contains(out.State.Reasoning["resolve"], "Step 1:") {
		t.Fatalf("expected step-numbered summary, got %q", out.State.Reasoning["resolve"])
	}

	thought := out.State.ThoughtProcess[len(out.State.ThoughtProcess)-1]
	if thought.Step != "resolve_issue" || len(thought.DetailedSteps) != 2 {
		t.Fatalf("unexpected resolve thought step: %#v", thought)
	}
	if thought.DetailedSteps[0].Action != "check_stock" {
		t.Fatalf("unexpected first detailed step: %#v", thought.DetailedSteps[0])
	}
}

func TestResolveIssueSkipsToolMessageWithoutInput(t *testing.T) {
	t.Parallel()

	store := erpx.NewStore(erpx.WithRandSeed(1))
	tools := toolx.NewRegistry(store)

	in := newGraphState(t, "where is my order ORD67890?")
	in.State.Problems = []string{policyx.ProblemDelayed}
	in.State.PolicyName = "Delayed Shipment Compensation"
	in.State.PolicyDescription = "Expedited shipping or discount for late orders."

	resolver := &scriptedResolver{
		steps: []contractx.ResolverStepResponse{
			{Thought: "look up the order", Action: "check_order_status", ActionInput: ""},
			{Thought: "order located, explain the delay", FinalAnswer: "The order ORD67890 is delayed; compensation applies."},
		},
	}

	out, err := ResolveIssue(context.Background(), in, resolver, tools, store.ProductReference(), DefaultMaxResolverSteps)
	if err != nil {
		t.Fatalf("ResolveIssue() error = %v", err)
	}

	for _, msg := range out.State.Messages {
		if msg.Role == "tool" && msg.Content == "" {
			t.Fatalf("empty-content tool message in trail: %#v", msg)
		}
	}

	thought := out.State.ThoughtProcess[len(out.State.ThoughtProcess)-1]
	if len(thought.DetailedSteps) != 1 || thought.DetailedSteps[0].Result == "" {
		t.Fatalf("tool must still run without an input message: %#v", thought)
	}
}

func TestResolveIssueRefundOnOutOfStock(t *testing.T) {
	t.Parallel()

	store := erpx.NewStore(erpx.WithRandSeed(1))
	tools := toolx.NewRegistry(store)

	in := newGraphState(t, "the fitness watch from ORD67890 stopped working")
	in.State.Problems = []string{policyx.ProblemDamaged}
	in.State.PolicyName = "Damaged Item Policy"
	in.State.PolicyDescription = "Immediate replacement or full refund for damaged items."

	resolver := &scriptedResolver{
		steps: []contractx.ResolverStepResponse{
			{Thought: "check replacement stock", Action: "check_stock", ActionInput: "P1002"},
			{Thought: "no stock, refund instead", Action: "initialize_refund", ActionInput: "ORD67890/P1002"},
			{Thought: "refund processed", FinalAnswer: "Stock level is 0, so a refund of $149.99 has been issued for order ORD67890."},
		},
	}

	out, err := ResolveIssue(context.Background(), in, resolver, tools, store.ProductReference(), DefaultMaxResolverSteps)
	if err != nil {
		t.Fatalf("ResolveIssue() error = %v", err)
	}

	if out.State.ActionTaken != "Refund issued" {
		t.Fatalf("unexpected action: %s", out.State.ActionTaken)
	}
	if out.State.Reason != "Stock not available for replacement." {
		t.Fatalf("unexpected reason: %s", out.State.Reason)
	}
	if store.ReturnCount("ORD67890") != 1 {
		t.Fatalf("expected one return request, got %d", store.ReturnCount("ORD67890"))
	}
}

func TestResolveIssueToolErrorFedBack(t *testing.T) {
	t.Parallel()

	store := erpx.NewStore(erpx.WithRandSeed(1))
	tools := toolx.NewRegistry(store)

	in := newGraphState(t, "where is my order ORD99999?")
	in.State.Problems = []string{policyx.ProblemNonDelivery}
	in.State.PolicyName = "Non-Delivery Resolution"
	in.State.PolicyDescription = "Investigate and resend or refund."

	resolver := &scriptedResolver{
		steps: []contractx.ResolverStepResponse{
			{Thought: "look up the order", Action: "check_order_status", ActionInput: "ORD99999"},
			{Thought: "order does not exist", FinalAnswer: "No order ORD99999 exists; the customer should verify the order number."},
		},
	}

	out, err := ResolveIssue(context.Background(), in, resolver, tools, store.ProductReference(), DefaultMaxResolverSteps)
	if err != nil {
		t.Fatalf("ResolveIssue() error = %v", err)
	}

	thought := out.State.ThoughtProcess[len(out.State.ThoughtProcess)-1]
	if len(thought.DetailedSteps) != 1 {
		t.Fatalf("expected one detailed step, got %#v", thought.DetailedSteps)
	}
	if !toolx.IsError(thought.DetailedSteps[0].Result) {
		t.Fatalf("expected tool error text as result, got %q", thought.DetailedSteps[0].Result)
	}
}

func TestResolveIssueInformationalFallback(t *testing.T) {
	t.Parallel()

	store := erpx.NewStore(erpx.WithRandSeed(1))
	tools := toolx.NewRegistry(store)

	in := newGraphState(t, "I cannot log into my account")
	in.State.Problems = []string{policyx.ProblemAccount}
	in.State.PolicyName = "Account Security Protocol"
	in.State.PolicyDescription = "Verify identity before account changes."

	resolver := &scriptedResolver{
		steps: []contractx.ResolverStepResponse{
			{Thought: "account issues need identity verification, no fulfillment action", FinalAnswer: "Please verify your identity through the account recovery flow; support will then reset your access."},
		},
	}

	out, err := ResolveIssue(context.Background(), in, resolver, tools, store.ProductReference(), DefaultMaxResolverSteps)
	if err != nil {
		t.Fatalf("ResolveIssue() error = %v", err)
	}
	if out.State.ActionTaken != "Informational resolution" {
		t.Fatalf("unexpected action: %s", out.State.ActionTaken)
	}
	if out.State.Reason != "No fulfillment action required for this issue type." {
		t.Fatalf("unexpected reason: %s", out.State.Reason)
	}
}

func TestResolveIssueStepBoundExhaustion(t *testing.T) {
	t.Parallel()

	store := erpx.NewStore(erpx.WithRandSeed(1))
	tools := toolx.NewRegistry(store)

	in := newGraphState(t, "my order ORD12345 is late")
	in.State.Problems = []string{policyx.ProblemDelayed}
	in.State.PolicyName = "Delayed Shipment Compensation"
	in.State.PolicyDescription = "Compensation for late orders."

	looping := make([]contractx.ResolverStepResponse, 0, 4)
	for i := 0; i < 4; i++ {
		looping = append(looping, contractx.ResolverStepResponse{
			Thought: "check the order again", Action: "check_order_status", ActionInput: "ORD12345",
		})
	}
	resolver := &scriptedResolver{steps: looping}

	_, err := ResolveIssue(context.Background(), in, resolver, tools, store.ProductReference(), 4)
	if !errors.Is(err, contractx.ErrResolutionIncomplete) {
		t.Fatalf("expected ErrResolutionIncomplete, got %v", err)
	}
}

func TestClassifyResolutionHeuristic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		answer     string
		problems   []string
		wantAction string
		wantReason string
	}{
		{
			name:       "refund with stock unavailable",
			answer:     "Stock level is 0 so a refund was issued.",
			problems:   []string{policyx.ProblemDamaged},
			wantAction: "Refund issued",
			wantReason: "Stock not available for replacement.",
		},
		{
			name:       "refund per policy",
			answer:     "A courtesy refund was issued for this order.",
			problems:   []string{policyx.ProblemRefund},
			wantAction: "Refund issued",
			wantReason: "Per company policy for this issue type.",
		},
		{
			name:       "resend",
			answer:     "A replacement item has been shipped.",
			problems:   []string{policyx.ProblemDamaged},
			wantAction: "Resend item",
			wantReason: "Item in stock and eligible for replacement per policy.",
		},
		{
			name:       "informational for account only",
			answer:     "Please reset your password via the recovery flow.",
			problems:   []string{policyx.ProblemAccount, policyx.ProblemGeneral},
			wantAction: "Informational resolution",
			wantReason: "No fulfillment action required for this issue type.",
		},
		{
			name:       "mixed problems still resend",
			answer:     "Shipped a new unit and updated the account.",
			problems:   []string{policyx.ProblemAccount, policyx.ProblemDamaged},
			wantAction: "Resend item",
			wantReason: "Item in stock and eligible for replacement per policy.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			action, reason := classifyResolution(tc.answer, tc.problems)
			if action != tc.wantAction {
				t.Fatalf("action = %q, want %q", action, tc.wantAction)
			}
			if reason != tc.wantReason {
				t.Fatalf("reason = %q, want %q", reason, tc.wantReason)
			}
		})
	}
}
