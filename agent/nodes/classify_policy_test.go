package pipelinenode

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
	policyx "github.com/tanpawarit/erp-support-agent/agent/policy"
)

type fakeClassifier struct {
	resp contractx.ClassifyResponse
	err  error
}

func (f *fakeClassifier) Classify(ctx context.Context, req contractx.ClassifyRequest) (contractx.ClassifyResponse, error) {
	if f.err != nil {
		return contractx.ClassifyResponse{}, f.err
	}
	return f.resp, nil
}

type fakeSelector struct {
	resp    contractx.PolicySelectResponse
	err     error
	lastReq contractx.PolicySelectRequest
}

func (f *fakeSelector) Select(ctx context.Context, req contractx.PolicySelectRequest) (contractx.PolicySelectResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return contractx.PolicySelectResponse{}, f.err
	}
	return f.resp, nil
}

func newGraphState(t *testing.T, issue string) *GraphState {
	t.Helper()

	in, err := ValidateRequest(GraphInput{
		TicketID:    "T-100",
		CustomerID:  "C1001",
		Description: issue,
	}, func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	return in
}

func TestValidateRequestRejectsEmptyFields(t *testing.T) {
	t.Parallel()

	_, err := ValidateRequest(GraphInput{TicketID: " ", Description: "order missing"}, time.Now)
	if !errors.Is(err, ErrInvalidTicketID) {
		t.Fatalf("expected ErrInvalidTicketID, got %v", err)
	}

	_, err = ValidateRequest(GraphInput{TicketID: "T-1", Description: "  "}, time.Now)
	if !errors.Is(err, ErrInvalidDescription) {
		t.Fatalf("expected ErrInvalidDescription, got %v", err)
	}
}

func TestClassifyIssueRecordsTrail(t *testing.T) {
	t.Parallel()

	in := newGraphState(t, "my headphones from ORD12345 arrived broken")
	classifier := &fakeClassifier{
		resp: contractx.ClassifyResponse{
			ProblemTypes: []string{"damaged"},
			Reasoning:    "customer reports a broken product on arrival",
		},
	}

	out, err := ClassifyIssue(context.Background(), in, classifier)
	if err != nil {
		t.Fatalf("ClassifyIssue() error = %v", err)
	}

	if len(out.State.Problems) != 1 || out.State.Problems[0] != "damaged" {
		t.Fatalf("unexpected problems: %#v", out.State.Problems)
	}
	// Original customer message plus analysis and categories entries.
	if len(out.State.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out.State.Messages))
	}
	if !strings.HasPrefix(out.State.Messages[1].Content, "🔎 **Issue Analysis**:") {
		t.Fatalf("unexpected analysis message: %q", out.State.Messages[1].Content)
	}
	if out.State.Messages[2].Content != "📁 **Identified Problem Types**: `damaged`" {
		t.Fatalf("unexpected categories message: %q", out.State.Messages[2].Content)
	}
	if out.State.Reasoning["classify"] == "" {
		t.Fatal("expected classify reasoning to be recorded")
	}
	if len(out.State.ThoughtProcess) != 1 || out.State.ThoughtProcess[0].Step != "classify_issue" {
		t.Fatalf("unexpected thought process: %#v", out.State.ThoughtProcess)
	}
}

func TestClassifyIssueEmptyCategoriesFallBackToGeneral(t *testing.T) {
	t.Parallel()

	in := newGraphState(t, "hello, I have a question")
	classifier := &fakeClassifier{
		resp: contractx.ClassifyResponse{Reasoning: "unclear request"},
	}

	out, err := ClassifyIssue(context.Background(), in, classifier)
	if err != nil {
		t.Fatalf("ClassifyIssue() error = %v", err)
	}
	if len(out.State.Problems) != 1 || out.State.Problems[0] != policyx.ProblemGeneral {
		t.Fatalf("expected fallback to general, got %#v", out.State.Problems)
	}
}

func TestClassifyIssueOracleFailureIsFatal(t *testing.T) {
	t.Parallel()

	in := newGraphState(t, "order missing")
	classifier := &fakeClassifier{err: errors.New("model unreachable")}

	_, err := ClassifyIssue(context.Background(), in, classifier)
	if !errors.Is(err, contractx.ErrClassificationFailed) {
		t.Fatalf("expected ErrClassificationFailed, got %v", err)
	}
}

func TestPickPolicyUsesMatchingCandidates(t *testing.T) {
	t.Parallel()

	in := newGraphState(t, "my item arrived damaged")
	in.State.Problems = []string{policyx.ProblemDamaged}
	in.State.AddReasoning("classify", "product damaged in transit")

	selector := &fakeSelector{
		resp: contractx.PolicySelectResponse{
			PolicyName:        "Damaged Item Policy",
			PolicyDescription: "Immediate replacement or full refund for damaged items.",
			Reasoning:         "damage on arrival maps directly to the damaged item policy",
			ApplicationNotes:  "verify replacement stock first",
		},
	}

	out, err := PickPolicy(context.Background(), in, selector, policyx.NewCatalog())
	if err != nil {
		t.Fatalf("PickPolicy() error = %v", err)
	}

	names := make(map[string]bool, len(selector.lastReq.Candidates))
	for _, c := range selector.lastReq.Candidates {
		names[c.Name] = true
	}
	if !names["Damaged Item Policy"] {
		t.Fatalf("expected damaged item policy among candidates, got %#v", selector.lastReq.Candidates)
	}
	if names["Account Security Protocol"] {
		t.Fatal("account policy should not be a candidate for a damaged ticket")
	}

	if out.State.PolicyName != "Damaged Item Policy" {
		t.Fatalf("unexpected policy name: %s", out.State.PolicyName)
	}
	last := out.State.Messages[len(out.State.Messages)-1]
	if !strings.Contains(last.Content, "📋 **Selected Policy**: Damaged Item Policy") {
		t.Fatalf("unexpected policy message: %q", last.Content)
	}
	if !strings.Contains(last.Content, "📝 **Application Notes**: verify replacement stock first") {
		t.Fatalf("expected application notes in policy message: %q", last.Content)
	}
	if out.State.Reasoning["policy"] == "" {
		t.Fatal("expected policy reasoning to be recorded")
	}
}

func TestPickPolicyFallsBackToFullCatalog(t *testing.T) {
	t.Parallel()

	in := newGraphState(t, "something odd happened")
	in.State.Problems = []string{"unrecognized-category"}

	catalog := policyx.NewCatalog()
	selector := &fakeSelector{
		resp: contractx.PolicySelectResponse{
			PolicyName:        "Standard Return Policy",
			PolicyDescription: "30-day returns",
			Reasoning:         "default fallback",
		},
	}

	if _, err := PickPolicy(context.Background(), in, selector, catalog); err != nil {
		t.Fatalf("PickPolicy() error = %v", err)
	}
	if len(selector.lastReq.Candidates) != len(catalog.All()) {
		t.Fatalf("expected full catalog fallback, got %d candidates", len(selector.lastReq.Candidates))
	}
}

func TestPickPolicyOracleFailureIsFatal(t *testing.T) {
	t.Parallel()

	in := newGraphState(t, "my item arrived damaged")
	in.State.Problems = []string{policyx.ProblemDamaged}

	selector := &fakeSelector{err: errors.New("model unreachable")}
	_, err := PickPolicy(context.Background(), in, selector, policyx.NewCatalog())
	if !errors.Is(err, contractx.ErrPolicySelectionFailed) {
		t.Fatalf("expected ErrPolicySelectionFailed, got %v", err)
	}
}

func TestPickPolicyRejectsEmptyPolicyName(t *testing.T) {
	t.Parallel()

	in := newGraphState(t, "my item arrived damaged")
	in.State.Problems = []string{policyx.ProblemDamaged}

	// A substituted selector backend may skip its own output validation; the
	// stage still has to refuse an empty name.
	selector := &fakeSelector{
		resp: contractx.PolicySelectResponse{
			PolicyName: "   ",
			Reasoning:  "no policy seemed to fit",
		},
	}
	_, err := PickPolicy(context.Background(), in, selector, policyx.NewCatalog())
	if !errors.Is(err, contractx.ErrPolicySelectionFailed) {
		t.Fatalf("expected ErrPolicySelectionFailed, got %v", err)
	}
	if in.State.PolicyName != "" {
		t.Fatalf("policy name must stay unset on rejection, got %q", in.State.PolicyName)
	}
}
