package pipelinenode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
	policyx "github.com/tanpawarit/erp-support-agent/agent/policy"
	statex "github.com/tanpawarit/erp-support-agent/agent/state"
)

func PickPolicy(
	ctx context.Context,
	in *GraphState,
	selector contractx.PolicySelector,
	catalog *policyx.Catalog,
) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if catalog == nil {
		return nil, fmt.Errorf("%w: policy catalog is nil", contractx.ErrValidation)
	}

	// Union of policies matching any identified problem; an empty union falls
	// back to the full catalog so the oracle always sees candidates.
	policies := catalog.ForProblems(in.State.Problems)
	if len(policies) == 0 {
		policies = catalog.All()
	}

	candidates := make([]contractx.PolicyCandidate, 0, len(policies))
	for _, p := range policies {
		candidates = append(candidates, contractx.PolicyCandidate{
			Name:               p.Name,
			Description:        p.Description,
			WhenToUse:          p.WhenToUse,
			ApplicableProblems: p.ApplicableProblems,
		})
	}

	resp, err := selector.Select(ctx, contractx.PolicySelectRequest{
		Issue:         in.State.Issue(),
		ProblemTypes:  in.State.Problems,
		IssueAnalysis: in.State.Reasoning[string(contractx.StageClassify)],
		Candidates:    candidates,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ticket=%s: %v", contractx.ErrPolicySelectionFailed, in.Meta.TicketID, err)
	}

	// The selector backend is substitutable, so the stage enforces the
	// non-empty policy name itself rather than trusting one implementation.
	if strings.TrimSpace(resp.PolicyName) == "" {
		return nil, fmt.Errorf("%w: ticket=%s: %v: policy name is empty",
			contractx.ErrPolicySelectionFailed, in.Meta.TicketID, contractx.ErrSchemaViolation)
	}

	in.State.AppendAssistant("🔍 **Policy Analysis**:\n" + resp.Reasoning)

	policyContent := fmt.Sprintf("📋 **Selected Policy**: %s\n%s", resp.PolicyName, resp.PolicyDescription)
	if resp.ApplicationNotes != "" {
		policyContent += "\n\n📝 **Application Notes**: " + resp.ApplicationNotes
	}
	in.State.AppendAssistant(policyContent)

	in.State.PolicyName = resp.PolicyName
	in.State.PolicyDescription = resp.PolicyDescription
	in.State.AddReasoning(string(contractx.StagePolicy), resp.Reasoning)
	in.State.AddThought(statex.ThoughtStep{
		Step:      "pick_policy",
		Reasoning: resp.Reasoning,
		Output:    fmt.Sprintf("%s: %s", resp.PolicyName, resp.PolicyDescription),
	})

	return in, nil
}
