package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
)

type policySelectorImpl struct {
	runner compose.Runnable[map[string]any, policyLLMOutput]
}

type policyLLMOutput struct {
	PolicyName        string `json:"policy_name"`
	PolicyDescription string `json:"policy_description"`
	Reasoning         string `json:"reasoning"`
	ApplicationNotes  string `json:"application_notes"`
}

func newPolicySelector(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (*policySelectorImpl, error) {
	runner, err := compileStructuredLLMGraph[policyLLMOutput](ctx, chatModel, systemPrompt, "policy_selector.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile policy selector graph: %v", contractx.ErrModelInvoke, err)
	}
	return &policySelectorImpl{runner: runner}, nil
}

func (p *policySelectorImpl) Select(ctx context.Context, req contractx.PolicySelectRequest) (contractx.PolicySelectResponse, error) {
	if len(req.Candidates) == 0 {
		return contractx.PolicySelectResponse{}, fmt.Errorf("%w: policy candidate list is empty", contractx.ErrValidation)
	}

	payload := map[string]any{
		"issue":          req.Issue,
		"problem_types":  req.ProblemTypes,
		"issue_analysis": req.IssueAnalysis,
		"candidates":     req.Candidates,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.PolicySelectResponse{}, fmt.Errorf("%w: marshal policy payload: %v", contractx.ErrValidation, err)
	}

	out, err := p.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.PolicySelectResponse{}, fmt.Errorf("%w: policy selector invoke: %v", contractx.ErrModelInvoke, err)
	}

	// Name validation is deliberately loose: the catalog entry shown to the
	// model may be paraphrased, so only emptiness is rejected here.
	name := strings.TrimSpace(out.PolicyName)
	if name == "" {
		return contractx.PolicySelectResponse{}, fmt.Errorf("%w: policy name is empty", contractx.ErrSchemaViolation)
	}

	return contractx.PolicySelectResponse{
		PolicyName:        name,
		PolicyDescription: strings.TrimSpace(out.PolicyDescription),
		Reasoning:         strings.TrimSpace(out.Reasoning),
		ApplicationNotes:  strings.TrimSpace(out.ApplicationNotes),
	}, nil
}
