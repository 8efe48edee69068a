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

type resolverImpl struct {
	runner compose.Runnable[map[string]any, resolverLLMOutput]
}

type resolverLLMOutput struct {
	Thought     string `json:"thought"`
	Action      string `json:"action"`
	ActionInput string `json:"action_input"`
	FinalAnswer string `json:"final_answer"`
}

func newResolver(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (*resolverImpl, error) {
	runner, err := compileStructuredLLMGraph[resolverLLMOutput](ctx, chatModel, systemPrompt, "resolver.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile resolver graph: %v", contractx.ErrModelInvoke, err)
	}
	return &resolverImpl{runner: runner}, nil
}

func (r *resolverImpl) Step(ctx context.Context, req contractx.ResolverStepRequest) (contractx.ResolverStepResponse, error) {
	if strings.TrimSpace(req.Task) == "" {
		return contractx.ResolverStepResponse{}, fmt.Errorf("%w: resolver task is empty", contractx.ErrValidation)
	}

	steps := make([]map[string]any, 0, len(req.Steps))
	for _, s := range req.Steps {
		steps = append(steps, map[string]any{
			"thought":      s.Thought,
			"action":       s.Action,
			"action_input": s.ActionInput,
			"result":       s.Result,
		})
	}

	payload := map[string]any{
		"task":  req.Task,
		"steps": steps,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.ResolverStepResponse{}, fmt.Errorf("%w: marshal resolver payload: %v", contractx.ErrValidation, err)
	}

	out, err := r.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.ResolverStepResponse{}, fmt.Errorf("%w: resolver invoke: %v", contractx.ErrModelInvoke, err)
	}

	action := strings.TrimSpace(out.Action)
	finalAnswer := strings.TrimSpace(out.FinalAnswer)
	if action == "" && finalAnswer == "" {
		return contractx.ResolverStepResponse{}, fmt.Errorf("%w: resolver step has neither action nor final answer", contractx.ErrSchemaViolation)
	}
	if action != "" && finalAnswer != "" {
		return contractx.ResolverStepResponse{}, fmt.Errorf("%w: resolver step has both action and final answer", contractx.ErrSchemaViolation)
	}

	return contractx.ResolverStepResponse{
		Thought:     strings.TrimSpace(out.Thought),
		Action:      action,
		ActionInput: strings.TrimSpace(out.ActionInput),
		FinalAnswer: finalAnswer,
	}, nil
}
