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

type classifierImpl struct {
	runner compose.Runnable[map[string]any, classifierLLMOutput]
}

type classifierLLMOutput struct {
	ProblemTypes []string `json:"problem_types"`
	Reasoning    string   `json:"reasoning"`
}

func newClassifier(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (*classifierImpl, error) {
	runner, err := compileStructuredLLMGraph[classifierLLMOutput](ctx, chatModel, systemPrompt, "classifier.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile classifier graph: %v", contractx.ErrModelInvoke, err)
	}
	return &classifierImpl{runner: runner}, nil
}

func (c *classifierImpl) Classify(ctx context.Context, req contractx.ClassifyRequest) (contractx.ClassifyResponse, error) {
	if strings.TrimSpace(req.Issue) == "" {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: ticket issue is empty", contractx.ErrValidation)
	}

	payload := map[string]any{
		"issue": req.Issue,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: marshal classifier payload: %v", contractx.ErrValidation, err)
	}

	out, err := c.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: classifier invoke: %v", contractx.ErrModelInvoke, err)
	}

	types := make([]string, 0, len(out.ProblemTypes))
	for _, t := range out.ProblemTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		types = append(types, t)
	}

	return contractx.ClassifyResponse{
		ProblemTypes: types,
		Reasoning:    strings.TrimSpace(out.Reasoning),
	}, nil
}
