package pipeline

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/erp-support-agent/agent/nodes"
)

func (s *Service) compileProcessTicketGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, s.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("classify_issue",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ClassifyIssue(ctx, in, s.models.Classifier())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_issue: %w", err)
	}

	if err := graph.AddLambdaNode("pick_policy",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PickPolicy(ctx, in, s.models.PolicySelector(), s.catalog)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node pick_policy: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_issue",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ResolveIssue(ctx, in, s.models.Resolver(), s.tools, s.productRef, s.maxSteps)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_issue: %w", err)
	}

	if err := graph.AddLambdaNode("persist_state",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PersistState(ctx, in, s.sink)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_state: %w", err)
	}

	if err := graph.AddLambdaNode("finalize",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.Finalize(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "classify_issue"},
		{"classify_issue", "pick_policy"},
		{"pick_policy", "resolve_issue"},
		{"resolve_issue", "persist_state"},
		{"persist_state", "finalize"},
		{"finalize", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("pipeline.process_ticket"))
	if err != nil {
		return nil, fmt.Errorf("compile pipeline graph: %w", err)
	}
	return runner, nil
}
