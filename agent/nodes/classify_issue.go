package pipelinenode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
	policyx "github.com/tanpawarit/erp-support-agent/agent/policy"
	statex "github.com/tanpawarit/erp-support-agent/agent/state"
)

func ClassifyIssue(
	ctx context.Context,
	in *GraphState,
	classifier contractx.Classifier,
) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	resp, err := classifier.Classify(ctx, contractx.ClassifyRequest{
		Issue: in.State.Issue(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ticket=%s: %v", contractx.ErrClassificationFailed, in.Meta.TicketID, err)
	}

	problems := resp.ProblemTypes
	if len(problems) == 0 {
		problems = []string{policyx.ProblemGeneral}
	}

	display := make([]string, 0, len(problems))
	for _, p := range problems {
		// Unknown categories stay in the list: they simply match no policy
		// and fall through to the full-catalog candidate set.
		if !policyx.IsKnownCategory(p) {
			log.Warn().Str("ticket_id", in.Meta.TicketID).Str("category", p).Msg("unrecognized problem category")
		}
		display = append(display, "`"+p+"`")
	}

	in.State.AppendAssistant("🔎 **Issue Analysis**:\n" + resp.Reasoning)
	in.State.AppendAssistant("📁 **Identified Problem Types**: " + strings.Join(display, ", "))

	in.State.Problems = problems
	in.State.AddReasoning(string(contractx.StageClassify), resp.Reasoning)
	in.State.AddThought(statex.ThoughtStep{
		Step:      "classify_issue",
		Reasoning: resp.Reasoning,
		Output:    strings.Join(problems, ", "),
	})

	return in, nil
}
