package pipelinenode

import (
	"fmt"

	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
)

func Finalize(in *GraphState) (GraphOutput, error) {
	if in == nil || in.State == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if err := in.State.Validate(); err != nil {
		return GraphOutput{}, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	return GraphOutput{State: in.State}, nil
}
