package oracle

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
	llmx "github.com/tanpawarit/erp-support-agent/agent/llm"
	promptx "github.com/tanpawarit/erp-support-agent/agent/prompt"
)

type registryImpl struct {
	classifier     contractx.Classifier
	policySelector contractx.PolicySelector
	resolver       contractx.Resolver
}

func (r *registryImpl) Classifier() contractx.Classifier {
	return r.classifier
}

func (r *registryImpl) PolicySelector() contractx.PolicySelector {
	return r.policySelector
}

func (r *registryImpl) Resolver() contractx.Resolver {
	return r.resolver
}

func NewRegistry(ctx context.Context, cfg llmx.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()
	if prompts.Classifier == "" || prompts.PolicySelector == "" || prompts.Resolver == "" {
		return nil, fmt.Errorf("%w: classifier/policy_selector/resolver", contractx.ErrPromptMissing)
	}

	classifierModelCfg := cfg.OpenRouterFor(contractx.StageClassify)
	classifierModel, err := classifierModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create classifier model: %v", contractx.ErrModelInvoke, err)
	}
	policyModelCfg := cfg.OpenRouterFor(contractx.StagePolicy)
	policyModel, err := policyModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create policy model: %v", contractx.ErrModelInvoke, err)
	}
	resolverModelCfg := cfg.OpenRouterFor(contractx.StageResolve)
	resolverModel, err := resolverModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create resolver model: %v", contractx.ErrModelInvoke, err)
	}

	classifier, err := newClassifier(ctx, classifierModel, prompts.Classifier)
	if err != nil {
		return nil, err
	}
	policySelector, err := newPolicySelector(ctx, policyModel, prompts.PolicySelector)
	if err != nil {
		return nil, err
	}
	resolver, err := newResolver(ctx, resolverModel, prompts.Resolver)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		classifier:     classifier,
		policySelector: policySelector,
		resolver:       resolver,
	}, nil
}
