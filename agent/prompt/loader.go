package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/policy_selector.txt
	policySelectorRaw string

	//go:embed template/resolver.txt
	resolverRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Classifier     string
	PolicySelector string
	Resolver       string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Classifier:     strings.TrimSpace(classifierRaw),
		PolicySelector: strings.TrimSpace(policySelectorRaw),
		Resolver:       strings.TrimSpace(resolverRaw),
	}
}
