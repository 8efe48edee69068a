package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")

	// Stage-level failures. These abort the remaining pipeline for a ticket;
	// tool-level failures never surface here, they travel back into the
	// resolver loop as plain text.
	ErrClassificationFailed  = errors.New("issue classification failed")
	ErrPolicySelectionFailed = errors.New("policy selection failed")
	ErrResolutionIncomplete  = errors.New("resolution incomplete: step bound exhausted")
	ErrPersistence           = errors.New("ticket persistence failed")
)
