package llm

import "errors"

// Sentinels returned (wrapped) by every LLMClient. Match with errors.Is.
var (
	ErrOllamaUnavailable = errors.New("ollama server unavailable")
	ErrTimeout           = errors.New("llm request timed out")
	// ErrInvalidOutput covers undecodable bodies, bad stream lines and
	// blank replies.
	ErrInvalidOutput  = errors.New("invalid llm output format")
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
	ErrDisabled       = errors.New("llm assistant disabled")
)
