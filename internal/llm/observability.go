package llm

import (
	"github.com/charmbracelet/log"
)

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	Streamed  bool
	Chunks    int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes LLM call events to a structured logger.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver creates an Observer that logs events through logger.
func NewLogObserver(logger *log.Logger) *LogObserver {
	return &LogObserver{logger: logger.WithPrefix("llm")}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	kv := []any{
		"task", event.Task,
		"model", event.Model,
		"latency_ms", event.LatencyMs,
	}
	if event.Streamed {
		kv = append(kv, "chunks", event.Chunks)
	}
	if !event.Success {
		o.logger.Warn("llm call failed", append(kv, "code", event.ErrorCode)...)
		return
	}
	o.logger.Info("llm call", kv...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
