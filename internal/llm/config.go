package llm

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskChat    TaskType = "chat"
	TaskSummary TaskType = "summary"
)

// DefaultModel is the model the assistant was tuned against.
const DefaultModel = "aisingapore/Llama-SEA-LION-v3.5-8B-R:latest"

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig pointing at a local Ollama.
// The assistant is disabled until configured.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		Endpoint:   "http://localhost:11434",
		Model:      DefaultModel,
		TimeoutMs:  60000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskChat:    {Temperature: 0.6, MaxTokens: 2048, TimeoutMs: 120000},
			TaskSummary: {Temperature: 0.2, MaxTokens: 512, TimeoutMs: 30000},
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}
