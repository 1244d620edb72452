package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	Prompt       string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// ChunkFunc receives streamed text fragments in arrival order. Returning an
// error stops the stream and is passed back to the caller.
type ChunkFunc func(chunk string) error

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the full text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// GenerateStream sends a prompt and delivers the reply through onChunk
	// as it is produced. The returned response carries the joined text.
	GenerateStream(ctx context.Context, req GenerateRequest, onChunk ChunkFunc) (*GenerateResponse, error)

	// Available checks whether the model server is reachable.
	Available(ctx context.Context) bool
}

// NewClient returns an Ollama-backed client, or one that refuses every call
// with ErrDisabled when cfg.Enabled is false.
func NewClient(cfg LLMConfig, observer Observer) LLMClient {
	if !cfg.Enabled {
		return DisabledClient{}
	}
	return NewOllamaClient(cfg, observer)
}

// DisabledClient is the LLMClient used when the assistant is switched off.
type DisabledClient struct{}

func (DisabledClient) Generate(context.Context, GenerateRequest) (*GenerateResponse, error) {
	return nil, ErrDisabled
}

func (DisabledClient) GenerateStream(context.Context, GenerateRequest, ChunkFunc) (*GenerateResponse, error) {
	return nil, ErrDisabled
}

func (DisabledClient) Available(context.Context) bool { return false }

// ollamaClient implements LLMClient using the Ollama HTTP API.
type ollamaClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates an LLMClient that talks to an Ollama instance.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is one JSON object from POST /api/generate. Streaming
// replies send one per line and mark the last with done.
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

func (c *ollamaClient) buildRequest(req GenerateRequest, stream bool) ollamaRequest {
	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return ollamaRequest{
		Model:  c.cfg.Model,
		System: req.SystemPrompt,
		Prompt: req.Prompt,
		Stream: stream,
		Options: ollamaOptions{
			Temperature: temp,
			NumPredict:  maxTok,
		},
	}
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TaskTimeout(req.Task))*time.Millisecond)
	defer cancel()

	body := c.buildRequest(req, false)

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		resp, err := c.doRequest(ctx, body)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.observer.OnCallComplete(LLMCallEvent{
				Task:      req.Task,
				Model:     c.cfg.Model,
				LatencyMs: latency,
				Success:   true,
			})
			return &GenerateResponse{
				Text:      resp.Response,
				Model:     resp.Model,
				LatencyMs: latency,
			}, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	err := c.classify(ctx, lastErr, true)
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		ErrorCode: errorCode(err),
	})
	return nil, err
}

// GenerateStream is not retried: once a chunk has reached the caller a
// replay would duplicate text.
func (c *ollamaClient) GenerateStream(ctx context.Context, req GenerateRequest, onChunk ChunkFunc) (*GenerateResponse, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TaskTimeout(req.Task))*time.Millisecond)
	defer cancel()

	var text bytes.Buffer
	chunks := 0
	model, err := c.doStream(ctx, c.buildRequest(req, true), func(chunk string) error {
		chunks++
		text.WriteString(chunk)
		if onChunk == nil {
			return nil
		}
		return onChunk(chunk)
	})

	latency := time.Since(start).Milliseconds()
	event := LLMCallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		Streamed:  true,
		Chunks:    chunks,
		LatencyMs: latency,
	}
	if err != nil {
		err = c.classify(ctx, err, false)
		event.ErrorCode = errorCode(err)
		c.observer.OnCallComplete(event)
		return nil, err
	}
	event.Success = true
	c.observer.OnCallComplete(event)

	return &GenerateResponse{Text: text.String(), Model: model, LatencyMs: latency}, nil
}

func (c *ollamaClient) post(ctx context.Context, body ollamaRequest) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.Endpoint + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		defer httpResp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return nil, fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(msg))
	}
	return httpResp, nil
}

func (c *ollamaClient) doRequest(ctx context.Context, body ollamaRequest) (*ollamaResponse, error) {
	httpResp, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return &resp, nil
}

func (c *ollamaClient) doStream(ctx context.Context, body ollamaRequest, emit func(string) error) (string, error) {
	httpResp, err := c.post(ctx, body)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	var model string
	scanner := bufio.NewScanner(httpResp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var frame ollamaResponse
		if err := json.Unmarshal(line, &frame); err != nil {
			return model, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
		if frame.Error != "" {
			return model, fmt.Errorf("ollama stream error: %s", frame.Error)
		}
		model = frame.Model
		if frame.Response != "" {
			if err := emit(frame.Response); err != nil {
				return model, err
			}
		}
		if frame.Done {
			return model, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return model, fmt.Errorf("reading stream: %w", err)
	}
	return model, fmt.Errorf("%w: stream ended before done", ErrInvalidOutput)
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := c.cfg.Endpoint + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// classify maps a raw transport error onto the package sentinels.
// Caller errors from a ChunkFunc come back unchanged.
func (c *ollamaClient) classify(ctx context.Context, err error, retried bool) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case ctx.Err() != nil:
		return ErrTimeout
	case isConnectionError(err):
		return ErrOllamaUnavailable
	case errors.Is(err, ErrInvalidOutput):
		return err
	case retried:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	default:
		return err
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}
