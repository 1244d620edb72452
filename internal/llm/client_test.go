package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

func shortTimeout(cfg LLMConfig, ms int) LLMConfig {
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskChat: {Temperature: 0.6, MaxTokens: 256, TimeoutMs: ms},
	}
	return cfg
}

func streamHandler(t *testing.T, chunks ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		enc := json.NewEncoder(w)
		for _, c := range chunks {
			_ = enc.Encode(ollamaResponse{Model: req.Model, Response: c})
			w.(http.Flusher).Flush()
		}
		_ = enc.Encode(ollamaResponse{Model: req.Model, Done: true})
	}
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "system prompt", req.System)
		assert.Equal(t, "User: hi\nAssistant: ", req.Prompt)
		assert.Equal(t, 0.6, req.Options.Temperature)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaResponse{Model: DefaultModel, Response: "hello there", Done: true})
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskChat,
		SystemPrompt: "system prompt",
		Prompt:       "User: hi\nAssistant: ",
	})

	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Text)
	assert.Equal(t, DefaultModel, resp.Model)
	assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
}

func TestOllamaClient_Generate_RequestOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 0.9, req.Options.Temperature)
		assert.Equal(t, 42, req.Options.NumPredict)
		json.NewEncoder(w).Encode(ollamaResponse{Response: "ok"})
	}))
	defer srv.Close()

	temp, tokens := 0.9, 42
	_, err := NewOllamaClient(testConfig(srv.URL), nil).Generate(context.Background(), GenerateRequest{
		Task:        TaskSummary,
		Prompt:      "x",
		Temperature: &temp,
		MaxTokens:   &tokens,
	})
	require.NoError(t, err)
}

func TestOllamaClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewOllamaClient(shortTimeout(testConfig(srv.URL), 50), NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskChat, Prompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	cfg := shortTimeout(testConfig("http://127.0.0.1:1"), 1000) // nothing listening
	cfg.MaxRetries = 0

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskChat, Prompt: "test"})

	assert.ErrorIs(t, err, ErrOllamaUnavailable)
}

func TestOllamaClient_Generate_RetryOnTransientError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("internal error"))
			return
		}
		json.NewEncoder(w).Encode(ollamaResponse{Model: DefaultModel, Response: "ok"})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	resp, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskChat, Prompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestOllamaClient_Generate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad request"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0

	_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskChat, Prompt: "test"})

	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.ErrorContains(t, err, "status 400")
}

func TestOllamaClient_Generate_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0

	_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskChat, Prompt: "test"})
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestOllamaClient_GenerateStream_DeliversChunksInOrder(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, "Hel", "lo ", "world"))
	defer srv.Close()

	var got []string
	resp, err := NewOllamaClient(testConfig(srv.URL), NoopObserver{}).GenerateStream(context.Background(),
		GenerateRequest{Task: TaskChat, Prompt: "hi"},
		func(chunk string) error {
			got = append(got, chunk)
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo ", "world"}, got)
	assert.Equal(t, "Hello world", resp.Text)
	assert.Equal(t, DefaultModel, resp.Model)
}

func TestOllamaClient_GenerateStream_CallbackErrorStopsStream(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, "a", "b", "c"))
	defer srv.Close()

	stop := errors.New("client went away")
	calls := 0
	_, err := NewOllamaClient(testConfig(srv.URL), NoopObserver{}).GenerateStream(context.Background(),
		GenerateRequest{Task: TaskChat, Prompt: "hi"},
		func(string) error {
			calls++
			return stop
		})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestOllamaClient_GenerateStream_TruncatedStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"model":"m","response":"partial","done":false}`)
	}))
	defer srv.Close()

	_, err := NewOllamaClient(testConfig(srv.URL), NoopObserver{}).GenerateStream(context.Background(),
		GenerateRequest{Task: TaskChat, Prompt: "hi"}, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestOllamaClient_GenerateStream_ErrorFrame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error":"model not found"}`)
	}))
	defer srv.Close()

	_, err := NewOllamaClient(testConfig(srv.URL), NoopObserver{}).GenerateStream(context.Background(),
		GenerateRequest{Task: TaskChat, Prompt: "hi"}, nil)
	assert.ErrorContains(t, err, "model not found")
}

func TestOllamaClient_Available_True(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewOllamaClient(testConfig(srv.URL), NoopObserver{}).Available(context.Background()))
}

func TestOllamaClient_Available_False(t *testing.T) {
	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1"), NoopObserver{}).Available(context.Background()))
}

func TestNewClient_DisabledRefusesEverything(t *testing.T) {
	client := NewClient(DefaultConfig(), nil)

	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskChat})
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = client.GenerateStream(context.Background(), GenerateRequest{Task: TaskChat}, nil)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.False(t, client.Available(context.Background()))
}

func TestOllamaClient_ObserverCalled(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, "x", "y"))
	defer srv.Close()

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}

	_, err := NewOllamaClient(testConfig(srv.URL), obs).GenerateStream(context.Background(),
		GenerateRequest{Task: TaskChat, Prompt: "test"}, nil)

	require.NoError(t, err)
	assert.Equal(t, TaskChat, captured.Task)
	assert.True(t, captured.Streamed)
	assert.Equal(t, 2, captured.Chunks)
	assert.True(t, captured.Success)
}

func TestOllamaClient_ObserverTimeoutErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := shortTimeout(testConfig(srv.URL), 50)
	cfg.MaxRetries = 0

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}

	_, err := NewOllamaClient(cfg, obs).Generate(context.Background(), GenerateRequest{Task: TaskChat, Prompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, captured.Success)
	assert.Equal(t, "TIMEOUT", captured.ErrorCode)
}

func TestLogObserver_WritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(log.New(&buf))

	obs.OnCallComplete(LLMCallEvent{Task: TaskChat, Model: "m", LatencyMs: 12, Success: true})
	obs.OnCallComplete(LLMCallEvent{Task: TaskChat, Model: "m", ErrorCode: "TIMEOUT"})

	out := buf.String()
	assert.Contains(t, out, "llm call")
	assert.Contains(t, out, "latency_ms=12")
	assert.Contains(t, out, "code=TIMEOUT")
}

func TestTaskTimeout_FallsBackToGlobal(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 120000, cfg.TaskTimeout(TaskChat))
	assert.Equal(t, cfg.TimeoutMs, cfg.TaskTimeout(TaskType("other")))
}

type captureObserver struct {
	fn func(LLMCallEvent)
}

func (o *captureObserver) OnCallComplete(e LLMCallEvent) { o.fn(e) }
