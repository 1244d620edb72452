package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/llm"
	"github.com/alexanderramin/linimasa/internal/registry"
	"github.com/alexanderramin/linimasa/internal/testutil"
	"github.com/alexanderramin/linimasa/internal/timeline"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	chunks []string
	err    error
	prompt string
}

func (f *fakeLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.prompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: strings.Join(f.chunks, "")}, nil
}

func (f *fakeLLM) GenerateStream(_ context.Context, req llm.GenerateRequest, onChunk llm.ChunkFunc) (*llm.GenerateResponse, error) {
	f.prompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.chunks {
		if onChunk != nil {
			if err := onChunk(c); err != nil {
				return nil, err
			}
		}
	}
	return &llm.GenerateResponse{Text: strings.Join(f.chunks, "")}, nil
}

func (f *fakeLLM) Available(context.Context) bool { return f.err == nil }

func newTestService(t *testing.T, client llm.LLMClient, opts ...ServiceOption) (*Service, Room) {
	t.Helper()
	store := NewMemoryStore().WithClock(tickingClock())
	room, err := store.CreateRoom(context.Background(), "test")
	require.NoError(t, err)
	opts = append(opts, WithServiceLogger(log.New(io.Discard)))
	return NewService(store, client, opts...), room
}

func TestSend_StreamsAndStoresBothTurns(t *testing.T) {
	client := &fakeLLM{chunks: []string{"Halo! ", "Two tasks ", "are due."}}
	svc, room := newTestService(t, client)

	var streamed []string
	reply, err := svc.Send(context.Background(), room.ID, "  what is due?  ", func(c string) error {
		streamed = append(streamed, c)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Halo! ", "Two tasks ", "are due."}, streamed)
	assert.Equal(t, RoleAssistant, reply.Role)
	assert.Equal(t, "Halo! Two tasks are due.", reply.Content)

	msgs, err := svc.Store().Messages(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "what is due?", msgs[0].Content)
	assert.Equal(t, reply.ID, msgs[1].ID)

	assert.True(t, strings.HasPrefix(client.prompt, "System: "+DefaultSystemPrompt+"\n"))
	assert.True(t, strings.HasSuffix(client.prompt, "User: what is due?\nAssistant: "))
}

func TestSend_HistoryFlowsIntoNextPrompt(t *testing.T) {
	client := &fakeLLM{chunks: []string{"first answer"}}
	svc, room := newTestService(t, client, WithSystemPrompt("Kamu adalah asisten bernama lini."))
	ctx := context.Background()

	_, err := svc.Send(ctx, room.ID, "one", nil)
	require.NoError(t, err)
	client.chunks = []string{"second answer"}
	_, err = svc.Send(ctx, room.ID, "two", nil)
	require.NoError(t, err)

	want := "System: Kamu adalah asisten bernama lini.\n" +
		"User: one\n" +
		"Assistant: first answer\n" +
		"User: two\n" +
		"Assistant: "
	assert.Equal(t, want, client.prompt)
}

func TestSend_GenerationFailureKeepsUserMessage(t *testing.T) {
	svc, room := newTestService(t, &fakeLLM{err: llm.ErrOllamaUnavailable})

	_, err := svc.Send(context.Background(), room.ID, "hello?", nil)
	assert.ErrorIs(t, err, llm.ErrOllamaUnavailable)

	msgs, _ := svc.Store().Messages(context.Background(), room.ID)
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleUser, msgs[0].Role)
}

func TestSend_EmptyReplyIsInvalidOutput(t *testing.T) {
	svc, room := newTestService(t, &fakeLLM{chunks: []string{"  "}})

	_, err := svc.Send(context.Background(), room.ID, "hello?", nil)
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func TestSend_StreamAbortedByCaller(t *testing.T) {
	svc, room := newTestService(t, &fakeLLM{chunks: []string{"a", "b"}})
	gone := errors.New("gone")

	_, err := svc.Send(context.Background(), room.ID, "hi", func(string) error { return gone })
	assert.ErrorIs(t, err, gone)

	msgs, _ := svc.Store().Messages(context.Background(), room.ID)
	assert.Len(t, msgs, 1, "partial replies are not stored")
}

func TestSend_RejectsBlankAndUnknownRoom(t *testing.T) {
	client := &fakeLLM{chunks: []string{"x"}}
	svc, room := newTestService(t, client)

	_, err := svc.Send(context.Background(), room.ID, "   ", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Send(context.Background(), "missing", "hi", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, client.prompt, "model is not called")
}

func TestSendDraft_AttachmentOnly(t *testing.T) {
	client := &fakeLLM{chunks: []string{"Nice mockup."}}
	svc, room := newTestService(t, client)

	_, err := svc.SendDraft(context.Background(), room.ID, Draft{
		Attachment: &Attachment{Name: "mock.png", MediaType: "image/png", Size: 1024},
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, client.prompt, "User: [attached mock.png (PNG, 1.0 KB)]\n")
}

func TestSystemMessage_IncludesDigest(t *testing.T) {
	reg := registry.New()
	for _, task := range testutil.GanttTasks() {
		_, err := reg.Add(task)
		require.NoError(t, err)
	}
	board := dashboard.NewBoard(reg, timeline.NewViewState(testutil.Date(2024, 1, 1), domain.GranularityDay),
		dashboard.WithClock(testutil.FixedClock(testutil.Date(2024, 1, 15))),
		dashboard.WithLogger(log.New(io.Discard)))

	svc, room := newTestService(t, &fakeLLM{}, WithDigest(func() string {
		return DashboardDigest(board.Snapshot())
	}))

	msg := svc.SystemMessage(room.ID)
	assert.Equal(t, RoleSystem, msg.Role)
	assert.True(t, strings.HasPrefix(msg.Content, DefaultSystemPrompt+"\n\nBoard summary for 2024-01-15: 5 tasks"))
	assert.Contains(t, msg.Content, "- Project Planning (Completed, high priority, 100%): 8 days overdue")
}
