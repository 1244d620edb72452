package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/linimasa/internal/llm"
	"github.com/charmbracelet/log"
)

// Draft is a message the user is about to send.
type Draft struct {
	Text       string
	Attachment *Attachment
}

// Service runs a conversation turn: store the user message, ask the model,
// stream the reply and store it.
type Service struct {
	store        Store
	client       llm.LLMClient
	logger       *log.Logger
	systemPrompt string
	digest       func() string
}

type ServiceOption func(*Service)

// WithSystemPrompt replaces DefaultSystemPrompt. Blank keeps the default.
func WithSystemPrompt(prompt string) ServiceOption {
	return func(s *Service) {
		if strings.TrimSpace(prompt) != "" {
			s.systemPrompt = prompt
		}
	}
}

// WithDigest appends the output of fn to the system prompt on every turn.
func WithDigest(fn func() string) ServiceOption {
	return func(s *Service) { s.digest = fn }
}

func WithServiceLogger(l *log.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

func NewService(store Store, client llm.LLMClient, opts ...ServiceOption) *Service {
	s := &Service{
		store:        store,
		client:       client,
		systemPrompt: DefaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Store exposes the underlying conversation store.
func (s *Service) Store() Store {
	return s.store
}

// SystemMessage builds the system turn for the next prompt.
func (s *Service) SystemMessage(roomID string) Message {
	content := s.systemPrompt
	if s.digest != nil {
		if d := strings.TrimSpace(s.digest()); d != "" {
			content += "\n\n" + d
		}
	}
	return Message{RoomID: roomID, Role: RoleSystem, Content: content}
}

// Send posts text to the room and streams the reply through onChunk.
func (s *Service) Send(ctx context.Context, roomID, text string, onChunk llm.ChunkFunc) (Message, error) {
	return s.SendDraft(ctx, roomID, Draft{Text: text}, onChunk)
}

// SendDraft is Send with an optional attachment. The user message is kept
// even when generation fails; the assistant reply is stored only once the
// stream completes.
func (s *Service) SendDraft(ctx context.Context, roomID string, draft Draft, onChunk llm.ChunkFunc) (Message, error) {
	userMsg, err := s.store.Append(ctx, Message{
		RoomID:     roomID,
		Role:       RoleUser,
		Content:    strings.TrimSpace(draft.Text),
		Attachment: draft.Attachment,
	})
	if err != nil {
		return Message{}, err
	}

	history, err := s.store.Messages(ctx, roomID)
	if err != nil {
		return Message{}, err
	}
	prompt := BuildPrompt(append([]Message{s.SystemMessage(roomID)}, history...))

	resp, err := s.client.GenerateStream(ctx, llm.GenerateRequest{Task: llm.TaskChat, Prompt: prompt}, onChunk)
	if err != nil {
		s.logger.Warn("assistant reply failed", "room", roomID, "message", userMsg.ID, "err", err)
		return Message{}, fmt.Errorf("generating reply: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return Message{}, fmt.Errorf("generating reply: %w: empty response", llm.ErrInvalidOutput)
	}
	reply, err := s.store.Append(ctx, Message{RoomID: roomID, Role: RoleAssistant, Content: text})
	if err != nil {
		return Message{}, fmt.Errorf("storing reply: %w", err)
	}
	s.logger.Debug("assistant replied", "room", roomID, "chars", len(reply.Content), "latency_ms", resp.LatencyMs)
	return reply, nil
}
