package cli

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/linimasa/internal/chat"
	"github.com/alexanderramin/linimasa/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// chatRoomTitle names the room the TUI opens when none exists yet.
const chatRoomTitle = "Dashboard chat"

// Streaming messages. Chunks arrive on the stream channel in order and the
// channel closes after the done message.
type (
	chatChunkMsg struct{ text string }
	chatDoneMsg  struct {
		reply chat.Message
		err   error
	}
)

// chatView talks to the assistant in the most recent room. Replies stream
// into the viewport as they arrive.
type chatView struct {
	state *SharedState
	input textinput.Model
	vp    viewport.Model
	md    formatter.MarkdownRenderer

	room     chat.Room
	messages []chat.Message
	pending  string // user text shown while the turn is in flight
	partial  strings.Builder
	err      error

	stream <-chan tea.Msg
	cancel context.CancelFunc
}

func newChatView(state *SharedState) *chatView {
	ti := textinput.New()
	ti.Placeholder = "Ask lini about the board…"
	ti.Prompt = formatter.StylePurple.Render("› ")
	ti.CharLimit = 2000
	ti.Focus()

	v := &chatView{
		state: state,
		input: ti,
		vp:    viewport.New(max(state.Width, 20), max(state.ContentHeight()-2, 3)),
	}
	v.loadLatestRoom()
	v.refreshViewport()
	return v
}

func (v *chatView) service() *chat.Service {
	return v.state.Runtime.Chat
}

func (v *chatView) loadLatestRoom() {
	ctx := v.state.context()
	rooms, err := v.service().Store().ListRooms(ctx)
	if err != nil || len(rooms) == 0 {
		v.err = err
		return
	}
	v.room = rooms[0]
	v.messages, v.err = v.service().Store().Messages(ctx, v.room.ID)
}

func (v *chatView) streaming() bool {
	return v.stream != nil
}

// ── tea.Model interface ──────────────────────────────────────────────────────

func (v *chatView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *chatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = max(v.state.ContentHeight()-2, 3)
		v.input.Width = max(msg.Width-4, 10)
		v.refreshViewport()
		return v, nil

	case chatChunkMsg:
		v.partial.WriteString(msg.text)
		v.refreshViewport()
		return v, waitForStream(v.stream)

	case chatDoneMsg:
		v.finishTurn(msg)
		return v, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			if v.cancel != nil {
				v.cancel()
			}
			return v, popView()
		case tea.KeyEnter:
			if v.streaming() {
				return v, nil
			}
			text := strings.TrimSpace(v.input.Value())
			v.input.Reset()
			if text == "" {
				return v, nil
			}
			return v, v.send(text)
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			v.vp, cmd = v.vp.Update(msg)
			return v, cmd
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// send starts one turn in the background and returns the command that
// delivers its first event.
func (v *chatView) send(text string) tea.Cmd {
	ctx, cancel := context.WithCancel(v.state.context())
	if v.room.ID == "" {
		room, err := v.service().Store().CreateRoom(ctx, chatRoomTitle)
		if err != nil {
			cancel()
			v.err = err
			v.refreshViewport()
			return nil
		}
		v.room = room
	}

	v.err = nil
	v.pending = text
	v.partial.Reset()
	v.cancel = cancel

	ch := make(chan tea.Msg, 64)
	v.stream = ch
	svc, roomID := v.service(), v.room.ID
	go func() {
		defer close(ch)
		reply, err := svc.Send(ctx, roomID, text, func(chunk string) error {
			select {
			case ch <- chatChunkMsg{text: chunk}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		select {
		case ch <- chatDoneMsg{reply: reply, err: err}:
		case <-ctx.Done():
		}
	}()

	v.refreshViewport()
	return waitForStream(ch)
}

func waitForStream(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (v *chatView) finishTurn(msg chatDoneMsg) {
	if v.cancel != nil {
		v.cancel()
	}
	v.stream = nil
	v.cancel = nil
	v.pending = ""
	v.partial.Reset()
	v.err = msg.err

	// Reload so the stored user message shows even when the reply failed.
	if msgs, err := v.service().Store().Messages(v.state.context(), v.room.ID); err == nil {
		v.messages = msgs
	}
	v.refreshViewport()
}

func (v *chatView) refreshViewport() {
	v.vp.SetContent(v.renderTranscript())
	v.vp.GotoBottom()
}

func (v *chatView) renderTranscript() string {
	width := max(v.vp.Width-2, 24)
	now := time.Now()

	var parts []string
	if len(v.messages) == 0 && v.pending == "" {
		parts = append(parts, formatter.Dim("Ask about deadlines, progress or what to work on next."))
	}
	parts = append(parts, formatter.FormatTranscript(v.messages, &v.md, width, now)...)
	if v.pending != "" {
		parts = append(parts, formatter.SpeakerLabel(chat.RoleUser)+"\n"+v.pending)
		reply := v.partial.String()
		if reply == "" {
			reply = formatter.Dim("thinking…")
		}
		parts = append(parts, formatter.SpeakerLabel(chat.RoleAssistant)+"\n"+reply)
	}
	if v.err != nil {
		parts = append(parts, formatter.StyleRed.Render("✖ "+v.err.Error()))
	}
	return strings.Join(parts, "\n\n")
}

func (v *chatView) View() string {
	return v.vp.View() + "\n\n" + v.input.View()
}

// ── View interface ───────────────────────────────────────────────────────────

func (v *chatView) ID() ViewID { return ViewChat }
func (v *chatView) Title() string {
	if v.room.Title != "" {
		return v.room.Title
	}
	return "Chat"
}
func (v *chatView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}
