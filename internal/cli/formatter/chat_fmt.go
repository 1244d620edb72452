package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/linimasa/internal/chat"
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders assistant replies and recreates the glamour
// renderer when the wrap width changes.
type MarkdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// Render converts markdown into ANSI-styled text wrapped at width. It falls
// back to the raw input when glamour fails.
func (r *MarkdownRenderer) Render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	wrapWidth := max(width, 24)

	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
			glamour.WithPreservedNewLines(),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

// SpeakerLabel is the colored name shown above a message.
func SpeakerLabel(role chat.Role) string {
	switch role {
	case chat.RoleUser:
		return StyleBlue.Bold(true).Render("You")
	case chat.RoleAssistant:
		return StylePurple.Bold(true).Render("lini")
	default:
		return Dim(role.Speaker())
	}
}

// FormatAttachment renders the file preview line for an attachment.
func FormatAttachment(a *chat.Attachment) string {
	if a == nil {
		return ""
	}
	return Dim("📎 ") + a.Name + Dim(" · "+a.Kind()+" · "+a.SizeLabel())
}

// FormatMessage renders one stored message. Assistant content goes through md
// when it is non-nil.
func FormatMessage(m chat.Message, md *MarkdownRenderer, width int, now time.Time) string {
	var b strings.Builder
	b.WriteString(SpeakerLabel(m.Role) + " " + Dim(HumanTimestamp(m.CreatedAt, now)) + "\n")
	if m.Attachment != nil {
		b.WriteString(FormatAttachment(m.Attachment) + "\n")
	}
	content := m.Content
	if m.Role == chat.RoleAssistant && md != nil {
		content = md.Render(content, width)
	}
	b.WriteString(content)
	return b.String()
}

// noReplyNote marks a user turn whose reply was cancelled or failed.
const noReplyNote = "↳ no reply: cancelled or failed"

// FormatTranscript renders stored messages in order, one block each. A user
// message not followed by an assistant reply gets a note under it.
func FormatTranscript(msgs []chat.Message, md *MarkdownRenderer, width int, now time.Time) []string {
	blocks := make([]string, 0, len(msgs))
	for i, m := range msgs {
		block := FormatMessage(m, md, width, now)
		if m.Role == chat.RoleUser && (i == len(msgs)-1 || msgs[i+1].Role != chat.RoleAssistant) {
			block += "\n" + StyleDim.Italic(true).Render(noReplyNote)
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// FormatRoomList renders rooms as a table, most recent first.
func FormatRoomList(rooms []chat.Room, now time.Time) string {
	if len(rooms) == 0 {
		return Dim("No conversations yet.") + "\n"
	}
	rows := make([][]string, 0, len(rooms))
	for _, r := range rooms {
		rows = append(rows, []string{Dim(r.ID), r.Title, HumanTimestamp(r.UpdatedAt, now)})
	}
	return RenderTable([]string{"ID", "TITLE", "UPDATED"}, rows)
}
