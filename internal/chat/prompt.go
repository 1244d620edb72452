package chat

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/alexanderramin/linimasa/internal/domain"
)

// DefaultSystemPrompt introduces the assistant to the model.
const DefaultSystemPrompt = "You are lini, the project assistant of a team planning board. " +
	"Be friendly and helpful, keep answers concise, and ground advice about " +
	"deadlines and progress in the board summary when one is given."

// assistantCue ends every prompt so the model continues as the assistant.
const assistantCue = "Assistant: "

// BuildPrompt flattens a conversation into the completion prompt the model
// expects: one "Speaker: content" line per message followed by the
// assistant cue.
func BuildPrompt(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(m.Role.Speaker())
		b.WriteString(": ")
		b.WriteString(messageText(m))
		b.WriteByte('\n')
	}
	b.WriteString(assistantCue)
	return b.String()
}

func messageText(m Message) string {
	if m.Attachment == nil {
		return m.Content
	}
	note := fmt.Sprintf("[attached %s (%s, %s)]", m.Attachment.Name, m.Attachment.Kind(), m.Attachment.SizeLabel())
	if strings.TrimSpace(m.Content) == "" {
		return note
	}
	return m.Content + " " + note
}

// maxDigestDeadlines caps how many deadlines the digest lists.
const maxDigestDeadlines = 5

// DashboardDigest summarizes a board snapshot in a few plain lines for the
// system prompt.
func DashboardDigest(snap dashboard.Snapshot) string {
	var b strings.Builder
	s := snap.Stats
	fmt.Fprintf(&b, "Board summary for %s: %d tasks, %d overdue, %d due soon, average progress %.0f%%.",
		snap.Now.Format(domain.DateLayout), s.Total, s.Overdue, s.DueSoon, s.AverageProgress)

	var parts []string
	for _, st := range domain.Statuses {
		if n := s.ByStatus[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", st.Label(), n))
		}
	}
	if len(parts) > 0 {
		b.WriteString(" Status: " + strings.Join(parts, ", ") + ".")
	}

	for i, d := range snap.Deadlines {
		if i == maxDigestDeadlines {
			break
		}
		fmt.Fprintf(&b, "\n- %s (%s, %s priority, %d%%): %s",
			d.Task.Name, d.Task.Status.Label(), strings.ToLower(d.Task.Priority.Label()), d.Task.Progress, d.Label)
	}
	return b.String()
}
