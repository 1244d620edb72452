// Package chat stores assistant conversations and streams replies from the
// language model into them.
package chat

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
)

// Role identifies who wrote a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Speaker is the capitalized name used inside prompts.
func (r Role) Speaker() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// DefaultRoomTitle names rooms created without a title.
const DefaultRoomTitle = "New chat"

type Room struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Attachment is metadata for a file shared alongside a message. Only the
// preview details are kept; file bodies are never stored.
type Attachment struct {
	Name      string
	MediaType string
	Size      int64
}

// IsImage reports whether the attachment previews as an image.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.MediaType, "image/")
}

// Kind is the short badge shown for non-image files, e.g. "PDF".
func (a Attachment) Kind() string {
	ext := strings.TrimPrefix(filepath.Ext(a.Name), ".")
	if ext == "" {
		return "FILE"
	}
	return strings.ToUpper(ext)
}

// SizeLabel renders the size in kilobytes with one decimal.
func (a Attachment) SizeLabel() string {
	return fmt.Sprintf("%.1f KB", float64(a.Size)/1024)
}

type Message struct {
	ID         string
	RoomID     string
	Role       Role
	Content    string
	Attachment *Attachment
	CreatedAt  time.Time
}

// Validate checks a message before it is stored.
func (m Message) Validate() error {
	if m.RoomID == "" {
		return &domain.ValidationError{Field: "roomId", Reason: "is required"}
	}
	if !m.Role.Valid() {
		return &domain.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown value %q", m.Role)}
	}
	if strings.TrimSpace(m.Content) == "" && m.Attachment == nil {
		return &domain.ValidationError{Field: "content", Reason: "must not be blank"}
	}
	if m.Attachment != nil && strings.TrimSpace(m.Attachment.Name) == "" {
		return &domain.ValidationError{Field: "attachment.name", Reason: "is required"}
	}
	return nil
}
