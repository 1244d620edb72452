package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/google/uuid"
)

// ErrRoomNotFound matches domain.ErrNotFound under errors.Is.
var ErrRoomNotFound = fmt.Errorf("room %w", domain.ErrNotFound)

func roomNotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrRoomNotFound, id)
}

// Store persists rooms and their messages.
type Store interface {
	CreateRoom(ctx context.Context, title string) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	// ListRooms returns rooms most recently active first.
	ListRooms(ctx context.Context) ([]Room, error)
	// Append stores msg, filling in ID and CreatedAt when empty, and marks
	// the room as active.
	Append(ctx context.Context, msg Message) (Message, error)
	// Messages returns the room history oldest first.
	Messages(ctx context.Context, roomID string) ([]Message, error)
}

func roomTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return DefaultRoomTitle
}

// MemoryStore keeps conversations in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	rooms    []Room
	messages map[string][]Message
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages: make(map[string][]Message),
		now:      time.Now,
	}
}

// WithClock replaces the timestamp source. Intended for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) CreateRoom(_ context.Context, title string) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	room := Room{ID: uuid.New().String(), Title: roomTitle(title), CreatedAt: now, UpdatedAt: now}
	s.rooms = append(s.rooms, room)
	s.messages[room.ID] = nil
	return room, nil
}

func (s *MemoryStore) roomIndex(id string) int {
	return slices.IndexFunc(s.rooms, func(r Room) bool { return r.ID == id })
}

func (s *MemoryStore) GetRoom(_ context.Context, id string) (Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.roomIndex(id)
	if i < 0 {
		return Room{}, roomNotFound(id)
	}
	return s.rooms[i], nil
}

func (s *MemoryStore) ListRooms(_ context.Context) ([]Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.rooms)
	slices.SortStableFunc(out, func(a, b Room) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, msg Message) (Message, error) {
	if err := msg.Validate(); err != nil {
		return Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.roomIndex(msg.RoomID)
	if i < 0 {
		return Message{}, roomNotFound(msg.RoomID)
	}
	msg = stamp(msg, s.now)
	s.messages[msg.RoomID] = append(s.messages[msg.RoomID], msg)
	s.rooms[i].UpdatedAt = msg.CreatedAt
	return msg, nil
}

func (s *MemoryStore) Messages(_ context.Context, roomID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.messages[roomID]
	if !ok {
		return nil, roomNotFound(roomID)
	}
	return slices.Clone(msgs), nil
}

func stamp(msg Message, now func() time.Time) Message {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now().UTC()
	}
	if msg.Attachment != nil {
		att := *msg.Attachment
		msg.Attachment = &att
	}
	return msg
}

// IsRoomNotFound reports whether err came from a missing room.
func IsRoomNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound)
}
