package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/linimasa/internal/db"
	"github.com/google/uuid"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps conversations in the rooms and messages tables.
type SQLiteStore struct {
	db  *sql.DB
	uow db.UnitOfWork
	now func() time.Time
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithUnitOfWork replaces the transaction runner used by Append.
func WithUnitOfWork(uow db.UnitOfWork) SQLiteOption {
	return func(s *SQLiteStore) { s.uow = uow }
}

func WithStoreClock(now func() time.Time) SQLiteOption {
	return func(s *SQLiteStore) { s.now = now }
}

// NewSQLiteStore wraps an already migrated database, see db.OpenDB.
func NewSQLiteStore(database *sql.DB, opts ...SQLiteOption) *SQLiteStore {
	s := &SQLiteStore{db: database, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.uow == nil {
		s.uow = db.NewSQLiteUnitOfWork(database)
	}
	return s
}

func (s *SQLiteStore) CreateRoom(ctx context.Context, title string) (Room, error) {
	now := s.now().UTC()
	room := Room{ID: uuid.New().String(), Title: roomTitle(title), CreatedAt: now, UpdatedAt: now}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rooms (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		room.ID, room.Title, now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return Room{}, fmt.Errorf("inserting room: %w", err)
	}
	return room, nil
}

func (s *SQLiteStore) GetRoom(ctx context.Context, id string) (Room, error) {
	return getRoom(ctx, s.db, id)
}

func getRoom(ctx context.Context, q db.DBTX, id string) (Room, error) {
	row := q.QueryRowContext(ctx, `SELECT id, title, created_at, updated_at FROM rooms WHERE id = ?`, id)
	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Room{}, roomNotFound(id)
	}
	if err != nil {
		return Room{}, fmt.Errorf("loading room: %w", err)
	}
	return room, nil
}

func (s *SQLiteStore) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, created_at, updated_at FROM rooms ORDER BY updated_at DESC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (s *SQLiteStore) Append(ctx context.Context, msg Message) (Message, error) {
	if err := msg.Validate(); err != nil {
		return Message{}, err
	}
	msg = stamp(msg, s.now)

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := getRoom(ctx, tx, msg.RoomID); err != nil {
			return err
		}

		var name, mediaType sql.NullString
		var size sql.NullInt64
		if a := msg.Attachment; a != nil {
			name = sql.NullString{String: a.Name, Valid: true}
			mediaType = sql.NullString{String: a.MediaType, Valid: true}
			size = sql.NullInt64{Int64: a.Size, Valid: true}
		}
		created := msg.CreatedAt.UTC().Format(timeLayout)

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (id, room_id, role, content, attachment_name, attachment_type, attachment_size, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			msg.ID, msg.RoomID, string(msg.Role), msg.Content, name, mediaType, size, created); err != nil {
			return fmt.Errorf("inserting message: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE rooms SET updated_at = ? WHERE id = ?`, created, msg.RoomID); err != nil {
			return fmt.Errorf("touching room: %w", err)
		}
		return nil
	})
	if err != nil {
		return Message{}, err
	}
	return msg, nil
}

func (s *SQLiteStore) Messages(ctx context.Context, roomID string) ([]Message, error) {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room_id, role, content, attachment_name, attachment_type, attachment_size, created_at
		 FROM messages WHERE room_id = ? ORDER BY seq ASC`, roomID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var (
			m                Message
			role, created    string
			attName, attType sql.NullString
			attSize          sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.RoomID, &role, &m.Content, &attName, &attType, &attSize, &created); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Role = Role(role)
		if m.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parsing message time: %w", err)
		}
		if attName.Valid {
			m.Attachment = &Attachment{Name: attName.String, MediaType: attType.String, Size: attSize.Int64}
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (Room, error) {
	var r Room
	var created, updated string
	if err := row.Scan(&r.ID, &r.Title, &created, &updated); err != nil {
		return Room{}, err
	}
	var err error
	if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Room{}, err
	}
	if r.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return Room{}, err
	}
	return r, nil
}
