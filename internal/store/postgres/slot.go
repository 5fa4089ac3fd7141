package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gosuda/taskboard/internal/domain"
)

// DB is the subset of *pgxpool.Pool used by Slot.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Slot keeps the board document in one row of board_slots, keyed by name.
type Slot struct {
	db  DB
	key string
}

func NewSlot(db DB, key string) *Slot {
	return &Slot{db: db, key: key}
}

// EnsureSchema creates the board_slots table if it does not exist.
func (s *Slot) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS board_slots (
		     key        TEXT PRIMARY KEY,
		     document   JSONB NOT NULL,
		     updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		 )`,
	)
	if err != nil {
		return fmt.Errorf("postgres.Slot.EnsureSchema: %w", err)
	}
	return nil
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	var data []byte

	err := s.db.QueryRow(ctx,
		`SELECT document FROM board_slots WHERE key = $1`,
		s.key,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("postgres.Slot.Read: %w", domain.ErrSlotEmpty)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres.Slot.Read: %w", err)
	}

	return data, nil
}

func (s *Slot) Write(ctx context.Context, data []byte) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO board_slots (key, document, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		s.key, string(data),
	)
	if err != nil {
		return fmt.Errorf("postgres.Slot.Write: %w", err)
	}

	return nil
}
