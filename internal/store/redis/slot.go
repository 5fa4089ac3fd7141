package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gosuda/taskboard/internal/domain"
)

// Slot keeps the board document under a single redis key.
type Slot struct {
	client *redis.Client
	key    string
}

func NewSlot(client *redis.Client, key string) *Slot {
	return &Slot{client: client, key: key}
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis.Slot.Read: %w", domain.ErrSlotEmpty)
	}
	if err != nil {
		return nil, fmt.Errorf("redis.Slot.Read: %w", err)
	}
	return data, nil
}

func (s *Slot) Write(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis.Slot.Write: %w", err)
	}
	return nil
}
