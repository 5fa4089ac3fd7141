// Package memory provides an in-process state slot. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/gosuda/taskboard/internal/domain"
)

type Slot struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

func NewSlot() *Slot {
	return &Slot{}
}

func (s *Slot) Read(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.set {
		return nil, fmt.Errorf("memory.Slot.Read: %w", domain.ErrSlotEmpty)
	}
	return slices.Clone(s.data), nil
}

func (s *Slot) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = slices.Clone(data)
	s.set = true
	return nil
}
