// Package file stores the board document in a single JSON file on local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"

	"github.com/gosuda/taskboard/internal/domain"
)

const filePerm = 0o600

// Slot reads and atomically replaces one file. A crash mid-write leaves the
// previous document in place.
type Slot struct {
	path string
}

// NewSlot creates the parent directory of path if needed.
func NewSlot(path string) (*Slot, error) {
	if path == "" {
		return nil, errors.New("file.NewSlot: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("file.NewSlot: %w", err)
	}
	return &Slot{path: path}, nil
}

func (s *Slot) Path() string {
	return s.path
}

func (s *Slot) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("file.Slot.Read: %w", domain.ErrSlotEmpty)
	}
	if err != nil {
		return nil, fmt.Errorf("file.Slot.Read: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file.Slot.Read: %w", domain.ErrSlotEmpty)
	}
	return data, nil
}

func (s *Slot) Write(_ context.Context, data []byte) error {
	if err := atomicwriter.WriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("file.Slot.Write: %w", err)
	}
	return nil
}
