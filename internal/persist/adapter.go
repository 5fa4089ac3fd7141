// Package persist moves board snapshots in and out of a durable state slot.
//
// Persistence is best-effort: Load treats every failure as a cold start and
// Save only logs. The in-memory board stays authoritative either way.
package persist

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskboard/internal/domain"
)

// Adapter reads and writes boards through a domain.StateSlot.
type Adapter struct {
	slot   domain.StateSlot
	logger zerolog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger overrides the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// New creates an Adapter over slot.
func New(slot domain.StateSlot, opts ...Option) *Adapter {
	a := &Adapter{
		slot:   slot,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With().Str("component", "persist").Logger()
	return a
}

// Load returns the stored board, or false when the slot is empty, unreadable
// or holds a document that does not decode to a consistent board.
func (a *Adapter) Load(ctx context.Context) (*domain.Board, bool) {
	data, err := a.slot.Read(ctx)
	if errors.Is(err, domain.ErrSlotEmpty) {
		a.logger.Debug().Msg("no stored board, starting fresh")
		return nil, false
	}
	if err != nil {
		a.logger.Warn().Err(err).Msg("read stored board")
		return nil, false
	}

	b, err := Decode(data)
	if err != nil {
		a.logger.Warn().Err(err).Int("bytes", len(data)).Msg("discarding unreadable stored board")
		return nil, false
	}

	a.logger.Debug().Int("tasks", b.Len()).Msg("loaded stored board")
	return b, true
}

// Save overwrites the slot with b. Failures are logged, never returned.
func (a *Adapter) Save(ctx context.Context, b *domain.Board) {
	data, err := Encode(b)
	if err != nil {
		a.logger.Error().Err(err).Msg("encode board")
		return
	}
	if err := a.slot.Write(ctx, data); err != nil {
		a.logger.Error().Err(err).Int("bytes", len(data)).Msg("save board")
		return
	}
}
