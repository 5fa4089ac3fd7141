package memory

import (
	"context"
	"slices"
	"sync"
)

// PubSub is an in-process broker with the same shape as the redis one.
// Slow subscribers drop messages instead of blocking publishers.
type PubSub struct {
	mu   sync.Mutex
	subs map[string]map[chan []byte]struct{}
}

func NewPubSub() *PubSub {
	return &PubSub{subs: make(map[string]map[chan []byte]struct{})}
}

func (ps *PubSub) Publish(_ context.Context, channel string, payload []byte) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for ch := range ps.subs[channel] {
		select {
		case ch <- slices.Clone(payload):
		default:
		}
	}
	return nil
}

func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 64)

	ps.mu.Lock()
	if ps.subs[channel] == nil {
		ps.subs[channel] = make(map[chan []byte]struct{})
	}
	ps.subs[channel][ch] = struct{}{}
	ps.mu.Unlock()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			ps.mu.Lock()
			defer ps.mu.Unlock()

			delete(ps.subs[channel], ch)
			if len(ps.subs[channel]) == 0 {
				delete(ps.subs, channel)
			}
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		cleanup()
	}()

	return ch, cleanup, nil
}
