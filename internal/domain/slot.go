package domain

import "context"

// StateSlot is a single named durable location holding one serialized board
// document. Read returns ErrSlotEmpty when nothing has been written yet.
type StateSlot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}
