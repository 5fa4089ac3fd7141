package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/domain"
)

// Broker carries published payloads to subscribers. Both the in-process and
// the redis pub/sub stores satisfy it.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// BoardReader exposes the current board. *board.Session satisfies it.
type BoardReader interface {
	Board() *domain.Board
}

// BoardEvent is the message pushed to websocket clients.
type BoardEvent struct {
	Type   string          `json:"type"` // "snapshot", "task_created", "task_moved", "task_deleted"
	TaskID string          `json:"task_id,omitempty"`
	Board  domain.Snapshot `json:"board"`
}

const eventSnapshot = "snapshot"

// Hub publishes board changes to a broker channel and streams that channel to
// websocket clients.
type Hub struct {
	broker  Broker
	channel string
}

// NewHub creates a hub publishing on channel.
func NewHub(broker Broker, channel string) *Hub {
	return &Hub{broker: broker, channel: channel}
}

// PublishBoard implements board.Publisher. Failures are logged; a missed
// event only delays clients until the next one.
func (h *Hub) PublishBoard(ctx context.Context, ev board.Event) {
	payload, err := json.Marshal(BoardEvent{
		Type:   string(ev.Type),
		TaskID: ev.TaskID,
		Board:  ev.Board.Snapshot(),
	})
	if err != nil {
		log.Error().Err(err).Msg("ws.Hub.PublishBoard: marshal")
		return
	}
	if err := h.broker.Publish(ctx, h.channel, payload); err != nil {
		log.Warn().Err(err).Str("channel", h.channel).Msg("ws.Hub.PublishBoard: publish")
	}
}

// ServeBoard returns a handler that sends the current board on connect and
// then every published board event until the client goes away.
func (h *Hub) ServeBoard(current BoardReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket accept")
			return
		}
		defer conn.CloseNow()

		ctx := conn.CloseRead(r.Context())

		messages, cleanup, err := h.broker.Subscribe(ctx, h.channel)
		if err != nil {
			log.Error().Err(err).Msg("websocket subscribe")
			_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
			return
		}
		defer cleanup()

		initial, err := snapshotMessage(current.Board())
		if err != nil {
			log.Error().Err(err).Msg("websocket snapshot")
			_ = conn.Close(websocket.StatusInternalError, "snapshot failed")
			return
		}
		if writeErr := conn.Write(ctx, websocket.MessageText, initial); writeErr != nil {
			log.Debug().Err(writeErr).Msg("websocket write")
			return
		}

		for {
			select {
			case <-ctx.Done():
				_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
				return
			case msg, msgOK := <-messages:
				if !msgOK {
					_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
					return
				}
				if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
					log.Debug().Err(writeErr).Msg("websocket write")
					return
				}
			}
		}
	}
}

func snapshotMessage(b *domain.Board) ([]byte, error) {
	payload, err := json.Marshal(BoardEvent{Type: eventSnapshot, Board: b.Snapshot()})
	if err != nil {
		return nil, fmt.Errorf("ws.snapshotMessage: %w", err)
	}
	return payload, nil
}
