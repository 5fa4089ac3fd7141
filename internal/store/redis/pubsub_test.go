package redis_test

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/taskboard/internal/domain"
	redisstore "github.com/gosuda/taskboard/internal/store/redis"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "start miniredis")
	t.Cleanup(mr.Close)

	client, err := redisstore.Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = redisstore.Connect(ctx, addr, "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.Connect: ping")
}

func TestSlot(t *testing.T) {
	t.Parallel()

	mr, client := newClient(t)
	ctx := context.Background()
	s := redisstore.NewSlot(client, "kanban-state")

	_, err := s.Read(ctx)
	require.ErrorIs(t, err, domain.ErrSlotEmpty)

	require.NoError(t, s.Write(ctx, []byte(`{"tasks":[]}`)))

	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"tasks":[]}`, string(got))

	stored, err := mr.Get("kanban-state")
	require.NoError(t, err)
	assert.Equal(t, `{"tasks":[]}`, stored)
	assert.Zero(t, mr.TTL("kanban-state"), "slot must not expire")
}

func TestSlot_ServerGone(t *testing.T) {
	t.Parallel()

	mr, client := newClient(t)
	s := redisstore.NewSlot(client, "kanban-state")
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := s.Read(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSlotEmpty)

	assert.Error(t, s.Write(ctx, []byte("x")))
}

func TestPubSub_PublishSubscribe(t *testing.T) {
	t.Parallel()

	_, client := newClient(t)
	ps := redisstore.NewPubSub(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	channel := redisstore.BoardChannel("kanban-state")
	msgs, cleanup, err := ps.Subscribe(ctx, channel)
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, ps.Publish(ctx, channel, []byte(`{"type":"task_created"}`)))

	select {
	case msg := <-msgs:
		assert.JSONEq(t, `{"type":"task_created"}`, string(msg))
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestPubSub_SubscriptionEndsWithContext(t *testing.T) {
	t.Parallel()

	_, client := newClient(t)
	ps := redisstore.NewPubSub(client)

	ctx, cancel := context.WithCancel(context.Background())
	msgs, cleanup, err := ps.Subscribe(ctx, redisstore.BoardChannel("k"))
	require.NoError(t, err)
	defer cleanup()

	cancel()

	select {
	case _, ok := <-msgs:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("subscription did not stop")
	}
}

func TestBoardChannel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "board:kanban-state", redisstore.BoardChannel("kanban-state"))
	assert.True(t, strings.HasPrefix(redisstore.BoardChannel("x"), "board:"))
	assert.NotEqual(t, redisstore.BoardChannel("a"), redisstore.BoardChannel("b"))
}
