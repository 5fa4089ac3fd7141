package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/taskboard/internal/api/ws"
	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/config"
	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/server"
	"github.com/gosuda/taskboard/internal/store/memory"
)

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Backend: config.StorageMemory, Key: "test"},
		Server: config.ServerConfig{
			Addr:           "127.0.0.1:0",
			ReadTimeout:    time.Second,
			WriteTimeout:   time.Second,
			CORSOrigins:    []string{"http://localhost:5173"},
			RateLimitRPS:   100,
			RateLimitBurst: 100,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, *board.Session) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := ws.NewHub(memory.NewPubSub(), "board:test")
	session := board.NewSession(ctx, board.NewEngine(), nil, board.WithPublisher(hub))
	srv := httptest.NewServer(server.New(ctx, cfg, session, hub).Handler())
	t.Cleanup(srv.Close)
	return srv, session
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, testConfig())

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_CreateThenReadBoard(t *testing.T) {
	t.Parallel()

	srv, session := newTestServer(t, testConfig())

	resp, err := http.Post(srv.URL+"/api/v1/tasks", "application/json", strings.NewReader(`{"title":"Ship it"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/board")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap domain.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Len(t, snap.Columns, 3)
	require.Len(t, snap.Columns[0].Tasks, 1)
	assert.Equal(t, "Ship it", snap.Columns[0].Tasks[0].Title)
	assert.Equal(t, 1, session.Board().Len())
}

func TestAPI_RateLimited(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.RateLimitRPS = 0.001
	cfg.Server.RateLimitBurst = 1
	srv, _ := newTestServer(t, cfg)

	first, err := http.Get(srv.URL + "/api/v1/board")
	require.NoError(t, err)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	second, err := http.Get(srv.URL + "/api/v1/board")
	require.NoError(t, err)
	second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)

	// Health checks sit outside the limited group.
	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestCORS_AllowedOrigin(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, testConfig())

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/tasks", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestWS_BoardStream(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv, session := newTestServer(t, testConfig())

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/board", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var first ws.BoardEvent
	require.NoError(t, json.Unmarshal(data, &first))
	assert.Equal(t, "snapshot", first.Type)

	task, err := session.CreateTask(ctx, "Live", "")
	require.NoError(t, err)

	_, data, err = conn.Read(ctx)
	require.NoError(t, err)
	var created ws.BoardEvent
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, "task_created", created.Type)
	assert.Equal(t, task.ID, created.TaskID)
}
