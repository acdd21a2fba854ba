package telemetry_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spaghettifunk/landan/engine/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterSource() (telemetry.Source, *atomic.Uint64) {
	var frames atomic.Uint64
	return func() telemetry.Snapshot {
		return telemetry.Snapshot{
			Session: "test-session",
			FPS:     60,
			FrameMS: 16.5,
			Frames:  frames.Add(1),
		}
	}, &frames
}

func TestServeMetrics(t *testing.T) {
	source, _ := counterSource()
	srv := telemetry.New("", source, 10*time.Millisecond)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.Shutdown(context.Background())

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/metrics"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first, second telemetry.Snapshot
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))

	assert.Equal(t, "test-session", first.Session)
	assert.Equal(t, 60.0, first.FPS)
	assert.Equal(t, 16.5, first.FrameMS)
	assert.Greater(t, second.Frames, first.Frames)
}

func TestServerLifecycle(t *testing.T) {
	source, _ := counterSource()
	srv := telemetry.New("127.0.0.1:0", source, time.Hour)
	require.NoError(t, srv.Start())
	assert.NotEqual(t, "127.0.0.1:0", srv.Addr())

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/metrics", nil)
	require.NoError(t, err)
	defer conn.Close()

	var snap telemetry.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, uint64(1), snap.Frames)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	// Clients are told the server went away.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
}

func TestPlainHTTPIsRejected(t *testing.T) {
	source, frames := counterSource()
	srv := telemetry.New("", source, time.Second)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, uint64(0), frames.Load())
}

func TestShutdownWaitsForClients(t *testing.T) {
	source, frames := counterSource()
	srv := telemetry.New("", source, time.Millisecond)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/metrics"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var snap telemetry.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	// No handler is left writing once Shutdown returned.
	sent := frames.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, sent, frames.Load())

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, 503, resp.StatusCode)
}
