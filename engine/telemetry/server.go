package telemetry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spaghettifunk/landan/engine/core"
)

// Snapshot is the JSON document pushed to every connected client.
type Snapshot struct {
	Session string  `json:"session"`
	FPS     float64 `json:"fps"`
	FrameMS float64 `json:"frame_ms"`
	Frames  uint64  `json:"frames"`
}

type Source func() Snapshot

// Server streams frame metrics over a websocket at /metrics.
type Server struct {
	addr     string
	source   Source
	interval time.Duration
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener

	// wg tracks the Serve goroutine and every connected client.
	mu       sync.Mutex
	closing  bool
	done     chan struct{}
	doneOnce sync.Once
	wg       sync.WaitGroup
}

const writeWait = 10 * time.Second

func New(addr string, source Source, interval time.Duration) *Server {
	if interval <= 0 {
		interval = time.Second
	}
	return &Server{
		addr:     addr,
		source:   source,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		done: make(chan struct{}),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.serveMetrics)
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			core.LogError("telemetry server: %s", err)
		}
	}()
	return nil
}

// Addr is the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting clients, closes the connected ones and waits for
// their handlers to return.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	s.doneOnce.Do(func() { close(s.done) })

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.wg.Wait()
	return err
}

func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Server) serveMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.track() {
		http.Error(w, "telemetry is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		core.LogError("telemetry upgrade: %s", err)
		return
	}
	defer conn.Close()

	core.LogDebug("telemetry client connected from %s", r.RemoteAddr)

	// Reading is required to process control frames and notice the peer
	// going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(s.source()); err != nil {
			core.LogDebug("telemetry client %s gone: %s", r.RemoteAddr, err)
			return
		}
		select {
		case <-ticker.C:
		case <-closed:
			return
		case <-s.done:
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutting down"))
			return
		}
	}
}
