package monitor

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vinyldeck/vinyldeck/pkg/deck"
	"github.com/vinyldeck/vinyldeck/pkg/pitch"
)

// registeredDeck pairs the two pieces of a playing deck that the
// monitor cares about: the committed-sample/meter buffer and the
// velocity filter riding on top of it.
type registeredDeck struct {
	track *deck.Track
	pitch *pitch.Filter
}

// Server broadcasts MeterSnapshot frames for every registered deck to
// every connected websocket client at a fixed tick rate.
type Server struct {
	tickRate time.Duration
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	decks map[string]*registeredDeck

	clientsMu sync.Mutex
	clients   map[*client]struct{}

	httpServer *http.Server

	closeOnce sync.Once
	closeCh   chan struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer returns a Server that ticks at tickRate. Register decks
// with Register before calling ListenAndServe.
func NewServer(tickRate time.Duration) *Server {
	return &Server{
		tickRate: tickRate,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		decks:   make(map[string]*registeredDeck),
		clients: make(map[*client]struct{}),
		closeCh: make(chan struct{}),
	}
}

// Register adds (or replaces) the deck identified by id to the set of
// decks the monitor broadcasts snapshots for.
func (s *Server) Register(id string, tr *deck.Track, pf *pitch.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks[id] = &registeredDeck{track: tr, pitch: pf}
}

// Unregister removes a previously registered deck. Snapshots for it
// stop appearing on the next broadcast tick.
func (s *Server) Unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.decks, id)
}

// Handler returns the websocket upgrade endpoint as an http.Handler,
// for embedding in a larger mux or wrapping with httptest.NewServer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/meters", s.handleWS)
	return mux
}

// ListenAndServe starts the HTTP/websocket listener on addr and the
// broadcast loop. It blocks until the server is closed, returning
// http.ErrServerClosed in that case.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go s.StartBroadcasting()

	return s.httpServer.ListenAndServe()
}

// StartBroadcasting runs the broadcast loop until Close is called. It
// is started automatically by ListenAndServe; call it directly only
// when Handler is being served some other way (e.g. embedded in a
// larger mux, or under httptest).
func (s *Server) StartBroadcasting() {
	s.broadcastLoop()
}

// Close shuts down the HTTP server and stops the broadcast loop.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeCh)
		if s.httpServer != nil {
			err = s.httpServer.Shutdown(context.Background())
		}
	})
	return err
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 32)}

	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop only drains and discards incoming frames so the connection
// stays alive against clients that send pings through the message
// channel; the monitor never interprets anything a client sends.
func (s *Server) readLoop(c *client) {
	defer s.dropClient(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			s.dropClient(c)
			return
		}
	}
}

func (s *Server) dropClient(c *client) {
	s.clientsMu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.clientsMu.Unlock()
	c.conn.Close()
}

func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.closeCh:
			return
		case <-ticker.C:
			s.broadcastOnce()
		}
	}
}

func (s *Server) broadcastOnce() {
	for _, snap := range s.snapshots() {
		frame, err := msgpack.Marshal(snap)
		if err != nil {
			slog.Error("monitor: marshal snapshot", "track_id", snap.TrackID, "error", err)
			continue
		}
		s.fanOut(frame)
	}
}

func (s *Server) snapshots() []MeterSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := make([]MeterSnapshot, 0, len(s.decks))
	for id, d := range s.decks {
		snaps = append(snaps, snapshotOf(id, d))
	}
	return snaps
}

func snapshotOf(id string, d *registeredDeck) MeterSnapshot {
	committed := d.track.SamplesCommitted()

	snap := MeterSnapshot{
		TrackID:          id,
		SamplesCommitted: committed,
		Idle:             d.track.State() == deck.StateIdle,
	}
	if d.pitch != nil {
		snap.Velocity = d.pitch.Velocity()
	}
	if i := committed/deck.TrackPPMRes - 1; i >= 0 {
		snap.LatestPPM = d.track.PPMAt(i)
	}
	if i := committed/deck.TrackOverviewRes - 1; i >= 0 {
		snap.LatestOverview = d.track.OverviewAt(i)
	}
	return snap
}

func (s *Server) fanOut(frame []byte) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- frame:
		default:
			// Slow client: drop the frame rather than block the
			// broadcast loop for every other client.
		}
	}
}
