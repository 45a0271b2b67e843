// Package stream steps a fluid on a ticker and broadcasts each frame to
// websocket clients as JSON.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/sphfluid/internal/sim"
	"github.com/san-kum/sphfluid/internal/sph"
)

const (
	DefaultInterval = time.Second / 60
	writeWait       = time.Second
	sendBuffer      = 4
)

// Message is one broadcast frame.
type Message struct {
	Frame     int          `json:"frame"`
	Positions [][2]float64 `json:"positions"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server owns the simulator; only Run touches the fluid.
type Server struct {
	sim      *sim.Simulator
	cfg      sim.Config
	interval time.Duration
	pool     *sim.FramePool
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewServer(s *sim.Simulator, cfg sim.Config, interval time.Duration) *Server {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Server{
		sim:      s,
		cfg:      cfg,
		interval: interval,
		pool:     sim.NewFramePool(s.Fluid().Len()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Handler upgrades requests to websocket connections and registers them
// for broadcasts.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			var hs websocket.HandshakeError
			if !errors.As(err, &hs) {
				log.Println(err)
			}
			return
		}
		c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
		s.register(c)
		log.Printf("stream: %s connected", r.RemoteAddr)
		go s.writeLoop(c)
		go s.readLoop(c)
	})
}

// Clients reports the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Run steps the fluid once per interval until ctx ends or the configured
// frame count is reached, broadcasting the frame before each step.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.closeAll()

	err := s.sim.RunWithCallback(ctx, s.cfg, func(frame int, fluid *sph.Simulation) bool {
		s.broadcast(frame, fluid)
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			return true
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Server) broadcast(frame int, fluid *sph.Simulation) {
	buf := s.pool.Snapshot(fluid)
	msg := Message{Frame: frame, Positions: make([][2]float64, len(*buf))}
	for i, p := range *buf {
		msg.Positions[i] = [2]float64{p.X, p.Y}
	}
	s.pool.Put(buf)

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("stream: encode frame %d: %v", frame, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// slow client, skip this frame
		}
	}
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

// writeLoop drains the client's queue; it owns all writes to the conn.
func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Println(err)
			s.unregister(c)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// readLoop discards client messages and notices disconnects.
func (s *Server) readLoop(c *client) {
	defer s.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("stream: %v", err)
			}
			return
		}
	}
}
