// Package websocket pushes display frames to browsers.
package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/rover.go/pkg/display"
	fx "github.com/robotalks/rover.go/pkg/framework"
)

// Hub implements display.Sink by sending each frame as JSON to all
// connected clients.
type Hub struct {
	lock    sync.Mutex
	clients map[*websocket.Conn]chan struct{}
	last    *display.Frame
}

// NewHub creates a Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan struct{})}
}

// Name implements display.Sink.
func (h *Hub) Name() string {
	return "websocket"
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

// Render implements display.Sink.
func (h *Hub) Render(f *display.Frame) error {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.last = f
	for conn, done := range h.clients {
		if err := websocket.JSON.Send(conn, f); err != nil {
			glog.V(2).Infof("websocket: drop client %s: %v", conn.RemoteAddr(), err)
			delete(h.clients, conn)
			close(done)
		}
	}
	return nil
}

// Handler returns the websocket endpoint.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

func (h *Hub) serve(conn *websocket.Conn) {
	done := make(chan struct{})
	h.lock.Lock()
	h.clients[conn] = done
	if h.last != nil {
		websocket.JSON.Send(conn, h.last)
	}
	h.lock.Unlock()
	glog.V(2).Infof("websocket: client %s connected", conn.RemoteAddr())

	// the connection closes when the handler returns.
	go func() {
		var discard []byte
		for websocket.Message.Receive(conn, &discard) == nil {
		}
		h.lock.Lock()
		if _, ok := h.clients[conn]; ok {
			delete(h.clients, conn)
			close(done)
		}
		h.lock.Unlock()
	}()
	<-done
}

// Server serves the Hub over HTTP.
type Server struct {
	Addr string
	Hub  *Hub
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "websocket"
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/display", s.Hub.Handler())
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	glog.Infof("display websocket listening on %s/display", s.Addr)
	err := fx.RunWithContextCloser(ctx, srv, srv.ListenAndServe)
	if err == http.ErrServerClosed {
		return context.Canceled
	}
	return err
}
