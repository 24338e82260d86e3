package live

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/evopoker/internal/evolve"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Per-connection send buffer; a consumer that falls this far behind
	// is dropped rather than allowed to stall the run.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub broadcasts run snapshots to any number of WebSocket consumers. The
// run itself never blocks on consumers.
type Hub struct {
	cfg    evolve.Config
	logger *log.Logger

	mu       sync.Mutex
	conns    map[*hubConn]struct{}
	hello    []byte
	complete []byte
	listener net.Listener
	server   *http.Server
	closed   bool
}

type hubConn struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub for a run with the given configuration.
func NewHub(cfg evolve.Config, logger *log.Logger) (*Hub, error) {
	hello, err := Marshal(TypeHello, Hello{Config: cfg})
	if err != nil {
		return nil, err
	}
	return &Hub{
		cfg:    cfg,
		logger: logger.WithPrefix("live"),
		conns:  make(map[*hubConn]struct{}),
		hello:  hello,
	}, nil
}

// Listen starts serving WebSocket upgrades on addr in a background
// goroutine and returns the bound address.
func (h *Hub) Listen(addr string) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	server := &http.Server{Handler: mux}

	h.mu.Lock()
	h.listener = listener
	h.server = server
	h.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			h.logger.Error("live server stopped", "error", err)
		}
	}()

	h.logger.Info("serving live snapshots", "addr", listener.Addr().String())
	return listener.Addr().String(), nil
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "error", err)
		return
	}

	hc := &hubConn{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.conns[hc] = struct{}{}
	hello := h.hello
	complete := h.complete
	h.mu.Unlock()

	hc.send <- hello
	if complete != nil {
		hc.send <- complete
	}

	go h.writePump(hc)
	go h.readPump(hc)
}

func (h *Hub) writePump(hc *hubConn) {
	defer hc.conn.Close()
	for frame := range hc.send {
		hc.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := hc.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			h.drop(hc)
			return
		}
	}
	hc.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

// readPump discards inbound frames and detects closed consumers.
func (h *Hub) readPump(hc *hubConn) {
	for {
		if _, _, err := hc.conn.ReadMessage(); err != nil {
			h.drop(hc)
			return
		}
	}
}

func (h *Hub) drop(hc *hubConn) {
	h.mu.Lock()
	if _, ok := h.conns[hc]; ok {
		delete(h.conns, hc)
		close(hc.send)
	}
	h.mu.Unlock()
}

// Broadcast fans a snapshot out to all connected consumers. Consumers with
// full buffers are dropped.
func (h *Hub) Broadcast(snap *evolve.Snapshot) error {
	frame, err := Marshal(TypeSnapshot, snap)
	if err != nil {
		return err
	}
	h.send(frame)
	return nil
}

func (h *Hub) send(frame []byte) {
	h.mu.Lock()
	var slow []*hubConn
	for hc := range h.conns {
		select {
		case hc.send <- frame:
		default:
			slow = append(slow, hc)
		}
	}
	for _, hc := range slow {
		h.logger.Warn("dropping slow consumer")
		delete(h.conns, hc)
		close(hc.send)
	}
	h.mu.Unlock()
}

// Finish broadcasts the completion frame and remembers it for late joiners.
func (h *Hub) Finish(generations int) error {
	frame, err := Marshal(TypeComplete, Complete{Generations: generations})
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.complete = frame
	h.mu.Unlock()
	h.send(frame)
	return nil
}

// Close drops all consumers and stops the listener.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for hc := range h.conns {
		delete(h.conns, hc)
		close(hc.send)
	}
	server := h.server
	h.mu.Unlock()

	if server != nil {
		return server.Close()
	}
	return nil
}
