package protocol

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing frame buffer depth.
	sendBufSize = 16

	// eventBufSize is the depth of the event channel feeding the reactor.
	eventBufSize = 256

	// readLimit caps inbound frame size.
	readLimit = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins — callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Adapter owns the listening socket and all live WebSocket sessions.
// Create one with New, then Bind and Serve. Events are consumed from
// Events by the reactor; frames go out through SendFrame.
type Adapter struct {
	path   string
	events chan Event

	// Fallback handles HTTP requests outside the WebSocket path
	// (diagnostics API, metrics). Set before Serve; may be nil.
	Fallback http.Handler

	mu    sync.Mutex
	conns map[uuid.UUID]*conn

	lis  net.Listener
	srv  *http.Server
	done chan struct{}
}

// conn is one live WebSocket session. The send channel is the connection's
// bounded outbound buffer, drained by writePump.
type conn struct {
	id   uuid.UUID
	ws   *websocket.Conn
	send chan []byte
}

// New creates an Adapter serving WebSocket upgrades at path.
func New(path string) *Adapter {
	return &Adapter{
		path:   path,
		events: make(chan Event, eventBufSize),
		conns:  make(map[uuid.UUID]*conn),
		done:   make(chan struct{}),
	}
}

// Events is the typed event stream consumed by the reactor. Per connection,
// events arrive in occurrence order.
func (a *Adapter) Events() <-chan Event {
	return a.events
}

// Bind claims the listening socket. A bind failure is fatal to the caller's
// reactor instance; no partial state is left behind.
func (a *Adapter) Bind(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("protocol: bind port %d: %w", port, err)
	}
	a.lis = lis
	return nil
}

// Serve starts accepting connections on the socket claimed by Bind. It
// returns immediately; serving stops when ctx is cancelled, which closes
// the listener and every live connection.
func (a *Adapter) Serve(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc(a.path, a.handleUpgrade)
	if a.Fallback != nil {
		mux.Handle("/", a.Fallback)
	}
	a.srv = &http.Server{Handler: mux}

	go func() {
		if err := a.srv.Serve(a.lis); err != nil && err != http.ErrServerClosed {
			slog.Error("protocol: server stopped", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		close(a.done)
		a.srv.Shutdown(context.Background()) //nolint:errcheck
		a.closeAll()
	}()
}

// Addr returns the bound listener address. Valid after Bind.
func (a *Adapter) Addr() net.Addr {
	return a.lis.Addr()
}

// SendFrame queues one text frame for the given connection. It never
// blocks: unknown or closed ids fail with ErrNotConnected, a full outbound
// buffer with ErrBackpressure.
func (a *Adapter) SendFrame(id uuid.UUID, payload []byte) error {
	// The non-blocking send happens under the lock so remove cannot close
	// the buffer mid-send.
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.conns[id]
	if !ok {
		return ErrNotConnected
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return ErrBackpressure
	}
}

// --- internal ---------------------------------------------------------------

// handleUpgrade runs on the HTTP server's per-request goroutine: it emits the
// handshake events, then becomes the connection's read pump until close.
func (a *Adapter) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	id := uuid.New()
	a.emit(HandshakeRequested{ID: id, RemoteAddr: r.RemoteAddr})

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		a.emit(Closed{ID: id})
		return
	}

	c := &conn{id: id, ws: ws, send: make(chan []byte, sendBufSize)}
	a.add(c)
	a.emit(HandshakeCompleted{ID: id, RemoteAddr: r.RemoteAddr})

	go c.writePump()
	a.readPump(c) // blocks until the connection closes

	a.remove(id)
	a.emit(Closed{ID: id})
}

// emit delivers ev to the reactor. Blocks the connection's own goroutine if
// the reactor falls behind, never any other task; gives up on shutdown.
func (a *Adapter) emit(ev Event) {
	select {
	case a.events <- ev:
	case <-a.done:
	}
}

func (a *Adapter) add(c *conn) {
	a.mu.Lock()
	a.conns[c.id] = c
	a.mu.Unlock()
}

func (a *Adapter) remove(id uuid.UUID) {
	a.mu.Lock()
	if c, ok := a.conns[id]; ok {
		delete(a.conns, id)
		close(c.send)
	}
	a.mu.Unlock()
}

func (a *Adapter) closeAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, c := range a.conns {
		close(c.send)
		delete(a.conns, id)
	}
}

// readPump reads frames from the connection, forwarding data frames as
// FrameReceived events and handling control frames (pong, close). Blocks
// until the connection closes.
func (a *Adapter) readPump(c *conn) {
	defer c.ws.Close()
	c.ws.SetReadLimit(readLimit)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		payload := make([]byte, len(data))
		copy(payload, data)
		a.emit(FrameReceived{ID: c.id, Payload: payload})
	}
}

// writePump drains the connection's send buffer and forwards frames to the
// socket. It also sends periodic ping frames. Runs in its own goroutine per
// connection.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Channel was closed (adapter shutdown or connection removed).
				c.ws.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
