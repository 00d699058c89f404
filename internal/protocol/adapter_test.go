package protocol

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// --- helpers ----------------------------------------------------------------

// startAdapter binds an Adapter on an ephemeral port and serves it.
// Returns the adapter and its ws:// URL.
func startAdapter(t *testing.T) (*Adapter, string) {
	t.Helper()
	a := New("/ws")
	if err := a.Bind(0); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.Serve(ctx)
	t.Cleanup(cancel)

	port := a.Addr().(*net.TCPAddr).Port
	return a, fmt.Sprintf("ws://127.0.0.1:%d/ws", port)
}

// dial connects a WebSocket client to wsURL and returns the connection.
func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// nextEvent reads one event with a short deadline.
func nextEvent(t *testing.T, a *Adapter) Event {
	t.Helper()
	select {
	case ev := <-a.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event before deadline")
		return nil
	}
}

// --- tests ------------------------------------------------------------------

func TestUpgrade_EventSequence(t *testing.T) {
	a, wsURL := startAdapter(t)
	conn := dial(t, wsURL)

	req, ok := nextEvent(t, a).(HandshakeRequested)
	if !ok {
		t.Fatal("first event: want HandshakeRequested")
	}
	done, ok := nextEvent(t, a).(HandshakeCompleted)
	if !ok {
		t.Fatal("second event: want HandshakeCompleted")
	}
	if done.ID != req.ID {
		t.Errorf("handshake ids differ: %v vs %v", req.ID, done.ID)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	frame, ok := nextEvent(t, a).(FrameReceived)
	if !ok {
		t.Fatal("third event: want FrameReceived")
	}
	if frame.ID != req.ID {
		t.Errorf("frame conn: got %v, want %v", frame.ID, req.ID)
	}
	if string(frame.Payload) != "hello" {
		t.Errorf("frame payload: got %q, want hello", frame.Payload)
	}

	conn.Close()
	closed, ok := nextEvent(t, a).(Closed)
	if !ok {
		t.Fatal("fourth event: want Closed")
	}
	if closed.ID != req.ID {
		t.Errorf("closed conn: got %v, want %v", closed.ID, req.ID)
	}
}

func TestSendFrame_DeliveredToClient(t *testing.T) {
	a, wsURL := startAdapter(t)
	conn := dial(t, wsURL)

	req := nextEvent(t, a).(HandshakeRequested)
	nextEvent(t, a) // HandshakeCompleted

	if err := a.SendFrame(req.ID, []byte("timer_task")); err != nil {
		t.Fatalf("SendFrame: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if kind != websocket.TextMessage {
		t.Errorf("opcode: got %d, want text", kind)
	}
	if string(msg) != "timer_task" {
		t.Errorf("payload: got %q, want timer_task", msg)
	}
}

func TestSendFrame_UnknownID(t *testing.T) {
	a := New("/ws")
	if err := a.SendFrame(uuid.New(), []byte("x")); err != ErrNotConnected {
		t.Errorf("SendFrame: got %v, want ErrNotConnected", err)
	}
}

func TestSendFrame_AfterClose(t *testing.T) {
	a, wsURL := startAdapter(t)
	conn := dial(t, wsURL)

	req := nextEvent(t, a).(HandshakeRequested)
	nextEvent(t, a) // HandshakeCompleted

	conn.Close()
	nextEvent(t, a) // Closed — the adapter has dropped the connection

	if err := a.SendFrame(req.ID, []byte("x")); err != ErrNotConnected {
		t.Errorf("SendFrame after close: got %v, want ErrNotConnected", err)
	}
}

func TestSendFrame_Backpressure(t *testing.T) {
	// A connection whose write pump never runs: the send buffer fills,
	// then SendFrame must fail fast rather than block.
	a := New("/ws")
	id := uuid.New()
	a.conns[id] = &conn{id: id, send: make(chan []byte, 2)}

	if err := a.SendFrame(id, []byte("1")); err != nil {
		t.Fatalf("send 1: %v", err)
	}
	if err := a.SendFrame(id, []byte("2")); err != nil {
		t.Fatalf("send 2: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- a.SendFrame(id, []byte("3")) }()
	select {
	case err := <-done:
		if err != ErrBackpressure {
			t.Errorf("send 3: got %v, want ErrBackpressure", err)
		}
	case <-time.After(time.Second):
		t.Fatal("SendFrame blocked on a full buffer")
	}
}

func TestBind_PortInUse(t *testing.T) {
	a, _ := startAdapter(t)
	port := a.Addr().(*net.TCPAddr).Port

	b := New("/ws")
	if err := b.Bind(port); err == nil {
		t.Error("Bind on an occupied port: want error")
	}
}
