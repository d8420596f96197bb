package host

import (
	"fmt"
	"log"
	"sync"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/signal"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Frame is one message on the bridge connection. Outbound frames carry
// slot writes and process requests; inbound frames carry configuration
// updates.
type Frame struct {
	Session string  `json:"session"`
	Type    string  `json:"type"`
	Kind    string  `json:"kind,omitempty"`
	Value   string  `json:"value,omitempty"`
	Config  *Config `json:"config,omitempty"`
}

// Frame types on the wire.
const (
	FrameSlot    = "slot"
	FrameClear   = "clear"
	FrameProcess = "process"
	FrameConfig  = "config"
)

// Bridge is a Host reached over a websocket. Slot writes become JSON
// frames; the remote side streams configuration updates back. Send
// failures degrade silently, the engine keeps running on the last known
// configuration.
type Bridge struct {
	session string
	conn    *websocket.Conn

	writeMu sync.Mutex

	mu        sync.RWMutex
	config    Config
	hasConfig bool
	closed    bool
}

// Dial connects to a remote host endpoint, e.g. "ws://10.0.0.5:8472/ws".
func Dial(url string) (*Bridge, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial host bridge %s: %w", url, err)
	}

	b := &Bridge{
		session: uuid.New().String(),
		conn:    conn,
	}
	go b.readLoop()
	log.Printf("host: bridge connected to %s (session %s)", url, b.session)
	return b, nil
}

// Session returns the bridge session ID carried on every frame.
func (b *Bridge) Session() string { return b.session }

func (b *Bridge) readLoop() {
	for {
		var f Frame
		if err := b.conn.ReadJSON(&f); err != nil {
			b.mu.Lock()
			closed := b.closed
			b.mu.Unlock()
			if !closed {
				log.Printf("host: bridge read failed: %v", err)
			}
			return
		}
		if f.Type == FrameConfig && f.Config != nil {
			b.mu.Lock()
			b.config = *f.Config
			b.hasConfig = true
			b.mu.Unlock()
		}
	}
}

func (b *Bridge) send(f Frame) {
	f.Session = b.session
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.WriteJSON(f); err != nil {
		log.Printf("host: bridge send %s failed: %v", f.Type, err)
	}
}

// SetSlot publishes a slot value to the remote host.
func (b *Bridge) SetSlot(kind signal.Kind, value string) {
	b.send(Frame{Type: FrameSlot, Kind: string(kind), Value: value})
}

// ClearSlot clears a slot on the remote host.
func (b *Bridge) ClearSlot(kind signal.Kind) {
	b.send(Frame{Type: FrameClear, Kind: string(kind)})
}

// RequestProcess asks the remote host to consume the pending slot.
func (b *Bridge) RequestProcess() {
	b.send(Frame{Type: FrameProcess})
}

// Config returns the last configuration streamed by the remote host.
func (b *Bridge) Config() (Config, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config, b.hasConfig
}

// Close shuts the bridge connection down.
func (b *Bridge) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return b.conn.Close()
}
