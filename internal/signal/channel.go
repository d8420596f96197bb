package signal

import (
	"log"
	"sync"
	"time"
)

// SlotWriter is the host-visible slot store the channel writes into.
// Writes are replace-style; they must never grow host-side history.
type SlotWriter interface {
	SetSlot(kind Kind, value string)
	ClearSlot(kind Kind)
}

// ProcessRequester asks the host to consume the pending slot now. The
// host provides it at initialization; the channel never goes looking for
// host controls itself.
type ProcessRequester func()

// Config holds the channel timing tunables.
type Config struct {
	// WriteDebounce is the minimum spacing between applied slot writes.
	WriteDebounce time.Duration
	// ProcessDebounce rate-limits "process now" deliveries.
	ProcessDebounce time.Duration
	// TriggerDelay defers the process request slightly past the slot
	// write so the host observes the value before acting on it.
	TriggerDelay time.Duration
}

// DefaultConfig returns the standard channel timings.
func DefaultConfig() Config {
	return Config{
		WriteDebounce:   50 * time.Millisecond,
		ProcessDebounce: 400 * time.Millisecond,
		TriggerDelay:    30 * time.Millisecond,
	}
}

// Channel serializes commits into host slots. Writes inside the debounce
// window are coalesced last-writer-wins: the newest value is applied on
// the next allowed tick, never queued behind older ones.
type Channel struct {
	mu      sync.Mutex
	cfg     Config
	slots   SlotWriter
	request ProcessRequester
	now     func() time.Time

	pendingKind  Kind
	pendingValue string
	hasPending   bool
	flushTimer   *time.Timer

	processTimer *time.Timer
	lastProcess  time.Time
}

// NewChannel creates a channel over a slot store. request may be nil when
// the host polls on its own. now is the clock; pass time.Now outside
// tests.
func NewChannel(cfg Config, slots SlotWriter, request ProcessRequester, now func() time.Time) *Channel {
	if now == nil {
		now = time.Now
	}
	return &Channel{cfg: cfg, slots: slots, request: request, now: now}
}

// Publish stages a slot write. The write is applied on the next debounce
// tick; further publishes before that tick replace the staged value, so a
// burst collapses to exactly one applied write holding the newest value.
func (c *Channel) Publish(kind Kind, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pendingKind = kind
	c.pendingValue = value
	c.hasPending = true

	if c.flushTimer == nil {
		c.flushTimer = time.AfterFunc(c.cfg.WriteDebounce, c.flush)
	}
}

func (c *Channel) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushTimer = nil
	if c.hasPending {
		c.flushLocked()
	}
}

// flushLocked applies the staged write: clears every other slot so the
// host never reads a stale sibling, writes the value, and schedules the
// deferred process request.
func (c *Channel) flushLocked() {
	kind, value := c.pendingKind, c.pendingValue
	c.hasPending = false

	for _, k := range Kinds {
		if k != kind {
			c.slots.ClearSlot(k)
		}
	}
	c.slots.SetSlot(kind, value)

	if c.request != nil {
		c.scheduleProcessLocked()
	}
}

// scheduleProcessLocked arms the deferred process request. Inside the
// rate-limit window the delivery moves to the window's trailing edge
// instead of being dropped, so the last commit of a burst is still
// signaled to the host.
func (c *Channel) scheduleProcessLocked() {
	delay := c.cfg.TriggerDelay
	if wait := c.cfg.ProcessDebounce - c.now().Sub(c.lastProcess); wait > delay {
		delay = wait
	}
	if c.processTimer != nil {
		c.processTimer.Stop()
	}
	c.processTimer = time.AfterFunc(delay, c.deliverProcess)
}

func (c *Channel) deliverProcess() {
	c.mu.Lock()
	c.processTimer = nil
	c.lastProcess = c.now()
	req := c.request
	c.mu.Unlock()

	if req != nil {
		req()
	}
}

// ClearAll wipes every slot and any staged write. Called on tool switch
// so the host cannot act on a signal from the previous tool.
func (c *Channel) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasPending = false
	if c.flushTimer != nil {
		c.flushTimer.Stop()
		c.flushTimer = nil
	}
	if c.processTimer != nil {
		c.processTimer.Stop()
		c.processTimer = nil
	}
	for _, k := range Kinds {
		c.slots.ClearSlot(k)
	}
	log.Printf("signal: all slots cleared")
}
