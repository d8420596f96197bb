package host

import (
	"sync"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/signal"
)

// InProcess is a Host living in the same process as the engine, used by
// embedding applications and tests. Slot reads are destructive on
// Consume, mirroring a host that clears a signal once acted upon.
type InProcess struct {
	mu        sync.RWMutex
	slots     map[signal.Kind]string
	config    Config
	hasConfig bool
	onProcess func()
}

// NewInProcess creates an in-process host. onProcess runs on every
// accepted process request; it may be nil.
func NewInProcess(onProcess func()) *InProcess {
	return &InProcess{
		slots:     make(map[signal.Kind]string),
		onProcess: onProcess,
	}
}

// SetConfig publishes the host configuration to the engine.
func (h *InProcess) SetConfig(c Config) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.config = c
	h.hasConfig = true
}

// Config returns the current configuration.
func (h *InProcess) Config() (Config, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config, h.hasConfig
}

// SetSlot stores a slot value, replace-style.
func (h *InProcess) SetSlot(kind signal.Kind, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.slots[kind] = value
}

// ClearSlot removes a slot value.
func (h *InProcess) ClearSlot(kind signal.Kind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.slots, kind)
}

// Slot returns the current value of a slot.
func (h *InProcess) Slot(kind signal.Kind) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.slots[kind]
	return v, ok
}

// Consume reads and clears a slot in one step.
func (h *InProcess) Consume(kind signal.Kind) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.slots[kind]
	delete(h.slots, kind)
	return v, ok
}

// RequestProcess invokes the host's processing callback.
func (h *InProcess) RequestProcess() {
	h.mu.RLock()
	cb := h.onProcess
	h.mu.RUnlock()
	if cb != nil {
		cb()
	}
}
