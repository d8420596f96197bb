package mount

import (
	"log"
	"sync"
	"time"
)

// DefaultPollInterval is how often the manager re-checks the host surface
// in addition to reacting to resize events.
const DefaultPollInterval = 500 * time.Millisecond

// SurfaceProvider reports the host's current rendering surface. A false
// return means no surface (or no configuration) is available yet; the
// manager stays inert and retries on the next cycle.
type SurfaceProvider interface {
	CurrentSurface() (HostSurface, bool)
}

// Attachment receives the side effects the manager derives from
// reconciliation.
type Attachment interface {
	Attach(m Mount)
	Detach(m Mount)
	UpdateFrame(m Mount)
	// PruneControlBars removes control bars from any generation other
	// than keep.
	PruneControlBars(keep int)
}

// Manager polls the surface provider on a fixed interval and applies
// mount transitions. Call Resize when the host viewport changes to force
// an immediate cycle.
type Manager struct {
	mu       sync.Mutex
	provider SurfaceProvider
	target   Attachment
	interval time.Duration
	current  Mount

	stopCh  chan struct{}
	running bool
}

// NewManager creates a manager. interval <= 0 selects the default.
func NewManager(provider SurfaceProvider, target Attachment, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Manager{provider: provider, target: target, interval: interval}
}

// Start launches the polling loop.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	go m.watchLoop(m.stopCh)
	log.Printf("mount: watching host surface every %v", m.interval)
}

// Stop halts the polling loop.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
}

func (m *Manager) watchLoop(stop chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.Poll()
		}
	}
}

// Resize forces a reconciliation cycle outside the poll schedule.
func (m *Manager) Resize() {
	m.Poll()
}

// Current returns the present mount descriptor.
func (m *Manager) Current() Mount {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Poll runs one reconciliation cycle.
func (m *Manager) Poll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	desired, present := m.provider.CurrentSurface()
	next := Reconcile(m.current, desired, present)
	prev := m.current
	m.current = next

	switch {
	case prev.Attached && !next.Attached:
		m.target.Detach(prev)
		log.Printf("mount: surface %s gone, detached", prev.SurfaceID)
	case next.Attached && (!prev.Attached || prev.SurfaceID != next.SurfaceID):
		if prev.Attached {
			m.target.Detach(prev)
		}
		m.target.Attach(next)
		m.target.PruneControlBars(next.Generation)
		log.Printf("mount: attached to surface %s (gen %d)", next.SurfaceID, next.Generation)
	case next.Attached && (prev.Frame != next.Frame || prev.BaseScale != next.BaseScale):
		m.target.UpdateFrame(next)
	}
}
