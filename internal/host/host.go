// Package host abstracts the application that owns the rendered content.
// The engine only ever talks to a Host: it writes signal slots, asks for
// processing, and polls read-only configuration.
package host

import (
	"github.com/balamernstackdev/latest-paint-visualizer/internal/signal"
)

// Config is the inbound, read-only configuration the host exposes. It is
// polled each mount cycle; the engine never mutates it.
type Config struct {
	IntrinsicWidth  float64 `json:"width"`
	IntrinsicHeight float64 `json:"height"`
	// ToolMode is one of point|rect|polygon|freedraw|transform.
	ToolMode string `json:"tool"`
	// Optional zoom/pan seeds for gesture baselines.
	HasViewSeed bool    `json:"has_view_seed"`
	ZoomSeed    float64 `json:"zoom"`
	PanXSeed    float64 `json:"pan_x"`
	PanYSeed    float64 `json:"pan_y"`
}

// Valid reports whether the configuration is complete enough to run on.
// An invalid config keeps the engine inert.
func (c Config) Valid() bool {
	return c.IntrinsicWidth > 0 && c.IntrinsicHeight > 0 && c.ToolMode != ""
}

// Host is the narrow surface the engine depends on. Implementations:
// InProcess for an embedding application, Bridge for a remote host over a
// websocket.
type Host interface {
	signal.SlotWriter
	// RequestProcess asks the host to consume the pending slot. It must
	// be idempotent; the signal channel rate-limits deliveries.
	RequestProcess()
	// Config returns the current configuration; false while the host
	// has not provided one yet.
	Config() (Config, bool)
}
