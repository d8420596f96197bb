package tool

import (
	"time"

	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
)

// pointTool recognizes a single clean tap. A press that lasts too long or
// wanders past the jitter radius is discarded as a pan, not a tap.
type pointTool struct {
	cfg        Config
	pending    bool
	jittered   bool
	downPos    geometry.Point2D
	downVisual geometry.Point2D
	downTime   time.Time
}

func newPointTool(cfg Config) *pointTool {
	return &pointTool{cfg: cfg}
}

func (t *pointTool) handle(ev Event) *Commit {
	switch ev.Type {
	case Down:
		t.pending = true
		t.jittered = false
		t.downPos = ev.Pos
		t.downVisual = ev.Visual
		t.downTime = ev.Time
	case Move:
		if t.pending && ev.Visual.Distance(t.downVisual) > t.cfg.TapJitterRadius {
			t.jittered = true
		}
	case Up:
		if !t.pending {
			return nil
		}
		t.pending = false
		held := ev.Time.Sub(t.downTime)
		if t.jittered || held > t.cfg.TapWindow ||
			ev.Visual.Distance(t.downVisual) > t.cfg.TapJitterRadius {
			return nil
		}
		return &Commit{Kind: CommitTap, Point: t.downPos}
	case Cancel:
		t.pending = false
	}
	return nil
}

func (t *pointTool) reset() {
	t.pending = false
	t.jittered = false
}
