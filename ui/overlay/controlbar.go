package overlay

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/engine"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/host"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/mount"
)

// NewControlBar builds the per-surface action toolbar: apply the pending
// shape, undo the last vertex, delete the selected box, reset the view.
func NewControlBar(e *engine.Engine, refresh func()) *widget.Toolbar {
	act := func(f func()) func() {
		return func() {
			f()
			if refresh != nil {
				refresh()
			}
		}
	}
	return widget.NewToolbar(
		widget.NewToolbarAction(theme.ConfirmIcon(), act(e.Commit)),
		widget.NewToolbarAction(theme.ContentUndoIcon(), act(e.UndoVertex)),
		widget.NewToolbarAction(theme.DeleteIcon(), act(e.DeleteSelected)),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), act(e.ResetView)),
	)
}

// Binding connects the mount manager to the overlay UI. On attach it
// pulls the host configuration into the engine and shows the overlay and
// its control bar; on detach it hides both.
type Binding struct {
	engine  *engine.Engine
	remote  host.Host
	overlay *Widget
	bar     *widget.Toolbar
	barGen  int
}

var _ mount.Attachment = (*Binding)(nil)

// NewBinding creates the attachment target for a mount manager.
func NewBinding(e *engine.Engine, remote host.Host, w *Widget, bar *widget.Toolbar) *Binding {
	return &Binding{engine: e, remote: remote, overlay: w, bar: bar}
}

// Attach configures the engine for the new surface and reveals the UI.
func (b *Binding) Attach(m mount.Mount) {
	if cfg, ok := b.remote.Config(); ok {
		b.engine.Configure(cfg)
	}
	b.setFrame(m)
	b.barGen = m.Generation
	b.overlay.Show()
	b.bar.Show()
	b.overlay.Refresh()
}

// Detach hides the overlay; the engine keeps its state for a re-attach.
func (b *Binding) Detach(mount.Mount) {
	b.overlay.Hide()
	b.bar.Hide()
}

// UpdateFrame tracks surface resizes without re-attaching.
func (b *Binding) UpdateFrame(m mount.Mount) {
	b.setFrame(m)
	b.overlay.Refresh()
}

// PruneControlBars hides the bar when it belongs to a stale generation.
func (b *Binding) PruneControlBars(keep int) {
	if b.barGen != keep {
		b.bar.Hide()
		return
	}
	b.bar.Show()
}

// setFrame resizes the overlay to the surface frame. Widget.Resize feeds
// the engine's viewport, which stays widget-local.
func (b *Binding) setFrame(m mount.Mount) {
	b.overlay.Move(fyne.NewPos(float32(m.Frame.X), float32(m.Frame.Y)))
	b.overlay.Resize(fyne.NewSize(float32(m.Frame.Width), float32(m.Frame.Height)))
}
