// Package main provides the entry point for the paint visualizer overlay.
package main

import (
	"flag"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/app"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/engine"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/host"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/mount"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/refine"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/version"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/view"
	"github.com/balamernstackdev/latest-paint-visualizer/ui/overlay"
	"github.com/balamernstackdev/latest-paint-visualizer/ui/prefs"
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
)

const appTitle = "Paint Visualizer"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s (%s)", appTitle, version.Version, version.GitCommit)

	hostURL := flag.String("host", "", "websocket host endpoint (ws://.../ws); empty runs standalone")
	discover := flag.Bool("discover", false, "browse the LAN for an advertised host")
	snapImage := flag.String("snap-image", "", "content image used for box edge snapping")
	flag.Parse()

	appState := app.NewState()
	appPrefs := prefs.Load()

	remote := connectHost(*hostURL, *discover)

	opts := engineOptions(appPrefs)
	if appPrefs.Bool(prefs.KeyBoxSnapEnabled, false) && *snapImage != "" {
		opts.Snapper = loadSnapper(*snapImage)
	}
	eng := engine.New(appState, remote, opts)

	a := fyneapp.New()
	a.Settings().SetTheme(&app.OverlayTheme{})
	win := a.NewWindow(appTitle)

	ov := overlay.New(eng)
	bar := overlay.NewControlBar(eng, ov.Refresh)
	binding := overlay.NewBinding(eng, remote, ov, bar)

	provider := &windowSurface{remote: remote, overlay: ov}
	mgr := mount.NewManager(provider, binding, mount.DefaultPollInterval)
	mgr.Start()
	defer mgr.Stop()

	stop := make(chan struct{})
	go watchConfig(eng, remote, ov, stop)
	defer close(stop)

	appState.On(app.EventShapeCommitted, func(interface{}) {
		ov.Refresh()
	})
	appState.On(app.EventViewChanged, func(interface{}) {
		ov.Refresh()
	})

	win.SetContent(container.NewBorder(nil, bar, nil, nil, ov))
	win.Resize(fyne.NewSize(1024, 768))
	win.ShowAndRun()
}

// connectHost picks the host backing the engine: a websocket bridge when
// an endpoint is known, otherwise an in-process host with a demo
// configuration.
func connectHost(url string, discover bool) host.Host {
	if url == "" && discover {
		found := make(chan string, 1)
		err := host.Browse(func(u string) {
			select {
			case found <- u:
			default:
			}
		})
		if err != nil {
			log.Printf("host: discovery failed: %v", err)
		}
		select {
		case url = <-found:
			log.Printf("host: discovered %s", url)
		default:
			log.Println("host: no advertised host found")
		}
	}

	if url != "" {
		b, err := host.Dial(url)
		if err == nil {
			return b
		}
		log.Printf("host: %v; running standalone", err)
	}

	h := host.NewInProcess(func() {
		log.Println("host: process request (standalone, ignored)")
	})
	h.SetConfig(host.Config{
		IntrinsicWidth:  1600,
		IntrinsicHeight: 1200,
		ToolMode:        "rect",
	})
	return h
}

// engineOptions maps stored preferences onto the engine defaults.
func engineOptions(p *prefs.Prefs) engine.Options {
	mode := view.PanNormalized
	if p.String(prefs.KeyPanMode) == "pixels" {
		mode = view.PanPixels
	}

	opts := engine.DefaultOptions(mode)
	opts.Gesture.Cooldown = p.Duration(prefs.KeyPinchCooldownMS, opts.Gesture.Cooldown)
	opts.Channel.WriteDebounce = p.Duration(prefs.KeyWriteDebounceMS, opts.Channel.WriteDebounce)
	opts.Channel.ProcessDebounce = p.Duration(prefs.KeyProcDebounceMS, opts.Channel.ProcessDebounce)
	opts.Tool.TapJitterRadius = p.FloatWithFallback(prefs.KeyTapJitterPx, opts.Tool.TapJitterRadius)
	opts.Tool.FreehandSpacing = p.FloatWithFallback(prefs.KeyFreehandSpacing, opts.Tool.FreehandSpacing)
	return opts
}

// loadSnapper builds a box snapper from the content image, preferring the
// OpenCV gradient path and falling back to pure Go.
func loadSnapper(path string) engine.BoxSnapper {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("snap: %v; box snapping disabled", err)
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		log.Printf("snap: decode %s: %v; box snapping disabled", path, err)
		return nil
	}

	field, err := refine.NewGradientFieldCV(img)
	if err != nil {
		log.Printf("snap: opencv gradient failed (%v), using pure Go", err)
		field = refine.NewGradientField(img)
	}
	return refine.NewSnapper(refine.DefaultConfig(), field)
}

// watchConfig re-applies the host configuration whenever it changes, so a
// tool switch or view seed pushed by the host takes effect within one
// poll interval.
func watchConfig(e *engine.Engine, remote host.Host, ov *overlay.Widget, stop chan struct{}) {
	ticker := time.NewTicker(mount.DefaultPollInterval)
	defer ticker.Stop()

	var last host.Config
	var seen bool
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			cfg, ok := remote.Config()
			if !ok || (seen && cfg == last) {
				continue
			}
			last, seen = cfg, true
			e.Configure(cfg)
			ov.Refresh()
		}
	}
}

// windowSurface treats the overlay's laid-out frame plus the host
// configuration as the mountable surface. No config or no layout yet
// means no surface.
type windowSurface struct {
	remote  host.Host
	overlay *overlay.Widget
}

func (s *windowSurface) CurrentSurface() (mount.HostSurface, bool) {
	cfg, ok := s.remote.Config()
	if !ok || !cfg.Valid() {
		return mount.HostSurface{}, false
	}
	size := s.overlay.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return mount.HostSurface{}, false
	}
	return mount.HostSurface{
		ID:        "window",
		Frame:     geometry.NewRect(0, 0, float64(size.Width), float64(size.Height)),
		Intrinsic: geometry.NewSize(cfg.IntrinsicWidth, cfg.IntrinsicHeight),
	}, true
}
