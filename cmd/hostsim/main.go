// Command hostsim runs a stand-in host process for overlay development:
// it serves the bridge websocket endpoint, streams a configuration to
// connecting clients, logs their slot and process frames, and advertises
// itself over mDNS.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/host"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	port := flag.Int("port", 8472, "listen port")
	toolMode := flag.String("tool", "rect", "tool mode handed to clients")
	width := flag.Float64("width", 1600, "intrinsic content width")
	height := flag.Float64("height", 1200, "intrinsic content height")
	announce := flag.Bool("mdns", true, "advertise the endpoint over mDNS")
	flag.Parse()

	cfg := host.Config{
		IntrinsicWidth:  *width,
		IntrinsicHeight: *height,
		ToolMode:        *toolMode,
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serve(w, r, cfg)
	})

	if *announce {
		srv, err := host.Advertise(*port)
		if err != nil {
			log.Printf("hostsim: mdns advertise failed: %v", err)
		} else {
			defer srv.Shutdown()
		}
	}

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("hostsim: serving ws://0.0.0.0%s/ws (tool %s, %gx%g)",
		addr, *toolMode, *width, *height)
	log.Fatal(http.ListenAndServe(addr, nil))
}

// serve handles one overlay client for the lifetime of its connection.
func serve(w http.ResponseWriter, r *http.Request, cfg host.Config) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("hostsim: upgrade: %v", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(host.Frame{Type: host.FrameConfig, Config: &cfg}); err != nil {
		log.Printf("hostsim: send config: %v", err)
		return
	}
	log.Printf("hostsim: client connected from %s", r.RemoteAddr)

	slots := make(map[string]string)
	for {
		var f host.Frame
		if err := conn.ReadJSON(&f); err != nil {
			log.Printf("hostsim: client %s gone: %v", r.RemoteAddr, err)
			return
		}
		switch f.Type {
		case host.FrameSlot:
			slots[f.Kind] = f.Value
			log.Printf("hostsim: [%s] slot %s = %q", f.Session, f.Kind, f.Value)
		case host.FrameClear:
			delete(slots, f.Kind)
			log.Printf("hostsim: [%s] slot %s cleared", f.Session, f.Kind)
		case host.FrameProcess:
			log.Printf("hostsim: [%s] process request, consuming %d slot(s)", f.Session, len(slots))
			for k := range slots {
				delete(slots, k)
			}
		}
	}
}
