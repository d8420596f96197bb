package host

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

const serviceType = "_paint-host._tcp"

// Advertise announces a host endpoint on the LAN so overlay clients can
// find it without configuration. The caller owns the returned server and
// must Shutdown it.
func Advertise(port int) (*mdns.Server, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		hostname,
		serviceType,
		"",
		"",
		port,
		nil,
		[]string{"paint-visualizer host"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse scans the LAN for advertised host endpoints, invoking found with
// a websocket URL for each. Returns when the underlying lookup completes.
func Browse(found func(url string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	go func() {
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(fmt.Sprintf("ws://%s:%d/ws", e.AddrV4.String(), e.Port))
		}
	}()
	return mdns.Lookup(serviceType, entries)
}
