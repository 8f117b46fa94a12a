package net

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_kuficraft._tcp"

// Service is a preview server found on the local network.
type Service struct {
	Instance string
	Addr     string
	Name     string
	ID       string
}

// URL returns the address of the preview page.
func (s Service) URL() string {
	return "http://" + s.Addr + "/"
}

// Advertise announces a preview server for the board with the given name
// and id. Shut the returned server down to stop announcing.
func Advertise(port int, name, id string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	info := []string{"name=" + name, "id=" + id}
	service, err := mdns.NewMDNSService(
		host,
		serviceType,
		"",
		"",
		port,
		nil,
		info,
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

// Browse looks for preview servers until timeout and calls found for each.
func Browse(timeout time.Duration, found func(Service)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if s, ok := serviceFromEntry(e); ok {
				found(s)
			}
		}
	}()
	err := mdns.Query(&mdns.QueryParam{
		Service:     serviceType,
		Timeout:     timeout,
		Entries:     entries,
		DisableIPv6: true,
	})
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("browse %s: %w", serviceType, err)
	}
	return nil
}

func serviceFromEntry(e *mdns.ServiceEntry) (Service, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Service{}, false
	}
	s := Service{
		Instance: strings.TrimSuffix(e.Name, "."+serviceType+".local."),
		Addr:     net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)),
	}
	for _, f := range e.InfoFields {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		switch key {
		case "name":
			s.Name = value
		case "id":
			s.ID = value
		}
	}
	return s, true
}

// firstIPv4 returns the first non-loopback IPv4 address of an interface
// that is up.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
