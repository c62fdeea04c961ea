package artnet

import (
	"fmt"
	"net"
	"strings"
)

const (
	// DefaultAddressRange specifies the network CIDR an art-net network usually has.
	DefaultAddressRange = "192.168.6.0/24"
)

// FindArtNetIP finds the matching interface with an IP address inside addressRange.
func FindArtNetIP(addressRange string) (net.IP, error) {
	if addressRange == "" {
		addressRange = DefaultAddressRange
	}
	_, cidrNet, err := net.ParseCIDR(addressRange)
	if err != nil {
		return nil, fmt.Errorf("invalid art-net address range %q: %w", addressRange, err)
	}
	address, err := net.InterfaceAddrs()
	if err != nil {
		return nil, fmt.Errorf("error getting ips: %w", err)
	}

	for _, addr := range address {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP

		if strings.Contains(ip.String(), ":") {
			continue
		}

		if cidrNet.Contains(ip) {
			return ip, nil
		}
	}

	return nil, nil
}
