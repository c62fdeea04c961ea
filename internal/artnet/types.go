package artnet

import "io"

// Dialer opens the datagram socket for a destination.
type Dialer func(network, address string) (io.WriteCloser, error)

// Node is an Art-Net node seen by discovery.
type Node struct {
	Name         string   `json:"name"`
	IP           string   `json:"ip"`
	Manufacturer string   `json:"manufacturer"`
	Description  string   `json:"description"`
	Inputs       []string `json:"inputs"`
	Outputs      []string `json:"outputs"`
}

// Stats counts transmitted datagrams.
type Stats struct {
	Frames  uint64 // Frames - отправленные кадры.
	Packets uint64 // Packets - отправленные ArtDmx.
	Errors  uint64 // Errors - ошибки записи.
}
