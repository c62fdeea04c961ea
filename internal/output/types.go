package output

import (
	"net"
)

const (
	// MaxPixelsPerUniverse is the number of RGB pixels that fit into one universe.
	MaxPixelsPerUniverse = 170
	// ChannelsPerPixel - R, G, B.
	ChannelsPerPixel = 3
	// MaxUniverse is the highest 15 bit Art-Net port address.
	MaxUniverse = 0x7fff
)

// Kind of a packet descriptor.
type Kind int

const (
	KindDMX Kind = iota
	KindSync
)

func (k Kind) String() string {
	if k == KindSync {
		return "sync"
	}
	return "dmx"
}

// Config is the output part of the configuration.
type Config struct {
	Host          string   // Host - адрес контроллера.
	Port          int      // Port - UDP порт.
	StartUniverse int      // StartUniverse - первый номер universe.
	Outputs       []string // Outputs - id strand через запятую, по одному на выход.
}

// PacketDescriptor describes one datagram of a frame. For DMX packets Indices lists the
// color buffer entries in transmission order.
type PacketDescriptor struct {
	Kind        Kind
	Output      int // Output - номер выхода (с 0), -1 для sync.
	Universe    int // Universe - номер universe, уникален в пределах плана.
	Indices     []int
	Channels    int
	Destination string
}

// Plan is the result of one rebuild. It is replaced as a whole, never modified.
type Plan struct {
	Destination string
	// Addr is nil when the destination could not be resolved.
	Addr     *net.UDPAddr
	Packets  []PacketDescriptor
	Warnings []error
}

// DMX returns the data packets, without the trailing sync packet.
func (p *Plan) DMX() []PacketDescriptor {
	if len(p.Packets) == 0 {
		return nil
	}
	return p.Packets[:len(p.Packets)-1]
}

// Summary is a compact description of a plan for logs and status messages.
type Summary struct {
	Destination string          `json:"destination"`
	Resolved    bool            `json:"resolved"`
	Universes   int             `json:"universes"`
	Points      int             `json:"points"`
	Outputs     []OutputSummary `json:"outputs"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// OutputSummary describes the packets of one output.
type OutputSummary struct {
	Output        int `json:"output"`
	Points        int `json:"points"`
	FirstUniverse int `json:"firstUniverse"`
	Universes     int `json:"universes"`
}

// Summary aggregates the plan per output.
func (p *Plan) Summary() Summary {
	s := Summary{Destination: p.Destination, Resolved: p.Addr != nil}
	byOutput := map[int]int{}
	for _, pd := range p.DMX() {
		s.Universes++
		s.Points += len(pd.Indices)
		i, ok := byOutput[pd.Output]
		if !ok {
			i = len(s.Outputs)
			byOutput[pd.Output] = i
			s.Outputs = append(s.Outputs, OutputSummary{Output: pd.Output + 1, FirstUniverse: pd.Universe})
		}
		s.Outputs[i].Points += len(pd.Indices)
		s.Outputs[i].Universes++
	}
	for _, w := range p.Warnings {
		s.Warnings = append(s.Warnings, w.Error())
	}
	return s
}
