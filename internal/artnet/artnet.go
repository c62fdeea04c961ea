package artnet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"net"
	"sync"

	"github.com/Haba1234/go-artnet"
	"github.com/Haba1234/go-artnet/packet"
	"github.com/Haba1234/go-artnet/packet/code"

	"artnetmapper/internal/logger"
	"artnetmapper/internal/output"
)

var (
	// ErrNoDestination is returned by Install for plans without a resolved destination.
	ErrNoDestination = errors.New("art-net destination is not resolved, output disabled")
	// ErrUniverseOverflow is returned by Install for plans using universes past 0x7fff.
	ErrUniverseOverflow = errors.New("plan uses universes outside the art-net address space, output disabled")
)

// Sender transmits the installed plan: one ArtDmx per universe and an ArtSync per frame.
type Sender struct {
	logger logger.Logger
	dial   Dialer

	mu       sync.Mutex
	plan     *output.Plan
	conn     io.WriteCloser
	enabled  bool
	sequence uint8
	stats    Stats
}

// NewSender конструктор. A nil dial uses UDP sockets.
func NewSender(log logger.Logger, dial Dialer) *Sender {
	if dial == nil {
		dial = func(network, address string) (io.WriteCloser, error) {
			return net.Dial(network, address)
		}
	}
	return &Sender{logger: log, dial: dial}
}

// Install replaces the current plan. Output is disabled while the plan is swapped and
// only enabled again when the new destination could be opened.
func (s *Sender) Install(plan *output.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disableLocked()
	s.plan = plan
	if plan == nil || plan.Addr == nil {
		s.logger.With(logger.Fields{"module": "art-net"}).Warn(ErrNoDestination.Error())
		return ErrNoDestination
	}
	for _, pd := range plan.DMX() {
		if pd.Universe < 0 || pd.Universe > output.MaxUniverse {
			s.logger.With(logger.Fields{"module": "art-net"}).Errorf("universe %d: %v", pd.Universe, ErrUniverseOverflow)
			return ErrUniverseOverflow
		}
	}

	conn, err := s.dial("udp", plan.Addr.String())
	if err != nil {
		return fmt.Errorf("failed to open art-net socket to %s: %w", plan.Addr, err)
	}
	s.conn = conn
	s.enabled = true
	s.logger.With(logger.Fields{"module": "art-net"}).Infof("output enabled: %d universes to %s", len(plan.DMX()), plan.Addr)
	return nil
}

// Disable stops transmission and closes the socket. The plan stays installed.
func (s *Sender) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disableLocked()
}

func (s *Sender) disableLocked() {
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			s.logger.With(logger.Fields{"module": "art-net"}).Errorf("closing art-net socket: %v", err)
		}
		s.conn = nil
	}
	if s.enabled {
		s.logger.With(logger.Fields{"module": "art-net"}).Info("output disabled")
	}
	s.enabled = false
}

// Enabled reports whether frames are transmitted.
func (s *Sender) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Stats returns the transmission counters.
func (s *Sender) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Send transmits one frame read from colors, which is indexed by global point index.
// It does nothing while output is disabled.
func (s *Sender) Send(colors []color.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return nil
	}

	// 0 disables sequencing on the receiver, so the counter runs 1..255.
	s.sequence++
	if s.sequence == 0 {
		s.sequence = 1
	}

	var firstErr error
	for _, pd := range s.plan.DMX() {
		b, err := encodeDMX(pd, colors, s.sequence)
		if err == nil {
			_, err = s.conn.Write(b)
		}
		if err != nil {
			s.stats.Errors++
			if firstErr == nil {
				firstErr = fmt.Errorf("universe %d: %w", pd.Universe, err)
			}
			continue
		}
		s.stats.Packets++
	}
	b, err := encodeSync()
	if err == nil {
		_, err = s.conn.Write(b)
	}
	if err != nil {
		s.stats.Errors++
		if firstErr == nil {
			firstErr = fmt.Errorf("sync: %w", err)
		}
	}
	s.stats.Frames++
	return firstErr
}

func encodeDMX(pd output.PacketDescriptor, colors []color.RGBA, sequence uint8) ([]byte, error) {
	p := packet.NewArtDMXPacket()
	addr := universeToAddress(uint16(pd.Universe))
	p.Sequence = sequence
	p.Net = addr.Net
	p.SubUni = addr.SubUni

	for i, idx := range pd.Indices {
		if idx < 0 || idx >= len(colors) {
			continue
		}
		c := colors[idx]
		p.Data[i*3] = c.R
		p.Data[i*3+1] = c.G
		p.Data[i*3+2] = c.B
	}

	// Length must be even.
	length := pd.Channels
	if length%2 == 1 {
		length++
	}
	b, err := p.MarshalBinary()
	if err != nil {
		return nil, err
	}
	// MarshalBinary always announces 512 channels; send only the used ones.
	if len(b) < dmxHeaderLen+length {
		return nil, fmt.Errorf("short ArtDmx packet: %d bytes", len(b))
	}
	binary.BigEndian.PutUint16(b[dmxHeaderLen-2:], uint16(length))
	return b[:dmxHeaderLen+length], nil
}

// dmxHeaderLen is the ArtDmx header size; the Length field is its last two bytes.
const dmxHeaderLen = 18

func encodeSync() ([]byte, error) {
	p := packet.NewArtSyncPacket()
	p.OpCode = code.OpSync
	return p.MarshalBinary()
}

// universeToAddress converts a dmx universe to art-net address
// universe: старший байт - Net, младший байт - SubUni.
func universeToAddress(universe uint16) artnet.Address {
	v := make([]uint8, 2)
	binary.BigEndian.PutUint16(v, universe)

	return artnet.Address{
		Net:    v[0] & 0x7f,
		SubUni: v[1],
	}
}
