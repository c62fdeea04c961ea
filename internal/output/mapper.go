// Package output distributes strand point data over Art-Net universes.
package output

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"artnetmapper/internal/config"
	"artnetmapper/internal/logger"
	"artnetmapper/internal/model"
)

// Resolver resolves a UDP destination, net.ResolveUDPAddr by default.
type Resolver func(network, address string) (*net.UDPAddr, error)

// Mapper builds packet plans from output configuration.
type Mapper struct {
	log     logger.Logger
	resolve Resolver
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithResolver replaces the destination resolver.
func WithResolver(r Resolver) Option {
	return func(m *Mapper) {
		m.resolve = r
	}
}

// NewMapper конструктор.
func NewMapper(log logger.Logger, opts ...Option) *Mapper {
	m := &Mapper{log: log, resolve: net.ResolveUDPAddr}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ParseSlot splits a comma separated strand ID list. Blank entries are ignored and
// entries that are not integers are returned as warnings.
func ParseSlot(output int, s string) ([]int, []error) {
	var (
		ids      []int
		warnings []error
	)
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			warnings = append(warnings, &MalformedReferenceWarning{Output: output, Entry: part})
			continue
		}
		ids = append(ids, id)
	}
	return ids, warnings
}

// Rebuild builds a new plan for cfg against mdl.
//
// Each non-empty output concatenates the wire order points of its strands and splits
// them into universes of at most MaxPixelsPerUniverse pixels. Universe numbers start at
// cfg.StartUniverse and continue across outputs without gaps. One sync packet closes
// the plan.
//
// Bad strand references are skipped and collected in Plan.Warnings. The only error
// returned is *UnresolvedHostError, together with a complete plan.
func (m *Mapper) Rebuild(cfg Config, mdl *model.Model) (*Plan, error) {
	log := m.log.With(logger.Fields{"module": "output"})
	dest := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	log.Infof("Using ArtNet: %s", dest)

	plan := &Plan{Destination: dest}
	warn := func(w error) {
		log.Warn(w.Error())
		plan.Warnings = append(plan.Warnings, w)
	}

	universe := cfg.StartUniverse
	for out, slot := range cfg.Outputs {
		if out >= config.MaxOutputs {
			break
		}
		if strings.TrimSpace(slot) == "" {
			continue
		}
		log.Debugf("Loading mapping for output %d: %q", out+1, slot)

		ids, warnings := ParseSlot(out, slot)
		for _, w := range warnings {
			warn(w)
		}

		var points []int
		for _, id := range ids {
			s, ok := mdl.Strand(id)
			if !ok {
				warn(&OutOfRangeReferenceWarning{Output: out, StrandID: id})
				continue
			}
			points = append(points, s.Points...)
		}
		if len(points) == 0 {
			warn(&EmptyOutputWarning{Output: out, Config: slot})
			continue
		}

		for start := 0; start < len(points); start += MaxPixelsPerUniverse {
			end := start + MaxPixelsPerUniverse
			if end > len(points) {
				end = len(points)
			}
			chunk := make([]int, end-start)
			copy(chunk, points[start:end])
			plan.Packets = append(plan.Packets, PacketDescriptor{
				Kind:        KindDMX,
				Output:      out,
				Universe:    universe,
				Indices:     chunk,
				Channels:    len(chunk) * ChannelsPerPixel,
				Destination: dest,
			})
			log.Debugf("Adding datagram: universe=%d points=%d", universe, len(chunk))
			universe++
		}
	}
	if universe-1 > MaxUniverse {
		warn(&UniverseOverflowWarning{Last: universe - 1})
	}

	plan.Packets = append(plan.Packets, PacketDescriptor{
		Kind:        KindSync,
		Output:      -1,
		Universe:    -1,
		Destination: dest,
	})

	var (
		addr *net.UDPAddr
		err  error
	)
	if cfg.Host == "" {
		err = errors.New("no host configured")
	} else {
		addr, err = m.resolve("udp", dest)
	}
	if err != nil {
		uerr := &UnresolvedHostError{Host: cfg.Host, Port: cfg.Port, Err: err}
		log.Error(uerr.Error())
		return plan, uerr
	}
	plan.Addr = addr
	log.Infof("output plan built: %d universes", len(plan.Packets)-1)
	return plan, nil
}
