package artnet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Haba1234/go-artnet"

	"artnetmapper/internal/logger"
)

// Discovery polls the Art-Net network for nodes so the operator can check that the
// controller is reachable.
type Discovery struct {
	logger   logger.Logger
	sender   *artnet.Controller
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewDiscovery creates a discovery controller on the local interface inside addressRange.
func NewDiscovery(log logger.Logger, addressRange string, interval time.Duration) (*Discovery, error) {
	ip, err := FindArtNetIP(addressRange)
	if err != nil {
		return nil, fmt.Errorf("failed to find the art-net IP: %w", err)
	}

	if len(ip) == 0 {
		return nil, errors.New("failed to find the art-net IP: No interface found")
	}

	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hostname: %w", err)
	}

	host = strings.ToLower(strings.Split(host, ".")[0])
	log.With(logger.Fields{"module": "discovery"}).Infof("Using ArtNet IP %s and hostname %s", ip.String(), host)

	senderLogger := artnet.NewDefaultLogger("info")

	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Discovery{
		logger:   log,
		sender:   artnet.NewController(host, ip, senderLogger, artnet.MaxFPS(1)),
		interval: interval,
		done:     make(chan struct{}),
	}, nil
}

// Start polling. report, if not nil, is called with the node list on every interval.
func (d *Discovery) Start(ctx context.Context, report func([]Node)) error {
	if err := d.sender.Start(); err != nil {
		return fmt.Errorf("failed to start Controller: %w", err)
	}
	ctx, d.cancel = context.WithCancel(ctx)
	go d.watch(ctx, report)
	return nil
}

// Stop the discovery.
func (d *Discovery) Stop() {
	if d.cancel != nil {
		d.cancel()
		<-d.done
	}
	d.sender.Stop()
}

func (d *Discovery) watch(ctx context.Context, report func([]Node)) {
	defer close(d.done)
	t := time.NewTicker(d.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			nodes := Nodes(d.sender.Nodes)
			d.logger.With(logger.Fields{"module": "discovery"}).Debugf("Currently %d devices are registered", len(nodes))
			for _, n := range nodes {
				d.logger.With(logger.Fields{"module": "discovery"}).Debug(n.String())
			}
			if report != nil {
				report(nodes)
			}
		}
	}
}

// Nodes converts the controller's node list.
func Nodes(nodes []*artnet.ControlledNode) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		node := Node{
			Name:         n.Node.Name,
			IP:           n.UDPAddress.String(),
			Manufacturer: n.Node.Manufacturer,
			Description:  n.Node.Description,
		}
		for _, p := range n.Node.InputPorts {
			node.Inputs = append(node.Inputs, fmt.Sprintf("%s: %s", p.Address.String(), p.Type.String()))
		}
		for _, p := range n.Node.OutputPorts {
			node.Outputs = append(node.Outputs, fmt.Sprintf("%s: %s", p.Address.String(), p.Type.String()))
		}
		out = append(out, node)
	}
	return out
}

// String returns a string representation of the given Node.
func (n Node) String() string {
	return fmt.Sprintf(
		" | IP=%s name=%q manufacturer=%q desc=%q inputs=%q outputs=%q",
		n.IP, n.Name, n.Manufacturer, n.Description,
		strings.Join(n.Inputs, "; "), strings.Join(n.Outputs, "; "),
	)
}
