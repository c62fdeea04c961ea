package engine

import (
	"context"
	"errors"
	"image/color"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artnetmapper/internal/clientmqtt"
	"artnetmapper/internal/config"
	"artnetmapper/internal/logger"
	"artnetmapper/internal/model"
	"artnetmapper/internal/output"
	"artnetmapper/internal/render"
)

type event struct {
	kind string
	plan *output.Plan
}

type fakeSender struct {
	mu      sync.Mutex
	events  []event
	enabled bool
	frames  [][]color.RGBA
}

func (f *fakeSender) Install(plan *output.Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event{kind: "install", plan: plan})
	if plan.Addr == nil {
		return errors.New("no destination")
	}
	f.enabled = true
	return nil
}

func (f *fakeSender) Disable() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event{kind: "disable"})
	f.enabled = false
}

func (f *fakeSender) Send(colors []color.RGBA) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enabled {
		f.frames = append(f.frames, append([]color.RGBA{}, colors...))
	}
	return nil
}

func (f *fakeSender) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *fakeSender) installs() []*output.Plan {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*output.Plan
	for _, e := range f.events {
		if e.kind == "install" {
			out = append(out, e.plan)
		}
	}
	return out
}

func newTestEngine(t *testing.T, resolve output.Resolver) (*Engine, *fakeSender) {
	t.Helper()
	l, _ := test.NewNullLogger()
	log := logger.Wrap(l)
	m, err := model.Build(log, model.Params{
		SecondaryRuns: 2,
		StrandLengths: map[int]int{0: 40, 1: 10},
		Layout:        model.DefaultLayout(),
	})
	require.NoError(t, err)
	p, err := render.New(m, config.RenderConf{Pattern: "strand", Strand: 1, Color: "#ff0000"})
	require.NoError(t, err)

	sender := &fakeSender{}
	return New(log, m, output.NewMapper(log, output.WithResolver(resolve)), sender, p, 200), sender
}

func resolved(network, address string) (*net.UDPAddr, error) {
	return net.ResolveUDPAddr(network, address)
}

func TestConfigureDisablesBeforeInstall(t *testing.T) {
	e, sender := newTestEngine(t, resolved)

	plan, err := e.Configure(output.Config{Host: "127.0.0.1", Port: 6454, Outputs: []string{"0,1"}})
	require.NoError(t, err)
	assert.Len(t, plan.DMX(), 2)

	require.Len(t, sender.events, 2)
	assert.Equal(t, "disable", sender.events[0].kind)
	assert.Equal(t, "install", sender.events[1].kind)
	assert.Same(t, plan, sender.events[1].plan)
}

func TestConfigureUnresolvedHost(t *testing.T) {
	e, sender := newTestEngine(t, func(network, address string) (*net.UDPAddr, error) {
		return nil, errors.New("no such host")
	})

	var published *output.Plan
	e.OnPlan(func(p *output.Plan) { published = p })

	plan, err := e.Configure(output.Config{Host: "nowhere.invalid", Port: 6454, Outputs: []string{"0"}})
	var uerr *output.UnresolvedHostError
	require.True(t, errors.As(err, &uerr))
	require.NotNil(t, plan)
	assert.Len(t, plan.DMX(), 2)
	assert.Same(t, plan, published)
	assert.False(t, sender.enabled)
}

func TestFrameRendersBeforeSend(t *testing.T) {
	e, sender := newTestEngine(t, resolved)
	_, err := e.Configure(output.Config{Host: "127.0.0.1", Port: 6454, Outputs: []string{"1"}})
	require.NoError(t, err)

	require.NoError(t, e.Frame(16))
	require.Equal(t, 1, sender.frameCount())

	s, _ := e.model.Strand(1)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, sender.frames[0][s.Points[0]])
	assert.Equal(t, color.RGBA{A: 255}, sender.frames[0][0])
}

func TestRunAppliesUpdates(t *testing.T) {
	e, sender := newTestEngine(t, resolved)
	_, err := e.Configure(output.Config{Host: "127.0.0.1", Port: 6454, Outputs: []string{"0"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan clientmqtt.OutputUpdate)
	done := make(chan struct{})
	go func() {
		e.Run(ctx, updates)
		close(done)
	}()

	updates <- clientmqtt.OutputUpdate{Outputs: []string{"1"}}

	require.Eventually(t, func() bool {
		return len(sender.installs()) == 2 && sender.frameCount() > 0
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done

	installs := sender.installs()
	second := installs[1]
	require.Len(t, second.DMX(), 1)
	assert.Len(t, second.DMX()[0].Indices, 50)
	assert.Equal(t, "127.0.0.1:6454", second.Destination)
	assert.False(t, sender.enabled)
}
