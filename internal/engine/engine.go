// Package engine runs the frame loop: render a test pattern into the color buffer and
// transmit it with the installed output plan.
package engine

import (
	"context"
	"errors"
	"image/color"
	"time"

	"artnetmapper/internal/clientmqtt"
	"artnetmapper/internal/logger"
	"artnetmapper/internal/model"
	"artnetmapper/internal/output"
	"artnetmapper/internal/render"
)

// Transmitter sends frames with an installed plan.
type Transmitter interface {
	Install(plan *output.Plan) error
	Disable()
	Send(colors []color.RGBA) error
}

// Engine owns the color buffer and the current output configuration.
type Engine struct {
	log     logger.Logger
	model   *model.Model
	mapper  *output.Mapper
	sender  Transmitter
	pattern render.Pattern
	period  time.Duration
	cfg     output.Config
	colors  []color.RGBA
	onPlan  func(*output.Plan)
}

// New конструктор.
func New(log logger.Logger, m *model.Model, mapper *output.Mapper, sender Transmitter, pattern render.Pattern, fps float64) *Engine {
	return &Engine{
		log:     log,
		model:   m,
		mapper:  mapper,
		sender:  sender,
		pattern: pattern,
		period:  time.Duration(float64(time.Second) / fps),
		colors:  make([]color.RGBA, m.Len()),
	}
}

// OnPlan registers a callback invoked after every rebuild.
func (e *Engine) OnPlan(f func(*output.Plan)) {
	e.onPlan = f
}

// Colors returns the color buffer.
func (e *Engine) Colors() []color.RGBA {
	return e.colors
}

// Configure rebuilds the output plan for cfg. Transmission is disabled before the
// rebuild and the new plan replaces the old one as a whole. An unresolved destination
// leaves output disabled and is returned to the caller.
func (e *Engine) Configure(cfg output.Config) (*output.Plan, error) {
	log := e.log.With(logger.Fields{"module": "engine"})
	e.sender.Disable()
	e.cfg = cfg

	plan, rebuildErr := e.mapper.Rebuild(cfg, e.model)
	if e.onPlan != nil {
		e.onPlan(plan)
	}

	installErr := e.sender.Install(plan)
	var uerr *output.UnresolvedHostError
	if errors.As(rebuildErr, &uerr) {
		log.Errorf("output disabled: %v", rebuildErr)
		return plan, rebuildErr
	}
	if installErr != nil {
		log.Errorf("output disabled: %v", installErr)
		return plan, installErr
	}
	return plan, nil
}

// Frame renders and transmits one frame. The buffer is fully written before sending.
func (e *Engine) Frame(deltaMs float64) error {
	e.pattern.Render(deltaMs, e.colors)
	return e.sender.Send(e.colors)
}

// Run drives frames until ctx is done. Updates are applied between frames, so a frame
// is always sent with a single complete plan.
func (e *Engine) Run(ctx context.Context, updates <-chan clientmqtt.OutputUpdate) {
	log := e.log.With(logger.Fields{"module": "engine"})
	t := time.NewTicker(e.period)
	defer t.Stop()
	defer e.sender.Disable()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			log.Info("output configuration changed, rebuilding")
			_, _ = e.Configure(u.Apply(e.cfg))
		case now := <-t.C:
			delta := now.Sub(last)
			last = now
			if err := e.Frame(float64(delta) / float64(time.Millisecond)); err != nil {
				log.Warnf("frame not fully sent: %v", err)
			}
		}
	}
}
