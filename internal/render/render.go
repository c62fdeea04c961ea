// Package render holds the test patterns used to check the wiring. Patterns write one
// color per global point index.
package render

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"artnetmapper/internal/config"
	"artnetmapper/internal/model"
)

// Pattern renders one frame into colors, which has one entry per model point.
type Pattern interface {
	Name() string
	Render(deltaMs float64, colors []color.RGBA)
}

// Factory creates a pattern for a model.
type Factory func(m *model.Model, cfg config.RenderConf, c color.RGBA) (Pattern, error)

var registry = map[string]Factory{
	"solid":  newSolid,
	"strand": newStrand,
	"run":    newRun,
}

// Names returns the registered pattern names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New creates the pattern named in cfg.
func New(m *model.Model, cfg config.RenderConf) (Pattern, error) {
	f, ok := registry[cfg.Pattern]
	if !ok {
		return nil, fmt.Errorf("unknown pattern %q, expected one of %s", cfg.Pattern, strings.Join(Names(), ", "))
	}
	c, err := ParseColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	return f(m, cfg, c)
}

// ParseColor parses #rrggbb. An empty string is white.
func ParseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}, nil
	}
	var r, g, b uint8
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q, expected #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func blank(colors []color.RGBA) {
	for i := range colors {
		colors[i] = color.RGBA{A: 255}
	}
}

func fill(colors []color.RGBA, points []int, c color.RGBA) {
	for _, p := range points {
		colors[p] = c
	}
}

type solid struct {
	c color.RGBA
}

func newSolid(_ *model.Model, _ config.RenderConf, c color.RGBA) (Pattern, error) {
	return &solid{c: c}, nil
}

func (s *solid) Name() string { return "solid" }

func (s *solid) Render(_ float64, colors []color.RGBA) {
	for i := range colors {
		colors[i] = s.c
	}
}

// strand lights a single strand to identify it on site.
type strand struct {
	points []int
	c      color.RGBA
}

func newStrand(m *model.Model, cfg config.RenderConf, c color.RGBA) (Pattern, error) {
	s, ok := m.Strand(cfg.Strand)
	if !ok {
		return nil, fmt.Errorf("strand pattern: strand %d does not exist", cfg.Strand)
	}
	return &strand{points: s.Points, c: c}, nil
}

func (s *strand) Name() string { return "strand" }

func (s *strand) Render(_ float64, colors []color.RGBA) {
	blank(colors)
	fill(colors, s.points, s.c)
}

// run lights a whole run, or with tracer a single point walking along the run in wire
// order, one point per frame.
type run struct {
	points  []int
	tracer  bool
	current int
	c       color.RGBA
}

func newRun(m *model.Model, cfg config.RenderConf, c color.RGBA) (Pattern, error) {
	r, ok := m.Run(cfg.Run)
	if !ok {
		return nil, fmt.Errorf("run pattern: run %d does not exist", cfg.Run)
	}
	return &run{points: r.Points, tracer: cfg.Tracer, c: c}, nil
}

func (r *run) Name() string { return "run" }

func (r *run) Render(_ float64, colors []color.RGBA) {
	blank(colors)
	if !r.tracer {
		fill(colors, r.points, r.c)
		return
	}
	if len(r.points) == 0 {
		return
	}
	colors[r.points[r.current]] = r.c
	r.current = (r.current + 1) % len(r.points)
}
