package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"artnetmapper/internal/fixture"
	"artnetmapper/internal/geometry"
	"artnetmapper/internal/logger"
)

// Layout holds the physical dimensions used to place fixtures, in inches.
type Layout struct {
	FixtureSpacing   float64 // FixtureSpacing - расстояние между бабочками вдоль run.
	LineSpacing      float64 // LineSpacing - расстояние между соседними run.
	Height           float64 // Height - высота подвеса бабочек.
	CurveOffsetX     float64 // CurveOffsetX - смещение управляющих точек кривой по X.
	CurveOffsetY     float64 // CurveOffsetY - смещение управляющих точек кривой по Y.
	FlowerTop        float64 // FlowerTop - высота первого цветка.
	FlowerSpacing    float64 // FlowerSpacing - шаг цветков вниз по strand.
	FlowerRunSpacing float64 // FlowerRunSpacing - расстояние между run цветков.
}

// DefaultLayout returns the installation's measured dimensions.
func DefaultLayout() Layout {
	return Layout{
		FixtureSpacing:   12,
		LineSpacing:      24,
		Height:           120,
		CurveOffsetX:     100,
		CurveOffsetY:     30,
		FlowerTop:        8 * 12,
		FlowerSpacing:    12,
		FlowerRunSpacing: 10 * 12,
	}
}

// Params describes the topology to build.
type Params struct {
	Runs              int // Runs - количество run бабочек.
	StrandsPerRun     int // StrandsPerRun - strand на один run бабочек.
	FixturesPerStrand int // FixturesPerStrand - расчётное число бабочек на strand.
	SecondaryRuns     int // SecondaryRuns - количество run цветков (по одному strand).
	// StrandLengths is the configured number of fixtures on each strand, keyed by strand ID.
	StrandLengths map[int]int
	Layout        Layout
}

// StrandCount returns the number of strands the parameters produce.
func (p Params) StrandCount() int {
	return p.Runs*p.StrandsPerRun + p.SecondaryRuns
}

// Validate checks the parameters before anything is built. Strand IDs are handed out in
// build order, so every ID in [0, StrandCount) needs a configured length.
func (p Params) Validate() error {
	switch {
	case p.Runs < 0:
		return &ConfigurationError{Param: "runs", Reason: "must not be negative"}
	case p.SecondaryRuns < 0:
		return &ConfigurationError{Param: "secondary-runs", Reason: "must not be negative"}
	case p.Runs > 0 && p.StrandsPerRun <= 0:
		return &ConfigurationError{Param: "strands-per-run", Reason: "must be positive"}
	case p.Runs > 0 && p.FixturesPerStrand <= 0:
		return &ConfigurationError{Param: "fixtures-per-strand", Reason: "must be positive"}
	}

	var missing []int
	for id := 0; id < p.StrandCount(); id++ {
		n, ok := p.StrandLengths[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if n < 0 {
			return &ConfigurationError{Param: fmt.Sprintf("strands.%d", id), Reason: "length must not be negative"}
		}
	}
	if len(missing) > 0 {
		return missingStrands(missing)
	}
	return nil
}

// ParseStrandLengths converts a strand length table keyed by decimal strand IDs.
func ParseStrandLengths(raw map[string]int) (map[int]int, error) {
	out := make(map[int]int, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || id < 0 {
			return nil, &ConfigurationError{Param: "strands." + k, Reason: "strand id is not a non-negative integer"}
		}
		if _, dup := out[id]; dup {
			return nil, &ConfigurationError{Param: "strands." + k, Reason: "duplicate strand id"}
		}
		out[id] = raw[k]
	}
	return out, nil
}

type builder struct {
	params  Params
	points  []Point
	runs    []*Run
	strands []*Strand
}

// Build validates p and constructs the model. Primary runs are built first, then the
// secondary runs, so strand IDs and point indices follow that order.
func Build(log logger.Logger, p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	b := &builder{params: p}
	for i := 0; i < p.Runs; i++ {
		b.curveRun(i)
	}
	for i := 0; i < p.SecondaryRuns; i++ {
		b.lineRun(i)
	}

	m := &Model{points: b.points, runs: b.runs, strands: b.strands}
	log.With(logger.Fields{"module": "model"}).Infof("model built: %d runs, %d strands, %d points",
		len(m.runs), len(m.strands), len(m.points))
	return m, nil
}

// curves returns the two chained curves of a primary run. Each run gets a slightly
// different bend so the preview does not draw the runs on top of each other.
func (b *builder) curves(runIndex int) geometry.Path {
	l := b.params.Layout
	cx, cy := l.CurveOffsetX, l.CurveOffsetY
	if runIndex == 0 {
		cx = -cx
	}
	if runIndex == 2 {
		cy *= 5
		cx *= 2
	}

	x := float64(runIndex) * l.LineSpacing
	length := float64(b.params.StrandsPerRun*b.params.FixturesPerStrand) * l.FixtureSpacing

	start := geometry.Vec3{X: x}
	mid := geometry.Vec3{X: x, Y: length / 2}
	end := geometry.Vec3{X: x, Y: length}

	return geometry.Path{
		geometry.NewCurve(start,
			geometry.Vec3{X: start.X + cx, Y: start.Y + cy},
			geometry.Vec3{X: mid.X + cx, Y: mid.Y - cy},
			mid),
		geometry.NewCurve(mid,
			geometry.Vec3{X: mid.X - cx, Y: mid.Y + cy},
			geometry.Vec3{X: end.X - cx, Y: end.Y - cy},
			end),
	}
}

// curveRun places butterflies along the run's curves. The curve parameter comes from the
// fixture's index on the whole run divided by the design fixture count of the run, so
// spacing continues across strand boundaries. A strand shorter than the design count
// leaves the rest of the run's span empty.
func (b *builder) curveRun(runIndex int) {
	p := b.params
	run := &Run{
		Index:  len(b.runs),
		Kind:   fixture.Butterfly,
		Curves: b.curves(runIndex),
	}
	design := float64(p.StrandsPerRun * p.FixturesPerStrand)

	placed := 0
	for s := 0; s < p.StrandsPerRun; s++ {
		strand := b.newStrand(run, s, fixture.Butterfly)
		for i := 0; i < p.StrandLengths[strand.ID]; i++ {
			k := placed + i
			c := run.Curves.At(float64(k) / design)
			// Curves are drawn in the ground plane; butterflies hang at a fixed height.
			pos := geometry.Vec3{X: c.X, Y: p.Layout.Height, Z: c.Y}
			b.addFixture(run, strand, fixture.New(fixture.Butterfly, i, k, len(b.points), pos))
		}
		placed += len(strand.Fixtures)
	}
	b.runs = append(b.runs, run)
}

// lineRun builds a single strand of flowers hanging straight down.
func (b *builder) lineRun(i int) {
	l := b.params.Layout
	x := -5 * l.FlowerSpacing
	if i%2 == 1 {
		x += 10 * l.FlowerSpacing
	}
	z := float64(i)*l.FlowerRunSpacing + l.FlowerSpacing

	run := &Run{Index: len(b.runs), Kind: fixture.Flower}
	strand := b.newStrand(run, 0, fixture.Flower)
	for k := 0; k < b.params.StrandLengths[strand.ID]; k++ {
		pos := geometry.Vec3{X: x, Y: l.FlowerTop - float64(k)*l.FlowerSpacing, Z: z}
		b.addFixture(run, strand, fixture.New(fixture.Flower, k, k, len(b.points), pos))
	}
	b.runs = append(b.runs, run)
}

func (b *builder) newStrand(run *Run, runIndex int, kind fixture.Kind) *Strand {
	s := &Strand{
		ID:       len(b.strands),
		RunIndex: runIndex,
		Run:      run.Index,
		Kind:     kind,
	}
	b.strands = append(b.strands, s)
	run.Strands = append(run.Strands, s)
	return s
}

func (b *builder) addFixture(run *Run, s *Strand, f *fixture.Fixture) {
	for i, pos := range f.Positions() {
		b.points = append(b.points, Point{Index: f.Wiring[i], Vec3: pos})
	}
	s.Fixtures = append(s.Fixtures, f)
	s.Points = append(s.Points, f.Wiring...)
	run.Points = append(run.Points, f.Wiring...)
}
