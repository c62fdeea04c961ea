// Package model builds the physical to logical addressing model: every light point of
// every fixture, ordered into one global buffer, plus the run and strand hierarchy.
package model

import (
	"artnetmapper/internal/fixture"
	"artnetmapper/internal/geometry"
)

// Point is one LED. Index is its immutable position in the global buffer.
type Point struct {
	Index int
	geometry.Vec3
}

// Strand is a chain of fixtures wired in series.
type Strand struct {
	ID       int // ID - глобальный номер, выдаётся по порядку создания.
	RunIndex int // RunIndex - номер strand внутри run.
	Run      int // Run - номер run.
	Kind     fixture.Kind
	Fixtures []*fixture.Fixture
	// Points is the concatenated wiring order of all fixtures, i.e. physical wire order.
	Points []int
}

// Run is one suspension line made of one or more strands.
type Run struct {
	Index   int
	Kind    fixture.Kind
	Curves  geometry.Path
	Strands []*Strand
	Points  []int
}

// Fixtures returns the fixtures of all strands of the run in order.
func (r *Run) Fixtures() []*fixture.Fixture {
	var out []*fixture.Fixture
	for _, s := range r.Strands {
		out = append(out, s.Fixtures...)
	}
	return out
}

// Model is the finished, read-only topology. It is safe for concurrent readers.
type Model struct {
	points  []Point
	runs    []*Run
	strands []*Strand
}

// Len returns the size of the global point buffer.
func (m *Model) Len() int {
	return len(m.points)
}

// Points returns the global point buffer. Callers must not modify it.
func (m *Model) Points() []Point {
	return m.points
}

// Runs returns all runs, primary runs first.
func (m *Model) Runs() []*Run {
	return m.runs
}

// Strands returns all strands ordered by ID.
func (m *Model) Strands() []*Strand {
	return m.strands
}

// Strand looks up a strand by its global ID.
func (m *Model) Strand(id int) (*Strand, bool) {
	if id < 0 || id >= len(m.strands) {
		return nil, false
	}
	return m.strands[id], true
}

// Run looks up a run by index.
func (m *Model) Run(i int) (*Run, bool) {
	if i < 0 || i >= len(m.runs) {
		return nil, false
	}
	return m.runs[i], true
}
