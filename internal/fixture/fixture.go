// Package fixture describes the addressable light fixtures hung along a run.
//
// A fixture owns no points. It records the global buffer indices of its points in
// several traversal orders; the positions live in the model's point buffer.
package fixture

import "artnetmapper/internal/geometry"

// Kind of a fixture.
type Kind int

const (
	Butterfly Kind = iota
	Flower
)

func (k Kind) String() string {
	switch k {
	case Butterfly:
		return "butterfly"
	case Flower:
		return "flower"
	default:
		return "unknown"
	}
}

// PointCount returns the fixed number of points of a fixture kind.
func (k Kind) PointCount() int {
	switch k {
	case Butterfly:
		return butterflyPoints
	case Flower:
		return flowerPoints
	default:
		return 0
	}
}

// Fixture is one placed fixture.
type Fixture struct {
	Kind        Kind
	StrandIndex int           // StrandIndex - позиция на strand.
	RunIndex    int           // RunIndex - позиция на всём run.
	Position    geometry.Vec3 // Position - точка привязки.

	// Wiring is the electrical order of the points and is what gets addressed.
	Wiring           []int
	Clockwise        []int
	CounterClockwise []int
	ByRow            []int
	// Mappable lists the points that carry distinct data on the wire.
	Mappable []int

	positions []geometry.Vec3
}

// Positions returns the point positions in wiring order.
func (f *Fixture) Positions() []geometry.Vec3 {
	return f.positions
}

// New creates a fixture of the given kind anchored at pos. Its points receive the
// consecutive buffer indices starting at firstIndex.
func New(kind Kind, strandIndex, runIndex, firstIndex int, pos geometry.Vec3) *Fixture {
	f := &Fixture{
		Kind:        kind,
		StrandIndex: strandIndex,
		RunIndex:    runIndex,
		Position:    pos,
	}
	switch kind {
	case Butterfly:
		f.buildButterfly(firstIndex)
	case Flower:
		f.buildFlower(firstIndex)
	}
	return f
}

func seq(first, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = first + i
	}
	return out
}

func reversed(in []int) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
