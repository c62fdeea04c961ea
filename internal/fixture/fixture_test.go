package fixture

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artnetmapper/internal/geometry"
)

func sorted(in []int) []int {
	out := append([]int{}, in...)
	sort.Ints(out)
	return out
}

func TestOrderingsArePermutations(t *testing.T) {
	for _, kind := range []Kind{Butterfly, Flower} {
		t.Run(kind.String(), func(t *testing.T) {
			f := New(kind, 0, 0, 100, geometry.Vec3{X: 1, Y: 2, Z: 3})

			require.Len(t, f.Wiring, kind.PointCount())
			require.Len(t, f.Positions(), kind.PointCount())
			want := seq(100, kind.PointCount())
			assert.Equal(t, want, f.Wiring)
			assert.Equal(t, want, sorted(f.Clockwise))
			assert.Equal(t, want, sorted(f.CounterClockwise))
			assert.Equal(t, want, sorted(f.ByRow))
		})
	}
}

func TestButterflyLayout(t *testing.T) {
	f := New(Butterfly, 3, 7, 0, geometry.Vec3{X: 10, Y: 120, Z: 5})

	assert.Equal(t, 3, f.StrandIndex)
	assert.Equal(t, 7, f.RunIndex)

	pos := f.Positions()
	assert.Equal(t, geometry.Vec3{X: 10, Y: 120, Z: 5}, pos[0])
	assert.InDelta(t, 120+7*LEDSpacing, pos[7].Y, 1e-9)
	assert.InDelta(t, 10+StripSpacing, pos[8].X, 1e-9)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 15, 14, 13, 12, 11, 10, 9, 8}, f.Clockwise)
	assert.Equal(t, []int{8, 9, 10, 11, 12, 13, 14, 15, 7, 6, 5, 4, 3, 2, 1, 0}, f.CounterClockwise)
	assert.Equal(t, []int{0, 8, 1, 9}, f.ByRow[:4])
}

func TestFlowerLayout(t *testing.T) {
	f := New(Flower, 0, 0, 20, geometry.Vec3{X: 0, Y: 96, Z: 12})

	assert.Equal(t, []int{20, 21}, f.Mappable)
	pos := f.Positions()
	assert.Equal(t, geometry.Vec3{X: FlowerRadius, Y: 96, Z: 12}, pos[1])
	assert.Equal(t, geometry.Vec3{X: 0, Y: 96 - FlowerRadius, Z: 12}, pos[4])
}

func TestUnknownKind(t *testing.T) {
	assert.Equal(t, "unknown", Kind(9).String())
	assert.Equal(t, 0, Kind(9).PointCount())
}
