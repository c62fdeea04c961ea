package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artnetmapper/internal/fixture"
	"artnetmapper/internal/geometry"
	"artnetmapper/internal/logger"
)

func testLogger() *logger.Log {
	l, _ := test.NewNullLogger()
	return logger.Wrap(l)
}

func uniform(n, length int) map[int]int {
	out := make(map[int]int, n)
	for i := 0; i < n; i++ {
		out[i] = length
	}
	return out
}

func params(runs, strands, fixtures, secondary int) Params {
	p := Params{
		Runs:              runs,
		StrandsPerRun:     strands,
		FixturesPerStrand: fixtures,
		SecondaryRuns:     secondary,
		Layout:            DefaultLayout(),
	}
	p.StrandLengths = uniform(p.StrandCount(), fixtures)
	return p
}

func TestBuildBufferSize(t *testing.T) {
	p := params(3, 2, 10, 4)
	p.StrandLengths[1] = 7
	p.StrandLengths[6] = 3

	m, err := Build(testLogger(), p)
	require.NoError(t, err)

	want := 0
	for _, r := range m.Runs() {
		for _, s := range r.Strands {
			for _, f := range s.Fixtures {
				want += f.Kind.PointCount()
			}
		}
	}
	assert.Equal(t, want, m.Len())
	assert.Equal(t, (10+7+10*4)*16+(3+10*3)*5, m.Len())
	assert.Len(t, m.Runs(), 7)
}

func TestBuildPointIndices(t *testing.T) {
	m, err := Build(testLogger(), params(2, 2, 5, 2))
	require.NoError(t, err)

	for i, p := range m.Points() {
		require.Equal(t, i, p.Index)
	}

	// The buffer is the concatenation of every run's points in creation order.
	var all []int
	for _, r := range m.Runs() {
		all = append(all, r.Points...)
	}
	want := make([]int, m.Len())
	for i := range want {
		want[i] = i
	}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("run points mismatch (-want +got):\n%s", diff)
	}
}

func TestStrandIDsAreDense(t *testing.T) {
	m, err := Build(testLogger(), params(3, 2, 4, 4))
	require.NoError(t, err)

	require.Len(t, m.Strands(), 10)
	for i, s := range m.Strands() {
		assert.Equal(t, i, s.ID)
		got, ok := m.Strand(i)
		require.True(t, ok)
		assert.Same(t, s, got)
	}
	_, ok := m.Strand(10)
	assert.False(t, ok)
	_, ok = m.Strand(-1)
	assert.False(t, ok)

	assert.Equal(t, fixture.Butterfly, m.Strands()[5].Kind)
	assert.Equal(t, 2, m.Strands()[5].Run)
	assert.Equal(t, 1, m.Strands()[5].RunIndex)
	assert.Equal(t, fixture.Flower, m.Strands()[6].Kind)
	assert.Equal(t, 3, m.Strands()[6].Run)
}

func TestStrandPointsAreWireOrder(t *testing.T) {
	m, err := Build(testLogger(), params(1, 2, 3, 0))
	require.NoError(t, err)

	s, _ := m.Strand(1)
	var want []int
	for _, f := range s.Fixtures {
		want = append(want, f.Wiring...)
	}
	assert.Equal(t, want, s.Points)
	assert.Equal(t, 48, s.Points[0])
}

func TestCurveParameterIsRunRelative(t *testing.T) {
	p := params(2, 2, 10, 0)
	m, err := Build(testLogger(), p)
	require.NoError(t, err)

	run, ok := m.Run(1)
	require.True(t, ok)
	fixtures := run.Fixtures()
	require.Len(t, fixtures, 20)

	for k, f := range fixtures {
		assert.Equal(t, k, f.RunIndex)
		c := run.Curves.At(float64(k) / 20)
		assert.InDelta(t, c.X, f.Position.X, 1e-9)
		assert.InDelta(t, c.Y, f.Position.Z, 1e-9)
		assert.Equal(t, p.Layout.Height, f.Position.Y)
	}

	// First fixture of the second strand sits at the join of the two curves.
	second := run.Strands[1].Fixtures[0]
	assert.Equal(t, 0, second.StrandIndex)
	assert.InDelta(t, run.Curves[0].End.Y, second.Position.Z, 1e-9)
}

func TestUnderPopulatedStrandCompressesTowardStart(t *testing.T) {
	p := params(1, 2, 10, 0)
	p.StrandLengths[0] = 5
	m, err := Build(testLogger(), p)
	require.NoError(t, err)

	run, _ := m.Run(0)
	// Strand 1 continues right after the 5 fixtures of strand 0 instead of starting
	// at the curve join.
	first := run.Strands[1].Fixtures[0]
	assert.Equal(t, 5, first.RunIndex)
	assert.InDelta(t, run.Curves.At(5.0/20).Y, first.Position.Z, 1e-9)

	last := run.Strands[1].Fixtures[9]
	assert.Less(t, last.Position.Z, run.Curves[1].End.Y)
}

func TestCurvesPerRun(t *testing.T) {
	m, err := Build(testLogger(), params(3, 2, 10, 0))
	require.NoError(t, err)

	r0, _ := m.Run(0)
	r1, _ := m.Run(1)
	r2, _ := m.Run(2)

	assert.Equal(t, geometry.Vec3{X: 0, Y: 0}, r0.Curves[0].Start)
	assert.Equal(t, geometry.Vec3{X: -100, Y: 30}, r0.Curves[0].C1)
	assert.Equal(t, geometry.Vec3{X: 24 + 100, Y: 30}, r1.Curves[0].C1)
	assert.Equal(t, geometry.Vec3{X: 48 + 200, Y: 150}, r2.Curves[0].C1)
	assert.Equal(t, geometry.Vec3{X: 24, Y: 240}, r1.Curves[1].End)
	assert.Equal(t, r1.Curves[0].End, r1.Curves[1].Start)
}

func TestFlowerRuns(t *testing.T) {
	p := params(0, 0, 0, 2)
	p.StrandLengths = map[int]int{0: 3, 1: 3}
	m, err := Build(testLogger(), p)
	require.NoError(t, err)
	assert.Equal(t, 2*3*fixture.Flower.PointCount(), m.Len())

	r1, _ := m.Run(1)
	require.Len(t, r1.Strands[0].Fixtures, 3)
	f := r1.Strands[0].Fixtures[2]
	assert.Equal(t, geometry.Vec3{X: 60, Y: 96 - 24, Z: 132}, f.Position)
	assert.Empty(t, r1.Curves)
}

func TestBuildConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
		param  string
	}{
		{name: "missing strand", mutate: func(p *Params) { delete(p.StrandLengths, 3) }, param: "strands"},
		{name: "negative length", mutate: func(p *Params) { p.StrandLengths[0] = -1 }, param: "strands.0"},
		{name: "negative runs", mutate: func(p *Params) { p.Runs = -1 }, param: "runs"},
		{name: "no strands per run", mutate: func(p *Params) { p.StrandsPerRun = 0 }, param: "strands-per-run"},
		{name: "no fixtures per strand", mutate: func(p *Params) { p.FixturesPerStrand = 0 }, param: "fixtures-per-strand"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params(2, 2, 10, 1)
			tt.mutate(&p)

			m, err := Build(testLogger(), p)
			assert.Nil(t, m)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.param, cfgErr.Param)
		})
	}
}

func TestParseStrandLengths(t *testing.T) {
	got, err := ParseStrandLengths(map[string]int{"0": 20, " 1": 18, "2": 0})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 20, 1: 18, 2: 0}, got)

	for _, bad := range []map[string]int{
		{"x": 1},
		{"-1": 1},
		{"1": 1, "01": 2},
	} {
		_, err := ParseStrandLengths(bad)
		var cfgErr *ConfigurationError
		assert.True(t, errors.As(err, &cfgErr), "input %v", bad)
	}
}
