package fixture

import "artnetmapper/internal/geometry"

const (
	butterflyPoints = 16
	stripLen        = 8

	// LEDSpacing is the distance between LEDs on one strip.
	LEDSpacing = 0.3
	// StripSpacing is the distance between the left and right strip.
	StripSpacing = 0.6
)

// Butterflies are two 8 LED strips side by side, seen from the belly side. The wire
// enters at the top left, so the left strip comes first and the right strip second.
func (f *Fixture) buildButterfly(first int) {
	f.positions = make([]geometry.Vec3, 0, butterflyPoints)
	for i := 0; i < stripLen; i++ {
		f.positions = append(f.positions, geometry.Vec3{X: f.Position.X, Y: f.Position.Y + float64(i)*LEDSpacing, Z: f.Position.Z})
	}
	for i := 0; i < stripLen; i++ {
		f.positions = append(f.positions, geometry.Vec3{X: f.Position.X + StripSpacing, Y: f.Position.Y + float64(i)*LEDSpacing, Z: f.Position.Z})
	}

	left := seq(first, stripLen)
	right := seq(first+stripLen, stripLen)

	f.Wiring = append(append([]int{}, left...), right...)
	f.Mappable = f.Wiring
	f.Clockwise = append(append([]int{}, left...), reversed(right)...)
	f.CounterClockwise = append(append([]int{}, right...), reversed(left)...)

	f.ByRow = make([]int, 0, butterflyPoints)
	for i := 0; i < stripLen; i++ {
		f.ByRow = append(f.ByRow, left[i], right[i])
	}
}
