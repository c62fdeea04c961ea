package fixture

import "artnetmapper/internal/geometry"

const (
	flowerPoints = 5

	// FlowerRadius is the distance from the center LED to each petal.
	FlowerRadius = 1.5
)

// Flowers have one center LED and four petals. The petals share one address on the
// wire, so only the center and the first petal are mappable, but every LED gets a
// point so previews show the whole flower.
//
// Wiring order: center, east, north, west, south.
func (f *Fixture) buildFlower(first int) {
	x, y, z := f.Position.X, f.Position.Y, f.Position.Z
	f.positions = []geometry.Vec3{
		{X: x, Y: y, Z: z},
		{X: x + FlowerRadius, Y: y, Z: z},
		{X: x, Y: y + FlowerRadius, Z: z},
		{X: x - FlowerRadius, Y: y, Z: z},
		{X: x, Y: y - FlowerRadius, Z: z},
	}

	center := first
	east, north, west, south := first+1, first+2, first+3, first+4

	f.Wiring = []int{center, east, north, west, south}
	f.Mappable = []int{center, east}
	f.CounterClockwise = []int{center, east, north, west, south}
	f.Clockwise = []int{center, east, south, west, north}
	f.ByRow = []int{north, west, center, east, south}
}
