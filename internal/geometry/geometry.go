package geometry

// Vec3 is a position in model space (inches).
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the sum of two vectors.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale multiplies every coordinate by f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// Evaluate returns the position on the cubic Bezier curve defined by start, c1, c2 and end
// at the parameter t.
//
// t is normally in [0,1] but is not clamped: values outside the range extrapolate the
// polynomial past the end points.
func Evaluate(t float64, start, c1, c2, end Vec3) Vec3 {
	u := 1 - t
	uu := u * u
	uuu := uu * u
	tt := t * t
	ttt := tt * t

	// (1-t)^3*start + 3(1-t)^2*t*c1 + 3(1-t)*t^2*c2 + t^3*end
	return Vec3{
		X: uuu*start.X + 3*uu*t*c1.X + 3*u*tt*c2.X + ttt*end.X,
		Y: uuu*start.Y + 3*uu*t*c1.Y + 3*u*tt*c2.Y + ttt*end.Y,
		Z: uuu*start.Z + 3*uu*t*c1.Z + 3*u*tt*c2.Z + ttt*end.Z,
	}
}

// Curve is an immutable cubic Bezier segment.
type Curve struct {
	Start Vec3
	C1    Vec3
	C2    Vec3
	End   Vec3
}

// NewCurve конструктор.
func NewCurve(start, c1, c2, end Vec3) Curve {
	return Curve{Start: start, C1: c1, C2: c2, End: end}
}

// At evaluates the curve at t. See Evaluate for the behaviour outside [0,1].
func (c Curve) At(t float64) Vec3 {
	return Evaluate(t, c.Start, c.C1, c.C2, c.End)
}

// Path is a chain of curves traversed with one parameter.
type Path []Curve

// At maps u in [0,1] across the chained curves, each curve taking an equal share of
// the parameter range. u past the last curve extrapolates that curve.
func (p Path) At(u float64) Vec3 {
	if len(p) == 0 {
		return Vec3{}
	}
	scaled := u * float64(len(p))
	seg := int(scaled)
	if scaled < 0 {
		seg = 0
	}
	if seg > len(p)-1 {
		seg = len(p) - 1
	}
	return p[seg].At(scaled - float64(seg))
}
