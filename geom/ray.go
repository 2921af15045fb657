package geom

// Ray is a half-line with an associated wavelength.
//
// Dir is expected to be unit length; use NewRay to guarantee it. Wavelength
// is in micrometres and rides along so the tracer can resolve dispersion
// without extra plumbing.
type Ray struct {
	Origin     Vec3
	Dir        Vec3
	Wavelength float64
}

// NewRay builds a ray with a normalized direction.
func NewRay(origin, dir Vec3, wavelength float64) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize(), Wavelength: wavelength}
}

// At returns the point origin + t·dir.
func (r Ray) At(t float64) Vec3 {
	return Vec3{
		r.Origin.X + r.Dir.X*t,
		r.Origin.Y + r.Dir.Y*t,
		r.Origin.Z + r.Dir.Z*t,
	}
}

// Frame is a pure-translation local frame stacked along the optical axis:
// the local origin sits at VertexZ on the global z-axis. Directions are
// unchanged by the transform; only positions shift.
type Frame struct {
	VertexZ float64
}

// ToLocal maps a global position into the frame.
func (f Frame) ToLocal(p Vec3) Vec3 { return Vec3{p.X, p.Y, p.Z - f.VertexZ} }

// ToGlobal maps a local position back to global coordinates.
func (f Frame) ToGlobal(p Vec3) Vec3 { return Vec3{p.X, p.Y, p.Z + f.VertexZ} }
