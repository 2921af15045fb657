package trace

import (
	"github.com/optray/optray/geom"
	"github.com/optray/optray/surface"
	"github.com/optray/optray/system"
)

// Trace propagates ray through every surface after the object plane and
// returns the per-surface path. The system is read-only; Trace allocates
// only the record slice.
//
// Contract: ray.Origin is in global coordinates (first optical vertex at
// z = 0), ray.Dir is unit, ray.Wavelength in µm. Call sys.Validate() before
// tracing; Trace itself assumes a structurally sound list.
//
// Complexity: O(surfaces · Newton iterations).
func Trace(sys *system.System, ray geom.Ray) Path {
	return traceClip(sys, ray, -1)
}

// TraceOpenStop is Trace with the aperture clip disabled at stopIdx.
// Vignetting is blocking by an aperture other than the stop: the stop
// defines the beam, so rays aimed exactly at its edge keep a full path.
// Every other clear aperture still clips.
func TraceOpenStop(sys *system.System, ray geom.Ray, stopIdx int) Path {
	return traceClip(sys, ray, stopIdx)
}

func traceClip(sys *system.System, ray geom.Ray, openIdx int) Path {
	n := len(sys.Surfaces)
	path := Path{Ray: ray, Records: make([]Record, 0, n), StoppedAt: -1}

	vertexZ := sys.VertexZ()
	pos := ray.Origin
	dir := ray.Dir
	opl := 0.0

	// Medium of the segment entering surface 1 is object space: air unless
	// the object surface carries a material.
	nBefore, err := sys.Index(0, ray.Wavelength)
	if err != nil {
		return vignette(path, 1, pos, dir, opl, ReasonMaterial)
	}

	for i := 1; i < n; i++ {
		sf := &sys.Surfaces[i]
		frame := geom.Frame{VertexZ: vertexZ[i]}
		local := frame.ToLocal(pos)

		// The image plane carries no aperture; inner surfaces clip.
		semiDia := sf.SemiDiameter
		if i == n-1 || i == openIdx {
			semiDia = 0
		}

		t, ok := geom.IntersectAspheric(local, dir, sf, semiDia, 0, 0)
		if !ok {
			return vignette(path, i, pos, dir, opl, missReason(local, dir, sf, semiDia))
		}

		hitLocal := geom.Vec3{X: local.X + dir.X*t, Y: local.Y + dir.Y*t, Z: local.Z + dir.Z*t}
		hit := frame.ToGlobal(hitLocal)
		opl += t * nBefore

		normal := surfaceNormal(sf, hitLocal)

		var (
			outDir geom.Vec3
			nAfter float64
		)
		if sf.Kind == surface.Mirror {
			outDir = geom.Reflect(dir, normal)
			nAfter = nBefore
		} else {
			nAfter, err = sys.Index(i, ray.Wavelength)
			if err != nil {
				return vignette(path, i, hit, dir, opl, ReasonMaterial)
			}
			if nAfter == nBefore {
				outDir = dir // trivial interface: identity, no FP churn
			} else {
				var refOK bool
				outDir, refOK = geom.Refract(dir, normal, nBefore, nAfter)
				if !refOK {
					return vignette(path, i, hit, dir, opl, ReasonTIR)
				}
			}
		}

		path.Records = append(path.Records, Record{
			Surface: i, Pos: hit, Dir: outDir, OPL: opl,
		})
		pos, dir, nBefore = hit, outDir, nAfter
	}
	return path
}

// surfaceNormal builds the unit normal from the sag gradient at the local
// hit point; on-axis it degenerates to +z.
func surfaceNormal(sf *surface.Surface, local geom.Vec3) geom.Vec3 {
	r := local.RadialXY()
	if r == 0 {
		return geom.Vec3{Z: 1}
	}
	dz := sf.DSag(r)
	return geom.Vec3{X: -dz * local.X / r, Y: -dz * local.Y / r, Z: 1}.Normalize()
}

// missReason refines a solver miss: when the unclipped surface is reachable
// but the clipped one is not, the ray was stopped by the aperture; otherwise
// the Newton iteration genuinely found nothing.
func missReason(local, dir geom.Vec3, sf *surface.Surface, semiDia float64) Reason {
	if semiDia <= 0 {
		return ReasonNonConvergent
	}
	if _, ok := geom.IntersectAspheric(local, dir, sf, 0, 0, 0); ok {
		return ReasonAperture
	}
	return ReasonMiss
}

// vignette closes the path with a flagged terminal record.
func vignette(path Path, at int, pos, dir geom.Vec3, opl float64, reason Reason) Path {
	path.Records = append(path.Records, Record{
		Surface: at, Pos: pos, Dir: dir, OPL: opl, Vignetted: true, Reason: reason,
	})
	path.Vignetted = true
	path.Reason = reason
	path.StoppedAt = at
	return path
}
