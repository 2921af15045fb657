// Package aberration derives image-quality curves from aimed real-ray fans:
//
//   - 📈 Transverse: Δx/Δy at the image surface versus normalized pupil
//     coordinate, relative to the chief ray.
//   - 📏 Longitudinal spherical: axial crossing of meridional rays versus
//     pupil height, relative to the paraxial focus.
//   - 🔭 Astigmatism: meridional and sagittal best-focus planes found by a
//     coarse scan plus golden-section refinement of the fan's transverse RMS.
//   - 🗺 Distortion: real versus ideal chief-ray image height, as a field
//     sweep or a rectangular grid with explicit holes.
//
// All analyzers are read-only over the system description. Rays that
// vignette or fail to converge are excluded from statistics but reported in
// the per-point Valid flags; an analyzer that loses every ray returns
// ErrUnresolved. Long sweeps accept a progress callback via WithProgress
// and abort with sweep.ErrCancelled.
package aberration
