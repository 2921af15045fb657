package merit

import "errors"

// ErrUnknownOperand rejects kinds outside the catalog. The enumeration is
// closed: an optimizer must be able to enumerate every operand it may meet.
var ErrUnknownOperand = errors.New("merit: unknown operand kind")

// PenaltyValue replaces a non-finite operand value in the merit sum.
const PenaltyValue = 1e10

// Kind names a merit operand. Parameter slots (1-based, matching the
// persisted rows) that an operand reads are listed per constant; unused
// slots are ignored.
type Kind string

// First-order metrics. Param 1: source row (0 → primary wavelength).
const (
	FL   Kind = "FL"   // focal length
	EFL  Kind = "EFL"  // effective focal length
	BFL  Kind = "BFL"  // back focal distance
	IMD  Kind = "IMD"  // last vertex → paraxial image
	OBJD Kind = "OBJD" // object plane → first vertex
	TSL  Kind = "TSL"  // total track, first vertex → image plane
	EFFL Kind = "EFFL" // EFL at the selected wavelength
)

// Pupils. Param 1: source row.
const (
	EXPD Kind = "EXPD" // exit pupil diameter
	EXPP Kind = "EXPP" // exit pupil position
	ENPD Kind = "ENPD" // entrance pupil diameter
	ENPP Kind = "ENPP" // entrance pupil position
	ENPM Kind = "ENPM" // entrance pupil magnification
)

// Speed and conjugates. Param 1: source row.
const (
	FnoObject  Kind = "FNO_OBJECT"
	FnoImage   Kind = "FNO_IMAGE"
	FnoWorking Kind = "FNO_WORKING"
	NaObject   Kind = "NA_OBJECT"
	NaImage    Kind = "NA_IMAGE"
	PMAG       Kind = "PMAG" // paraxial magnification β
)

// Real-ray statistics.
//
//	CLRH:     param 1 surface index, param 2 source row.
//	SPOT_*:   param 1 source row, param 2 field row (0 → axial),
//	          param 3 pupil fraction (annular, 0 → 1) or per-side
//	          sample count (rect, 0 → default).
//	LA_RMS:   param 1 source row; value in µm.
//	ZERN:     params 1, 2 as SPOT; param 5 coefficient index
//	          (0 → coefficient RMS excluding piston and tilt).
const (
	CLRH            Kind = "CLRH"
	SpotSizeAnnular Kind = "SPOT_SIZE_ANNULAR"
	SpotSizeRect    Kind = "SPOT_SIZE_RECT"
	LaRmsUm         Kind = "LA_RMS_UM"
	ZernCoeff       Kind = "ZERN_COEFF"
)

// Third-order and chromatic sums. Param 1: source row (Seidel sums are
// computed at that wavelength; the chromatic totals always span F–C).
const (
	Tot3Sph  Kind = "TOT3_SPH"
	Tot3Coma Kind = "TOT3_COMA"
	Tot3Asti Kind = "TOT3_ASTI"
	Tot3Fcur Kind = "TOT3_FCUR"
	Tot3Dist Kind = "TOT3_DIST"
	TotLca   Kind = "TOT_LCA"
	TotTca   Kind = "TOT_TCA"
)

// Catalog enumerates every operand kind the evaluator accepts.
func Catalog() []Kind {
	return []Kind{
		FL, EFL, BFL, IMD, OBJD, TSL, EFFL,
		EXPD, EXPP, ENPD, ENPP, ENPM,
		FnoObject, FnoImage, FnoWorking, NaObject, NaImage, PMAG,
		CLRH, SpotSizeAnnular, SpotSizeRect, LaRmsUm, ZernCoeff,
		Tot3Sph, Tot3Coma, Tot3Asti, Tot3Fcur, Tot3Dist, TotLca, TotTca,
	}
}
