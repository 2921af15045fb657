package system

import (
	"fmt"
	"strconv"

	"github.com/optray/optray/glass"
	"github.com/optray/optray/surface"
)

// Block type names recognized by the expander.
const (
	BlockObject       = "Object"
	BlockLens         = "Lens"
	BlockAsphericLens = "AsphericLens"
	BlockOddAspheric  = "OddAsphericLens"
	BlockMirror       = "Mirror"
	BlockStop         = "Stop"
	BlockGap          = "Gap"
	BlockImageSurface = "ImageSurface"
)

// Kind strings of the persisted SurfaceRow form.
var kindNames = map[surface.Kind]string{
	surface.Object:       "Object",
	surface.Standard:     "Standard",
	surface.Stop:         "Stop",
	surface.Image:        "Image",
	surface.AsphericEven: "AsphericEven",
	surface.AsphericOdd:  "AsphericOdd",
	surface.Mirror:       "Mirror",
}

var kindValues = func() map[string]surface.Kind {
	m := make(map[string]surface.Kind, len(kindNames))
	for k, n := range kindNames {
		m[n] = k
	}
	return m
}()

// ExpandBlocks walks the ordered block list and produces the per-surface
// rows. Gap blocks do not emit a surface: their thickness is added onto the
// previously emitted one. Issues (phase "expand") report unknown block types
// as fatal and skipped entries as warnings; expansion continues past
// warnings so a single bad block does not hide the rest.
//
// Complexity: O(blocks).
func ExpandBlocks(blocks []Block) ([]SurfaceRow, []Issue) {
	rows := make([]SurfaceRow, 0, len(blocks)*2)
	var issues []Issue

	addThickness := func(t float64) {
		if len(rows) > 0 {
			rows[len(rows)-1].Thickness += t
		}
	}

	for i := range blocks {
		b := &blocks[i]
		switch b.BlockType {
		case BlockObject:
			rows = append(rows, SurfaceRow{
				Kind:      kindNames[surface.Object],
				Radius:    InfinityThreshold,
				Thickness: b.Param("thickness", InfinityThreshold),
			})

		case BlockGap:
			addThickness(b.Param("thickness", 0))

		case BlockStop:
			rows = append(rows, SurfaceRow{
				Kind:         kindNames[surface.Stop],
				Radius:       InfinityThreshold,
				Thickness:    b.Param("thickness", 0),
				SemiDiameter: b.Param("semiDiameter", 1),
				Stop:         true,
			})

		case BlockLens, BlockAsphericLens, BlockOddAspheric:
			front := SurfaceRow{
				Kind:         kindNames[surface.Standard],
				Radius:       b.Param("radius1", InfinityThreshold),
				Thickness:    b.Param("thickness", 0),
				SemiDiameter: b.Param("semiDiameter", 1),
				Material:     b.Glass,
			}
			if b.BlockType != BlockLens {
				front.Kind = kindNames[surface.AsphericEven]
				if b.BlockType == BlockOddAspheric {
					front.Kind = kindNames[surface.AsphericOdd]
				}
				front.Conic = b.Param("conic", 0)
				front.Coef = make([]float64, surface.CoefCount)
				for c := 0; c < surface.CoefCount; c++ {
					front.Coef[c] = b.Param("coef"+strconv.Itoa(c+1), 0)
				}
			}
			back := SurfaceRow{
				Kind:         kindNames[surface.Standard],
				Radius:       b.Param("radius2", InfinityThreshold),
				Thickness:    b.Param("gap", 0),
				SemiDiameter: b.Param("semiDiameter", 1),
			}
			if b.Param("stopAtFront", 0) != 0 {
				front.Stop = true
			}
			rows = append(rows, front, back)

		case BlockMirror:
			rows = append(rows, SurfaceRow{
				Kind:         kindNames[surface.Mirror],
				Radius:       b.Param("radius", InfinityThreshold),
				Thickness:    b.Param("thickness", 0),
				Conic:        b.Param("conic", 0),
				SemiDiameter: b.Param("semiDiameter", 1),
			})

		case BlockImageSurface:
			rows = append(rows, SurfaceRow{
				Kind:   kindNames[surface.Image],
				Radius: InfinityThreshold,
			})

		default:
			issues = append(issues, Issue{
				Severity: SeverityFatal,
				Phase:    PhaseExpand,
				Message:  fmt.Sprintf("block %q: %v: %q", b.BlockID, ErrUnknownBlockType, b.BlockType),
			})
		}
	}
	return rows, issues
}

// RowsToSurfaces decodes persisted rows into trace-ready surfaces.
func RowsToSurfaces(rows []SurfaceRow) []surface.Surface {
	out := make([]surface.Surface, len(rows))
	for i, r := range rows {
		s := surface.Surface{
			Kind:         kindValues[r.Kind],
			Radius:       DecodeExtent(r.Radius),
			Thickness:    DecodeExtent(r.Thickness),
			Conic:        r.Conic,
			SemiDiameter: r.SemiDiameter,
			Material:     r.Material,
			Stop:         r.Stop || kindValues[r.Kind] == surface.Stop,
		}
		for c := 0; c < len(r.Coef) && c < surface.CoefCount; c++ {
			s.Coef[c] = r.Coef[c]
		}
		out[i] = s
	}
	return out
}

// SurfacesToRows encodes surfaces into the persisted form.
func SurfacesToRows(surfs []surface.Surface) []SurfaceRow {
	out := make([]SurfaceRow, len(surfs))
	for i := range surfs {
		s := &surfs[i]
		row := SurfaceRow{
			Kind:         kindNames[s.Kind],
			Radius:       EncodeExtent(s.Radius),
			Thickness:    EncodeExtent(s.Thickness),
			Conic:        s.Conic,
			SemiDiameter: s.SemiDiameter,
			Material:     s.Material,
			Stop:         s.Stop,
		}
		if s.Kind == surface.AsphericEven || s.Kind == surface.AsphericOdd {
			row.Coef = append([]float64(nil), s.Coef[:]...)
		}
		out[i] = row
	}
	return out
}

// BuildSystem expands the active configuration into a trace-ready System.
// Blocks take precedence when present; otherwise the persisted OpticalSystem
// rows are decoded as-is. The returned issues use phases expand/validate.
func (c *Config) BuildSystem(catalog *glass.Catalog) (*System, []Issue) {
	var (
		rows   []SurfaceRow
		issues []Issue
	)
	if len(c.Blocks) > 0 {
		rows, issues = ExpandBlocks(c.Blocks)
		for _, is := range issues {
			if is.Severity == SeverityFatal {
				return nil, issues
			}
		}
		c.OpticalSystem = rows // keep the persisted derived list in step
	} else {
		rows = c.OpticalSystem
	}

	if catalog == nil {
		catalog = glass.NewCatalog()
	}
	sys := &System{
		Surfaces: RowsToSurfaces(rows),
		Sources:  append([]Source(nil), c.Source...),
		Fields:   append([]Field(nil), c.Object...),
		Catalog:  catalog,
	}
	if err := sys.Validate(); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityFatal,
			Phase:    PhaseValidate,
			Message:  err.Error(),
		})
		return nil, issues
	}
	return sys, issues
}
