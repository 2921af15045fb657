package zmx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/optray/optray/glass"
	"github.com/optray/optray/surface"
	"github.com/optray/optray/system"
)

var (
	// ErrUnsupportedCoordBreak aborts the import: a coordinate break has no
	// centered-axisymmetric equivalent.
	ErrUnsupportedCoordBreak = errors.New("zmx: ZMX_UNSUPPORTED_COORDBRK: coordinate break surfaces are not supported")

	// ErrUnsupportedOddAsphere aborts the import of TYPE ODD* surfaces
	// declared in the file header form; the polynomial slots are ambiguous
	// between the vendors' conventions.
	ErrUnsupportedOddAsphere = errors.New("zmx: ZMX_UNSUPPORTED_ODD: odd aspheric surfaces are not supported")

	// ErrNoSurfaces rejects files without a parsable SURF sequence.
	ErrNoSurfaces = errors.New("zmx: no SURF records found")
)

// DefaultWavelength seeds the source table when the file carries no usable
// wavelength data (the WAVM table is outside the supported subset).
const DefaultWavelength = glass.WavelengthD

// Import parses a .zmx stream into a System. cat may be nil, selecting the
// built-in catalog. The returned issues describe repairs and defaults
// (warnings) or the reason for a hard failure (fatal); the system is nil
// exactly when err is non-nil.
func Import(r io.Reader, cat *glass.Catalog) (*system.System, []system.Issue, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("zmx: read: %w", err)
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("zmx: decode: %w", err)
	}

	var (
		issues []system.Issue
		rows   []surface.Surface
		cur    *surface.Surface
	)
	warn := func(format string, args ...interface{}) {
		issues = append(issues, system.Issue{
			Severity: system.SeverityWarning,
			Phase:    system.PhaseParse,
			Message:  fmt.Sprintf(format, args...),
		})
	}
	fatal := func(err error) (*system.System, []system.Issue, error) {
		issues = append(issues, system.Issue{
			Severity: system.SeverityFatal,
			Phase:    system.PhaseParse,
			Message:  err.Error(),
		})
		return nil, issues, err
	}

	for lineNo, line := range strings.Split(text, "\n") {
		f := strings.Fields(strings.TrimSpace(line))
		if len(f) == 0 {
			continue
		}

		if f[0] == "SURF" {
			rows = append(rows, surface.Surface{
				Kind:   surface.Standard,
				Radius: surface.Infinity(),
			})
			cur = &rows[len(rows)-1]
			if n, err := strconv.Atoi(arg(f, 1)); err == nil && n != len(rows)-1 {
				warn("line %d: SURF %d out of sequence, renumbered to %d", lineNo+1, n, len(rows)-1)
			}
			continue
		}
		if cur == nil {
			continue // header tokens before the first SURF
		}

		switch f[0] {
		case "STOP":
			cur.Stop = true
		case "TYPE":
			switch t := arg(f, 1); {
			case t == "STANDARD", t == "":
				// default kind
			case t == "EVENASPH":
				cur.Kind = surface.AsphericEven
			case t == "COORDBRK":
				return fatal(ErrUnsupportedCoordBreak)
			case strings.HasPrefix(t, "ODD"):
				return fatal(ErrUnsupportedOddAsphere)
			default:
				warn("line %d: surface type %q treated as STANDARD", lineNo+1, t)
			}
		case "CURV":
			c, ok := num(arg(f, 1))
			if !ok {
				warn("line %d: unreadable CURV, kept planar", lineNo+1)
				break
			}
			if c == 0 {
				cur.Radius = surface.Infinity()
			} else {
				cur.Radius = 1 / c
			}
		case "DISZ":
			t := arg(f, 1)
			if strings.EqualFold(t, "INFINITY") {
				cur.Thickness = math.Inf(1)
				break
			}
			v, ok := num(t)
			if !ok {
				warn("line %d: unreadable DISZ, kept 0", lineNo+1)
				break
			}
			cur.Thickness = system.DecodeExtent(v)
		case "GLAS":
			name := arg(f, 1)
			if strings.EqualFold(name, "MIRROR") {
				cur.Kind = surface.Mirror
			} else {
				cur.Material = name
			}
		case "DIAM":
			if v, ok := num(arg(f, 1)); ok {
				cur.SemiDiameter = v
			}
		case "CONI":
			if v, ok := num(arg(f, 1)); ok {
				cur.Conic = v
			}
		case "PARM":
			j, errJ := strconv.Atoi(arg(f, 1))
			v, okV := num(arg(f, 2))
			if errJ != nil || !okV {
				warn("line %d: unreadable PARM, skipped", lineNo+1)
				break
			}
			if j < 1 || j > surface.CoefCount {
				warn("line %d: PARM %d outside [1,%d], skipped", lineNo+1, j, surface.CoefCount)
				break
			}
			cur.Coef[j-1] = v
		case "COMM":
			// free-text comment, no surface semantics
		default:
			// outside the supported subset (wavelength/field tables, UI
			// state); skipped without noise
		}
	}

	if len(rows) < 3 {
		return fatal(fmt.Errorf("%w: need object, at least one optical surface and image", ErrNoSurfaces))
	}

	rows[0].Kind = surface.Object
	last := &rows[len(rows)-1]
	if last.Kind == surface.AsphericEven || last.Kind == surface.Mirror {
		warn("image surface carried optical type %v, flattened", last.Kind)
	}
	last.Kind = surface.Image

	if !hasStop(rows) {
		rows[1].Stop = true
		warn("no STOP record, stop assumed at surface 1")
	}
	if cat == nil {
		cat = glass.NewCatalog()
	}

	warn("no wavelength table in the supported subset, defaulting to the d line")
	sys := &system.System{
		Surfaces: rows,
		Sources:  []system.Source{{Wavelength: DefaultWavelength, Weight: 1, Primary: true}},
		Fields:   []system.Field{{Kind: system.FieldAngle}},
		Catalog:  cat,
	}
	return sys, issues, nil
}

// decodeText auto-detects the encoding: a BOM wins, otherwise NUL bytes in
// an ASCII-shaped format betray BOM-less UTF-16.
func decodeText(raw []byte) (string, error) {
	var base encoding.Encoding = unicode.UTF8
	if !hasBOM(raw) && bytes.IndexByte(raw, 0) >= 0 {
		endian := unicode.LittleEndian
		if len(raw) > 0 && raw[0] == 0 {
			endian = unicode.BigEndian
		}
		base = unicode.UTF16(endian, unicode.IgnoreBOM)
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(base.NewDecoder()), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func hasBOM(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
}

func hasStop(rows []surface.Surface) bool {
	for i := range rows {
		if rows[i].Stop {
			return true
		}
	}
	return false
}

func arg(f []string, i int) string {
	if i < len(f) {
		return f[i]
	}
	return ""
}

func num(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil && !math.IsNaN(v)
}
