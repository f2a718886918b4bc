package geo

// Color is an RGBA quadruple, alpha 255 meaning opaque. It marshals to a
// plain JSON array so the viewer script can splice it into CSS directly.
type Color [4]uint8

// RGBA implements image/color.Color for the preview rasterizer.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c[0]) * 0x101
	g = uint32(c[1]) * 0x101
	b = uint32(c[2]) * 0x101
	a = uint32(c[3]) * 0x101

	// premultiply
	r = r * a / 0xffff
	g = g * a / 0xffff
	b = b * a / 0xffff
	return
}

// SymbolKind selects the renderer primitive for a symbol.
type SymbolKind string

const (
	SymbolMarker SymbolKind = "marker"
	SymbolLine   SymbolKind = "line"
	SymbolFill   SymbolKind = "fill"
)

// Symbol describes how a graphic is drawn. Color is the marker, stroke or
// outline color depending on Type; Fill is only set for polygons.
type Symbol struct {
	Type  SymbolKind `json:"type" yaml:"type"`
	Color Color      `json:"color" yaml:"color,flow"`
	Size  float64    `json:"size,omitempty" yaml:"size,omitempty"`
	Width float64    `json:"width,omitempty" yaml:"width,omitempty"`
	Fill  *Color     `json:"fill,omitempty" yaml:"fill,omitempty,flow"`
}

var polygonFill = Color{227, 139, 79, 96}

// SymbolFor returns the fixed symbol for a geometry kind. The mapping is
// total and deterministic: every supported kind has exactly one symbol, and
// unknown kinds get the zero Symbol. Point and multipoint share the marker.
func SymbolFor(kind Kind) Symbol {
	switch kind {
	case KindPoint, KindMultipoint:
		return Symbol{
			Type:  SymbolMarker,
			Color: Color{226, 119, 40, 255},
			Size:  10,
		}

	case KindPolyline:
		return Symbol{
			Type:  SymbolLine,
			Color: Color{50, 110, 160, 255},
			Width: 2,
		}

	case KindPolygon:
		fill := polygonFill
		return Symbol{
			Type:  SymbolFill,
			Color: Color{120, 120, 120, 255},
			Width: 1,
			Fill:  &fill,
		}

	default:
		return Symbol{}
	}
}
