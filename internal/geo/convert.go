package geo

import (
	"errors"

	"github.com/paulmach/orb"
)

// ErrUnsupportedGeometry is the diagnostic for GeoJSON geometries with no
// native equivalent (GeometryCollection and anything outside the six
// convertible RFC 7946 types).
var ErrUnsupportedGeometry = errors.New("unsupported geometry type")

// Kind identifies the native geometry shape carried by a Geometry.
type Kind string

const (
	KindPoint      Kind = "point"
	KindMultipoint Kind = "multipoint"
	KindPolyline   Kind = "polyline"
	KindPolygon    Kind = "polygon"
)

// Position is a single [lon, lat] coordinate pair in WGS84 degrees.
type Position [2]float64

// Lon returns the longitude (east-west) component.
func (p Position) Lon() float64 { return p[0] }

// Lat returns the latitude (north-south) component.
func (p Position) Lat() float64 { return p[1] }

// SpatialReference tags geometry with its coordinate system, by well-known ID.
type SpatialReference struct {
	WKID int `json:"wkid" yaml:"wkid"`
}

// WGS84 is the spatial reference of every geometry produced by Convert.
// GeoJSON coordinates are defined to be WGS84 lon/lat (RFC 7946 §4).
var WGS84 = SpatialReference{WKID: 4326}

// Geometry is the native shape handed to the rendering surface. Exactly one
// of Point, Points, Paths or Rings is set, according to Type:
//
//	point      -> Point
//	multipoint -> Points
//	polyline   -> Paths (one or more line strings)
//	polygon    -> Rings (exterior and hole rings, flattened)
type Geometry struct {
	Type             Kind             `json:"type" yaml:"type"`
	Point            *Position        `json:"point,omitempty" yaml:"point,omitempty"`
	Points           []Position       `json:"points,omitempty" yaml:"points,omitempty"`
	Paths            [][]Position     `json:"paths,omitempty" yaml:"paths,omitempty"`
	Rings            [][]Position     `json:"rings,omitempty" yaml:"rings,omitempty"`
	SpatialReference SpatialReference `json:"spatialReference" yaml:"spatialReference"`
}

// Convert maps a decoded GeoJSON geometry onto the native Geometry model.
// The second return value is false when the input type cannot be represented;
// callers are expected to skip such features rather than abort.
//
// MultiPolygon is flattened into a single polygon: the rings of every member
// polygon are concatenated, so per-polygon grouping is lost. Renderers using
// even-odd filling still draw holes correctly, but ring-to-polygon ownership
// cannot be recovered downstream.
func Convert(g orb.Geometry) (Geometry, bool) {
	switch v := g.(type) {
	case orb.Point:
		p := position(v)
		return Geometry{Type: KindPoint, Point: &p, SpatialReference: WGS84}, true

	case orb.MultiPoint:
		return Geometry{Type: KindMultipoint, Points: positions(v), SpatialReference: WGS84}, true

	case orb.LineString:
		return Geometry{Type: KindPolyline, Paths: [][]Position{positions(v)}, SpatialReference: WGS84}, true

	case orb.MultiLineString:
		paths := make([][]Position, 0, len(v))
		for _, ls := range v {
			paths = append(paths, positions(ls))
		}
		return Geometry{Type: KindPolyline, Paths: paths, SpatialReference: WGS84}, true

	case orb.Polygon:
		return Geometry{Type: KindPolygon, Rings: rings(v), SpatialReference: WGS84}, true

	case orb.MultiPolygon:
		flat := make([][]Position, 0, len(v))
		for _, poly := range v {
			flat = append(flat, rings(poly)...)
		}
		return Geometry{Type: KindPolygon, Rings: flat, SpatialReference: WGS84}, true

	default:
		// orb.Collection (GeometryCollection) and nil land here.
		return Geometry{}, false
	}
}

func position(p orb.Point) Position {
	return Position{p.Lon(), p.Lat()}
}

func positions(ps []orb.Point) []Position {
	out := make([]Position, len(ps))
	for i, p := range ps {
		out[i] = position(p)
	}
	return out
}

func rings(poly orb.Polygon) [][]Position {
	out := make([][]Position, 0, len(poly))
	for _, ring := range poly {
		out = append(out, positions(ring))
	}
	return out
}
