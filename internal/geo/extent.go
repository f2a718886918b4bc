package geo

import "math"

// Extent is an axis-aligned bounding box in WGS84 degrees.
type Extent struct {
	XMin             float64          `json:"xmin" yaml:"xmin"`
	YMin             float64          `json:"ymin" yaml:"ymin"`
	XMax             float64          `json:"xmax" yaml:"xmax"`
	YMax             float64          `json:"ymax" yaml:"ymax"`
	SpatialReference SpatialReference `json:"spatialReference" yaml:"spatialReference"`
}

// Width returns the longitude span.
func (e Extent) Width() float64 { return e.XMax - e.XMin }

// Height returns the latitude span.
func (e Extent) Height() float64 { return e.YMax - e.YMin }

// Center returns the midpoint of the box.
func (e Extent) Center() Position {
	return Position{(e.XMin + e.XMax) / 2, (e.YMin + e.YMax) / 2}
}

// ExtentOf computes the bounding box of a geometry. The second return value
// is false when the geometry carries no coordinates at all, such as an empty
// multipoint or the zero Geometry.
func ExtentOf(g Geometry) (Extent, bool) {
	e := Extent{
		XMin:             math.Inf(1),
		YMin:             math.Inf(1),
		XMax:             math.Inf(-1),
		YMax:             math.Inf(-1),
		SpatialReference: WGS84,
	}

	grow := func(p Position) {
		e.XMin = math.Min(e.XMin, p.Lon())
		e.YMin = math.Min(e.YMin, p.Lat())
		e.XMax = math.Max(e.XMax, p.Lon())
		e.YMax = math.Max(e.YMax, p.Lat())
	}

	seen := false
	switch g.Type {
	case KindPoint:
		if g.Point != nil {
			grow(*g.Point)
			seen = true
		}
	case KindMultipoint:
		for _, p := range g.Points {
			grow(p)
			seen = true
		}
	case KindPolyline:
		for _, path := range g.Paths {
			for _, p := range path {
				grow(p)
				seen = true
			}
		}
	case KindPolygon:
		for _, ring := range g.Rings {
			for _, p := range ring {
				grow(p)
				seen = true
			}
		}
	}

	if !seen {
		return Extent{}, false
	}
	return e, true
}

// Union returns the smallest box covering both extents.
func Union(a, b Extent) Extent {
	return Extent{
		XMin:             math.Min(a.XMin, b.XMin),
		YMin:             math.Min(a.YMin, b.YMin),
		XMax:             math.Max(a.XMax, b.XMax),
		YMax:             math.Max(a.YMax, b.YMax),
		SpatialReference: WGS84,
	}
}

// Accumulate folds the bounding box of g into cur. A nil cur starts the
// fold; a geometry without coordinates leaves cur untouched. The returned
// pointer replaces cur at the call site.
func Accumulate(cur *Extent, g Geometry) *Extent {
	e, ok := ExtentOf(g)
	if !ok {
		return cur
	}
	if cur == nil {
		return &e
	}
	u := Union(*cur, e)
	return &u
}

// degeneratePad is the half-width, in degrees, given to a zero-size side
// when an extent is expanded. Roughly 110 m at the equator.
const degeneratePad = 0.001

// Expand grows the box about its center by the given factor, keeping the
// center fixed. A factor above 1 must always yield positive width and
// height, so sides of zero span (a single point, a horizontal or vertical
// line) are padded by a fixed minimum instead of being multiplied.
func Expand(e Extent, factor float64) Extent {
	padX := e.Width() * (factor - 1) / 2
	padY := e.Height() * (factor - 1) / 2

	if factor > 1 {
		if padX == 0 {
			padX = degeneratePad
		}
		if padY == 0 {
			padY = degeneratePad
		}
	}

	return Extent{
		XMin:             e.XMin - padX,
		YMin:             e.YMin - padY,
		XMax:             e.XMax + padX,
		YMax:             e.YMax + padY,
		SpatialReference: e.SpatialReference,
	}
}
