package geo

import (
	"math"
	"testing"
)

func pointGeom(lon, lat float64) Geometry {
	p := Position{lon, lat}
	return Geometry{Type: KindPoint, Point: &p, SpatialReference: WGS84}
}

func TestExtentOfPoint(t *testing.T) {
	e, ok := ExtentOf(pointGeom(12, 34))
	if !ok {
		t.Fatal("expected extent for point")
	}
	if e.XMin != 12 || e.XMax != 12 || e.YMin != 34 || e.YMax != 34 {
		t.Errorf("expected degenerate box at [12 34], got %+v", e)
	}
	if e.Width() != 0 || e.Height() != 0 {
		t.Errorf("expected zero spans, got %v x %v", e.Width(), e.Height())
	}
}

func TestExtentOfPolyline(t *testing.T) {
	g := Geometry{
		Type: KindPolyline,
		Paths: [][]Position{
			{{-10, 5}, {0, 20}},
			{{30, -8}, {15, 2}},
		},
		SpatialReference: WGS84,
	}

	e, ok := ExtentOf(g)
	if !ok {
		t.Fatal("expected extent for polyline")
	}
	want := Extent{XMin: -10, YMin: -8, XMax: 30, YMax: 20, SpatialReference: WGS84}
	if e != want {
		t.Errorf("expected %+v, got %+v", want, e)
	}
}

func TestExtentOfEmpty(t *testing.T) {
	cases := []struct {
		name string
		geom Geometry
	}{
		{"zero geometry", Geometry{}},
		{"empty multipoint", Geometry{Type: KindMultipoint}},
		{"polyline with empty path", Geometry{Type: KindPolyline, Paths: [][]Position{{}}}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ExtentOf(tt.geom); ok {
				t.Error("expected no extent")
			}
		})
	}
}

func TestUnion(t *testing.T) {
	a := Extent{XMin: 0, YMin: 0, XMax: 10, YMax: 10, SpatialReference: WGS84}
	b := Extent{XMin: 20, YMin: -5, XMax: 25, YMax: 5, SpatialReference: WGS84}

	u := Union(a, b)
	want := Extent{XMin: 0, YMin: -5, XMax: 25, YMax: 10, SpatialReference: WGS84}
	if u != want {
		t.Errorf("expected %+v, got %+v", want, u)
	}
}

func TestAccumulateOrderIndependent(t *testing.T) {
	geoms := []Geometry{
		pointGeom(10, 10),
		pointGeom(-20, 5),
		{Type: KindPolyline, Paths: [][]Position{{{0, -30}, {45, 8}}}, SpatialReference: WGS84},
		{Type: KindMultipoint, Points: []Position{{-3, 60}, {12, -12}}, SpatialReference: WGS84},
	}

	fold := func(order []int) Extent {
		var cur *Extent
		for _, i := range order {
			cur = Accumulate(cur, geoms[i])
		}
		return *cur
	}

	forward := fold([]int{0, 1, 2, 3})
	reversed := fold([]int{3, 2, 1, 0})
	shuffled := fold([]int{2, 0, 3, 1})

	if forward != reversed || forward != shuffled {
		t.Errorf("expected fold order not to matter, got %+v / %+v / %+v", forward, reversed, shuffled)
	}

	want := Extent{XMin: -20, YMin: -30, XMax: 45, YMax: 60, SpatialReference: WGS84}
	if forward != want {
		t.Errorf("expected %+v, got %+v", want, forward)
	}
}

func TestAccumulate(t *testing.T) {
	var cur *Extent

	cur = Accumulate(cur, pointGeom(10, 10))
	if cur == nil {
		t.Fatal("expected extent after first geometry")
	}

	cur = Accumulate(cur, pointGeom(-5, 40))
	want := Extent{XMin: -5, YMin: 10, XMax: 10, YMax: 40, SpatialReference: WGS84}
	if *cur != want {
		t.Errorf("expected %+v, got %+v", want, *cur)
	}

	// geometries without coordinates must not move the fold
	same := Accumulate(cur, Geometry{Type: KindMultipoint})
	if same != cur {
		t.Error("expected empty geometry to leave the accumulator untouched")
	}
}

func TestExpandKeepsCenter(t *testing.T) {
	e := Extent{XMin: 0, YMin: 0, XMax: 10, YMax: 20, SpatialReference: WGS84}

	x := Expand(e, 2)
	if x.Width() != 20 || x.Height() != 40 {
		t.Errorf("expected spans 20 x 40, got %v x %v", x.Width(), x.Height())
	}
	if x.Center() != e.Center() {
		t.Errorf("expected center %v, got %v", e.Center(), x.Center())
	}
}

func TestExpandDegenerate(t *testing.T) {
	// single point: both sides zero
	e, ok := ExtentOf(pointGeom(30, 50))
	if !ok {
		t.Fatal("expected extent for point")
	}

	x := Expand(e, 1.2)
	if x.Width() <= 0 || x.Height() <= 0 {
		t.Errorf("expected positive spans after expand, got %v x %v", x.Width(), x.Height())
	}
	if c := x.Center(); math.Abs(c.Lon()-30) > 1e-9 || math.Abs(c.Lat()-50) > 1e-9 {
		t.Errorf("expected center to stay at [30 50], got %v", c)
	}

	// horizontal line: only height is zero
	line := Extent{XMin: 0, YMin: 7, XMax: 10, YMax: 7, SpatialReference: WGS84}
	x = Expand(line, 1.2)
	if x.Height() <= 0 {
		t.Errorf("expected positive height after expand, got %v", x.Height())
	}
	if math.Abs(x.Width()-12) > 1e-9 {
		t.Errorf("expected width 12, got %v", x.Width())
	}
}

func TestExpandFactorOne(t *testing.T) {
	e := Extent{XMin: 1, YMin: 2, XMax: 3, YMax: 4, SpatialReference: WGS84}
	if x := Expand(e, 1); x != e {
		t.Errorf("expected unchanged extent, got %+v", x)
	}
}
