package layers

import (
	"testing"

	"github.com/bdbarbs/geoview/internal/geo"

	"github.com/matryer/is"
)

type renderCall struct {
	graphics []geo.Graphic
	focus    *geo.Extent
}

type fakeView struct {
	calls   []renderCall
	notices []Notice
}

func (v *fakeView) Render(graphics []geo.Graphic, focus *geo.Extent) {
	v.calls = append(v.calls, renderCall{graphics: graphics, focus: focus})
}

func (v *fakeView) Notify(n Notice) {
	v.notices = append(v.notices, n)
}

func newTestImporter() (*Importer, *fakeView, *Registry) {
	view := &fakeView{}
	reg := NewRegistry()
	return NewImporter(view, view, reg), view, reg
}

const mixedCollection = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [10, 20]},
			"properties": {"name": "Depot"}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Polygon", "coordinates": [[[0, 0], [4, 0], [4, 4], [0, 4], [0, 0]]]},
			"properties": {"name": "Yard", "zone": "B"}
		}
	]
}`

func TestImportFeatureCollection(t *testing.T) {
	is := is.New(t)
	im, view, reg := newTestImporter()

	layer, err := im.Import("sites.geojson", []byte(mixedCollection))
	is.NoErr(err)
	is.True(layer != nil)

	is.Equal(layer.Count, 2)
	is.Equal(layer.Skipped, 0)
	is.Equal(layer.Name, "sites.geojson")

	// records reached the renderer in document order
	is.Equal(len(view.calls), 1)
	is.Equal(len(view.calls[0].graphics), 2)
	is.Equal(view.calls[0].graphics[0].Geometry.Type, geo.KindPoint)
	is.Equal(view.calls[0].graphics[1].Geometry.Type, geo.KindPolygon)
	is.Equal(view.calls[0].graphics[0].Popup.Title, "Depot")

	// extent covers both features
	is.True(layer.Extent != nil)
	is.Equal(layer.Extent.XMin, 0.0)
	is.Equal(layer.Extent.YMin, 0.0)
	is.Equal(layer.Extent.XMax, 10.0)
	is.Equal(layer.Extent.YMax, 20.0)

	// focus handed to the renderer is wider than the data
	focus := view.calls[0].focus
	is.True(focus != nil)
	is.True(focus.Width() > layer.Extent.Width())
	is.True(focus.Height() > layer.Extent.Height())

	// layer is registered and the user was told
	got, ok := reg.Get(layer.ID)
	is.True(ok)
	is.Equal(got, layer)
	is.Equal(len(view.notices), 1)
	is.Equal(view.notices[0].Kind, NoticeSuccess)
}

func TestImportSingleFeature(t *testing.T) {
	is := is.New(t)
	im, view, _ := newTestImporter()

	raw := `{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[5,5]]},"properties":{"name":"Track"}}`
	layer, err := im.Import("track.geojson", []byte(raw))
	is.NoErr(err)
	is.True(layer != nil)

	is.Equal(layer.Count, 1)
	is.Equal(view.calls[0].graphics[0].Geometry.Type, geo.KindPolyline)
	is.Equal(view.calls[0].graphics[0].Symbol.Type, geo.SymbolLine)
}

func TestImportSkipsUnsupportedGeometry(t *testing.T) {
	is := is.New(t)
	im, view, reg := newTestImporter()

	raw := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"geometry": {
					"type": "GeometryCollection",
					"geometries": [{"type": "Point", "coordinates": [1, 2]}]
				},
				"properties": {"name": "mixed"}
			},
			{"type": "Feature", "geometry": null, "properties": {"name": "empty"}}
		]
	}`

	layer, err := im.Import("odd.geojson", []byte(raw))
	is.NoErr(err) // unsupported features are skipped, not fatal
	is.True(layer == nil)

	is.Equal(len(view.calls), 0)
	is.Equal(reg.Len(), 0)
	is.Equal(len(view.notices), 1)
	is.Equal(view.notices[0].Kind, NoticeSuccess)
}

func TestImportPartialSkip(t *testing.T) {
	is := is.New(t)
	im, _, _ := newTestImporter()

	raw := `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [3, 4]}, "properties": null},
			{"type": "Feature", "geometry": {"type": "GeometryCollection", "geometries": []}, "properties": null}
		]
	}`

	layer, err := im.Import("partial.geojson", []byte(raw))
	is.NoErr(err)
	is.True(layer != nil)

	is.Equal(layer.Count, 1)
	is.Equal(layer.Skipped, 1)
}

func TestImportMalformed(t *testing.T) {
	is := is.New(t)
	im, view, reg := newTestImporter()

	_, err := im.Import("broken.geojson", []byte(`{"type": "FeatureCollection",`))
	is.True(err != nil)

	// exactly one error notice, nothing rendered, nothing registered
	is.Equal(len(view.notices), 1)
	is.Equal(view.notices[0].Kind, NoticeError)
	is.Equal(len(view.calls), 0)
	is.Equal(reg.Len(), 0)
}

func TestImportNonGeoJSON(t *testing.T) {
	is := is.New(t)
	im, view, _ := newTestImporter()

	cases := []string{
		`{"hello": "world"}`,
		`[1, 2, 3]`,
		`"just a string"`,
		`null`,
	}

	for _, raw := range cases {
		view.notices = nil

		layer, err := im.Import("noop.json", []byte(raw))
		is.NoErr(err) // valid JSON that is not GeoJSON is a no-op
		is.True(layer == nil)
		is.Equal(len(view.calls), 0)
		is.Equal(len(view.notices), 1)
		is.Equal(view.notices[0].Kind, NoticeSuccess)
	}
}

func TestImportEmptyCollection(t *testing.T) {
	is := is.New(t)
	im, _, reg := newTestImporter()

	layer, err := im.Import("empty.geojson", []byte(`{"type":"FeatureCollection","features":[]}`))
	is.NoErr(err)
	is.True(layer == nil)
	is.Equal(reg.Len(), 0)
}

func TestImportAssignsDistinctIDs(t *testing.T) {
	is := is.New(t)
	im, _, reg := newTestImporter()

	point := `{"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]}}`

	a, err := im.Import("a.geojson", []byte(point))
	is.NoErr(err)
	b, err := im.Import("b.geojson", []byte(point))
	is.NoErr(err)

	is.True(a.ID != b.ID)
	is.Equal(reg.Len(), 2)

	// upload order is preserved in the listing
	list := reg.List()
	is.Equal(len(list), 2)
	is.Equal(list[0].ID, a.ID)
	is.Equal(list[1].ID, b.ID)
}
