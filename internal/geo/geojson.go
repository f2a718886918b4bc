// Package geo converts GeoJSON features into the native geometry, symbol and
// popup records understood by the map view.
package geo

import (
	"bytes"
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection is the top-level GeoJSON container.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature. The geometry is kept raw so that one
// unparsable or exotic member does not fail the whole document; it is decoded
// on demand by Orb.
type Feature struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
	Properties Properties      `json:"properties,omitempty"`
}

// Orb decodes the raw geometry into an orb value. A missing or JSON-null
// geometry yields (nil, nil). Unknown geometry types yield an error; callers
// treat both cases as "skip this feature".
func (f Feature) Orb() (orb.Geometry, error) {
	if len(f.Geometry) == 0 || bytes.Equal(bytes.TrimSpace(f.Geometry), []byte("null")) {
		return nil, nil
	}

	g, err := geojson.UnmarshalGeometry(f.Geometry)
	if err != nil {
		return nil, err
	}

	return g.Geometry(), nil
}
