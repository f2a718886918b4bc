package geo

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
)

const sampleCollection = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [30.5, 50.4]},
			"properties": {"name": "Kyiv", "population": 2952000}
		},
		{
			"type": "Feature",
			"geometry": null,
			"properties": {"name": "nowhere"}
		}
	]
}`

func TestFeatureCollectionDecode(t *testing.T) {
	var fc FeatureCollection
	if err := json.Unmarshal([]byte(sampleCollection), &fc); err != nil {
		t.Fatalf("expected collection to decode, got %v", err)
	}

	if fc.Type != "FeatureCollection" {
		t.Errorf("expected type FeatureCollection, got %q", fc.Type)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}

	g, err := fc.Features[0].Orb()
	if err != nil {
		t.Fatalf("expected geometry to decode, got %v", err)
	}
	p, ok := g.(orb.Point)
	if !ok {
		t.Fatalf("expected orb.Point, got %T", g)
	}
	if p.Lon() != 30.5 || p.Lat() != 50.4 {
		t.Errorf("expected [30.5 50.4], got %v", p)
	}

	if v, _ := fc.Features[0].Properties.Get("name"); v != "Kyiv" {
		t.Errorf("expected name Kyiv, got %v", v)
	}
}

func TestFeatureNullGeometry(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"json null", `{"type":"Feature","geometry":null}`},
		{"absent", `{"type":"Feature"}`},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			var f Feature
			if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
				t.Fatalf("expected feature to decode, got %v", err)
			}
			g, err := f.Orb()
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if g != nil {
				t.Errorf("expected nil geometry, got %v", g)
			}
		})
	}
}

func TestFeatureGeometryCollection(t *testing.T) {
	raw := `{
		"type": "Feature",
		"geometry": {
			"type": "GeometryCollection",
			"geometries": [{"type": "Point", "coordinates": [1, 2]}]
		},
		"properties": {"name": "mixed"}
	}`

	var f Feature
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("expected feature to decode, got %v", err)
	}

	g, err := f.Orb()
	if err != nil {
		t.Fatalf("expected geometry collection to decode, got %v", err)
	}
	if _, ok := g.(orb.Collection); !ok {
		t.Fatalf("expected orb.Collection, got %T", g)
	}

	// downstream: collections are not representable
	if _, ok := Convert(g); ok {
		t.Error("expected geometry collection to be unsupported")
	}
}

func TestFeatureBogusGeometryType(t *testing.T) {
	raw := `{"type":"Feature","geometry":{"type":"CircularString","coordinates":[[0,0],[1,1]]}}`

	var f Feature
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("expected envelope to decode, got %v", err)
	}
	if _, err := f.Orb(); err == nil {
		t.Error("expected error for unknown geometry type")
	}
}
