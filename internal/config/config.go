// Package config handles configuration loading and shared data structures.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Upload limits applied when the config leaves them unset.
const (
	DefaultMaxUploadBytes   = 10 << 20
	DefaultUploadsPerMinute = 30
)

// Config represents the root configuration file structure. The json tags
// shape the /api/config payload; server-only sections are hidden from it.
type Config struct {
	Attribution string     `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Basemaps    []Basemap  `yaml:"basemaps,omitempty" json:"basemaps"`
	Locations   []Location `yaml:"locations,omitempty" json:"locations"`
	View        View       `yaml:"view,omitempty" json:"view"`
	Upload      Upload     `yaml:"upload,omitempty" json:"-"`
	Layers      []Seed     `yaml:"layers,omitempty" json:"-"`
}

// Basemap is one tile layer offered in the basemap switcher.
type Basemap struct {
	Name        string `yaml:"name" json:"name"`
	URL         string `yaml:"url" json:"url"`
	Attribution string `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	MaxZoom     int    `yaml:"max_zoom,omitempty" json:"max_zoom,omitempty"`
}

// Location is a preset the view can jump to.
type Location struct {
	Name string  `yaml:"name" json:"name"`
	Lon  float64 `yaml:"lon" json:"lon"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Zoom int     `yaml:"zoom,omitempty" json:"zoom,omitempty"`
}

// View is the initial map position.
type View struct {
	Lon  float64 `yaml:"lon" json:"lon"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Zoom int     `yaml:"zoom" json:"zoom"`
}

// Upload holds the limits applied to GeoJSON uploads.
type Upload struct {
	MaxBytes  int64 `yaml:"max_bytes,omitempty" json:"-"`
	PerMinute int   `yaml:"per_minute,omitempty" json:"-"`
}

// Seed is a GeoJSON document loaded into the view at startup, from a local
// file or a URL.
type Seed struct {
	Name string `yaml:"name,omitempty" json:"-"`
	File string `yaml:"file,omitempty" json:"-"`
	URL  string `yaml:"url,omitempty" json:"-"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration used when no file is given:
// public OSM basemaps, a handful of city presets and a world view.
func Default() *Config {
	return &Config{
		Basemaps: []Basemap{
			{
				Name:        "OpenStreetMap",
				URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
				Attribution: "&copy; OpenStreetMap contributors",
				MaxZoom:     19,
			},
			{
				Name:        "OpenTopoMap",
				URL:         "https://tile.opentopomap.org/{z}/{x}/{y}.png",
				Attribution: "&copy; OpenTopoMap (CC-BY-SA)",
				MaxZoom:     17,
			},
		},
		Locations: []Location{
			{Name: "London", Lon: -0.1276, Lat: 51.5072, Zoom: 11},
			{Name: "New York", Lon: -74.006, Lat: 40.7128, Zoom: 11},
			{Name: "Tokyo", Lon: 139.6917, Lat: 35.6895, Zoom: 11},
			{Name: "Sydney", Lon: 151.2093, Lat: -33.8688, Zoom: 11},
		},
		View: View{Lon: 0, Lat: 20, Zoom: 2},
	}
}
