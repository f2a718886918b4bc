package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bdbarbs/geoview/assets"
	"github.com/bdbarbs/geoview/internal/config"
	"github.com/bdbarbs/geoview/internal/geo"
	"github.com/bdbarbs/geoview/internal/layers"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Registry  *layers.Registry
	IndexHTML []byte
	Favicon   []byte

	limiter *clientLimiter
}

// NewServerContext initializes the context and normalizes the configuration.
// Unusable basemaps and locations are dropped; missing limits fall back to
// the built-in defaults.
func NewServerContext(cfg *config.Config) *ServerContext {
	log.Info().
		Int("basemaps", len(cfg.Basemaps)).
		Int("locations", len(cfg.Locations)).
		Int("seed_layers", len(cfg.Layers)).
		Msg("Initializing server context")

	// Normalize basemaps
	basemaps := make([]config.Basemap, 0, len(cfg.Basemaps))
	for _, b := range cfg.Basemaps {
		if b.Name == "" || b.URL == "" {
			log.Warn().Str("basemap", b.Name).Msg("Skipping basemap without name or url")
			continue
		}
		if b.MaxZoom <= 0 {
			b.MaxZoom = 19
		}
		if b.Attribution == "" {
			b.Attribution = cfg.Attribution
		}
		basemaps = append(basemaps, b)
	}
	if len(basemaps) == 0 {
		log.Warn().Msg("No usable basemaps in config, falling back to defaults")
		basemaps = config.Default().Basemaps
	}
	cfg.Basemaps = basemaps

	// Normalize preset locations
	locations := make([]config.Location, 0, len(cfg.Locations))
	for _, l := range cfg.Locations {
		if l.Name == "" || l.Lon < -180 || l.Lon > 180 || l.Lat < -90 || l.Lat > 90 {
			log.Warn().
				Str("location", l.Name).
				Float64("lon", l.Lon).
				Float64("lat", l.Lat).
				Msg("Skipping location with missing name or out-of-range coordinates")
			continue
		}
		if l.Zoom <= 0 {
			l.Zoom = 10
		}
		locations = append(locations, l)
	}
	cfg.Locations = locations

	if cfg.View.Zoom <= 0 {
		cfg.View = config.Default().View
	}

	// Upload limits
	if cfg.Upload.MaxBytes <= 0 {
		cfg.Upload.MaxBytes = config.DefaultMaxUploadBytes
	}
	if cfg.Upload.PerMinute <= 0 {
		cfg.Upload.PerMinute = config.DefaultUploadsPerMinute
	}

	log.Info().
		Int("valid_basemaps", len(cfg.Basemaps)).
		Int("valid_locations", len(cfg.Locations)).
		Int64("upload_max_bytes", cfg.Upload.MaxBytes).
		Int("uploads_per_minute", cfg.Upload.PerMinute).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:    cfg,
		Registry:  layers.NewRegistry(),
		IndexHTML: assets.Index,
		Favicon:   assets.Favicon,
		limiter:   newClientLimiter(cfg.Upload.PerMinute),
	}
}

// LoadSeeds imports the GeoJSON documents the config asks to load at
// startup. Failures are logged per seed and never stop the server.
func (s *ServerContext) LoadSeeds(client *http.Client) {
	notifier := layers.NotifierFunc(func(n layers.Notice) {
		if n.Kind == layers.NoticeError {
			log.Error().Str("notice", n.Message).Msg("Seed layer failed")
		} else {
			log.Info().Str("notice", n.Message).Msg("Seed layer loaded")
		}
	})

	// Nothing is attached to render into at startup; viewers fetch the
	// records over the API once they connect.
	discard := layers.RendererFunc(func([]geo.Graphic, *geo.Extent) {})

	for _, seed := range s.Config.Layers {
		name, data, err := fetchSeed(client, seed)
		if err != nil {
			log.Error().Err(err).Str("seed", name).Msg("Failed to read seed layer")
			continue
		}

		im := layers.NewImporter(discard, notifier, s.Registry)
		if _, err := im.Import(name, data); err != nil {
			log.Error().Err(err).Str("seed", name).Msg("Failed to import seed layer")
		}
	}
}

func fetchSeed(client *http.Client, seed config.Seed) (string, []byte, error) {
	switch {
	case seed.File != "":
		name := seed.Name
		if name == "" {
			name = filepath.Base(seed.File)
		}
		data, err := os.ReadFile(seed.File)
		return name, data, err

	case seed.URL != "":
		name := seed.Name
		if name == "" {
			name = filepath.Base(seed.URL)
		}

		resp, err := client.Get(seed.URL)
		if err != nil {
			return name, nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return name, nil, fmt.Errorf("download failed: %d", resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		return name, data, err

	default:
		return seed.Name, nil, fmt.Errorf("seed %q has neither file nor url", seed.Name)
	}
}
