package layers

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bdbarbs/geoview/internal/geo"

	"github.com/rs/zerolog/log"
)

// layerSeq disambiguates layers created within the same millisecond.
var layerSeq atomic.Uint64

// newLayerID returns a time-based layer ID. The sequence suffix keeps
// concurrent uploads from colliding on the timestamp.
func newLayerID() string {
	return fmt.Sprintf("layer-%d-%d", time.Now().UnixMilli(), layerSeq.Add(1))
}

// Importer drives one GeoJSON import: parse, convert, style, hand the
// records to the renderer, register the layer and notify the user. The
// renderer and notifier are the external surfaces; the registry is shared
// across importers.
type Importer struct {
	renderer Renderer
	notifier Notifier
	registry *Registry
}

// NewImporter wires an importer to its collaborators.
func NewImporter(renderer Renderer, notifier Notifier, registry *Registry) *Importer {
	return &Importer{
		renderer: renderer,
		notifier: notifier,
		registry: registry,
	}
}

// Import processes one uploaded document. It returns the registered layer,
// or (nil, nil) when the document parsed but produced no renderable records.
// Parse failures notify the user and return an error; features whose
// geometry cannot be represented are skipped with a log diagnostic and
// counted on the layer. Records handed to the renderer stay rendered even
// if a later step fails; there is no rollback.
func (im *Importer) Import(name string, data []byte) (*Layer, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		// Valid JSON of the wrong shape (array, string, number at the top
		// level) is not a parse failure, just a document with nothing in it.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			im.fail(name, err)
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}

	// Dispatch by top-level GeoJSON type
	var features []geo.Feature
	switch head.Type {
	case "FeatureCollection":
		var fc geo.FeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			im.fail(name, err)
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		features = fc.Features

	case "Feature":
		var f geo.Feature
		if err := json.Unmarshal(data, &f); err != nil {
			im.fail(name, err)
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		features = []geo.Feature{f}

	default:
		log.Warn().
			Str("layer", name).
			Str("type", head.Type).
			Msg("Document is not a feature or collection, nothing to render")
	}

	graphics := make([]geo.Graphic, 0, len(features))
	var extent *geo.Extent
	skipped := 0

	for i, f := range features {
		og, err := f.Orb()
		if err != nil {
			skipped++
			log.Warn().
				Err(err).
				Str("layer", name).
				Int("feature", i).
				Msg("Skipping feature with undecodable geometry")
			continue
		}
		if og == nil {
			skipped++
			log.Warn().
				Str("layer", name).
				Int("feature", i).
				Msg("Skipping feature without geometry")
			continue
		}

		g, ok := geo.Convert(og)
		if !ok {
			skipped++
			log.Warn().
				Err(geo.ErrUnsupportedGeometry).
				Str("layer", name).
				Int("feature", i).
				Str("type", og.GeoJSONType()).
				Msg("Skipping feature")
			continue
		}

		graphics = append(graphics, geo.GraphicOf(g, f.Properties))
		extent = geo.Accumulate(extent, g)
	}

	if len(graphics) == 0 {
		log.Info().Str("layer", name).Int("skipped", skipped).Msg("No renderable features")
		im.notifier.Notify(Notice{
			Message: fmt.Sprintf("%s: no renderable features", name),
			Kind:    NoticeSuccess,
		})
		return nil, nil
	}

	layer := &Layer{
		ID:       newLayerID(),
		Name:     name,
		Count:    len(graphics),
		Skipped:  skipped,
		Extent:   extent,
		Loaded:   time.Now(),
		Graphics: graphics,
	}

	im.renderer.Render(graphics, layer.Focus())
	im.registry.Put(layer)

	log.Info().
		Str("layer", layer.ID).
		Str("name", name).
		Int("count", layer.Count).
		Int("skipped", skipped).
		Msg("Layer loaded")

	msg := fmt.Sprintf("%s: %d features loaded", name, layer.Count)
	if skipped > 0 {
		msg = fmt.Sprintf("%s (%d skipped)", msg, skipped)
	}
	im.notifier.Notify(Notice{Message: msg, Kind: NoticeSuccess})

	return layer, nil
}

func (im *Importer) fail(name string, err error) {
	log.Error().Err(err).Str("layer", name).Msg("Failed to parse GeoJSON")
	im.notifier.Notify(Notice{
		Message: fmt.Sprintf("%s: invalid GeoJSON: %v", name, err),
		Kind:    NoticeError,
	})
}
