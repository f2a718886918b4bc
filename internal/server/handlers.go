// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bdbarbs/geoview/internal/geo"
	"github.com/bdbarbs/geoview/internal/layers"
	"github.com/bdbarbs/geoview/internal/preview"

	"github.com/rs/zerolog/log"
)

// Preview size bounds in pixels.
const (
	previewMinSize = 64
	previewMaxSize = 1280
)

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/favicon.svg" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleConfig serves the viewer configuration as JSON.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.Config)
}

// HandleLayers serves the layer collection: GET lists the loaded layers,
// POST uploads a GeoJSON document.
func (s *ServerContext) HandleLayers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.Registry.List())

	case http.MethodPost:
		s.handleUpload(w, r)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeNotice(w, http.StatusMethodNotAllowed, layers.Notice{
			Message: "method not allowed",
			Kind:    layers.NoticeError,
		})
	}
}

// uploadResponse is the JSON payload answering a POST of a document. The
// records travel back to the uploader immediately; other viewers pick the
// layer up from the listing.
type uploadResponse struct {
	Layer    *layers.Layer `json:"layer"`
	Focus    *geo.Extent   `json:"focus,omitempty"`
	Graphics []geo.Graphic `json:"graphics,omitempty"`
	Notice   layers.Notice `json:"notice"`
}

// uploadSink is the renderer and notifier of one upload request: it captures
// the records and the focus extent for the HTTP response.
type uploadSink struct {
	graphics []geo.Graphic
	focus    *geo.Extent
	notices  []layers.Notice
}

func (u *uploadSink) Render(graphics []geo.Graphic, focus *geo.Extent) {
	u.graphics = graphics
	u.focus = focus
}

func (u *uploadSink) Notify(n layers.Notice) {
	u.notices = append(u.notices, n)
}

func (u *uploadSink) notice() layers.Notice {
	if len(u.notices) == 0 {
		return layers.Notice{Message: "done", Kind: layers.NoticeSuccess}
	}
	return u.notices[len(u.notices)-1]
}

func (s *ServerContext) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientIP(r)) {
		writeNotice(w, http.StatusTooManyRequests, layers.Notice{
			Message: "too many uploads, slow down",
			Kind:    layers.NoticeError,
		})
		return
	}

	name, data, err := readUpload(w, r, s.Config.Upload.MaxBytes)
	if err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeNotice(w, status, layers.Notice{
			Message: fmt.Sprintf("upload failed: %v", err),
			Kind:    layers.NoticeError,
		})
		return
	}

	sink := &uploadSink{}
	im := layers.NewImporter(sink, sink, s.Registry)

	layer, err := im.Import(name, data)
	if err != nil {
		writeNotice(w, http.StatusBadRequest, sink.notice())
		return
	}

	status := http.StatusOK
	if layer != nil {
		status = http.StatusCreated
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(uploadResponse{
		Layer:    layer,
		Focus:    sink.focus,
		Graphics: sink.graphics,
		Notice:   sink.notice(),
	})
}

// readUpload extracts the document bytes and a display name from the
// request, accepting either a multipart form with a "file" field or a raw
// JSON body. The body is capped at maxBytes either way.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return "", nil, err
		}
		defer func() { _ = f.Close() }()

		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, err
		}

		name := filepath.Base(hdr.Filename)
		if name == "." || name == "/" || name == "" {
			name = "upload.geojson"
		}
		return name, data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, err
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.geojson"
	}
	return name, data, nil
}

// layerDetail is the full layer payload, records included.
type layerDetail struct {
	*layers.Layer
	Focus    *geo.Extent   `json:"focus,omitempty"`
	Graphics []geo.Graphic `json:"graphics"`
}

// HandleLayer serves one layer: GET fetches it (or its preview image),
// DELETE unloads it.
func (s *ServerContext) HandleLayer(w http.ResponseWriter, r *http.Request) {
	// Path: /api/layers/{id} or /api/layers/{id}/preview.webp
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 || len(parts) > 4 {
		http.NotFound(w, r)
		return
	}
	id := parts[2]

	if len(parts) == 4 {
		if parts[3] != "preview.webp" || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		s.servePreview(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		layer, ok := s.Registry.Get(id)
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(layerDetail{
			Layer:    layer,
			Focus:    layer.Focus(),
			Graphics: layer.Graphics,
		})

	case http.MethodDelete:
		layer, ok := s.Registry.Remove(id)
		if !ok {
			http.NotFound(w, r)
			return
		}

		log.Info().Str("layer", layer.ID).Str("name", layer.Name).Msg("Layer removed")
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// servePreview rasterizes the layer on demand. Layers are immutable, so the
// ETag only has to account for the id and requested size.
func (s *ServerContext) servePreview(w http.ResponseWriter, r *http.Request, id string) {
	layer, ok := s.Registry.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	width := previewDim(r.URL.Query().Get("w"), preview.DefaultWidth)
	height := previewDim(r.URL.Query().Get("h"), preview.DefaultHeight)

	etag := fmt.Sprintf(`"%s-%d-%d"`, id, width, height)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	surface := preview.NewSurface(width, height)
	surface.Render(layer.Graphics, layer.Focus())

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if err := surface.EncodeWebP(w); err != nil {
		log.Error().Err(err).Str("layer", id).Msg("Failed to encode preview")
	}
}

func previewDim(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if n < previewMinSize {
		return previewMinSize
	}
	if n > previewMaxSize {
		return previewMaxSize
	}
	return n
}

func writeNotice(w http.ResponseWriter, status int, n layers.Notice) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(uploadResponse{Notice: n})
}
