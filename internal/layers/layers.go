// Package layers turns uploaded GeoJSON documents into rendered map layers
// and keeps track of the layers currently loaded into the view.
package layers

import (
	"sync"
	"time"

	"github.com/bdbarbs/geoview/internal/geo"
)

// focusFactor is how much the view extent is grown past the data it frames,
// so graphics never touch the viewport edge.
const focusFactor = 1.2

// Renderer is the surface that displays graphic records. The importer hands
// it the full record list of a document plus the extent to focus on, already
// expanded; focus is nil when no record carried coordinates.
type Renderer interface {
	Render(graphics []geo.Graphic, focus *geo.Extent)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(graphics []geo.Graphic, focus *geo.Extent)

// Render calls f.
func (f RendererFunc) Render(graphics []geo.Graphic, focus *geo.Extent) { f(graphics, focus) }

// NoticeKind classifies a user-visible notification.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a single user-visible message about an import.
type Notice struct {
	Message string     `json:"message" yaml:"message"`
	Kind    NoticeKind `json:"kind" yaml:"kind"`
}

// Notifier receives user-visible import notifications.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notice)

// Notify calls f.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Layer is one imported document. Graphics are kept server-side so the view
// can re-fetch them, but they are not part of the layer summary JSON.
type Layer struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Count    int           `json:"count" yaml:"count"`
	Skipped  int           `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Extent   *geo.Extent   `json:"extent,omitempty" yaml:"extent,omitempty"`
	Loaded   time.Time     `json:"loaded" yaml:"loaded"`
	Graphics []geo.Graphic `json:"-" yaml:"graphics"`
}

// Focus returns the extent the view should move to for this layer: the data
// extent grown by the focus factor. Nil when the layer has no extent.
func (l *Layer) Focus() *geo.Extent {
	if l.Extent == nil {
		return nil
	}
	f := geo.Expand(*l.Extent, focusFactor)
	return &f
}

// Registry holds the loaded layers in upload order. It is shared state
// injected into every importer, guarded for concurrent uploads and reads.
type Registry struct {
	mu     sync.RWMutex
	layers map[string]*Layer
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{layers: make(map[string]*Layer)}
}

// Put stores a layer under its ID.
func (r *Registry) Put(l *Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.layers[l.ID]; !ok {
		r.order = append(r.order, l.ID)
	}
	r.layers[l.ID] = l
}

// Get returns the layer with the given ID.
func (r *Registry) Get(id string) (*Layer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.layers[id]
	return l, ok
}

// Remove deletes the layer with the given ID and returns it.
func (r *Registry) Remove(id string) (*Layer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.layers[id]
	if !ok {
		return nil, false
	}

	delete(r.layers, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return l, true
}

// List returns the layers in upload order.
func (r *Registry) List() []*Layer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Layer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.layers[id])
	}
	return out
}

// Len reports the number of loaded layers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.layers)
}
