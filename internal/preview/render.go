// Package preview rasterizes graphic records into small WebP images, used
// for layer thumbnails and the offline import tool.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"sort"

	"github.com/bdbarbs/geoview/internal/geo"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

// Default canvas size for layer previews.
const (
	DefaultWidth  = 640
	DefaultHeight = 400
)

// supersample is the working-canvas multiplier. Drawing happens at double
// resolution and the result is scaled down, which smooths stroke edges.
const supersample = 2

var background = color.NRGBA{R: 238, G: 241, B: 244, A: 255}

// Surface is an off-screen rendering surface. It satisfies the renderer
// interface of the import pipeline: records handed to Render are drawn
// immediately and stay drawn.
type Surface struct {
	width, height int
	img           *image.RGBA
}

// NewSurface returns a surface with the given output size in pixels.
func NewSurface(width, height int) *Surface {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, width*supersample, height*supersample))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	return &Surface{width: width, height: height, img: img}
}

// Render draws the records in order onto the surface, framed by focus.
// A nil focus falls back to a whole-world frame.
func (s *Surface) Render(graphics []geo.Graphic, focus *geo.Extent) {
	p := newProjection(focus, s.img.Bounds())

	for _, g := range graphics {
		s.drawGraphic(g, p)
	}
}

// Image returns the finished preview, downscaled to the output size.
func (s *Surface) Image() image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), s.img, s.img.Bounds(), draw.Over, nil)
	return dst
}

// EncodeWebP writes the finished preview as lossy WebP.
func (s *Surface) EncodeWebP(w io.Writer) error {
	return webp.Encode(w, s.Image(), &webp.Options{Lossless: false, Quality: 85})
}

func (s *Surface) drawGraphic(g geo.Graphic, p projection) {
	switch g.Geometry.Type {
	case geo.KindPoint:
		if g.Geometry.Point != nil {
			s.drawMarker(*g.Geometry.Point, g.Symbol, p)
		}

	case geo.KindMultipoint:
		for _, pt := range g.Geometry.Points {
			s.drawMarker(pt, g.Symbol, p)
		}

	case geo.KindPolyline:
		width := g.Symbol.Width * supersample
		if width <= 0 {
			width = supersample
		}
		for _, path := range g.Geometry.Paths {
			s.strokePath(path, g.Symbol.Color, width, p, false)
		}

	case geo.KindPolygon:
		if g.Symbol.Fill != nil {
			s.fillRings(g.Geometry.Rings, *g.Symbol.Fill, p)
		}
		width := g.Symbol.Width * supersample
		if width <= 0 {
			width = supersample
		}
		for _, ring := range g.Geometry.Rings {
			s.strokePath(ring, g.Symbol.Color, width, p, true)
		}
	}
}

func (s *Surface) drawMarker(pt geo.Position, sym geo.Symbol, p projection) {
	size := sym.Size * supersample
	if size <= 0 {
		size = 8 * supersample
	}
	x, y := p.apply(pt)
	s.stampDisc(x, y, size/2, sym.Color)
}

// strokePath draws a path by stamping discs along each segment. Slow but
// dependable for the handful of records a preview holds.
func (s *Surface) strokePath(path []geo.Position, c geo.Color, width float64, p projection, closed bool) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		x, y := p.apply(path[0])
		s.stampDisc(x, y, width/2, c)
		return
	}

	last := len(path) - 1
	for i := 0; i < last; i++ {
		s.strokeSegment(path[i], path[i+1], c, width, p)
	}
	if closed && path[last] != path[0] {
		s.strokeSegment(path[last], path[0], c, width, p)
	}
}

func (s *Surface) strokeSegment(a, b geo.Position, c geo.Color, width float64, p projection) {
	x0, y0 := p.apply(a)
	x1, y1 := p.apply(b)

	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))) + 1
	r := width / 2

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.stampDisc(x0+(x1-x0)*t, y0+(y1-y0)*t, r, c)
	}
}

func (s *Surface) stampDisc(cx, cy, r float64, c geo.Color) {
	if r < 1 {
		r = 1
	}

	x0 := int(math.Floor(cx - r))
	x1 := int(math.Ceil(cx + r))
	y0 := int(math.Floor(cy - r))
	y1 := int(math.Ceil(cy + r))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				s.blend(x, y, c)
			}
		}
	}
}

// fillRings fills all rings of a polygon with one even-odd scanline pass.
// Hole rings cancel the exterior automatically, which also keeps flattened
// multi-part polygons rendering correctly.
func (s *Surface) fillRings(rings [][]geo.Position, c geo.Color, p projection) {
	type edge struct {
		x0, y0, x1, y1 float64
	}

	var edges []edge
	minY, maxY := math.Inf(1), math.Inf(-1)

	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		for i := range ring {
			a := ring[i]
			b := ring[(i+1)%len(ring)]
			x0, y0 := p.apply(a)
			x1, y1 := p.apply(b)
			if y0 == y1 {
				continue
			}
			edges = append(edges, edge{x0, y0, x1, y1})
			minY = math.Min(minY, math.Min(y0, y1))
			maxY = math.Max(maxY, math.Max(y0, y1))
		}
	}
	if len(edges) == 0 {
		return
	}

	bounds := s.img.Bounds()
	yStart := int(math.Max(minY, float64(bounds.Min.Y)))
	yEnd := int(math.Min(maxY, float64(bounds.Max.Y-1)))

	for y := yStart; y <= yEnd; y++ {
		sy := float64(y) + 0.5

		var xs []float64
		for _, e := range edges {
			if (sy >= e.y0 && sy < e.y1) || (sy >= e.y1 && sy < e.y0) {
				t := (sy - e.y0) / (e.y1 - e.y0)
				xs = append(xs, e.x0+(e.x1-e.x0)*t)
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Floor(xs[i+1] - 0.5))
			for x := x0; x <= x1; x++ {
				s.blend(x, y, c)
			}
		}
	}
}

// blend draws one pixel with source-over compositing.
func (s *Surface) blend(x, y int, c geo.Color) {
	if !(image.Point{X: x, Y: y}).In(s.img.Bounds()) {
		return
	}

	a := uint32(c[3])
	if a == 0 {
		return
	}

	o := s.img.PixOffset(x, y)
	pix := s.img.Pix[o : o+4 : o+4]

	pix[0] = uint8((uint32(c[0])*a + uint32(pix[0])*(255-a)) / 255)
	pix[1] = uint8((uint32(c[1])*a + uint32(pix[1])*(255-a)) / 255)
	pix[2] = uint8((uint32(c[2])*a + uint32(pix[2])*(255-a)) / 255)
	pix[3] = uint8(a + uint32(pix[3])*(255-a)/255)
}

// projection maps WGS84 positions onto canvas pixels: the frame extent is
// aspect-fit into the canvas and latitude grows upward while pixel rows
// grow downward.
type projection struct {
	xmin, ymin float64
	scale      float64
	offX, offY float64
	canvasH    float64
}

var worldFrame = geo.Extent{XMin: -180, YMin: -85, XMax: 180, YMax: 85, SpatialReference: geo.WGS84}

func newProjection(focus *geo.Extent, canvas image.Rectangle) projection {
	frame := worldFrame
	if focus != nil && focus.Width() > 0 && focus.Height() > 0 {
		frame = *focus
	}

	w := float64(canvas.Dx())
	h := float64(canvas.Dy())
	scale := math.Min(w/frame.Width(), h/frame.Height())

	return projection{
		xmin:    frame.XMin,
		ymin:    frame.YMin,
		scale:   scale,
		offX:    (w - frame.Width()*scale) / 2,
		offY:    (h - frame.Height()*scale) / 2,
		canvasH: h,
	}
}

func (p projection) apply(pt geo.Position) (x, y float64) {
	x = (pt.Lon()-p.xmin)*p.scale + p.offX
	y = p.canvasH - ((pt.Lat()-p.ymin)*p.scale + p.offY)
	return x, y
}
