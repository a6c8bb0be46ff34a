package writer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"runtime"
	"sort"
	"sync"

	svg "github.com/ajstarks/svgo"
	"github.com/deadsy/dxf2gltf/geometry"
	v3 "github.com/deadsy/dxf2gltf/vec/v3"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/llgcode/draw2d/draw2dimg"
	"golang.org/x/image/font/gofont/goregular"
)

//-----------------------------------------------------------------------------

// WritePreviewSVG renders a flat top-down (XY) wireframe preview of geo:
// one polyline per path, colored by a per-layer hash so adjacent layers are
// visually distinguishable. This is a debug aid, not part of the core
// pipeline contract.
func WritePreviewSVG(w io.Writer, geo geometry.OptimizedGeometry, width, height int) error {
	box := previewBounds(geo)
	project := projector(box, width, height)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	for _, p := range geo.Polylines {
		if len(p.Points) < 2 {
			continue
		}
		xs := make([]int, len(p.Points))
		ys := make([]int, len(p.Points))
		for i, v := range p.Points {
			xs[i], ys[i] = project(v)
		}
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", layerColorHex(p.Layer))
		canvas.Polyline(xs, ys, style)
	}
	for _, m := range geo.Meshes {
		for t := 0; t < m.TriangleCount(); t++ {
			a, b, c := m.Triangle(t)
			xa, ya := project(a)
			xb, yb := project(b)
			xc, yc := project(c)
			style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", layerColorHex(m.Layer))
			canvas.Polygon([]int{xa, xb, xc}, []int{ya, yb, yc}, style)
		}
	}

	canvas.End()
	return nil
}

//-----------------------------------------------------------------------------

// renderJob is one layer's worth of independent rasterization work: each
// layer is drawn onto its own canvas concurrently (mirroring the pipeline's
// worker-pool pattern for independent per-unit evaluation), then composited
// back in deterministic layer-name order.
type renderJob struct {
	layer     string
	polylines []geometry.Polyline
	meshes    []geometry.Mesh
}

type renderResult struct {
	layer string
	img   *image.RGBA
}

// WritePreviewPNG renders geo as a rasterized top-down preview with a
// layer-name legend, writing a PNG to w. Each layer's geometry is
// rasterized on its own goroutine over a bounded worker pool (layers don't
// share mutable drawing state, so unlike the SVG path this can run
// concurrently), then composited in sorted layer-name order so the result
// is reproducible regardless of scheduling.
func WritePreviewPNG(w io.Writer, geo geometry.OptimizedGeometry, width, height int) error {
	box := previewBounds(geo)
	project := projector(box, width, height)

	jobs := groupByLayer(geo)
	jobCh := make(chan renderJob, len(jobs))
	resultCh := make(chan renderResult, len(jobs))

	workers := runtime.NumCPU()
	if workers > len(jobs) && len(jobs) > 0 {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				resultCh <- renderResult{layer: job.layer, img: rasterizeLayer(job, width, height, project)}
			}
		}()
	}
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()
	close(resultCh)

	byLayer := make(map[string]*image.RGBA, len(jobs))
	for r := range resultCh {
		byLayer[r.layer] = r.img
	}

	final := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(final, final.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	names := make([]string, 0, len(byLayer))
	for name := range byLayer {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		draw.Draw(final, final.Bounds(), byLayer[name], image.Point{}, draw.Over)
	}

	drawLegend(final, names)

	return png.Encode(w, final)
}

func groupByLayer(geo geometry.OptimizedGeometry) []renderJob {
	byLayer := map[string]*renderJob{}
	order := []string{}
	get := func(layer string) *renderJob {
		j, ok := byLayer[layer]
		if !ok {
			j = &renderJob{layer: layer}
			byLayer[layer] = j
			order = append(order, layer)
		}
		return j
	}
	for _, p := range geo.Polylines {
		j := get(p.Layer)
		j.polylines = append(j.polylines, p)
	}
	for _, m := range geo.Meshes {
		j := get(m.Layer)
		j.meshes = append(j.meshes, m)
	}
	jobs := make([]renderJob, len(order))
	for i, name := range order {
		jobs[i] = *byLayer[name]
	}
	return jobs
}

func rasterizeLayer(job renderJob, width, height int, project func(v3.Vec) (int, int)) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetStrokeColor(layerColor(job.layer))
	gc.SetLineWidth(1)

	for _, p := range job.polylines {
		if len(p.Points) < 2 {
			continue
		}
		x0, y0 := project(p.Points[0])
		gc.MoveTo(float64(x0), float64(y0))
		for _, v := range p.Points[1:] {
			x, y := project(v)
			gc.LineTo(float64(x), float64(y))
		}
		if p.Closed {
			gc.Close()
		}
		gc.Stroke()
	}
	for _, m := range job.meshes {
		for t := 0; t < m.TriangleCount(); t++ {
			a, b, c := m.Triangle(t)
			xa, ya := project(a)
			xb, yb := project(b)
			xc, yc := project(c)
			gc.MoveTo(float64(xa), float64(ya))
			gc.LineTo(float64(xb), float64(yb))
			gc.LineTo(float64(xc), float64(yc))
			gc.Close()
			gc.Stroke()
		}
	}
	return img
}

// drawLegend draws the layer names in the corner using freetype, so the
// rasterized preview is self-describing without a side-channel.
func drawLegend(img *image.RGBA, names []string) {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return
	}
	ctx := freetype.NewContext()
	ctx.SetFont(font)
	ctx.SetFontSize(10)
	ctx.SetDst(img)
	ctx.SetClip(img.Bounds())
	ctx.SetSrc(image.NewUniform(color.Black))

	pt := freetype.Pt(4, 12)
	for _, name := range names {
		p, err := ctx.DrawString(name, pt)
		if err != nil {
			return
		}
		pt = p
		pt.X = freetype.Pt(4, 0).X
		pt.Y += ctx.PointToFixed(12)
	}
}

//-----------------------------------------------------------------------------

func previewBounds(geo geometry.OptimizedGeometry) v3.Box3 {
	var pts []v3.Vec
	for _, p := range geo.Polylines {
		pts = append(pts, p.Points...)
	}
	for _, m := range geo.Meshes {
		pts = append(pts, m.Vertices...)
	}
	if len(pts) == 0 {
		return v3.Box3{}
	}
	return v3.BoundingBox(pts)
}

// projector builds a function mapping a 3D point's XY plane into pixel
// space, fitting box into width x height with a small margin and flipping Y
// (image space grows downward, CAD space grows upward).
func projector(box v3.Box3, width, height int) func(v3.Vec) (int, int) {
	const margin = 0.05
	size := box.Size()
	spanX, spanY := size.X, size.Y
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	scale := (1 - 2*margin) * minFloat(float64(width)/spanX, float64(height)/spanY)
	offsetX := float64(width)*margin + (float64(width)*(1-2*margin)-scale*spanX)/2
	offsetY := float64(height)*margin + (float64(height)*(1-2*margin)-scale*spanY)/2

	return func(v v3.Vec) (int, int) {
		x := offsetX + (v.X-box.Min.X)*scale
		y := float64(height) - (offsetY + (v.Y-box.Min.Y)*scale)
		return int(x), int(y)
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// layerColorHex and layerColor derive a stable, visually distinct color
// from a layer name's hash, so the same layer always renders the same
// color across runs without needing a caller-supplied palette.
func layerColorHex(layer string) string {
	c := layerColor(layer)
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func layerColor(layer string) color.RGBA {
	h := fnv32(layer)
	return color.RGBA{
		R: uint8(h),
		G: uint8(h >> 8),
		B: uint8(h >> 16),
		A: 255,
	}
}

func fnv32(s string) uint32 {
	const prime = 16777619
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}
