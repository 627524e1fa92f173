package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"mdxport/internal/config"
	"mdxport/internal/scene"
)

// Wireframe renders the scene's projected edges into an RGBA framebuffer.
// It is the software implementation of the Renderer contract used by the CLI
// and tests.
type Wireframe struct {
	state      *scene.State
	width      int
	height     int
	pixelRatio float64
	quality    Quality
	lineWidth  int
	background color.RGBA
	frame      *image.RGBA
	frames     uint64
}

// NewWireframe constructs a software renderer over the given scene state.
func NewWireframe(state *scene.State, cfg config.Render) *Wireframe {
	bg := uint8(0)
	if cfg.BackgroundLuminancePercent > 0 {
		bg = uint8(255 * cfg.BackgroundLuminancePercent / 100)
	}
	w := &Wireframe{
		state:      state,
		width:      cfg.PreviewWidth,
		height:     cfg.PreviewHeight,
		pixelRatio: cfg.PixelRatio,
		lineWidth:  maxInt(cfg.LineWidth, 1),
		background: color.RGBA{R: bg, G: bg, B: bg, A: 255},
		quality: Quality{
			Profile:              cfg.Quality,
			Refinement:           cfg.Refinement,
			TemporalReprojection: cfg.TemporalReprojection,
		},
	}
	w.allocate()
	return w
}

func (w *Wireframe) allocate() {
	pw := int(float64(w.width) * w.pixelRatio)
	ph := int(float64(w.height) * w.pixelRatio)
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}
	w.frame = image.NewRGBA(image.Rect(0, 0, pw, ph))
}

// Advance renders one frame. The synthetic timestamp only selects the hue
// cycle; geometry comes entirely from the scene state, which the scheduler
// advances separately.
func (w *Wireframe) Advance(timestampMs float64) {
	draw.Draw(w.frame, w.frame.Bounds(), &image.Uniform{C: w.background}, image.Point{}, draw.Src)

	bounds := w.frame.Bounds()
	cx := float64(bounds.Dx()) / 2
	cy := float64(bounds.Dy()) / 2
	// Fit the unit wireframe with a margin regardless of aspect ratio.
	unit := math.Min(cx, cy) * 0.8

	hue := math.Mod(timestampMs/1000/12, 1)
	for _, edge := range w.state.ProjectedEdges() {
		x0 := cx + edge[0][0]*unit
		y0 := cy - edge[0][1]*unit
		x1 := cx + edge[1][0]*unit
		y1 := cy - edge[1][1]*unit
		depth := (edge[0][2] + edge[1][2]) / 2
		w.drawLine(x0, y0, x1, y1, edgeColor(hue, depth))
	}
	w.frames++
}

// Frame returns the current framebuffer.
func (w *Wireframe) Frame() *image.RGBA { return w.frame }

// FrameCount reports how many frames have been rendered since construction.
func (w *Wireframe) FrameCount() uint64 { return w.frames }

func (w *Wireframe) Size() (int, int) { return w.width, w.height }

func (w *Wireframe) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid renderer size %dx%d", width, height)
	}
	w.width = width
	w.height = height
	w.allocate()
	return nil
}

func (w *Wireframe) PixelRatio() float64 { return w.pixelRatio }

func (w *Wireframe) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	w.pixelRatio = ratio
	w.allocate()
}

func (w *Wireframe) Quality() Quality { return w.quality }

func (w *Wireframe) SetQuality(q Quality) { w.quality = q }

// drawLine rasterizes a line with the configured width. Refinement adds a
// half-pixel second pass that softens staircase artifacts.
func (w *Wireframe) drawLine(x0, y0, x1, y1 float64, c color.RGBA) {
	w.rasterize(x0, y0, x1, y1, c)
	if w.quality.Refinement {
		soft := c
		soft.A = 128
		w.rasterize(x0+0.5, y0+0.5, x1+0.5, y1+0.5, soft)
	}
}

func (w *Wireframe) rasterize(x0, y0, x1, y1 float64, c color.RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		w.plot(int(x0), int(y0), c)
		return
	}
	sx := dx / float64(steps)
	sy := dy / float64(steps)
	x, y := x0, y0
	for i := 0; i <= steps; i++ {
		w.plot(int(x), int(y), c)
		x += sx
		y += sy
	}
}

func (w *Wireframe) plot(x, y int, c color.RGBA) {
	half := w.lineWidth / 2
	for ox := -half; ox <= half; ox++ {
		for oy := -half; oy <= half; oy++ {
			px, py := x+ox, y+oy
			if image.Pt(px, py).In(w.frame.Bounds()) {
				if c.A == 255 {
					w.frame.SetRGBA(px, py, c)
				} else {
					blend(w.frame, px, py, c)
				}
			}
		}
	}
}

func blend(img *image.RGBA, x, y int, c color.RGBA) {
	dst := img.RGBAAt(x, y)
	a := uint32(c.A)
	inv := 255 - a
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(c.R)*a + uint32(dst.R)*inv) / 255),
		G: uint8((uint32(c.G)*a + uint32(dst.G)*inv) / 255),
		B: uint8((uint32(c.B)*a + uint32(dst.B)*inv) / 255),
		A: 255,
	})
}

// edgeColor maps hue cycle and projected depth to a wire color. Deeper edges
// dim toward the background.
func edgeColor(hue, depth float64) color.RGBA {
	brightness := 0.55 + 0.45*math.Tanh(depth*2)
	r, g, b := hsv(hue, 0.65, brightness)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func hsv(h, s, v float64) (uint8, uint8, uint8) {
	i := int(h*6) % 6
	f := h*6 - math.Floor(h*6)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
