package render

import "image"

// Quality bundles the renderer flags the exporter captures at start and
// restores at finish.
type Quality struct {
	Profile string
	// Refinement enables progressive edge refinement between frames.
	Refinement bool
	// TemporalReprojection reuses the previous frame to cheapen the next
	// one. Exports render every frame from scratch when it is disabled.
	TemporalReprojection bool
}

// Renderer is the contract the export scheduler drives. Advance must accept
// arbitrary synthetic timestamps that bear no relation to wall-clock time and
// produce exactly one frame per call.
type Renderer interface {
	// Advance renders one frame for the given synthetic timestamp in
	// milliseconds.
	Advance(timestampMs float64)
	// Frame returns the most recently rendered frame. The returned image
	// is owned by the renderer and valid until the next Advance.
	Frame() *image.RGBA

	Size() (width, height int)
	SetSize(width, height int) error

	PixelRatio() float64
	SetPixelRatio(ratio float64)

	Quality() Quality
	SetQuality(Quality)
}
