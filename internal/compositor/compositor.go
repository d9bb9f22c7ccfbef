// Package compositor produces a single composited output frame from two
// source images, a transition kind and a progress value in [0,1]. All effect
// state is derived from scratch per call; the only memory carried between
// frames is the luma brightness cache, the blur scratch buffers and the
// canvas-fitted copies of the source images, each invalidated when the image
// it was derived from is replaced.
package compositor

import (
	"github.com/ivlev/slidemorph/internal/blur"
	"github.com/ivlev/slidemorph/internal/luma"
	"github.com/ivlev/slidemorph/internal/parallel"
	"github.com/ivlev/slidemorph/internal/perspective"
	"github.com/ivlev/slidemorph/internal/raster"
)

// Options are the session-fixed compositor settings.
type Options struct {
	CanvasWidth   int
	CanvasHeight  int
	MaxBlurRadius int
	Cube          perspective.CubeOptions
	Ring          perspective.RingOptions
	Workers       int // 0 selects hardware parallelism
}

// DefaultOptions returns the standard 1200x800 logical surface and effect
// tunables.
func DefaultOptions() Options {
	return Options{
		CanvasWidth:   1200,
		CanvasHeight:  800,
		MaxBlurRadius: 48,
		Cube:          perspective.DefaultCubeOptions(),
		Ring:          perspective.DefaultRingOptions(),
	}
}

// Compositor renders transition frames onto a reused canvas. It is
// synchronous and performs no I/O; the returned canvas is valid until the
// next Composite call.
type Compositor struct {
	opts   Options
	pool   *parallel.Pool
	luma   *luma.Processor
	blur   *blur.Processor
	canvas *raster.Buffer

	// canvas-fitted copies of the last seen source images, keyed by identity
	srcA, srcB *raster.Buffer
	fitA, fitB *raster.Buffer
}

// New creates a compositor with its own worker pool.
func New(opts Options) *Compositor {
	if opts.CanvasWidth < 1 || opts.CanvasHeight < 1 {
		def := DefaultOptions()
		opts.CanvasWidth, opts.CanvasHeight = def.CanvasWidth, def.CanvasHeight
	}
	pool := parallel.NewPool(opts.Workers)
	return &Compositor{
		opts:   opts,
		pool:   pool,
		luma:   luma.NewProcessor(pool),
		blur:   blur.NewProcessor(pool),
		canvas: raster.New(opts.CanvasWidth, opts.CanvasHeight),
	}
}

// Close releases the worker pool.
func (c *Compositor) Close() {
	c.pool.Close()
}

// CanvasSize returns the logical render dimensions.
func (c *Compositor) CanvasSize() (int, int) {
	return c.opts.CanvasWidth, c.opts.CanvasHeight
}

// Composite renders one frame. Progress outside [0,1] is clamped. When either
// image is absent the present one is drawn untransformed at full opacity and
// no effect is applied.
func (c *Compositor) Composite(kind TransitionKind, progress float64, imgA, imgB *raster.Buffer) *raster.Buffer {
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	c.refit(imgA, imgB)

	if c.fitA.Empty() || c.fitB.Empty() {
		c.canvas.Fill(black())
		if !c.fitA.Empty() {
			drawLayer(c.canvas, c.fitA, identity())
		} else if !c.fitB.Empty() {
			drawLayer(c.canvas, c.fitB, identity())
		}
		return c.canvas
	}

	switch kind {
	case BlurFade:
		c.compositeBlurFade(progress)
	case CubeRotate:
		c.compositeMeshes(perspective.Cube(progress, c.opts.CanvasWidth, c.opts.CanvasHeight, c.opts.Cube))
	case Ring:
		c.compositeMeshes(perspective.Ring(progress, c.opts.CanvasWidth, c.opts.CanvasHeight, c.opts.Ring))
	case LumaWipe:
		c.compositeLumaWipe(progress)
	default:
		bg, layers := layersFor(kind, progress, c.opts.CanvasWidth, c.opts.CanvasHeight)
		c.canvas.Fill(bg)
		for _, l := range layers {
			src := c.fitA
			if l.incoming {
				src = c.fitB
			}
			drawLayer(c.canvas, src, l.tf)
		}
	}
	return c.canvas
}

// refit refreshes the canvas-fitted copies when a source image is replaced.
// Replacing image B also drops the luma cache derived from it.
func (c *Compositor) refit(imgA, imgB *raster.Buffer) {
	if imgA != c.srcA || c.fitA == nil {
		c.srcA = imgA
		c.fitA = imgA.FitTo(c.opts.CanvasWidth, c.opts.CanvasHeight)
	}
	if imgB != c.srcB || c.fitB == nil {
		c.srcB = imgB
		c.fitB = imgB.FitTo(c.opts.CanvasWidth, c.opts.CanvasHeight)
		c.luma.Invalidate()
	}
}

func (c *Compositor) compositeBlurFade(progress float64) {
	sched := blur.FadeSchedule(progress, c.opts.MaxBlurRadius)
	c.canvas.Fill(black())
	if sched.BlurA {
		drawScaled(c.canvas, c.blur.Blur(c.fitA, sched.Radius), sched.AlphaA)
	}
	if sched.BlurB {
		drawScaled(c.canvas, c.blur.Blur(c.fitB, sched.Radius), sched.AlphaB)
	}
}

func (c *Compositor) compositeMeshes(meshes []perspective.Mesh) {
	c.canvas.Fill(black())
	for _, m := range meshes {
		src := c.fitA
		if m.Face == perspective.FaceIncoming {
			src = c.fitB
		}
		drawMesh(c.canvas, src, m)
	}
}

func (c *Compositor) compositeLumaWipe(progress float64) {
	// Both fitted images share the canvas dimensions, so the wipe output
	// covers the canvas exactly and is copied without resampling.
	out := c.luma.Wipe(c.fitA, c.fitB, progress)
	if out.Empty() {
		c.canvas.Fill(black())
		return
	}
	copy(c.canvas.Pix(), out.Pix())
}
