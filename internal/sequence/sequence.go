// Package sequence drives the compositor across evenly spaced progress
// samples and hands the resulting frames to an encoder. Encoding is the only
// concurrent stage: frames are composited in order on the calling goroutine
// and copied before dispatch, so encoder workers never observe a reused
// canvas.
package sequence

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/slidemorph/internal/compositor"
	"github.com/ivlev/slidemorph/internal/raster"
)

// FrameEncoder receives finished frames. Implementations own all file I/O
// and naming; Encode may be called from multiple goroutines.
type FrameEncoder interface {
	Encode(index int, frame *raster.Buffer) error
}

// Renderer batch-renders one transition into an encoder.
type Renderer struct {
	comp          *compositor.Compositor
	enc           FrameEncoder
	encodeWorkers int
}

// NewRenderer creates a renderer. encodeWorkers bounds the parallel encode
// stage; values below 1 are raised to 1.
func NewRenderer(comp *compositor.Compositor, enc FrameEncoder, encodeWorkers int) *Renderer {
	if encodeWorkers < 1 {
		encodeWorkers = 1
	}
	return &Renderer{comp: comp, enc: enc, encodeWorkers: encodeWorkers}
}

// Render composites frameCount+1 frames of the transition at progress values
// 0, 1/frameCount, ..., 1 and encodes them as indices baseIndex through
// baseIndex+frameCount. It returns the next free frame index.
func (r *Renderer) Render(kind compositor.TransitionKind, imgA, imgB *raster.Buffer, frameCount, baseIndex int) (int, error) {
	if frameCount < 1 {
		return baseIndex, fmt.Errorf("frame count %d out of range", frameCount)
	}

	g := new(errgroup.Group)
	g.SetLimit(r.encodeWorkers)

	for i := 0; i <= frameCount; i++ {
		progress := float64(i) / float64(frameCount)
		frame := r.comp.Composite(kind, progress, imgA, imgB).Clone()
		index := baseIndex + i
		g.Go(func() error {
			if err := r.enc.Encode(index, frame); err != nil {
				return fmt.Errorf("frame %d: %w", index, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return baseIndex, err
	}
	return baseIndex + frameCount + 1, nil
}
