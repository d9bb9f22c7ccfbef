package luma

import (
	"github.com/ivlev/slidemorph/internal/parallel"
	"github.com/ivlev/slidemorph/internal/raster"
)

// Processor implements the brightness-threshold wipe. Per-pixel brightness of
// the incoming image is computed once and cached; each frame only compares the
// cached values against a threshold derived from progress.
//
// The threshold is (1-progress)*256 rather than the more obvious
// (1-progress)*255: with 255 a pure-white pixel (luma 255) would already be
// taken from the incoming image at progress 0. With 256 no 8-bit luma reaches
// the threshold at progress 0, so the wipe starts fully on the outgoing image
// and still ends fully on the incoming one.
type Processor struct {
	pool *parallel.Pool

	cache   []uint8
	cacheW  int
	cacheH  int
	cacheOK bool
}

// NewProcessor creates a wipe processor running on the given pool.
func NewProcessor(pool *parallel.Pool) *Processor {
	return &Processor{pool: pool}
}

// Invalidate drops the brightness cache. Call after the incoming image is
// replaced; the next Wipe rebuilds the cache.
func (p *Processor) Invalidate() {
	p.cacheOK = false
}

// cacheValid reports whether the cache can be reused for an incoming image of
// the given dimensions.
func (p *Processor) cacheValid(w, h int) bool {
	return p.cacheOK && p.cacheW == w && p.cacheH == h
}

// Wipe composites a and b by per-pixel brightness of b. The output has the
// smaller common dimensions of the two inputs; when sizes differ both images
// are sampled by nearest-neighbor lookup into the common grid. Every output
// pixel is copied verbatim from one of the inputs with alpha forced opaque.
// Either input being absent yields an absent buffer.
func (p *Processor) Wipe(a, b *raster.Buffer, progress float64) *raster.Buffer {
	if a.Empty() || b.Empty() {
		return raster.New(0, 0)
	}
	w := min(a.Width(), b.Width())
	h := min(a.Height(), b.Height())

	if !p.cacheValid(w, h) {
		p.rebuildCache(b, w, h)
	}

	threshold := (1.0 - progress) * 256.0
	out := raster.New(w, h)
	outPix := out.Pix()
	aPix, aw, ah := a.Pix(), a.Width(), a.Height()
	bPix, bw, bh := b.Pix(), b.Width(), b.Height()

	p.pool.Dispatch(h, func(rng parallel.RowRange) {
		for y := rng.Start; y < rng.End; y++ {
			ay := y * ah / h
			by := y * bh / h
			for x := 0; x < w; x++ {
				di := (y*w + x) * 4
				var si int
				if float64(p.cache[y*w+x]) >= threshold {
					si = (by*bw + x*bw/w) * 4
					copy(outPix[di:di+3], bPix[si:si+3])
				} else {
					si = (ay*aw + x*aw/w) * 4
					copy(outPix[di:di+3], aPix[si:si+3])
				}
				outPix[di+3] = 255
			}
		}
	})
	return out
}

// rebuildCache recomputes per-pixel brightness of b sampled onto a w x h grid.
func (p *Processor) rebuildCache(b *raster.Buffer, w, h int) {
	if len(p.cache) < w*h {
		p.cache = make([]uint8, w*h)
	}
	bPix, bw, bh := b.Pix(), b.Width(), b.Height()
	p.pool.Dispatch(h, func(rng parallel.RowRange) {
		for y := rng.Start; y < rng.End; y++ {
			by := y * bh / h
			for x := 0; x < w; x++ {
				si := (by*bw + x*bw/w) * 4
				r := int(bPix[si])
				g := int(bPix[si+1])
				bl := int(bPix[si+2])
				p.cache[y*w+x] = uint8((299*r + 587*g + 114*bl) / 1000)
			}
		}
	})
	p.cacheW = w
	p.cacheH = h
	p.cacheOK = true
}
