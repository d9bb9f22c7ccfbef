package blur

import (
	"github.com/ivlev/slidemorph/internal/parallel"
	"github.com/ivlev/slidemorph/internal/raster"
)

// downsampleFactor bounds the cost of the blur: the source is stride-sampled
// down by this factor before the box passes run. The caller rescales the
// small result when drawing; there is no full-resolution path.
const downsampleFactor = 4

// Processor runs a two-pass separable box blur over a downsampled copy of the
// source. The intermediate buffers are reused across calls; they are resized
// before each parallel dispatch, never during one.
type Processor struct {
	pool    *parallel.Pool
	small   *raster.Buffer
	scratch *raster.Buffer
}

// NewProcessor creates a blur processor running on the given pool.
func NewProcessor(pool *parallel.Pool) *Processor {
	return &Processor{pool: pool}
}

// Blur returns img blurred with the given radius. A radius below 1 is the
// identity and returns img itself. The result is the downsampled buffer; it
// is owned by the processor and valid until the next Blur call.
func (p *Processor) Blur(img *raster.Buffer, radius int) *raster.Buffer {
	if radius < 1 || img.Empty() {
		return img
	}
	sw := img.Width() / downsampleFactor
	sh := img.Height() / downsampleFactor
	if sw < 1 || sh < 1 {
		return img
	}
	r := radius / downsampleFactor
	if r < 1 {
		r = 1
	}

	p.resize(sw, sh)
	p.downsample(img, sw, sh)
	p.boxPassHorizontal(sw, sh, r)
	p.boxPassVertical(sw, sh, r)
	return p.small
}

func (p *Processor) resize(w, h int) {
	if p.small.Empty() || p.small.Width() != w || p.small.Height() != h {
		p.small = raster.New(w, h)
		p.scratch = raster.New(w, h)
	}
}

// downsample stride-samples img into the small buffer. Plain point sampling,
// no averaging: speed is the point here.
func (p *Processor) downsample(img *raster.Buffer, sw, sh int) {
	src := img.Pix()
	dst := p.small.Pix()
	srcW := img.Width()
	p.pool.Dispatch(sh, func(rng parallel.RowRange) {
		for y := rng.Start; y < rng.End; y++ {
			srcRow := y * downsampleFactor * srcW * 4
			dstRow := y * sw * 4
			for x := 0; x < sw; x++ {
				si := srcRow + x*downsampleFactor*4
				di := dstRow + x*4
				copy(dst[di:di+4], src[si:si+4])
			}
		}
	})
}

// boxPassHorizontal averages each row of small into scratch. Every output
// pixel is the unweighted mean of the 2r+1 samples around it, clamped at the
// row edges.
func (p *Processor) boxPassHorizontal(w, h, r int) {
	src := p.small.Pix()
	dst := p.scratch.Pix()
	p.pool.Dispatch(h, func(rng parallel.RowRange) {
		for y := rng.Start; y < rng.End; y++ {
			row := y * w * 4
			for x := 0; x < w; x++ {
				lo := x - r
				if lo < 0 {
					lo = 0
				}
				hi := x + r
				if hi > w-1 {
					hi = w - 1
				}
				var sr, sg, sb, sa int
				for i := lo; i <= hi; i++ {
					si := row + i*4
					sr += int(src[si])
					sg += int(src[si+1])
					sb += int(src[si+2])
					sa += int(src[si+3])
				}
				n := hi - lo + 1
				di := row + x*4
				dst[di] = uint8(sr / n)
				dst[di+1] = uint8(sg / n)
				dst[di+2] = uint8(sb / n)
				dst[di+3] = uint8(sa / n)
			}
		}
	})
}

// boxPassVertical averages each column of scratch back into small. It only
// starts after the horizontal dispatch has joined, so every read sees the
// completed first pass.
func (p *Processor) boxPassVertical(w, h, r int) {
	src := p.scratch.Pix()
	dst := p.small.Pix()
	p.pool.Dispatch(h, func(rng parallel.RowRange) {
		for y := rng.Start; y < rng.End; y++ {
			lo := y - r
			if lo < 0 {
				lo = 0
			}
			hi := y + r
			if hi > h-1 {
				hi = h - 1
			}
			n := hi - lo + 1
			for x := 0; x < w; x++ {
				var sr, sg, sb, sa int
				for i := lo; i <= hi; i++ {
					si := (i*w + x) * 4
					sr += int(src[si])
					sg += int(src[si+1])
					sb += int(src[si+2])
					sa += int(src[si+3])
				}
				di := (y*w + x) * 4
				dst[di] = uint8(sr / n)
				dst[di+1] = uint8(sg / n)
				dst[di+2] = uint8(sb / n)
				dst[di+3] = uint8(sa / n)
			}
		}
	})
}

// Schedule describes the BlurFade timeline at a given progress: which images
// are blurred, at what radius, and their opacities.
type Schedule struct {
	Radius int
	BlurA  bool
	BlurB  bool
	AlphaA uint8
	AlphaB uint8
}

// FadeSchedule derives the BlurFade parameters for a progress value.
// Radius ramps 0 -> maxRadius over [0, 0.45] blurring only the outgoing
// image, holds at maxRadius over (0.45, 0.55) while the images cross-fade,
// then ramps back to 0 over [0.55, 1] blurring only the incoming image.
func FadeSchedule(progress float64, maxRadius int) Schedule {
	switch {
	case progress <= 0.45:
		return Schedule{
			Radius: int(float64(maxRadius) * progress / 0.45),
			BlurA:  true,
			AlphaA: 255,
		}
	case progress < 0.55:
		t := (progress - 0.45) / 0.1
		return Schedule{
			Radius: maxRadius,
			BlurA:  true,
			BlurB:  true,
			AlphaA: uint8(255 * (1 - t)),
			AlphaB: uint8(255 * t),
		}
	default:
		return Schedule{
			Radius: int(float64(maxRadius) * (1 - progress) / 0.45),
			BlurB:  true,
			AlphaB: 255,
		}
	}
}
