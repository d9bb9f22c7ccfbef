package raster

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Buffer is a flat RGBA8 pixel raster, 4 bytes per pixel, row-major.
// A Buffer with zero width or height is "absent" and is skipped by
// every consumer rather than treated as an error.
type Buffer struct {
	width  int
	height int
	pix    []uint8
}

// New creates a buffer of the given dimensions, zero-filled.
// Non-positive dimensions yield an absent buffer.
func New(width, height int) *Buffer {
	if width < 1 || height < 1 {
		return &Buffer{}
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// Pix returns the raw RGBA data. Callers must not resize it.
func (b *Buffer) Pix() []uint8 { return b.pix }

// Empty reports whether the buffer has no pixels.
func (b *Buffer) Empty() bool {
	return b == nil || b.width < 1 || b.height < 1
}

// At returns the pixel at (x, y). Out-of-range coordinates return zero.
func (b *Buffer) At(x, y int) color.RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	i := (y*b.width + x) * 4
	return color.RGBA{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}
}

// Set writes the pixel at (x, y). Out-of-range coordinates are ignored.
func (b *Buffer) Set(x, y int, c color.RGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	b.pix[i] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
	b.pix[i+3] = c.A
}

// Fill overwrites every pixel with c.
func (b *Buffer) Fill(c color.RGBA) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
		b.pix[i+3] = c.A
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := New(b.width, b.height)
	copy(out.pix, b.pix)
	return out
}

// RGBA wraps the buffer as an *image.RGBA sharing the same pixel memory.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.pix,
		Stride: b.width * 4,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// FromImage copies an image into a new buffer, normalizing stride and origin
// so the pixel data is tightly packed from (0,0).
func FromImage(img image.Image) *Buffer {
	if img == nil {
		return &Buffer{}
	}
	bounds := img.Bounds()
	out := New(bounds.Dx(), bounds.Dy())
	if out.Empty() {
		return out
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == bounds.Dx()*4 && bounds.Min == image.Pt(0, 0) {
		copy(out.pix, rgba.Pix)
		return out
	}
	draw.Draw(out.RGBA(), out.RGBA().Rect, img, bounds.Min, draw.Src)
	return out
}

// FitTo returns the buffer stretched to exactly width x height using bilinear
// resampling, ignoring aspect ratio. An identity fit returns a clone; absent
// or degenerate inputs return an absent buffer.
func (b *Buffer) FitTo(width, height int) *Buffer {
	if b.Empty() || width < 1 || height < 1 {
		return &Buffer{}
	}
	if b.width == width && b.height == height {
		return b.Clone()
	}
	out := New(width, height)
	xdraw.ApproxBiLinear.Scale(out.RGBA(), out.RGBA().Rect, b.RGBA(), b.RGBA().Rect, xdraw.Src, nil)
	return out
}
