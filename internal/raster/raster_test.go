package raster

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestNewDegenerateIsAbsent(t *testing.T) {
	tests := []struct{ w, h int }{
		{0, 10}, {10, 0}, {-1, 5}, {0, 0},
	}
	for _, tt := range tests {
		if b := New(tt.w, tt.h); !b.Empty() {
			t.Errorf("New(%d, %d) should be absent", tt.w, tt.h)
		}
	}
	if New(2, 2).Empty() {
		t.Error("New(2, 2) should not be absent")
	}
}

func TestSetAtRoundTrip(t *testing.T) {
	b := New(4, 3)
	c := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	b.Set(2, 1, c)
	if got := b.At(2, 1); got != c {
		t.Errorf("At(2,1) = %v, want %v", got, c)
	}
	if got := b.At(-1, 0); got != (color.RGBA{}) {
		t.Errorf("out-of-range At = %v, want zero", got)
	}
	b.Set(99, 99, c) // must not panic
}

func TestFromImageNormalizesOriginAndStride(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), A: 255})
		}
	}
	sub := src.SubImage(image.Rect(2, 2, 6, 6))

	b := FromImage(sub)
	if b.Width() != 4 || b.Height() != 4 {
		t.Fatalf("got %dx%d, want 4x4", b.Width(), b.Height())
	}
	want := src.RGBAAt(2, 2)
	if got := b.At(0, 0); got != want {
		t.Errorf("At(0,0) = %v, want %v", got, want)
	}
}

func TestFromImageFastPathMatchesPixels(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 5, 4))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}
	b := FromImage(src)
	if !bytes.Equal(b.Pix(), src.Pix) {
		t.Error("tightly packed image should copy byte-for-byte")
	}
}

func TestFitToIdentityIsClone(t *testing.T) {
	b := New(6, 4)
	b.Fill(color.RGBA{R: 200, G: 100, B: 50, A: 255})
	fit := b.FitTo(6, 4)
	if !bytes.Equal(fit.Pix(), b.Pix()) {
		t.Error("identity fit should preserve pixels")
	}
	fit.Set(0, 0, color.RGBA{A: 255})
	if b.At(0, 0) == (color.RGBA{A: 255}) {
		t.Error("identity fit must not alias the source")
	}
}

func TestFitToStretchesSolidColor(t *testing.T) {
	b := New(3, 3)
	c := color.RGBA{R: 90, G: 180, B: 45, A: 255}
	b.Fill(c)
	fit := b.FitTo(12, 5)
	if fit.Width() != 12 || fit.Height() != 5 {
		t.Fatalf("got %dx%d, want 12x5", fit.Width(), fit.Height())
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 12; x++ {
			if fit.At(x, y) != c {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, fit.At(x, y), c)
			}
		}
	}
}

func TestFitToDegenerate(t *testing.T) {
	b := New(4, 4)
	if !b.FitTo(0, 10).Empty() {
		t.Error("fit to zero width should be absent")
	}
	var absent *Buffer
	if !absent.Empty() {
		t.Error("nil buffer should be absent")
	}
	if !(&Buffer{}).FitTo(5, 5).Empty() {
		t.Error("fitting an absent buffer should stay absent")
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := New(2, 2)
	b.Fill(color.RGBA{R: 1, G: 2, B: 3, A: 255})
	c := b.Clone()
	c.Set(0, 0, color.RGBA{A: 255})
	if b.At(0, 0) != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Error("clone must not share pixel memory")
	}
}
