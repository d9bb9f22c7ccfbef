package overlay

import (
	"image"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/slidemorph/internal/raster"
)

// Badge is a pre-rendered QR code stamped into the bottom-right corner of
// exported frames.
type Badge struct {
	img    *raster.Buffer
	margin int
}

// NewBadge renders text as a QR code of the given pixel size.
func NewBadge(text string, size int) (*Badge, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return &Badge{
		img:    raster.FromImage(q.Image(size)),
		margin: 16,
	}, nil
}

// Stamp copies the badge onto the frame. Frames smaller than the badge plus
// margin are left untouched.
func (b *Badge) Stamp(frame *raster.Buffer) {
	if frame.Empty() || b.img.Empty() {
		return
	}
	x := frame.Width() - b.img.Width() - b.margin
	y := frame.Height() - b.img.Height() - b.margin
	if x < 0 || y < 0 {
		return
	}
	dst := frame.RGBA()
	r := image.Rect(x, y, x+b.img.Width(), y+b.img.Height())
	draw.Draw(dst, r, b.img.RGBA(), image.Point{}, draw.Src)
}
