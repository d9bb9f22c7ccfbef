package compositor

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ivlev/slidemorph/internal/perspective"
	"github.com/ivlev/slidemorph/internal/raster"
)

// drawLayer renders src onto dst under the given transform. Fully transparent
// layers and layers collapsed below one pixel on either axis are skipped.
func drawLayer(dst, src *raster.Buffer, tf Transform) {
	if src.Empty() || dst.Empty() || tf.Alpha == 0 {
		return
	}
	if math.Abs(tf.ScaleX)*float64(src.Width()) < 1 || math.Abs(tf.ScaleY)*float64(src.Height()) < 1 {
		return
	}

	var opts *xdraw.Options
	if tf.Alpha < 255 {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: tf.Alpha})}
	}

	// dst = T(pos) * R(rot) * S(scale) * T(-origin) * src
	sin, cos := math.Sincos(tf.Rotation)
	m := f64.Aff3{
		tf.ScaleX * cos, -tf.ScaleY * sin, tf.X - tf.ScaleX*cos*tf.OriginX + tf.ScaleY*sin*tf.OriginY,
		tf.ScaleX * sin, tf.ScaleY * cos, tf.Y - tf.ScaleX*sin*tf.OriginX - tf.ScaleY*cos*tf.OriginY,
	}

	if tf.Rotation == 0 {
		if isIdentityAffine(m) && tf.Alpha == 255 &&
			src.Width() == dst.Width() && src.Height() == dst.Height() {
			// The source may carry partial alpha (e.g. a decoded PNG); the
			// canvas stays fully opaque regardless.
			pix := dst.Pix()
			copy(pix, src.Pix())
			for i := 3; i < len(pix); i += 4 {
				pix[i] = 255
			}
			return
		}
		xdraw.NearestNeighbor.Transform(dst.RGBA(), m, src.RGBA(), src.RGBA().Rect, xdraw.Over, opts)
		return
	}
	xdraw.ApproxBiLinear.Transform(dst.RGBA(), m, src.RGBA(), src.RGBA().Rect, xdraw.Over, opts)
}

func isIdentityAffine(m f64.Aff3) bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 0 && m[4] == 1 && m[5] == 0
}

// drawScaled stretches src over the whole canvas with the given opacity.
// Used for the blurred small buffers, which stay low-resolution on purpose.
func drawScaled(dst, src *raster.Buffer, alpha uint8) {
	if src.Empty() || dst.Empty() || alpha == 0 {
		return
	}
	var opts *xdraw.Options
	if alpha < 255 {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: alpha})}
	}
	xdraw.ApproxBiLinear.Scale(dst.RGBA(), dst.RGBA().Rect, src.RGBA(), src.RGBA().Rect, xdraw.Over, opts)
}

// drawMesh rasterizes one projected strip mesh. Each strip is a trapezoid
// swept column by column: the source column and the vertical extent are
// interpolated between the strip's projected edges, sampling is
// nearest-neighbor, and the face shade scales the RGB channels.
func drawMesh(dst, src *raster.Buffer, mesh perspective.Mesh) {
	if src.Empty() || dst.Empty() {
		return
	}
	sw, sh := src.Width(), src.Height()
	dw, dh := dst.Width(), dst.Height()
	srcPix, dstPix := src.Pix(), dst.Pix()

	// shade as 8.8 fixed point
	shade := int(mesh.Shade * 256)
	if shade > 256 {
		shade = 256
	}
	if shade < 0 {
		shade = 0
	}

	for _, s := range mesh.Strips {
		x0, x1 := s.X0, s.X1
		u0, u1 := s.U0, s.U1
		top0, top1 := s.Top0, s.Top1
		bot0, bot1 := s.Bot0, s.Bot1
		if x1 < x0 {
			x0, x1 = x1, x0
			u0, u1 = u1, u0
			top0, top1 = top1, top0
			bot0, bot1 = bot1, bot0
		}
		span := x1 - x0
		if span < 1e-9 {
			continue
		}
		ix0 := int(math.Ceil(x0 - 0.5))
		ix1 := int(math.Floor(x1 - 0.5))
		if ix0 < 0 {
			ix0 = 0
		}
		if ix1 > dw-1 {
			ix1 = dw - 1
		}
		for ix := ix0; ix <= ix1; ix++ {
			f := (float64(ix) + 0.5 - x0) / span
			u := u0 + (u1-u0)*f
			sx := int(u * float64(sw))
			if sx < 0 {
				sx = 0
			}
			if sx > sw-1 {
				sx = sw - 1
			}
			top := top0 + (top1-top0)*f
			bot := bot0 + (bot1-bot0)*f
			height := bot - top
			if height < 1e-9 {
				continue
			}
			iy0 := int(math.Ceil(top - 0.5))
			iy1 := int(math.Floor(bot - 0.5))
			if iy0 < 0 {
				iy0 = 0
			}
			if iy1 > dh-1 {
				iy1 = dh - 1
			}
			for iy := iy0; iy <= iy1; iy++ {
				v := (float64(iy) + 0.5 - top) / height
				sy := int(v * float64(sh))
				if sy < 0 {
					sy = 0
				}
				if sy > sh-1 {
					sy = sh - 1
				}
				si := (sy*sw + sx) * 4
				di := (iy*dw + ix) * 4
				dstPix[di] = uint8(int(srcPix[si]) * shade >> 8)
				dstPix[di+1] = uint8(int(srcPix[si+1]) * shade >> 8)
				dstPix[di+2] = uint8(int(srcPix[si+2]) * shade >> 8)
				dstPix[di+3] = 255
			}
		}
	}
}
