package compositor

import (
	"image/color"
	"math"
)

// Transform is the per-layer draw state for one frame: pivot in image
// coordinates, pivot position on the canvas, axis scales, rotation and
// opacity. Transforms are value types derived from scratch every frame from
// (kind, progress, dimensions); nothing here survives between frames.
type Transform struct {
	OriginX, OriginY float64
	X, Y             float64
	ScaleX, ScaleY   float64
	Rotation         float64 // radians
	Alpha            uint8
}

func identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1, Alpha: 255}
}

func centered(cw, ch float64) Transform {
	t := identity()
	t.OriginX, t.OriginY = cw/2, ch/2
	t.X, t.Y = cw/2, ch/2
	return t
}

// layer pairs a source image with its transform. Layers are drawn in slice
// order, first at the bottom.
type layer struct {
	incoming bool // false: image A, true: image B
	tf       Transform
}

// flyAwayBackground is the clear color behind the FlyAway spin.
var flyAwayBackground = color.RGBA{R: 32, G: 32, B: 40, A: 255}

func black() color.RGBA { return color.RGBA{A: 255} }

// layersFor derives the background color and draw list for the purely
// geometric/photometric kinds. Perspective, blur and luma kinds have their
// own pipelines and never reach this function.
func layersFor(kind TransitionKind, p float64, canvasW, canvasH int) (color.RGBA, []layer) {
	cw, ch := float64(canvasW), float64(canvasH)
	bg := color.RGBA{A: 255}

	a := identity()
	b := identity()

	switch kind {
	case SlideLeft:
		b.X = (1 - p) * cw
		return bg, []layer{{tf: a}, {incoming: true, tf: b}}

	case SlideRight:
		b.X = -(1 - p) * cw
		return bg, []layer{{tf: a}, {incoming: true, tf: b}}

	case SlideTop:
		b.Y = -(1 - p) * ch
		return bg, []layer{{tf: a}, {incoming: true, tf: b}}

	case SlideBottom:
		b.Y = (1 - p) * ch
		return bg, []layer{{tf: a}, {incoming: true, tf: b}}

	case BoxIn:
		b = centered(cw, ch)
		b.ScaleX, b.ScaleY = p, p
		return bg, []layer{{tf: a}, {incoming: true, tf: b}}

	case BoxOut:
		a = centered(cw, ch)
		a.ScaleX, a.ScaleY = 1-p, 1-p
		return bg, []layer{{incoming: true, tf: b}, {tf: a}}

	case FadeToBlack:
		if p <= 0.5 {
			a.Alpha = alphaOf(1 - p/0.5)
			return bg, []layer{{tf: a}}
		}
		b.Alpha = alphaOf((p - 0.5) / 0.5)
		return bg, []layer{{incoming: true, tf: b}}

	case CrossFade:
		b.Alpha = alphaOf(p)
		return bg, []layer{{tf: a}, {incoming: true, tf: b}}

	case PageTurnHorizontal:
		if p <= 0.5 {
			a = centered(cw, ch)
			a.ScaleX = 1 - p/0.5
			return bg, []layer{{tf: a}}
		}
		b = centered(cw, ch)
		b.ScaleX = (p - 0.5) / 0.5
		return bg, []layer{{incoming: true, tf: b}}

	case PageTurnVertical:
		if p <= 0.5 {
			a = centered(cw, ch)
			a.ScaleY = 1 - p/0.5
			return bg, []layer{{tf: a}}
		}
		b = centered(cw, ch)
		b.ScaleY = (p - 0.5) / 0.5
		return bg, []layer{{incoming: true, tf: b}}

	case ShutterOpen:
		a.OriginX, a.OriginY = cw, ch/2
		a.X, a.Y = cw, ch/2
		a.ScaleX = 1 - p
		b.X = -(1 - p) * cw
		return bg, []layer{{incoming: true, tf: b}, {tf: a}}

	case FlyAway:
		if p <= 0.5 {
			local := p / 0.5
			a = centered(cw, ch)
			a.ScaleX, a.ScaleY = 1-local, 1-local
			a.Rotation = local * math.Pi
			a.Alpha = alphaOf(1 - local)
			return flyAwayBackground, []layer{{tf: a}}
		}
		local := (p - 0.5) / 0.5
		b = centered(cw, ch)
		b.ScaleX, b.ScaleY = local, local
		b.Rotation = -(1 - local) * math.Pi
		b.Alpha = alphaOf(local)
		return flyAwayBackground, []layer{{incoming: true, tf: b}}
	}

	return bg, nil
}

// alphaOf converts a 0..1 opacity fraction to an 8-bit alpha, clamped.
func alphaOf(f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f * 255)
}
