package perspective

import "math"

// Face identifies which source image textures a mesh.
type Face int

const (
	FaceOutgoing Face = iota // image A
	FaceIncoming             // image B
)

// Strip is one vertical slice of a projected face in screen space. The slice
// covers the horizontal texture span [U0, U1) of its source image and is drawn
// between the two projected edges, each with its own vertical extent.
type Strip struct {
	X0, Top0, Bot0 float64 // projected left edge
	X1, Top1, Bot1 float64 // projected right edge
	U0, U1         float64 // source texture span, 0..1
}

// Mesh is a shaded, textured strip list for one face, with a representative
// depth used for painter's-algorithm ordering.
type Mesh struct {
	Face   Face
	Shade  float64 // light multiplier, 0..1
	Depth  float64 // representative z, larger is farther
	Strips []Strip
}

// CubeOptions tunes the cube-rotation projection.
type CubeOptions struct {
	Strips int     // vertical strips per face
	FOV    float64 // perspective constant: scale = FOV / (FOV + z)
}

// DefaultCubeOptions returns the standard strip count and field of view.
func DefaultCubeOptions() CubeOptions {
	return CubeOptions{Strips: 96, FOV: 800}
}

// Cube models a 90-degree rotation of a two-faced box around the vertical
// axis through its depth center. The front face (image A) rotates out to the
// right while the left side face (image B) rotates in to become the front.
// Depth runs from 0 at the resting front plane to the cube side length at the
// back. The returned meshes are ordered farther-first; the order flips exactly
// once, at 45 degrees, where the two face centers reach equal depth.
func Cube(progress float64, canvasW, canvasH int, opts CubeOptions) []Mesh {
	if canvasW < 1 || canvasH < 1 || opts.Strips < 1 || opts.FOV <= 0 {
		return nil
	}
	angle := progress * math.Pi / 2
	sin, cos := math.Sin(angle), math.Cos(angle)
	half := float64(canvasW) / 2
	cx := float64(canvasW) / 2
	cy := float64(canvasH) / 2
	halfH := float64(canvasH) / 2

	project := func(x, z float64) (sx, top, bot float64) {
		depth := z + half
		s := opts.FOV / (opts.FOV + depth)
		return cx + x*s, cy - halfH*s, cy + halfH*s
	}

	// Face A: local (x, -half) for x across the cube width.
	frontEdge := func(t float64) (float64, float64) {
		x := t*float64(canvasW) - half
		return x*cos + half*sin, x*sin - half*cos
	}
	// Face B starts as the left side: local (-half, -x).
	sideEdge := func(t float64) (float64, float64) {
		x := t*float64(canvasW) - half
		return -half*cos + x*sin, -half*sin - x*cos
	}

	build := func(face Face, edge func(float64) (float64, float64), shade float64) Mesh {
		strips := make([]Strip, 0, opts.Strips)
		for i := 0; i < opts.Strips; i++ {
			t0 := float64(i) / float64(opts.Strips)
			t1 := float64(i+1) / float64(opts.Strips)
			x0, z0 := edge(t0)
			x1, z1 := edge(t1)
			sx0, top0, bot0 := project(x0, z0)
			sx1, top1, bot1 := project(x1, z1)
			strips = append(strips, Strip{
				X0: sx0, Top0: top0, Bot0: bot0,
				X1: sx1, Top1: top1, Bot1: bot1,
				U0: t0, U1: t1,
			})
		}
		_, zc := edge(0.5)
		return Mesh{Face: face, Shade: shade, Depth: zc + half, Strips: strips}
	}

	front := build(FaceOutgoing, frontEdge, clampShade(0.6+0.4*cos))
	side := build(FaceIncoming, sideEdge, clampShade(0.6+0.4*sin))

	if front.Depth >= side.Depth {
		return []Mesh{front, side}
	}
	return []Mesh{side, front}
}

// RingOptions tunes the ring flythrough projection.
type RingOptions struct {
	Radius     float64 // orbit radius in canvas pixels
	DepthConst float64 // perspective constant: scale = DepthConst / (DepthConst + z)
}

// DefaultRingOptions returns the standard orbit radius and depth constant.
func DefaultRingOptions() RingOptions {
	return RingOptions{Radius: 600, DepthConst: 1000}
}

// Ring orbits the two images along mirrored quarter-circle arcs around a
// shared pivot. Image A sweeps 0 -> 90 degrees moving right and away, image B
// sweeps 90 -> 0 degrees arriving from the left. Each image is a single
// perspective-scaled quad; the farther quad comes first in the result.
func Ring(progress float64, canvasW, canvasH int, opts RingOptions) []Mesh {
	if canvasW < 1 || canvasH < 1 || opts.DepthConst <= 0 {
		return nil
	}
	quad := func(face Face, side, angle float64) Mesh {
		x := side * (opts.Radius - opts.Radius*math.Cos(angle))
		z := opts.Radius * math.Sin(angle)
		s := opts.DepthConst / (opts.DepthConst + z)
		cx := float64(canvasW)/2 + x*s
		cy := float64(canvasH) / 2
		hw := float64(canvasW) / 2 * s
		hh := float64(canvasH) / 2 * s
		return Mesh{
			Face:  face,
			Shade: 1,
			Depth: z,
			Strips: []Strip{{
				X0: cx - hw, Top0: cy - hh, Bot0: cy + hh,
				X1: cx + hw, Top1: cy - hh, Bot1: cy + hh,
				U0: 0, U1: 1,
			}},
		}
	}

	a := quad(FaceOutgoing, 1, progress*math.Pi/2)
	b := quad(FaceIncoming, -1, (1-progress)*math.Pi/2)
	if a.Depth >= b.Depth {
		return []Mesh{a, b}
	}
	return []Mesh{b, a}
}

func clampShade(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
