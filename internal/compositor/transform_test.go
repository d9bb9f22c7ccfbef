package compositor

import (
	"math"
	"testing"
)

const (
	testW = 1200
	testH = 800
)

// corners applies the transform to the four corners of a w x h image and
// returns them in canvas coordinates.
func corners(tf Transform, w, h float64) [4][2]float64 {
	sin, cos := math.Sincos(tf.Rotation)
	apply := func(x, y float64) [2]float64 {
		x -= tf.OriginX
		y -= tf.OriginY
		x *= tf.ScaleX
		y *= tf.ScaleY
		return [2]float64{
			tf.X + x*cos - y*sin,
			tf.Y + x*sin + y*cos,
		}
	}
	return [4][2]float64{
		apply(0, 0), apply(w, 0), apply(0, h), apply(w, h),
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBoxInHalfwayCorners(t *testing.T) {
	_, layers := layersFor(BoxIn, 0.5, testW, testH)
	if len(layers) != 2 {
		t.Fatalf("got %d layers, want background A plus incoming B", len(layers))
	}
	b := layers[1]
	if !b.incoming {
		t.Fatal("top layer must be the incoming image")
	}
	if b.tf.ScaleX != 0.5 || b.tf.ScaleY != 0.5 {
		t.Fatalf("scale = %v,%v, want 0.5,0.5", b.tf.ScaleX, b.tf.ScaleY)
	}

	// Scaled to half size about the canvas center: corners at the quarter
	// points.
	c := corners(b.tf, testW, testH)
	want := [4][2]float64{
		{300, 200}, {900, 200}, {300, 600}, {900, 600},
	}
	for i := range c {
		if !approx(c[i][0], want[i][0]) || !approx(c[i][1], want[i][1]) {
			t.Errorf("corner %d = %v, want %v", i, c[i], want[i])
		}
	}
}

func TestSlideOffsets(t *testing.T) {
	tests := []struct {
		kind     TransitionKind
		progress float64
		wantX    float64
		wantY    float64
	}{
		{SlideLeft, 0, testW, 0},
		{SlideLeft, 0.5, testW / 2, 0},
		{SlideLeft, 1, 0, 0},
		{SlideRight, 0, -testW, 0},
		{SlideRight, 0.75, -testW / 4, 0},
		{SlideTop, 0, 0, -testH},
		{SlideBottom, 0.5, 0, testH / 2},
	}
	for _, tt := range tests {
		_, layers := layersFor(tt.kind, tt.progress, testW, testH)
		b := layers[1]
		if !b.incoming {
			t.Fatalf("%v: top layer must be the incoming image", tt.kind)
		}
		if !approx(b.tf.X, tt.wantX) || !approx(b.tf.Y, tt.wantY) {
			t.Errorf("%v p=%v: offset (%v,%v), want (%v,%v)", tt.kind, tt.progress, b.tf.X, b.tf.Y, tt.wantX, tt.wantY)
		}
		a := layers[0]
		if a.incoming || a.tf != identity() {
			t.Errorf("%v: outgoing image must stay fixed underneath", tt.kind)
		}
	}
}

func TestFadeToBlackPhases(t *testing.T) {
	tests := []struct {
		progress  float64
		incoming  bool
		wantAlpha uint8
	}{
		{0, false, 255},
		{0.25, false, 127},
		{0.5, false, 0},
		{0.75, true, 127},
		{1, true, 255},
	}
	for _, tt := range tests {
		_, layers := layersFor(FadeToBlack, tt.progress, testW, testH)
		if len(layers) != 1 {
			t.Fatalf("p=%v: %d layers, want 1 (one image hidden per phase)", tt.progress, len(layers))
		}
		l := layers[0]
		if l.incoming != tt.incoming {
			t.Errorf("p=%v: incoming=%v, want %v", tt.progress, l.incoming, tt.incoming)
		}
		if l.tf.Alpha != tt.wantAlpha {
			t.Errorf("p=%v: alpha %d, want %d", tt.progress, l.tf.Alpha, tt.wantAlpha)
		}
	}
}

func TestCrossFadeRampsIncomingAlpha(t *testing.T) {
	for _, p := range []float64{0, 0.25, 0.5, 1} {
		_, layers := layersFor(CrossFade, p, testW, testH)
		if len(layers) != 2 || layers[0].incoming || !layers[1].incoming {
			t.Fatalf("p=%v: want outgoing under incoming", p)
		}
		if layers[0].tf.Alpha != 255 {
			t.Errorf("p=%v: outgoing alpha %d, want 255", p, layers[0].tf.Alpha)
		}
		if want := alphaOf(p); layers[1].tf.Alpha != want {
			t.Errorf("p=%v: incoming alpha %d, want %d", p, layers[1].tf.Alpha, want)
		}
	}
}

func TestPageTurnCollapsesOneAxis(t *testing.T) {
	_, layers := layersFor(PageTurnHorizontal, 0.25, testW, testH)
	a := layers[0]
	if a.incoming || !approx(a.tf.ScaleX, 0.5) || a.tf.ScaleY != 1 {
		t.Errorf("phase 1: got scale (%v,%v) incoming=%v, want width half-collapsed outgoing", a.tf.ScaleX, a.tf.ScaleY, a.incoming)
	}

	_, layers = layersFor(PageTurnVertical, 0.75, testW, testH)
	b := layers[0]
	if !b.incoming || !approx(b.tf.ScaleY, 0.5) || b.tf.ScaleX != 1 {
		t.Errorf("phase 2: got scale (%v,%v) incoming=%v, want height half-grown incoming", b.tf.ScaleX, b.tf.ScaleY, b.incoming)
	}
}

func TestShutterOpenPivotsOnRightEdge(t *testing.T) {
	_, layers := layersFor(ShutterOpen, 0.5, testW, testH)
	if len(layers) != 2 || !layers[0].incoming || layers[1].incoming {
		t.Fatal("shutter draws incoming under the shrinking outgoing image")
	}
	a := layers[1].tf
	if a.OriginX != testW || !approx(a.ScaleX, 0.5) {
		t.Errorf("outgoing transform %+v should pivot on the right edge at half width", a)
	}
	// The right edge must stay pinned to the canvas edge.
	c := corners(a, testW, testH)
	if !approx(c[1][0], testW) || !approx(c[3][0], testW) {
		t.Errorf("right edge moved: %v, %v", c[1], c[3])
	}
}

func TestFlyAwaySpinsAndFades(t *testing.T) {
	bg, layers := layersFor(FlyAway, 0.25, testW, testH)
	if bg != flyAwayBackground {
		t.Errorf("background = %v, want %v", bg, flyAwayBackground)
	}
	a := layers[0].tf
	if !approx(a.ScaleX, 0.5) || !approx(a.Rotation, math.Pi/2) || a.Alpha != 127 {
		t.Errorf("phase 1 transform %+v: want half scale, quarter turn, half faded", a)
	}

	_, layers = layersFor(FlyAway, 0.75, testW, testH)
	b := layers[0].tf
	if !approx(b.ScaleX, 0.5) || !approx(b.Rotation, -math.Pi/2) || b.Alpha != 127 {
		t.Errorf("phase 2 transform %+v: want half scale, counter quarter turn, half faded", b)
	}
}

func TestTransformsDerivedFreshEachCall(t *testing.T) {
	_, first := layersFor(FlyAway, 0.3, testW, testH)
	layersFor(FlyAway, 0.9, testW, testH)
	_, again := layersFor(FlyAway, 0.3, testW, testH)
	if first[0].tf != again[0].tf {
		t.Error("transforms must depend only on (kind, progress, dimensions)")
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k.String(), err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if _, err := ParseKind("no-such-effect"); err == nil {
		t.Error("unknown name should fail")
	}
}
