package compositor

import "fmt"

// TransitionKind is the closed set of supported transition effects.
type TransitionKind int

const (
	SlideLeft TransitionKind = iota
	SlideRight
	SlideTop
	SlideBottom
	BoxIn
	BoxOut
	FadeToBlack
	CrossFade
	PageTurnHorizontal
	PageTurnVertical
	ShutterOpen
	BlurFade
	CubeRotate
	Ring
	LumaWipe
	FlyAway
)

var kindNames = map[TransitionKind]string{
	SlideLeft:          "slide-left",
	SlideRight:         "slide-right",
	SlideTop:           "slide-top",
	SlideBottom:        "slide-bottom",
	BoxIn:              "box-in",
	BoxOut:             "box-out",
	FadeToBlack:        "fade-to-black",
	CrossFade:          "cross-fade",
	PageTurnHorizontal: "page-turn-h",
	PageTurnVertical:   "page-turn-v",
	ShutterOpen:        "shutter-open",
	BlurFade:           "blur-fade",
	CubeRotate:         "cube-rotate",
	Ring:               "ring",
	LumaWipe:           "luma-wipe",
	FlyAway:            "fly-away",
}

// Kinds lists every transition kind in declaration order.
func Kinds() []TransitionKind {
	out := make([]TransitionKind, 0, len(kindNames))
	for k := SlideLeft; k <= FlyAway; k++ {
		out = append(out, k)
	}
	return out
}

func (k TransitionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TransitionKind(%d)", int(k))
}

// ParseKind resolves a CLI/config name to a transition kind.
func ParseKind(name string) (TransitionKind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown transition %q", name)
}
