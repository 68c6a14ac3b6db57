package imageutil

import (
	"image/color"
	"math"
)

// Blend composites top over bottom with the straight-alpha source-over
// operator. A fully transparent top returns bottom unchanged, which also
// covers both alphas being zero.
func Blend(bottom, top color.NRGBA) color.NRGBA {
	switch top.A {
	case 0:
		return bottom
	case 255:
		return top
	}

	ab := float64(bottom.A) / 255.0
	at := float64(top.A) / 255.0

	// outA >= at > 0 here.
	outA := at + ab*(1.0-at)

	channel := func(t, b uint8) uint8 {
		v := (float64(t)*at + float64(b)*ab*(1.0-at)) / outA
		return clamp255(v)
	}

	return color.NRGBA{
		R: channel(top.R, bottom.R),
		G: channel(top.G, bottom.G),
		B: channel(top.B, bottom.B),
		A: clamp255(outA * 255.0),
	}
}

func clamp255(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
