package render

import (
	"image/color"
	"math"
)

// HSL builds an opaque colour from hue, saturation and lightness in [0,1].
func HSL(h, s, l float64) color.NRGBA {
	h = h - math.Floor(h)
	s = clamp01(s)
	l = clamp01(l)
	if s == 0 {
		v := clampByte(l * 255)
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return color.NRGBA{
		R: clampByte(hueToRGB(p, q, h+1.0/3) * 255),
		G: clampByte(hueToRGB(p, q, h) * 255),
		B: clampByte(hueToRGB(p, q, h-1.0/3) * 255),
		A: 255,
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}
