package render

import "math"

const maxVignetteStops = 6

// Mask is the soft edge fade applied after a frame is drawn. It is a value
// type so surfaces can cache the rendered mask keyed by it.
type Mask struct {
	W, H float64
	// Edge is the width of the rectangular fade band in logical pixels.
	Edge     float64
	Vignette Vignette
}

// Vignette is an elliptical alpha ramp centred on the container. RX and RY
// are fractions of the container width and height; it is disabled when
// either is zero.
type Vignette struct {
	RX, RY float64
	N      int
	Stops  [maxVignetteStops]AlphaStop
}

type AlphaStop struct {
	Offset float64
	Alpha  float64
}

// NewVignette keeps at most six stops.
func NewVignette(rx, ry float64, stops ...AlphaStop) Vignette {
	v := Vignette{RX: rx, RY: ry}
	for _, s := range stops {
		if v.N == maxVignetteStops {
			break
		}
		v.Stops[v.N] = s
		v.N++
	}
	return v
}

func (v Vignette) Enabled() bool {
	return v.RX > 0 && v.RY > 0 && v.N > 0
}

// AlphaAt returns the vignette alpha at normalised elliptical radius r.
func (v Vignette) AlphaAt(r float64) float64 {
	if !v.Enabled() {
		return 1
	}
	stops := v.Stops[:v.N]
	if r <= stops[0].Offset {
		return stops[0].Alpha
	}
	for i := 1; i < len(stops); i++ {
		if r <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Alpha
			}
			return a.Alpha + (b.Alpha-a.Alpha)*(r-a.Offset)/span
		}
	}
	return stops[len(stops)-1].Alpha
}

// AlphaAt returns the mask alpha at logical pixel (x, y): the product of the
// horizontal and vertical edge ramps, times the vignette when present.
func (m Mask) AlphaAt(x, y float64) float64 {
	if m.W <= 0 || m.H <= 0 {
		return 0
	}
	a := edgeRamp(x, m.W, m.Edge) * edgeRamp(y, m.H, m.Edge)
	if a == 0 || !m.Vignette.Enabled() {
		return a
	}
	dx := (x - m.W/2) / (m.Vignette.RX * m.W)
	dy := (y - m.H/2) / (m.Vignette.RY * m.H)
	return a * m.Vignette.AlphaAt(math.Hypot(dx, dy))
}

func edgeRamp(v, extent, edge float64) float64 {
	if edge <= 0 {
		if v < 0 || v > extent {
			return 0
		}
		return 1
	}
	// Canvas clamps the stop offsets when the fade bands overlap.
	band := math.Min(edge, extent/2)
	return clamp01(math.Min(v, extent-v) / band)
}
