// Package rendertest provides a Surface that records draw calls.
package rendertest

import (
	"image/color"
	"sync"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/render"
)

type Op string

const (
	OpClear             Op = "clear"
	OpFillRect          Op = "fill_rect"
	OpFillEllipse       Op = "fill_ellipse"
	OpStrokeEllipse     Op = "stroke_ellipse"
	OpFillRoundedRect   Op = "fill_rounded_rect"
	OpStrokeRoundedRect Op = "stroke_rounded_rect"
	OpStrokeLine        Op = "stroke_line"
	OpStrokePolyline    Op = "stroke_polyline"
	OpApplyMask         Op = "apply_mask"
)

type Call struct {
	Op      Op
	Ellipse render.Ellipse
	Rect    render.Rect
	Points  []cp.Vector
	Paint   render.Paint
	Color   color.NRGBA
	Width   float64
	Mask    render.Mask
}

// Recorder is a render.Surface that keeps every call since the last Clear.
type Recorder struct {
	mu     sync.Mutex
	w, h   float64
	scale  float64
	calls  []Call
	frames int
}

func NewRecorder(w, h float64) *Recorder {
	return &Recorder{w: w, h: h, scale: 1}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

// Calls returns a copy of the calls recorded since the last Clear.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Frames counts Clear calls, one per rendered frame.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Count returns how many recorded calls have op.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (r *Recorder) Scale() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scale
}

func (r *Recorder) Size() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w, r.h
}

func (r *Recorder) Resize(w, h, scale float64) error {
	r.mu.Lock()
	r.w, r.h, r.scale = w, h, scale
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	r.calls = r.calls[:0]
	r.frames++
	r.mu.Unlock()
}

func (r *Recorder) FillRect(rc render.Rect, p render.Paint) {
	r.record(Call{Op: OpFillRect, Rect: rc, Paint: p})
}

func (r *Recorder) FillEllipse(e render.Ellipse, p render.Paint) {
	r.record(Call{Op: OpFillEllipse, Ellipse: e, Paint: p})
}

func (r *Recorder) StrokeEllipse(e render.Ellipse, width float64, c color.NRGBA) {
	r.record(Call{Op: OpStrokeEllipse, Ellipse: e, Width: width, Color: c})
}

func (r *Recorder) FillRoundedRect(rc render.Rect, radius float64, p render.Paint) {
	r.record(Call{Op: OpFillRoundedRect, Rect: rc, Width: radius, Paint: p})
}

func (r *Recorder) StrokeRoundedRect(rc render.Rect, radius, width float64, c color.NRGBA) {
	r.record(Call{Op: OpStrokeRoundedRect, Rect: rc, Width: width, Color: c})
}

func (r *Recorder) StrokeLine(a, b cp.Vector, width float64, c color.NRGBA) {
	r.record(Call{Op: OpStrokeLine, Points: []cp.Vector{a, b}, Width: width, Color: c})
}

func (r *Recorder) StrokePolyline(pts []cp.Vector, width float64, c color.NRGBA) {
	pts = append([]cp.Vector(nil), pts...)
	r.record(Call{Op: OpStrokePolyline, Points: pts, Width: width, Color: c})
}

func (r *Recorder) ApplyMask(m render.Mask) {
	r.record(Call{Op: OpApplyMask, Mask: m})
}
