package system

import (
	"image/color"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/common"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/render"
	"github.com/milk9111/mockups/render/scene"
	"github.com/milk9111/mockups/variants"
)

// Energy coefficients of the tile skin layers.
const (
	tileShadowEnergy = 0.12
	tileFillEnergyA  = 0.14
	tileFillEnergyB  = 0.15
	tileStrokeEnergy = 0.2
	tileStrokeWidth  = 1
)

// radii returns the drawn half axes of a body; round bodies use Size.
func radii(b *component.Body) (float64, float64) {
	if b.RX > 0 && b.RY > 0 {
		return b.RX, b.RY
	}
	return b.Size, b.Size
}

func rotate(v cp.Vector, angle float64) cp.Vector {
	if angle == 0 {
		return v
	}
	s, c := math.Sincos(angle)
	return cp.Vector{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

func drawGloss(dst render.Surface, b *component.Body, skin *variants.SkinSpec, stops render.Stops) {
	rx, ry := radii(b)
	at := func(fx, fy float64) cp.Vector {
		return b.Pos.Add(rotate(cp.Vector{X: fx * rx, Y: fy * ry}, b.Angle))
	}

	if sh := skin.Shadow; sh != nil {
		c := at(sh.Offset[0], sh.Offset[1])
		col := sh.Color.NRGBA
		if sh.AlphaPerSize != 0 {
			col = render.WithAlpha(col, float64(col.A)/255+sh.AlphaPerSize*b.Size)
		}
		dst.FillEllipse(render.Ellipse{
			CX: c.X, CY: c.Y,
			RX: rx * sh.Radii[0], RY: ry * sh.Radii[1],
			Angle: b.Angle,
		}, render.Solid(col))
	}

	body := render.Ellipse{CX: b.Pos.X, CY: b.Pos.Y, RX: rx, RY: ry, Angle: b.Angle}
	reach := skin.Reach
	if reach <= 0 {
		reach = 1
	}
	dst.FillEllipse(body, render.RadialGradient{
		Focal:  at(skin.Focal[0], skin.Focal[1]),
		Center: b.Pos,
		Radius: reach * rx,
		Stops:  stops,
	})

	if hl := skin.Highlight; hl != nil {
		c := at(hl.Offset[0], hl.Offset[1])
		dst.FillEllipse(render.Ellipse{
			CX: c.X, CY: c.Y,
			RX:    math.Max(hl.Min[0], rx*hl.Radii[0]),
			RY:    math.Max(hl.Min[1], ry*hl.Radii[1]),
			Angle: b.Angle,
		}, render.Solid(hl.Color.NRGBA))
	}
}

func drawRing(dst render.Surface, b *component.Body, ring *component.Ring, skin *variants.SkinSpec) {
	alpha := skin.Alpha[0] + skin.Alpha[1]*float64(ring.Index)
	dst.StrokeEllipse(
		render.Ellipse{CX: b.Pos.X, CY: b.Pos.Y, RX: ring.RX, RY: ring.RY},
		ring.Width,
		render.WithAlpha(skin.Color.NRGBA, alpha),
	)
}

func drawTile(dst render.Surface, b *component.Body, tile *component.Tile, skin *variants.SkinSpec, en variants.EnergySpec, ptr cp.Vector, stops render.Stops) {
	hi := en.Max
	if hi <= 0 {
		hi = 1
	}
	energy := common.Clamp(b.Energy, 0, hi)

	d := ptr.Sub(b.Pos)
	shift := d.Mult(common.Falloff(d.Length(), skin.ShiftRadius) * skin.Shift)
	scale := 1 + energy*skin.Grow
	w, h := tile.W*scale, tile.H*scale
	rect := render.Rect{X: b.Pos.X - w/2 + shift.X, Y: b.Pos.Y - h/2 + shift.Y, W: w, H: h}

	if sh := skin.Shadow; sh != nil {
		col := sh.Color.NRGBA
		col = render.WithAlpha(col, float64(col.A)/255+energy*tileShadowEnergy)
		dst.FillRoundedRect(render.Rect{
			X: rect.X + sh.Offset[0],
			Y: rect.Y + h*sh.Offset[1],
			W: w, H: h,
		}, skin.Corner, render.Solid(col))
	}

	fill := make(render.Stops, len(stops))
	copy(fill, stops)
	for i := range fill {
		boost := tileFillEnergyA
		if i > 0 {
			boost = tileFillEnergyB
		}
		fill[i].Color = render.WithAlpha(fill[i].Color, float64(fill[i].Color.A)/255+energy*boost)
	}
	dst.FillRoundedRect(rect, skin.Corner, render.LinearGradient{
		From:  cp.Vector{X: rect.X, Y: rect.Y},
		To:    cp.Vector{X: rect.X + w, Y: rect.Y + h},
		Stops: fill,
	})

	stroke := skin.Stroke.NRGBA
	stroke = render.WithAlpha(stroke, float64(stroke.A)/255+energy*tileStrokeEnergy)
	dst.StrokeRoundedRect(rect, skin.Corner, tileStrokeWidth, stroke)
}

func drawPulse(dst render.Surface, b *component.Body, skin *variants.SkinSpec) {
	size := b.Size * (1 + b.Influence*skin.Grow)
	alpha := skin.Alpha[0] + skin.Alpha[1]*b.Influence
	dst.FillEllipse(render.Circle(b.Pos.X, b.Pos.Y, size), render.Solid(render.WithAlpha(skin.Color.NRGBA, alpha)))
}

func drawNode(dst render.Surface, b *component.Body, skin *variants.SkinSpec) {
	glow := b.Size + b.Energy*skin.Grow
	alpha := skin.Alpha[0] + skin.Alpha[1]*b.Energy
	dst.FillEllipse(render.Circle(b.Pos.X, b.Pos.Y, glow), render.Solid(render.WithAlpha(skin.Color.NRGBA, alpha)))
}

// drawSolid projects a world-space body and fills its silhouette with the
// shaded material.
func drawSolid(ctx *drawContext, b *component.Body, skin *variants.SkinSpec, mat scene.Material, elong float64) {
	center, ppu, ok := ctx.shader.Camera.Project(b.Pos.X, b.Pos.Y, b.Z)
	if !ok {
		return
	}

	var e render.Ellipse
	switch skin.Kind {
	case variants.SkinCapsule:
		e = scene.CapsuleSilhouette(center, ppu, b.Size, elong, b.Rot)
	default:
		pulse := 1.0
		if skin.Pulse[0] != 0 {
			pulse = 1 + math.Sin(ctx.field.Time*skin.Pulse[1]+b.Seed)*skin.Pulse[0]
		}
		sx := (1 + skin.Stretch*b.Influence) * pulse
		sy := (1 - skin.Squash*b.Influence) * pulse
		e = scene.SphereSilhouette(center, ppu, b.Size, sx, sy)
	}
	if e.RX <= 0 || e.RY <= 0 {
		return
	}

	tint := b.Tint
	if tint.A == 0 {
		tint = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	pos := scene.Vec3{X: b.Pos.X, Y: b.Pos.Y, Z: b.Z}
	ctx.dst.FillEllipse(e, ctx.shader.Sphere(mat, tint, pos, e))
}
