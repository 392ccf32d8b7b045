package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/common"
	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/render"
)

// Fixed shape constants of the decor layers.
const (
	linkSparkleFreq   = 2.2
	cursorLinkWidth   = 1
	laneWarpTimeScale = 0.2
	laneWarpWaves     = 6
	laneWarpDepth     = 0.2
	routeWobbleFreq   = 1.2
	dustSwayFreqX     = 0.24
	dustSwayFreqY     = 0.2
	dustMinRadius     = 0.6
)

func (r *RenderSystem) drawAura(ctx *drawContext) {
	aura := r.spec.Decor.Aura
	if aura == nil {
		return
	}
	ptr := ctx.pointerPixels()
	w, h := ctx.field.Width, ctx.field.Height
	ctx.dst.FillRect(render.Rect{W: w, H: h}, render.RadialGradient{
		Focal:  ptr,
		Center: ptr,
		Radius: math.Max(w, h) * aura.Reach,
		Stops:  Stops(aura.Stops),
	})
}

func (r *RenderSystem) drawLinks(ctx *drawContext) {
	links := r.spec.Decor.Links
	if links == nil {
		return
	}
	gi := r.spec.GroupIndex(links.Group)
	if gi < 0 {
		return
	}
	maxDist := links.Distance
	if links.Fraction > 0 {
		maxDist = common.Clamp(ctx.field.Width*links.Fraction, links.Distance, links.MaxDistance)
	}
	if maxDist <= 0 {
		return
	}

	t := ctx.field.Time
	bodies := r.groups[gi]
	for i := 0; i < len(bodies); i++ {
		a := bodies[i].b
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j].b
			dist := a.Pos.Sub(b.Pos).Length()
			if dist >= maxDist {
				continue
			}
			strength := 1 - dist/maxDist
			alpha := links.Alpha[0] + strength*links.Alpha[1]
			if links.Sparkle {
				sparkle := 0.35 + (math.Sin(t*linkSparkleFreq+a.Phase+b.Phase)+1)*0.5*0.65
				alpha = strength * (links.Alpha[0] + sparkle*links.Alpha[1] + math.Max(a.Energy, b.Energy)*links.Energy)
			}
			width := links.Width[0] + strength*links.Width[1]
			ctx.dst.StrokeLine(a.Pos, b.Pos, width, render.WithAlpha(links.Color.NRGBA, alpha))
		}
	}
}

func (r *RenderSystem) drawCursorLinks(ctx *drawContext) {
	cl := r.spec.Decor.CursorLinks
	if cl == nil {
		return
	}
	gi := r.spec.GroupIndex(cl.Group)
	if gi < 0 {
		return
	}
	ptr := ctx.pointerPixels()
	for _, d := range r.groups[gi] {
		dist := d.b.Pos.Sub(ptr).Length()
		if dist > cl.Radius {
			continue
		}
		alpha := common.Falloff(dist, cl.Radius) * cl.Alpha
		ctx.dst.StrokeLine(ptr, d.b.Pos, cursorLinkWidth, render.WithAlpha(cl.Color.NRGBA, alpha))
	}
}

func (r *RenderSystem) drawCursor(ctx *drawContext) {
	cur := r.spec.Decor.Cursor
	if cur == nil {
		return
	}
	ptr := ctx.pointerPixels()
	if cur.Ring > 0 {
		ctx.dst.StrokeEllipse(render.Circle(ptr.X, ptr.Y, cur.Ring), cur.RingWidth, cur.RingColor.NRGBA)
	}
	if cur.Dot > 0 {
		ctx.dst.FillEllipse(render.Circle(ptr.X, ptr.Y, cur.Dot), render.Solid(cur.DotColor.NRGBA))
	}
}

func (r *RenderSystem) drawLanes(ctx *drawContext) {
	lanes := r.spec.Decor.Lanes
	if lanes == nil || lanes.Samples <= 0 {
		return
	}
	t := ctx.field.Time
	ptr := ctx.pointerPixels()
	w, h := ctx.field.Width, ctx.field.Height
	pts := make([]cp.Vector, lanes.Samples+1)

	for li, lane := range lanes.Lanes {
		for i := range pts {
			u := float64(i) / float64(lanes.Samples)
			p := LanePoint(lane, u, t, w, h)
			infl := common.Falloff(p.Sub(ptr).Length(), lanes.Influence)
			warp := infl * lanes.Gain * (lanes.Warp[0] + ctx.pointer.Speed*lanes.Warp[1])
			p.Y += math.Sin((u+t*laneWarpTimeScale+lane.Phase)*math.Pi*laneWarpWaves) * warp * laneWarpDepth
			pts[i] = p
		}
		alpha := lanes.AlphaSteps[0] + lanes.AlphaSteps[1]*float64(li)
		ctx.dst.StrokePolyline(pts, lanes.Width, render.WithAlpha(lanes.Color.NRGBA, alpha))
	}
}

func (r *RenderSystem) drawRoutes(ctx *drawContext) {
	spec := r.spec.Decor.Routes
	if spec == nil {
		return
	}
	routes, ok := ecs.Single(ctx.w, component.RoutesComponent)
	if !ok {
		return
	}
	t := ctx.field.Time
	for _, path := range routes.Paths {
		pts := make([]cp.Vector, len(path))
		for i, p := range path {
			wobble := math.Sin(t*routeWobbleFreq+p.X*0.005+p.Y*0.003) * spec.Wobble
			pts[i] = cp.Vector{X: p.X, Y: p.Y + wobble}
		}
		ctx.dst.StrokePolyline(pts, spec.Width, spec.Color.NRGBA)
	}
}

func (r *RenderSystem) drawDust(ctx *drawContext) {
	spec := r.spec.Decor.Dust
	if spec == nil {
		return
	}
	dust, ok := ecs.Single(ctx.w, component.DustComponent)
	if !ok {
		return
	}
	t := ctx.field.Time
	s, c := math.Sincos(t * spec.Spin)
	ox := math.Sin(t*dustSwayFreqX) * spec.Sway[0]
	oy := math.Cos(t*dustSwayFreqY) * spec.Sway[1]
	half := math.Tan(r.spec.Camera.FOV * math.Pi / 360)
	paint := render.Solid(spec.Color.NRGBA)

	for _, p := range dust.Points {
		x := p[0]*c - p[1]*s + ox
		y := p[0]*s + p[1]*c + oy
		center, ppu, ok := ctx.shader.Camera.Project(x, y, p[2]+spec.Offset)
		if !ok {
			continue
		}
		radius := math.Max(dustMinRadius, spec.Size*ppu*half*0.5)
		ctx.dst.FillEllipse(render.Circle(center.X, center.Y, radius), paint)
	}
}
