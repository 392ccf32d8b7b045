package anim

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/common"
	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/ecs/system"
	"github.com/milk9111/mockups/render"
	"github.com/milk9111/mockups/variants"
)

// Build returns a fresh world for spec in a w x h container: the field and
// pointer singletons, every body group, and the ordered systems.
func Build(spec *variants.Spec, w, h, scale float64, rng *rand.Rand, carry *component.Pointer) *ecs.World {
	world := ecs.NewWorld()
	sp := &spawner{spec: spec, world: world, w: w, h: h, rng: rng}
	sp.tiles = sp.planTiles()
	sp.field(scale, carry)
	for gi := range spec.Groups {
		sp.group(gi)
	}

	world.AddSystem(system.NewPointerSystem(spec))
	world.AddSystem(system.NewPathSystem(spec))
	world.AddSystem(system.NewSeparationSystem(spec))
	world.AddSystem(system.NewForceSystem(spec))
	world.AddSystem(system.NewEnergySystem(spec))
	world.AddSystem(system.NewRouteSystem(spec, rng))
	world.AddRenderSystem(system.NewRenderSystem(spec))
	return world
}

// BodyCount returns how many bodies group gi gets in a w x h container.
func BodyCount(spec *variants.Spec, gi int, w, h float64) int {
	g := &spec.Groups[gi]
	switch g.Layout.Kind {
	case variants.LayoutTiles, variants.LayoutGrid3D:
		if g.Layout.Cols > 0 && g.Layout.Rows > 0 {
			return g.Layout.Cols * g.Layout.Rows
		}
	}
	return g.Count.For(w, h)
}

type spawner struct {
	spec  *variants.Spec
	world *ecs.World
	w, h  float64
	rng   *rand.Rand

	fieldEnt ecs.Entity
	rings    []ringSpawn
	tiles    tileGrid
}

type ringSpawn struct {
	center cp.Vector
	ring   component.Ring
}

type tileGrid struct {
	start, step  cp.Vector
	cols, rows   int
	tileW, tileH float64
}

func (s *spawner) field(scale float64, carry *component.Pointer) {
	s.fieldEnt = s.world.CreateEntity()
	_ = ecs.Add(s.world, s.fieldEnt, component.FieldComponent, &component.Field{Width: s.w, Height: s.h, Scale: scale})

	home := system.NewMapping(s.spec).ToField(cp.Vector{
		X: s.spec.Pointer.Home[0] * s.w,
		Y: s.spec.Pointer.Home[1] * s.h,
	}, s.w, s.h)
	p := &component.Pointer{Target: home, Smooth: home}
	if carry != nil {
		p.Active = carry.Active
		p.Raw = carry.Raw
	}
	_ = ecs.Add(s.world, s.fieldEnt, component.PointerComponent, p)

	if d := s.spec.Decor.Dust; d != nil && d.Count > 0 {
		pts := make([][3]float64, d.Count)
		for i := range pts {
			pts[i] = [3]float64{
				(s.rng.Float64() - 0.5) * d.Box[0],
				(s.rng.Float64() - 0.5) * d.Box[1],
				d.ZMin + s.rng.Float64()*d.Box[2],
			}
		}
		_ = ecs.Add(s.world, s.fieldEnt, component.DustComponent, &component.Dust{Points: pts})
	}

	if s.spec.Decor.Routes != nil {
		_ = ecs.Add(s.world, s.fieldEnt, component.RoutesComponent, &component.Routes{Paths: s.routes()})
	}
}

func (s *spawner) body(gi int, b component.Body) ecs.Entity {
	e := s.world.CreateEntity()
	_ = ecs.Add(s.world, e, component.BodyComponent, &b)
	_ = ecs.Add(s.world, e, component.GroupComponent, &component.Group{Index: gi})
	return e
}

func (s *spawner) tint(t variants.TintSpec) color.NRGBA {
	if t.Light[0] == 0 && t.Light[1] == 0 {
		return color.NRGBA{}
	}
	return render.HSL(t.Hue.Pick(s.rng.Float64()), t.Sat.Pick(s.rng.Float64()), t.Light.Pick(s.rng.Float64()))
}

func (s *spawner) jitter(amount float64) float64 {
	return (s.rng.Float64() - 0.5) * amount
}

func (s *spawner) group(gi int) {
	g := &s.spec.Groups[gi]
	n := BodyCount(s.spec, gi, s.w, s.h)
	l := &g.Layout

	switch l.Kind {
	case variants.LayoutGrid:
		s.grid(gi, n, l)
	case variants.LayoutGrid3D:
		s.grid3D(gi, n, l, g.Skin.Tint)
	case variants.LayoutTiles:
		s.tileBodies(gi)
	case variants.LayoutOrbit, variants.LayoutCurrent:
		s.orbits(gi, n, l, g.Skin.Tint)
	case variants.LayoutRing:
		s.ringSet(gi, n, l)
	case variants.LayoutRingToken:
		s.ringTokens(gi, n, l)
	case variants.LayoutLane:
		s.lanes(gi, n, l)
	case variants.LayoutRoute:
		s.pulses(gi, n, l)
	case variants.LayoutDrift:
		s.drifters(gi, n, l)
	}
}

func (s *spawner) grid(gi, n int, l *variants.LayoutSpec) {
	cols := l.Cols
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	rows := l.Rows
	if rows <= 0 {
		rows = int(math.Ceil(float64(n) / float64(cols)))
	}
	gridW, gridH := s.w*l.Extent[0], s.h*l.Extent[1]
	startX, startY := (s.w-gridW)/2, (s.h-gridH)/2

	for i := 0; i < n; i++ {
		col, row := i%cols, i/cols
		anchor := cp.Vector{
			X: startX + float64(col)/math.Max(float64(cols-1), 1)*gridW + s.jitter(l.Jitter[0]),
			Y: startY + float64(row)/math.Max(float64(rows-1), 1)*gridH + s.jitter(l.Jitter[1]),
		}
		scale := l.Size.Pick(s.rng.Float64())
		s.body(gi, component.Body{
			Pos:    anchor.Add(cp.Vector{X: s.jitter(l.Scatter[0]), Y: s.jitter(l.Scatter[1])}),
			Anchor: anchor,
			Size:   scale,
			RX:     l.Ellipse[0] * scale,
			RY:     l.Ellipse[1] * scale,
			Angle:  s.rng.Float64() * math.Pi,
			Spin:   s.jitter(l.Spin),
			Phase:  s.rng.Float64() * 2 * math.Pi,
		})
	}
}

func (s *spawner) grid3D(gi, n int, l *variants.LayoutSpec, tint variants.TintSpec) {
	cols := max(l.Cols, 1)
	rows := max(l.Rows, 1)
	startX := -float64(cols-1) * l.Spacing[0] / 2
	startY := -float64(rows-1) * l.Spacing[1] / 2

	for i := 0; i < n; i++ {
		col, row := i%cols, i/cols
		home := [3]float64{startX + float64(col)*l.Spacing[0], startY + float64(row)*l.Spacing[1], l.Depth}
		size := l.Size.Pick(s.rng.Float64())
		pos := cp.Vector{X: home[0] + s.jitter(l.Scatter[0]), Y: home[1] + s.jitter(l.Scatter[1])}
		e := s.body(gi, component.Body{
			Pos:     pos,
			Anchor:  cp.Vector{X: home[0], Y: home[1]},
			Z:       home[2] + s.rng.Float64()*l.Scatter[2],
			AnchorZ: home[2],
			Size:    size,
			Seed:    s.rng.Float64() * l.Seed,
			Tint:    s.tint(tint),
		})
		b, _ := ecs.Get(s.world, e, component.BodyComponent)
		_ = ecs.Add(s.world, e, component.WaveComponent, &component.Wave{Home: home, Seed: b.Seed})
	}
}

// planTiles lays out the tile grid of the first tiles group. Without one,
// a 7 x 4 grid spans the whole container so routes still have a frame.
func (s *spawner) planTiles() tileGrid {
	for _, g := range s.spec.Groups {
		if g.Layout.Kind != variants.LayoutTiles {
			continue
		}
		l := &g.Layout
		cols, rows := max(l.Cols, 2), max(l.Rows, 2)
		gridW, gridH := s.w*l.Extent[0], s.h*l.Extent[1]
		tg := tileGrid{
			start: cp.Vector{X: (s.w - gridW) / 2, Y: (s.h - gridH) / 2},
			step:  cp.Vector{X: gridW / float64(cols-1), Y: gridH / float64(rows-1)},
			cols:  cols,
			rows:  rows,
		}
		tg.tileW = common.Clamp(tg.step.X*l.TileScale[0], l.TileMin[0], l.TileMax[0])
		tg.tileH = common.Clamp(tg.step.Y*l.TileScale[1], l.TileMin[1], l.TileMax[1])
		return tg
	}
	return tileGrid{cols: 7, rows: 4, step: cp.Vector{X: s.w / 6, Y: s.h / 3}}
}

func (s *spawner) tileBodies(gi int) {
	tg := s.tiles
	for row := 0; row < tg.rows; row++ {
		for col := 0; col < tg.cols; col++ {
			c := tg.at(float64(col), float64(row))
			e := s.body(gi, component.Body{Pos: c, Anchor: c})
			_ = ecs.Add(s.world, e, component.TileComponent, &component.Tile{W: tg.tileW, H: tg.tileH})
		}
	}
}

func (tg tileGrid) at(col, row float64) cp.Vector {
	return cp.Vector{X: tg.start.X + col*tg.step.X, Y: tg.start.Y + row*tg.step.Y}
}

// routes builds the pulse polylines in tile grid steps.
func (s *spawner) routes() [][]cp.Vector {
	spec := s.spec.Decor.Routes
	tg := s.tiles
	var paths [][]cp.Vector
	if spec.Rows {
		for row := 0; row < tg.rows; row++ {
			path := make([]cp.Vector, tg.cols)
			for col := range path {
				path[col] = tg.at(float64(col), float64(row))
			}
			paths = append(paths, path)
		}
	}
	for _, p := range spec.Paths {
		if len(p) < 2 {
			continue
		}
		path := make([]cp.Vector, len(p))
		for i, pt := range p {
			path[i] = tg.at(pt[0], pt[1])
		}
		paths = append(paths, path)
	}
	return paths
}

func (s *spawner) pulses(gi, n int, l *variants.LayoutSpec) {
	routes, ok := ecs.Get(s.world, s.fieldEnt, component.RoutesComponent)
	if !ok || len(routes.Paths) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		r := &component.Route{
			Index:    s.rng.Intn(len(routes.Paths)),
			Progress: s.rng.Float64(),
			Speed:    l.Speed.Pick(s.rng.Float64()),
		}
		pos := system.PulsePoint(routes.Paths, r)
		e := s.body(gi, component.Body{Pos: pos, Anchor: pos, Size: l.Size.Pick(s.rng.Float64())})
		_ = ecs.Add(s.world, e, component.RouteComponent, r)
	}
}

func (s *spawner) orbits(gi, n int, l *variants.LayoutSpec, tint variants.TintSpec) {
	current := l.Kind == variants.LayoutCurrent
	for i := 0; i < n; i++ {
		phase := s.rng.Float64() * 2 * math.Pi
		orbit := &component.Orbit{
			Radius: l.Radius.Pick(s.rng.Float64()),
			Height: l.Height.Pick(s.rng.Float64()),
			Depth:  l.DepthRange.Pick(s.rng.Float64()),
			Slot:   i,
		}
		size := l.Size.Pick(s.rng.Float64())
		if current {
			orbit.Elongation = l.Elongation.Pick(s.rng.Float64())
		} else {
			orbit.Layer = s.rng.Float64()
		}

		yFreq := 1.2
		if current {
			yFreq = 1.1
		}
		pos := cp.Vector{X: math.Cos(phase) * orbit.Radius, Y: math.Sin(phase*yFreq) * orbit.Height}
		b := component.Body{
			Pos:     pos,
			Anchor:  pos,
			Z:       orbit.Depth,
			AnchorZ: orbit.Depth,
			Size:    size,
			Phase:   phase,
			Seed:    s.rng.Float64() * l.Seed,
			Tint:    s.tint(tint),
		}
		if current {
			b.Rot = [3]float64{s.rng.Float64() * math.Pi, s.rng.Float64() * math.Pi, s.rng.Float64() * math.Pi}
		}
		e := s.body(gi, b)
		_ = ecs.Add(s.world, e, component.OrbitComponent, orbit)
	}
}

func (s *spawner) ringSet(gi, n int, l *variants.LayoutSpec) {
	rs := l.Ring
	center := system.RingCenter(rs, s.w, s.h)
	s.rings = s.rings[:0]
	for i := 0; i < n; i++ {
		k := float64(i)
		ring := component.Ring{
			Index: i,
			RX:    s.w * (rs.RX[0] + k*rs.RX[1]),
			RY:    s.h * (rs.RY[0] + k*rs.RY[1]),
			Phase: s.rng.Float64() * 2 * math.Pi,
			Speed: rs.Speed[0] + k*rs.Speed[1],
			Width: rs.Width[0] + k*rs.Width[1],
		}
		s.rings = append(s.rings, ringSpawn{center: center, ring: ring})
		e := s.body(gi, component.Body{Pos: center, Anchor: center})
		r := ring
		_ = ecs.Add(s.world, e, component.RingComponent, &r)
	}
}

func (s *spawner) ringTokens(gi, n int, l *variants.LayoutSpec) {
	if len(s.rings) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		tok := &component.RingToken{
			Ring:  s.rng.Intn(len(s.rings)),
			Angle: s.rng.Float64() * 2 * math.Pi,
			Speed: l.Speed.Pick(s.rng.Float64()),
		}
		rs := s.rings[tok.Ring]
		base := system.RingTokenBase(rs.center, &rs.ring, tok.Angle)
		e := s.body(gi, component.Body{Pos: base, Anchor: base, Size: l.Size.Pick(s.rng.Float64())})
		_ = ecs.Add(s.world, e, component.RingTokenComponent, tok)
	}
}

func (s *spawner) lanes(gi, n int, l *variants.LayoutSpec) {
	lanes := s.spec.Decor.Lanes
	if lanes == nil || len(lanes.Lanes) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		lane := &component.Lane{
			Index: s.rng.Intn(len(lanes.Lanes)),
			T:     s.rng.Float64(),
			Speed: l.Speed.Pick(s.rng.Float64()),
		}
		pos := system.LanePoint(lanes.Lanes[lane.Index], lane.T, 0, s.w, s.h)
		e := s.body(gi, component.Body{Pos: pos, Anchor: pos, Size: l.Size.Pick(s.rng.Float64())})
		_ = ecs.Add(s.world, e, component.LaneComponent, lane)
	}
}

func (s *spawner) drifters(gi, n int, l *variants.LayoutSpec) {
	for i := 0; i < n; i++ {
		pos := cp.Vector{X: s.rng.Float64() * s.w, Y: s.rng.Float64() * s.h}
		e := s.body(gi, component.Body{
			Pos:    pos,
			Anchor: pos,
			Size:   l.Size.Pick(s.rng.Float64()),
			Phase:  s.rng.Float64() * 2 * math.Pi,
		})
		_ = ecs.Add(s.world, e, component.DriftComponent, &component.Drift{Vel: cp.Vector{X: s.jitter(l.Drift), Y: s.jitter(l.Drift)}})
	}
}
