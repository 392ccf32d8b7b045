package system

import (
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/common"
	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/variants"
)

// RouteSystem advances pulses along the field's routes and lets them
// energize nearby bodies of groups with a pulse radius.
type RouteSystem struct {
	spec *variants.Spec
	rng  *rand.Rand
}

func NewRouteSystem(spec *variants.Spec, rng *rand.Rand) *RouteSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &RouteSystem{spec: spec, rng: rng}
}

func (rs *RouteSystem) Update(w *ecs.World) {
	if rs == nil || rs.spec == nil || w == nil {
		return
	}
	routes, ok := ecs.Single(w, component.RoutesComponent)
	if !ok || len(routes.Paths) == 0 {
		return
	}
	pointer, ok := ecs.Single(w, component.PointerComponent)
	if !ok {
		return
	}

	var pulses []cp.Vector
	ecs.ForEach2(w, component.BodyComponent, component.RouteComponent, func(e ecs.Entity, b *component.Body, r *component.Route) {
		g, ok := ecs.Get(w, e, component.GroupComponent)
		if !ok || g.Index < 0 || g.Index >= len(rs.spec.Groups) {
			return
		}
		group := &rs.spec.Groups[g.Index]
		rs.advance(r, routes.Paths, group.Layout, pointer.Speed)

		b.Pos = PulsePoint(routes.Paths, r)
		b.Anchor = b.Pos
		b.Influence = common.Falloff(b.Pos.Sub(pointer.Smooth).Length(), group.Skin.Radius)
		pulses = append(pulses, b.Pos)
	})
	if len(pulses) == 0 {
		return
	}

	ecs.ForEach2(w, component.BodyComponent, component.GroupComponent, func(_ ecs.Entity, b *component.Body, g *component.Group) {
		if g.Index < 0 || g.Index >= len(rs.spec.Groups) {
			return
		}
		en := rs.spec.Groups[g.Index].Energy
		if en.PulseRadius <= 0 {
			return
		}
		for _, p := range pulses {
			if d := b.Pos.Sub(p).Length(); d < en.PulseRadius {
				b.Energy += (1 - d/en.PulseRadius) * en.PulseGain
			}
		}
	})
}

func (rs *RouteSystem) advance(r *component.Route, paths [][]cp.Vector, layout variants.LayoutSpec, speed float64) {
	if r.Index < 0 || r.Index >= len(paths) {
		r.Index, r.Segment = 0, 0
	}
	r.Progress += r.Speed * (1 + speed*layout.Rate)
	if r.Progress <= 1 {
		return
	}
	r.Progress = 0
	r.Segment++
	if r.Segment >= len(paths[r.Index])-1 {
		r.Index = rs.rng.Intn(len(paths))
		r.Segment = 0
		r.Speed = layout.Speed.Pick(rs.rng.Float64())
	}
}

// PulsePoint is the position of pulse r on its route.
func PulsePoint(paths [][]cp.Vector, r *component.Route) cp.Vector {
	if r.Index < 0 || r.Index >= len(paths) {
		return cp.Vector{}
	}
	path := paths[r.Index]
	switch {
	case len(path) == 0:
		return cp.Vector{}
	case len(path) == 1 || r.Segment >= len(path)-1:
		return path[len(path)-1]
	}
	start, end := path[r.Segment], path[r.Segment+1]
	return start.Add(end.Sub(start).Mult(r.Progress))
}
