package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/variants"
)

const goldenAngle = 2.399963229728653

// SeparationSystem pushes overlapping bodies of the same group apart.
type SeparationSystem struct {
	spec   *variants.Spec
	bodies [][]*component.Body
}

func NewSeparationSystem(spec *variants.Spec) *SeparationSystem {
	return &SeparationSystem{spec: spec}
}

func (s *SeparationSystem) Update(w *ecs.World) {
	if s == nil || s.spec == nil || w == nil {
		return
	}
	if len(s.bodies) != len(s.spec.Groups) {
		s.bodies = make([][]*component.Body, len(s.spec.Groups))
	}
	for i := range s.bodies {
		s.bodies[i] = s.bodies[i][:0]
	}

	ecs.ForEach2(w, component.BodyComponent, component.GroupComponent, func(_ ecs.Entity, b *component.Body, g *component.Group) {
		if g.Index < 0 || g.Index >= len(s.bodies) {
			return
		}
		if s.spec.Groups[g.Index].Forces.Separation.Factor <= 0 {
			return
		}
		s.bodies[g.Index] = append(s.bodies[g.Index], b)
	})

	for gi, bodies := range s.bodies {
		if len(bodies) < 2 {
			continue
		}
		f := &s.spec.Groups[gi].Forces
		Separate(bodies, f.Separation, f.Eps())
	}
}

// Separate applies one pass of pairwise separation to bodies. Coincident
// pairs are split along a direction derived from their indices.
func Separate(bodies []*component.Body, sep variants.SeparationSpec, eps float64) {
	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]
			minDist := (a.RX + b.RX) * sep.Factor
			d := a.Pos.Sub(b.Pos)
			dist := d.Length()
			if dist >= minDist {
				continue
			}

			var n cp.Vector
			if dist < eps {
				angle := float64(i)*goldenAngle + float64(j)
				n = cp.Vector{X: math.Cos(angle), Y: math.Sin(angle)}
			} else {
				n = d.Mult(1 / (dist + eps))
			}
			push := n.Mult((minDist - dist) * sep.Strength)
			a.Vel = a.Vel.Add(push)
			b.Vel = b.Vel.Sub(push)
		}
	}
}
