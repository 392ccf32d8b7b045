package system

import (
	"github.com/milk9111/mockups/common"
	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/variants"
)

// EnergySystem decays each body's energy and charges it near the pointer.
type EnergySystem struct {
	spec *variants.Spec
}

func NewEnergySystem(spec *variants.Spec) *EnergySystem {
	return &EnergySystem{spec: spec}
}

func (es *EnergySystem) Update(w *ecs.World) {
	if es == nil || es.spec == nil || w == nil {
		return
	}
	pointer, ok := ecs.Single(w, component.PointerComponent)
	if !ok {
		return
	}

	ecs.ForEach2(w, component.BodyComponent, component.GroupComponent, func(_ ecs.Entity, b *component.Body, g *component.Group) {
		if g.Index < 0 || g.Index >= len(es.spec.Groups) {
			return
		}
		en := es.spec.Groups[g.Index].Energy
		if en.Radius <= 0 && en.Decay == 0 {
			return
		}
		pull := common.Falloff(b.Pos.Sub(pointer.Smooth).Length(), en.Radius)
		b.Energy = Charge(b.Energy, pull, en)
	})
}

// Charge returns the next energy for a body with pointer falloff pull.
func Charge(e, pull float64, en variants.EnergySpec) float64 {
	if en.Charge {
		if pull > 0 {
			hi := en.Max
			if hi <= 0 {
				hi = 1
			}
			return common.Clamp(e+pull*en.Gain, 0, hi)
		}
		return e * en.Decay
	}
	return e*en.Decay + pull*en.Gain
}
