package system

import (
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/render"
	"github.com/milk9111/mockups/render/scene"
	"github.com/milk9111/mockups/variants"
)

// Decor layer names a variant may list alongside "group:<name>" entries.
const (
	LayerAura        = "aura"
	LayerLinks       = "links"
	LayerCursorLinks = "cursor_links"
	LayerCursor      = "cursor"
	LayerLanes       = "lanes"
	LayerRoutes      = "routes"
	LayerDust        = "dust"
)

type drawn struct {
	e ecs.Entity
	b *component.Body
}

// RenderSystem clears the surface, paints the variant's layers in order and
// finishes with the edge fade.
type RenderSystem struct {
	spec      *variants.Spec
	stops     []render.Stops
	materials []scene.Material
	lights    []scene.Light
	vignette  render.Vignette

	groups [][]drawn
}

func NewRenderSystem(spec *variants.Spec) *RenderSystem {
	r := &RenderSystem{spec: spec}
	if spec == nil {
		return r
	}
	for _, g := range spec.Groups {
		r.stops = append(r.stops, Stops(g.Skin.Stops))
		r.materials = append(r.materials, Material(g.Skin.Material))
	}
	for _, l := range spec.Lights {
		r.lights = append(r.lights, scene.Light{
			Kind:      scene.LightKind(l.Kind),
			Position:  scene.Vec3{X: l.Position[0], Y: l.Position[1], Z: l.Position[2]},
			Intensity: l.Intensity,
			Color:     l.Color.NRGBA,
		})
	}
	if v := spec.Mask.Vignette; v != nil {
		stops := make([]render.AlphaStop, 0, len(v.Stops))
		for _, s := range v.Stops {
			stops = append(stops, render.AlphaStop{Offset: s[0], Alpha: s[1]})
		}
		r.vignette = render.NewVignette(v.Radii[0], v.Radii[1], stops...)
	}
	return r
}

func (r *RenderSystem) Draw(w *ecs.World, dst render.Surface) {
	if r == nil || r.spec == nil || w == nil || dst == nil {
		return
	}
	field, ok := ecs.Single(w, component.FieldComponent)
	if !ok {
		return
	}
	pointer, ok := ecs.Single(w, component.PointerComponent)
	if !ok {
		return
	}

	dst.Clear()
	r.collect(w)

	ctx := drawContext{
		w:       w,
		dst:     dst,
		field:   field,
		pointer: pointer,
		shader: scene.Shader{
			Camera: scene.Camera{Z: r.spec.Camera.Z, FOV: r.spec.Camera.FOV, W: field.Width, H: field.Height},
			Lights: r.lights,
		},
	}

	for _, layer := range r.spec.Layers {
		if name, ok := variants.GroupLayer(layer); ok {
			if gi := r.spec.GroupIndex(name); gi >= 0 {
				r.drawGroup(&ctx, gi)
			}
			continue
		}
		switch layer {
		case LayerAura:
			r.drawAura(&ctx)
		case LayerLinks:
			r.drawLinks(&ctx)
		case LayerCursorLinks:
			r.drawCursorLinks(&ctx)
		case LayerCursor:
			r.drawCursor(&ctx)
		case LayerLanes:
			r.drawLanes(&ctx)
		case LayerRoutes:
			r.drawRoutes(&ctx)
		case LayerDust:
			r.drawDust(&ctx)
		}
	}

	dst.ApplyMask(render.Mask{
		W:        field.Width,
		H:        field.Height,
		Edge:     r.spec.Mask.Edge(field.Width, field.Height),
		Vignette: r.vignette,
	})
}

type drawContext struct {
	w       *ecs.World
	dst     render.Surface
	field   *component.Field
	pointer *component.Pointer
	shader  scene.Shader
}

// pointerPixels is the smoothed pointer in container pixels. World-space
// variants do not draw cursor decor, so it is only meaningful on screen.
func (c *drawContext) pointerPixels() cp.Vector {
	return c.pointer.Smooth
}

func (r *RenderSystem) collect(w *ecs.World) {
	if len(r.groups) != len(r.spec.Groups) {
		r.groups = make([][]drawn, len(r.spec.Groups))
	}
	for i := range r.groups {
		r.groups[i] = r.groups[i][:0]
	}
	ecs.ForEach2(w, component.BodyComponent, component.GroupComponent, func(e ecs.Entity, b *component.Body, g *component.Group) {
		if g.Index < 0 || g.Index >= len(r.groups) {
			return
		}
		r.groups[g.Index] = append(r.groups[g.Index], drawn{e: e, b: b})
	})
}

func (r *RenderSystem) drawGroup(ctx *drawContext, gi int) {
	group := &r.spec.Groups[gi]
	bodies := r.groups[gi]
	skin := &group.Skin

	switch skin.Kind {
	case variants.SkinGloss:
		for _, d := range bodies {
			drawGloss(ctx.dst, d.b, skin, r.stops[gi])
		}
	case variants.SkinRing:
		for _, d := range bodies {
			if ring, ok := ecs.Get(ctx.w, d.e, component.RingComponent); ok {
				drawRing(ctx.dst, d.b, ring, skin)
			}
		}
	case variants.SkinTile:
		for _, d := range bodies {
			if tile, ok := ecs.Get(ctx.w, d.e, component.TileComponent); ok {
				drawTile(ctx.dst, d.b, tile, skin, group.Energy, ctx.pointerPixels(), r.stops[gi])
			}
		}
	case variants.SkinPulse:
		for _, d := range bodies {
			drawPulse(ctx.dst, d.b, skin)
		}
	case variants.SkinNode:
		for _, d := range bodies {
			drawNode(ctx.dst, d.b, skin)
		}
	case variants.SkinSphere, variants.SkinCapsule:
		// Painter's order: far bodies first.
		sort.SliceStable(bodies, func(i, j int) bool { return bodies[i].b.Z < bodies[j].b.Z })
		for _, d := range bodies {
			elong := 0.0
			if orbit, ok := ecs.Get(ctx.w, d.e, component.OrbitComponent); ok {
				elong = orbit.Elongation
			}
			drawSolid(ctx, d.b, skin, r.materials[gi], elong)
		}
	}
}

// Stops converts configured gradient stops into a paint ramp.
func Stops(specs []variants.StopSpec) render.Stops {
	stops := make([]render.Stop, 0, len(specs))
	for _, s := range specs {
		stops = append(stops, render.Stop{Offset: s.Offset, Color: s.Color.NRGBA})
	}
	return render.NewStops(stops...)
}

// Material converts a configured material for the scene shader.
func Material(m variants.MaterialSpec) scene.Material {
	return scene.Material{
		Color:             m.Color.NRGBA,
		Roughness:         m.Roughness,
		Metalness:         m.Metalness,
		Transmission:      m.Transmission,
		Clearcoat:         m.Clearcoat,
		Sheen:             m.Sheen,
		SheenColor:        m.SheenColor.NRGBA,
		Emissive:          m.Emissive.NRGBA,
		EmissiveIntensity: m.EmissiveIntensity,
		Opacity:           m.Opacity,
	}
}
