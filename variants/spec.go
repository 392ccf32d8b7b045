package variants

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

var ErrUnknownVariant = errors.New("variants: unknown variant")

// Space selects the coordinate system bodies live in.
type Space string

const (
	// SpaceScreen bodies use container pixels, like a 2D canvas.
	SpaceScreen Space = "screen"
	// SpaceWorld bodies use scene units seen through a perspective camera.
	SpaceWorld Space = "world"
)

// Layout kinds.
const (
	LayoutGrid      = "grid"
	LayoutGrid3D    = "grid3d"
	LayoutTiles     = "tiles"
	LayoutOrbit     = "orbit"
	LayoutCurrent   = "current"
	LayoutLane      = "lane"
	LayoutRing      = "ring"
	LayoutRingToken = "ring_token"
	LayoutRoute     = "route"
	LayoutDrift     = "drift"
)

// Skin kinds.
const (
	SkinGloss   = "gloss"
	SkinRing    = "ring"
	SkinTile    = "tile"
	SkinPulse   = "pulse"
	SkinNode    = "node"
	SkinSphere  = "sphere"
	SkinCapsule = "capsule"
)

// Spec describes one mockup animation.
type Spec struct {
	Name    string      `yaml:"name"`
	Order   int         `yaml:"order"`
	Label   string      `yaml:"label"`
	Title   string      `yaml:"title"`
	Space   Space       `yaml:"space"`
	Camera  CameraSpec  `yaml:"camera"`
	Pointer PointerSpec `yaml:"pointer"`
	Groups  []GroupSpec `yaml:"groups"`
	Layers  []string    `yaml:"layers"`
	Decor   DecorSpec   `yaml:"decor"`
	Mask    MaskSpec    `yaml:"mask"`
	Lights  []LightSpec `yaml:"lights"`
}

type CameraSpec struct {
	Z   float64 `yaml:"z"`
	FOV float64 `yaml:"fov"`
	// Extent maps normalized device coordinates to scene units.
	Extent [2]float64 `yaml:"extent"`
}

type PointerSpec struct {
	Smoothing      float64    `yaml:"smoothing"`
	SpeedGain      float64    `yaml:"speed_gain"`
	SpeedCap       float64    `yaml:"speed_cap"`
	SpeedSmoothing float64    `yaml:"speed_smoothing"`
	Home           [2]float64 `yaml:"home"`
	Idle           IdleSpec   `yaml:"idle"`
}

// IdleSpec is the pointer path used while no input is available, in
// container fractions.
type IdleSpec struct {
	Center    [2]float64 `yaml:"center"`
	Amplitude [2]float64 `yaml:"amplitude"`
	Freq      [2]float64 `yaml:"freq"`
}

type CountSpec struct {
	Fixed       int     `yaml:"fixed"`
	AreaPerBody float64 `yaml:"area_per_body"`
	Min         int     `yaml:"min"`
	Max         int     `yaml:"max"`
}

// For returns the body count for a w x h container. It depends only on the
// area and always lands in [Min, Max].
func (c CountSpec) For(w, h float64) int {
	if c.Fixed > 0 {
		return c.Fixed
	}
	n := c.Min
	if c.AreaPerBody > 0 {
		area := math.Max(w, 0) * math.Max(h, 0)
		n = int(math.Round(area / c.AreaPerBody))
	}
	if n < c.Min {
		n = c.Min
	}
	if c.Max > 0 && n > c.Max {
		n = c.Max
	}
	return n
}

// Bounds returns the [min, max] range For can produce.
func (c CountSpec) Bounds() (int, int) {
	if c.Fixed > 0 {
		return c.Fixed, c.Fixed
	}
	return c.Min, c.Max
}

// Range is a [base, base+spread) random draw.
type Range [2]float64

func (r Range) Pick(u float64) float64 {
	return r[0] + u*r[1]
}

type LayoutSpec struct {
	Kind string `yaml:"kind"`

	// grid, grid3d, tiles
	Cols    int        `yaml:"cols"`
	Rows    int        `yaml:"rows"`
	Extent  [2]float64 `yaml:"extent"`
	Jitter  [2]float64 `yaml:"jitter"`
	Scatter [3]float64 `yaml:"scatter"`
	Spacing [2]float64 `yaml:"spacing"`
	Depth   float64    `yaml:"depth"`

	// tiles
	TileScale [2]float64 `yaml:"tile_scale"`
	TileMin   [2]float64 `yaml:"tile_min"`
	TileMax   [2]float64 `yaml:"tile_max"`

	Size    Range      `yaml:"size"`
	Ellipse [2]float64 `yaml:"ellipse"`
	Spin    float64    `yaml:"spin"`
	Seed    float64    `yaml:"seed"`

	// orbit, current
	Radius     Range `yaml:"radius"`
	Height     Range `yaml:"height"`
	DepthRange Range `yaml:"depth_range"`
	Elongation Range `yaml:"elongation"`

	// wave drift around a grid3d home, and the drift wobble
	Wave     [3]float64 `yaml:"wave"`
	WaveFreq [3]float64 `yaml:"wave_freq"`

	// lane, ring_token, route, drift
	Speed  Range   `yaml:"speed"`
	Drift  float64 `yaml:"drift"`
	Wobble float64 `yaml:"wobble"`
	// Rate scales the carrier speed (lane or ring) added to each body.
	Rate float64 `yaml:"rate"`

	// ring
	Ring RingSpec `yaml:"ring"`
}

type RingSpec struct {
	Center [2]float64 `yaml:"center"`
	RX     [2]float64 `yaml:"rx"`
	RY     [2]float64 `yaml:"ry"`
	Speed  [2]float64 `yaml:"speed"`
	Width  [2]float64 `yaml:"width"`
	Couple [2]float64 `yaml:"couple"`
	Wobble [2]float64 `yaml:"wobble"`
	// WobbleFreq is x base, x step, y base, y step per ring index.
	WobbleFreq [4]float64 `yaml:"wobble_freq"`
}

// Term is a pointer force magnitude: (Base + Speed*pointerSpeed) * Scale.
type Term struct {
	Base  float64 `yaml:"base"`
	Speed float64 `yaml:"speed"`
	Scale float64 `yaml:"scale"`
}

// Active reports whether the term contributes anything.
func (t Term) Active() bool {
	return t.Base != 0 || t.Speed != 0
}

// Magnitude evaluates the term for a pointer speed. A zero Scale means 1.
func (t Term) Magnitude(speed float64) float64 {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return (t.Base + t.Speed*speed) * scale
}

type RepelSpec struct {
	Radius float64 `yaml:"radius"`
	Base   float64 `yaml:"base"`
	Speed  float64 `yaml:"speed"`
	Size   float64 `yaml:"size"`
}

type DepthSpec struct {
	Target float64 `yaml:"target"`
	Base   float64 `yaml:"base"`
	Speed  float64 `yaml:"speed"`
}

type NudgeSpec struct {
	Radius float64 `yaml:"radius"`
	Scale  float64 `yaml:"scale"`
}

type SpinSpec struct {
	Coupling float64 `yaml:"coupling"`
	Damping  float64 `yaml:"damping"`
	// Rate is the constant rotation added each frame (x, y, z).
	Rate [3]float64 `yaml:"rate"`
	// Wobble is amplitude and frequency of the extra z rotation.
	Wobble [2]float64 `yaml:"wobble"`
}

type SeparationSpec struct {
	Factor   float64 `yaml:"factor"`
	Strength float64 `yaml:"strength"`
}

// ForceSpec parametrizes the integrator for one body group.
type ForceSpec struct {
	Spring          float64        `yaml:"spring"`
	SpringZ         float64        `yaml:"spring_z"`
	Damping         float64        `yaml:"damping"`
	InfluenceRadius float64        `yaml:"influence_radius"`
	Gain            float64        `yaml:"gain"`
	Push            Term           `yaml:"push"`
	Swirl           Term           `yaml:"swirl"`
	Pull            Term           `yaml:"pull"`
	Repel           RepelSpec      `yaml:"repel"`
	Depth           DepthSpec      `yaml:"depth"`
	Lift            Term           `yaml:"lift"`
	Nudge           NudgeSpec      `yaml:"nudge"`
	Spin            SpinSpec       `yaml:"spin"`
	Separation      SeparationSpec `yaml:"separation"`
	Epsilon         float64        `yaml:"epsilon"`
	// SwirlFade is the pointer-to-anchor distance below which swirl fades
	// out linearly. Zero means a small fraction of InfluenceRadius.
	SwirlFade float64 `yaml:"swirl_fade"`
}

const swirlFadeFraction = 0.03

// PointerGain returns the multiplier applied to every pointer term.
func (f ForceSpec) PointerGain() float64 {
	if f.Gain == 0 {
		return 1
	}
	return f.Gain
}

// SwirlFadeRadius returns the distance under which swirl fades out. A
// swirl around a pointer parked on the anchor has nothing to balance it, so
// it must vanish there for the body to come to rest.
func (f ForceSpec) SwirlFadeRadius() float64 {
	if f.SwirlFade > 0 {
		return f.SwirlFade
	}
	return f.InfluenceRadius * swirlFadeFraction
}

// Eps returns the distance guard added to denominators.
func (f ForceSpec) Eps() float64 {
	if f.Epsilon <= 0 {
		return 1e-4
	}
	return f.Epsilon
}

type EnergySpec struct {
	Decay  float64 `yaml:"decay"`
	Gain   float64 `yaml:"gain"`
	Radius float64 `yaml:"radius"`
	Max    float64 `yaml:"max"`
	// Charge switches to "rise while influenced, decay otherwise".
	Charge      bool    `yaml:"charge"`
	PulseRadius float64 `yaml:"pulse_radius"`
	PulseGain   float64 `yaml:"pulse_gain"`
}

type StopSpec struct {
	Offset float64   `yaml:"offset"`
	Color  YAMLColor `yaml:"color"`
}

type ShadowSpec struct {
	Offset [2]float64 `yaml:"offset"`
	Radii  [2]float64 `yaml:"radii"`
	Color  YAMLColor  `yaml:"color"`
	// AlphaPerSize adds alpha proportional to body size.
	AlphaPerSize float64 `yaml:"alpha_per_size"`
}

type HighlightSpec struct {
	Offset [2]float64 `yaml:"offset"`
	Radii  [2]float64 `yaml:"radii"`
	Min    [2]float64 `yaml:"min"`
	Color  YAMLColor  `yaml:"color"`
}

type MaterialSpec struct {
	Color             YAMLColor `yaml:"color"`
	Roughness         float64   `yaml:"roughness"`
	Metalness         float64   `yaml:"metalness"`
	Transmission      float64   `yaml:"transmission"`
	Clearcoat         float64   `yaml:"clearcoat"`
	Sheen             float64   `yaml:"sheen"`
	SheenColor        YAMLColor `yaml:"sheen_color"`
	Emissive          YAMLColor `yaml:"emissive"`
	EmissiveIntensity float64   `yaml:"emissive_intensity"`
	Opacity           float64   `yaml:"opacity"`
}

// TintSpec draws a per-body HSL tint as base + u*spread per channel.
type TintSpec struct {
	Hue   Range `yaml:"hue"`
	Sat   Range `yaml:"sat"`
	Light Range `yaml:"light"`
}

type SkinSpec struct {
	Kind      string         `yaml:"kind"`
	Color     YAMLColor      `yaml:"color"`
	Stroke    YAMLColor      `yaml:"stroke"`
	Alpha     [2]float64     `yaml:"alpha"`
	Shadow    *ShadowSpec    `yaml:"shadow"`
	Highlight *HighlightSpec `yaml:"highlight"`
	Focal     [2]float64     `yaml:"focal"`
	Reach     float64        `yaml:"reach"`
	Stops     []StopSpec     `yaml:"stops"`
	Corner    float64        `yaml:"corner"`
	// Grow scales the drawn size with pointer influence or energy.
	Grow float64 `yaml:"grow"`
	// Shift moves tiles toward the pointer within ShiftRadius.
	Shift       float64 `yaml:"shift"`
	ShiftRadius float64 `yaml:"shift_radius"`
	Radius      float64 `yaml:"radius"`

	Material MaterialSpec `yaml:"material"`
	Tint     TintSpec     `yaml:"tint"`
	Stretch  float64      `yaml:"stretch"`
	Squash   float64      `yaml:"squash"`
	Pulse    [2]float64   `yaml:"pulse"`
}

type GroupSpec struct {
	Name   string     `yaml:"name"`
	Count  CountSpec  `yaml:"count"`
	Layout LayoutSpec `yaml:"layout"`
	Forces ForceSpec  `yaml:"forces"`
	Energy EnergySpec `yaml:"energy"`
	Skin   SkinSpec   `yaml:"skin"`
}

type LinksSpec struct {
	Group string `yaml:"group"`
	// Distance is the link cutoff; when Fraction is set it becomes
	// clamp(width*Fraction, Distance, MaxDistance).
	Distance    float64    `yaml:"distance"`
	MaxDistance float64    `yaml:"max_distance"`
	Fraction    float64    `yaml:"fraction"`
	Alpha       [2]float64 `yaml:"alpha"`
	Width       [2]float64 `yaml:"width"`
	Color       YAMLColor  `yaml:"color"`
	Sparkle     bool       `yaml:"sparkle"`
	Energy      float64    `yaml:"energy"`
}

type CursorLinksSpec struct {
	Group  string    `yaml:"group"`
	Radius float64   `yaml:"radius"`
	Alpha  float64   `yaml:"alpha"`
	Color  YAMLColor `yaml:"color"`
}

type AuraSpec struct {
	Reach float64    `yaml:"reach"`
	Stops []StopSpec `yaml:"stops"`
}

type CursorSpec struct {
	Ring      float64   `yaml:"ring"`
	RingWidth float64   `yaml:"ring_width"`
	RingColor YAMLColor `yaml:"ring_color"`
	Dot       float64   `yaml:"dot"`
	DotColor  YAMLColor `yaml:"dot_color"`
}

type LaneSpec struct {
	YRatio    float64 `yaml:"y"`
	Phase     float64 `yaml:"phase"`
	Amplitude float64 `yaml:"amplitude"`
	Speed     float64 `yaml:"speed"`
}

type LanesSpec struct {
	Lanes      []LaneSpec `yaml:"lanes"`
	Samples    int        `yaml:"samples"`
	Influence  float64    `yaml:"influence"`
	Warp       [2]float64 `yaml:"warp"`
	Gain       float64    `yaml:"gain"`
	Width      float64    `yaml:"width"`
	Color      YAMLColor  `yaml:"color"`
	AlphaSteps [2]float64 `yaml:"alpha"`
}

type RoutesSpec struct {
	// Rows adds one route per tile row.
	Rows bool `yaml:"rows"`
	// Paths are extra routes in tile grid steps from the grid origin.
	Paths  [][][2]float64 `yaml:"paths"`
	Wobble float64        `yaml:"wobble"`
	Width  float64        `yaml:"width"`
	Color  YAMLColor      `yaml:"color"`
}

type DustSpec struct {
	Count  int        `yaml:"count"`
	Box    [3]float64 `yaml:"box"`
	ZMin   float64    `yaml:"z_min"`
	Size   float64    `yaml:"size"`
	Color  YAMLColor  `yaml:"color"`
	Spin   float64    `yaml:"spin"`
	Sway   [2]float64 `yaml:"sway"`
	Offset float64    `yaml:"offset"`
}

type DecorSpec struct {
	Links       *LinksSpec       `yaml:"links"`
	CursorLinks *CursorLinksSpec `yaml:"cursor_links"`
	Aura        *AuraSpec        `yaml:"aura"`
	Cursor      *CursorSpec      `yaml:"cursor"`
	Lanes       *LanesSpec       `yaml:"lanes"`
	Routes      *RoutesSpec      `yaml:"routes"`
	Dust        *DustSpec        `yaml:"dust"`
}

type VignetteSpec struct {
	Radii [2]float64  `yaml:"radii"`
	Stops [][2]float64 `yaml:"stops"`
}

type MaskSpec struct {
	Fraction float64       `yaml:"fraction"`
	Min      float64       `yaml:"min"`
	Max      float64       `yaml:"max"`
	Vignette *VignetteSpec `yaml:"vignette"`
}

// Edge returns the fade margin for a w x h container.
func (m MaskSpec) Edge(w, h float64) float64 {
	e := math.Min(w, h) * m.Fraction
	if e < m.Min {
		e = m.Min
	}
	if m.Max > 0 && e > m.Max {
		e = m.Max
	}
	return e
}

type LightSpec struct {
	Kind      string     `yaml:"kind"`
	Position  [3]float64 `yaml:"position"`
	Intensity float64    `yaml:"intensity"`
	Color     YAMLColor  `yaml:"color"`
}

// GroupIndex returns the index of the named group, or -1.
func (s *Spec) GroupIndex(name string) int {
	if s == nil {
		return -1
	}
	for i := range s.Groups {
		if s.Groups[i].Name == name {
			return i
		}
	}
	return -1
}

// Parse decodes and validates a variant document.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("variants: unmarshal: %w", err)
	}
	spec.applyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *Spec) applyDefaults() {
	if s.Space == "" {
		s.Space = SpaceScreen
	}
	if s.Pointer.SpeedGain == 0 {
		s.Pointer.SpeedGain = 1
	}
	if s.Space == SpaceWorld {
		if s.Camera.Z == 0 {
			s.Camera.Z = 11
		}
		if s.Camera.FOV == 0 {
			s.Camera.FOV = 40
		}
	}
	if len(s.Layers) == 0 {
		for _, g := range s.Groups {
			s.Layers = append(s.Layers, "group:"+g.Name)
		}
	}
}

// Validate rejects specs the integrator cannot run safely.
func (s *Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("variants: validate: missing name")
	}
	wrap := func(format string, args ...any) error {
		return fmt.Errorf("variants: validate %s: %s", s.Name, fmt.Sprintf(format, args...))
	}
	if s.Space != SpaceScreen && s.Space != SpaceWorld {
		return wrap("unknown space %q", s.Space)
	}
	if k := s.Pointer.Smoothing; k <= 0 || k > 1 {
		return wrap("pointer smoothing %v outside (0,1]", k)
	}
	if k := s.Pointer.SpeedSmoothing; k < 0 || k > 1 {
		return wrap("pointer speed_smoothing %v outside [0,1]", k)
	}
	if s.Space == SpaceWorld && (s.Camera.Extent[0] <= 0 || s.Camera.Extent[1] <= 0) {
		return wrap("world space needs a positive camera extent")
	}
	if len(s.Groups) == 0 {
		return wrap("no body groups")
	}
	rings, tiles := false, false
	for gi, g := range s.Groups {
		if g.Name == "" {
			return wrap("group without name")
		}
		lo, hi := g.Count.Bounds()
		if lo < 1 || hi < lo {
			return wrap("group %s count bounds [%d,%d]", g.Name, lo, hi)
		}
		if d := g.Forces.Damping; d < 0 || d >= 1 {
			return wrap("group %s damping %v outside [0,1)", g.Name, d)
		}
		if g.Forces.InfluenceRadius < 0 || g.Forces.Repel.Radius < 0 || g.Forces.Nudge.Radius < 0 {
			return wrap("group %s has a negative radius", g.Name)
		}
		switch g.Layout.Kind {
		case LayoutGrid, LayoutGrid3D, LayoutTiles, LayoutOrbit, LayoutCurrent,
			LayoutLane, LayoutRing, LayoutRingToken, LayoutRoute, LayoutDrift:
		default:
			return wrap("group %s has unknown layout %q", g.Name, g.Layout.Kind)
		}
		switch g.Skin.Kind {
		case SkinGloss, SkinRing, SkinTile, SkinPulse, SkinNode, SkinSphere, SkinCapsule:
		default:
			return wrap("group %s has unknown skin %q", g.Name, g.Skin.Kind)
		}
		if g.Layout.Kind == LayoutTiles {
			if tiles {
				return wrap("group %s is a second tiles group", g.Name)
			}
			tiles = true
		}
		if g.Layout.Kind == LayoutLane && (s.Decor.Lanes == nil || len(s.Decor.Lanes.Lanes) == 0) {
			return wrap("group %s uses lanes but none are defined", g.Name)
		}
		if g.Layout.Kind == LayoutRoute && !s.Decor.Routes.hasPath() {
			return wrap("group %s uses routes but none are defined", g.Name)
		}
		if err := s.validateGrid(gi); err != nil {
			return err
		}
		if g.Layout.Kind == LayoutRingToken && !rings {
			return wrap("group %s places ring tokens before any ring group", g.Name)
		}
		if g.Layout.Kind == LayoutRing {
			rings = true
		}
	}
	for _, layer := range s.Layers {
		if name, ok := groupLayer(layer); ok {
			if s.GroupIndex(name) < 0 {
				return wrap("layer %q names an unknown group", layer)
			}
		}
	}
	return nil
}

// validateGrid checks that a fixed grid spawns a count inside the group's
// bounds. Tile grids need at least two columns and rows.
func (s *Spec) validateGrid(gi int) error {
	g := &s.Groups[gi]
	l := &g.Layout
	switch l.Kind {
	case LayoutTiles:
		if l.Cols < 2 || l.Rows < 2 {
			return fmt.Errorf("variants: validate %s: group %s tiles need cols and rows >= 2, got %dx%d",
				s.Name, g.Name, l.Cols, l.Rows)
		}
	case LayoutGrid3D:
		if l.Cols <= 0 || l.Rows <= 0 {
			return nil
		}
	default:
		return nil
	}
	lo, hi := g.Count.Bounds()
	if n := l.Cols * l.Rows; n < lo || n > hi {
		return fmt.Errorf("variants: validate %s: group %s grid %dx%d outside count bounds [%d,%d]",
			s.Name, g.Name, l.Cols, l.Rows, lo, hi)
	}
	return nil
}

func (r *RoutesSpec) hasPath() bool {
	if r == nil {
		return false
	}
	if r.Rows {
		return true
	}
	for _, p := range r.Paths {
		if len(p) >= 2 {
			return true
		}
	}
	return false
}

// GroupLayer splits a "group:<name>" layer entry.
func GroupLayer(layer string) (string, bool) {
	return groupLayer(layer)
}

func groupLayer(layer string) (string, bool) {
	const prefix = "group:"
	if len(layer) > len(prefix) && layer[:len(prefix)] == prefix {
		return layer[len(prefix):], true
	}
	return "", false
}
