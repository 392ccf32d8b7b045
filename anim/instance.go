// Package anim owns the lifetime of one mounted variant: its surface, its
// world snapshot and its frame loop.
package anim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/render"
	"github.com/milk9111/mockups/variants"
)

// MaxScale caps the backing store scale factor.
const MaxScale = 2

type State int

const (
	Unmounted State = iota
	Initializing
	Running
	TornDown
)

var stateNames = [...]string{"unmounted", "initializing", "running", "torn_down"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// AcquireFunc obtains the drawing surface on mount.
type AcquireFunc func() (render.Surface, error)

// Instance is one mounted variant. All methods are safe for concurrent use;
// frames, input and resizes are serialized on one lock.
type Instance struct {
	mu       sync.Mutex
	spec     *variants.Spec
	sched    Scheduler
	logger   *zap.Logger
	rng      *rand.Rand
	interval time.Duration

	state    State
	disabled bool
	surface  render.Surface
	world    *ecs.World
	w, h     float64
	scale    float64

	frame   FrameID
	origin  time.Duration
	started bool
	time    float64
	frames  int
	resizes int
}

type Option func(*Instance)

func WithLogger(l *zap.Logger) Option {
	return func(in *Instance) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithScheduler replaces the default Queue. Start only drives a *Queue.
func WithScheduler(s Scheduler) Option {
	return func(in *Instance) {
		if s != nil {
			in.sched = s
		}
	}
}

// WithSeed makes body placement reproducible.
func WithSeed(seed int64) Option {
	return func(in *Instance) {
		in.rng = rand.New(rand.NewSource(seed))
	}
}

func WithFrameInterval(d time.Duration) Option {
	return func(in *Instance) {
		in.interval = d
	}
}

func New(spec *variants.Spec, opts ...Option) *Instance {
	in := &Instance{
		spec:     spec,
		sched:    NewQueue(),
		logger:   zap.NewNop(),
		interval: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.rng == nil {
		in.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	in.logger = in.logger.With(zap.String("variant", spec.Name))
	return in
}

// Mount acquires the surface, performs the first resize and starts the frame
// loop. When the surface is unavailable the instance stays Initializing and
// renders nothing.
func (in *Instance) Mount(acquire AcquireFunc, w, h, scale float64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.state != Unmounted {
		return
	}
	in.state = Initializing

	var surface render.Surface
	var err error
	if acquire != nil {
		surface, err = acquire()
	}
	if err != nil || surface == nil {
		in.disabled = true
		in.logger.Debug("surface unavailable, instance disabled", zap.Error(err))
		return
	}
	in.surface = surface
	in.logger.Debug("instance mounted", zap.Float64("width", w), zap.Float64("height", h))
	in.resize(w, h, capScale(scale))
}

// Resize rebuilds the body population for a new container size. An
// unchanged size is a no-op.
func (in *Instance) Resize(w, h, scale float64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.state != Initializing && in.state != Running {
		return
	}
	if in.disabled {
		return
	}
	scale = capScale(scale)
	if in.world != nil && w == in.w && h == in.h && scale == in.scale {
		return
	}
	in.resize(w, h, scale)
}

// Reload swaps in a new spec and rebuilds the world at the current size.
func (in *Instance) Reload(spec *variants.Spec) {
	if spec == nil {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.spec = spec
	if in.disabled || in.world == nil || (in.state != Initializing && in.state != Running) {
		return
	}
	in.logger.Info("variant reloaded")
	in.resize(in.w, in.h, in.scale)
}

func (in *Instance) resize(w, h, scale float64) {
	if rs, ok := in.surface.(render.Resizable); ok && w >= 1 && h >= 1 {
		if err := rs.Resize(w, h, scale); err != nil {
			in.disable(err)
			return
		}
	}

	var carry *component.Pointer
	if in.world != nil {
		if p, ok := ecs.Single(in.world, component.PointerComponent); ok {
			c := *p
			carry = &c
		}
	}
	world := Build(in.spec, w, h, scale, in.rng, carry)
	if field, ok := ecs.Single(world, component.FieldComponent); ok {
		field.Time = in.time
		field.Frame = in.frames
	}
	in.world = world
	in.w, in.h, in.scale = w, h, scale
	in.resizes++
	in.logger.Debug("population rebuilt",
		zap.Float64("width", w),
		zap.Float64("height", h),
		zap.Float64("scale", scale),
		zap.Int("entities", world.Len()),
		zap.Any("components", world.Census()),
		zap.Int("resizes", in.resizes),
	)

	if in.state == Initializing {
		in.state = Running
		in.request()
	}
}

func (in *Instance) disable(err error) {
	in.disabled = true
	if in.frame != 0 {
		in.sched.Cancel(in.frame)
		in.frame = 0
	}
	in.world = nil
	in.logger.Warn("surface lost, instance disabled", zap.Error(err))
}

func (in *Instance) request() {
	in.frame = in.sched.Request(in.onFrame)
}

func (in *Instance) onFrame(now time.Duration) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.frame = 0
	if in.state != Running || in.disabled || in.world == nil {
		return
	}
	if !in.started {
		in.origin = now - time.Duration(in.time*float64(time.Second))
		in.started = true
	}
	in.time = (now - in.origin).Seconds()

	if field, ok := ecs.Single(in.world, component.FieldComponent); ok {
		field.Time = in.time
		field.Frame = in.frames
	}
	in.world.Update()
	in.world.Draw(in.surface)
	in.frames++
	in.request()
}

// Unmount detaches input and cancels the pending frame. It is idempotent.
func (in *Instance) Unmount() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.state == Unmounted || in.state == TornDown {
		return
	}
	prev := in.state
	in.state = TornDown
	if in.frame != 0 {
		in.sched.Cancel(in.frame)
		in.frame = 0
	}
	in.world = nil
	in.surface = nil
	in.logger.Debug("instance torn down", zap.Stringer("from", prev), zap.Int("frames", in.frames))
}

// Start drives the instance's Queue from a goroutine. The returned Task
// must be stopped; stopping it also unmounts the instance. Any other
// Scheduler is driven by its host, so the Task starts no goroutine.
func (in *Instance) Start(ctx context.Context) *Task {
	var t *Task
	if q, ok := in.sched.(*Queue); ok {
		t = RunQueue(ctx, q, in.interval, in.logger)
	} else {
		in.logger.Warn("custom scheduler is host driven; task only tears down")
		t = idleTask(in.logger)
	}
	t.onStop = in.Unmount
	return t
}

func (in *Instance) PointerEnter(x, y float64) {
	in.push(ecs.Event{Kind: ecs.EventPointerEnter, X: x, Y: y})
}

func (in *Instance) PointerMove(x, y float64) {
	in.push(ecs.Event{Kind: ecs.EventPointerMove, X: x, Y: y})
}

func (in *Instance) PointerLeave() {
	in.push(ecs.Event{Kind: ecs.EventPointerLeave})
}

func (in *Instance) push(evt ecs.Event) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.state != Running || in.world == nil {
		return
	}
	in.world.Events().Push(evt)
}

// View calls fn with the surface while no frame can run.
func (in *Instance) View(fn func(render.Surface)) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.surface == nil || fn == nil {
		return
	}
	fn(in.surface)
}

// Inspect calls fn with the current world snapshot while no frame can run.
func (in *Instance) Inspect(fn func(*ecs.World)) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.world == nil || fn == nil {
		return
	}
	fn(in.world)
}

func (in *Instance) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// Disabled reports whether the surface could not be acquired or was lost.
func (in *Instance) Disabled() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.disabled
}

func (in *Instance) Spec() *variants.Spec {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.spec
}

func (in *Instance) Frames() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.frames
}

func (in *Instance) Resizes() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.resizes
}

// Size returns the container size and capped scale of the last resize.
func (in *Instance) Size() (w, h, scale float64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.w, in.h, in.scale
}

// Counts returns the live body count of every group.
func (in *Instance) Counts() []int {
	in.mu.Lock()
	defer in.mu.Unlock()
	counts := make([]int, len(in.spec.Groups))
	if in.world == nil {
		return counts
	}
	ecs.ForEach(in.world, component.GroupComponent, func(_ ecs.Entity, g *component.Group) {
		if g.Index >= 0 && g.Index < len(counts) {
			counts[g.Index]++
		}
	})
	return counts
}

func capScale(scale float64) float64 {
	switch {
	case scale <= 0:
		return 1
	case scale > MaxScale:
		return MaxScale
	}
	return scale
}
