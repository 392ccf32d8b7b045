package anim

import (
	"context"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/render"
	"github.com/milk9111/mockups/render/rendertest"
	"github.com/milk9111/mockups/variants"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func loadSpec(t *testing.T, name string) *variants.Spec {
	t.Helper()
	spec, err := variants.ByName(name)
	require.NoError(t, err)
	return spec
}

func recorderSurface(rec *rendertest.Recorder) AcquireFunc {
	return func() (render.Surface, error) { return rec, nil }
}

func TestInstanceLifecycle(t *testing.T) {
	q := NewQueue()
	rec := rendertest.NewRecorder(800, 600)
	in := New(loadSpec(t, "consensus-orbs"), WithScheduler(q), WithSeed(1))
	assert.Equal(t, Unmounted, in.State())

	// Input before mount is ignored.
	in.PointerEnter(10, 10)

	in.Mount(recorderSurface(rec), 800, 600, 1)
	assert.Equal(t, Running, in.State())
	assert.Equal(t, 1, q.Pending())

	assert.Equal(t, 1, q.Fire(16*time.Millisecond))
	assert.Equal(t, 1, in.Frames())
	assert.Equal(t, 1, rec.Frames())
	assert.Equal(t, 1, q.Pending(), "each frame requests the next")

	// A second mount is ignored.
	in.Mount(recorderSurface(rendertest.NewRecorder(1, 1)), 10, 10, 1)
	w, h, _ := in.Size()
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 600.0, h)

	in.Unmount()
	assert.Equal(t, TornDown, in.State())
	assert.Zero(t, q.Pending())
	assert.Zero(t, q.Fire(32*time.Millisecond))
	assert.Equal(t, 1, in.Frames())

	assert.NotPanics(t, in.Unmount)
	assert.Equal(t, TornDown, in.State())

	// Torn down instances never come back.
	in.Mount(recorderSurface(rec), 800, 600, 1)
	in.Resize(640, 480, 1)
	assert.Equal(t, TornDown, in.State())
	assert.Zero(t, q.Pending())
}

func TestMountWithoutSurfaceStaysDisabled(t *testing.T) {
	q := NewQueue()
	in := New(loadSpec(t, "ledger-rings"), WithScheduler(q))
	in.Mount(func() (render.Surface, error) { return nil, render.ErrSurfaceUnavailable }, 800, 600, 1)

	assert.Equal(t, Initializing, in.State())
	assert.True(t, in.Disabled())
	assert.Zero(t, q.Pending())

	in.Resize(1024, 768, 2)
	in.PointerMove(3, 4)
	assert.Zero(t, q.Pending())
	assert.Zero(t, in.Resizes())

	in.Unmount()
	assert.Equal(t, TornDown, in.State())
}

func TestResizeCountsAreDeterministic(t *testing.T) {
	sizes := [][2]float64{{0, 0}, {320, 200}, {800, 600}, {1024, 768}, {4000, 3000}}
	for _, name := range variants.List() {
		t.Run(name, func(t *testing.T) {
			spec := loadSpec(t, name)
			a := New(spec, WithScheduler(NewQueue()), WithSeed(1))
			b := New(spec, WithScheduler(NewQueue()), WithSeed(99))
			a.Mount(recorderSurface(rendertest.NewRecorder(1, 1)), 10, 10, 1)
			b.Mount(recorderSurface(rendertest.NewRecorder(1, 1)), 10, 10, 1)
			defer a.Unmount()
			defer b.Unmount()

			for _, sz := range sizes {
				a.Resize(sz[0], sz[1], 1)
				b.Resize(sz[0], sz[1], 1)
				ca, cb := a.Counts(), b.Counts()
				assert.Equal(t, ca, cb, "size %v", sz)
				for gi, n := range ca {
					lo, hi := spec.Groups[gi].Count.Bounds()
					assert.GreaterOrEqual(t, n, lo, "group %s size %v", spec.Groups[gi].Name, sz)
					if hi > 0 {
						assert.LessOrEqual(t, n, hi, "group %s size %v", spec.Groups[gi].Name, sz)
					}
					assert.Equal(t, BodyCount(spec, gi, sz[0], sz[1]), n)
				}
			}
		})
	}
}

func TestResizeBuildsNewSnapshot(t *testing.T) {
	q := NewQueue()
	rec := rendertest.NewRecorder(800, 600)
	in := New(loadSpec(t, "cursor-network"), WithScheduler(q), WithSeed(3))
	in.Mount(recorderSurface(rec), 800, 600, 1)
	defer in.Unmount()

	in.PointerEnter(100, 100)
	q.Fire(16 * time.Millisecond)
	q.Fire(48 * time.Millisecond)

	var before *ecs.World
	in.Inspect(func(w *ecs.World) { before = w })

	in.Resize(800, 600, 1)
	assert.Equal(t, 1, in.Resizes(), "unchanged size is a no-op")

	in.Resize(1200, 700, 3)
	assert.Equal(t, 2, in.Resizes())
	assert.Equal(t, 2.0, rec.Scale(), "scale is capped")

	in.Inspect(func(w *ecs.World) {
		assert.NotSame(t, before, w)
		p, ok := ecs.Single(w, component.PointerComponent)
		require.True(t, ok)
		assert.True(t, p.Active, "pointer presence survives a resize")
		assert.Equal(t, cp.Vector{X: 100, Y: 100}, p.Raw)
		home := cp.Vector{X: 0.72 * 1200, Y: 0.45 * 700}
		assert.InDelta(t, home.X, p.Smooth.X, 1e-9)
		assert.InDelta(t, home.Y, p.Smooth.Y, 1e-9)
		assert.Zero(t, p.Speed)

		field, ok := ecs.Single(w, component.FieldComponent)
		require.True(t, ok)
		assert.Greater(t, field.Time, 0.0, "time keeps running across resizes")
	})
	assert.Equal(t, 1, q.Pending(), "resizing never doubles the frame loop")
}

func TestReloadRebuildsAtCurrentSize(t *testing.T) {
	q := NewQueue()
	in := New(loadSpec(t, "consensus-orbs"), WithScheduler(q), WithSeed(5))
	in.Mount(recorderSurface(rendertest.NewRecorder(800, 600)), 800, 600, 1)
	defer in.Unmount()

	next := loadSpec(t, "consensus-orbs")
	next.Groups[0].Count = variants.CountSpec{Fixed: 3}
	in.Reload(next)

	assert.Equal(t, []int{3}, in.Counts())
	assert.Same(t, next, in.Spec())
	assert.Equal(t, 1, q.Pending())
}

func TestTaskStopsFrameLoop(t *testing.T) {
	rec := rendertest.NewRecorder(640, 480)
	in := New(loadSpec(t, "department-flows"), WithSeed(2), WithFrameInterval(time.Millisecond))
	in.Mount(recorderSurface(rec), 640, 480, 1)

	task := in.Start(context.Background())
	require.Eventually(t, func() bool { return in.Frames() >= 3 }, 2*time.Second, time.Millisecond)

	task.Stop()
	frames := in.Frames()
	assert.Equal(t, TornDown, in.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frames, in.Frames(), "no frame after teardown")
	assert.NotPanics(t, task.Stop)

	select {
	case <-task.Done():
	default:
		t.Fatal("task goroutine still running")
	}
}

func TestTaskStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := New(loadSpec(t, "planning-matrix"), WithSeed(2), WithFrameInterval(time.Millisecond))
	in.Mount(recorderSurface(rendertest.NewRecorder(640, 480)), 640, 480, 1)

	task := in.Start(ctx)
	cancel()
	<-task.Done()
	assert.Equal(t, Running, in.State(), "only Stop tears down")
	task.Stop()
	assert.Equal(t, TornDown, in.State())
}

// hostScheduler hands frames to a host loop that is driven by hand.
type hostScheduler struct {
	next FrameID
	fns  map[FrameID]FrameFunc
}

func (h *hostScheduler) Request(fn FrameFunc) FrameID {
	if h.fns == nil {
		h.fns = make(map[FrameID]FrameFunc)
	}
	h.next++
	h.fns[h.next] = fn
	return h.next
}

func (h *hostScheduler) Cancel(id FrameID) {
	delete(h.fns, id)
}

func (h *hostScheduler) step(now time.Duration) {
	fns := h.fns
	h.fns = nil
	for _, fn := range fns {
		fn(now)
	}
}

func TestTaskWithHostScheduler(t *testing.T) {
	host := &hostScheduler{}
	in := New(loadSpec(t, "cursor-network"), WithScheduler(host), WithSeed(4), WithFrameInterval(time.Millisecond))
	in.Mount(recorderSurface(rendertest.NewRecorder(640, 480)), 640, 480, 1)

	task := in.Start(context.Background())
	select {
	case <-task.Done():
	default:
		t.Fatal("task started a frame goroutine for a host scheduler")
	}

	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, in.Frames(), "only the host fires frames")
	host.step(16 * time.Millisecond)
	host.step(32 * time.Millisecond)
	assert.Equal(t, 2, in.Frames())

	task.Stop()
	assert.Equal(t, TornDown, in.State())
	assert.Empty(t, host.fns)
	assert.NotPanics(t, task.Stop)
}

func TestPointerPushesNearbyBodyAway(t *testing.T) {
	q := NewQueue()
	spec := loadSpec(t, "consensus-orbs")
	in := New(spec, WithScheduler(q), WithSeed(11))
	in.Mount(recorderSurface(rendertest.NewRecorder(800, 600)), 800, 600, 1)
	defer in.Unmount()

	counts := in.Counts()
	lo, hi := spec.Groups[0].Count.Bounds()
	require.GreaterOrEqual(t, counts[0], lo)
	require.LessOrEqual(t, counts[0], hi)

	in.PointerEnter(400, 300)
	q.Fire(16 * time.Millisecond)

	// Park a probe body just right of the smoothed pointer.
	var probe *component.Body
	var before cp.Vector
	in.Inspect(func(w *ecs.World) {
		p, _ := ecs.Single(w, component.PointerComponent)
		ecs.ForEach(w, component.BodyComponent, func(_ ecs.Entity, b *component.Body) {
			if probe == nil {
				probe = b
			}
		})
		require.NotNil(t, probe)
		probe.Pos = p.Smooth.Add(cp.Vector{X: 30})
		probe.Anchor = probe.Pos
		probe.Vel = cp.Vector{}
		before = probe.Vel
	})

	in.PointerMove(450, 320)
	q.Fire(32 * time.Millisecond)

	in.Inspect(func(w *ecs.World) {
		p, _ := ecs.Single(w, component.PointerComponent)
		assert.Greater(t, p.Speed, 0.0)

		away := probe.Pos.Sub(p.Smooth)
		require.Less(t, away.Length(), spec.Groups[0].Forces.InfluenceRadius)
		dv := probe.Vel.Sub(before)
		assert.Greater(t, dv.Dot(away), 0.0, "probe pushed away from the pointer")
		assert.Greater(t, probe.Influence, 0.0)
	})
}
