package ecs

import (
	"testing"

	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/render"
	"github.com/milk9111/mockups/render/rendertest"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if w.Len() != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, w.Len())
			}
			if c.destroyIndex < 0 {
				return
			}
			e := ents[c.destroyIndex]
			if !w.DestroyEntity(e) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if w.IsAlive(e) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if w.DestroyEntity(e) {
				t.Fatalf("second DestroyEntity should return false")
			}

			reused := w.CreateEntity()
			if reused == e {
				t.Fatalf("reused slot must not match the stale handle")
			}
			if w.IsAlive(e) || !w.IsAlive(reused) {
				t.Fatalf("stale handle alive=%v, reused alive=%v", w.IsAlive(e), w.IsAlive(reused))
			}
		})
	}
}

func TestWorldComponentsAndQueries(t *testing.T) {
	ints := component.NewComponent[int]("ints")
	strs := component.NewComponent[string]("strs")

	w := NewWorld()
	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()

	one, two, three := 1, 2, 3
	a, b := "a", "b"
	for _, add := range []func() error{
		func() error { return Add(w, e3, ints, &three) },
		func() error { return Add(w, e1, ints, &one) },
		func() error { return Add(w, e2, ints, &two) },
		func() error { return Add(w, e1, strs, &a) },
		func() error { return Add(w, e3, strs, &b) },
	} {
		if err := add(); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	tests := []struct {
		name  string
		kinds []component.Kinded
		want  []Entity
	}{
		{"ints_in_creation_order", []component.Kinded{ints}, []Entity{e1, e2, e3}},
		{"both", []component.Kinded{ints, strs}, []Entity{e1, e3}},
		{"unknown_kind", []component.Kinded{component.NewComponent[float64]("floats")}, nil},
		{"no_kinds", nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := w.Query(tc.kinds...)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}

	t.Run("get_aliases_storage", func(t *testing.T) {
		v, ok := Get(w, e2, ints)
		if !ok {
			t.Fatalf("expected int on e2")
		}
		*v = 20
		again, _ := Get(w, e2, ints)
		if *again != 20 {
			t.Fatalf("expected write through, got %d", *again)
		}
	})

	t.Run("remove_and_destroy", func(t *testing.T) {
		if !Remove(w, e1, strs) {
			t.Fatalf("expected remove to succeed")
		}
		if Has(w, e1, strs) {
			t.Fatalf("string should be gone from e1")
		}
		w.DestroyEntity(e3)
		if Has(w, e3, ints) {
			t.Fatalf("destroyed entity kept its components")
		}
		sum := 0
		ForEach(w, ints, func(_ Entity, v *int) { sum += *v })
		if sum != 1+20 {
			t.Fatalf("expected sum 21, got %d", sum)
		}
	})

	t.Run("add_errors", func(t *testing.T) {
		if err := Add(w, e3, ints, &one); err != component.ErrEntityNotAlive {
			t.Fatalf("expected ErrEntityNotAlive, got %v", err)
		}
		if err := Add[int](w, e1, ints, nil); err != component.ErrNilComponent {
			t.Fatalf("expected ErrNilComponent, got %v", err)
		}
		var zero component.ComponentHandle[int]
		if err := Add(w, e1, zero, &one); err != component.ErrInvalidHandle {
			t.Fatalf("expected ErrInvalidHandle, got %v", err)
		}
	})

	t.Run("single", func(t *testing.T) {
		s, ok := Single(w, strs)
		if ok || s != nil {
			t.Fatalf("no entity carries a string any more")
		}
		n, ok := Single(w, ints)
		if !ok || *n != 1 {
			t.Fatalf("expected first int 1, got %v", n)
		}
	})
}

type recordSystem struct {
	name  string
	trace *[]string
}

func (s recordSystem) Update(w *World) {
	*s.trace = append(*s.trace, s.name)
	if s.name == "drain" {
		for _, evt := range w.Events().Drain() {
			*s.trace = append(*s.trace, string(evt.Kind))
		}
	}
}

func (s recordSystem) Draw(_ *World, dst render.Surface) {
	*s.trace = append(*s.trace, "draw:"+s.name)
	dst.Clear()
}

type drawOnly struct{ trace *[]string }

func (d drawOnly) Draw(*World, render.Surface) { *d.trace = append(*d.trace, "draw:only") }

func TestWorldUpdateOrderAndEvents(t *testing.T) {
	var trace []string
	w := NewWorld()
	w.AddSystem(recordSystem{name: "first", trace: &trace})
	w.AddSystem(recordSystem{name: "drain", trace: &trace})
	w.AddSystem(nil)
	w.AddRenderSystem(drawOnly{trace: &trace})

	w.Events().Push(Event{Kind: EventPointerEnter, X: 1, Y: 2})
	w.Events().Push(Event{Kind: EventPointerMove, X: 3, Y: 4})
	w.Update()
	if w.Events().Len() != 0 {
		t.Fatalf("events must not outlive a frame")
	}

	rec := rendertest.NewRecorder(10, 10)
	w.Draw(rec)
	w.Draw(nil)

	want := []string{"first", "drain", "pointer_enter", "pointer_move", "draw:first", "draw:drain", "draw:only"}
	if len(trace) != len(want) {
		t.Fatalf("expected %v, got %v", want, trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, trace)
		}
	}
	if rec.Frames() != 2 {
		t.Fatalf("expected 2 cleared frames, got %d", rec.Frames())
	}

	w.Events().Push(Event{Kind: EventPointerLeave})
	w.Update()
	if w.Events().Len() != 0 {
		t.Fatalf("undrained events are flushed at frame end")
	}
}

func TestNilWorld(t *testing.T) {
	var w *World
	if w.CreateEntity().Valid() || w.Len() != 0 || w.Query(component.NewComponent[int]("ints")) != nil {
		t.Fatalf("nil world must be inert")
	}
	w.Update()
	w.Draw(nil)
	if w.Events().Drain() != nil {
		t.Fatalf("nil world has no events")
	}
}

func TestQueryFollowsCreationOrderAcrossReuse(t *testing.T) {
	tags := component.NewComponent[int]("tags")
	w := NewWorld()
	a := w.CreateEntity()
	b := w.CreateEntity()
	c := w.CreateEntity()
	w.DestroyEntity(a)
	d := w.CreateEntity() // reuses a's slot
	if d.slot() != a.slot() || d.gen() != a.gen()+1 {
		t.Fatalf("expected %v to reuse the slot of %v", d, a)
	}

	for i, e := range []Entity{d, c, b} {
		v := i
		if err := Add(w, e, tags, &v); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	got := w.Query(tags)
	want := []Entity{b, c, d}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestEntityString(t *testing.T) {
	cases := []struct {
		e    Entity
		want string
	}{
		{NoEntity, "none"},
		{newEntity(1, 0), "1.0"},
		{newEntity(12, 3), "12.3"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			if got := c.e.String(); got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
			if c.e.Valid() != (c.e != NoEntity) {
				t.Fatalf("validity of %v", c.e)
			}
		})
	}
}

func TestWorldCensus(t *testing.T) {
	marks := component.NewComponent[int]("marks")
	labels := component.NewComponent[string]("labels")
	w := NewWorld()
	one, x := 1, "x"
	for i := 0; i < 3; i++ {
		e := w.CreateEntity()
		if err := Add(w, e, marks, &one); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if i == 0 {
			if err := Add(w, e, labels, &x); err != nil {
				t.Fatalf("add failed: %v", err)
			}
		}
	}
	got := w.Census()
	if got["marks"] != 3 || got["labels"] != 1 || len(got) != 2 {
		t.Fatalf("unexpected census %v", got)
	}
	if marks.String() != "marks" || component.Name(labels.ID()) != "labels" {
		t.Fatalf("handle names lost")
	}
}
