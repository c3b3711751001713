package foundry

import "testing"

type damageCmd struct {
	handle ComponentHandle[health]
	amount float64
}

func (c *damageCmd) Execute(target EntityRef) {
	h, err := c.handle.Get(target)
	if err != nil {
		return
	}
	h.Value -= c.amount
}

// failingCmd is a WorldCommand with an empty Execute; it never fails on its
// own and no test below uses it. The stop-on-first-error test gets its
// failure from a command that targets a released entity instead.
type failingCmd struct{}

func (c *failingCmd) Execute(world *World, target EntityRef) {}

func TestCommandBufferSubmitDrainsWritersInCreationOrder(t *testing.T) {
	world := NewWorld()
	h := RegisterComponent[health](world, ShapeArray)
	host, err := world.HostFor(h.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}
	e1, _ := world.Add(host)
	e2, _ := world.Add(host)
	*h.GetOrNull(e1) = health{Value: 100}
	*h.GetOrNull(e2) = health{Value: 100}

	buf := NewCommandBuffer(world)
	w1 := buf.NewWriter()
	w2 := buf.NewWriter()

	w2.Record(e2, &damageCmd{handle: h, amount: 5})
	w1.Record(e1, &damageCmd{handle: h, amount: 10})

	var order []EntityRef
	for _, e := range []EntityRef{e1, e2} {
		target := e
		world.Dispatcher().ListenEntity(target, func(event any) bool {
			order = append(order, target)
			return false
		})
	}

	if buf.Pending() != 2 {
		t.Fatalf("want 2 pending, got %d", buf.Pending())
	}

	if err := buf.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if buf.Pending() != 0 {
		t.Fatal("Submit should drain every writer")
	}
	if h.GetOrNull(e1).Value != 90 {
		t.Fatalf("want e1 at 90, got %v", h.GetOrNull(e1).Value)
	}
	if h.GetOrNull(e2).Value != 95 {
		t.Fatalf("want e2 at 95, got %v", h.GetOrNull(e2).Value)
	}
	if len(order) != 2 || order[0] != e1 || order[1] != e2 {
		t.Fatalf("want w1's entry (e1) submitted before w2's (e2), got %v", order)
	}
}

func TestCommandBufferSubmitStopsAtFirstFailureLeavingRestQueued(t *testing.T) {
	world := NewWorld()
	h := RegisterComponent[health](world, ShapeArray)
	host, err := world.HostFor(h.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}
	e1, _ := world.Add(host)
	*h.GetOrNull(e1) = health{Value: 100}

	// An entity released before Submit runs makes Get fail for any command
	// still targeting it, simulating a mid-buffer failure.
	e2, _ := world.Add(host)
	if err := world.Remove(e2); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	buf := NewCommandBuffer(world)
	writer := buf.NewWriter()
	writer.Record(e1, &damageCmd{handle: h, amount: 10})
	writer.Record(e2, &damageCmd{handle: h, amount: 10})
	writer.Record(e1, &damageCmd{handle: h, amount: 20})

	err = buf.Submit()
	if err == nil {
		t.Fatal("want an error when a queued command targets a released entity")
	}
	if h.GetOrNull(e1).Value != 90 {
		t.Fatalf("the first, successful entry must stay executed, want 90, got %v", h.GetOrNull(e1).Value)
	}
	if writer.Pending() != 2 {
		t.Fatalf("the failing entry and everything after it must stay queued, want 2, got %d", writer.Pending())
	}
}
