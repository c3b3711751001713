package foundry

import "testing"

func TestDispatcherGlobalListenerReceivesEvent(t *testing.T) {
	d := newDispatcher()
	var got any
	d.ListenGlobal(func(event any) bool {
		got = event
		return false
	})

	d.Send(EntityRef{}, "hello")
	if got != "hello" {
		t.Fatalf("want %q, got %v", "hello", got)
	}
}

func TestDispatcherTypeListenerFiltersByType(t *testing.T) {
	d := newDispatcher()
	var calls int
	ListenType(d, func(event EntityAdded) bool {
		calls++
		return false
	})

	d.Send(EntityRef{}, EntityRemoved{})
	if calls != 0 {
		t.Fatalf("want 0 calls for mismatched type, got %d", calls)
	}
	d.Send(EntityRef{}, EntityAdded{})
	if calls != 1 {
		t.Fatalf("want 1 call for matching type, got %d", calls)
	}
}

func TestDispatcherListenerAddedDuringDispatchIsNotCalledUntilNextSend(t *testing.T) {
	d := newDispatcher()
	var secondCalls int
	var firstRan bool

	d.ListenGlobal(func(event any) bool {
		if firstRan {
			return false
		}
		firstRan = true
		d.ListenGlobal(func(event any) bool {
			secondCalls++
			return false
		})
		return false
	})

	d.Send(EntityRef{}, "first")
	if secondCalls != 0 {
		t.Fatalf("listener added mid-dispatch must not observe the in-flight event, got %d calls", secondCalls)
	}

	d.Send(EntityRef{}, "second")
	if secondCalls != 1 {
		t.Fatalf("listener added mid-dispatch must persist for later sends, got %d calls", secondCalls)
	}
}

func TestDispatcherListenerRemovedDuringDispatchStillReceivesCurrentEvent(t *testing.T) {
	d := newDispatcher()
	var firstCalls, secondCalls int

	var firstID ListenerID
	firstID = d.ListenGlobal(func(event any) bool {
		firstCalls++
		return false
	})
	d.ListenGlobal(func(event any) bool {
		d.UnlistenGlobal(firstID)
		secondCalls++
		return false
	})

	d.Send(EntityRef{}, "event")
	if firstCalls != 1 {
		t.Fatalf("listener removed mid-dispatch by another callback must still receive the current event once, got %d", firstCalls)
	}
	if secondCalls != 1 {
		t.Fatalf("want 1 call, got %d", secondCalls)
	}

	d.Send(EntityRef{}, "event2")
	if firstCalls != 1 {
		t.Fatalf("removed listener must not be invoked again, got %d calls", firstCalls)
	}
}

func TestDispatcherSelfUnsubscribeViaReturnTrue(t *testing.T) {
	d := newDispatcher()
	var calls int
	d.ListenGlobal(func(event any) bool {
		calls++
		return true
	})

	d.Send(EntityRef{}, 1)
	d.Send(EntityRef{}, 2)
	if calls != 1 {
		t.Fatalf("want 1 call before self-unsubscribe, got %d", calls)
	}
	if d.GlobalListenerCount() != 0 {
		t.Fatalf("want 0 global listeners left, got %d", d.GlobalListenerCount())
	}
}

func TestDispatcherPerEntityOrderingAndUnlistenAll(t *testing.T) {
	world := NewWorld()
	handle := RegisterComponent[int](world, ShapeArray)
	host, err := world.HostFor(handle.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}
	entity, err := world.Add(host)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	var order []string
	world.Dispatcher().ListenEntity(entity, func(event any) bool {
		order = append(order, "entity")
		return false
	})
	ListenType(world.Dispatcher(), func(event EntityRemoved) bool {
		order = append(order, "type")
		return false
	})
	world.Dispatcher().ListenGlobal(func(event any) bool {
		order = append(order, "global")
		return false
	})

	if err := world.Remove(entity); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(order) != 3 || order[0] != "entity" || order[1] != "type" || order[2] != "global" {
		t.Fatalf("want entity,type,global order, got %v", order)
	}

	if world.Dispatcher().EntityListenerCount(entity) != 0 {
		t.Fatal("Release must UnlistenAll for the released entity")
	}
}
