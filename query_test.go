package foundry

import "testing"

func TestQueryViewTracksHostsCreatedAfterRegistration(t *testing.T) {
	w := NewWorld()
	a := RegisterComponent[intA](w, ShapeArray)
	b := RegisterComponent[intB](w, ShapeArray)

	view := w.QueryView(Has(w, a.ComponentType))
	if len(view.Hosts()) != 0 {
		t.Fatalf("want 0 hosts before any matching host exists, got %d", len(view.Hosts()))
	}

	hostA, err := w.HostFor(a.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}
	if len(view.Hosts()) != 1 {
		t.Fatalf("want the view to pick up the new matching host, got %d hosts", len(view.Hosts()))
	}

	// A host that does not satisfy the matcher must not appear.
	if _, err := w.HostFor(b.ComponentType); err != nil {
		t.Fatalf("HostFor: %v", err)
	}
	if len(view.Hosts()) != 1 {
		t.Fatalf("view must not pick up a non-matching host, got %d hosts", len(view.Hosts()))
	}

	if _, err := w.Add(hostA); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if view.Count() != 1 {
		t.Fatalf("want 1 entity visible through the view, got %d", view.Count())
	}
}

func TestQueryViewDropsHostsClearedFromWorld(t *testing.T) {
	w := NewWorld()
	a := RegisterComponent[intA](w, ShapeArray)

	host, err := w.HostFor(a.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}
	entity, err := w.Add(host)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	view := w.QueryView(Has(w, a.ComponentType))
	if len(view.Hosts()) != 1 {
		t.Fatalf("want 1 host, got %d", len(view.Hosts()))
	}

	if err := w.Remove(entity); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if n := w.ClearEmptyHosts(); n != 1 {
		t.Fatalf("want ClearEmptyHosts to remove 1 host, removed %d", n)
	}
	if len(view.Hosts()) != 0 {
		t.Fatalf("view must drop a host removed from the world, still has %d", len(view.Hosts()))
	}
}
