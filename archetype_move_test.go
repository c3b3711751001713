package foundry

import "testing"

func TestAddComponentMovesEntityAndPreservesExistingData(t *testing.T) {
	world := NewWorld()
	a := RegisterComponent[intA](world, ShapeArray)
	b := RegisterComponent[intB](world, ShapeArray)

	host, err := world.HostFor(a.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}
	entity, err := world.Add(host)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	*a.GetOrNull(entity) = intA{V: 7}

	var added bool
	ListenType(world.Dispatcher(), func(event ComponentAdded[intB]) bool {
		added = true
		return false
	})

	moved, err := AddComponent(entity, intB{V: 42})
	if err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if entity.Valid() {
		t.Fatal("the pre-move EntityRef must be invalidated by the archetype move")
	}
	if !moved.Valid() {
		t.Fatal("the post-move EntityRef must be valid")
	}
	if !added {
		t.Fatal("AddComponent must send ComponentAdded[intB]")
	}
	if a.GetOrNull(moved).V != 7 {
		t.Fatalf("want existing component A preserved across the move, got %+v", a.GetOrNull(moved))
	}
	if b.GetOrNull(moved).V != 42 {
		t.Fatalf("want new component B set on the moved entity, got %+v", b.GetOrNull(moved))
	}

	if _, err := AddComponent(moved, intB{V: 1}); err == nil {
		t.Fatal("want ComponentExistsError when the component is already present")
	}
}

func TestRemoveComponentMovesEntityAndDropsOnlyTheTargetComponent(t *testing.T) {
	world := NewWorld()
	a := RegisterComponent[intA](world, ShapeArray)
	b := RegisterComponent[intB](world, ShapeArray)

	host, err := world.HostFor(a.ComponentType, b.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}
	entity, err := world.Add(host)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	*a.GetOrNull(entity) = intA{V: 3}
	*b.GetOrNull(entity) = intB{V: 9}

	var removed bool
	ListenType(world.Dispatcher(), func(event ComponentRemoved[intB]) bool {
		removed = true
		return false
	})

	moved, err := RemoveComponent[intB](entity)
	if err != nil {
		t.Fatalf("RemoveComponent: %v", err)
	}
	if !removed {
		t.Fatal("RemoveComponent must send ComponentRemoved[intB]")
	}
	if a.GetOrNull(moved).V != 3 {
		t.Fatalf("want component A preserved across the move, got %+v", a.GetOrNull(moved))
	}
	if b.Has(moved) {
		t.Fatal("want component B absent from the moved entity's archetype")
	}

	if _, err := RemoveComponent[intB](moved); err == nil {
		t.Fatal("want ComponentNotFoundError when the component is already absent")
	}
}

func TestAddComponentPreservesParentChildRelations(t *testing.T) {
	world := NewWorld()
	a := RegisterComponent[intA](world, ShapeArray)
	host, err := world.HostFor(a.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}

	parent, _ := world.Add(host)
	child, _ := world.Add(host)
	if err := SetParent(child, parent); err != nil {
		t.Fatalf("SetParent: %v", err)
	}

	movedChild, err := AddComponent(child, intB{V: 1})
	if err != nil {
		t.Fatalf("AddComponent: %v", err)
	}

	if err := world.Remove(parent); err != nil {
		t.Fatalf("Remove(parent): %v", err)
	}
	if movedChild.Valid() {
		t.Fatal("releasing the parent must still cascade to the moved child")
	}
}
