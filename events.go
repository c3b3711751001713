package foundry

// Go has no equivalent of a nested static "WorldEvents" namespace, so the
// two built-in event families spec.md §6 names (WorldEvents.Add /
// WorldEvents.Remove, and their per-component generic counterparts) are
// plain exported types at package scope instead.

// EntityAdded is sent on a host's world dispatcher whenever Host.Create
// creates a new entity, immediately after OnEntityCreated fires.
type EntityAdded struct {
	Entity EntityRef
}

// EntityRemoved is sent on a host's world dispatcher by Host.Release,
// before the slot is returned to storage, so listeners can still read
// component values (spec.md §4.3's ordering invariant).
type EntityRemoved struct {
	Entity EntityRef
}

// ComponentAdded is sent when component T is attached to an entity whose
// archetype did not previously carry it (a dynamic archetype build).
type ComponentAdded[T any] struct {
	Entity EntityRef
}

// ComponentRemoved is sent when component T is detached from an entity.
type ComponentRemoved[T any] struct {
	Entity EntityRef
}

// Disposed is sent once by World.Dispose, after every host has been
// cleared but before the dispatcher itself is torn down.
type Disposed struct{}
