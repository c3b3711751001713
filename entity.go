package foundry

import (
	"fmt"
)

// EntityRef is the universal reference to a live entity: a (host, slot)
// pair. It is a plain value — copyable, and holding one does not extend
// the entity's lifetime, per spec.md §3.
type EntityRef struct {
	host *Host
	slot Slot
}

// Host returns the Host this reference was issued by.
func (e EntityRef) Host() *Host { return e.host }

// Slot returns the underlying storage slot.
func (e EntityRef) Slot() Slot { return e.slot }

// Valid reports whether this reference still points at a live entity: the
// host exists and the slot has not been released (or reused under a newer
// generation) since this reference was taken.
func (e EntityRef) Valid() bool {
	if e.host == nil {
		return false
	}
	return e.host.isLive(e.slot)
}

func (e EntityRef) String() string {
	if e.host == nil {
		return "EntityRef(<nil host>)"
	}
	return fmt.Sprintf("EntityRef(archetype=%d, slot=%d/%d)", e.host.arch.ID(), e.slot.index, e.slot.generation)
}

// Components returns the component types carried by this entity's
// archetype, mirroring warehouse/entity.go's Components().
func (e EntityRef) Components() []ComponentType {
	if e.host == nil {
		return nil
	}
	return e.host.descriptor.Types()
}

// ComponentsAsString returns a sorted, human readable summary of the
// entity's components, grounded directly on
// warehouse/entity.go's ComponentsAsString — useful for log lines and
// test failure messages.
func (e EntityRef) ComponentsAsString() string {
	types := e.Components()
	if len(types) == 0 {
		return "[]"
	}
	out := "["
	for i, t := range types {
		if i > 0 {
			out += ", "
		}
		out += t.String()
	}
	return out + "]"
}

// getComponent is the shared implementation behind ComponentHandle.Get: it
// consults the owning host's descriptor for the column holding T, then
// type-asserts that column's SlotStorage to SlotStorage[T].
func getComponent[T any](entity EntityRef, t ComponentType) (*T, error) {
	if entity.host == nil {
		return nil, ComponentNotFoundError{Entity: entity, Component: t.rtype}
	}
	idx, ok := entity.host.descriptor.indexOf(t)
	if !ok {
		return nil, ComponentNotFoundError{Entity: entity, Component: t.rtype}
	}
	column, ok := entity.host.columns[idx].storage.(SlotStorage[T])
	if !ok {
		return nil, ComponentNotFoundError{Entity: entity, Component: t.rtype}
	}
	return column.GetRef(entity.slot)
}

// SetComponent overwrites T on entity, failing with ComponentNotFoundError
// if the archetype does not carry T. Use AddComponent to attach a new
// component to an entity's archetype (archetype_move.go).
func SetComponent[T any](entity EntityRef, value T) error {
	ref, err := getComponent[T](entity, ComponentTypeOf[T]())
	if err != nil {
		return err
	}
	*ref = value
	return nil
}
