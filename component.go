package foundry

import "reflect"

// ComponentType identifies a component's runtime type. Two instantiations
// of the same generic component (Container[int] vs Container[string]) are
// distinct ComponentTypes because reflect.Type already distinguishes them —
// no separate disambiguator is needed the way the original design called
// for (see DESIGN.md, "Descriptor offsets").
type ComponentType struct {
	rtype reflect.Type
}

func (c ComponentType) String() string {
	if c.rtype == nil {
		return "<invalid component type>"
	}
	return c.rtype.String()
}

// ComponentTypeOf returns the ComponentType for T.
func ComponentTypeOf[T any]() ComponentType {
	return ComponentType{rtype: reflect.TypeFor[T]()}
}

// ComponentHandle is a reusable, typed handle for component T, created once
// via NewComponent and shared across entities and archetypes. It plays the
// role of the teacher's AccessibleComponent[T]: a cheap, cached accessor
// rather than a fresh reflective lookup on every access.
type ComponentHandle[T any] struct {
	ComponentType
}

// NewComponent creates a handle for component type T. Handles are safe to
// share across goroutines that only read; typed access still requires the
// caller hold whatever external synchronization their host program uses.
func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{ComponentType: ComponentTypeOf[T]()}
}

// Get retrieves a live pointer to T on entity, failing with
// ComponentNotFoundError if entity's archetype does not carry T.
func (c ComponentHandle[T]) Get(entity EntityRef) (*T, error) {
	return getComponent[T](entity, c.ComponentType)
}

// GetOrNull returns a live pointer to T on entity, or nil if the component
// is absent, per spec.md §4.2's GetOrNullRef.
func (c ComponentHandle[T]) GetOrNull(entity EntityRef) *T {
	ref, err := c.Get(entity)
	if err != nil {
		return nil
	}
	return ref
}

// Has reports whether entity's archetype carries T.
func (c ComponentHandle[T]) Has(entity EntityRef) bool {
	if entity.host == nil {
		return false
	}
	_, ok := entity.host.descriptor.indexOf(c.ComponentType)
	return ok
}
