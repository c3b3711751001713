package foundry

// AddComponent attaches component T to entity, moving it to the archetype
// carrying its existing component set plus T. Mirrors warehouse/entity.go's
// AddComponentWithValue: build the destination component list, get-or-create
// that archetype's host, transfer every existing column's value across, set
// the new one, then release the old entity. Returns ComponentExistsError if
// entity's archetype already carries T.
//
// The old EntityRef is invalidated; callers must switch to the returned one.
// A ComponentAdded[T] event fires for the new ref after the move completes,
// the dynamic-archetype-build notification spec.md §6 names as
// WorldEvents.Add<T>.
func AddComponent[T any](entity EntityRef, value T) (EntityRef, error) {
	if !entity.Valid() {
		return EntityRef{}, InvalidSlotError{Slot: entity.slot}
	}
	t := ComponentTypeOf[T]()
	if _, ok := entity.host.descriptor.indexOf(t); ok {
		return EntityRef{}, ComponentExistsError{Entity: entity, Component: t.rtype}
	}

	newTypes := append(entity.host.descriptor.Types(), t)
	moved, err := moveToArchetype(entity, newTypes)
	if err != nil {
		return EntityRef{}, err
	}
	if err := SetComponent(moved, value); err != nil {
		return EntityRef{}, err
	}

	if world := moved.host.world; world != nil {
		world.dispatcher.Send(moved, ComponentAdded[T]{Entity: moved})
	}
	return moved, nil
}

// RemoveComponent detaches component T from entity, moving it to the
// archetype carrying its existing component set minus T. Mirrors
// warehouse/entity.go's RemoveComponent. Returns ComponentNotFoundError if
// entity's archetype does not carry T.
//
// The old EntityRef is invalidated; callers must switch to the returned one.
// A ComponentRemoved[T] event fires for the new ref after the move
// completes, the dynamic-archetype-build notification spec.md §6 names as
// WorldEvents.Remove<T>.
func RemoveComponent[T any](entity EntityRef) (EntityRef, error) {
	if !entity.Valid() {
		return EntityRef{}, InvalidSlotError{Slot: entity.slot}
	}
	t := ComponentTypeOf[T]()
	if _, ok := entity.host.descriptor.indexOf(t); !ok {
		return EntityRef{}, ComponentNotFoundError{Entity: entity, Component: t.rtype}
	}

	oldTypes := entity.host.descriptor.Types()
	newTypes := make([]ComponentType, 0, len(oldTypes)-1)
	for _, ot := range oldTypes {
		if ot != t {
			newTypes = append(newTypes, ot)
		}
	}

	moved, err := moveToArchetype(entity, newTypes)
	if err != nil {
		return EntityRef{}, err
	}

	if world := moved.host.world; world != nil {
		world.dispatcher.Send(moved, ComponentRemoved[T]{Entity: moved})
	}
	return moved, nil
}

// moveToArchetype relocates entity onto the host carrying exactly newTypes:
// create a fresh entity there, copy across every component the two
// archetypes share, transfer parent/child bookkeeping (entityRelation
// survives independently of component data, see host.go), then release the
// old entity via releaseOne — not the cascading Release, since gaining or
// losing a component must not destroy the entity's children or detach its
// parent.
func moveToArchetype(old EntityRef, newTypes []ComponentType) (EntityRef, error) {
	world := old.host.world
	dstHost, err := world.HostFor(newTypes...)
	if err != nil {
		return EntityRef{}, err
	}

	moved, err := dstHost.CreateOne()
	if err != nil {
		return EntityRef{}, err
	}

	for _, t := range old.host.descriptor.Types() {
		if err := copyComponent(t, old, moved); err != nil {
			return EntityRef{}, err
		}
	}
	transferRelation(old, moved)

	if err := old.host.releaseOne(old); err != nil {
		return EntityRef{}, err
	}
	return moved, nil
}

// copyComponent transfers component t's value from src to dst, bridging the
// two hosts' type-erased hostColumns through their getValue/setValue
// closures. A no-op if either side's archetype lacks t.
func copyComponent(t ComponentType, src, dst EntityRef) error {
	srcIdx, ok := src.host.descriptor.indexOf(t)
	if !ok {
		return nil
	}
	dstIdx, ok := dst.host.descriptor.indexOf(t)
	if !ok {
		return nil
	}
	value, err := src.host.columns[srcIdx].getValue(src.slot)
	if err != nil {
		return err
	}
	return dst.host.columns[dstIdx].setValue(dst.slot, value)
}

// transferRelation copies old's parent/child bookkeeping onto moved's slot,
// and repoints old's parent and children so they refer to moved instead of
// old — an archetype move must be invisible to SetParent-established
// relationships.
func transferRelation(old, moved EntityRef) {
	rel := old.host.relationFor(old.slot)
	dst := moved.host.relationFor(moved.slot)
	dst.hasParent = rel.hasParent
	dst.parent = rel.parent
	dst.children = append([]EntityRef(nil), rel.children...)

	if rel.hasParent && rel.parent.Valid() {
		rel.parent.host.replaceChild(rel.parent.slot, old, moved)
	}
	for _, child := range rel.children {
		if child.Valid() {
			child.host.setParentOf(child.slot, moved)
		}
	}
}
