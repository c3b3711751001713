package foundry

// hostColumn pairs a concrete SlotStorage[T] (erased behind `any` so a Host
// can hold a heterogeneous slice of them) with the two operations Host needs
// to perform generically, without knowing T: claim a specific slot with a
// zero value, and release it. Built once per component by newHostColumn when
// a World resolves a component's factory.
type hostColumn struct {
	storage      any
	allocateZero func(slot Slot) error
	release      func(slot Slot) error
	getValue     func(slot Slot) (any, error)
	setValue     func(slot Slot, value any) error
}

func newHostColumn[T any](storage SlotStorage[T]) hostColumn {
	return hostColumn{
		storage: storage,
		allocateZero: func(slot Slot) error {
			var zero T
			return storage.AllocateAt(slot, zero)
		},
		release: func(slot Slot) error {
			return storage.Release(slot)
		},
		getValue: func(slot Slot) (any, error) {
			ref, err := storage.GetRef(slot)
			if err != nil {
				return nil, err
			}
			return *ref, nil
		},
		setValue: func(slot Slot, value any) error {
			ref, err := storage.GetRef(slot)
			if err != nil {
				return err
			}
			*ref = value.(T)
			return nil
		},
	}
}

// entityRelation tracks the parent/child bookkeeping spec.md §4.4 calls a
// supplemented feature (see SPEC_FULL.md §4): every host slot optionally has
// one parent and any number of children, maintained independently of
// component data so it survives AddComponent/RemoveComponent archetype
// moves.
type entityRelation struct {
	hasParent bool
	parent    EntityRef
	children  []EntityRef
}

// Host owns every entity sharing one Archetype: a canonical slot allocator
// (spine) plus one column per component type in the archetype's descriptor,
// kept aligned to the same slot index and generation via AllocateAt.
// Grounded in warehouse/storage.go's archetype struct (table + entity
// bookkeeping), replacing its single table.Table with foundry's own
// per-component SlotStorage columns.
type Host struct {
	world      *World
	arch       archetype
	descriptor *EntityDescriptor
	spine      SlotStorage[struct{}]
	columns    []hostColumn

	relations []entityRelation

	onEntityCreated  []func(EntityRef)
	onEntityReleased []func(EntityRef)
}

func newHost(world *World, arch archetype, descriptor *EntityDescriptor, columns []hostColumn) *Host {
	return &Host{
		world:      world,
		arch:       arch,
		descriptor: descriptor,
		spine:      NewSlotStorage[struct{}](ShapeArray),
		columns:    columns,
	}
}

// ID returns this host's archetype ID.
func (h *Host) ID() ArchetypeID { return h.arch.ID() }

// Archetype returns this host's archetype identity.
func (h *Host) Archetype() Archetype { return h.arch }

// Descriptor returns the component-to-column mapping for this host's
// archetype.
func (h *Host) Descriptor() *EntityDescriptor { return h.descriptor }

// World returns the World this host belongs to.
func (h *Host) World() *World { return h.world }

// Count reports how many live entities this host currently holds.
func (h *Host) Count() int { return h.spine.Count() }

func (h *Host) isLive(slot Slot) bool {
	return h.spine.IsValid(slot)
}

// OnEntityCreated registers a hook invoked synchronously, after the entity
// is fully allocated but before EntityAdded is dispatched, for every entity
// this host creates from now on.
func (h *Host) OnEntityCreated(fn func(EntityRef)) {
	h.onEntityCreated = append(h.onEntityCreated, fn)
}

// OnEntityReleased registers a hook invoked synchronously, after
// EntityRemoved is dispatched but before the slot is returned to the spine
// allocator, for every entity this host releases from now on.
func (h *Host) OnEntityReleased(fn func(EntityRef)) {
	h.onEntityReleased = append(h.onEntityReleased, fn)
}

// Create allocates n new entities with zero-valued components, returning
// their refs in allocation order. Mirrors warehouse/storage.go's
// NewEntities, minus the explicit Component arguments: this host's
// archetype already fixes the component set.
func (h *Host) Create(n int) ([]EntityRef, error) {
	if n <= 0 {
		return nil, nil
	}
	refs := make([]EntityRef, 0, n)
	for i := 0; i < n; i++ {
		ref, err := h.createOne()
		if err != nil {
			return refs, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// CreateOne allocates a single new entity. A thin convenience over Create.
func (h *Host) CreateOne() (EntityRef, error) {
	return h.createOne()
}

func (h *Host) createOne() (EntityRef, error) {
	slot, err := h.spine.AllocateSlot()
	if err != nil {
		return EntityRef{}, err
	}
	for _, col := range h.columns {
		if err := col.allocateZero(slot); err != nil {
			return EntityRef{}, err
		}
	}
	h.ensureRelationCapacity(slot.index)

	ref := EntityRef{host: h, slot: slot}
	for _, hook := range h.onEntityCreated {
		hook(ref)
	}
	if h.world != nil {
		h.world.dispatcher.Send(ref, EntityAdded{Entity: ref})
	}
	return ref, nil
}

// Release destroys entity, cascading to every descendant registered via
// SetParent (spec.md §4.4's supplemented cascade, see SPEC_FULL.md §4): each
// descendant is released depth-first before its parent, so no released
// entity is ever left referencing a live child or a dead parent mid-way
// through the cascade.
func (h *Host) Release(ref EntityRef) error {
	if ref.host != h {
		return InvalidSlotError{Slot: ref.slot}
	}
	if !h.isLive(ref.slot) {
		return InvalidSlotError{Slot: ref.slot}
	}

	rel := h.relationFor(ref.slot)
	children := append([]EntityRef(nil), rel.children...)
	for _, child := range children {
		if child.Valid() {
			if err := child.host.Release(child); err != nil {
				return err
			}
		}
	}

	if rel.hasParent && rel.parent.Valid() {
		rel.parent.host.detachChild(rel.parent.slot, ref)
	}

	return h.releaseOne(ref)
}

func (h *Host) releaseOne(ref EntityRef) error {
	slot := ref.slot

	if h.world != nil {
		h.world.dispatcher.Send(ref, EntityRemoved{Entity: ref})
	}
	for _, hook := range h.onEntityReleased {
		hook(ref)
	}
	if h.world != nil {
		h.world.dispatcher.UnlistenAll(ref)
	}

	for _, col := range h.columns {
		if err := col.release(slot); err != nil {
			return err
		}
	}
	if err := h.spine.Release(slot); err != nil {
		return err
	}
	h.relations[slot.index] = entityRelation{}
	return nil
}

// SetParent establishes a parent/child relationship between two entities of
// (possibly different) hosts, so that releasing parent cascades to child.
// Returns EntityRelationError if child already has a parent.
func SetParent(child, parent EntityRef) error {
	if !child.Valid() || !parent.Valid() {
		return InvalidSlotError{Slot: child.slot}
	}
	rel := child.host.relationFor(child.slot)
	if rel.hasParent {
		return EntityRelationError{Child: child, Parent: rel.parent}
	}
	child.host.setParentOf(child.slot, parent)
	parent.host.addChild(parent.slot, child)
	return nil
}

func (h *Host) relationFor(slot Slot) *entityRelation {
	h.ensureRelationCapacity(slot.index)
	return &h.relations[slot.index]
}

func (h *Host) setParentOf(slot Slot, parent EntityRef) {
	rel := h.relationFor(slot)
	rel.hasParent = true
	rel.parent = parent
}

func (h *Host) addChild(slot Slot, child EntityRef) {
	rel := h.relationFor(slot)
	rel.children = append(rel.children, child)
}

func (h *Host) detachChild(slot Slot, child EntityRef) {
	rel := h.relationFor(slot)
	for i, c := range rel.children {
		if c == child {
			rel.children = append(rel.children[:i], rel.children[i+1:]...)
			return
		}
	}
}

func (h *Host) replaceChild(slot Slot, old, new EntityRef) {
	rel := h.relationFor(slot)
	for i, c := range rel.children {
		if c == old {
			rel.children[i] = new
			return
		}
	}
}

func (h *Host) ensureRelationCapacity(index uint32) {
	for uint32(len(h.relations)) <= index {
		h.relations = append(h.relations, entityRelation{})
	}
}

// DescribeEntity returns a human-readable summary of ref's archetype and
// component values, mirroring warehouse/entity.go's debug helpers — handy
// in test failure messages and log lines.
func (h *Host) DescribeEntity(ref EntityRef) string {
	if ref.host != h || !h.isLive(ref.slot) {
		return "<invalid entity>"
	}
	return ref.String() + " components=" + ref.ComponentsAsString()
}

// AllocatedSlots iterates every live slot this host currently holds, in
// dense allocation order.
func (h *Host) AllocatedSlots() func(yield func(Slot) bool) {
	return h.spine.AllocatedSlots()
}

// Entities iterates every live EntityRef this host currently holds.
func (h *Host) Entities() func(yield func(EntityRef) bool) {
	return func(yield func(EntityRef) bool) {
		for slot := range h.spine.AllocatedSlots() {
			if !yield(EntityRef{host: h, slot: slot}) {
				return
			}
		}
	}
}
