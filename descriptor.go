package foundry

import "sort"

// EntityDescriptor maps each component type in an archetype to a column
// index, generalizing spec.md §4.2's "(component type id, byte offset,
// size)" mapping: a column index plays the role of the offset (see
// DESIGN.md, "Descriptor offsets"), and size is always 1 typed element per
// entity since each column is itself a SlotStorage[T]. Built once per
// archetype at first use and memoised by archetype signature; never
// mutated afterwards, so its offsets are stable for the descriptor's
// lifetime, per spec.md's invariant.
type EntityDescriptor struct {
	indices map[ComponentType]int
	types   []ComponentType
}

func newEntityDescriptor(types []ComponentType) *EntityDescriptor {
	// Stable column order regardless of caller-supplied order, so that
	// two calls with the same component set (any order) share a
	// descriptor — mirrors warehouse/storage_test.go's
	// "Different order... should be based on component sets, not order".
	ordered := append([]ComponentType(nil), types...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].String() < ordered[j].String()
	})

	d := &EntityDescriptor{
		indices: make(map[ComponentType]int, len(ordered)),
		types:   make([]ComponentType, 0, len(ordered)),
	}
	for _, t := range ordered {
		if _, dup := d.indices[t]; dup {
			continue
		}
		d.indices[t] = len(d.types)
		d.types = append(d.types, t)
	}
	return d
}

// indexOf returns the column index for component type t within this
// descriptor, and whether t is present at all.
func (d *EntityDescriptor) indexOf(t ComponentType) (int, bool) {
	idx, ok := d.indices[t]
	return idx, ok
}

// Types returns the ordered component types of this descriptor's archetype.
func (d *EntityDescriptor) Types() []ComponentType {
	return append([]ComponentType(nil), d.types...)
}

// Len returns the number of columns (component types) in this descriptor.
func (d *EntityDescriptor) Len() int { return len(d.types) }
