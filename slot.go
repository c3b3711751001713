package foundry

import "iter"

// Slot is a stable integer handle into a SlotStorage. It pairs with a Host
// to identify an entity (EntityRef). The generation counter lets a storage
// detect use of a slot after it has been released and its index reused.
type Slot struct {
	index      uint32
	generation uint32
}

// Index returns the raw slot index. Two slots with the same index but
// different generations refer to different logical entities.
func (s Slot) Index() uint32 { return s.index }

// Generation returns the slot's generation counter at the time it was
// issued by AllocateSlot.
func (s Slot) Generation() uint32 { return s.generation }

// NewSlot reconstructs a Slot from a previously observed index/generation
// pair, for callers (e.g. contrib/persistence) that persist a slot's
// coordinates outside the process and must rebuild one on restore.
func NewSlot(index, generation uint32) Slot {
	return Slot{index: index, generation: generation}
}

// StorageShape identifies which of the two interchangeable SlotStorage
// shapes an instance uses. CreateSiblingStorage consults this to build a
// matching column for a different payload type.
type StorageShape int

const (
	// ShapeArray backs a SlotStorage with one contiguous allocation plus a
	// free-list of released slots.
	ShapeArray StorageShape = iota
	// ShapePaged backs a SlotStorage with fixed-size pages allocated on
	// demand and a sparse-to-dense index.
	ShapePaged
)

// SlotStorage is the storage contract spec.md §4.1 describes: a slot
// allocator over either a contiguous array or a paged sparse buffer, with
// identical operations regardless of shape.
type SlotStorage[T any] interface {
	// AllocateSlot reserves a zero-valued payload cell and returns its slot.
	AllocateSlot() (Slot, error)
	// AllocateSlotWithValue reserves a payload cell initialized to value.
	AllocateSlotWithValue(value T) (Slot, error)
	// AllocateAt claims a specific slot (index and generation), initialized
	// to value, failing with InvalidSlotError if that index is already
	// allocated. Used to keep an archetype's component columns aligned to
	// a Host's canonical per-entity slot instead of each column running an
	// independent allocator.
	AllocateAt(slot Slot, value T) error
	// Release invalidates slot; after this call IsValid(slot) is false and
	// the cell is available for reuse by a future AllocateSlot.
	Release(slot Slot) error
	// IsValid reports whether slot currently refers to an allocated cell.
	IsValid(slot Slot) bool
	// GetRef returns a live reference to the payload at slot, failing with
	// InvalidSlotError if the slot is not allocated.
	GetRef(slot Slot) (*T, error)
	// UnsafeGetRef returns a live reference without validity checking. It
	// is a contract violation to call this with an invalid slot.
	UnsafeGetRef(slot Slot) *T
	// Fetch copies the current values at slots into a freshly owned buffer.
	Fetch(slots []Slot) ([]T, error)
	// Write is Fetch's inverse: it overwrites the values at slots.
	Write(slots []Slot, values []T) error
	// AllocatedSlots iterates every currently allocated slot. Order is the
	// dense allocation order, not insertion order, for paged storage.
	AllocatedSlots() iter.Seq[Slot]
	// Count returns the number of currently allocated slots.
	Count() int
	// Shape reports which of the two interchangeable shapes this instance
	// implements, for CreateSiblingStorage.
	Shape() StorageShape
	// Lock pins the storage against growth/relocation, e.g. while a cursor
	// is iterating it. Unlock releases the pin. Locks nest.
	Lock()
	Unlock()
	// Locked reports whether any lock is currently held.
	Locked() bool
}

// NewSlotStorage builds a SlotStorage of the requested shape for payload
// type T, honoring Config's defaults unless overridden by opts.
func NewSlotStorage[T any](shape StorageShape, opts ...StorageOption) SlotStorage[T] {
	cfg := storageOptions{
		capacity: Config.defaultArrayCapacity,
		pageSize: Config.defaultPageSize,
		growth:   Config.arrayGrowthFactor,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	switch shape {
	case ShapePaged:
		return newPagedStorage[T](cfg.pageSize)
	default:
		return newArrayStorage[T](cfg.capacity, cfg.growth)
	}
}

// CreateSiblingStorage constructs a storage of the same shape and capacity
// parameters as existing, but for payload type U. Used when an archetype
// split needs to add an adjacent column without hard-coding storage choice,
// per spec.md §4.1.
func CreateSiblingStorage[T, U any](existing SlotStorage[T], opts ...StorageOption) SlotStorage[U] {
	return NewSlotStorage[U](existing.Shape(), opts...)
}

// StorageOption configures NewSlotStorage / CreateSiblingStorage.
type StorageOption func(*storageOptions)

type storageOptions struct {
	capacity uint32
	pageSize uint32
	growth   float64
}

// WithCapacity sets the initial capacity for an array-shaped storage.
func WithCapacity(n uint32) StorageOption {
	return func(o *storageOptions) { o.capacity = n }
}

// WithPageSize sets the page size for a paged-shaped storage.
func WithPageSize(n uint32) StorageOption {
	return func(o *storageOptions) { o.pageSize = n }
}

// WithGrowthFactor overrides the geometric growth factor for an
// array-shaped storage.
func WithGrowthFactor(f float64) StorageOption {
	return func(o *storageOptions) { o.growth = f }
}
