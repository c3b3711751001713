package foundry

import (
	"iter"

	"github.com/TheBitDrifter/bark"
)

// pagedStorage is the sparse-paged shape of SlotStorage: capacity is
// partitioned into fixed-size pages allocated on demand, with a
// sparse-index -> dense-position mapping giving O(1) allocate/release and
// O(allocated) iteration without scanning gaps. Grounded in
// edwinsyarief-lazyecs' page-oriented sparse-set bookkeeping.
type pagedStorage[T any] struct {
	pageSize uint32
	pages    [][]T

	sparse      []uint32 // slot index -> dense position, or sentinel if absent
	generations []uint32 // slot index -> current generation
	dense       []uint32 // dense position -> slot index

	freeList  []uint32
	nextIndex uint32
	lockCount int
}

const sparseAbsent = ^uint32(0)

var _ SlotStorage[struct{}] = &pagedStorage[struct{}]{}

func newPagedStorage[T any](pageSize uint32) *pagedStorage[T] {
	if pageSize == 0 {
		pageSize = 256
	}
	return &pagedStorage[T]{pageSize: pageSize}
}

func (s *pagedStorage[T]) Shape() StorageShape { return ShapePaged }

func (s *pagedStorage[T]) pageFor(idx uint32) ([]T, uint32) {
	page := idx / s.pageSize
	offset := idx % s.pageSize
	for uint32(len(s.pages)) <= page {
		s.pages = append(s.pages, make([]T, s.pageSize))
	}
	return s.pages[page], offset
}

func (s *pagedStorage[T]) cellRef(idx uint32) *T {
	page, offset := s.pageFor(idx)
	return &page[offset]
}

func (s *pagedStorage[T]) AllocateSlot() (Slot, error) {
	var zero T
	return s.AllocateSlotWithValue(zero)
}

func (s *pagedStorage[T]) AllocateSlotWithValue(value T) (Slot, error) {
	if s.Locked() && len(s.freeList) == 0 && s.nextIndex >= uint32(len(s.pages))*s.pageSize {
		return Slot{}, LockedStorageError{}
	}

	var idx uint32
	if n := len(s.freeList); n > 0 {
		idx = s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
	} else {
		idx = s.nextIndex
		s.nextIndex++
	}

	for uint32(len(s.sparse)) <= idx {
		s.sparse = append(s.sparse, sparseAbsent)
		s.generations = append(s.generations, 0)
	}

	densePos := uint32(len(s.dense))
	s.dense = append(s.dense, idx)
	s.sparse[idx] = densePos
	*s.cellRef(idx) = value

	return Slot{index: idx, generation: s.generations[idx]}, nil
}

func (s *pagedStorage[T]) AllocateAt(slot Slot, value T) error {
	idx := slot.index
	for uint32(len(s.sparse)) <= idx {
		s.sparse = append(s.sparse, sparseAbsent)
		s.generations = append(s.generations, 0)
	}
	if s.sparse[idx] != sparseAbsent {
		return InvalidSlotError{Slot: slot}
	}
	for i, free := range s.freeList {
		if free == idx {
			s.freeList = append(s.freeList[:i], s.freeList[i+1:]...)
			break
		}
	}
	if idx >= s.nextIndex {
		s.nextIndex = idx + 1
	}
	densePos := uint32(len(s.dense))
	s.dense = append(s.dense, idx)
	s.sparse[idx] = densePos
	s.generations[idx] = slot.generation
	*s.cellRef(idx) = value
	return nil
}

func (s *pagedStorage[T]) Release(slot Slot) error {
	if !s.IsValid(slot) {
		return InvalidSlotError{Slot: slot}
	}
	densePos := s.sparse[slot.index]
	lastPos := uint32(len(s.dense)) - 1
	lastIdx := s.dense[lastPos]

	s.dense[densePos] = lastIdx
	s.sparse[lastIdx] = densePos
	var zero T
	*s.cellRef(slot.index) = zero

	s.dense = s.dense[:lastPos]
	s.sparse[slot.index] = sparseAbsent
	s.generations[slot.index]++
	s.freeList = append(s.freeList, slot.index)
	return nil
}

func (s *pagedStorage[T]) IsValid(slot Slot) bool {
	if int(slot.index) >= len(s.sparse) {
		return false
	}
	return s.sparse[slot.index] != sparseAbsent && s.generations[slot.index] == slot.generation
}

func (s *pagedStorage[T]) GetRef(slot Slot) (*T, error) {
	if !s.IsValid(slot) {
		return nil, InvalidSlotError{Slot: slot}
	}
	return s.cellRef(slot.index), nil
}

func (s *pagedStorage[T]) UnsafeGetRef(slot Slot) *T {
	if int(slot.index) >= len(s.sparse) || s.sparse[slot.index] == sparseAbsent {
		panic(bark.AddTrace(InvalidSlotError{Slot: slot}))
	}
	return s.cellRef(slot.index)
}

func (s *pagedStorage[T]) Fetch(slots []Slot) ([]T, error) {
	out := make([]T, len(slots))
	for i, slot := range slots {
		ref, err := s.GetRef(slot)
		if err != nil {
			return nil, err
		}
		out[i] = *ref
	}
	return out, nil
}

func (s *pagedStorage[T]) Write(slots []Slot, values []T) error {
	if len(slots) != len(values) {
		panic(bark.AddTrace(errLenMismatch))
	}
	for i, slot := range slots {
		ref, err := s.GetRef(slot)
		if err != nil {
			return err
		}
		*ref = values[i]
	}
	return nil
}

func (s *pagedStorage[T]) AllocatedSlots() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for _, idx := range s.dense {
			if !yield(Slot{index: idx, generation: s.generations[idx]}) {
				return
			}
		}
	}
}

func (s *pagedStorage[T]) Count() int {
	return len(s.dense)
}

func (s *pagedStorage[T]) Lock()        { s.lockCount++ }
func (s *pagedStorage[T]) Unlock()      { s.lockCount-- }
func (s *pagedStorage[T]) Locked() bool { return s.lockCount > 0 }
