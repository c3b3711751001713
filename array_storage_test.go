package foundry

import "testing"

func TestArrayStorageAllocateAndRelease(t *testing.T) {
	s := NewSlotStorage[int](ShapeArray, WithCapacity(4))

	slot, err := s.AllocateSlotWithValue(42)
	if err != nil {
		t.Fatalf("AllocateSlotWithValue: %v", err)
	}
	ref, err := s.GetRef(slot)
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if *ref != 42 {
		t.Fatalf("want 42, got %d", *ref)
	}

	if err := s.Release(slot); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if s.IsValid(slot) {
		t.Fatal("slot should be invalid after Release")
	}
	if _, err := s.GetRef(slot); err == nil {
		t.Fatal("GetRef on released slot should fail")
	}
}

func TestArrayStorageGenerationPreventsStaleReuse(t *testing.T) {
	s := NewSlotStorage[string](ShapeArray)

	first, _ := s.AllocateSlotWithValue("a")
	_ = s.Release(first)

	second, err := s.AllocateSlotWithValue("b")
	if err != nil {
		t.Fatalf("AllocateSlotWithValue: %v", err)
	}
	if second.index != first.index {
		t.Fatalf("expected freelist reuse of index %d, got %d", first.index, second.index)
	}
	if second.generation == first.generation {
		t.Fatal("reused slot must carry a newer generation")
	}
	if s.IsValid(first) {
		t.Fatal("stale slot handle must not validate against the reused cell")
	}
}

func TestArrayStorageAllocateAtAlignsWithExternalSlot(t *testing.T) {
	s := NewSlotStorage[int](ShapeArray)
	canonical := Slot{index: 3, generation: 7}

	if err := s.AllocateAt(canonical, 99); err != nil {
		t.Fatalf("AllocateAt: %v", err)
	}
	if !s.IsValid(canonical) {
		t.Fatal("slot should be valid after AllocateAt")
	}
	ref, err := s.GetRef(canonical)
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if *ref != 99 {
		t.Fatalf("want 99, got %d", *ref)
	}

	if err := s.AllocateAt(canonical, 1); err == nil {
		t.Fatal("AllocateAt on an already-allocated slot should fail")
	}
}

func TestArrayStorageFetchAndWrite(t *testing.T) {
	s := NewSlotStorage[int](ShapeArray)
	var slots []Slot
	for i := 0; i < 3; i++ {
		slot, _ := s.AllocateSlotWithValue(i)
		slots = append(slots, slot)
	}

	values, err := s.Fetch(slots)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(values) != 3 || values[2] != 2 {
		t.Fatalf("unexpected fetch result: %v", values)
	}

	if err := s.Write(slots, []int{10, 20, 30}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	ref, _ := s.GetRef(slots[1])
	if *ref != 20 {
		t.Fatalf("want 20, got %d", *ref)
	}
}

func TestArrayStorageHonorsGrowthFactor(t *testing.T) {
	storage := NewSlotStorage[int](ShapeArray, WithCapacity(2), WithGrowthFactor(3))
	s, ok := storage.(*arrayStorage[int])
	if !ok {
		t.Fatalf("want *arrayStorage[int], got %T", storage)
	}

	for i := 0; i < 2; i++ {
		if _, err := s.AllocateSlot(); err != nil {
			t.Fatalf("AllocateSlot: %v", err)
		}
	}
	if cap(s.values) != 2 {
		t.Fatalf("want initial capacity 2, got %d", cap(s.values))
	}

	if _, err := s.AllocateSlot(); err != nil {
		t.Fatalf("AllocateSlot (triggers growth): %v", err)
	}
	if cap(s.values) != 6 {
		t.Fatalf("want capacity to grow to initial*growth = 6, got %d", cap(s.values))
	}
}

func TestArrayStorageLockRejectsGrowth(t *testing.T) {
	s := NewSlotStorage[int](ShapeArray, WithCapacity(1))
	if _, err := s.AllocateSlot(); err != nil {
		t.Fatalf("AllocateSlot: %v", err)
	}
	s.Lock()
	defer s.Unlock()

	if _, err := s.AllocateSlot(); err == nil {
		t.Fatal("expected LockedStorageError when storage must grow while locked")
	}
}
