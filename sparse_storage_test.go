package foundry

import "testing"

func TestPagedStorageAllocateAndRelease(t *testing.T) {
	s := NewSlotStorage[int](ShapePaged, WithPageSize(4))

	slot, err := s.AllocateSlotWithValue(7)
	if err != nil {
		t.Fatalf("AllocateSlotWithValue: %v", err)
	}
	ref, err := s.GetRef(slot)
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if *ref != 7 {
		t.Fatalf("want 7, got %d", *ref)
	}
	if s.Count() != 1 {
		t.Fatalf("want count 1, got %d", s.Count())
	}

	if err := s.Release(slot); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("want count 0 after release, got %d", s.Count())
	}
	if s.IsValid(slot) {
		t.Fatal("slot should be invalid after Release")
	}
}

func TestPagedStorageSparseIndexStaysConsistentAcrossPages(t *testing.T) {
	s := NewSlotStorage[int](ShapePaged, WithPageSize(2))

	var slots []Slot
	for i := 0; i < 9; i++ {
		slot, err := s.AllocateSlotWithValue(i)
		if err != nil {
			t.Fatalf("AllocateSlotWithValue(%d): %v", i, err)
		}
		slots = append(slots, slot)
	}

	// Release every other slot, forcing the dense/sparse index to shuffle.
	for i := 0; i < len(slots); i += 2 {
		if err := s.Release(slots[i]); err != nil {
			t.Fatalf("Release(%d): %v", i, err)
		}
	}

	for i := 1; i < len(slots); i += 2 {
		ref, err := s.GetRef(slots[i])
		if err != nil {
			t.Fatalf("GetRef(%d): %v", i, err)
		}
		if *ref != i {
			t.Fatalf("slot %d: want %d, got %d", i, i, *ref)
		}
	}
}

func TestPagedStorageAllocateAt(t *testing.T) {
	s := NewSlotStorage[string](ShapePaged, WithPageSize(4))
	canonical := Slot{index: 10, generation: 2}

	if err := s.AllocateAt(canonical, "aligned"); err != nil {
		t.Fatalf("AllocateAt: %v", err)
	}
	ref, err := s.GetRef(canonical)
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if *ref != "aligned" {
		t.Fatalf("want %q, got %q", "aligned", *ref)
	}

	if err := s.AllocateAt(canonical, "again"); err == nil {
		t.Fatal("AllocateAt on an already-allocated slot should fail")
	}
}

func TestPagedStorageAllocatedSlotsIteratesDenseOrder(t *testing.T) {
	s := NewSlotStorage[int](ShapePaged, WithPageSize(4))
	var want []Slot
	for i := 0; i < 5; i++ {
		slot, _ := s.AllocateSlotWithValue(i)
		want = append(want, slot)
	}
	_ = s.Release(want[1])

	var got []Slot
	for slot := range s.AllocatedSlots() {
		got = append(got, slot)
	}
	if len(got) != 4 {
		t.Fatalf("want 4 allocated slots, got %d", len(got))
	}
	// Releasing want[1] moves the last dense entry (want[4]) into its place.
	wantOrder := []Slot{want[0], want[4], want[2], want[3]}
	for i := range wantOrder {
		if got[i] != wantOrder[i] {
			t.Fatalf("want dense order %v, got %v", wantOrder, got)
		}
	}
}
