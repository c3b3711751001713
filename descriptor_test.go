package foundry

import "testing"

func TestEntityDescriptorOrderIsStableRegardlessOfInputOrder(t *testing.T) {
	a := ComponentTypeOf[intA]()
	b := ComponentTypeOf[intB]()
	c := ComponentTypeOf[intC]()

	d1 := newEntityDescriptor([]ComponentType{a, b, c})
	d2 := newEntityDescriptor([]ComponentType{c, a, b})

	if d1.Len() != 3 || d2.Len() != 3 {
		t.Fatalf("want 3 columns in each, got %d and %d", d1.Len(), d2.Len())
	}
	for i := range d1.Types() {
		if d1.Types()[i] != d2.Types()[i] {
			t.Fatalf("descriptors built from permuted input must agree on column order at index %d: %v vs %v", i, d1.Types()[i], d2.Types()[i])
		}
	}
}

func TestEntityDescriptorDropsDuplicateTypes(t *testing.T) {
	a := ComponentTypeOf[intA]()
	d := newEntityDescriptor([]ComponentType{a, a})
	if d.Len() != 1 {
		t.Fatalf("want duplicate component types collapsed to 1 column, got %d", d.Len())
	}
}

func TestEntityDescriptorIndexOf(t *testing.T) {
	a := ComponentTypeOf[intA]()
	b := ComponentTypeOf[intB]()
	d := newEntityDescriptor([]ComponentType{a, b})

	if _, ok := d.indexOf(ComponentTypeOf[intC]()); ok {
		t.Fatal("indexOf for an absent component type should report false")
	}
	if _, ok := d.indexOf(a); !ok {
		t.Fatal("indexOf for a present component type should report true")
	}
}
