package foundry

import "testing"

type intA struct{ V int }
type intB struct{ V int }
type intC struct{ V int }

func TestMatcherHasRequiresEveryComponent(t *testing.T) {
	w := NewWorld()
	a := RegisterComponent[intA](w, ShapeArray)
	b := RegisterComponent[intB](w, ShapeArray)
	c := RegisterComponent[intC](w, ShapeArray)

	hostAB, err := w.HostFor(a.ComponentType, b.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}

	matcher := Has(w, a.ComponentType, b.ComponentType)
	if !matcher.Match(hostAB.Archetype()) {
		t.Fatal("Has(A,B) should match an archetype carrying exactly A,B")
	}

	onlyA := Has(w, a.ComponentType, c.ComponentType)
	if onlyA.Match(hostAB.Archetype()) {
		t.Fatal("Has(A,C) should not match an archetype missing C")
	}
}

func TestMatcherHasAnyRequiresAtLeastOne(t *testing.T) {
	w := NewWorld()
	a := RegisterComponent[intA](w, ShapeArray)
	b := RegisterComponent[intB](w, ShapeArray)
	c := RegisterComponent[intC](w, ShapeArray)

	hostA, err := w.HostFor(a.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}

	matcher := HasAny(w, b.ComponentType, c.ComponentType)
	if matcher.Match(hostA.Archetype()) {
		t.Fatal("HasAny(B,C) should not match an archetype carrying neither")
	}

	matcher2 := HasAny(w, a.ComponentType, c.ComponentType)
	if !matcher2.Match(hostA.Archetype()) {
		t.Fatal("HasAny(A,C) should match an archetype carrying A")
	}
}

func TestMatcherCombinators(t *testing.T) {
	w := NewWorld()
	a := RegisterComponent[intA](w, ShapeArray)
	b := RegisterComponent[intB](w, ShapeArray)

	host, err := w.HostFor(a.ComponentType, b.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}
	arch := host.Archetype()

	hasA := Has(w, a.ComponentType)
	hasB := Has(w, b.ComponentType)

	if !And(hasA, hasB).Match(arch) {
		t.Fatal("And(hasA,hasB) should match")
	}
	if !Or(hasA, None).Match(arch) {
		t.Fatal("Or(hasA,None) should match since hasA matches")
	}
	if Not(hasA).Match(arch) {
		t.Fatal("Not(hasA) should not match an archetype carrying A")
	}
}

func TestMatcherNoneAndAnySentinels(t *testing.T) {
	w := NewWorld()
	a := RegisterComponent[intA](w, ShapeArray)
	host, err := w.HostFor(a.ComponentType)
	if err != nil {
		t.Fatalf("HostFor: %v", err)
	}

	if None.Match(host.Archetype()) {
		t.Fatal("None must never match")
	}
	if !Any.Match(host.Archetype()) {
		t.Fatal("Any must always match")
	}
	if !IsNone(None) {
		t.Fatal("IsNone(None) must be true")
	}
	if !IsNone(nil) {
		t.Fatal("IsNone(nil) must be true")
	}
	if IsNone(Any) {
		t.Fatal("IsNone(Any) must be false")
	}
	if IsNone(Has(w, a.ComponentType)) {
		t.Fatal("IsNone of a real matcher must be false")
	}
}
