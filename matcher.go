package foundry

import "github.com/TheBitDrifter/mask"

// Matcher is a pure, cheap predicate over an archetype's signature.
// Grounded in warehouse/query.go's Query/QueryNode tree, rebuilt around
// ArchetypeSignature bit tests instead of per-Evaluate Storage.RowIndexFor
// lookups, since a World now assigns bits once via RegisterComponent.
type Matcher interface {
	Match(archetype Archetype) bool
}

type matcherFunc func(Archetype) bool

func (f matcherFunc) Match(a Archetype) bool { return f(a) }

// noneMatcher and anyMatcher are distinct named types (rather than
// matcherFunc closures) so the system engine can recognize None
// specifically via a type assertion — Matcher values built from func types
// are not comparable with ==, so IsNone below cannot rely on equality.
type noneMatcher struct{}

func (noneMatcher) Match(Archetype) bool { return false }

type anyMatcher struct{}

func (anyMatcher) Match(Archetype) bool { return true }

// None never matches any archetype. A system registered with None (or no
// Matcher at all) is Passive, per spec.md §7.
var None Matcher = noneMatcher{}

// Any matches every archetype unconditionally.
var Any Matcher = anyMatcher{}

// IsNone reports whether m is nil or the None sentinel — the condition
// spec.md §7 uses to classify a system as Passive.
func IsNone(m Matcher) bool {
	if m == nil {
		return true
	}
	_, ok := m.(noneMatcher)
	return ok
}

// Has returns a Matcher selecting archetypes whose signature contains every
// one of the given component types. Component types not yet registered on w
// are assigned a bit on the spot, mirroring
// warehouse/storage.go's lazy schema.Register.
func Has(w *World, types ...ComponentType) Matcher {
	var sig mask.Mask
	for _, t := range types {
		sig.Mark(w.bitFor(t))
	}
	return matcherFunc(func(a Archetype) bool {
		return a.Signature().ContainsAll(sig)
	})
}

// HasAny returns a Matcher selecting archetypes whose signature contains at
// least one of the given component types.
func HasAny(w *World, types ...ComponentType) Matcher {
	var sig mask.Mask
	for _, t := range types {
		sig.Mark(w.bitFor(t))
	}
	return matcherFunc(func(a Archetype) bool {
		return a.Signature().ContainsAny(sig)
	})
}

// And returns a Matcher that matches an archetype only when every one of
// matchers does.
func And(matchers ...Matcher) Matcher {
	cp := append([]Matcher(nil), matchers...)
	return matcherFunc(func(a Archetype) bool {
		for _, m := range cp {
			if !m.Match(a) {
				return false
			}
		}
		return true
	})
}

// Or returns a Matcher that matches an archetype when at least one of
// matchers does.
func Or(matchers ...Matcher) Matcher {
	cp := append([]Matcher(nil), matchers...)
	return matcherFunc(func(a Archetype) bool {
		for _, m := range cp {
			if m.Match(a) {
				return true
			}
		}
		return false
	})
}

// Not returns a Matcher that inverts m.
func Not(m Matcher) Matcher {
	return matcherFunc(func(a Archetype) bool { return !m.Match(a) })
}
