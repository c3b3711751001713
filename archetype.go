package foundry

import "github.com/TheBitDrifter/mask"

// ArchetypeID uniquely identifies an archetype within a single World.
// Mirrors the teacher's archetypeID, now assigned by World instead of a
// package-global storage instance.
type ArchetypeID uint32

// ArchetypeSignature is the bitset identity of an archetype: one bit per
// registered component type, exactly as warehouse/query.go and
// warehouse/storage.go use mask.Mask to key their archetype registries.
type ArchetypeSignature = mask.Mask

// Archetype is the read-only identity of one component composition: its ID
// and signature. A World owns exactly one Host per Archetype.
type Archetype interface {
	ID() ArchetypeID
	Signature() ArchetypeSignature
}

type archetype struct {
	id        ArchetypeID
	signature ArchetypeSignature
}

func newArchetype(id ArchetypeID, signature ArchetypeSignature) archetype {
	return archetype{id: id, signature: signature}
}

func (a archetype) ID() ArchetypeID { return a.id }

func (a archetype) Signature() ArchetypeSignature { return a.signature }

// signatureFor computes the ArchetypeSignature for a set of component
// types, given a bit-assignment function (typically a World's component
// registry). Mirrors warehouse/storage.go's entityMask construction in
// NewOrExistingArchetype/NewEntities.
func signatureFor(types []ComponentType, bitFor func(ComponentType) uint32) ArchetypeSignature {
	var sig mask.Mask
	for _, t := range types {
		sig.Mark(bitFor(t))
	}
	return sig
}
