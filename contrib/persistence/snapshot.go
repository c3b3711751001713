package persistence

import (
	"encoding/binary"
	"fmt"

	"github.com/foundry-ecs/foundry"
)

// EncodeFunc turns one live entity into an opaque blob a SnapshotStore can
// persist. foundry never looks inside the blob — the host program owns its
// own component layout, per the package doc's "opaque snapshot" framing.
type EncodeFunc func(foundry.EntityRef) ([]byte, error)

// DecodeFunc is the inverse of EncodeFunc, applied to an entity freshly
// created on the host passed to LoadHost.
type DecodeFunc func(foundry.EntityRef, []byte) error

// SaveWorld persists every live entity across hosts under one SnapshotStore
// key per (archetype id, slot index, slot generation), per SPEC_FULL.md's
// "one Badger key per (archetype id, slot)" snapshot layout: foundry
// supplies the stable enumeration (Host.ID, EntityRef.Slot) and the KV
// plumbing, a host program supplies encode.
func SaveWorld(store SnapshotStore, hosts []*foundry.Host, encode EncodeFunc) error {
	for _, host := range hosts {
		for ref := range host.Entities() {
			blob, err := encode(ref)
			if err != nil {
				return fmt.Errorf("persistence: encoding %s: %w", ref, err)
			}
			if err := store.Save(string(snapshotKey(host.ID(), ref.Slot())), blob); err != nil {
				return fmt.Errorf("persistence: saving %s: %w", ref, err)
			}
		}
	}
	return nil
}

// LoadHost restores every snapshot key belonging to host, allocating one
// fresh entity per key and handing its blob to decode. Slot indices are not
// guaranteed to match the entities' original slots — a snapshot restore is a
// repopulation of the archetype, not a slot-for-slot replay.
func LoadHost(store SnapshotStore, host *foundry.Host, keys []SlotKey, decode DecodeFunc) error {
	for _, key := range keys {
		blob, err := store.Load(string(snapshotKey(host.ID(), key.toSlot())))
		if err != nil {
			return fmt.Errorf("persistence: loading archetype %d slot %d: %w", host.ID(), key.Index, err)
		}
		ref, err := host.CreateOne()
		if err != nil {
			return fmt.Errorf("persistence: recreating entity for archetype %d slot %d: %w", host.ID(), key.Index, err)
		}
		if err := decode(ref, blob); err != nil {
			return fmt.Errorf("persistence: decoding archetype %d slot %d: %w", host.ID(), key.Index, err)
		}
	}
	return nil
}

// SlotKey is the (index, generation) half of a snapshot key, exported so a
// host program can enumerate what it previously saved (e.g. from its own
// bookkeeping) without reaching into foundry internals.
type SlotKey struct {
	Index      uint32
	Generation uint32
}

func (k SlotKey) toSlot() foundry.Slot {
	return foundry.NewSlot(k.Index, k.Generation)
}

// snapshotKey packs (archetype id, slot index, slot generation) into a fixed
// 12-byte big-endian key, giving each (archetype, slot) pair exactly one
// Badger key the way SPEC_FULL.md's persistence section describes.
func snapshotKey(archetype foundry.ArchetypeID, slot foundry.Slot) []byte {
	key := make([]byte, 12)
	binary.BigEndian.PutUint32(key[0:4], uint32(archetype))
	binary.BigEndian.PutUint32(key[4:8], slot.Index())
	binary.BigEndian.PutUint32(key[8:12], slot.Generation())
	return key
}
