package foundry

import "reflect"

// ListenerID identifies a registered listener for later removal.
type ListenerID uint64

type listenerEntry struct {
	id ListenerID
	fn func(event any) bool
}

// Dispatcher is the per-world event bus described in spec.md §4.5: three
// listener registries (global, per-type, per-entity) fanned out in a
// stable order, safe to mutate mid-dispatch. Grounded in
// edwinsyarief-lazyecs' type-keyed Subscribe[T]/Publish[T] bus, generalized
// with a per-entity chain and the reentrant-safe single-pass semantics
// spec.md §4.5/§8 require.
type Dispatcher struct {
	nextID    ListenerID
	global    []listenerEntry
	perType   map[reflect.Type][]listenerEntry
	perEntity map[EntityRef][]listenerEntry
}

func newDispatcher() *Dispatcher {
	return &Dispatcher{
		perType:   make(map[reflect.Type][]listenerEntry),
		perEntity: make(map[EntityRef][]listenerEntry),
	}
}

// ListenGlobal registers fn to receive every event sent on this
// dispatcher. fn returns true to unsubscribe itself.
func (d *Dispatcher) ListenGlobal(fn func(event any) bool) ListenerID {
	id := d.allocID()
	d.global = append(d.global, listenerEntry{id: id, fn: fn})
	return id
}

// ListenType registers fn to receive every event whose runtime type is T.
func ListenType[T any](d *Dispatcher, fn func(event T) bool) ListenerID {
	id := d.allocID()
	wrapped := func(event any) bool {
		typed, ok := event.(T)
		if !ok {
			return false
		}
		return fn(typed)
	}
	t := reflect.TypeFor[T]()
	d.perType[t] = append(d.perType[t], listenerEntry{id: id, fn: wrapped})
	return id
}

// ListenEntity registers fn to receive every event sent with target as its
// entity, chained after any existing listeners for that entity.
func (d *Dispatcher) ListenEntity(target EntityRef, fn func(event any) bool) ListenerID {
	id := d.allocID()
	d.perEntity[target] = append(d.perEntity[target], listenerEntry{id: id, fn: fn})
	return id
}

func (d *Dispatcher) allocID() ListenerID {
	d.nextID++
	return d.nextID
}

// UnlistenGlobal removes a global listener by ID. No-op if already removed.
func (d *Dispatcher) UnlistenGlobal(id ListenerID) {
	d.global = removeListener(d.global, id)
}

// UnlistenType removes a per-type listener by ID.
func UnlistenType[T any](d *Dispatcher, id ListenerID) {
	t := reflect.TypeFor[T]()
	updated := removeListener(d.perType[t], id)
	if len(updated) == 0 {
		delete(d.perType, t)
	} else {
		d.perType[t] = updated
	}
}

// UnlistenEntity removes a single per-entity listener by ID.
func (d *Dispatcher) UnlistenEntity(target EntityRef, id ListenerID) {
	updated := removeListener(d.perEntity[target], id)
	if len(updated) == 0 {
		delete(d.perEntity, target)
	} else {
		d.perEntity[target] = updated
	}
}

// UnlistenAll drops every per-entity listener chained to target. Idempotent.
// Called by Host.Release after the Remove event has been delivered, so
// listeners observe that final event before being torn down, per
// spec.md §4.3/§4.5.
func (d *Dispatcher) UnlistenAll(target EntityRef) {
	delete(d.perEntity, target)
}

func removeListener(entries []listenerEntry, id ListenerID) []listenerEntry {
	for i, e := range entries {
		if e.id == id {
			return append(entries[:i:i], entries[i+1:]...)
		}
	}
	return entries
}

// Send fans event out to target's per-entity listeners, then to listeners
// of event's runtime type, then to global listeners — the order spec.md
// §4.5/§5 fixes. Listener mutations performed by a callback invoked during
// this call are safe: a listener added mid-dispatch will not observe this
// event, and a listener that removes itself (or is removed by another
// callback) still receives this event exactly once.
func (d *Dispatcher) Send(target EntityRef, event any) {
	if target.host != nil {
		d.fanOut(
			func() []listenerEntry { return d.perEntity[target] },
			func(v []listenerEntry) {
				if len(v) == 0 {
					delete(d.perEntity, target)
				} else {
					d.perEntity[target] = v
				}
			},
			event,
		)
	}

	t := reflect.TypeOf(event)
	if t != nil {
		d.fanOut(
			func() []listenerEntry { return d.perType[t] },
			func(v []listenerEntry) {
				if len(v) == 0 {
					delete(d.perType, t)
				} else {
					d.perType[t] = v
				}
			},
			event,
		)
	}

	d.fanOut(
		func() []listenerEntry { return d.global },
		func(v []listenerEntry) { d.global = v },
		event,
	)
}

// fanOut runs the reentrant-safe single-pass dispatch algorithm against one
// listener category, accessed through get/set so callers can back it with
// either a plain field (global) or a map entry (per-type, per-entity).
func (d *Dispatcher) fanOut(get func() []listenerEntry, set func([]listenerEntry), event any) {
	entries := get()
	if len(entries) == 0 {
		return
	}

	// Snapshot before running any callback: listeners appended by a
	// callback below must not observe this in-flight event.
	snapshot := append([]listenerEntry(nil), entries...)
	toRemove := make(map[ListenerID]bool)
	for _, e := range snapshot {
		if e.fn(event) {
			toRemove[e.id] = true
		}
	}
	if len(toRemove) == 0 {
		return
	}

	// Re-fetch: a callback may have appended new listeners via get/set's
	// backing storage during the pass above. Filtering the current state
	// (rather than the pre-dispatch snapshot) keeps those additions.
	current := get()
	kept := current[:0:0]
	for _, e := range current {
		if !toRemove[e.id] {
			kept = append(kept, e)
		}
	}
	set(kept)
}

// GlobalListenerCount reports how many global listeners are registered.
func (d *Dispatcher) GlobalListenerCount() int { return len(d.global) }

// TypeListenerCount reports how many listeners are registered for T.
func TypeListenerCount[T any](d *Dispatcher) int {
	return len(d.perType[reflect.TypeFor[T]()])
}

// EntityListenerCount reports how many listeners are chained to target.
func (d *Dispatcher) EntityListenerCount(target EntityRef) int {
	return len(d.perEntity[target])
}
