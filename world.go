package foundry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// World is the top-level container spec.md §5 describes: one Dispatcher,
// one Host per distinct archetype, a registry mapping component types to
// signature bits, and a cache of descriptors keyed by archetype signature so
// two archetypes with the same component set always share one
// EntityDescriptor. Grounded in warehouse/storage.go's storage struct
// (archetypes + schema), split into foundry's own Host-per-archetype model.
type World struct {
	id         uuid.UUID
	dispatcher *Dispatcher
	logger     zerolog.Logger

	mu sync.RWMutex

	nextArchetypeID ArchetypeID
	hostsBySig      map[ArchetypeSignature]*Host
	hostsByID       map[ArchetypeID]*Host

	bits            map[ComponentType]uint32
	nextBit         uint32
	columnFactories map[ComponentType]func() hostColumn

	descriptors map[ArchetypeSignature]*EntityDescriptor

	queryViews []*QueryView

	addons map[reflect.Type]any

	disposed bool
}

// WorldOption configures NewWorld. Go has no config-file/env layer for an
// embedded library like this one, so configuration is the teacher's
// functional-options idiom throughout, not a parsed file.
type WorldOption func(*World)

// WithLogger attaches a zerolog.Logger to the world; archetype creation is
// logged at Debug level. Defaults to zerolog.Nop(), matching
// the teacher's convention of silent-by-default logging.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) { w.logger = logger }
}

// NewWorld constructs an empty World: no archetypes, no registered
// components, a fresh Dispatcher.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		id:              uuid.New(),
		dispatcher:      newDispatcher(),
		logger:          zerolog.Nop(),
		hostsBySig:      make(map[ArchetypeSignature]*Host),
		hostsByID:       make(map[ArchetypeID]*Host),
		bits:            make(map[ComponentType]uint32),
		columnFactories: make(map[ComponentType]func() hostColumn),
		descriptors:     make(map[ArchetypeSignature]*EntityDescriptor),
		addons:          make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ID returns this world's unique identifier.
func (w *World) ID() uuid.UUID { return w.id }

// Dispatcher returns this world's event bus.
func (w *World) Dispatcher() *Dispatcher { return w.dispatcher }

// RegisterComponent assigns component T a signature bit and a column
// factory, both idempotent: calling it more than once for the same T is a
// no-op beyond the first call. Mirrors warehouse/storage.go's
// schema.Register(component) done lazily on first use inside
// NewOrExistingArchetype.
func RegisterComponent[T any](w *World, shape StorageShape, opts ...StorageOption) ComponentHandle[T] {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := ComponentTypeOf[T]()
	if _, ok := w.bits[t]; !ok {
		w.bits[t] = w.nextBit
		w.nextBit++
		w.columnFactories[t] = func() hostColumn {
			return newHostColumn[T](NewSlotStorage[T](shape, opts...))
		}
	}
	return ComponentHandle[T]{ComponentType: t}
}

func (w *World) bitFor(t ComponentType) uint32 {
	if bit, ok := w.bits[t]; ok {
		return bit
	}
	// A component used without an explicit RegisterComponent call still
	// gets a bit, lazily, the way warehouse/storage.go's schema.Register
	// auto-assigns rows on first archetype use. It gets no column factory:
	// building a host that carries it panics (see defaultColumnFactory).
	bit := w.nextBit
	w.nextBit++
	w.bits[t] = bit
	return bit
}

// HostFor returns (creating if necessary) the Host whose archetype carries
// exactly the given component types, regardless of argument order. Mirrors
// warehouse/storage.go's NewOrExistingArchetype.
func (w *World) HostFor(types ...ComponentType) (*Host, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hostForLocked(types)
}

func (w *World) hostForLocked(types []ComponentType) (*Host, error) {
	for _, t := range types {
		if _, ok := w.bits[t]; !ok {
			w.bitFor(t)
		}
	}
	sig := signatureFor(types, func(t ComponentType) uint32 { return w.bits[t] })

	if host, ok := w.hostsBySig[sig]; ok {
		return host, nil
	}

	descriptor, ok := w.descriptors[sig]
	if !ok {
		descriptor = newEntityDescriptor(types)
		w.descriptors[sig] = descriptor
	}

	columns := make([]hostColumn, descriptor.Len())
	for i, t := range descriptor.Types() {
		factory, ok := w.columnFactories[t]
		if !ok {
			factory = w.defaultColumnFactory(t)
		}
		columns[i] = factory()
	}

	w.nextArchetypeID++
	arch := newArchetype(w.nextArchetypeID, sig)
	host := newHost(w, arch, descriptor, columns)
	w.hostsBySig[sig] = host
	w.hostsByID[arch.ID()] = host
	for _, v := range w.queryViews {
		v.noteHostCreated(host)
	}

	componentsLogged := "<none>"
	if types := descriptor.Types(); len(types) > 0 {
		componentsLogged = types[0].String()
	}
	w.logger.Debug().
		Uint32("archetype", uint32(arch.ID())).
		Str("components", componentsLogged).
		Msg("archetype created")

	return host, nil
}

// defaultColumnFactory builds a generic column factory for a component type
// that was never explicitly registered via RegisterComponent[T]. Since T
// isn't known at this point (only its reflect.Type, erased into
// ComponentType), this is grounded on the same lazy-schema-registration
// idea as warehouse/storage.go, but can only go as far as reflection
// allows: it panics if ever invoked, steering callers toward
// RegisterComponent[T] for any type actually used as a column. Host
// construction above always prefers a real factory when one is registered;
// this exists purely so an unregistered type produces a clear panic instead
// of a nil dereference.
func (w *World) defaultColumnFactory(t ComponentType) func() hostColumn {
	return func() hostColumn {
		panic(fmt.Sprintf("foundry: component %s used in an archetype but never registered via RegisterComponent", t))
	}
}

// Query returns every Host whose archetype satisfies matcher.
func (w *World) Query(matcher Matcher) []*Host {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var matched []*Host
	for _, host := range w.hostsBySig {
		if matcher.Match(host.Archetype()) {
			matched = append(matched, host)
		}
	}
	return matched
}

// ClearEmptyHosts removes every Host with zero live entities from the
// world's registry. Hosts are cheap to recreate (HostFor memoizes by
// signature and reuses the cached descriptor), so this is a purely
// bookkeeping operation, not a correctness requirement.
func (w *World) ClearEmptyHosts() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	for sig, host := range w.hostsBySig {
		if host.Count() == 0 {
			delete(w.hostsBySig, sig)
			delete(w.hostsByID, host.ID())
			for _, v := range w.queryViews {
				v.noteHostRemoved(host)
			}
			removed++
		}
	}
	return removed
}

// Send dispatches event through the world's Dispatcher, targeting target.
func (w *World) Send(target EntityRef, event any) {
	w.dispatcher.Send(target, event)
}

// Count returns the total number of live entities across every host in the
// world. Computed on demand from each host's own Count rather than tracked
// as a separate running counter, so it can never drift from reality.
func (w *World) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	total := 0
	for _, host := range w.hostsBySig {
		total += host.Count()
	}
	return total
}

// Add creates one new entity on host and forwards it through the
// dispatcher as EntityAdded (Host.Create already does the dispatch; Add is
// the World-facing entry point spec.md §5 names). Mirrors
// warehouse/storage.go's NewEntities, generalized to the (world, host) pair.
func (w *World) Add(host *Host) (EntityRef, error) {
	return host.CreateOne()
}

// Remove destroys target, cascading to its descendants (see Host.Release),
// and lets the host's own EntityRemoved dispatch fire before the slot is
// reclaimed.
func (w *World) Remove(target EntityRef) error {
	if target.host == nil {
		return InvalidSlotError{Slot: target.slot}
	}
	return target.host.Release(target)
}

// Modify executes cmd against target — a TargetCommand or WorldCommand,
// optionally a PoolableCommand released after execution — then sends cmd
// itself as a command-typed event for target, per spec.md §5's "Modify
// executes the command... then sends a command-typed event for the same
// target." Fails with InvalidSlotError, without executing cmd, if target is
// not a live entity.
func (w *World) Modify(target EntityRef, cmd any) error {
	if !target.Valid() {
		return InvalidSlotError{Slot: target.slot}
	}
	if err := executeCommand(w, target, cmd); err != nil {
		return err
	}
	w.dispatcher.Send(target, cmd)
	return nil
}

// Dispose releases every host's entities and marks the world as disposed.
// A second Dispose returns ObjectDisposedError; other World operations do
// not check the disposed flag. Sends Disposed once, after every host is
// cleared; the dispatcher itself stays usable afterwards.
func (w *World) Dispose() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disposed {
		return ObjectDisposedError{What: "world"}
	}

	for _, host := range w.hostsBySig {
		for ref := range host.Entities() {
			if err := host.Release(ref); err != nil {
				return err
			}
		}
	}
	w.hostsBySig = make(map[ArchetypeSignature]*Host)
	w.hostsByID = make(map[ArchetypeID]*Host)
	w.disposed = true

	w.dispatcher.Send(EntityRef{}, Disposed{})
	return nil
}

// Disposed reports whether Dispose has already run.
func (w *World) Disposed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.disposed
}

// AcquireAddon returns the addon of type T registered on w, constructing it
// with newFn on first use. Mirrors the common ECS-framework "world addon"
// idiom for attaching cross-cutting singletons (a physics space, an asset
// cache) without growing World's own fields per feature.
func AcquireAddon[T any](w *World, newFn func() T) T {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := reflect.TypeFor[T]()
	if existing, ok := w.addons[t]; ok {
		return existing.(T)
	}
	created := newFn()
	w.addons[t] = created
	return created
}

// GetAddon returns the addon of type T previously installed via
// AcquireAddon, and whether it exists.
func GetAddon[T any](w *World) (T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var zero T
	t := reflect.TypeFor[T]()
	existing, ok := w.addons[t]
	if !ok {
		return zero, false
	}
	return existing.(T), true
}
