package foundry

import "reflect"

// pendingGroup is the entity set a reactive System's thunk iterates: built
// and maintained by event subscriptions installed at registration time
// rather than recomputed from a live query each tick.
type pendingGroup struct {
	members map[EntityRef]bool
}

func newPendingGroup() *pendingGroup {
	return &pendingGroup{members: make(map[EntityRef]bool)}
}

func (g *pendingGroup) add(e EntityRef)    { g.members[e] = true }
func (g *pendingGroup) remove(e EntityRef) { delete(g.members, e) }

func (g *pendingGroup) snapshot() []EntityRef {
	out := make([]EntityRef, 0, len(g.members))
	for e := range g.members {
		out = append(out, e)
	}
	return out
}

// registration is the bookkeeping Register keeps per live System: its task
// node, any dispatcher listeners it installed, and its own registered
// children, so Dispose can tear all of it down again in the right order.
type registration struct {
	system      System
	node        *TaskNode
	listenerIDs []ListenerID
	children    []*registration
}

// SystemHandle is returned by Register. Disposing it unregisters the
// system, removes its EntityAdded/EntityRemoved listeners, disposes its
// children in reverse registration order, and removes its task node. The
// per-entity Trigger/Filter listeners a reactive system attached to live
// entities are not removed by Dispose; they stay until those entities are
// released.
type SystemHandle struct {
	world     *World
	scheduler *Scheduler
	reg       *registration
	disposed  bool
}

// Register wires system onto the (world, scheduler) pair: resolves its
// Dependencies into task-graph predecessors, classifies it as Passive,
// query-driven, or reactive per spec.md §4.7, creates its task node,
// recursively registers its Children with this task as an additional
// predecessor, and returns a disposable handle.
func Register(world *World, scheduler *Scheduler, system System) (*SystemHandle, error) {
	if scheduler.registered == nil {
		scheduler.registered = make(map[System]*registration)
	}
	if _, ok := scheduler.registered[system]; ok {
		return nil, SystemAlreadyRegisteredError{System: system}
	}

	reg, err := registerOne(world, scheduler, system)
	if err != nil {
		return nil, err
	}
	return &SystemHandle{world: world, scheduler: scheduler, reg: reg}, nil
}

func registerOne(world *World, scheduler *Scheduler, system System, extraPredecessors ...*TaskNode) (*registration, error) {
	predecessors := append([]*TaskNode(nil), extraPredecessors...)
	for _, dep := range system.Dependencies() {
		depReg, ok := scheduler.registered[dep]
		if !ok {
			return nil, InvalidSystemDependencyError{System: system, Dependency: dep}
		}
		predecessors = append(predecessors, depReg.node)
	}

	reg := &registration{system: system}
	matcher := system.Matcher()
	reactive, isReactive := system.(Reactive)
	hasTriggerOrFilter := isReactive && (len(reactive.Trigger()) > 0 || len(reactive.Filter()) > 0)

	var thunk func(*World, *Scheduler) bool
	switch {
	case hasTriggerOrFilter:
		if IsNone(matcher) {
			return nil, InvalidSystemAttributeError{System: system, Reason: "a Trigger or Filter requires a non-None Matcher"}
		}
		if len(reactive.Trigger()) == 0 {
			return nil, InvalidSystemAttributeError{System: system, Reason: "a Filter requires a Trigger"}
		}
		group := newPendingGroup()
		reg.listenerIDs = wireReactive(world, matcher, reactive, group)
		thunk = reactiveThunk(system, group)

	case !IsNone(matcher):
		thunk = queryDrivenThunk(system, matcher)

	default:
		thunk = nil
	}

	node, err := scheduler.CreateTask(thunk, predecessors...)
	if err != nil {
		teardownListeners(world, reg.listenerIDs)
		return nil, err
	}
	reg.node = node
	scheduler.registered[system] = reg

	for _, child := range system.Children() {
		childReg, err := registerOne(world, scheduler, child, node)
		if err != nil {
			for i := len(reg.children) - 1; i >= 0; i-- {
				disposeRegistration(world, scheduler, reg.children[i])
			}
			disposeRegistration(world, scheduler, reg)
			return nil, InvalidSystemChildError{Parent: system, Child: child, Cause: err}
		}
		reg.children = append(reg.children, childReg)
	}

	return reg, nil
}

func queryDrivenThunk(system System, matcher Matcher) func(*World, *Scheduler) bool {
	executor, hasExecutor := system.(Executor)
	before, hasBefore := system.(BeforeExecuter)
	after, hasAfter := system.(AfterExecuter)

	return func(world *World, scheduler *Scheduler) bool {
		if hasBefore {
			if err := before.BeforeExecute(world, scheduler); err != nil {
				panic(err)
			}
		}
		if hasExecutor {
			hosts := world.Query(matcher)
			for ref := range Entities(hosts) {
				if err := executor.Execute(world, scheduler, ref); err != nil {
					panic(err)
				}
			}
		}
		if hasAfter {
			if err := after.AfterExecute(world, scheduler); err != nil {
				panic(err)
			}
		}
		return false
	}
}

func reactiveThunk(system System, group *pendingGroup) func(*World, *Scheduler) bool {
	executor, hasExecutor := system.(Executor)
	before, hasBefore := system.(BeforeExecuter)
	after, hasAfter := system.(AfterExecuter)

	return func(world *World, scheduler *Scheduler) bool {
		if hasBefore {
			if err := before.BeforeExecute(world, scheduler); err != nil {
				panic(err)
			}
		}
		if hasExecutor {
			for _, ref := range group.snapshot() {
				if !ref.Valid() {
					continue
				}
				if err := executor.Execute(world, scheduler, ref); err != nil {
					panic(err)
				}
			}
		}
		if hasAfter {
			if err := after.AfterExecute(world, scheduler); err != nil {
				panic(err)
			}
		}
		return false
	}
}

// wireReactive installs the two listeners a reactive system's pending
// group needs: a per-type listener on EntityAdded that, for every newly
// created entity matching matcher, attaches per-entity Trigger/Filter
// listeners to that one entity; and a per-type listener on
// EntityRemoved that evicts the entity from the group. Per-entity listener
// teardown on release is handled already by Host.Release's call to
// Dispatcher.UnlistenAll — this only needs to keep group membership
// accurate. Grounded in spec.md §4.7's "per-entity listeners are attached
// on WorldEvents.Add... detached on WorldEvents.Remove" (the Open Question
// resolution in DESIGN.md explains why this, rather than a single
// world-global trigger listener, is the chosen model).
func wireReactive(world *World, matcher Matcher, reactive Reactive, group *pendingGroup) []ListenerID {
	triggerTypes := reactive.Trigger()
	filterTypes := reactive.Filter()

	entityAddedType := reflect.TypeOf(EntityAdded{})

	addID := ListenType(world.dispatcher, func(event EntityAdded) bool {
		entity := event.Entity
		if entity.host == nil || !matcher.Match(entity.host.Archetype()) {
			return false
		}
		// EntityAdded may itself be named as a Trigger type (spec.md §8's
		// "trigger {WorldEvents.Add, ...}" scenario). A per-entity listener
		// cannot catch this event — it fires before any such listener can be
		// attached to the entity — so membership is granted directly here.
		for _, t := range triggerTypes {
			if t == entityAddedType {
				group.add(entity)
				break
			}
		}
		for _, t := range triggerTypes {
			triggerType := t
			world.dispatcher.ListenEntity(entity, func(e any) bool {
				if reflect.TypeOf(e) == triggerType {
					group.add(entity)
				}
				return false
			})
		}
		for _, t := range filterTypes {
			filterType := t
			world.dispatcher.ListenEntity(entity, func(e any) bool {
				if reflect.TypeOf(e) == filterType {
					group.remove(entity)
				}
				return false
			})
		}
		return false
	})

	removeID := ListenType(world.dispatcher, func(event EntityRemoved) bool {
		group.remove(event.Entity)
		return false
	})

	return []ListenerID{addID, removeID}
}

func teardownListeners(world *World, ids []ListenerID) {
	for _, id := range ids {
		UnlistenType[EntityAdded](world.dispatcher, id)
		UnlistenType[EntityRemoved](world.dispatcher, id)
	}
}

// Dispose tears down handle's registration: unregisters the system,
// removes its EntityAdded/EntityRemoved listeners (not the per-entity
// listeners already attached to live entities), disposes its children in
// reverse registration order, and removes its task node. Idempotent.
func (h *SystemHandle) Dispose() error {
	if h.disposed {
		return nil
	}
	h.disposed = true
	return disposeRegistration(h.world, h.scheduler, h.reg)
}

func disposeRegistration(world *World, scheduler *Scheduler, reg *registration) error {
	for i := len(reg.children) - 1; i >= 0; i-- {
		if err := disposeRegistration(world, scheduler, reg.children[i]); err != nil {
			return err
		}
	}
	teardownListeners(world, reg.listenerIDs)
	delete(scheduler.registered, reg.system)
	if reg.node != nil {
		if err := scheduler.RemoveTask(reg.node); err != nil {
			return err
		}
	}
	return nil
}
