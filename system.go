package foundry

import "reflect"

// System is the read-only configuration object Register wires onto a
// (world, scheduler) pair, per spec.md §4.7/§7: which entities it cares
// about, what it depends on, and what nests under it. Matcher, Dependencies,
// and Children may all return nil/empty — a System with an empty or None
// Matcher and no Trigger/Filter is Passive.
type System interface {
	Matcher() Matcher
	Dependencies() []System
	Children() []System
}

// Executor is implemented by any query-driven or reactive System: the
// per-entity work its task's thunk performs once per tick, for every
// entity currently in its live query or pending group.
type Executor interface {
	Execute(world *World, scheduler *Scheduler, entity EntityRef) error
}

// BeforeExecuter is an optional hook run once per tick before a system's
// per-entity Execute calls.
type BeforeExecuter interface {
	BeforeExecute(world *World, scheduler *Scheduler) error
}

// AfterExecuter is an optional hook run once per tick after a system's
// per-entity Execute calls.
type AfterExecuter interface {
	AfterExecute(world *World, scheduler *Scheduler) error
}

// Reactive is implemented by a System whose pending group is built from
// events rather than recomputed from the live query each tick: Trigger
// names the event types that add a matching entity to the group, Filter
// the event types that remove it. A System implementing Reactive with a
// non-empty Trigger is registered in reactive mode, per spec.md §4.7; a
// non-empty Filter with an empty Trigger fails registration with
// InvalidSystemAttributeError.
type Reactive interface {
	Trigger() []reflect.Type
	Filter() []reflect.Type
}

// BaseSystem is an embeddable zero-value implementation of System's
// read-only configuration, for systems that need neither dependencies nor
// children. Mirrors the common "embed a default, override what you need"
// idiom — most systems in a world only care about Matcher.
type BaseSystem struct{}

func (BaseSystem) Dependencies() []System { return nil }
func (BaseSystem) Children() []System     { return nil }
