package foundry

import (
	"errors"
	"fmt"
	"reflect"
)

// errLenMismatch is an internal invariant error: callers of Write must pass
// parallel slices of equal length.
var errLenMismatch = errors.New("foundry: slots and values must have the same length")

// ComponentNotFoundError is returned when a component lookup targets an
// archetype that does not carry that component type.
type ComponentNotFoundError struct {
	Entity    EntityRef
	Component reflect.Type
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %s does not exist on entity %v", e.Component, e.Entity)
}

// ComponentExistsError is returned by AddComponent-style operations when the
// target entity already carries the component.
type ComponentExistsError struct {
	Entity    EntityRef
	Component reflect.Type
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component %s already exists on entity %v", e.Component, e.Entity)
}

// LockedStorageError is returned by a storage's AllocateSlot or
// AllocateSlotWithValue when the storage is locked and the allocation would
// have to grow it. Release and AllocateAt do not check the lock.
type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked by an active query"
}

// InvalidSlotError is returned when a storage operation targets a slot that
// is not currently allocated (double release, stale generation, out of
// range index).
type InvalidSlotError struct {
	Slot Slot
}

func (e InvalidSlotError) Error() string {
	return fmt.Sprintf("slot %v is not valid", e.Slot)
}

// EntityRelationError is returned when SetParent is attempted on an entity
// that already has a parent.
type EntityRelationError struct {
	Child, Parent EntityRef
}

func (e EntityRelationError) Error() string {
	return fmt.Sprintf("entity %v already has a parent (%v)", e.Child, e.Parent)
}

// SystemAlreadyRegisteredError is returned by Register when the system is
// already registered onto the same (world, scheduler) pair.
type SystemAlreadyRegisteredError struct {
	System System
}

func (e SystemAlreadyRegisteredError) Error() string {
	return fmt.Sprintf("system %T is already registered", e.System)
}

// InvalidSystemDependencyError is returned when a declared dependency has no
// task node registered in the same (world, scheduler) pair.
type InvalidSystemDependencyError struct {
	System     System
	Dependency System
}

func (e InvalidSystemDependencyError) Error() string {
	return fmt.Sprintf("system %T declares dependency %T which is not registered", e.System, e.Dependency)
}

// InvalidSystemChildError is returned when a child system fails to register.
type InvalidSystemChildError struct {
	Parent System
	Child  System
	Cause  error
}

func (e InvalidSystemChildError) Error() string {
	return fmt.Sprintf("system %T failed to register child %T: %v", e.Parent, e.Child, e.Cause)
}

func (e InvalidSystemChildError) Unwrap() error { return e.Cause }

// InvalidSystemAttributeError is returned when a system declares an
// inconsistent configuration, e.g. a Filter with no Trigger.
type InvalidSystemAttributeError struct {
	System System
	Reason string
}

func (e InvalidSystemAttributeError) Error() string {
	return fmt.Sprintf("system %T has an invalid attribute configuration: %s", e.System, e.Reason)
}

// TaskDependedError is returned by RemoveTask when the node still has live
// successors.
type TaskDependedError struct {
	Node *TaskNode
}

func (e TaskDependedError) Error() string {
	return fmt.Sprintf("task %s cannot be removed: it has live successors", e.Node.id)
}

// InvalidTaskDependencyError is returned by CreateTask or AddDependency when
// a node is not already part of the graph, and by AddDependency when adding
// the edge would close a cycle.
type InvalidTaskDependencyError struct {
	Reason string
}

func (e InvalidTaskDependencyError) Error() string {
	return fmt.Sprintf("invalid task dependency: %s", e.Reason)
}

// ObjectDisposedError is returned by World.Dispose when the world has
// already been disposed. Other operations do not return it.
type ObjectDisposedError struct {
	What string
}

func (e ObjectDisposedError) Error() string {
	return fmt.Sprintf("%s has been disposed", e.What)
}
