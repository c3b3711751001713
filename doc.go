/*
Package foundry implements an Entity-Component-System (ECS) runtime: a
data-oriented container that stores heterogeneous entities as tightly
packed component columns, a reactive event/command pipeline that mutates
them, and a dependency-ordered scheduler that drives systems over filtered
entity views.

foundry is a library embedded by a host program — typically a simulation
or game tick loop — not an application in its own right.

Core concepts:

  - Host: owns every entity of one Archetype (one distinct component set),
    backed by a canonical slot allocator plus one column per component.
  - EntityRef: a (Host, Slot) pair. Copyable; holding one does not extend
    the entity's lifetime.
  - World: the registry of hosts, the event Dispatcher, and the addon map.
  - Dispatcher: fans events out to global, per-type, and per-entity
    listeners, safe to mutate mid-dispatch.
  - Scheduler: a directed acyclic task graph, ticked once per frame.
  - System: read-only configuration registered onto a (World, Scheduler)
    pair via Register, producing a disposable SystemHandle.
  - CommandBuffer: a side-channel for deferred mutations recorded from
    multiple goroutines through per-goroutine Writer handles.

Basic usage:

	world := foundry.NewWorld()
	position := foundry.RegisterComponent[Position](world, foundry.ShapeArray)
	velocity := foundry.RegisterComponent[Velocity](world, foundry.ShapeArray)

	host, _ := world.HostFor(position.ComponentType, velocity.ComponentType)
	entity, _ := world.Add(host)
	position.GetOrNull(entity).X = 1

	scheduler := foundry.NewScheduler()
	handle, _ := foundry.Register(world, scheduler, &MovementSystem{})
	defer handle.Dispose()

	scheduler.Tick(world)
*/
package foundry
