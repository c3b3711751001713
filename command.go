package foundry

import "fmt"

// TargetCommand is the simpler of the two command contracts spec.md §6
// names: a mutation that only needs the entity it targets.
type TargetCommand interface {
	Execute(target EntityRef)
}

// WorldCommand is a mutation that additionally needs world-level
// operations — spawning related entities, looking up another host — beyond
// the entity it targets.
type WorldCommand interface {
	Execute(world *World, target EntityRef)
}

// PoolableCommand is implemented by commands that come from an object pool.
// The core calls Release once, immediately after Execute; the core never
// assumes uniqueness of
// command instances across events, per spec.md §6.
type PoolableCommand interface {
	Release()
}

// executeCommand runs cmd against target via whichever of TargetCommand or
// WorldCommand it implements, then releases it if it is a PoolableCommand.
// Command-object pooling itself is out of scope (spec.md §1 names it an
// external collaborator); this only honors the Release hook if the caller's
// command type happens to implement it.
func executeCommand(w *World, target EntityRef, cmd any) error {
	switch c := cmd.(type) {
	case WorldCommand:
		c.Execute(w, target)
	case TargetCommand:
		c.Execute(target)
	default:
		return fmt.Errorf("foundry: %T implements neither TargetCommand nor WorldCommand", cmd)
	}
	if p, ok := cmd.(PoolableCommand); ok {
		p.Release()
	}
	return nil
}
