package main

import "github.com/foundry-ecs/foundry"

// Health and Transform are the demo domain's only components: just enough
// to run the two scenarios spec.md §8 describes end-to-end.
type Health struct {
	Value  float64
	Debuff float64
}

type Transform struct {
	X, Y float64
}

// SetPosition is a command: Modify(entity, &SetPosition{...}) overwrites
// the entity's Transform and is itself sent as the command-typed event a
// reactive system's Trigger can subscribe to.
type SetPosition struct {
	X, Y float64

	transform foundry.ComponentHandle[Transform]
}

func (c *SetPosition) Execute(target foundry.EntityRef) {
	t, err := c.transform.Get(target)
	if err != nil {
		return
	}
	t.X, t.Y = c.X, c.Y
}
