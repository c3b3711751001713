package main

import (
	"reflect"

	"github.com/foundry-ecs/foundry"
)

// healthUpdateSystem drains Health.Value by Health.Debuff*delta each tick.
type healthUpdateSystem struct {
	foundry.BaseSystem
	health  foundry.ComponentHandle[Health]
	matcher foundry.Matcher
	delta   float64
}

func (s *healthUpdateSystem) Matcher() foundry.Matcher { return s.matcher }

func (s *healthUpdateSystem) Execute(world *foundry.World, scheduler *foundry.Scheduler, entity foundry.EntityRef) error {
	h, err := s.health.Get(entity)
	if err != nil {
		return err
	}
	h.Value -= h.Debuff * s.delta
	if h.Value < 0 {
		h.Value = 0
	}
	return nil
}

// deathSystem removes any entity whose Health.Value has reached zero.
// Depends on healthUpdateSystem so it always observes this tick's update.
type deathSystem struct {
	foundry.BaseSystem
	health       foundry.ComponentHandle[Health]
	matcher      foundry.Matcher
	dependencies []foundry.System
}

func (s *deathSystem) Matcher() foundry.Matcher       { return s.matcher }
func (s *deathSystem) Dependencies() []foundry.System { return s.dependencies }

func (s *deathSystem) Execute(world *foundry.World, scheduler *foundry.Scheduler, entity foundry.EntityRef) error {
	h, err := s.health.Get(entity)
	if err != nil {
		return err
	}
	if h.Value <= 0 {
		return world.Remove(entity)
	}
	return nil
}

// locationDamageSystem is a reactive system: its pending group is built
// from EntityAdded and SetPosition events rather than recomputed from a
// live query every tick. The damage rule below is illustrative, not a
// spec requirement — it exists to exercise the Trigger/Filter wiring.
type locationDamageSystem struct {
	foundry.BaseSystem
	health    foundry.ComponentHandle[Health]
	transform foundry.ComponentHandle[Transform]
	matcher   foundry.Matcher
}

func (s *locationDamageSystem) Matcher() foundry.Matcher { return s.matcher }

func (s *locationDamageSystem) Trigger() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(foundry.EntityAdded{}),
		reflect.TypeOf(&SetPosition{}),
	}
}

func (s *locationDamageSystem) Filter() []reflect.Type { return nil }

func (s *locationDamageSystem) Execute(world *foundry.World, scheduler *foundry.Scheduler, entity foundry.EntityRef) error {
	t, err := s.transform.Get(entity)
	if err != nil {
		return err
	}
	h, err := s.health.Get(entity)
	if err != nil {
		return err
	}
	switch t.Y {
	case 1:
		h.Value -= 10
	case 2:
		h.Debuff = 100
	}
	return nil
}
