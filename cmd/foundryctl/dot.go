package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/foundry-ecs/foundry"
)

func newDotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "damage-over-time",
		Short: "Run the damage-over-time scenario: HealthUpdate feeding Death",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDotScenario()
		},
	}
}

func runDotScenario() error {
	world := foundry.NewWorld(foundry.WithLogger(log.Logger))
	health := foundry.RegisterComponent[Health](world, foundry.ShapeArray)

	host, err := world.HostFor(health.ComponentType)
	if err != nil {
		return err
	}
	entity, err := world.Add(host)
	if err != nil {
		return err
	}
	*health.GetOrNull(entity) = Health{Value: 200, Debuff: 100}

	scheduler := foundry.NewScheduler()
	matcher := foundry.Has(world, health.ComponentType)

	update := &healthUpdateSystem{health: health, matcher: matcher, delta: 0.5}
	updateHandle, err := foundry.Register(world, scheduler, update)
	if err != nil {
		return err
	}
	defer updateHandle.Dispose()

	death := &deathSystem{health: health, matcher: matcher, dependencies: []foundry.System{update}}
	deathHandle, err := foundry.Register(world, scheduler, death)
	if err != nil {
		return err
	}
	defer deathHandle.Dispose()

	for i := 0; i < 4; i++ {
		if err := scheduler.Tick(world); err != nil {
			return err
		}
		log.Info().
			Int("tick", i+1).
			Bool("alive", entity.Valid()).
			Int("world_count", world.Count()).
			Msg("damage-over-time tick")
	}
	return nil
}
