package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/foundry-ecs/foundry"
)

func newReactiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reactive-trigger",
		Short: "Run the reactive-trigger scenario: LocationDamage keyed off SetPosition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReactiveScenario()
		},
	}
}

func runReactiveScenario() error {
	world := foundry.NewWorld(foundry.WithLogger(log.Logger))
	health := foundry.RegisterComponent[Health](world, foundry.ShapeArray)
	transform := foundry.RegisterComponent[Transform](world, foundry.ShapeArray)

	host, err := world.HostFor(health.ComponentType, transform.ComponentType)
	if err != nil {
		return err
	}

	scheduler := foundry.NewScheduler()
	matcher := foundry.Has(world, health.ComponentType, transform.ComponentType)

	system := &locationDamageSystem{health: health, transform: transform, matcher: matcher}
	handle, err := foundry.Register(world, scheduler, system)
	if err != nil {
		return err
	}
	defer handle.Dispose()

	entity, err := world.Add(host)
	if err != nil {
		return err
	}
	*health.GetOrNull(entity) = Health{Value: 200}
	*transform.GetOrNull(entity) = Transform{X: 1, Y: 1}

	if err := scheduler.Tick(world); err != nil {
		return err
	}
	log.Info().Float64("health", health.GetOrNull(entity).Value).Msg("after initial tick")

	if err := world.Modify(entity, &SetPosition{X: 1, Y: 2, transform: transform}); err != nil {
		return err
	}
	if err := scheduler.Tick(world); err != nil {
		return err
	}
	log.Info().Float64("debuff", health.GetOrNull(entity).Debuff).Msg("after move to y=2")

	if err := world.Modify(entity, &SetPosition{X: 1, Y: 3, transform: transform}); err != nil {
		return err
	}
	if err := scheduler.Tick(world); err != nil {
		return err
	}
	log.Info().Float64("health", health.GetOrNull(entity).Value).Msg("after move to y=3")

	return nil
}
