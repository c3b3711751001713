package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/foundry-ecs/foundry"
)

func newParallelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parallel-buffer",
		Short: "Spread work over a command buffer's Writer handles, then Submit on the main goroutine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParallelScenario()
		},
	}
}

// runParallelScenario demonstrates spec.md §4.8's opt-in parallelism: many
// goroutines record mutations into their own Writer, and Submit — always
// called from this, the main, goroutine — drains them in writer-creation
// order once every goroutine is done.
func runParallelScenario() error {
	world := foundry.NewWorld(foundry.WithLogger(log.Logger))
	health := foundry.RegisterComponent[Health](world, foundry.ShapeArray)

	host, err := world.HostFor(health.ComponentType)
	if err != nil {
		return err
	}

	const workerCount = 8
	entities := make([]foundry.EntityRef, workerCount)
	for i := range entities {
		entities[i], err = world.Add(host)
		if err != nil {
			return err
		}
		*health.GetOrNull(entities[i]) = Health{Value: 100}
	}

	buffer := foundry.NewCommandBuffer(world)

	group, _ := errgroup.WithContext(context.Background())
	for i := 0; i < workerCount; i++ {
		writer := buffer.NewWriter()
		entity := entities[i]
		group.Go(func() error {
			writer.Record(entity, &damageCommand{health: health, amount: 10})
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if err := buffer.Submit(); err != nil {
		return err
	}

	for i, entity := range entities {
		log.Info().Int("worker", i).Float64("health", health.GetOrNull(entity).Value).Msg("after buffer submit")
	}
	return nil
}

// damageCommand is a TargetCommand: a plain mutation that only needs its
// target entity.
type damageCommand struct {
	health foundry.ComponentHandle[Health]
	amount float64
}

func (c *damageCommand) Execute(target foundry.EntityRef) {
	h, err := c.health.Get(target)
	if err != nil {
		return
	}
	h.Value -= c.amount
}
