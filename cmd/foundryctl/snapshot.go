package main

import (
	"bytes"
	"encoding/gob"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/foundry-ecs/foundry"
	"github.com/foundry-ecs/foundry/contrib/persistence"
)

func newSnapshotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Save a world's Health components to a badger store, then reload them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotScenario()
		},
	}
}

func runSnapshotScenario() error {
	dir, err := os.MkdirTemp("", "foundryctl-snapshot-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	store, err := persistence.OpenBadgerStore(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	world := foundry.NewWorld(foundry.WithLogger(log.Logger))
	health := foundry.RegisterComponent[Health](world, foundry.ShapeArray)
	host, err := world.HostFor(health.ComponentType)
	if err != nil {
		return err
	}

	var keys []persistence.SlotKey
	for i := 0; i < 3; i++ {
		entity, err := world.Add(host)
		if err != nil {
			return err
		}
		*health.GetOrNull(entity) = Health{Value: float64(100 * (i + 1))}
		keys = append(keys, persistence.SlotKey{Index: entity.Slot().Index(), Generation: entity.Slot().Generation()})
	}

	encode := func(ref foundry.EntityRef) ([]byte, error) {
		h := health.GetOrNull(ref)
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(h); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := persistence.SaveWorld(store, []*foundry.Host{host}, encode); err != nil {
		return err
	}
	log.Info().Int("saved", len(keys)).Msg("snapshot saved")

	// Reload into a fresh host: a snapshot restore repopulates the
	// archetype, it does not replay the original slots.
	fresh := foundry.NewWorld(foundry.WithLogger(log.Logger))
	freshHealth := foundry.RegisterComponent[Health](fresh, foundry.ShapeArray)
	freshHost, err := fresh.HostFor(freshHealth.ComponentType)
	if err != nil {
		return err
	}

	decode := func(ref foundry.EntityRef, blob []byte) error {
		h := freshHealth.GetOrNull(ref)
		return gob.NewDecoder(bytes.NewReader(blob)).Decode(h)
	}
	if err := persistence.LoadHost(store, freshHost, keys, decode); err != nil {
		return err
	}
	log.Info().Int("restored", fresh.Count()).Msg("snapshot restored")
	return nil
}
