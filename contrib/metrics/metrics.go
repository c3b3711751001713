// Package metrics exposes a foundry World and Scheduler's runtime shape as
// Prometheus metrics: live entity count, archetype count, and tick
// duration. Entirely additive — nothing in the core depends on this
// package, matching spec.md's framing of observability as a host-program
// concern layered on top of the core rather than part of it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/foundry-ecs/foundry"
)

// Collector samples a World on demand and times Tick calls run through
// TimeTick.
// Install one via foundry.AcquireAddon so a host program gets the same
// instance back on repeated calls.
type Collector struct {
	world *foundry.World

	entityCount    prometheus.GaugeFunc
	archetypeCount prometheus.GaugeFunc
	tickDuration   prometheus.Histogram
}

// NewCollector builds a Collector for world, registering its metrics on
// registerer (typically prometheus.DefaultRegisterer).
func NewCollector(world *foundry.World, registerer prometheus.Registerer) *Collector {
	c := &Collector{world: world}

	c.entityCount = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "foundry",
		Name:      "entities_live",
		Help:      "Number of live entities across all hosts in the world.",
	}, func() float64 { return float64(world.Count()) })

	c.archetypeCount = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "foundry",
		Name:      "archetypes_live",
		Help:      "Number of distinct archetypes currently registered in the world.",
	}, func() float64 { return float64(len(world.Query(foundry.Any))) })

	c.tickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "foundry",
		Name:      "tick_duration_seconds",
		Help:      "Wall-clock duration of Scheduler.Tick calls.",
		Buckets:   prometheus.DefBuckets,
	})

	registerer.MustRegister(c.entityCount, c.archetypeCount, c.tickDuration)
	return c
}

// TimeTick runs tick, recording its duration in the tick_duration_seconds
// histogram, and returns tick's error.
func (c *Collector) TimeTick(tick func() error) error {
	start := time.Now()
	err := tick()
	c.tickDuration.Observe(time.Since(start).Seconds())
	return err
}
