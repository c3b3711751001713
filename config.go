package foundry

// Config holds process-wide tunables for storage shapes. Mirrors the
// teacher's single global config struct (warehouse/config.go), generalized
// from a single table-events hook to the handful of knobs foundry's own
// storage engine needs.
var Config config = config{
	defaultPageSize:      256,
	defaultArrayCapacity: 64,
	arrayGrowthFactor:    2,
}

type config struct {
	defaultPageSize      uint32
	defaultArrayCapacity uint32
	arrayGrowthFactor    float64
}

// SetDefaultPageSize configures the page size new PagedStorage instances use
// when none is given explicitly via WithPageSize.
func (c *config) SetDefaultPageSize(n uint32) {
	if n == 0 {
		panic("foundry: page size must be > 0")
	}
	c.defaultPageSize = n
}

// SetDefaultArrayCapacity configures the initial capacity new ArrayStorage
// instances allocate when none is given explicitly via WithCapacity.
func (c *config) SetDefaultArrayCapacity(n uint32) {
	c.defaultArrayCapacity = n
}

// SetArrayGrowthFactor configures the geometric growth factor ArrayStorage
// uses when it must grow beyond its current capacity. Must be > 1.
func (c *config) SetArrayGrowthFactor(f float64) {
	if f <= 1 {
		panic("foundry: array growth factor must be > 1")
	}
	c.arrayGrowthFactor = f
}
