package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

//go:generate mockgen -destination=mock_variate_test.go -package=sim -write_package_comment=false github.com/inference-sim/bankqueue/sim VariateSource

// VariateSource produces the random durations that drive a run.
// Implementations must be deterministic for a given construction seed.
type VariateSource interface {
	// NextInterArrivalTime returns the gap (minutes) until the next arrival.
	NextInterArrivalTime() float64
	// NextServiceTime returns the service duration (minutes) of one customer.
	NextServiceTime() float64
}

// UniformRange is a closed interval [Min, Max] of minutes.
type UniformRange struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Default intervals for a bank teller line.
var (
	DefaultInterArrival = UniformRange{Min: 1, Max: 8}
	DefaultService      = UniformRange{Min: 1, Max: 6}
)

// Validate rejects negative or inverted bounds.
func (r UniformRange) Validate(name string) error {
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("%w: %s bounds must be non-negative, got [%g, %g]", ErrInvalidConfiguration, name, r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s min %g exceeds max %g", ErrInvalidConfiguration, name, r.Min, r.Max)
	}
	return nil
}

func (r UniformRange) sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// === Seeded streams ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

const (
	// SubsystemArrival feeds inter-arrival draws. Uses the master seed directly.
	SubsystemArrival = "arrival"
	// SubsystemService feeds service duration draws.
	SubsystemService = "service"
)

// PartitionedRNG hands out one isolated *rand.Rand per named subsystem, all
// derived from a single SimulationKey:
//   - SubsystemArrival: masterSeed
//   - anything else: masterSeed XOR fnv1a64(name)
//
// Drawing from one subsystem never shifts another subsystem's sequence.
// Not thread-safe; each run owns its own instance.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the cached stream for name, creating it on first use.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	seed := int64(p.key)
	if name != SubsystemArrival {
		seed ^= fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(seed))
	p.streams[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// === UniformVariateSource ===

// UniformVariateSource draws inter-arrival and service times uniformly from
// their configured ranges, each from its own seeded stream.
type UniformVariateSource struct {
	interArrival UniformRange
	service      UniformRange
	arrivalRNG   *rand.Rand
	serviceRNG   *rand.Rand
}

// NewUniformVariateSource builds a source over the given ranges seeded by seed.
func NewUniformVariateSource(seed int64, interArrival, service UniformRange) *UniformVariateSource {
	rngs := NewPartitionedRNG(NewSimulationKey(seed))
	return &UniformVariateSource{
		interArrival: interArrival,
		service:      service,
		arrivalRNG:   rngs.ForSubsystem(SubsystemArrival),
		serviceRNG:   rngs.ForSubsystem(SubsystemService),
	}
}

// NewDefaultVariateSource uses DefaultInterArrival and DefaultService.
func NewDefaultVariateSource(seed int64) *UniformVariateSource {
	return NewUniformVariateSource(seed, DefaultInterArrival, DefaultService)
}

func (s *UniformVariateSource) NextInterArrivalTime() float64 {
	return s.interArrival.sample(s.arrivalRNG)
}

func (s *UniformVariateSource) NextServiceTime() float64 {
	return s.service.sample(s.serviceRNG)
}
