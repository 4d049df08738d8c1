package specimen

import (
	"math"
	"math/rand/v2"
)

const (
	DefaultCount   = 100
	DefaultFirstID = 3001
	DefaultSeed    = uint64(42)
)

// Options controls a generation run. Zero values select the defaults.
type Options struct {
	Count   int
	FirstID int
	Seed    uint64
}

func (o Options) withDefaults() Options {
	if o.Count <= 0 {
		o.Count = DefaultCount
	}
	if o.FirstID == 0 {
		o.FirstID = DefaultFirstID
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return o
}

type weighted[T any] struct {
	value  T
	weight float64
}

// Generator draws specimens from a single seeded stream, so the same
// Options always yield the same records.
type Generator struct {
	opts Options
	rng  *rand.Rand
}

// NewGenerator constructs a generator seeded from opts.
func NewGenerator(opts Options) *Generator {
	opts = opts.withDefaults()
	return &Generator{
		opts: opts,
		rng:  rand.New(rand.NewPCG(opts.Seed, opts.Seed)),
	}
}

// Options returns the effective options, defaults applied.
func (g *Generator) Options() Options { return g.opts }

// Generate returns Count specimens with sequential identifiers starting at
// FirstID.
func (g *Generator) Generate() []Specimen {
	out := make([]Specimen, 0, g.opts.Count)
	for i := 0; i < g.opts.Count; i++ {
		out = append(out, g.next(g.opts.FirstID+i))
	}
	return out
}

func (g *Generator) next(id int) Specimen {
	profile := profiles[g.rng.IntN(len(profiles))]
	s := Specimen{
		ID:            id,
		Species:       profile.Species,
		Weight:        round(g.uniform(profile.Weight), 1),
		BodySize:      round(g.uniform(profile.BodySize), 2),
		CallFrequency: round(g.uniform(profile.CallFrequency), 2),
		MaxHop:        round(g.uniform(profile.MaxHop), 2),
		ThermalLimit:  round(g.uniform(profile.ThermalLimit), 2),
	}
	s.Age = AgeRange.Min + g.rng.IntN(AgeRange.Max-AgeRange.Min+1)
	s.Sex = pick(g.rng, sexWeights)
	s.Habitat = habitats[g.rng.IntN(len(habitats))]
	s.Health = pick(g.rng, healthWeights)
	return s
}

func (g *Generator) uniform(r Range) float64 {
	return r.Min + g.rng.Float64()*(r.Max-r.Min)
}

func pick[T any](rng *rand.Rand, choices []weighted[T]) T {
	var total float64
	for _, c := range choices {
		total += c.weight
	}
	x := rng.Float64() * total
	for _, c := range choices {
		if x < c.weight {
			return c.value
		}
		x -= c.weight
	}
	return choices[len(choices)-1].value
}

// round rounds half to even at the given number of decimals. Range bounds
// carry no more decimals than their column, so a rounded draw never leaves
// its range.
func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*scale) / scale
}
