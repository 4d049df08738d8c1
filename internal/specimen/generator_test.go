package specimen

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerateDefaults(t *testing.T) {
	g := NewGenerator(Options{})
	opts := g.Options()
	if opts.Count != DefaultCount || opts.FirstID != DefaultFirstID || opts.Seed != DefaultSeed {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	specimens := g.Generate()
	if len(specimens) != DefaultCount {
		t.Fatalf("expected %d specimens, got %d", DefaultCount, len(specimens))
	}
	for i, s := range specimens {
		if s.ID != DefaultFirstID+i {
			t.Fatalf("specimen %d: expected sequential id %d, got %d", i, DefaultFirstID+i, s.ID)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	first := NewGenerator(Options{Seed: 7, Count: 50}).Generate()
	second := NewGenerator(Options{Seed: 7, Count: 50}).Generate()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed produced different specimens (-first +second):\n%s", diff)
	}
	other := NewGenerator(Options{Seed: 8, Count: 50}).Generate()
	if cmp.Equal(first, other) {
		t.Fatalf("different seeds produced identical specimens")
	}
}

func TestGeneratedSpecimensStayWithinSpeciesRanges(t *testing.T) {
	for _, seed := range []uint64{1, 42, 99, 2024} {
		for _, s := range NewGenerator(Options{Seed: seed, Count: 500}).Generate() {
			if err := s.Validate(); err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
		}
	}
}

func TestGeneratedValuesAreRounded(t *testing.T) {
	for _, s := range NewGenerator(Options{Count: 200}).Generate() {
		if !hasDecimals(s.Weight, 1) {
			t.Fatalf("weight %v not rounded to 1 decimal", s.Weight)
		}
		for name, v := range map[string]float64{
			"size":          s.BodySize,
			"call_freq":     s.CallFrequency,
			"max_hop":       s.MaxHop,
			"thermal_limit": s.ThermalLimit,
		} {
			if !hasDecimals(v, 2) {
				t.Fatalf("%s %v not rounded to 2 decimals", name, v)
			}
		}
	}
}

func TestGenerateCoversEveryCategory(t *testing.T) {
	species := map[Species]int{}
	sexes := map[Sex]int{}
	habitats := map[Habitat]int{}
	health := map[Health]int{}
	for _, s := range NewGenerator(Options{Count: 2000}).Generate() {
		species[s.Species]++
		sexes[s.Sex]++
		habitats[s.Habitat]++
		health[s.Health]++
	}
	if len(species) != 4 || len(sexes) != 2 || len(habitats) != 4 || len(health) != 3 {
		t.Fatalf("missing categories: species=%v sex=%v habitat=%v health=%v", species, sexes, habitats, health)
	}
	// 0.60 female over 2000 draws; generous band keeps the test seed-agnostic.
	if sexes[Female] < 1050 || sexes[Female] > 1350 {
		t.Fatalf("female share off weight: %d/2000", sexes[Female])
	}
	if health[Healthy] < 1450 || health[Healthy] > 1750 {
		t.Fatalf("healthy share off weight: %d/2000", health[Healthy])
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	base := Specimen{
		ID: 1, Species: TreeFrog, Sex: Male, Habitat: Pond, Health: Healthy,
		Weight: 250, BodySize: 4, Age: 3, MaxHop: 2, ThermalLimit: 30, CallFrequency: 500,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid specimen: %v", err)
	}
	cases := map[string]func(*Specimen){
		"species":   func(s *Specimen) { s.Species = "Toad" },
		"sex":       func(s *Specimen) { s.Sex = "Unknown" },
		"habitat":   func(s *Specimen) { s.Habitat = "Desert" },
		"health":    func(s *Specimen) { s.Health = "good" },
		"age":       func(s *Specimen) { s.Age = 11 },
		"weight":    func(s *Specimen) { s.Weight = 401 },
		"thermal":   func(s *Specimen) { s.ThermalLimit = 40 },
		"call_freq": func(s *Specimen) { s.CallFrequency = 20 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := base
			mutate(&s)
			if err := s.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestProfileLookup(t *testing.T) {
	if len(Profiles()) != 4 {
		t.Fatalf("expected four species profiles")
	}
	p, ok := ProfileFor(Bullfrog)
	if !ok {
		t.Fatalf("bullfrog profile missing")
	}
	if p.Weight != (Range{500, 1000}) {
		t.Fatalf("unexpected bullfrog weight range %+v", p.Weight)
	}
	if _, ok := ProfileFor("Cane Toad"); ok {
		t.Fatalf("unexpected profile for unknown species")
	}
	if !p.ThermalLimit.Contains(25) || !p.ThermalLimit.Contains(30) || p.ThermalLimit.Contains(30.01) {
		t.Fatalf("range bounds should be inclusive")
	}
}

func hasDecimals(v float64, decimals int) bool {
	scale := math.Pow(10, float64(decimals))
	return math.Abs(v*scale-math.Round(v*scale)) < 1e-6
}
