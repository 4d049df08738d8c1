package specimen

import (
	"fmt"
)

// Specimen is one synthesized frog record.
type Specimen struct {
	ID            int     `json:"frog_id"`
	Species       Species `json:"species"`
	Sex           Sex     `json:"sex"`
	Habitat       Habitat `json:"habitat"`
	Health        Health  `json:"health"`
	Weight        float64 `json:"weight"`
	BodySize      float64 `json:"size"`
	Age           int     `json:"age"`
	MaxHop        float64 `json:"max_hop"`
	ThermalLimit  float64 `json:"thermal_limit"`
	CallFrequency float64 `json:"call_freq"`
}

// Validate checks the record against its species profile and the categorical
// domains.
func (s Specimen) Validate() error {
	profile, ok := ProfileFor(s.Species)
	if !ok {
		return fmt.Errorf("specimen %d: unknown species %q", s.ID, s.Species)
	}
	if !ValidSex(s.Sex) {
		return fmt.Errorf("specimen %d: unknown sex %q", s.ID, s.Sex)
	}
	if !ValidHabitat(s.Habitat) {
		return fmt.Errorf("specimen %d: unknown habitat %q", s.ID, s.Habitat)
	}
	if !ValidHealth(s.Health) {
		return fmt.Errorf("specimen %d: unknown health %q", s.ID, s.Health)
	}
	if s.Age < AgeRange.Min || s.Age > AgeRange.Max {
		return fmt.Errorf("specimen %d: age %d outside [%d, %d]", s.ID, s.Age, AgeRange.Min, AgeRange.Max)
	}
	checks := []struct {
		name  string
		value float64
		rng   Range
	}{
		{"weight", s.Weight, profile.Weight},
		{"size", s.BodySize, profile.BodySize},
		{"call_freq", s.CallFrequency, profile.CallFrequency},
		{"max_hop", s.MaxHop, profile.MaxHop},
		{"thermal_limit", s.ThermalLimit, profile.ThermalLimit},
	}
	for _, c := range checks {
		if !c.rng.Contains(c.value) {
			return fmt.Errorf("specimen %d: %s %v outside [%v, %v] for %s", s.ID, c.name, c.value, c.rng.Min, c.rng.Max, s.Species)
		}
	}
	return nil
}
