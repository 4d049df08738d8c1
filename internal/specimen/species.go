// Package specimen synthesizes frog specimen records from fixed per-species
// parameter ranges.
package specimen

// Species identifies one of the frog species the generator knows about.
type Species string

const (
	DartFrog    Species = "Dart Frog"
	Bullfrog    Species = "Bullfrog"
	TreeFrog    Species = "Tree Frog"
	LeopardFrog Species = "Leopard Frog"
)

// Sex of a specimen.
type Sex string

const (
	Male   Sex = "Male"
	Female Sex = "Female"
)

// Habitat a specimen was collected from.
type Habitat string

const (
	Rainforest Habitat = "Rainforest"
	Swamp      Habitat = "Swamp"
	Pond       Habitat = "Pond"
	Forest     Habitat = "Forest"
)

// Health is the recorded health status.
type Health string

const (
	Healthy Health = "Healthy"
	Sick    Health = "Sick"
	Injured Health = "Injured"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Profile holds the measurement ranges sampled for a species.
type Profile struct {
	Species       Species
	Weight        Range // grams
	BodySize      Range // cm
	CallFrequency Range // Hz
	MaxHop        Range // metres
	ThermalLimit  Range // degrees C
}

// Order matters: the generator draws species by index into this slice.
var profiles = []Profile{
	{
		Species:       DartFrog,
		Weight:        Range{100, 200},
		BodySize:      Range{2.0, 3.0},
		CallFrequency: Range{500, 800},
		MaxHop:        Range{1.0, 1.5},
		ThermalLimit:  Range{30, 35},
	},
	{
		Species:       Bullfrog,
		Weight:        Range{500, 1000},
		BodySize:      Range{5.0, 8.0},
		CallFrequency: Range{300, 500},
		MaxHop:        Range{2.5, 3.5},
		ThermalLimit:  Range{25, 30},
	},
	{
		Species:       TreeFrog,
		Weight:        Range{200, 400},
		BodySize:      Range{3.0, 5.0},
		CallFrequency: Range{400, 600},
		MaxHop:        Range{1.5, 2.5},
		ThermalLimit:  Range{28, 32},
	},
	{
		Species:       LeopardFrog,
		Weight:        Range{400, 600},
		BodySize:      Range{4.0, 6.0},
		CallFrequency: Range{350, 450},
		MaxHop:        Range{2.0, 3.0},
		ThermalLimit:  Range{27, 29},
	},
}

var (
	habitats = []Habitat{Rainforest, Swamp, Pond, Forest}

	sexWeights = []weighted[Sex]{
		{Male, 0.40},
		{Female, 0.60},
	}
	healthWeights = []weighted[Health]{
		{Healthy, 0.80},
		{Sick, 0.15},
		{Injured, 0.05},
	}
)

// AgeRange bounds the integer age in years, inclusive.
var AgeRange = struct{ Min, Max int }{1, 10}

// Profiles returns a copy of the species lookup table.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// ProfileFor returns the measurement ranges of the given species.
func ProfileFor(s Species) (Profile, bool) {
	for _, p := range profiles {
		if p.Species == s {
			return p, true
		}
	}
	return Profile{}, false
}

// Habitats returns the habitat domain.
func Habitats() []Habitat {
	return append([]Habitat(nil), habitats...)
}

// ValidSex reports whether s belongs to the sex domain.
func ValidSex(s Sex) bool {
	for _, w := range sexWeights {
		if w.value == s {
			return true
		}
	}
	return false
}

// ValidHabitat reports whether h belongs to the habitat domain.
func ValidHabitat(h Habitat) bool {
	for _, v := range habitats {
		if v == h {
			return true
		}
	}
	return false
}

// ValidHealth reports whether h belongs to the health domain.
func ValidHealth(h Health) bool {
	for _, w := range healthWeights {
		if w.value == h {
			return true
		}
	}
	return false
}
