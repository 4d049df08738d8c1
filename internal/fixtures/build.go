package fixtures

import (
	"fmt"
	"time"

	"frogdata/internal/specimen"
)

// Fixture table names; each is published as <name>.csv.
const (
	FullData           = "frog_full_data"
	NewArrivals        = "frog_new_arrivals"
	BaselineData       = "frog_baseline"
	BaselineUpdateData = "frog_baseline_update"
)

// DefaultNewArrivals is the size of the reserved tail.
const DefaultNewArrivals = 23

// DefaultArrivalStart is the first arrival date of the new-arrivals table.
var DefaultArrivalStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// missingIDOffset is added to the last generated identifier to build the
// missing-values row of the baseline.
const missingIDOffset = 100

// Options controls how the generated table is split.
type Options struct {
	NewArrivals  int
	ArrivalStart time.Time
}

// DefaultOptions returns the fixed fixture layout.
func DefaultOptions() Options {
	return Options{NewArrivals: DefaultNewArrivals, ArrivalStart: DefaultArrivalStart}
}

// Set is the group of fixture tables derived from one generation.
type Set struct {
	Full           Table
	NewArrivals    Table
	Baseline       Table
	BaselineUpdate Table
	Defects        []Defect
}

// Tables returns the fixtures in publish order.
func (s Set) Tables() []Table {
	return []Table{s.Full, s.NewArrivals, s.Baseline, s.BaselineUpdate}
}

// Build splits the generated specimens into the fixture set. The full table
// keeps every specimen except the new-arrivals tail.
func Build(specimens []specimen.Specimen, opts Options) (Set, error) {
	if len(specimens) == 0 {
		return Set{}, fmt.Errorf("build fixtures: %w", ErrEmptyTable)
	}
	if opts.ArrivalStart.IsZero() {
		opts.ArrivalStart = DefaultArrivalStart
	}
	for _, s := range specimens {
		if s.ID == UnmatchedID {
			return Set{}, fmt.Errorf("build fixtures: generated identifier %d collides with the unmatched identifier", s.ID)
		}
	}

	table := FromSpecimens(FullData, specimens)
	full, tail, err := Split(table, opts.NewArrivals)
	if err != nil {
		return Set{}, fmt.Errorf("build fixtures: %w", err)
	}
	arrivals := StampArrivals(tail, opts.ArrivalStart).Rename(NewArrivals)

	missingID := specimens[len(specimens)-1].ID + missingIDOffset
	baseline, baselineDefects, err := Baseline(BaselineData, full, missingID)
	if err != nil {
		return Set{}, fmt.Errorf("build fixtures: %w", err)
	}
	update, updateDefects, err := BaselineUpdate(BaselineUpdateData, full)
	if err != nil {
		return Set{}, fmt.Errorf("build fixtures: %w", err)
	}

	return Set{
		Full:           full,
		NewArrivals:    arrivals,
		Baseline:       baseline,
		BaselineUpdate: update,
		Defects:        append(baselineDefects, updateDefects...),
	}, nil
}
