package fixtures

import (
	"fmt"
	"strconv"
	"time"

	"frogdata/internal/specimen"
)

// DefectKind names a data-quality defect injected into a fixture.
type DefectKind string

const (
	DefectDuplicate     DefectKind = "duplicate"
	DefectMissingValues DefectKind = "missing_values"
	DefectTypeMismatch  DefectKind = "type_mismatch"
	DefectOutOfDomain   DefectKind = "out_of_domain"
	DefectUnmatchedID   DefectKind = "unmatched_id"
)

// Defect records one injected defect and the identifier of the row carrying it.
type Defect struct {
	Dataset    string     `json:"dataset"`
	Kind       DefectKind `json:"kind"`
	Column     string     `json:"column,omitempty"`
	Identifier string     `json:"identifier"`
}

var (
	baselineColumns       = []string{ColFrogID, ColSpecies, ColSex, ColWeight, ColAge, ColSize}
	baselineUpdateColumns = []string{ColFrogID, ColHabitat, ColHealth, ColMaxHop, ColThermalLimit, ColCallFreq}
)

// Split reserves the trailing n rows of t. head keeps t's name; tail is
// unnamed.
func Split(t Table, n int) (head, tail Table, err error) {
	if n < 0 || n > t.Len() {
		return Table{}, Table{}, fmt.Errorf("split %s: tail size %d outside [0, %d]", t.Name, n, t.Len())
	}
	cut := t.Len() - n
	src := t.clone()
	head = Table{Name: t.Name, Columns: src.Columns, Rows: src.Rows[:cut:cut]}
	tail = Table{Columns: append([]Column(nil), src.Columns...), Rows: src.Rows[cut:]}
	return head, tail, nil
}

// StampArrivals returns a copy of t with an arrival_date column holding one
// day per row, starting at start.
func StampArrivals(t Table, start time.Time) Table {
	out := t.clone()
	out.Columns = append(out.Columns, Column{ColArrivalDate, TypeDate})
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for i := range out.Rows {
		out.Rows[i] = append(out.Rows[i], day.AddDate(0, 0, i))
	}
	return out
}

// Baseline projects the identity and body columns of base, then appends a
// duplicate of the last row and a row with missing species and weight under
// missingID.
func Baseline(name string, base Table, missingID int) (Table, []Defect, error) {
	if base.Len() == 0 {
		return Table{}, nil, fmt.Errorf("baseline %s: %w", name, ErrEmptyTable)
	}
	out, err := base.Project(name, baselineColumns...)
	if err != nil {
		return Table{}, nil, err
	}
	last := append([]any(nil), out.Rows[out.Len()-1]...)
	out.Rows = append(out.Rows, last)

	out.appendRecord(map[string]any{
		ColFrogID:  missingID,
		ColSpecies: nil,
		ColSex:     string(specimen.Male),
		ColWeight:  nil,
		ColAge:     5,
		ColSize:    10,
	})

	defects := []Defect{
		{Dataset: name, Kind: DefectDuplicate, Identifier: fmt.Sprint(last[0])},
		{Dataset: name, Kind: DefectMissingValues, Column: ColSpecies, Identifier: strconv.Itoa(missingID)},
		{Dataset: name, Kind: DefectMissingValues, Column: ColWeight, Identifier: strconv.Itoa(missingID)},
	}
	return out, defects, nil
}

// UnmatchedID is the identifier appended to the baseline update that never
// appears in the generated table.
const UnmatchedID = 9999

// BaselineUpdate projects the habitat and performance columns of base, then
// appends a type-inconsistent row and a row whose identifier is unknown to
// base.
func BaselineUpdate(name string, base Table) (Table, []Defect, error) {
	out, err := base.Project(name, baselineUpdateColumns...)
	if err != nil {
		return Table{}, nil, err
	}
	out.appendRecord(map[string]any{
		ColFrogID:       "abc",
		ColHabitat:      string(specimen.Forest),
		ColHealth:       "good",
		ColMaxHop:       "1",
		ColThermalLimit: 35,
		ColCallFreq:     20,
	})
	out.appendRecord(map[string]any{
		ColFrogID:       UnmatchedID,
		ColHabitat:      string(specimen.Pond),
		ColHealth:       string(specimen.Healthy),
		ColMaxHop:       1.5,
		ColThermalLimit: 40,
		ColCallFreq:     25,
	})

	defects := []Defect{
		{Dataset: name, Kind: DefectTypeMismatch, Column: ColFrogID, Identifier: "abc"},
		{Dataset: name, Kind: DefectTypeMismatch, Column: ColMaxHop, Identifier: "abc"},
		{Dataset: name, Kind: DefectOutOfDomain, Column: ColHealth, Identifier: "abc"},
		{Dataset: name, Kind: DefectUnmatchedID, Column: ColFrogID, Identifier: strconv.Itoa(UnmatchedID)},
	}
	return out, defects, nil
}
