// Package fixtures turns generated specimens into the CSV fixture tables:
// the full dataset, the new-arrivals slice and the two defect-injected
// baseline projections.
package fixtures

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"frogdata/internal/specimen"
)

// ColumnType is the declared type of a table column. Cells may still hold a
// value of another type when a fixture injects a type-inconsistent row.
type ColumnType string

const (
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
	TypeString ColumnType = "string"
	TypeDate   ColumnType = "date"
)

// Column names shared by the fixture tables.
const (
	ColFrogID       = "frog_id"
	ColSpecies      = "species"
	ColSex          = "sex"
	ColHabitat      = "habitat"
	ColHealth       = "health"
	ColWeight       = "weight"
	ColSize         = "size"
	ColAge          = "age"
	ColMaxHop       = "max_hop"
	ColThermalLimit = "thermal_limit"
	ColCallFreq     = "call_freq"
	ColArrivalDate  = "arrival_date"
)

// ErrEmptyTable is returned when an operation needs at least one row.
var ErrEmptyTable = errors.New("fixtures: empty table")

// Column describes one table column.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Table is a named, column-ordered set of rows. Rows hold loosely typed
// cells; nil marks a missing value.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

var specimenColumns = []Column{
	{ColFrogID, TypeInt},
	{ColSpecies, TypeString},
	{ColSex, TypeString},
	{ColHabitat, TypeString},
	{ColHealth, TypeString},
	{ColWeight, TypeFloat},
	{ColSize, TypeFloat},
	{ColAge, TypeInt},
	{ColMaxHop, TypeFloat},
	{ColThermalLimit, TypeFloat},
	{ColCallFreq, TypeFloat},
}

// FromSpecimens builds the full-column specimen table.
func FromSpecimens(name string, specimens []specimen.Specimen) Table {
	t := Table{Name: name, Columns: append([]Column(nil), specimenColumns...)}
	t.Rows = make([][]any, 0, len(specimens))
	for _, s := range specimens {
		t.Rows = append(t.Rows, []any{
			s.ID,
			string(s.Species),
			string(s.Sex),
			string(s.Habitat),
			string(s.Health),
			s.Weight,
			s.BodySize,
			s.Age,
			s.MaxHop,
			s.ThermalLimit,
			s.CallFrequency,
		})
	}
	return t
}

// File returns the CSV file name the table is published under.
func (t Table) File() string { return t.Name + ".csv" }

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Header returns the column names in order.
func (t Table) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

func (t Table) index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column.
func (t Table) Column(name string) ([]any, bool) {
	idx := t.index(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Project returns a copy holding only the named columns, in the given order.
func (t Table) Project(name string, columns ...string) (Table, error) {
	idx := make([]int, len(columns))
	out := Table{Name: name, Columns: make([]Column, len(columns))}
	for i, c := range columns {
		idx[i] = t.index(c)
		if idx[i] < 0 {
			return Table{}, fmt.Errorf("project %s: unknown column %q", name, c)
		}
		out.Columns[i] = t.Columns[idx[i]]
	}
	out.Rows = make([][]any, len(t.Rows))
	for r, row := range t.Rows {
		projected := make([]any, len(idx))
		for i, j := range idx {
			projected[i] = row[j]
		}
		out.Rows[r] = projected
	}
	return out, nil
}

// Rename returns a shallow copy of t under a new name.
func (t Table) Rename(name string) Table {
	t.Name = name
	return t
}

func (t Table) clone() Table {
	out := Table{Name: t.Name, Columns: append([]Column(nil), t.Columns...)}
	out.Rows = make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]any(nil), row...)
	}
	return out
}

// appendRecord adds a row from a column-keyed record; absent columns are nil.
func (t *Table) appendRecord(record map[string]any) {
	row := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		row[i] = record[c.Name]
	}
	t.Rows = append(t.Rows, row)
}

// WriteCSV encodes the table with a header row.
func (t Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header()); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, column := range t.Columns {
			record[i] = formatCell(column, row[i])
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Encode returns the CSV bytes of the table.
func (t Table) Encode() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := t.WriteCSV(buf); err != nil {
		return nil, fmt.Errorf("encode %s: %w", t.Name, err)
	}
	return buf.Bytes(), nil
}

func formatCell(column Column, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.DateOnly)
	case float64:
		return formatFloat(v)
	case int:
		if column.Type == TypeFloat {
			return formatFloat(float64(v))
		}
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat writes the shortest round-trip form and keeps a decimal point
// so float columns stay recognizable.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
