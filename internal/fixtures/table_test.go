package fixtures

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"frogdata/internal/specimen"
)

func sampleSpecimens() []specimen.Specimen {
	return []specimen.Specimen{
		{ID: 1, Species: specimen.DartFrog, Sex: specimen.Male, Habitat: specimen.Pond, Health: specimen.Healthy, Weight: 150.5, BodySize: 2.5, Age: 3, MaxHop: 1.25, ThermalLimit: 31, CallFrequency: 612.04},
		{ID: 2, Species: specimen.Bullfrog, Sex: specimen.Female, Habitat: specimen.Swamp, Health: specimen.Sick, Weight: 800, BodySize: 6.1, Age: 9, MaxHop: 3, ThermalLimit: 27.5, CallFrequency: 410},
		{ID: 3, Species: specimen.TreeFrog, Sex: specimen.Female, Habitat: specimen.Forest, Health: specimen.Injured, Weight: 210.3, BodySize: 3.33, Age: 1, MaxHop: 2.01, ThermalLimit: 29.99, CallFrequency: 455.5},
	}
}

func TestEncodeFormatsCellsByColumnType(t *testing.T) {
	table := FromSpecimens("sample", sampleSpecimens())
	payload, err := table.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := strings.Join([]string{
		"frog_id,species,sex,habitat,health,weight,size,age,max_hop,thermal_limit,call_freq",
		"1,Dart Frog,Male,Pond,Healthy,150.5,2.5,3,1.25,31.0,612.04",
		"2,Bullfrog,Female,Swamp,Sick,800.0,6.1,9,3.0,27.5,410.0",
		"3,Tree Frog,Female,Forest,Injured,210.3,3.33,1,2.01,29.99,455.5",
		"",
	}, "\n")
	if diff := cmp.Diff(want, string(payload)); diff != "" {
		t.Fatalf("unexpected csv (-want +got):\n%s", diff)
	}
}

func TestFormatCell(t *testing.T) {
	cases := []struct {
		name   string
		column Column
		value  any
		want   string
	}{
		{"nil", Column{"x", TypeFloat}, nil, ""},
		{"int in float column", Column{"x", TypeFloat}, 10, "10.0"},
		{"int in int column", Column{"x", TypeInt}, 10, "10"},
		{"string in int column", Column{"x", TypeInt}, "abc", "abc"},
		{"string in float column", Column{"x", TypeFloat}, "1", "1"},
		{"float", Column{"x", TypeFloat}, 0.25, "0.25"},
		{"whole float", Column{"x", TypeFloat}, 35.0, "35.0"},
		{"date", Column{"x", TypeDate}, time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), "2023-01-05"},
		{"other", Column{"x", TypeString}, true, "true"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatCell(tc.column, tc.value); got != tc.want {
				t.Fatalf("formatCell(%v) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestProjectKeepsRequestedOrder(t *testing.T) {
	table := FromSpecimens("sample", sampleSpecimens())
	projected, err := table.Project("ids", ColAge, ColFrogID)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if diff := cmp.Diff([]string{ColAge, ColFrogID}, projected.Header()); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if projected.Rows[1][0] != 9 || projected.Rows[1][1] != 2 {
		t.Fatalf("unexpected projected row %v", projected.Rows[1])
	}
	projected.Rows[0][0] = 99
	if table.Rows[0][7] != 3 {
		t.Fatalf("projection must not alias source rows")
	}
	if _, err := table.Project("bad", "tail_length"); err == nil {
		t.Fatalf("expected unknown column error")
	}
}

func TestColumnLookup(t *testing.T) {
	table := FromSpecimens("sample", sampleSpecimens())
	ids, ok := table.Column(ColFrogID)
	if !ok {
		t.Fatalf("frog_id column missing")
	}
	if diff := cmp.Diff([]any{1, 2, 3}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if _, ok := table.Column("missing"); ok {
		t.Fatalf("unexpected column")
	}
}

func TestSplit(t *testing.T) {
	table := FromSpecimens("sample", sampleSpecimens())
	head, tail, err := Split(table, 1)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if head.Len() != 2 || tail.Len() != 1 {
		t.Fatalf("unexpected split sizes head=%d tail=%d", head.Len(), tail.Len())
	}
	if tail.Rows[0][0] != 3 {
		t.Fatalf("tail should hold the last row, got %v", tail.Rows[0])
	}
	head.Rows = append(head.Rows, []any{42})
	if tail.Rows[0][0] != 3 {
		t.Fatalf("appending to head must not overwrite tail")
	}

	if _, _, err := Split(table, 4); err == nil {
		t.Fatalf("expected error for oversize tail")
	}
	if _, _, err := Split(table, -1); err == nil {
		t.Fatalf("expected error for negative tail")
	}
	head, tail, err = Split(table, 0)
	if err != nil || head.Len() != 3 || tail.Len() != 0 {
		t.Fatalf("zero tail split: head=%d tail=%d err=%v", head.Len(), tail.Len(), err)
	}
}

func TestStampArrivals(t *testing.T) {
	table := FromSpecimens("sample", sampleSpecimens())
	start := time.Date(2023, time.December, 31, 15, 4, 5, 0, time.UTC)
	stamped := StampArrivals(table, start)
	dates, ok := stamped.Column(ColArrivalDate)
	if !ok {
		t.Fatalf("arrival_date column missing")
	}
	want := []any{
		time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, dates); diff != "" {
		t.Fatalf("dates mismatch (-want +got):\n%s", diff)
	}
	if len(table.Columns) != len(specimenColumns) {
		t.Fatalf("stamping must not modify the source table")
	}
}

func TestBaselineRejectsEmptyTable(t *testing.T) {
	empty := FromSpecimens("empty", nil)
	if _, _, err := Baseline("b", empty, 1); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
}
