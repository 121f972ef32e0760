package table

import (
	"fmt"
	"math"
	"sort"

	"unpop/internal/stats"
)

// ColumnSummary is the Describe result for one numeric column.
type ColumnSummary struct {
	Name string
	stats.Summary
}

// Describe summarizes every numeric column, one entry per column in column
// order.
func (t *Table) Describe() []ColumnSummary {
	var out []ColumnSummary
	for _, c := range t.NumericColumns() {
		out = append(out, ColumnSummary{Name: c.Name, Summary: stats.Summarize(c.Floats)})
	}
	return out
}

// NamedValue pairs a column name with a single value.
type NamedValue struct {
	Name  string
	Value float64
}

// NumericMeans returns the mean of every numeric column. Text columns are
// ignored.
func (t *Table) NumericMeans() []NamedValue {
	var out []NamedValue
	for _, c := range t.NumericColumns() {
		out = append(out, NamedValue{Name: c.Name, Value: stats.Mean(c.Floats)})
	}
	return out
}

// Aggregator reduces the values of one group to a single number.
type Aggregator func(values []float64) float64

// Group is one reduced group of a GroupByCountry pass.
type Group struct {
	Country string
	Value   float64
}

// GroupByCountry reduces column over the rows of each country. Groups are
// returned in the order their countries first appear in the table.
func (t *Table) GroupByCountry(column string, agg Aggregator) ([]Group, error) {
	values, err := t.Numeric(column)
	if err != nil {
		return nil, err
	}

	var groups []Group
	seen := make(map[string]bool)
	start := 0
	for i := 1; i <= len(t.keys); i++ {
		if i < len(t.keys) && t.keys[i].Country == t.keys[start].Country {
			continue
		}
		country := t.keys[start].Country
		if seen[country] {
			return nil, fmt.Errorf("rows of %q are not contiguous; sort the table first", country)
		}
		seen[country] = true
		groups = append(groups, Group{Country: country, Value: agg(values[start:i])})
		start = i
	}
	return groups, nil
}

// SortDescending orders groups by value, largest first. Ties keep their
// current order and NaN values sort last.
func SortDescending(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Value, groups[j].Value
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
}

// Masked is a row selected by Where, with the value that was tested.
type Masked struct {
	Key   Key
	Value float64
}

// Where returns the rows whose value in column satisfies keep, in table order.
func (t *Table) Where(column string, keep func(v float64) bool) ([]Masked, error) {
	values, err := t.Numeric(column)
	if err != nil {
		return nil, err
	}
	var out []Masked
	for i, v := range values {
		if keep(v) {
			out = append(out, Masked{Key: t.keys[i], Value: v})
		}
	}
	return out, nil
}
