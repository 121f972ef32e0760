package table

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Labels of the two key columns when the table is printed or exported.
const (
	CountryLabel = "Country or Area"
	YearLabel    = "Year"
)

// Key is the composite primary key of a row.
type Key struct {
	Country string
	Year    int
}

// Less orders keys by country, then year.
func (k Key) Less(o Key) bool {
	if k.Country != o.Country {
		return k.Country < o.Country
	}
	return k.Year < o.Year
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Country, k.Year)
}

// Kind is the storage type of a column.
type Kind int

const (
	Numeric Kind = iota
	Text
)

// Column is a named, typed column. Exactly one of Floats and Strings is used,
// depending on Kind.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
}

// Missing reports whether row i of the column has no value.
func (c *Column) Missing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Floats[i])
	}
	return c.Strings[i] == ""
}

// Format renders row i for display and export. Missing numeric cells render
// as "NaN".
func (c *Column) Format(i int) string {
	if c.Kind == Numeric {
		return strconv.FormatFloat(c.Floats[i], 'f', -1, 64)
	}
	return c.Strings[i]
}

func (c *Column) take(idx []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		out.Floats = make([]float64, len(idx))
		for j, i := range idx {
			out.Floats[j] = c.Floats[i]
		}
		return out
	}
	out.Strings = make([]string, len(idx))
	for j, i := range idx {
		out.Strings[j] = c.Strings[i]
	}
	return out
}

// Table is an ordered collection of rows keyed by (country, year).
type Table struct {
	keys   []Key
	cols   []*Column
	byName map[string]int
}

// New creates a table with the given row keys and no columns.
func New(keys []Key) *Table {
	k := make([]Key, len(keys))
	copy(k, keys)
	return &Table{
		keys:   k,
		byName: make(map[string]int),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.keys)
}

// Key returns the key of row i.
func (t *Table) Key(i int) Key {
	return t.keys[i]
}

// Keys returns a copy of the row keys in table order.
func (t *Table) Keys() []Key {
	k := make([]Key, len(t.keys))
	copy(k, t.keys)
	return k
}

func (t *Table) addColumn(c *Column, n int) error {
	if n != len(t.keys) {
		return fmt.Errorf("column %q has %d values, table has %d rows", c.Name, n, len(t.keys))
	}
	if _, exists := t.byName[c.Name]; exists {
		return fmt.Errorf("column %q already exists", c.Name)
	}
	t.byName[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// AddNumeric appends a numeric column. values must have one entry per row.
func (t *Table) AddNumeric(name string, values []float64) error {
	return t.addColumn(&Column{Name: name, Kind: Numeric, Floats: values}, len(values))
}

// AddText appends a text column. values must have one entry per row.
func (t *Table) AddText(name string, values []string) error {
	return t.addColumn(&Column{Name: name, Kind: Text, Strings: values}, len(values))
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Numeric returns the values of a numeric column.
func (t *Table) Numeric(name string) ([]float64, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	if c.Kind != Numeric {
		return nil, fmt.Errorf("column %q is not numeric", name)
	}
	return c.Floats, nil
}

// Columns returns the columns in insertion order.
func (t *Table) Columns() []*Column {
	return t.cols
}

// ColumnNames returns the column names in insertion order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the numeric columns in insertion order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.cols {
		if c.Kind == Numeric {
			out = append(out, c)
		}
	}
	return out
}

// Take returns a new table holding rows idx, in that order.
func (t *Table) Take(idx []int) *Table {
	keys := make([]Key, len(idx))
	for j, i := range idx {
		keys[j] = t.keys[i]
	}
	out := New(keys)
	for _, c := range t.cols {
		out.byName[c.Name] = len(out.cols)
		out.cols = append(out.cols, c.take(idx))
	}
	return out
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	var idx []int
	for i := range t.keys {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return t.Take(idx)
}

// SortByKey sorts the rows ascending by (country, year). Rows with equal keys
// keep their relative order.
func (t *Table) SortByKey() {
	idx := make([]int, len(t.keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return t.keys[idx[a]].Less(t.keys[idx[b]])
	})
	sorted := t.Take(idx)
	t.keys, t.cols = sorted.keys, sorted.cols
}

// CheckUnique returns an error naming the first key that appears more than
// once. The table must be sorted.
func (t *Table) CheckUnique() error {
	for i := 1; i < len(t.keys); i++ {
		if t.keys[i] == t.keys[i-1] {
			return fmt.Errorf("duplicate key %s", t.keys[i])
		}
	}
	return nil
}

// HasMissing reports whether row i has a missing cell in any column.
func (t *Table) HasMissing(i int) bool {
	for _, c := range t.cols {
		if c.Missing(i) {
			return true
		}
	}
	return false
}

// DropMissing returns a new table without the rows that have a missing cell.
func (t *Table) DropMissing() *Table {
	return t.Filter(func(i int) bool { return !t.HasMissing(i) })
}

// span returns the half-open row range holding country. The table must be
// sorted.
func (t *Table) span(country string) (int, int) {
	lo := sort.Search(len(t.keys), func(i int) bool { return t.keys[i].Country >= country })
	hi := sort.Search(len(t.keys), func(i int) bool { return t.keys[i].Country > country })
	return lo, hi
}

// Countries returns the distinct countries present, in table order.
func (t *Table) Countries() []string {
	var out []string
	for i, k := range t.keys {
		if i == 0 || k.Country != t.keys[i-1].Country {
			out = append(out, k.Country)
		}
	}
	return out
}

// HasCountry reports whether any row belongs to country.
func (t *Table) HasCountry(country string) bool {
	lo, hi := t.span(country)
	return lo < hi
}

// Rows returns the rows of one country as a new table.
func (t *Table) Rows(country string) *Table {
	lo, hi := t.span(country)
	idx := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		idx = append(idx, i)
	}
	return t.Take(idx)
}

// Years returns the years recorded for country, ascending.
func (t *Table) Years(country string) []int {
	lo, hi := t.span(country)
	years := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		years = append(years, t.keys[i].Year)
	}
	return years
}

// Lookup returns the row index of (country, year).
func (t *Table) Lookup(country string, year int) (int, bool) {
	want := Key{Country: country, Year: year}
	i := sort.Search(len(t.keys), func(i int) bool { return !t.keys[i].Less(want) })
	if i < len(t.keys) && t.keys[i] == want {
		return i, true
	}
	return 0, false
}

// DistinctYears returns every year present in the table, ascending.
func (t *Table) DistinctYears() []int {
	seen := make(map[int]bool)
	var years []int
	for _, k := range t.keys {
		if !seen[k.Year] {
			seen[k.Year] = true
			years = append(years, k.Year)
		}
	}
	sort.Ints(years)
	return years
}
