package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) *Table {
	t.Helper()
	tbl := New([]Key{
		{"Japan", 2010},
		{"France", 2020},
		{"France", 2000},
		{"Chad", 2010},
		{"France", 2010},
	})
	require.NoError(t, tbl.AddText("Region Name", []string{"Asia", "Europe", "Europe", "", "Europe"}))
	require.NoError(t, tbl.AddNumeric("Life", []float64{83.1, 82.5, 79.0, 54.2, 81.7}))
	return tbl
}

func TestSortByKey(t *testing.T) {
	tbl := newFixture(t)
	tbl.SortByKey()

	assert.Equal(t, []Key{
		{"Chad", 2010},
		{"France", 2000},
		{"France", 2010},
		{"France", 2020},
		{"Japan", 2010},
	}, tbl.Keys())

	life, err := tbl.Numeric("Life")
	require.NoError(t, err)
	assert.Equal(t, []float64{54.2, 79.0, 81.7, 82.5, 83.1}, life)

	region, ok := tbl.Column("Region Name")
	require.True(t, ok)
	assert.Equal(t, []string{"", "Europe", "Europe", "Europe", "Asia"}, region.Strings)
	assert.NoError(t, tbl.CheckUnique())
}

func TestCheckUniqueReportsDuplicate(t *testing.T) {
	tbl := New([]Key{{"Peru", 2000}, {"Peru", 2000}})
	err := tbl.CheckUnique()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Peru/2000")
}

func TestDropMissing(t *testing.T) {
	tbl := newFixture(t)
	require.NoError(t, tbl.AddNumeric("Growth", []float64{0.1, math.NaN(), 0.3, 3.0, 0.2}))
	tbl.SortByKey()

	clean := tbl.DropMissing()

	// Chad has no region, France/2020 has no growth rate.
	assert.Equal(t, []Key{{"France", 2000}, {"France", 2010}, {"Japan", 2010}}, clean.Keys())
	assert.Equal(t, []string{"France", "Japan"}, clean.Countries())
	for i := 0; i < clean.Len(); i++ {
		assert.False(t, clean.HasMissing(i))
	}
}

func TestPrefixAndExactLookup(t *testing.T) {
	tbl := newFixture(t)
	tbl.SortByKey()

	assert.Equal(t, []string{"Chad", "France", "Japan"}, tbl.Countries())
	assert.Equal(t, []int{2000, 2010, 2020}, tbl.Years("France"))
	assert.Empty(t, tbl.Years("Atlantis"))
	assert.True(t, tbl.HasCountry("Japan"))
	assert.False(t, tbl.HasCountry("Jap"))

	france := tbl.Rows("France")
	assert.Equal(t, 3, france.Len())
	assert.Equal(t, []string{"Region Name", "Life"}, france.ColumnNames())

	i, ok := tbl.Lookup("France", 2010)
	require.True(t, ok)
	assert.Equal(t, Key{"France", 2010}, tbl.Key(i))

	_, ok = tbl.Lookup("France", 1999)
	assert.False(t, ok)
	_, ok = tbl.Lookup("Zimbabwe", 2010)
	assert.False(t, ok)
}

func TestAddColumnErrors(t *testing.T) {
	tbl := newFixture(t)

	assert.Error(t, tbl.AddNumeric("Short", []float64{1}))
	assert.Error(t, tbl.AddNumeric("Life", make([]float64, tbl.Len())))

	_, err := tbl.Numeric("Region Name")
	assert.Error(t, err)
	_, err = tbl.Numeric("Nope")
	assert.Error(t, err)
}

func TestColumnFormat(t *testing.T) {
	tbl := New([]Key{{"A", 1}, {"A", 2}})
	require.NoError(t, tbl.AddNumeric("v", []float64{1.5, math.NaN()}))
	c, _ := tbl.Column("v")

	assert.Equal(t, "1.5", c.Format(0))
	assert.Equal(t, "NaN", c.Format(1))
	assert.True(t, c.Missing(1))
}

func TestDistinctYears(t *testing.T) {
	tbl := newFixture(t)
	assert.Equal(t, []int{2000, 2010, 2020}, tbl.DistinctYears())
}
