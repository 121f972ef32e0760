package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unpop/internal/stats"
	"unpop/internal/table"
)

func sample(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New([]table.Key{{Country: "a", Year: 2000}, {Country: "a", Year: 2010}, {Country: "b", Year: 2000}, {Country: "b", Year: 2010}})
	require.NoError(t, tbl.AddNumeric("Life", []float64{60.1, 72.4, 81.3, 83.0}))
	require.NoError(t, tbl.AddNumeric("Fertility", []float64{5.2, 3.1, 1.9, 1.4}))
	return tbl
}

func TestAddCenteredMeanIsZero(t *testing.T) {
	tbl := sample(t)
	err := AddCentered(tbl, []Centered{
		{Source: "Life", Name: "Life from mean"},
		{Source: "Fertility", Name: "Fertility from mean"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Life", "Fertility", "Life from mean", "Fertility from mean"}, tbl.ColumnNames())
	for _, name := range []string{"Life from mean", "Fertility from mean"} {
		values, err := tbl.Numeric(name)
		require.NoError(t, err)
		assert.InDelta(t, 0, stats.Mean(values), 1e-9, name)
	}

	life, _ := tbl.Numeric("Life from mean")
	assert.InDelta(t, 60.1-74.2, life[0], 1e-9)
}

func TestAddCenteredUsesOriginalValues(t *testing.T) {
	tbl := sample(t)
	// both specs read the same source, so the columns must be identical
	err := AddCentered(tbl, []Centered{
		{Source: "Life", Name: "Life c"},
		{Source: "Life", Name: "Life c2"},
	})
	require.NoError(t, err)

	c1, _ := tbl.Numeric("Life c")
	c2, _ := tbl.Numeric("Life c2")
	assert.Equal(t, c1, c2)
}

func TestAddCenteredMissingSource(t *testing.T) {
	tbl := sample(t)
	err := AddCentered(tbl, []Centered{{Source: "Nope", Name: "x"}})
	require.Error(t, err)
	assert.Equal(t, []string{"Life", "Fertility"}, tbl.ColumnNames())
}

func TestAddCenteredNameClashLeavesTableUnchanged(t *testing.T) {
	tests := []struct {
		name string
		cols []Centered
	}{
		{"repeated name", []Centered{
			{Source: "Life", Name: "Centered"},
			{Source: "Fertility", Name: "Centered"},
		}},
		{"existing column", []Centered{
			{Source: "Life", Name: "Life from mean"},
			{Source: "Fertility", Name: "Life"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := sample(t)
			err := AddCentered(tbl, tt.cols)
			require.Error(t, err)
			assert.Equal(t, []string{"Life", "Fertility"}, tbl.ColumnNames())
		})
	}
}
