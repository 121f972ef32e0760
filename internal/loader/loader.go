package loader

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"unpop/internal/apperr"
	"unpop/internal/table"
)

// Source column names.
const (
	ColM49       = "M49 Code"
	ColYear      = "Year"
	ColLocation  = "Region/Country/Area"
	ColSeries    = "Series"
	ColValue     = "Value"
	ColGlobal    = "Global Name"
	ColRegion    = "Region Name"
	ColSubRegion = "Sub-region Name"
	ColCountry   = "Country or Area"
	ColISO2      = "ISO-alpha2 Code"
	ColISO3      = "ISO-alpha3 Code"
)

var (
	populationColumns = []string{ColM49, ColYear, ColLocation, ColSeries, ColValue}
	metadataColumns   = []string{ColM49, ColGlobal, ColRegion, ColSubRegion, ColCountry, ColISO2, ColISO3}
)

// Sources locates the three input files.
type Sources struct {
	PopulationA string
	PopulationB string
	Metadata    string
}

// Observation is one long-format population record.
type Observation struct {
	Code     int
	Year     int
	Location string
	Series   string
	Value    float64
}

func (o Observation) identity() observationID {
	return observationID{o.Code, o.Year, o.Location, o.Series, math.Float64bits(o.Value)}
}

type observationID struct {
	code     int
	year     int
	location string
	series   string
	value    uint64
}

// Location is one M49 metadata record.
type Location struct {
	Code      int
	Global    string
	Region    string
	SubRegion string
	Country   string
	ISO2      string
	ISO3      string
}

// LoadAndMerge reads the three sources and returns the merged, sorted and
// null-free table. Every failure is an *apperr.DataLoadError.
func LoadAndMerge(src Sources) (*table.Table, error) {
	a, err := ReadPopulation(src.PopulationA)
	if err != nil {
		return nil, err
	}
	b, err := ReadPopulation(src.PopulationB)
	if err != nil {
		return nil, err
	}
	locations, err := ReadMetadata(src.Metadata)
	if err != nil {
		return nil, err
	}

	union := Union(a, b)
	slog.Debug("Population sources unioned",
		slog.Int("rows_a", len(a)),
		slog.Int("rows_b", len(b)),
		slog.Int("rows_union", len(union)))

	wide, err := Pivot(union)
	if err != nil {
		return nil, apperr.NewDataLoadError(src.PopulationA+", "+src.PopulationB, "failed to reshape population data", err)
	}

	merged, err := Join(locations, wide)
	if err != nil {
		return nil, apperr.NewDataLoadError(src.Metadata, "failed to join metadata", err)
	}
	clean := merged.DropMissing()

	slog.Info("Datasets merged",
		slog.Int("series", len(wide.Series)),
		slog.Int("joined_rows", merged.Len()),
		slog.Int("rows", clean.Len()),
		slog.Int("countries", len(clean.Countries())))
	return clean, nil
}

// ReadPopulation reads a long-format population source.
func ReadPopulation(path string) ([]Observation, error) {
	s, err := readSource(path, populationColumns)
	if err != nil {
		return nil, err
	}

	out := make([]Observation, 0, len(s.rows))
	for i, row := range s.rows {
		code, err := parseInt(row[0])
		if err != nil {
			return nil, rowError(s, i, ColM49, err)
		}
		year, err := parseInt(row[1])
		if err != nil {
			return nil, rowError(s, i, ColYear, err)
		}
		value, err := parseFloat(row[4])
		if err != nil {
			return nil, rowError(s, i, ColValue, err)
		}
		out = append(out, Observation{
			Code:     code,
			Year:     year,
			Location: row[2],
			Series:   row[3],
			Value:    value,
		})
	}
	slog.Debug("Population source read", slog.String("path", path), slog.Int("rows", len(out)))
	return out, nil
}

// ReadMetadata reads the M49 location metadata. A code listed twice is an
// error.
func ReadMetadata(path string) ([]Location, error) {
	s, err := readSource(path, metadataColumns)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]int)
	out := make([]Location, 0, len(s.rows))
	for i, row := range s.rows {
		code, err := parseInt(row[0])
		if err != nil {
			return nil, rowError(s, i, ColM49, err)
		}
		if first, dup := seen[code]; dup {
			return nil, apperr.NewDataLoadError(path,
				fmt.Sprintf("M49 code %d listed on rows %d and %d", code, first, s.line[i]), nil)
		}
		seen[code] = s.line[i]
		out = append(out, Location{
			Code:      code,
			Global:    row[1],
			Region:    row[2],
			SubRegion: row[3],
			Country:   row[4],
			ISO2:      row[5],
			ISO3:      row[6],
		})
	}
	slog.Debug("Metadata source read", slog.String("path", path), slog.Int("rows", len(out)))
	return out, nil
}

// Union returns the observations of a followed by those of b, keeping only
// the first occurrence of rows that are equal on every field.
func Union(a, b []Observation) []Observation {
	seen := make(map[observationID]bool, len(a)+len(b))
	out := make([]Observation, 0, len(a)+len(b))
	for _, part := range [][]Observation{a, b} {
		for _, o := range part {
			id := o.identity()
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, o)
		}
	}
	return out
}

// CodeYear is the key of a pivoted population row.
type CodeYear struct {
	Code int
	Year int
}

// Wide is the pivoted population table: one row per (code, year), one column
// per series label. Absent observations are NaN.
type Wide struct {
	Keys   []CodeYear
	Series []string
	Values map[string][]float64
}

// Pivot reshapes long observations into a Wide table. Rows are ordered by
// (code, year) and series ascending by label. Two different values for the
// same (code, year, series) are an error.
func Pivot(obs []Observation) (*Wide, error) {
	cells := make(map[CodeYear]map[string]float64)
	seriesSet := make(map[string]bool)

	for _, o := range obs {
		key := CodeYear{o.Code, o.Year}
		row, ok := cells[key]
		if !ok {
			row = make(map[string]float64)
			cells[key] = row
		}
		if prev, exists := row[o.Series]; exists && math.Float64bits(prev) != math.Float64bits(o.Value) {
			return nil, fmt.Errorf("conflicting values for code %d, year %d, series %q: %v and %v",
				o.Code, o.Year, o.Series, prev, o.Value)
		}
		row[o.Series] = o.Value
		seriesSet[o.Series] = true
	}

	w := &Wide{Values: make(map[string][]float64)}
	for key := range cells {
		w.Keys = append(w.Keys, key)
	}
	sort.Slice(w.Keys, func(i, j int) bool {
		if w.Keys[i].Code != w.Keys[j].Code {
			return w.Keys[i].Code < w.Keys[j].Code
		}
		return w.Keys[i].Year < w.Keys[j].Year
	})
	for s := range seriesSet {
		w.Series = append(w.Series, s)
	}
	sort.Strings(w.Series)

	for _, s := range w.Series {
		col := make([]float64, len(w.Keys))
		for i, key := range w.Keys {
			v, ok := cells[key][s]
			if !ok {
				v = math.NaN()
			}
			col[i] = v
		}
		w.Values[s] = col
	}
	return w, nil
}

// Join inner-joins locations with the pivoted population on the M49 code,
// re-keys the result by (country, year) and sorts it. Rows without a match on
// either side are dropped. Two rows that end up with the same key are an
// error.
func Join(locations []Location, w *Wide) (*table.Table, error) {
	byCode := make(map[int]Location, len(locations))
	for _, l := range locations {
		byCode[l.Code] = l
	}

	var keys []table.Key
	var matched []int
	var meta []Location
	for i, k := range w.Keys {
		l, ok := byCode[k.Code]
		if !ok {
			continue
		}
		keys = append(keys, table.Key{Country: l.Country, Year: k.Year})
		matched = append(matched, i)
		meta = append(meta, l)
	}

	t := table.New(keys)
	codes := make([]float64, len(meta))
	text := map[string][]string{}
	textCols := []string{ColGlobal, ColRegion, ColSubRegion, ColISO2, ColISO3}
	for _, c := range textCols {
		text[c] = make([]string, len(meta))
	}
	for i, l := range meta {
		codes[i] = float64(l.Code)
		text[ColGlobal][i] = l.Global
		text[ColRegion][i] = l.Region
		text[ColSubRegion][i] = l.SubRegion
		text[ColISO2][i] = l.ISO2
		text[ColISO3][i] = l.ISO3
	}

	if err := t.AddNumeric(ColM49, codes); err != nil {
		return nil, err
	}
	for _, c := range textCols {
		if err := t.AddText(c, text[c]); err != nil {
			return nil, err
		}
	}
	for _, s := range w.Series {
		src := w.Values[s]
		col := make([]float64, len(matched))
		for j, i := range matched {
			col[j] = src[i]
		}
		if err := t.AddNumeric(s, col); err != nil {
			return nil, err
		}
	}

	t.SortByKey()
	if err := t.CheckUnique(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseInt(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int(f), nil
}

// parseFloat parses a measurement. Blank cells and the usual NA markers are
// missing values.
func parseFloat(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "..", "-":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

func rowError(s *sheet, i int, column string, err error) error {
	return apperr.NewDataLoadError(s.path,
		fmt.Sprintf("invalid %s on row %d", column, s.line[i]), err)
}
