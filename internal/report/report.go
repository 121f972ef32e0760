package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"unpop/internal/stats"
	"unpop/internal/table"
)

const indent = "    "

// Columns names the series that the fixed reports read.
type Columns struct {
	LifeExpectancy string
	GrowthRate     string
	// Threshold is the life expectancy a row must strictly exceed to be
	// listed by OverThreshold.
	Threshold float64
}

// Reporter writes report sections to an io.Writer.
type Reporter struct {
	out  io.Writer
	cols Columns
}

// New creates a Reporter.
func New(out io.Writer, cols Columns) *Reporter {
	return &Reporter{out: out, cols: cols}
}

// section writes the header, then the body produced by fill, indented.
func (r *Reporter) section(header string, fill func(w io.Writer) error) error {
	var body bytes.Buffer
	tw := tabwriter.NewWriter(&body, 0, 0, 2, ' ', 0)
	if err := fill(tw); err != nil {
		return err
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(header)
	b.WriteString("\n\n")
	for _, line := range strings.Split(strings.TrimRight(body.String(), "\n"), "\n") {
		if line != "" {
			b.WriteString(indent)
			b.WriteString(strings.TrimRight(line, " "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	_, err := io.WriteString(r.out, b.String())
	return err
}

// Message writes a plain line outside of any section.
func (r *Reporter) Message(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Exporting announces the export stage.
func (r *Reporter) Exporting() {
	fmt.Fprint(r.out, "---\nExporting data...\n")
}

// Note lists the input files the run depends on.
func (r *Reporter) Note(inputs []string) error {
	return r.section("Note: this program reads the following input files:", func(w io.Writer) error {
		for _, in := range inputs {
			fmt.Fprintln(w, in)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Each workbook must keep its header in the first row of the first sheet.")
		return nil
	})
}

// Dataset prints every row of t.
func (r *Reporter) Dataset(t *table.Table) error {
	return r.section("Complete dataset:", func(w io.Writer) error {
		writeTable(w, t)
		return nil
	})
}

// Countries prints the countries that may be selected.
func (r *Reporter) Countries(countries []string) error {
	return r.section("Available countries:", func(w io.Writer) error {
		for _, c := range countries {
			fmt.Fprintln(w, c)
		}
		return nil
	})
}

// Years prints the years available for the selected country.
func (r *Reporter) Years(years []int) error {
	return r.section("Available Years:", func(w io.Writer) error {
		fmt.Fprintln(w, JoinYears(years))
		return nil
	})
}

// Row prints the values of one (country, year) row as a column listing.
func (r *Reporter) Row(t *table.Table, country string, year int) error {
	i, ok := t.Lookup(country, year)
	if !ok {
		return fmt.Errorf("no data for %s, year %d", country, year)
	}
	header := fmt.Sprintf("Data available for %s, year %d:", country, year)
	return r.section(header, func(w io.Writer) error {
		for _, c := range t.Columns() {
			fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Format(i))
		}
		return nil
	})
}

// CountryMean prints the mean of every numeric column over the rows of one
// country.
func (r *Reporter) CountryMean(t *table.Table, country string) error {
	rows := t.Rows(country)
	header := fmt.Sprintf("Aggregate mean for years: %s, for %s:", JoinYears(t.Years(country)), country)
	return r.section(header, func(w io.Writer) error {
		for _, nv := range rows.NumericMeans() {
			fmt.Fprintf(w, "%s\t%s\n", nv.Name, formatFloat(nv.Value))
		}
		return nil
	})
}

// Describe prints count, mean, std, min, quartiles and max for every numeric
// column of t.
func (r *Reporter) Describe(t *table.Table) error {
	return r.section("Aggregate stats for all years and all countries:", func(w io.Writer) error {
		fmt.Fprintln(w, "\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax")
		for _, s := range t.Describe() {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Name, s.Count,
				formatFloat(s.Mean), formatFloat(s.Std), formatFloat(s.Min),
				formatFloat(s.P25), formatFloat(s.P50), formatFloat(s.P75),
				formatFloat(s.Max))
		}
		return nil
	})
}

// GrowthRanking returns countries ordered by their mean growth rate, fastest
// first. Ties keep country order.
func (r *Reporter) GrowthRanking(t *table.Table) ([]table.Group, error) {
	groups, err := t.GroupByCountry(r.cols.GrowthRate, stats.Mean)
	if err != nil {
		return nil, err
	}
	table.SortDescending(groups)
	return groups, nil
}

// PrintGrowthRanking prints GrowthRanking.
func (r *Reporter) PrintGrowthRanking(t *table.Table) error {
	groups, err := r.GrowthRanking(t)
	if err != nil {
		return err
	}
	return r.section("Fastest growing countries by average annual rate of increase (percent):", func(w io.Writer) error {
		for _, g := range groups {
			fmt.Fprintf(w, "%s\t%s\n", g.Country, formatFloat(g.Value))
		}
		return nil
	})
}

// OverThreshold returns the rows whose life expectancy is strictly greater
// than the configured threshold, in table order.
func (r *Reporter) OverThreshold(t *table.Table) ([]table.Masked, error) {
	limit := r.cols.Threshold
	return t.Where(r.cols.LifeExpectancy, func(v float64) bool { return v > limit })
}

// PrintOverThreshold prints OverThreshold.
func (r *Reporter) PrintOverThreshold(t *table.Table) error {
	rows, err := r.OverThreshold(t)
	if err != nil {
		return err
	}
	header := fmt.Sprintf("Countries with life expectancy over %s years:", formatFloat(r.cols.Threshold))
	return r.section(header, func(w io.Writer) error {
		fmt.Fprintf(w, "%s\t%s\t%s\n", table.CountryLabel, table.YearLabel, r.cols.LifeExpectancy)
		for _, m := range rows {
			fmt.Fprintf(w, "%s\t%d\t%s\n", m.Key.Country, m.Key.Year, formatFloat(m.Value))
		}
		return nil
	})
}

// JoinYears renders years as a comma separated list.
func JoinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ", ")
}

func writeTable(w io.Writer, t *table.Table) {
	header := append([]string{table.CountryLabel, table.YearLabel}, t.ColumnNames()...)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	cols := t.Columns()
	for i := 0; i < t.Len(); i++ {
		k := t.Key(i)
		cells := make([]string, 0, len(cols)+2)
		cells = append(cells, k.Country, strconv.Itoa(k.Year))
		for _, c := range cols {
			cells = append(cells, c.Format(i))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	fmt.Fprintf(w, "\n[%d rows x %d columns]\n", t.Len(), len(cols))
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
