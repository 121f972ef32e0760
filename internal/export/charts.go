package export

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"unpop/internal/apperr"
	"unpop/internal/stats"
	"unpop/internal/table"
)

var (
	barColor  = color.RGBA{R: 0x66, G: 0xff, B: 0x00, A: 255}
	gridColor = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 255}
)

// ChartColumns names the series the charts are drawn from.
type ChartColumns struct {
	LifeExpectancy string
	Fertility      string
}

// EvenlySpaced returns k indexes spread evenly over [0, n-1], first and last
// included. Fractional positions are truncated, so for n < k some indexes
// repeat.
func EvenlySpaced(n, k int) []int {
	if n <= 0 || k <= 0 {
		return nil
	}
	if k == 1 {
		return []int{0}
	}
	step := float64(n-1) / float64(k-1)
	idx := make([]int, k)
	for i := range idx {
		idx[i] = int(float64(i) * step)
	}
	idx[k-1] = n - 1
	return idx
}

// LifeExpectancyCountries ranks countries by their highest life expectancy,
// descending, and picks four of them by even spacing over the ranking.
func LifeExpectancyCountries(t *table.Table, column string) ([]string, error) {
	groups, err := t.GroupByCountry(column, stats.Max)
	if err != nil {
		return nil, err
	}
	table.SortDescending(groups)

	var picked []string
	for _, i := range EvenlySpaced(len(groups), 4) {
		picked = append(picked, groups[i].Country)
	}
	return picked, nil
}

// LifeExpectancyChart draws a 2x2 grid of bar charts, one per selected
// country, with the year on the x axis and life expectancy on a fixed
// [40, 85] y axis.
func LifeExpectancyChart(t *table.Table, cols ChartColumns, path string) error {
	countries, err := LifeExpectancyCountries(t, cols.LifeExpectancy)
	if err != nil {
		return apperr.NewExportError(path, err)
	}
	if len(countries) == 0 {
		return apperr.NewExportError(path, errors.New("no countries to plot"))
	}

	const rows, columns = 2, 2
	grid := make([][]*plot.Plot, rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, columns)
		for c := range grid[r] {
			p, err := countryBarPlot(t, cols.LifeExpectancy, countries[r*columns+c])
			if err != nil {
				return apperr.NewExportError(path, err)
			}
			grid[r][c] = p
		}
	}

	if err := saveGrid(grid, "Life expectancy over time", 8*vg.Inch, 7*vg.Inch, path); err != nil {
		return apperr.NewExportError(path, err)
	}
	slog.Info("Wrote chart", slog.String("path", path), slog.Any("countries", countries))
	return nil
}

func countryBarPlot(t *table.Table, column, country string) (*plot.Plot, error) {
	rows := t.Rows(country)
	values, err := rows.Numeric(column)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = country
	p.Title.TextStyle.Font.Size = vg.Points(10)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Life expectancy (years)"

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(14))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	labels := make([]string, 0, rows.Len())
	for _, y := range t.Years(country) {
		labels = append(labels, strconv.Itoa(y))
	}
	p.NominalX(labels...)

	p.Y.Min = 40
	p.Y.Max = 85
	p.Y.Tick.Marker = plot.ConstantTicks(ticks(40, 85, 5))
	p.Add(dashedGrid())
	return p, nil
}

// FertilityChart draws one fertility rate histogram per distinct year,
// stacked vertically in ascending year order, on a fixed [0, 50] y axis.
func FertilityChart(t *table.Table, cols ChartColumns, path string) error {
	values, err := t.Numeric(cols.Fertility)
	if err != nil {
		return apperr.NewExportError(path, err)
	}
	years := t.DistinctYears()
	if len(years) == 0 {
		return apperr.NewExportError(path, errors.New("no years to plot"))
	}

	grid := make([][]*plot.Plot, len(years))
	for r, year := range years {
		var sample plotter.Values
		for i := 0; i < t.Len(); i++ {
			if t.Key(i).Year == year {
				sample = append(sample, values[i])
			}
		}

		p := plot.New()
		p.Title.Text = fmt.Sprintf("Year %d", year)
		p.Title.TextStyle.Font.Size = vg.Points(10)
		p.X.Label.Text = "Number of children per women"
		p.Y.Label.Text = "Number of countries"

		hist, err := plotter.NewHist(sample, 10)
		if err != nil {
			return apperr.NewExportError(path, fmt.Errorf("year %d: %w", year, err))
		}
		hist.FillColor = barColor
		p.Add(hist)

		p.Y.Min = 0
		p.Y.Max = 50
		p.Y.Tick.Marker = plot.ConstantTicks(ticks(0, 50, 10))
		p.Add(dashedGrid())
		grid[r] = []*plot.Plot{p}
	}

	height := vg.Length(len(years))*2.5*vg.Inch + vg.Inch
	if err := saveGrid(grid, "Total fertility rate", 6*vg.Inch, height, path); err != nil {
		return apperr.NewExportError(path, err)
	}
	slog.Info("Wrote chart", slog.String("path", path), slog.Int("years", len(years)))
	return nil
}

// saveGrid lays out plots as tiles under a figure title and writes a PNG.
func saveGrid(grid [][]*plot.Plot, title string, width, height vg.Length, path string) (err error) {
	if err := ensureDir(path); err != nil {
		return err
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)

	titleStyle := plot.New().Title.TextStyle
	titleStyle.Font.Size = vg.Points(14)
	titleStyle.XAlign = draw.XCenter
	titleStyle.YAlign = draw.YCenter
	headroom := vg.Points(32)
	dc.FillText(titleStyle, vg.Point{X: width / 2, Y: height - headroom/2}, title)

	tiles := draw.Tiles{
		Rows:      len(grid),
		Cols:      len(grid[0]),
		PadTop:    headroom,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
	}
	canvases := plot.Align(grid, tiles, dc)
	for r := range grid {
		for c := range grid[r] {
			grid[r][c].Draw(canvases[r][c])
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(file)
	return err
}

func dashedGrid() *plotter.Grid {
	g := plotter.NewGrid()
	g.Vertical.Color = gridColor
	g.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	g.Horizontal.Color = gridColor
	g.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	return g
}

func ticks(from, to, step float64) []plot.Tick {
	var out []plot.Tick
	for v := from; v <= to; v += step {
		out = append(out, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return out
}
