// Package app runs the analysis pipeline: load, derive, select, report and
// export, in that order.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"unpop/internal/apperr"
	"unpop/internal/config"
	"unpop/internal/derive"
	"unpop/internal/export"
	"unpop/internal/loader"
	"unpop/internal/report"
	"unpop/internal/selector"
	"unpop/internal/table"
)

// Pipeline reads answers from in and writes the report to out.
type Pipeline struct {
	cfg      *config.Config
	reporter *report.Reporter
	selector *selector.Selector
}

// New creates a Pipeline for cfg.
func New(cfg *config.Config, in io.Reader, out io.Writer) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		reporter: report.New(out, report.Columns{
			LifeExpectancy: cfg.Columns.LifeExpectancy,
			GrowthRate:     cfg.Columns.GrowthRate,
			Threshold:      cfg.Columns.LifeExpectancyThreshold,
		}),
		selector: selector.New(in, out),
	}
}

// Run executes every stage once. The first failing stage ends the run.
func (p *Pipeline) Run() error {
	src := loader.Sources{
		PopulationA: p.cfg.Inputs.PopulationA,
		PopulationB: p.cfg.Inputs.PopulationB,
		Metadata:    p.cfg.Inputs.Metadata,
	}
	if err := p.reporter.Note([]string{src.PopulationA, src.PopulationB, src.Metadata}); err != nil {
		return err
	}

	t, err := p.load(src)
	if err != nil {
		return err
	}
	if err := p.reporter.Dataset(t); err != nil {
		return err
	}

	country, year, err := p.choose(t)
	if err != nil {
		return err
	}
	if err := p.summarize(t, country, year); err != nil {
		return err
	}
	return p.export(t)
}

func (p *Pipeline) load(src loader.Sources) (*table.Table, error) {
	t, err := loader.LoadAndMerge(src)
	if err != nil {
		return nil, err
	}
	cols := p.cfg.Columns
	for _, name := range []string{cols.LifeExpectancy, cols.Fertility, cols.GrowthRate} {
		if _, err := t.Numeric(name); err != nil {
			return nil, apperr.NewDataLoadError(src.PopulationA+", "+src.PopulationB, "configured series unavailable", err)
		}
	}
	err = derive.AddCentered(t, []derive.Centered{
		{Source: cols.LifeExpectancy, Name: cols.LifeExpectancyCentered},
		{Source: cols.Fertility, Name: cols.FertilityCentered},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to derive columns: %w", err)
	}
	return t, nil
}

func (p *Pipeline) choose(t *table.Table) (string, int, error) {
	countries := t.Countries()
	if err := p.reporter.Countries(countries); err != nil {
		return "", 0, err
	}
	country, err := p.selector.Country(countries)
	if err != nil {
		return "", 0, fmt.Errorf("country selection: %w", err)
	}

	years := t.Years(country)
	if err := p.reporter.Years(years); err != nil {
		return "", 0, err
	}
	year, err := p.selector.Year(years)
	if err != nil {
		return "", 0, fmt.Errorf("year selection: %w", err)
	}

	slog.Info("Selection made", slog.String("country", country), slog.Int("year", year))
	return country, year, nil
}

func (p *Pipeline) summarize(t *table.Table, country string, year int) error {
	steps := []func() error{
		func() error { return p.reporter.Row(t, country, year) },
		func() error { return p.reporter.CountryMean(t, country) },
		func() error { return p.reporter.Describe(t) },
		func() error { return p.reporter.PrintGrowthRanking(t) },
		func() error { return p.reporter.PrintOverThreshold(t) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) export(t *table.Table) error {
	out := p.cfg.Outputs
	p.reporter.Exporting()

	if err := export.WriteXLSX(t, p.cfg.OutputPath(out.XLSX)); err != nil {
		return err
	}
	if err := export.WriteCSV(t, p.cfg.OutputPath(out.CSV)); err != nil {
		return err
	}

	if !out.Charts {
		slog.Info("Chart rendering disabled")
		p.reporter.Message("Done.")
		return nil
	}
	chartCols := export.ChartColumns{
		LifeExpectancy: p.cfg.Columns.LifeExpectancy,
		Fertility:      p.cfg.Columns.Fertility,
	}
	if err := export.LifeExpectancyChart(t, chartCols, p.cfg.OutputPath(out.LifeExpectancyChart)); err != nil {
		return err
	}
	if err := export.FertilityChart(t, chartCols, p.cfg.OutputPath(out.FertilityChart)); err != nil {
		return err
	}

	p.reporter.Message("Done.")
	return nil
}
