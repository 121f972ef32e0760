// Package derive appends computed columns to a loaded table.
package derive

import (
	"fmt"
	"log/slog"

	"unpop/internal/stats"
	"unpop/internal/table"
)

// Centered describes one deviation-from-mean column: Name = Source - mean(Source).
type Centered struct {
	Source string
	Name   string
}

// AddCentered appends one centered column per entry of cols. All means are taken
// before the first column is appended, so entries may reference each other's
// sources in any order. On error the table is left unchanged.
func AddCentered(t *table.Table, cols []Centered) error {
	names := make(map[string]bool, len(cols))
	for _, c := range cols {
		if _, exists := t.Column(c.Name); exists || names[c.Name] {
			return fmt.Errorf("centered column %q already exists", c.Name)
		}
		names[c.Name] = true
	}

	means := make([]float64, len(cols))
	sources := make([][]float64, len(cols))
	for i, c := range cols {
		values, err := t.Numeric(c.Source)
		if err != nil {
			return fmt.Errorf("centered column %q: %w", c.Name, err)
		}
		sources[i] = values
		means[i] = stats.Mean(values)
	}

	for i, c := range cols {
		centered := make([]float64, len(sources[i]))
		for j, v := range sources[i] {
			centered[j] = v - means[i]
		}
		if err := t.AddNumeric(c.Name, centered); err != nil {
			return fmt.Errorf("centered column %q: %w", c.Name, err)
		}
		slog.Debug("Added centered column",
			slog.String("column", c.Name),
			slog.String("source", c.Source),
			slog.Float64("mean", means[i]))
	}
	return nil
}
