package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"

	"unpop/internal/apperr"
	"unpop/internal/table"
)

// SheetName is the worksheet the dataset is written to.
const SheetName = "Dataset"

// header returns the exported column names: the two key columns, then the
// table columns in order.
func header(t *table.Table) []string {
	return append([]string{table.CountryLabel, table.YearLabel}, t.ColumnNames()...)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteXLSX writes t to a single-sheet workbook at path.
func WriteXLSX(t *table.Table, path string) error {
	if err := ensureDir(path); err != nil {
		return apperr.NewExportError(path, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return apperr.NewExportError(path, err)
	}

	names := header(t)
	row := make([]any, len(names))
	for i, name := range names {
		row[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &row); err != nil {
		return apperr.NewExportError(path, err)
	}
	last, _ := excelize.ColumnNumberToName(len(names))
	if err := f.SetColWidth(SheetName, "A", last, 18); err != nil {
		return apperr.NewExportError(path, err)
	}

	cols := t.Columns()
	for i := 0; i < t.Len(); i++ {
		k := t.Key(i)
		row := make([]any, 0, len(names))
		row = append(row, k.Country, k.Year)
		for _, c := range cols {
			row = append(row, cellValue(c, i))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperr.NewExportError(path, err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return apperr.NewExportError(path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperr.NewExportError(path, err)
	}
	slog.Info("Wrote workbook", slog.String("path", path), slog.Int("rows", t.Len()))
	return nil
}

// cellValue returns the workbook value of row i; missing cells stay empty.
func cellValue(c *table.Column, i int) any {
	if c.Missing(i) {
		return nil
	}
	if c.Kind == table.Numeric {
		return c.Floats[i]
	}
	return c.Strings[i]
}

// WriteCSV writes t to path as comma separated values with a header row.
func WriteCSV(t *table.Table, path string) (err error) {
	if err := ensureDir(path); err != nil {
		return apperr.NewExportError(path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperr.NewExportError(path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			err = multierr.Append(err, apperr.NewExportError(path, cerr))
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(header(t)); err != nil {
		return apperr.NewExportError(path, fmt.Errorf("failed to write header: %w", err))
	}

	cols := t.Columns()
	record := make([]string, len(cols)+2)
	for i := 0; i < t.Len(); i++ {
		k := t.Key(i)
		record[0] = k.Country
		record[1] = strconv.Itoa(k.Year)
		for j, c := range cols {
			if c.Missing(i) {
				record[j+2] = ""
				continue
			}
			record[j+2] = c.Format(i)
		}
		if err := writer.Write(record); err != nil {
			return apperr.NewExportError(path, fmt.Errorf("failed to write record %d: %w", i, err))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperr.NewExportError(path, err)
	}
	slog.Info("Wrote CSV", slog.String("path", path), slog.Int("rows", t.Len()))
	return nil
}

// ReadXLSX loads a workbook written by WriteXLSX.
func ReadXLSX(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperr.NewDataLoadError(path, "failed to open workbook", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperr.NewDataLoadError(path, "failed to read sheet", err)
	}
	t, err := fromRecords(rows)
	if err != nil {
		return nil, apperr.NewDataLoadError(path, "malformed dataset", err)
	}
	return t, nil
}

// ReadCSV loads a file written by WriteCSV.
func ReadCSV(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperr.NewDataLoadError(path, "failed to open file", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, apperr.NewDataLoadError(path, "failed to read file", err)
	}
	t, err := fromRecords(records)
	if err != nil {
		return nil, apperr.NewDataLoadError(path, "malformed dataset", err)
	}
	return t, nil
}

// fromRecords rebuilds a table from a header row and data rows. A column is
// numeric when every non-empty cell parses as a finite number.
func fromRecords(records [][]string) (*table.Table, error) {
	if len(records) == 0 {
		return nil, errors.New("no header row")
	}
	head := records[0]
	if len(head) < 2 || head[0] != table.CountryLabel || head[1] != table.YearLabel {
		return nil, fmt.Errorf("first columns must be %q and %q", table.CountryLabel, table.YearLabel)
	}
	body := records[1:]

	keys := make([]table.Key, len(body))
	for i, rec := range body {
		if len(rec) < 2 {
			return nil, fmt.Errorf("row %d has no key", i+2)
		}
		year, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid year: %w", i+2, err)
		}
		keys[i] = table.Key{Country: rec[0], Year: year}
	}

	t := table.New(keys)
	for j := 2; j < len(head); j++ {
		cells := make([]string, len(body))
		for i, rec := range body {
			if j < len(rec) {
				cells[i] = rec[j]
			}
		}
		if values, ok := parseNumeric(cells); ok {
			if err := t.AddNumeric(head[j], values); err != nil {
				return nil, err
			}
			continue
		}
		if err := t.AddText(head[j], cells); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseNumeric(cells []string) ([]float64, bool) {
	values := make([]float64, len(cells))
	for i, s := range cells {
		if s == "" {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}
