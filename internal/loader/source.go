package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"unpop/internal/apperr"
)

// sheet holds the rows of one input source projected onto a set of required
// columns, in the order they were requested.
type sheet struct {
	path string
	rows [][]string
	line []int // 1-based source row number of each entry in rows
}

// readSource reads the first worksheet of an .xlsx workbook, or a .csv file,
// and projects it onto required. The first row must be the header.
func readSource(path string, required []string) (*sheet, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperr.NewDataLoadError(path, "input file not found", err)
	}

	var raw [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		raw, err = readCSVRows(path)
	default:
		raw, err = readXLSXRows(path)
	}
	if err != nil {
		return nil, apperr.NewDataLoadError(path, "failed to read input", err)
	}
	return project(path, raw, required)
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readCSV(file)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// project maps the header of raw onto required and keeps only those columns.
// Blank rows are skipped.
func project(path string, raw [][]string, required []string) (*sheet, error) {
	if len(raw) == 0 {
		return nil, apperr.NewDataLoadError(path, "input has no header row", nil)
	}

	columnMap := make(map[string]int)
	for i, h := range raw[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := columnMap[h]; !dup {
			columnMap[h] = i
		}
	}

	idx := make([]int, len(required))
	var missing []string
	for i, name := range required {
		pos, ok := columnMap[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[i] = pos
	}
	if len(missing) > 0 {
		return nil, apperr.NewDataLoadError(path,
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil)
	}

	s := &sheet{path: path}
	for n, row := range raw[1:] {
		out := make([]string, len(required))
		blank := true
		for i, pos := range idx {
			if pos < len(row) {
				out[i] = strings.TrimSpace(row[pos])
			}
			if out[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		s.rows = append(s.rows, out)
		s.line = append(s.line, n+2)
	}
	return s, nil
}
