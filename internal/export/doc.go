// Package export writes the merged table to .xlsx and .csv files and renders
// the life expectancy and fertility charts as PNG images.
//
// Every failure is returned as an *apperr.ExportError naming the target path.
// ReadXLSX and ReadCSV load an exported file back into a table.
package export
