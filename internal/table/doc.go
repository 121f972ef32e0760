// Package table implements the in-memory, column-oriented table that the
// pipeline builds once and then reads.
//
// Rows are identified by the composite key (country or area, year). Once a
// table has been sorted with SortByKey the key supports two kinds of lookup:
//
//	rows := t.Rows("France")          // every year recorded for France
//	i, ok := t.Lookup("France", 2010) // the single France/2010 row
//
// Numeric columns hold float64 values and use NaN for a missing cell; text
// columns use the empty string. DropMissing removes every row that has a
// missing cell in any column.
//
// Describe and GroupByCountry are the generic aggregation passes used by the
// reports and charts.
package table
