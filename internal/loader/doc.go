// Package loader reads the UN population and M49 workbooks and merges them
// into a single table keyed by (country or area, year).
//
// The merge runs in a fixed order: the two population sources are unioned,
// pivoted so that every series label becomes a column, inner-joined with the
// M49 metadata on the location code, re-keyed, sorted and finally stripped of
// every row with a missing cell.
package loader
