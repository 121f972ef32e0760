// Package stats provides the column statistics used by the reports.
//
// Missing observations are encoded as NaN and are skipped by every function
// in this package, so a column with gaps still yields counts and moments over
// the values that are present.
//
//	s := stats.Summarize([]float64{71.2, 80.4, 76.9})
//	fmt.Println(s.Count, s.Mean, s.Std, s.P50)
package stats
