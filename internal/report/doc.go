// Package report prints the console sections of an unpop run.
//
// Every section starts with a "---" line and a fixed header, followed by a
// blank line, the body indented by four spaces and another blank line. The
// numbers come from the table package's aggregation passes; nothing here
// mutates the table.
package report
