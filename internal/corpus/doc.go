// Package corpus loads labeled URL corpora from CSV or XLSX files and
// splits them into training and test sets.
//
// A corpus has a header row naming at least a URL column and a label column
// (by default "URLs" and "Class"; 1 = malicious, 0 = benign). Rows with a
// missing URL or an unreadable label are skipped.
package corpus
