// Package main provides the entry point for the malurl CLI.
//
// malurl classifies URLs as malicious or benign. A Multinomial Naive Bayes
// model is trained on a labeled corpus from the URL tokens and the script
// features of each page, then applied to new URLs.
//
// Usage:
//
//	malurl classify --corpus urls.csv <url>...
//	malurl discover --corpus urls.csv <page-url>
//	malurl evaluate --corpus urls.csv
//
// See --help for all available options.
package main

// main is the entry point for malurl.
func main() {
	Execute()
}
