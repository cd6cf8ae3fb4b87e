// Package pipeline runs the per-URL content stages and orchestrates
// training and classification.
//
// Each URL becomes a Sample that flows through a Pipeline of Steps: the
// fetch step retrieves the page markup and the extract step turns it into
// content features. A failed fetch is recorded on the sample and degrades to
// an all-zero feature vector; it never aborts the other URLs.
//
// The BatchProcessor fans samples out with errgroup under a concurrency
// limit and returns them in input order. The Engine waits for that fan-in
// before building the feature matrix, then trains or applies the naive
// Bayes model.
package pipeline
