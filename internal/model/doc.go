// Package model defines the core data structures shared by the classifier
// packages.
//
// This package contains the following main types:
//   - Label: The binary class of a URL (benign or malicious)
//   - URLRecord: A URL with an optional training label
//   - ContentFeatures: The fixed-order vector of page content indicators
//   - Prediction and ClassificationRun: Classification output for reports and history
//
// Models live in their own package so that token, content, feature, bayes,
// pipeline, database and report can share them without import cycles.
// Everything here is serializable to JSON for report output and database storage.
package model
