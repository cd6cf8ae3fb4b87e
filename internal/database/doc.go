// Package database provides SQLite-based storage for classification history.
//
// The HistoryDB stores every classify and discover run together with its
// per-URL predictions so earlier verdicts can be listed and compared. The
// trained model is never stored: models are rebuilt from the corpus on each
// run.
//
// The store uses modernc.org/sqlite, a CGO-free driver, with WAL enabled.
package database
