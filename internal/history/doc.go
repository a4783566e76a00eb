// Package history journals completed clean-folder runs in a local SQLite
// database.
//
// Each run is one row keyed by its run id: the root that was organized, when
// it started and finished, per-category file counts, archive outcomes and byte
// totals. The journal is optional and only opened when history.enabled is set.
// The schema version lives in PRAGMA user_version; a database from another
// version is rejected and must be removed by hand.
package history
