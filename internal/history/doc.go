// Package history persists export runs in SQLite.
//
// The Store records one row per run: inserted at start, updated as progress
// snapshots arrive, and finalized with the terminal status and artifact
// details. The CLI history command and the status API read from it. Schema
// changes bump the version in store.go; the database is rebuilt rather than
// migrated.
package history
