// Package journal persists geomatch run history in SQLite.
//
// Each run records the inputs it was given (history export, event manifest,
// threshold), its outcome counts, and one row per positively matched event so
// past runs can be inspected with `geomatch runs`. The database is the tool's
// own operational record; nothing here writes into photos or their metadata.
//
// The schema version lives in schema.go; bump it on schema changes and users
// delete the journal to adopt the new layout.
package journal
