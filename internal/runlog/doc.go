// Package runlog persists a history of parse and synthesis runs in SQLite.
//
// Each CLI invocation of a pipeline stage opens a run with Start and closes it
// with Finish, recording counts and a terminal status. The ledger is an audit
// trail for the operator; nothing in the pipeline reads it back to make
// decisions. Schema changes bump schemaVersion in schema.go; users delete the
// database to adopt the new schema.
package runlog
