// Package history persists completed check runs to SQLite so past
// authorization states can be inspected through the API and CLI.
//
// A Run is the durable record of one batch of profile checks: the run
// summary (counts, timing) plus every per-profile result in input order.
// Repository is the storage contract; SQLiteRepository implements it on
// top of the database package.
package history
