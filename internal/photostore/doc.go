// Package photostore persists the verified photo set in SQLite, one record
// per catalog pose keyed by pose id. The store guarantees read-after-write
// consistency within a session; the controller is the only writer.
package photostore
