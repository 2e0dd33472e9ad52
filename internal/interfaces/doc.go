// Package interfaces documents the core abstractions used throughout the application.
//
// # Record Lookup
//
//   - RecordResolver: PID value to identifier and record (internal/http/stores.go)
//   - Minter: assigns an identifier to a stored record (internal/pids/minter.go)
//
// # Search
//
//   - RecordSearcher: text queries over the index (internal/http/stores.go)
//   - RecordIndexer: single-record and full rebuilds (internal/tasks/index_record.go)
//
// # Operations Log
//
//   - AuditLog: listing of maintenance operations (internal/http/stores.go)
//
// # Adding a New Identifier Scheme
//
// To mint a second kind of PID next to recid, implement Minter in
// internal/pids/ and do every write through tx so it rolls back with the
// batch:
//
//	func MintDOI(tx *gorm.DB, recordID string, data entities.RecordJSON) (*entities.PersistentIdentifier, error) {
//		// ...
//	}
//
//	var _ Minter = MinterFunc(MintDOI)
//
// Then pass it to fixtures.NewLoader in internal/entrypoint/app.go.
//
// # Adding a Background Task
//
//  1. Define the task type with a Config method in internal/tasks/
//  2. Write a processor and a NewXQueue constructor
//  3. Register the queue in App.NewTaskClient
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the current set.
package interfaces
