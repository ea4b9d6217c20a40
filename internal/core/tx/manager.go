// Package tx defines the unit-of-work contract the domain services
// depend on. The pgx-backed implementation lives in
// infrastructure/storage/postgres.
package tx

import "context"

// Manager runs fn inside a database transaction: commit on nil, rollback
// on error. A call made while a transaction is already on the context
// joins it instead of opening a second one, so a posting service and the
// serial allocator it calls share one unit of work.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds snapshot reads for report queries that issue
// several statements and need them to agree.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
