// Package domain holds the contracts shared by the catalog packages:
// the generic repository and service, list filtering, and the audit hook.
package domain

import (
	"context"

	"tokopos/internal/core/id"
)

// ListFilter is the common query shape for catalog lists.
type ListFilter struct {
	// Search matches substrings of name and code.
	Search string

	IDs            []id.ID
	IncludeDeleted bool

	// OrderBy takes a column with optional direction, e.g. "name" or
	// "created_at DESC". Repositories whitelist the column.
	OrderBy string

	Limit  int
	Offset int
}

func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult is one page of items plus the unpaginated total.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Validatable is implemented by entities that validate their own invariants.
type Validatable interface {
	Validate(ctx context.Context) error
}

// --- Repository Interfaces ---

// CatalogRepository is the persistence contract shared by products,
// categories and partners. Update applies optimistic locking on the
// version column; deletes are always soft (deletion mark).
type CatalogRepository[T Validatable] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id id.ID) (T, error)

	// GetByCode looks up by the unique human-assigned code.
	GetByCode(ctx context.Context, code string) (T, error)

	Update(ctx context.Context, entity T) error
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
	Exists(ctx context.Context, id id.ID) (bool, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// AuditRecorder records who did what to which entity. Implementations are
// expected to participate in the ambient transaction so that audit rows
// vanish together with a rolled-back operation.
type AuditRecorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action string, userID id.ID, payload any) error
}
