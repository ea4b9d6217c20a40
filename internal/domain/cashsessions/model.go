// Package cashsessions provides cash drawer open/close reconciliation.
package cashsessions

import (
	"context"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
	"tokopos/internal/domain"
)

// Status of a cash session.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// CashSession tracks one cashier's drawer between opening and closing.
// The expected balance at close is opening balance plus the cashier's
// completed sales during the session; difference is what the drawer
// actually held minus that expectation.
type CashSession struct {
	ID     id.ID  `db:"id" json:"id"`
	UserID id.ID  `db:"user_id" json:"userId"`
	Status Status `db:"status" json:"status"`

	OpeningBalance  types.Money  `db:"opening_balance" json:"openingBalance"`
	ClosingBalance  *types.Money `db:"closing_balance" json:"closingBalance,omitempty"`
	ExpectedBalance *types.Money `db:"expected_balance" json:"expectedBalance,omitempty"`
	Difference      *types.Money `db:"difference" json:"difference,omitempty"`

	OpenedAt time.Time  `db:"opened_at" json:"openedAt"`
	ClosedAt *time.Time `db:"closed_at" json:"closedAt,omitempty"`
	Notes    string     `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// OpenInput starts a session.
type OpenInput struct {
	OpeningBalance types.Money `json:"openingBalance"`
}

// Validate checks the input.
func (in *OpenInput) Validate(ctx context.Context) error {
	if in.OpeningBalance.IsNegative() {
		return apperror.NewValidation("opening balance must not be negative").
			WithDetail("field", "openingBalance")
	}
	return nil
}

// CloseInput ends a session.
type CloseInput struct {
	SessionID      id.ID       `json:"sessionId"`
	ClosingBalance types.Money `json:"closingBalance"`
	Notes          string      `json:"notes,omitempty"`
}

// Validate checks the input.
func (in *CloseInput) Validate(ctx context.Context) error {
	if id.IsNil(in.SessionID) {
		return apperror.NewValidation("session id is required").
			WithDetail("field", "sessionId")
	}
	if in.ClosingBalance.IsNegative() {
		return apperror.NewValidation("closing balance must not be negative").
			WithDetail("field", "closingBalance")
	}
	return nil
}

// ListFilter narrows session listings.
type ListFilter struct {
	UserID   *id.ID
	Status   Status
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// Repository defines storage operations for cash sessions.
type Repository interface {
	// Create inserts a session.
	Create(ctx context.Context, session *CashSession) error

	// GetByID retrieves a session.
	GetByID(ctx context.Context, sessionID id.ID) (*CashSession, error)

	// GetOpenByUser returns the user's OPEN session, or NotFound.
	GetOpenByUser(ctx context.Context, userID id.ID) (*CashSession, error)

	// Close persists close-time fields. Only an OPEN session may
	// transition; a concurrent close makes this fail with INVALID_STATE.
	Close(ctx context.Context, session *CashSession) error

	// List retrieves sessions with filtering.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*CashSession], error)
}
