package cashsessions

import (
	"context"
	"fmt"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/clock"
	appctx "tokopos/internal/core/context"
	"tokopos/internal/core/id"
	"tokopos/internal/core/tx"
	"tokopos/internal/core/types"
	"tokopos/internal/domain"
	"tokopos/pkg/logger"
)

// SalesSummer totals a cashier's completed sales in a time range. The
// transaction repository satisfies it directly.
type SalesSummer interface {
	SumCompletedSales(ctx context.Context, cashierID id.ID, from, to time.Time) (types.Money, error)
}

// Service opens and closes cash sessions.
type Service struct {
	repo      Repository
	sales     SalesSummer
	txManager tx.Manager
	clock     clock.Clock
}

// NewService creates a new cash session service.
func NewService(repo Repository, sales SalesSummer, txManager tx.Manager, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		repo:      repo,
		sales:     sales,
		txManager: txManager,
		clock:     clk,
	}
}

func (s *Service) currentUserID(ctx context.Context) (id.ID, error) {
	uid := appctx.GetUserID(ctx)
	if uid == "" {
		return id.Nil(), apperror.NewUnauthorized("authentication required")
	}
	parsed, err := id.Parse(uid)
	if err != nil {
		return id.Nil(), apperror.NewUnauthorized("invalid user id")
	}
	return parsed, nil
}

// Open starts a session for the authenticated cashier. A cashier can hold
// at most one OPEN session.
func (s *Service) Open(ctx context.Context, in OpenInput) (*CashSession, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}
	userID, err := s.currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetOpenByUser(ctx, userID); err == nil && existing != nil {
		return nil, apperror.NewConflict("an open cash session already exists").
			WithDetail("session_id", existing.ID.String())
	}

	now := s.clock.Now()
	session := &CashSession{
		ID:             id.New(),
		UserID:         userID,
		Status:         StatusOpen,
		OpeningBalance: types.Round2(in.OpeningBalance),
		OpenedAt:       now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, session)
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	logger.Info(ctx, "cash session opened",
		"session_id", session.ID,
		"user_id", userID,
		"opening_balance", session.OpeningBalance)

	return session, nil
}

// Close reconciles and ends a session. Expected balance is the opening
// balance plus the cashier's completed sales between open and close.
func (s *Service) Close(ctx context.Context, in CloseInput) (*CashSession, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	session, err := s.repo.GetByID(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != StatusOpen {
		return nil, apperror.NewInvalidState("cash session", string(session.Status))
	}

	now := s.clock.Now()
	salesTotal, err := s.sales.SumCompletedSales(ctx, session.UserID, session.OpenedAt, now)
	if err != nil {
		return nil, fmt.Errorf("sum sales: %w", err)
	}

	expected := types.Round2(session.OpeningBalance.Add(salesTotal))
	closing := types.Round2(in.ClosingBalance)
	difference := types.Round2(closing.Sub(expected))

	session.Status = StatusClosed
	session.ClosingBalance = &closing
	session.ExpectedBalance = &expected
	session.Difference = &difference
	session.ClosedAt = &now
	session.Notes = in.Notes
	session.UpdatedAt = now

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Close(ctx, session)
	})
	if err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}

	logger.Info(ctx, "cash session closed",
		"session_id", session.ID,
		"expected", expected,
		"closing", closing,
		"difference", difference)

	return session, nil
}

// GetCurrent returns the authenticated cashier's OPEN session.
func (s *Service) GetCurrent(ctx context.Context) (*CashSession, error) {
	userID, err := s.currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetOpenByUser(ctx, userID)
}

// GetByID retrieves a session.
func (s *Service) GetByID(ctx context.Context, sessionID id.ID) (*CashSession, error) {
	return s.repo.GetByID(ctx, sessionID)
}

// List retrieves sessions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*CashSession], error) {
	return s.repo.List(ctx, filter)
}
