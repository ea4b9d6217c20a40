// Package cashsession_repo provides the PostgreSQL cash session repository.
package cashsession_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/domain"
	"tokopos/internal/domain/cashsessions"
	"tokopos/internal/infrastructure/storage/postgres"
)

var _ cashsessions.Repository = (*Repo)(nil)

// Repo is the PostgreSQL cash session repository.
type Repo struct {
	txManager *postgres.TxManager
	cols      []string
}

// New creates a new cash session repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[cashsessions.CashSession](),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a session. The partial unique index on (user_id) WHERE
// status = 'OPEN' backstops the one-open-session rule.
func (r *Repo) Create(ctx context.Context, session *cashsessions.CashSession) error {
	data := postgres.StructToMap(session)

	filtered := make(map[string]any, len(r.cols))
	for _, col := range r.cols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert("cash_sessions").
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByID retrieves a session.
func (r *Repo) GetByID(ctx context.Context, sessionID id.ID) (*cashsessions.CashSession, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From("cash_sessions").
		Where(squirrel.Eq{"id": sessionID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	session := &cashsessions.CashSession{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), session, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("cash session", sessionID.String())
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// GetOpenByUser returns the user's OPEN session, or NotFound.
func (r *Repo) GetOpenByUser(ctx context.Context, userID id.ID) (*cashsessions.CashSession, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From("cash_sessions").
		Where(squirrel.Eq{"user_id": userID, "status": cashsessions.StatusOpen}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	session := &cashsessions.CashSession{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), session, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("cash session", "open")
		}
		return nil, fmt.Errorf("get open session: %w", err)
	}
	return session, nil
}

// Close persists close-time fields. The status predicate makes the
// transition atomic: if another request closed the session after the
// service read it, zero rows match and the race loser gets INVALID_STATE.
func (r *Repo) Close(ctx context.Context, session *cashsessions.CashSession) error {
	data := postgres.StructToMap(session)

	filtered := make(map[string]any, len(r.cols))
	for _, col := range r.cols {
		if col == "id" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Update("cash_sessions").
		SetMap(filtered).
		Where(squirrel.Eq{"id": session.ID, "status": cashsessions.StatusOpen}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewInvalidState("cash session", string(cashsessions.StatusClosed))
	}
	return nil
}

// List retrieves sessions with filtering, newest first.
func (r *Repo) List(ctx context.Context, filter cashsessions.ListFilter) (domain.ListResult[*cashsessions.CashSession], error) {
	result := domain.ListResult[*cashsessions.CashSession]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(r.cols...).
		From("cash_sessions")

	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"opened_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"opened_at": *filter.DateTo})
	}

	countSQL, countArgs, err := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("opened_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	return result, nil
}
