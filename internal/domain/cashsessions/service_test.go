package cashsessions

import (
	"context"
	"testing"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/clock"
	appctx "tokopos/internal/core/context"
	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
	"tokopos/internal/domain"
)

type fakeRepo struct {
	sessions map[id.ID]*CashSession
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: make(map[id.ID]*CashSession)}
}

func (f *fakeRepo) Create(ctx context.Context, session *CashSession) error {
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, sessionID id.ID) (*CashSession, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, apperror.NewNotFound("cash session", sessionID.String())
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) GetOpenByUser(ctx context.Context, userID id.ID) (*CashSession, error) {
	for _, s := range f.sessions {
		if s.UserID == userID && s.Status == StatusOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("cash session", "open")
}

func (f *fakeRepo) Close(ctx context.Context, session *CashSession) error {
	stored, ok := f.sessions[session.ID]
	if !ok || stored.Status != StatusOpen {
		return apperror.NewInvalidState("cash session", string(StatusClosed))
	}
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*CashSession], error) {
	var out []*CashSession
	for _, s := range f.sessions {
		cp := *s
		out = append(out, &cp)
	}
	return domain.ListResult[*CashSession]{Items: out, TotalCount: int64(len(out))}, nil
}

type fakeSales struct {
	total types.Money
}

func (f *fakeSales) SumCompletedSales(ctx context.Context, cashierID id.ID, from, to time.Time) (types.Money, error) {
	return f.total, nil
}

type passTxManager struct{}

func (passTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var sessionDay = time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

func userCtx(userID id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: userID.String(),
		Name:   "Test Cashier",
		Role:   "CASHIER",
	})
}

func newFixture(salesTotal string) (*Service, *fakeRepo, context.Context) {
	repo := newFakeRepo()
	sales := &fakeSales{total: types.MustMoney(salesTotal)}
	svc := NewService(repo, sales, passTxManager{}, clock.Fixed{T: sessionDay})
	return svc, repo, userCtx(id.New())
}

func TestOpen_CreatesSession(t *testing.T) {
	svc, repo, ctx := newFixture("0")

	session, err := svc.Open(ctx, OpenInput{OpeningBalance: types.MustMoney("100000")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Status != StatusOpen {
		t.Errorf("status = %s, want OPEN", session.Status)
	}
	if len(repo.sessions) != 1 {
		t.Errorf("sessions persisted = %d, want 1", len(repo.sessions))
	}
}

func TestOpen_RejectsSecondOpenSession(t *testing.T) {
	svc, _, ctx := newFixture("0")

	if _, err := svc.Open(ctx, OpenInput{OpeningBalance: types.MustMoney("100000")}); err != nil {
		t.Fatalf("first open: %v", err)
	}
	_, err := svc.Open(ctx, OpenInput{OpeningBalance: types.MustMoney("50000")})
	if !apperror.HasCode(err, apperror.CodeConflict) {
		t.Fatalf("error = %v, want CONFLICT", err)
	}
}

func TestOpen_NegativeBalanceRejected(t *testing.T) {
	svc, _, ctx := newFixture("0")

	_, err := svc.Open(ctx, OpenInput{OpeningBalance: types.MustMoney("-1")})
	if !apperror.HasCode(err, apperror.CodeValidation) {
		t.Fatalf("error = %v, want VALIDATION_ERROR", err)
	}
}

func TestOpen_RequiresAuthenticatedUser(t *testing.T) {
	svc, _, _ := newFixture("0")

	_, err := svc.Open(context.Background(), OpenInput{OpeningBalance: types.MustMoney("100000")})
	if !apperror.HasCode(err, apperror.CodeUnauthorized) {
		t.Fatalf("error = %v, want UNAUTHORIZED", err)
	}
}

func TestClose_ComputesExpectedAndDifference(t *testing.T) {
	svc, _, ctx := newFixture("450000")

	session, err := svc.Open(ctx, OpenInput{OpeningBalance: types.MustMoney("100000")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	closed, err := svc.Close(ctx, CloseInput{
		SessionID:      session.ID,
		ClosingBalance: types.MustMoney("545000"),
		Notes:          "end of shift",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if closed.Status != StatusClosed {
		t.Errorf("status = %s, want CLOSED", closed.Status)
	}
	// expected = 100000 + 450000; difference = 545000 - 550000
	if !closed.ExpectedBalance.Equal(types.MustMoney("550000")) {
		t.Errorf("expected balance = %s, want 550000", closed.ExpectedBalance)
	}
	if !closed.Difference.Equal(types.MustMoney("-5000")) {
		t.Errorf("difference = %s, want -5000", closed.Difference)
	}
}

func TestClose_SecondCloseRejected(t *testing.T) {
	svc, _, ctx := newFixture("0")

	session, err := svc.Open(ctx, OpenInput{OpeningBalance: types.MustMoney("100000")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	in := CloseInput{SessionID: session.ID, ClosingBalance: types.MustMoney("100000")}
	if _, err := svc.Close(ctx, in); err != nil {
		t.Fatalf("first close: %v", err)
	}
	_, err = svc.Close(ctx, in)
	if !apperror.HasCode(err, apperror.CodeInvalidState) {
		t.Fatalf("error = %v, want INVALID_STATE", err)
	}
}

// racingTxManager closes the session out from under the service after it
// has read it but before the guarded update runs, mimicking a concurrent
// close request winning the race.
type racingTxManager struct {
	repo      *fakeRepo
	sessionID id.ID
}

func (m racingTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s, ok := m.repo.sessions[m.sessionID]; ok && s.Status == StatusOpen {
		s.Status = StatusClosed
	}
	return fn(ctx)
}

func TestClose_ConcurrentCloseLosesRace(t *testing.T) {
	repo := newFakeRepo()
	userID := id.New()
	session := &CashSession{
		ID:             id.New(),
		UserID:         userID,
		Status:         StatusOpen,
		OpeningBalance: types.MustMoney("100000"),
		OpenedAt:       sessionDay,
		CreatedAt:      sessionDay,
		UpdatedAt:      sessionDay,
	}
	repo.sessions[session.ID] = session

	txm := racingTxManager{repo: repo, sessionID: session.ID}
	svc := NewService(repo, &fakeSales{total: types.MustMoney("0")}, txm, clock.Fixed{T: sessionDay})

	_, err := svc.Close(userCtx(userID), CloseInput{
		SessionID:      session.ID,
		ClosingBalance: types.MustMoney("100000"),
	})
	if !apperror.HasCode(err, apperror.CodeInvalidState) {
		t.Fatalf("error = %v, want INVALID_STATE", err)
	}
}

func TestClose_UnknownSession(t *testing.T) {
	svc, _, ctx := newFixture("0")

	_, err := svc.Close(ctx, CloseInput{SessionID: id.New(), ClosingBalance: types.MustMoney("0")})
	if !apperror.IsNotFound(err) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}
