package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
)

type fakeUserRepo struct {
	byEmail   map[string]*User
	byID      map[id.ID]*User
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*User),
		byID:    make(map[id.ID]*User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return apperror.NewDuplicate("user", "email", user.Email)
	}
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	u, ok := r.byID[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	return u, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[user.ID]; !ok {
		return apperror.NewNotFound("user", user.ID.String())
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter UserFilter) ([]User, int, error) {
	users := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, *u)
	}
	return users, len(users), nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

type passTxManager struct{}

func (passTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *fakeUserRepo) *Service {
	jwtService := NewJWTService(JWTConfig{
		Secret:         "test-secret",
		Issuer:         "tokopos-test",
		AccessTokenTTL: time.Hour,
	})
	return NewService(repo, passTxManager{}, jwtService, DefaultServiceConfig())
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Email:    "cashier@example.com",
		Name:     "Cashier One",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != RoleCashier {
		t.Errorf("default role = %q, want %q", user.Role, RoleCashier)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Error("password stored in plain text")
	}

	token, loggedIn, err := svc.Login(ctx, Credentials{
		Email:    "cashier@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token.AccessToken == "" {
		t.Error("empty access token")
	}
	if loggedIn.LastLoginAt == nil {
		t.Error("last login not recorded")
	}

	claims, err := svc.jwtService.ValidateToken(token.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("token user = %q, want %q", claims.UserID, user.ID)
	}
	if claims.Role != RoleCashier {
		t.Errorf("token role = %q, want %q", claims.Role, RoleCashier)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	req := RegisterRequest{Email: "dup@example.com", Name: "First", Password: "password1"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(ctx, req)
	if !apperror.HasCode(err, apperror.CodeConflict) {
		t.Fatalf("want CONFLICT, got %v", err)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "short@example.com",
		Name:     "Short",
		Password: "abc",
	})
	if !apperror.HasCode(err, apperror.CodeValidation) {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Email:    "user@example.com",
		Name:     "User",
		Password: "correct-pass",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err := svc.Login(ctx, Credentials{Email: "user@example.com", Password: "wrong-pass"})
	if !apperror.HasCode(err, apperror.CodeUnauthorized) {
		t.Fatalf("want UNAUTHORIZED, got %v", err)
	}

	user, _ := repo.GetByEmail(ctx, "user@example.com")
	if user.FailedLoginAttempts != 1 {
		t.Errorf("failed attempts = %d, want 1", user.FailedLoginAttempts)
	}
}

func TestLogin_SurvivesCounterPersistenceFailure(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Email:    "flaky@example.com",
		Name:     "Flaky",
		Password: "correct-pass",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	repo.updateErr = errors.New("connection reset")

	// Wrong password still reads as invalid credentials, not an internal error.
	_, _, err := svc.Login(ctx, Credentials{Email: "flaky@example.com", Password: "wrong"})
	if !apperror.HasCode(err, apperror.CodeUnauthorized) {
		t.Fatalf("want UNAUTHORIZED, got %v", err)
	}

	// Correct password still yields a token even if the counter reset
	// cannot be saved.
	token, _, err := svc.Login(ctx, Credentials{Email: "flaky@example.com", Password: "correct-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token.AccessToken == "" {
		t.Error("empty access token")
	}
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Email:    "locked@example.com",
		Name:     "Locked",
		Password: "correct-pass",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	bad := Credentials{Email: "locked@example.com", Password: "wrong"}
	for i := 0; i < DefaultServiceConfig().MaxLoginAttempts; i++ {
		_, _, _ = svc.Login(ctx, bad)
	}

	// Correct password is rejected while the account is locked.
	_, _, err := svc.Login(ctx, Credentials{Email: "locked@example.com", Password: "correct-pass"})
	if err == nil {
		t.Fatal("expected locked account error")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService(JWTConfig{Secret: "secret-a", Issuer: "tokopos", AccessTokenTTL: time.Hour})
	verifier := NewJWTService(JWTConfig{Secret: "secret-b", Issuer: "tokopos", AccessTokenTTL: time.Hour})

	token, _, err := issuer.GenerateAccessToken(id.New().String(), "Name", "a@b.c", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("token validated with wrong secret")
	}
}
