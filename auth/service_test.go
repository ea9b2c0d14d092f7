package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/a-ems/aems/auth"
	"github.com/a-ems/aems/auth/mfa"
	"github.com/a-ems/aems/errors"
	"github.com/a-ems/aems/logger"
)

const (
	testEmail    = "alice@example.com"
	testPassword = "Gx7!mQp2Vz#r"
)

type fixture struct {
	svc   *auth.Service
	store *auth.MemoryStore
	now   *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := auth.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret!"
	cfg.Password.BcryptCost = 4 // keep test runs fast

	store := auth.NewMemoryStore()
	svc, err := auth.NewService(cfg, store, logger.NewDefault("auth-test"),
		auth.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{svc: svc, store: store, now: &now}
}

func (f *fixture) advance(d time.Duration) { *f.now = f.now.Add(d) }

func (f *fixture) register(t *testing.T) *auth.User {
	t.Helper()
	user, err := f.svc.Register(context.Background(), auth.RegisterRequest{
		Email:     testEmail,
		Password:  testPassword,
		FirstName: "Alice",
		LastName:  "Nguyen",
		TenantID:  "tenant-1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user
}

func wantCode(t *testing.T, err error, code errors.ErrorCode) *errors.AppError {
	t.Helper()
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError with code %s, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

func TestRegisterDefaultsRole(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)

	if user.Role != "user" {
		t.Errorf("expected default role user, got %q", user.Role)
	}
	if user.ID == "" {
		t.Error("expected a generated user ID")
	}
	if user.TenantID != "tenant-1" {
		t.Errorf("expected tenant-1, got %q", user.TenantID)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), auth.RegisterRequest{
		Email:     testEmail,
		Password:  "password123",
		FirstName: "Alice",
		LastName:  "Nguyen",
	})
	appErr := wantCode(t, err, errors.ErrCodeValidation)
	if appErr.Details["feedback"] == nil {
		t.Error("expected strength feedback in details")
	}
}

func TestRegisterInvalidRole(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), auth.RegisterRequest{
		Email:     testEmail,
		Password:  testPassword,
		FirstName: "Alice",
		LastName:  "Nguyen",
		Role:      "superuser",
	})
	wantCode(t, err, errors.ErrCodeValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	_, err := f.svc.Register(context.Background(), auth.RegisterRequest{
		Email:     "ALICE@example.com",
		Password:  testPassword,
		FirstName: "Alice",
		LastName:  "Nguyen",
	})
	wantCode(t, err, errors.ErrCodeConflict)
}

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	result, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: testEmail, Password: testPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.MFARequired {
		t.Fatal("did not expect MFA to be required")
	}
	if result.Tokens == nil || result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}
	if result.Tokens.TokenType != "bearer" {
		t.Errorf("expected bearer token type, got %q", result.Tokens.TokenType)
	}
	if result.Tokens.ExpiresIn != int64((30 * time.Minute).Seconds()) {
		t.Errorf("expected 1800s expiry, got %d", result.Tokens.ExpiresIn)
	}

	claims, err := f.svc.Tokens().VerifyAccess(result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.Email != testEmail {
		t.Errorf("expected claims for %s, got %s", testEmail, claims.Email)
	}
}

func TestLoginWrongPasswordIsNormalized(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: testEmail, Password: "wrong"})
	appErr := wantCode(t, err, errors.ErrCodeAuthentication)

	_, err = f.svc.Login(context.Background(), auth.LoginRequest{Email: "nobody@example.com", Password: "wrong"})
	appErr2 := wantCode(t, err, errors.ErrCodeAuthentication)

	// Wrong password and unknown account must be indistinguishable.
	if appErr.Message != appErr2.Message {
		t.Errorf("messages differ: %q vs %q", appErr.Message, appErr2.Message)
	}
}

func TestLoginLockout(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: "wrong"})
		wantCode(t, err, errors.ErrCodeAuthentication)
	}

	// Fifth failure trips the lock.
	_, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: "wrong"})
	wantCode(t, err, errors.ErrCodeAccountLocked)

	// Correct password is refused while locked.
	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword})
	appErr := wantCode(t, err, errors.ErrCodeAccountLocked)
	if appErr.Details["locked_until"] == nil {
		t.Error("expected locked_until detail")
	}

	// The window passing clears the lock.
	f.advance(16 * time.Minute)
	if _, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword}); err != nil {
		t.Fatalf("login after lockout expiry: %v", err)
	}
}

func TestLoginSuccessResetsFailures(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: "wrong"})
	}
	if _, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// The counter restarted, so four more failures stay unlocked.
	for i := 0; i < 4; i++ {
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: "wrong"})
		wantCode(t, err, errors.ErrCodeAuthentication)
	}
}

func TestRememberMeExtendsRefresh(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()

	result, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword, RememberMe: true})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := f.svc.Tokens().VerifyRefresh(result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if want := 4 * 7 * 24 * time.Hour; lifetime != want {
		t.Errorf("expected %s refresh lifetime, got %s", want, lifetime)
	}
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()

	result, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	pair, err := f.svc.Refresh(ctx, result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a new token pair")
	}

	// An access token must not be accepted as a refresh token.
	_, err = f.svc.Refresh(ctx, result.Tokens.AccessToken)
	wantCode(t, err, errors.ErrCodeInvalidToken)
}

func TestRefreshExpired(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()

	result, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	f.advance(8 * 24 * time.Hour)
	_, err = f.svc.Refresh(ctx, result.Tokens.RefreshToken)
	wantCode(t, err, errors.ErrCodeTokenExpired)
}

func TestMFALoginFlow(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	ctx := context.Background()

	setup, err := f.svc.SetupMFA(ctx, user.ID)
	if err != nil {
		t.Fatalf("SetupMFA: %v", err)
	}
	if len(setup.BackupCodes) != mfa.DefaultBackupCodeCount {
		t.Fatalf("expected %d backup codes, got %d", mfa.DefaultBackupCodeCount, len(setup.BackupCodes))
	}

	result, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !result.MFARequired {
		t.Fatal("expected MFA to be required")
	}
	if result.Tokens != nil {
		t.Fatal("tokens must not be issued before MFA completes")
	}

	code := mfa.GenerateTOTP(setup.Secret, *f.now)
	pair, err := f.svc.VerifyMFA(ctx, result.MFAToken, code)
	if err != nil {
		t.Fatalf("VerifyMFA: %v", err)
	}
	if pair.AccessToken == "" {
		t.Fatal("expected an access token after MFA")
	}
}

func TestMFABackupCodeSingleUse(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	ctx := context.Background()

	setup, err := f.svc.SetupMFA(ctx, user.ID)
	if err != nil {
		t.Fatalf("SetupMFA: %v", err)
	}

	login := func() string {
		result, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		return result.MFAToken
	}

	backup := setup.BackupCodes[0]
	if _, err := f.svc.VerifyMFA(ctx, login(), backup); err != nil {
		t.Fatalf("VerifyMFA with backup code: %v", err)
	}

	// The same code is consumed and must be refused on reuse.
	_, err = f.svc.VerifyMFA(ctx, login(), backup)
	wantCode(t, err, errors.ErrCodeAuthentication)

	// A different code still works.
	if _, err := f.svc.VerifyMFA(ctx, login(), setup.BackupCodes[1]); err != nil {
		t.Fatalf("VerifyMFA with second backup code: %v", err)
	}
}

func TestMFAFailuresCountTowardLockout(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	ctx := context.Background()

	if _, err := f.svc.SetupMFA(ctx, user.ID); err != nil {
		t.Fatalf("SetupMFA: %v", err)
	}
	result, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	for i := 0; i < 4; i++ {
		_, err := f.svc.VerifyMFA(ctx, result.MFAToken, "000000")
		wantCode(t, err, errors.ErrCodeAuthentication)
	}
	_, err = f.svc.VerifyMFA(ctx, result.MFAToken, "000000")
	wantCode(t, err, errors.ErrCodeAccountLocked)
}

func TestVerifyMFARejectsAccessToken(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()

	result, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	_, err = f.svc.VerifyMFA(ctx, result.Tokens.AccessToken, "000000")
	wantCode(t, err, errors.ErrCodeInvalidToken)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	ctx := context.Background()

	next := "Zq9@wEr5Ty#u"
	if err := f.svc.ChangePassword(ctx, user.ID, testPassword, next); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword}); err == nil {
		t.Fatal("old password should be refused")
	}
	if _, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: next}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)

	err := f.svc.ChangePassword(context.Background(), user.ID, "wrong", "Zq9@wEr5Ty#u")
	wantCode(t, err, errors.ErrCodeAuthentication)
}

func TestChangePasswordWeakNext(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)

	err := f.svc.ChangePassword(context.Background(), user.ID, testPassword, "weak")
	wantCode(t, err, errors.ErrCodeValidation)
}

func TestLogoutUnknownUserIsNoop(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.Logout(context.Background(), "no-such-user"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
}

func TestMFASessionTokenExpires(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	ctx := context.Background()

	if _, err := f.svc.SetupMFA(ctx, user.ID); err != nil {
		t.Fatalf("SetupMFA: %v", err)
	}
	result, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	f.advance(11 * time.Minute)
	_, err = f.svc.VerifyMFA(ctx, result.MFAToken, "000000")
	wantCode(t, err, errors.ErrCodeTokenExpired)
}

