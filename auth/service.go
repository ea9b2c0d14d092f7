package auth

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/a-ems/aems/auth/jwt"
	"github.com/a-ems/aems/auth/mfa"
	"github.com/a-ems/aems/auth/password"
	"github.com/a-ems/aems/auth/rbac"
	"github.com/a-ems/aems/errors"
	"github.com/a-ems/aems/logger"
)

// Service orchestrates authentication flows over a Store. All credential
// failures surface as the same AuthenticationError so callers cannot
// probe which accounts exist.
type Service struct {
	store  Store
	tokens *jwt.Service
	hasher password.Hasher
	mfa    *mfa.Provider
	cfg    Config
	log    *logger.Logger
	now    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates the authentication service.
func NewService(cfg Config, store Store, log *logger.Logger, opts ...ServiceOption) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher := password.NewHasher(cfg.Password)
	s := &Service{
		store:  store,
		hasher: hasher,
		mfa:    mfa.NewProvider(hasher),
		cfg:    cfg,
		log:    log.WithComponent("auth"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Token expiry runs on the same clock as lockout bookkeeping.
	tokens, err := jwt.NewService(&cfg.JWT, jwt.WithClock(s.now))
	if err != nil {
		return nil, err
	}
	s.tokens = tokens
	return s, nil
}

// Tokens exposes the token service for middleware that verifies access
// tokens.
func (s *Service) Tokens() *jwt.Service { return s.tokens }

// LoginRequest carries password-login credentials.
type LoginRequest struct {
	Email      string
	Password   string
	RememberMe bool
}

// Login verifies credentials. Accounts with MFA enabled get a pending
// session token instead of the final pair.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		if stderrors.Is(err, ErrUserNotFound) {
			return nil, errors.Authentication("")
		}
		return nil, errors.Database(err)
	}

	if appErr := s.checkLocked(user); appErr != nil {
		return nil, appErr
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, s.recordFailure(ctx, user)
	}

	if user.MFAEnabled() {
		session, err := s.tokens.IssueMFASession(user.ID, user.Email, user.Role, user.TenantID)
		if err != nil {
			return nil, errors.Internal(err)
		}
		s.log.WithContext(ctx).Info("login pending mfa", logger.Fields(logger.FieldEmail, user.Email))
		return &LoginResult{MFARequired: true, MFAToken: session}, nil
	}

	pair, err := s.completeLogin(ctx, user, req.RememberMe)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Tokens: pair}, nil
}

// VerifyMFA completes a pending login with a live TOTP code or a backup
// code. Backup codes are consumed on use. Failures count toward lockout
// just like wrong passwords.
func (s *Service) VerifyMFA(ctx context.Context, sessionToken, code string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyMFASession(sessionToken)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := s.store.FindByID(ctx, claims.UserID())
	if err != nil {
		if stderrors.Is(err, ErrUserNotFound) {
			return nil, errors.Authentication("")
		}
		return nil, errors.Database(err)
	}
	if !user.MFAEnabled() {
		return nil, errors.Authentication("")
	}
	if appErr := s.checkLocked(user); appErr != nil {
		return nil, appErr
	}

	if mfa.IsBackupCodeFormat(code) {
		idx := s.mfa.MatchBackupCode(code, user.MFA.BackupCodeHashes)
		if idx < 0 {
			return nil, s.recordFailure(ctx, user)
		}
		user.MFA.BackupCodeHashes = append(user.MFA.BackupCodeHashes[:idx], user.MFA.BackupCodeHashes[idx+1:]...)
		s.log.WithContext(ctx).Info("backup code consumed", logger.Fields(
			logger.FieldUserID, user.ID,
			"codes_remaining", len(user.MFA.BackupCodeHashes),
		))
	} else if !mfa.VerifyTOTP(user.MFA.Secret, code, s.now(), s.cfg.TOTPSkew) {
		return nil, s.recordFailure(ctx, user)
	}

	return s.completeLogin(ctx, user, false)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	// Re-read the account so revoked or locked users lose access at
	// refresh time even though the token itself is stateless.
	user, err := s.store.FindByID(ctx, claims.UserID())
	if err != nil {
		if stderrors.Is(err, ErrUserNotFound) {
			return nil, errors.Authentication("")
		}
		return nil, errors.Database(err)
	}
	if appErr := s.checkLocked(user); appErr != nil {
		return nil, appErr
	}

	return s.issuePair(user, 0)
}

// RegisterRequest carries a new account's fields.
type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	TenantID  string
}

// Register creates an account. The password must score as valid; the
// role defaults to "user" and must be one of the defined roles.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Role == "" {
		req.Role = string(rbac.RoleUser)
	}
	if !rbac.IsValidRole(req.Role) {
		return nil, errors.Validation("role: must be one of admin, manager, user, viewer")
	}

	strength := password.Score(req.Password)
	if !strength.Valid {
		return nil, errors.Validation("password does not meet the strength requirements").
			WithDetail("feedback", strength.Feedback).
			WithDetail("score", strength.Score)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Internal(err)
	}

	now := s.now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		TenantScoped: TenantScoped{TenantID: req.TenantID},
		Timestamps:   Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	if err := s.store.Create(ctx, user); err != nil {
		if stderrors.Is(err, ErrDuplicateEmail) {
			return nil, errors.Conflict("An account with this email already exists.")
		}
		return nil, errors.Database(err)
	}

	s.log.WithContext(ctx).Info("user registered", logger.Fields(
		logger.FieldUserID, user.ID,
		logger.FieldEmail, user.Email,
		"role", user.Role,
	))
	return user, nil
}

// ChangePassword replaces a user's password after verifying the current
// one. The new password must score as valid.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, ErrUserNotFound) {
			return errors.Authentication("")
		}
		return errors.Database(err)
	}

	if !s.hasher.Verify(current, user.PasswordHash) {
		return errors.Authentication("Current password is incorrect.")
	}

	strength := password.Score(next)
	if !strength.Valid {
		return errors.Validation("password does not meet the strength requirements").
			WithDetail("feedback", strength.Feedback).
			WithDetail("score", strength.Score)
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return errors.Internal(err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, user); err != nil {
		return errors.Database(err)
	}
	s.log.WithContext(ctx).Info("password changed", logger.Fields(logger.FieldUserID, user.ID))
	return nil
}

// Logout clears lockout bookkeeping and logs the event. Access tokens
// are stateless and expire on their own.
func (s *Service) Logout(ctx context.Context, userID string) error {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, ErrUserNotFound) {
			return nil
		}
		return errors.Database(err)
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	if err := s.store.Update(ctx, user); err != nil {
		return errors.Database(err)
	}
	s.log.WithContext(ctx).Info("user logged out", logger.Fields(logger.FieldUserID, userID))
	return nil
}

// SetupMFA enrolls a user: generates a secret and backup codes, stores
// the hashes, and returns the plaintext material exactly once.
func (s *Service) SetupMFA(ctx context.Context, userID string) (*MFASetup, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, ErrUserNotFound) {
			return nil, errors.Authentication("")
		}
		return nil, errors.Database(err)
	}

	secret, err := s.mfa.GenerateSecret()
	if err != nil {
		return nil, errors.Internal(err)
	}
	codes, err := s.mfa.GenerateBackupCodes(mfa.DefaultBackupCodeCount)
	if err != nil {
		return nil, errors.Internal(err)
	}
	hashes, err := s.mfa.HashCodes(codes)
	if err != nil {
		return nil, errors.Internal(err)
	}

	user.MFA = MFAState{Enabled: true, Secret: secret, BackupCodeHashes: hashes}
	user.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, user); err != nil {
		return nil, errors.Database(err)
	}

	s.log.WithContext(ctx).Info("mfa enabled", logger.Fields(logger.FieldUserID, user.ID))
	return &MFASetup{Secret: secret, BackupCodes: codes}, nil
}

// CurrentUser loads the account behind a verified principal.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, ErrUserNotFound) {
			return nil, errors.Authentication("")
		}
		return nil, errors.Database(err)
	}
	return user, nil
}

// --- internals ---

// checkLocked returns an AccountLocked error while the lockout window is
// open and lazily clears it once it has passed.
func (s *Service) checkLocked(user *User) *errors.AppError {
	if user.LockedUntil == nil {
		return nil
	}
	if s.now().Before(*user.LockedUntil) {
		return errors.AccountLocked(*user.LockedUntil)
	}
	user.LockedUntil = nil
	user.FailedLoginAttempts = 0
	return nil
}

// recordFailure increments the failure counter, locking the account when
// it reaches the limit, and always returns the normalized credential
// error.
func (s *Service) recordFailure(ctx context.Context, user *User) error {
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= s.cfg.MaxLoginAttempts {
		until := s.now().Add(s.cfg.LockoutDuration)
		user.LockedUntil = &until
		s.log.WithContext(ctx).Warn("account locked", logger.Fields(
			logger.FieldUserID, user.ID,
			"attempts", user.FailedLoginAttempts,
			"locked_until", until.UTC().Format(time.RFC3339),
		))
	}
	if err := s.store.Update(ctx, user); err != nil {
		return errors.Database(err)
	}
	if user.LockedUntil != nil {
		return errors.AccountLocked(*user.LockedUntil)
	}
	return errors.Authentication("")
}

func (s *Service) completeLogin(ctx context.Context, user *User, rememberMe bool) (*TokenPair, error) {
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	now := s.now().UTC()
	user.LastLoginAt = &now
	if err := s.store.Update(ctx, user); err != nil {
		return nil, errors.Database(err)
	}

	var refreshTTL time.Duration
	if rememberMe {
		refreshTTL = s.tokens.RefreshTokenTTL() * time.Duration(s.cfg.RememberMeFactor)
	}

	s.log.WithContext(ctx).Info("login succeeded", logger.Fields(
		logger.FieldUserID, user.ID,
		logger.FieldEmail, user.Email,
	))
	return s.issuePair(user, refreshTTL)
}

func (s *Service) issuePair(user *User, refreshTTL time.Duration) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(user.ID, user.Email, user.Role, user.TenantID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID, user.Email, user.Role, user.TenantID, refreshTTL)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// tokenError maps codec failures onto client-facing errors.
func tokenError(err error) *errors.AppError {
	if stderrors.Is(err, jwt.ErrExpired) {
		return errors.TokenExpired()
	}
	return errors.InvalidToken()
}
