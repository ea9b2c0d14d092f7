// Package auth implements the authentication core: login with optional
// MFA, token refresh, registration, password changes, and MFA enrollment.
//
// The service is storage-agnostic. It talks to a Store interface; an
// in-memory implementation ships for development and tests, production
// deployments plug in their own.
package auth

import "time"

// Timestamps carries creation and modification times, embedded by value
// in persistent entities.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TenantScoped marks an entity as belonging to a tenant.
type TenantScoped struct {
	TenantID string `json:"tenant_id"`
}

// MFAState holds a user's second-factor material. The secret and code
// hashes never leave the auth service.
type MFAState struct {
	Enabled          bool
	Secret           string
	BackupCodeHashes []string
}

// User is an account record.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	TenantScoped

	MFA MFAState `json:"-"`

	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Timestamps
}

// MFAEnabled reports whether the account requires a second factor.
func (u *User) MFAEnabled() bool { return u.MFA.Enabled }

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
}

// TokenPair is the response to a completed authentication.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginResult is the outcome of a password login. Either Tokens is set,
// or MFARequired is true and MFAToken carries the pending session.
type LoginResult struct {
	MFARequired bool       `json:"mfa_required"`
	MFAToken    string     `json:"mfa_token,omitempty"`
	Tokens      *TokenPair `json:"tokens,omitempty"`
}

// MFASetup is returned exactly once when a user enrolls; the plaintext
// backup codes are not recoverable afterwards.
type MFASetup struct {
	Secret      string   `json:"secret"`
	BackupCodes []string `json:"backup_codes"`
}
