// Package jwt issues and verifies the signed tokens used across the A-EMS
// services.
//
// Three token types share one claims shape: short-lived access tokens,
// long-lived refresh tokens, and pending-MFA session tokens. The type is
// embedded in the claims and enforced on verification, so a refresh token
// can never pass an access-token check.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Token type values carried in the "type" claim.
const (
	TypeAccess     = "access"
	TypeRefresh    = "refresh"
	TypeMFASession = "mfa_session"
)

// Verification failure kinds. Callers branch on these to pick the right
// client-facing error.
var (
	// ErrExpired indicates the token signature was valid but it has expired.
	ErrExpired = errors.New("jwt: token expired")
	// ErrMalformed indicates the token could not be parsed or verified.
	ErrMalformed = errors.New("jwt: token malformed or invalid")
	// ErrWrongTokenType indicates a valid token of the wrong type.
	ErrWrongTokenType = errors.New("jwt: wrong token type")
)

// Claims is the payload carried by every A-EMS token.
type Claims struct {
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	TenantID  string `json:"tenant_id,omitempty"`
	TokenType string `json:"type"`
	gojwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string { return c.Subject }

// Service signs and verifies tokens.
type Service struct {
	cfg Config
	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new token service.
func NewService(cfg *Config, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{cfg: *cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *Service) AccessTokenTTL() time.Duration { return s.cfg.AccessTokenTTL }

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *Service) RefreshTokenTTL() time.Duration { return s.cfg.RefreshTokenTTL }

// IssueAccess signs an access token for the given identity.
func (s *Service) IssueAccess(userID, email, role, tenantID string) (string, error) {
	return s.issue(userID, email, role, tenantID, TypeAccess, s.cfg.AccessTokenTTL)
}

// IssueRefresh signs a refresh token. The ttl parameter overrides the
// configured lifetime when positive (remember-me logins extend it).
func (s *Service) IssueRefresh(userID, email, role, tenantID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.cfg.RefreshTokenTTL
	}
	return s.issue(userID, email, role, tenantID, TypeRefresh, ttl)
}

// IssueMFASession signs a short-lived token marking a password-verified
// login that still awaits its second factor.
func (s *Service) IssueMFASession(userID, email, role, tenantID string) (string, error) {
	return s.issue(userID, email, role, tenantID, TypeMFASession, s.cfg.MFASessionTTL)
}

func (s *Service) issue(userID, email, role, tenantID, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		Email:     email,
		Role:      role,
		TenantID:  tenantID,
		TokenType: tokenType,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := gojwt.NewWithClaims(s.cfg.signingMethod(), claims)
	signed, err := token.SignedString(s.cfg.key())
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the signature and expiry of a token and returns its
// claims regardless of token type.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !token.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

// VerifyAccess validates an access token.
func (s *Service) VerifyAccess(tokenString string) (*Claims, error) {
	return s.verifyType(tokenString, TypeAccess)
}

// VerifyRefresh validates a refresh token.
func (s *Service) VerifyRefresh(tokenString string) (*Claims, error) {
	return s.verifyType(tokenString, TypeRefresh)
}

// VerifyMFASession validates a pending-MFA session token.
func (s *Service) VerifyMFASession(tokenString string) (*Claims, error) {
	return s.verifyType(tokenString, TypeMFASession)
}

func (s *Service) verifyType(tokenString, wantType string) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// keyFunc is the jwt.Keyfunc used during token parsing.
func (s *Service) keyFunc(token *gojwt.Token) (interface{}, error) {
	expected := s.cfg.signingMethod()
	if token.Method.Alg() != expected.Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return s.cfg.key(), nil
}

// parserOptions returns jwt.ParserOption based on config.
func (s *Service) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{string(s.cfg.Method)}),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	return opts
}
