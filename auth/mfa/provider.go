// Package mfa implements the second authentication factor: TOTP secrets
// and single-use backup codes.
//
// Backup codes are stored only as bcrypt hashes. Consuming a code is the
// caller's job: MatchBackupCode returns the index of the matched hash so
// the caller can remove it from the stored set.
package mfa

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"github.com/a-ems/aems/auth/password"
)

const (
	// SecretLength is the length of generated TOTP secrets.
	SecretLength = 16

	// DefaultBackupCodeCount is the number of backup codes issued at setup.
	DefaultBackupCodeCount = 8

	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
)

var backupCodePattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// Provider generates and verifies MFA material.
type Provider struct {
	hasher password.Hasher
}

// NewProvider creates an MFA provider using the given hasher for backup
// code storage.
func NewProvider(hasher password.Hasher) *Provider {
	return &Provider{hasher: hasher}
}

// GenerateSecret returns a new 16-character base32 TOTP secret.
func (p *Provider) GenerateSecret() (string, error) {
	max := big.NewInt(int64(len(secretAlphabet)))
	out := make([]byte, SecretLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("mfa: generate secret: %w", err)
		}
		out[i] = secretAlphabet[n.Int64()]
	}
	return string(out), nil
}

// GenerateBackupCodes returns count plaintext backup codes in the form
// "1234-5678". Counts below 1 fall back to the default of 8.
func (p *Provider) GenerateBackupCodes(count int) ([]string, error) {
	if count < 1 {
		count = DefaultBackupCodeCount
	}
	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		digits := make([]byte, 8)
		for j := range digits {
			n, err := rand.Int(rand.Reader, big.NewInt(10))
			if err != nil {
				return nil, fmt.Errorf("mfa: generate backup code: %w", err)
			}
			digits[j] = byte('0' + n.Int64())
		}
		codes = append(codes, fmt.Sprintf("%s-%s", digits[:4], digits[4:]))
	}
	return codes, nil
}

// HashCodes hashes plaintext backup codes for storage.
func (p *Provider) HashCodes(codes []string) ([]string, error) {
	hashed := make([]string, 0, len(codes))
	for _, code := range codes {
		h, err := p.hasher.Hash(code)
		if err != nil {
			return nil, fmt.Errorf("mfa: hash backup code: %w", err)
		}
		hashed = append(hashed, h)
	}
	return hashed, nil
}

// MatchBackupCode returns the index of the hash the code matches, or -1.
// Callers must remove the matched hash to keep codes single-use.
func (p *Provider) MatchBackupCode(code string, hashedCodes []string) int {
	for i, h := range hashedCodes {
		if p.hasher.Verify(code, h) {
			return i
		}
	}
	return -1
}

// VerifyBackupCode reports whether the code matches any stored hash.
func (p *Provider) VerifyBackupCode(code string, hashedCodes []string) bool {
	return p.MatchBackupCode(code, hashedCodes) >= 0
}

// IsBackupCodeFormat reports whether the input looks like a backup code
// rather than a live TOTP code.
func IsBackupCodeFormat(code string) bool {
	return backupCodePattern.MatchString(code)
}
