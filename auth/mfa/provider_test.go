package mfa_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/a-ems/aems/auth/mfa"
	"github.com/a-ems/aems/auth/password"
)

func newProvider() *mfa.Provider {
	return mfa.NewProvider(password.NewBcryptHasher(password.WithCost(4)))
}

func TestGenerateSecret(t *testing.T) {
	p := newProvider()

	secret, err := p.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}
	if len(secret) != 16 {
		t.Errorf("expected 16-character secret, got %d", len(secret))
	}
	if !regexp.MustCompile(`^[A-Z2-7]{16}$`).MatchString(secret) {
		t.Errorf("secret %q contains characters outside the base32 alphabet", secret)
	}

	other, _ := p.GenerateSecret()
	if secret == other {
		t.Error("two generated secrets should differ")
	}
}

func TestGenerateBackupCodes(t *testing.T) {
	p := newProvider()

	codes, err := p.GenerateBackupCodes(8)
	if err != nil {
		t.Fatalf("GenerateBackupCodes failed: %v", err)
	}
	if len(codes) != 8 {
		t.Fatalf("expected 8 codes, got %d", len(codes))
	}

	pattern := regexp.MustCompile(`^\d{4}-\d{4}$`)
	seen := map[string]bool{}
	for _, code := range codes {
		if !pattern.MatchString(code) {
			t.Errorf("code %q does not match XXXX-XXXX", code)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("codes look suspiciously non-random")
	}
}

func TestGenerateBackupCodesDefaultCount(t *testing.T) {
	p := newProvider()
	codes, err := p.GenerateBackupCodes(0)
	if err != nil {
		t.Fatalf("GenerateBackupCodes failed: %v", err)
	}
	if len(codes) != mfa.DefaultBackupCodeCount {
		t.Errorf("expected default count %d, got %d", mfa.DefaultBackupCodeCount, len(codes))
	}
}

func TestBackupCodeSingleUse(t *testing.T) {
	p := newProvider()

	codes, _ := p.GenerateBackupCodes(3)
	hashed, err := p.HashCodes(codes)
	if err != nil {
		t.Fatalf("HashCodes failed: %v", err)
	}
	for i, h := range hashed {
		if h == codes[i] {
			t.Fatal("stored codes must be hashed, not plaintext")
		}
	}

	idx := p.MatchBackupCode(codes[1], hashed)
	if idx != 1 {
		t.Fatalf("expected match at index 1, got %d", idx)
	}

	// Consume the code the way the auth service does.
	hashed = append(hashed[:idx], hashed[idx+1:]...)

	if p.VerifyBackupCode(codes[1], hashed) {
		t.Error("consumed code must not verify again")
	}
	if !p.VerifyBackupCode(codes[0], hashed) {
		t.Error("remaining codes must still verify")
	}
}

func TestMatchBackupCodeMiss(t *testing.T) {
	p := newProvider()

	codes, _ := p.GenerateBackupCodes(2)
	hashed, _ := p.HashCodes(codes)

	if idx := p.MatchBackupCode("0000-0000", hashed); idx != -1 {
		if codes[0] != "0000-0000" && codes[1] != "0000-0000" {
			t.Errorf("expected no match, got index %d", idx)
		}
	}
}

func TestIsBackupCodeFormat(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"1234-5678", true},
		{"0000-0000", true},
		{"12345678", false},
		{"1234-567", false},
		{"abcd-efgh", false},
		{"123456", false},
	}
	for _, tc := range tests {
		if got := mfa.IsBackupCodeFormat(tc.code); got != tc.want {
			t.Errorf("IsBackupCodeFormat(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestTOTPRoundTrip(t *testing.T) {
	p := newProvider()
	secret, _ := p.GenerateSecret()
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	code := mfa.GenerateTOTP(secret, at)
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}
	if !mfa.VerifyTOTP(secret, code, at, 1) {
		t.Error("expected code to verify at generation time")
	}
}

func TestTOTPSkewWindow(t *testing.T) {
	p := newProvider()
	secret, _ := p.GenerateSecret()
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	code := mfa.GenerateTOTP(secret, at)

	if !mfa.VerifyTOTP(secret, code, at.Add(30*time.Second), 1) {
		t.Error("expected code to verify one step later with skew 1")
	}
	if mfa.VerifyTOTP(secret, code, at.Add(2*time.Minute), 1) {
		t.Error("expected code to fail four steps later")
	}
	if mfa.VerifyTOTP(secret, code, at.Add(time.Minute), 0) {
		t.Error("expected code to fail outside zero-skew window")
	}
}

func TestTOTPKnownVectors(t *testing.T) {
	// RFC 6238 test vectors use the ASCII secret "12345678901234567890".
	// Base32 form: GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ. The published values are
	// 8 digits; the trailing 6 are checked here.
	secret := "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
	tests := []struct {
		unix int64
		want string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1234567890, "005924"},
		{2000000000, "279037"},
	}
	for _, tc := range tests {
		got := mfa.GenerateTOTP(secret, time.Unix(tc.unix, 0).UTC())
		if got != tc.want {
			t.Errorf("GenerateTOTP at %d = %q, want %q", tc.unix, got, tc.want)
		}
	}
}

func TestTOTPRejectsWrongLength(t *testing.T) {
	if mfa.VerifyTOTP("SECRETSECRETSECR", "12345", time.Now(), 1) {
		t.Error("5-digit input must not verify")
	}
	if mfa.VerifyTOTP("SECRETSECRETSECR", "1234567", time.Now(), 1) {
		t.Error("7-digit input must not verify")
	}
}
