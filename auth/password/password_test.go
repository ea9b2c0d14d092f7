package password_test

import (
	"strings"
	"testing"

	"github.com/a-ems/aems/auth/password"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	h := password.NewBcryptHasher(password.WithCost(4))

	hash, err := h.Hash("Sup3r-Secret!")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "Sup3r-Secret!" {
		t.Fatal("hash must not equal plaintext")
	}
	if !h.Verify("Sup3r-Secret!", hash) {
		t.Error("expected correct password to verify")
	}
	if h.Verify("wrong-password", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := password.NewBcryptHasher(password.WithCost(4))

	h1, _ := h.Hash("Sup3r-Secret!")
	h2, _ := h.Hash("Sup3r-Secret!")
	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := password.NewBcryptHasher()
	if h.Verify("anything", "not-a-bcrypt-hash") {
		t.Error("malformed hash must verify as false")
	}
	if h.Verify("anything", "") {
		t.Error("empty hash must verify as false")
	}
}

func TestHashRejectsEmptyAndOverlong(t *testing.T) {
	h := password.NewBcryptHasher(password.WithCost(4))

	if _, err := h.Hash(""); err == nil {
		t.Error("expected error for empty password")
	}
	if _, err := h.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("expected error above bcrypt 72-byte limit")
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		wantValid bool
		wantScore int
	}{
		{"too short", "short", false, 1},
		{"strong mixed", "Gx7!mQp2Vz#r", true, 6},
		{"abc pattern invalidates", "Abcdef12!", false, 4},
		{"common pattern password", "Password123!", false, 5},
		{"no special char", "Hjklmnop12", false, 4},
		{"all lowercase with abc", "abcdefghijkl", false, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := password.Score(tc.password)
			if got.Valid != tc.wantValid {
				t.Errorf("Score(%q).Valid = %v, want %v (feedback: %v)", tc.password, got.Valid, tc.wantValid, got.Feedback)
			}
			if got.Score != tc.wantScore {
				t.Errorf("Score(%q).Score = %d, want %d", tc.password, got.Score, tc.wantScore)
			}
		})
	}
}

func TestScoreFeedbackMessages(t *testing.T) {
	got := password.Score("short")
	if len(got.Feedback) == 0 {
		t.Fatal("expected feedback for weak password")
	}
	if got.Feedback[0] != "Password must be at least 8 characters long" {
		t.Errorf("unexpected first feedback: %q", got.Feedback[0])
	}

	got = password.Score("Password123!")
	found := false
	for _, f := range got.Feedback {
		if f == "Password contains common patterns" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected common pattern feedback, got %v", got.Feedback)
	}
}

func TestScoreCountsCharactersNotBytes(t *testing.T) {
	// 7 characters but 9 bytes: the length check must still fail.
	got := password.Score("Aá1!aáa")
	found := false
	for _, f := range got.Feedback {
		if f == "Password must be at least 8 characters long" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected length feedback for 7-character password, got %v", got.Feedback)
	}

	// 8 characters clears the length check regardless of byte count.
	got = password.Score("Aá1!aáaa")
	for _, f := range got.Feedback {
		if f == "Password must be at least 8 characters long" {
			t.Errorf("unexpected length feedback for 8-character password: %v", got.Feedback)
		}
	}
}

func TestScoreCommonPatternCountedOnce(t *testing.T) {
	// Contains both "password" and "123" but only one deduction applies.
	got := password.Score("Xy!Password123z")
	if got.Score != 5 {
		t.Errorf("expected single deduction to score 5, got %d", got.Score)
	}
}

func TestGenerate(t *testing.T) {
	pw, err := password.Generate(16)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(pw) != 16 {
		t.Errorf("expected length 16, got %d", len(pw))
	}
	for _, r := range pw {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*", r) {
			t.Errorf("unexpected character %q in generated password", r)
		}
	}
}

func TestGenerateDefaultLength(t *testing.T) {
	pw, err := password.Generate(0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(pw) != 12 {
		t.Errorf("expected fallback length 12, got %d", len(pw))
	}
}

func TestGenerateUnique(t *testing.T) {
	a, _ := password.Generate(20)
	b, _ := password.Generate(20)
	if a == b {
		t.Error("two generated passwords should differ")
	}
}

func TestNewHasherFromConfig(t *testing.T) {
	h := password.NewHasher(password.Config{BcryptCost: 4})
	hash, err := h.Hash("Conf1g-Pass!")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !h.Verify("Conf1g-Pass!", hash) {
		t.Error("expected round trip through config-built hasher")
	}
}
