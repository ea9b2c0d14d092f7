package password

import (
	"strings"
	"unicode/utf8"
)

// Strength is the result of scoring a candidate password.
type Strength struct {
	Valid    bool     `json:"is_valid"`
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
}

const specialChars = "!@#$%^&*(),.?\":{}|<>"

var commonPatterns = []string{"123", "abc", "password", "admin", "qwerty"}

// Score evaluates password strength. Length under 8 is a hard failure;
// 8-11 earns one point, 12+ two. Each character class present earns a
// point, each missing one adds feedback. The first common pattern found
// costs a point. A password is valid with no feedback and a score of at
// least 4.
func Score(password string) Strength {
	result := Strength{Feedback: []string{}}

	// Length is measured in characters, not bytes.
	switch length := utf8.RuneCountInString(password); {
	case length < 8:
		result.Feedback = append(result.Feedback, "Password must be at least 8 characters long")
	case length >= 12:
		result.Score += 2
	default:
		result.Score++
	}

	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		result.Feedback = append(result.Feedback, "Password must contain at least one uppercase letter")
	} else {
		result.Score++
	}

	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		result.Feedback = append(result.Feedback, "Password must contain at least one lowercase letter")
	} else {
		result.Score++
	}

	if !strings.ContainsAny(password, "0123456789") {
		result.Feedback = append(result.Feedback, "Password must contain at least one number")
	} else {
		result.Score++
	}

	if !strings.ContainsAny(password, specialChars) {
		result.Feedback = append(result.Feedback, "Password must contain at least one special character")
	} else {
		result.Score++
	}

	lower := strings.ToLower(password)
	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			result.Feedback = append(result.Feedback, "Password contains common patterns")
			result.Score--
			break
		}
	}

	result.Valid = len(result.Feedback) == 0 && result.Score >= 4
	return result
}
