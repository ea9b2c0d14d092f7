package mfa

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// RFC 6238 parameters: SHA-1, 30 second steps, 6 digit codes.
const (
	totpStep   = 30 * time.Second
	totpDigits = 6
)

// GenerateTOTP computes the code for a secret at the given time.
func GenerateTOTP(secret string, at time.Time) string {
	counter := uint64(at.Unix()) / uint64(totpStep/time.Second)
	return hotp(secretKey(secret), counter)
}

// VerifyTOTP checks a code against the secret, accepting codes from
// adjacent time steps up to skew in either direction to absorb clock
// drift between client and server.
func VerifyTOTP(secret, code string, at time.Time, skew int) bool {
	if len(code) != totpDigits {
		return false
	}
	counter := int64(uint64(at.Unix()) / uint64(totpStep/time.Second))
	key := secretKey(secret)
	for offset := -skew; offset <= skew; offset++ {
		c := counter + int64(offset)
		if c < 0 {
			continue
		}
		expected := hotp(key, uint64(c))
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return true
		}
	}
	return false
}

// secretKey decodes a base32 secret, falling back to the raw bytes for
// secrets that are not valid base32.
func secretKey(secret string) []byte {
	normalized := strings.ToUpper(strings.TrimRight(secret, "="))
	if key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(normalized); err == nil {
		return key
	}
	return []byte(secret)
}

// hotp implements RFC 4226 dynamic truncation.
func hotp(key []byte, counter uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(buf[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%0*d", totpDigits, value%1000000)
}
