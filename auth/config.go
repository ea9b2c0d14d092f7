package auth

import (
	"fmt"
	"time"

	"github.com/a-ems/aems/auth/jwt"
	"github.com/a-ems/aems/auth/password"
)

// Config holds authentication configuration. It composes subpackage
// configs for loading from YAML/env via mapstructure.
type Config struct {
	// JWT configures the token service.
	JWT jwt.Config `yaml:"jwt" mapstructure:"jwt"`

	// Password configures password hashing.
	Password password.Config `yaml:"password" mapstructure:"password"`

	// MaxLoginAttempts is the number of consecutive failures (password or
	// second factor) before the account locks (default: 5).
	MaxLoginAttempts int `yaml:"max_login_attempts" mapstructure:"max_login_attempts"`

	// LockoutDuration is how long a locked account stays locked (default: 15m).
	LockoutDuration time.Duration `yaml:"lockout_duration" mapstructure:"lockout_duration"`

	// RememberMeFactor multiplies the refresh TTL for remember-me logins
	// (default: 4).
	RememberMeFactor int `yaml:"remember_me_factor" mapstructure:"remember_me_factor"`

	// TOTPSkew is the number of adjacent time steps accepted when
	// verifying live codes (default: 1).
	TOTPSkew int `yaml:"totp_skew" mapstructure:"totp_skew"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
	if c.MaxLoginAttempts == 0 {
		c.MaxLoginAttempts = 5
	}
	if c.LockoutDuration == 0 {
		c.LockoutDuration = 15 * time.Minute
	}
	if c.RememberMeFactor == 0 {
		c.RememberMeFactor = 4
	}
	if c.TOTPSkew == 0 {
		c.TOTPSkew = 1
	}
}

// Validate checks all sub-configurations.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	if c.MaxLoginAttempts < 1 {
		return fmt.Errorf("auth.max_login_attempts must be >= 1 (got: %d)", c.MaxLoginAttempts)
	}
	if c.LockoutDuration < time.Minute {
		return fmt.Errorf("auth.lockout_duration must be >= 1m (got: %s)", c.LockoutDuration)
	}
	return nil
}
