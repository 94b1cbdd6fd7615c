package config

import (
	"fmt"
	"strings"
	"time"
)

// JWTAlgorithm is the signing algorithm for issued bearer tokens.
type JWTAlgorithm string

// JWTAlgorithmHS256 is the only supported signing algorithm.
const JWTAlgorithmHS256 JWTAlgorithm = "HS256"

// UnmarshalText implements encoding.TextUnmarshaler for JWTAlgorithm.
// Anything other than HS256 is rejected at load time so a misconfigured
// deployment fails on startup instead of minting unverifiable tokens.
func (a *JWTAlgorithm) UnmarshalText(text []byte) error {
	v := strings.ToUpper(strings.TrimSpace(string(text)))
	switch v {
	case string(JWTAlgorithmHS256):
		*a = JWTAlgorithm(v)
		return nil
	default:
		return fmt.Errorf("invalid JWT_ALGORITHM: %q (valid options: HS256)", v)
	}
}

// AuthConfig groups bearer token configuration.
type AuthConfig struct {
	// SecretKey signs and verifies bearer tokens. There is no default;
	// the service refuses to start without one.
	SecretKey string `env:"JWT_SECRET_KEY,required"`

	// Algorithm is the token signing algorithm.
	Algorithm JWTAlgorithm `env:"JWT_ALGORITHM" envDefault:"HS256"`

	// ExpireDays is the issued token lifetime in days.
	ExpireDays int `env:"JWT_EXPIRE_DAYS" envDefault:"3"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Algorithm == "" {
		a.Algorithm = JWTAlgorithmHS256
	}
	if a.ExpireDays < 1 {
		a.ExpireDays = 3
	}
}

// TokenTTL returns the configured token lifetime as a duration.
func (a *AuthConfig) TokenTTL() time.Duration {
	days := a.ExpireDays
	if days < 1 {
		days = 3
	}
	return time.Duration(days) * 24 * time.Hour
}
