// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"time"

	"github.com/rosterd/rosterd/internal/domain/model"
)

// TokenIssuer mints and verifies the bearer tokens the API runs on.
type TokenIssuer interface {
	// Issue mints a signed token carrying the principal, expiring per the
	// issuer's configuration.
	Issue(user model.AuthUser) (token string, expiresAt time.Time, err error)

	// Verify checks a presented token's signature and expiry and returns the
	// principal it carries.
	Verify(token string) (*model.AuthUser, error)
}
