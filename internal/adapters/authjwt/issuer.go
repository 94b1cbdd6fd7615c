// Package authjwt implements the bearer token issuer on HS256-signed JWTs.
package authjwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"

	"github.com/rosterd/rosterd/config"
	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/ports"
)

// Issuer mints and verifies HS256-signed bearer tokens carrying the
// authenticated employee.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	signer jose.Signer

	now func() time.Time // injectable clock for tests
}

var _ ports.TokenIssuer = (*Issuer)(nil)

// NewIssuer builds an Issuer from auth configuration.
func NewIssuer(cfg config.AuthConfig) (*Issuer, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if cfg.Algorithm != "" && cfg.Algorithm != config.JWTAlgorithmHS256 {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	secret := []byte(cfg.SecretKey)
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("build signer: %w", err)
	}

	return &Issuer{
		secret: secret,
		ttl:    cfg.TokenTTL(),
		signer: signer,
		now:    time.Now,
	}, nil
}

// tokenClaims is the JWT payload. Subject carries the employee id.
type tokenClaims struct {
	jwt.Claims
	Email     string `json:"email,omitempty"`
	IsManager bool   `json:"is_manager"`
}

// Issue mints a signed token for the principal. The returned expiry matches
// the exp claim; both have whole-second precision because JWT numeric dates
// cannot carry less.
func (i *Issuer) Issue(user model.AuthUser) (string, time.Time, error) {
	now := i.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(i.ttl)

	claims := tokenClaims{
		Claims: jwt.Claims{
			ID:       uuid.NewString(),
			Subject:  user.EmployeeID,
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(expiresAt),
		},
		Email:     user.Email,
		IsManager: user.IsManager,
	}

	raw, err := jwt.Signed(i.signer).Claims(claims).Serialize()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return raw, expiresAt, nil
}

// Verify checks the token's signature and expiry and returns the principal
// it carries. Tokens signed with any algorithm other than HS256 are rejected
// at parse time.
func (i *Issuer) Verify(raw string) (*model.AuthUser, error) {
	token, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	var claims tokenClaims
	if err := token.Claims(i.secret, &claims); err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}

	if err := claims.Validate(jwt.Expected{Time: i.now()}); err != nil {
		return nil, fmt.Errorf("invalid claims: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}

	return &model.AuthUser{
		EmployeeID: claims.Subject,
		Email:      claims.Email,
		IsManager:  claims.IsManager,
	}, nil
}
