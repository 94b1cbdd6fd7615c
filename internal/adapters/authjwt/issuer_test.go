package authjwt

import (
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterd/rosterd/config"
	"github.com/rosterd/rosterd/internal/domain/model"
)

func newTestIssuer(t *testing.T, secret string) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(config.AuthConfig{
		SecretKey:  secret,
		Algorithm:  config.JWTAlgorithmHS256,
		ExpireDays: 3,
	})
	require.NoError(t, err)
	return issuer
}

func TestNewIssuer(t *testing.T) {
	t.Run("requires a secret key", func(t *testing.T) {
		_, err := NewIssuer(config.AuthConfig{})
		require.ErrorContains(t, err, "secret key is required")
	})

	t.Run("rejects unsupported algorithms", func(t *testing.T) {
		_, err := NewIssuer(config.AuthConfig{SecretKey: "k", Algorithm: "RS256"})
		require.ErrorContains(t, err, "unsupported signing algorithm")
	})

	t.Run("defaults algorithm and lifetime when unset", func(t *testing.T) {
		issuer, err := NewIssuer(config.AuthConfig{SecretKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, 72*time.Hour, issuer.ttl)
	})
}

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := newTestIssuer(t, "round-trip-secret")

	tests := []struct {
		name string
		user model.AuthUser
	}{
		{
			name: "manager",
			user: model.AuthUser{EmployeeID: "emp-1", Email: "lead@example.com", IsManager: true},
		},
		{
			name: "staff",
			user: model.AuthUser{EmployeeID: "emp-2", Email: "staff@example.com", IsManager: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, expiresAt, err := issuer.Issue(tt.user)
			require.NoError(t, err)
			require.NotEmpty(t, token)
			assert.WithinDuration(t, time.Now().Add(72*time.Hour), expiresAt, time.Minute)

			got, err := issuer.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, &tt.user, got)
		})
	}
}

func TestIssuer_ClaimShape(t *testing.T) {
	issuer := newTestIssuer(t, "shape-secret")

	token, _, err := issuer.Issue(model.AuthUser{EmployeeID: "emp-9", Email: "e@example.com", IsManager: true})
	require.NoError(t, err)

	parsed, err := jwt.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	require.NoError(t, err)

	var claims map[string]any
	require.NoError(t, parsed.UnsafeClaimsWithoutVerification(&claims))

	assert.Equal(t, "emp-9", claims["sub"])
	assert.Equal(t, "e@example.com", claims["email"])
	assert.Equal(t, true, claims["is_manager"])
	assert.Contains(t, claims, "exp")
	assert.Contains(t, claims, "iat")
	assert.NotEmpty(t, claims["jti"])

	// Each mint gets its own token id.
	second, _, err := issuer.Issue(model.AuthUser{EmployeeID: "emp-9", Email: "e@example.com", IsManager: true})
	require.NoError(t, err)

	var secondClaims map[string]any
	parsed, err = jwt.ParseSigned(second, []jose.SignatureAlgorithm{jose.HS256})
	require.NoError(t, err)
	require.NoError(t, parsed.UnsafeClaimsWithoutVerification(&secondClaims))
	assert.NotEqual(t, claims["jti"], secondClaims["jti"])
}

func TestIssuer_VerifyRejectsExpired(t *testing.T) {
	issuer := newTestIssuer(t, "expiry-secret")

	issuedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issuedAt }

	token, expiresAt, err := issuer.Issue(model.AuthUser{EmployeeID: "emp-1"})
	require.NoError(t, err)
	require.Equal(t, issuedAt.Add(72*time.Hour), expiresAt)

	// Jump past expiry plus the validator's clock-skew leeway.
	issuer.now = func() time.Time { return expiresAt.Add(2 * time.Minute) }

	_, err = issuer.Verify(token)
	require.ErrorContains(t, err, "invalid claims")
}

func TestIssuer_VerifyRejectsWrongKey(t *testing.T) {
	minter := newTestIssuer(t, "minting-secret")
	verifier := newTestIssuer(t, "a different secret")

	token, _, err := minter.Issue(model.AuthUser{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorContains(t, err, "invalid signature")
}

func TestIssuer_VerifyRejectsMalformed(t *testing.T) {
	issuer := newTestIssuer(t, "malformed-secret")

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Verify(raw)
		require.ErrorContains(t, err, "parse token")
	}
}

func TestIssuer_VerifyRejectsForeignAlgorithm(t *testing.T) {
	issuer := newTestIssuer(t, "alg-secret")

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS384, Key: []byte("alg-secret")},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(t, err)

	raw, err := jwt.Signed(signer).Claims(jwt.Claims{Subject: "emp-1"}).Serialize()
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	require.ErrorContains(t, err, "parse token")
}

func TestIssuer_VerifyRejectsMissingSubject(t *testing.T) {
	issuer := newTestIssuer(t, "subject-secret")

	raw, err := jwt.Signed(issuer.signer).Claims(jwt.Claims{
		Expiry: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).Serialize()
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	require.ErrorContains(t, err, "token missing subject")
}
