package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterd/rosterd/internal/domain/model"
)

func TestStaticTokenIssuer_IssueDefaults(t *testing.T) {
	issuer := NewStaticTokenIssuer()
	user := model.AuthUser{EmployeeID: "emp-1", Email: "one@example.com", IsManager: true}

	token, expiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, "token-emp-1-1", token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	// Second call should increment the sequence
	token2, _, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, "token-emp-1-2", token2)
}

func TestStaticTokenIssuer_VerifyMintedToken(t *testing.T) {
	issuer := NewStaticTokenIssuer()
	user := model.AuthUser{EmployeeID: "emp-2", Email: "two@example.com"}

	token, _, err := issuer.Issue(user)
	require.NoError(t, err)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, &user, got)
}

func TestStaticTokenIssuer_VerifyUnknownToken(t *testing.T) {
	issuer := NewStaticTokenIssuer()

	_, err := issuer.Verify("never-minted")
	require.ErrorIs(t, err, ErrUnknownToken)
}

func TestStaticTokenIssuer_Register(t *testing.T) {
	issuer := NewStaticTokenIssuer()
	user := model.AuthUser{EmployeeID: "emp-3", IsManager: true}

	issuer.Register("seeded-token", user)

	got, err := issuer.Verify("seeded-token")
	require.NoError(t, err)
	assert.Equal(t, &user, got)
}

func TestStaticTokenIssuer_CustomFuncs(t *testing.T) {
	wantErr := errors.New("issuer offline")
	issuer := &StaticTokenIssuer{
		IssueFunc: func(model.AuthUser) (string, time.Time, error) {
			return "", time.Time{}, wantErr
		},
		VerifyFunc: func(string) (*model.AuthUser, error) {
			return &model.AuthUser{EmployeeID: "emp-9"}, nil
		},
	}

	_, _, err := issuer.Issue(model.AuthUser{EmployeeID: "emp-1"})
	require.ErrorIs(t, err, wantErr)

	got, err := issuer.Verify("anything")
	require.NoError(t, err)
	assert.Equal(t, "emp-9", got.EmployeeID)
}

func TestStaticTokenIssuer_CustomTTL(t *testing.T) {
	issuer := NewStaticTokenIssuer()
	issuer.TTL = 10 * time.Minute

	_, expiresAt, err := issuer.Issue(model.AuthUser{EmployeeID: "emp-4"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, time.Minute)
}
