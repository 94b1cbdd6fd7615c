package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/ports"
)

// Ensure compile-time conformance to ports.
var _ ports.TokenIssuer = (*StaticTokenIssuer)(nil)

// ErrUnknownToken is returned by StaticTokenIssuer for tokens it never minted.
var ErrUnknownToken = errors.New("unknown token")

// StaticTokenIssuer mints deterministic tokens and verifies only what it
// minted or what was seeded through Register. Set IssueFunc/VerifyFunc to
// take full control of either operation.
type StaticTokenIssuer struct {
	IssueFunc  func(user model.AuthUser) (string, time.Time, error)
	VerifyFunc func(token string) (*model.AuthUser, error)

	// TTL is the advertised token lifetime. Defaults to one hour.
	TTL time.Duration

	mu     sync.Mutex
	minted map[string]model.AuthUser
	seq    int
}

// NewStaticTokenIssuer creates a StaticTokenIssuer ready for use.
func NewStaticTokenIssuer() *StaticTokenIssuer {
	return &StaticTokenIssuer{minted: make(map[string]model.AuthUser)}
}

// Register stores a principal under a caller-chosen token so tests can mint
// bearer headers without going through Issue.
func (s *StaticTokenIssuer) Register(token string, user model.AuthUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.minted == nil {
		s.minted = make(map[string]model.AuthUser)
	}
	s.minted[token] = user
}

func (s *StaticTokenIssuer) Issue(user model.AuthUser) (string, time.Time, error) {
	if s.IssueFunc != nil {
		return s.IssueFunc(user)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.minted == nil {
		s.minted = make(map[string]model.AuthUser)
	}

	s.seq++
	token := fmt.Sprintf("token-%s-%d", user.EmployeeID, s.seq)
	s.minted[token] = user

	ttl := s.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return token, time.Now().Add(ttl), nil
}

func (s *StaticTokenIssuer) Verify(token string) (*model.AuthUser, error) {
	if s.VerifyFunc != nil {
		return s.VerifyFunc(token)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.minted[token]
	if !ok {
		return nil, ErrUnknownToken
	}
	return &user, nil
}
