package model

import (
	"errors"
	"strings"
	"time"
)

// AuthUser is the authenticated principal carried on request contexts.
type AuthUser struct {
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	IsManager  bool   `json:"is_manager"`
}

// LoginRequest represents credentials presented to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates LoginRequest.
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// LoginResponse carries a freshly minted bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Employee  Employee  `json:"employee"`
}
