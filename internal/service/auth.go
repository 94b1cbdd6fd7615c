package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
	"github.com/rosterd/rosterd/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Employees core.EmployeeRepository // Required: credential lookup
	Tokens    ports.TokenIssuer       // Required: bearer token minting
	Logger    *slog.Logger            // Optional: structured logger
}

// AuthService authenticates employees against their stored credentials and
// mints the bearer tokens the rest of the API consumes.
type AuthService struct {
	employees core.EmployeeRepository
	tokens    ports.TokenIssuer
	logger    *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		employees: opts.Employees,
		tokens:    opts.Tokens,
		logger:    logger.With("component", "auth_service"),
	}
}

// Login verifies the credentials and returns a fresh bearer token together
// with the employee it authenticates. An unknown email and a wrong password
// produce the same error.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, errInvalidCredentials()
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)) != nil {
		return nil, errInvalidCredentials()
	}

	user := model.AuthUser{
		EmployeeID: employee.ID,
		Email:      employee.Email,
		IsManager:  employee.IsManager,
	}
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "issue token")
	}

	s.logger.InfoContext(ctx, "employee logged in", "employee_id", employee.ID)
	return &model.LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresAt: expiresAt,
		Employee:  *employee,
	}, nil
}

// Me resolves the authenticated principal back to its full employee record.
func (s *AuthService) Me(ctx context.Context, user model.AuthUser) (*model.Employee, error) {
	return s.employees.GetByID(ctx, user.EmployeeID)
}

func errInvalidCredentials() error {
	return apperrors.Unauthorized("incorrect email or password")
}

// HashPassword derives the bcrypt hash stored for an employee password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
