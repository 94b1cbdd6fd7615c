package service

import (
	"context"
	"testing"

	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestEmployeeService_CreateHashesPassword(t *testing.T) {
	repo := new(mockEmployeeRepo)
	svc := NewEmployeeService(EmployeeServiceOptions{Employees: repo})

	req := &model.CreateEmployeeRequest{
		Name:     "Dana Smith",
		Email:    "dana@example.com",
		Password: "password123",
	}
	want := &model.Employee{ID: "emp-1", Name: "Dana Smith", Email: "dana@example.com"}
	repo.On("Create", mock.Anything, req, mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("password123")) == nil
	})).Return(want, nil)

	got, err := svc.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestEmployeeService_CreateRejectsBeforeHashing(t *testing.T) {
	repo := new(mockEmployeeRepo)
	svc := NewEmployeeService(EmployeeServiceOptions{Employees: repo})

	tests := []struct {
		name    string
		req     *model.CreateEmployeeRequest
		wantMsg string
	}{
		{
			name:    "nil request",
			req:     nil,
			wantMsg: "create employee request is required",
		},
		{
			name: "short password",
			req: &model.CreateEmployeeRequest{
				Name:     "Dana Smith",
				Email:    "dana@example.com",
				Password: "short",
			},
			wantMsg: "password must be at least 8 characters",
		},
		{
			name: "missing email",
			req: &model.CreateEmployeeRequest{
				Name:     "Dana Smith",
				Password: "password123",
			},
			wantMsg: "email is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)

			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmployeeService_UpdateRehashesPassword(t *testing.T) {
	repo := new(mockEmployeeRepo)
	svc := NewEmployeeService(EmployeeServiceOptions{Employees: repo})

	newPassword := "newpassword1"
	req := &model.UpdateEmployeeRequest{Password: &newPassword}
	want := &model.Employee{ID: "emp-1"}
	repo.On("Update", mock.Anything, "emp-1", req, mock.MatchedBy(func(hash *string) bool {
		return hash != nil && bcrypt.CompareHashAndPassword([]byte(*hash), []byte(newPassword)) == nil
	})).Return(want, nil)

	got, err := svc.Update(context.Background(), "emp-1", req)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestEmployeeService_UpdateWithoutPasswordSendsNilHash(t *testing.T) {
	repo := new(mockEmployeeRepo)
	svc := NewEmployeeService(EmployeeServiceOptions{Employees: repo})

	name := "Dana Jones"
	req := &model.UpdateEmployeeRequest{Name: &name}
	want := &model.Employee{ID: "emp-1", Name: name}
	repo.On("Update", mock.Anything, "emp-1", req, (*string)(nil)).Return(want, nil)

	got, err := svc.Update(context.Background(), "emp-1", req)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestEmployeeService_UpdateRejectsEmptyPatch(t *testing.T) {
	repo := new(mockEmployeeRepo)
	svc := NewEmployeeService(EmployeeServiceOptions{Employees: repo})

	_, err := svc.Update(context.Background(), "emp-1", &model.UpdateEmployeeRequest{})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "at least one field")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEmployeeService_ListDefaultsPaging(t *testing.T) {
	repo := new(mockEmployeeRepo)
	svc := NewEmployeeService(EmployeeServiceOptions{Employees: repo})

	repo.On("List", mock.Anything, model.EmployeesListOptions{Limit: 50, Offset: 0}).
		Return([]*model.Employee{}, nil)

	_, err := svc.List(context.Background(), model.EmployeesListOptions{Limit: 0, Offset: -3})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
