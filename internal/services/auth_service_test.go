package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_SignupAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.Auth()

	resp, err := svc.Signup(ctx, &SignupRequest{StudentID: "S001", FullName: "Ada Lovelace", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "S001", resp.User.Username)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	require.NotNil(t, resp.User.StudentID)
	assert.Equal(t, "S001", *resp.User.StudentID)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)

	login, err := svc.Login(ctx, &LoginRequest{Username: "S001", Password: "secret123"}, models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	user, err := svc.Authenticate(ctx, login.Access)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
}

func TestAuthService_SignupRejectsDuplicateStudentID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.Auth()

	req := &SignupRequest{StudentID: "S001", FullName: "Ada", Password: "secret123"}
	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateUser)
	assert.True(t, IsConflict(err))
}

func TestAuthService_SignupValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.services.Auth().Signup(context.Background(), &SignupRequest{StudentID: "S1", FullName: "Ada", Password: "123"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "password", verrs[0].Field)
}

func TestAuthService_LoginFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "prof", models.RoleProfessor)
	env.createUser(t, "S001", models.RoleStudent)
	svc := env.services.Auth()

	tests := []struct {
		name     string
		username string
		password string
		role     models.UserRole
	}{
		{"wrong password", "prof", "nope-nope", models.RoleProfessor},
		{"unknown user", "ghost", "secret123", models.RoleProfessor},
		{"student on professor login", "S001", "secret123", models.RoleProfessor},
		{"professor on student login", "prof", "secret123", models.RoleStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &LoginRequest{Username: tt.username, Password: tt.password}, tt.role)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "prof", models.RoleProfessor)
	svc := env.services.Auth()

	login, err := svc.Login(ctx, &LoginRequest{Username: "prof", Password: "secret123"}, models.RoleProfessor)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, &RefreshRequest{Refresh: login.Refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Access)

	_, err = svc.Refresh(ctx, &RefreshRequest{Refresh: login.Access})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Authenticate(ctx, login.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_CreateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.Auth()

	user, err := svc.CreateUser(ctx, &CreateUserRequest{
		Username: "dr.who",
		Password: "secret123",
		Role:     "professor",
		FullName: "The Doctor",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleProfessor, user.Role)
	assert.Nil(t, user.StudentID)

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Username: "x", Password: "secret123", Role: "janitor"})
	assert.True(t, IsValidation(err))

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Username: "dr.who", Password: "secret123", Role: "professor"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}
