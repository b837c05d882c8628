package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/auth"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type authService struct {
	repo          repositories.Repository
	tokens        *auth.TokenManager
	logger        *slog.Logger
	validator     *validator.Validator
	serviceLogger *ServiceLogger
}

func NewAuthService(repo repositories.Repository, tokens *auth.TokenManager, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		logger:    logger,
		validator: validator,
		serviceLogger: NewServiceLogger(logger, LogConfig{
			Service:   "exam-service",
			Component: "auth",
		}),
	}
}

// Signup registers a student whose username is their student id.
func (s *authService) Signup(ctx context.Context, req *SignupRequest) (resp *AuthResponse, err error) {
	op := s.serviceLogger.WithOperation(ctx, "signup", 0)
	defer func() {
		var id uint
		if resp != nil {
			id = resp.User.ID
		}
		op.LogResult(id, "user", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	studentID := strings.TrimSpace(req.StudentID)
	exists, err := s.repo.User().ExistsByUsernameOrStudentID(ctx, nil, studentID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     studentID,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		StudentID:    &studentID,
		FullName:     strings.TrimSpace(req.FullName),
	}
	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		// Lost a race with a concurrent signup for the same id.
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Student signed up", "user_id", user.ID, "student_id", studentID)
	return s.issue(user)
}

// Login reports every failure, including a role mismatch, as
// ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req *LoginRequest, requiredRole models.UserRole) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByUsername(ctx, nil, strings.TrimSpace(req.Username))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		s.logger.Warn("Stored password hash is unusable", "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok || user.Role != requiredRole {
		s.logger.Info("Login rejected", "username", user.Username, "required_role", requiredRole)
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.User().UpdateLastLogin(ctx, nil, user.ID); err != nil {
		s.logger.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

func (s *authService) Refresh(ctx context.Context, req *RefreshRequest) (*AccessTokenResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	claims, err := s.tokens.ParseRefresh(req.Refresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userFromClaims(ctx, claims)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	return &AccessTokenResponse{Access: access}, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.userFromClaims(ctx, claims)
}

func (s *authService) CreateUser(ctx context.Context, req *CreateUserRequest) (*UserResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	studentID := ""
	if req.StudentID != nil {
		studentID = strings.TrimSpace(*req.StudentID)
	}
	exists, err := s.repo.User().ExistsByUsernameOrStudentID(ctx, nil, req.Username, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		Role:         role,
		FullName:     req.FullName,
		Email:        req.Email,
	}
	if studentID != "" {
		user.StudentID = &studentID
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", "user_id", user.ID, "role", user.Role)
	return NewUserResponse(user), nil
}

// userFromClaims reloads the user; tokens of a deleted account stop working.
func (s *authService) userFromClaims(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	id, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) issue(user *models.User) (*AuthResponse, error) {
	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		User:    NewUserResponse(user),
		Refresh: pair.Refresh,
		Access:  pair.Access,
	}, nil
}
