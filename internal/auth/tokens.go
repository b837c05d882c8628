package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims carries the user id in the subject and the role at issue time.
type Claims struct {
	Role      models.UserRole `json:"role"`
	TokenType TokenType       `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user id.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// TokenManager issues and verifies HS256 access and refresh tokens signed
// with separate secrets.
type TokenManager struct {
	config TokenConfig
	now    func() time.Time
}

func NewTokenManager(config TokenConfig) *TokenManager {
	if config.Issuer == "" {
		config.Issuer = "exam-service"
	}
	return &TokenManager{config: config, now: time.Now}
}

func (m *TokenManager) IssuePair(user *models.User) (*TokenPair, error) {
	access, err := m.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(user, RefreshToken, m.config.RefreshTTL, m.config.RefreshSecret)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (m *TokenManager) IssueAccess(user *models.User) (string, error) {
	return m.sign(user, AccessToken, m.config.AccessTTL, m.config.AccessSecret)
}

func (m *TokenManager) ParseAccess(token string) (*Claims, error) {
	return m.parse(token, AccessToken, m.config.AccessSecret)
}

func (m *TokenManager) ParseRefresh(token string) (*Claims, error) {
	return m.parse(token, RefreshToken, m.config.RefreshSecret)
}

func (m *TokenManager) sign(user *models.User, tokenType TokenType, ttl time.Duration, secret string) (string, error) {
	now := m.now()
	claims := Claims{
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (m *TokenManager) parse(token string, expected TokenType, secret string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.Parser{
		ValidMethods: []string{jwt.SigningMethodHS256.Alg()},
	}

	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expected {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
