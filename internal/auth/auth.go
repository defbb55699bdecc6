// Package auth registers users, checks passwords and issues bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/pdfchat/internal/data/store"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const TokenType = "bearer"

type Service struct {
	users  store.UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *logger_i.Logger
}

func NewService(users store.UserStore, secret string, ttl time.Duration) *Service {
	return &Service{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: logger_i.NewLogger("auth"),
	}
}

func (s *Service) Register(ctx context.Context, username string, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return commonModels.Validation("Username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return commonModels.Validation("Password could not be hashed")
	}
	err = s.users.Create(ctx, commonModels.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, commonModels.ErrConflict) {
		return commonModels.Conflict("Username already registered")
	}
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	s.logger.WithTrace(ctx).Info("user registered", "username", username)
	return nil
}

// Login returns a signed token. Unknown users and wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, username string, password string) (string, error) {
	user, err := s.users.FindByName(ctx, username)
	if errors.Is(err, commonModels.ErrNotFound) {
		return "", commonModels.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("loading user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", commonModels.ErrInvalidCredentials
	}
	return s.IssueToken(user.Username)
}

func (s *Service) IssueToken(username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken returns the username of a valid, unexpired token signed with HS256.
func (s *Service) ParseToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", commonModels.ErrTokenInvalid, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", commonModels.ErrTokenInvalid)
	}
	return claims.Subject, nil
}
