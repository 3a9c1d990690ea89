package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/SorryIWinxX/webmanager/internal/models"
	"github.com/SorryIWinxX/webmanager/internal/repository"
)

// AuthService validates login attempts against the user store. There is no
// server-side session: the caller persists the returned record.
type AuthService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewAuthService builds a service with dependencies.
func NewAuthService(users repository.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

// Login authenticates a username and optional password. Operators
// authenticate by username alone; admins require a matching password. Every
// failure returns the same ErrInvalidCredentials, so callers cannot probe for
// existing usernames.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	switch user.Role {
	case models.UserRoleOperator:
		// Username alone suffices for operators.
	case models.UserRoleAdmin:
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			s.logger.Info("failed admin login attempt", zap.String("username", user.Username))
			return nil, ErrInvalidCredentials
		}
	default:
		return nil, ErrInvalidCredentials
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}
