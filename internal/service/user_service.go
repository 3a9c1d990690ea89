package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/SorryIWinxX/webmanager/internal/models"
	"github.com/SorryIWinxX/webmanager/internal/repository"
)

// PrimaryAdminUsername identifies the seeded admin account that can never be
// deleted.
const PrimaryAdminUsername = "admin"

const generatedPasswordLength = 10

// UserService implements account management with role-conditional validation.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUserService builds a service with dependencies.
func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// List returns all accounts with credentials stripped.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out, nil
}

// AddUserInput is the role-discriminated creation payload. Operators require
// a workstation and carry no password; admins carry a supplied or generated
// password.
type AddUserInput struct {
	Username    string          `json:"username"`
	Role        models.UserRole `json:"role"`
	Workstation string          `json:"workstation"`
	Password    string          `json:"password"`
}

// AddUserResult returns the stored account and, for admins without a supplied
// password, the generated one. The generated password appears here once and
// nowhere else.
type AddUserResult struct {
	User              models.User `json:"user"`
	GeneratedPassword string      `json:"generatedPassword,omitempty"`
}

// Add validates and stores a new account.
func (s *UserService) Add(ctx context.Context, input AddUserInput) (*AddUserResult, error) {
	fields := map[string]string{}
	username := strings.TrimSpace(input.Username)
	if len(username) < 3 {
		fields["username"] = "username must be at least 3 characters"
	}
	switch input.Role {
	case models.UserRoleOperator:
		if strings.TrimSpace(input.Workstation) == "" {
			fields["workstation"] = "workstation is required for operators"
		}
	case models.UserRoleAdmin:
		// Password may be supplied or generated below.
	default:
		fields["role"] = "role must be admin or operator"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, NewValidationError("username", "username already exists")
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	now := time.Now().UTC()
	user := models.User{
		Username:  username,
		Role:      input.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result := &AddUserResult{}
	switch input.Role {
	case models.UserRoleOperator:
		user.Workstation = strings.TrimSpace(input.Workstation)
		user.ForcePasswordChange = false
	case models.UserRoleAdmin:
		password := input.Password
		if password == "" {
			generated, err := generatePassword(generatedPasswordLength)
			if err != nil {
				return nil, errors.Wrap(err, "generate password")
			}
			password = generated
			result.GeneratedPassword = generated
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, "hash password")
		}
		user.PasswordHash = string(hash)
		user.ForcePasswordChange = true
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	s.logger.Info("user added",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)
	result.User = user.Sanitized()
	return result, nil
}

// Delete removes the account. Deleting the primary admin is rejected
// regardless of caller.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if strings.EqualFold(user.Username, PrimaryAdminUsername) {
		return errors.Wrap(ErrForbidden, "the primary admin account cannot be deleted")
	}
	return s.users.Delete(ctx, id)
}

// ChangePassword rehashes the admin's password and clears the force-change
// flag. Operators have no password in their authentication contract, so the
// operation is forbidden for them.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if newPassword == "" {
		return NewValidationError("password", "password must not be empty")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != models.UserRoleAdmin {
		return errors.Wrap(ErrForbidden, "operator accounts have no password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	user.PasswordHash = string(hash)
	user.ForcePasswordChange = false
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

// EnsurePrimaryAdmin seeds the primary admin account when absent.
func (s *UserService) EnsurePrimaryAdmin(ctx context.Context, password string) error {
	if _, err := s.users.FindByUsername(ctx, PrimaryAdminUsername); err == nil {
		return nil
	} else if !repository.IsNotFound(err) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	now := time.Now().UTC()
	admin := models.User{
		Username:            PrimaryAdminUsername,
		Role:                models.UserRoleAdmin,
		PasswordHash:        string(hash),
		ForcePasswordChange: false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.users.Create(ctx, &admin); err != nil {
		return err
	}
	s.logger.Info("primary admin account seeded")
	return nil
}

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generatePassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordCharset[n.Int64()]
	}
	return string(out), nil
}
