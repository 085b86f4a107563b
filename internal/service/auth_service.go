package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskpad/internal/auth"
	"taskpad/internal/model"
	"taskpad/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	// Unknown usernames and wrong passwords collapse into this one value so
	// the response never reveals whether a username exists.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUsernameTaken is returned when registering an already used username.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrInvalidToken is returned when a presented token cannot be resolved
	// to a known user, regardless of the specific defect.
	ErrInvalidToken = errors.New("could not validate credentials")
)

// AuthService handles registration, login and token-based identity resolution.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	ResolveIdentity(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new active user with a hashed password. Username
// uniqueness is enforced both by the pre-check and by the unique index.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates a username/password pair and mints a session token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !s.hasher.Check(password, user.HashedPassword) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, auth.SessionExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}

// ResolveIdentity verifies a token and looks up the subject in the store.
// The lookup is fresh on every call; only the subject string survives from
// the token payload, so a deactivated or removed account is reflected on
// the next request.
func (s *authService) ResolveIdentity(ctx context.Context, token string) (*model.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByUsername(ctx, subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return user, nil
}
