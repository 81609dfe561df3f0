package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// AuthService registers accounts, checks credentials and resolves bearer tokens
type AuthService struct {
	users    domain.UserRepository
	tokens   domain.TokenIssuer
	validate *validator.Validate
}

// NewAuthService creates a new auth service with dependencies
func NewAuthService(users domain.UserRepository, tokens domain.TokenIssuer) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Register creates an account and returns a token for it
func (s *AuthService) Register(ctx context.Context, creds domain.Credentials) (*domain.TokenResponse, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if err := s.validate.Struct(creds); err != nil {
		return nil, NewValidationError(err)
	}

	existing, err := s.users.GetUserByEmail(ctx, creds.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := HashPassword(creds.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        creds.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user.ID)
}

// Login checks credentials and returns a fresh token
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(creds.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user.ID)
}

// Authenticate resolves a bearer token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(userID string) (*domain.TokenResponse, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &domain.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}
