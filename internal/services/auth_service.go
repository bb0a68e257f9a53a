package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"media-vault/internal/apperrors"
	"media-vault/internal/auth"
	"media-vault/internal/models"
	"media-vault/internal/repository"
)

type AuthService struct {
	users  repository.UserStore
	tokens *auth.TokenManager
	cost   int
	log    *zap.SugaredLogger
}

func NewAuthService(users repository.UserStore, tokens *auth.TokenManager, bcryptCost int, log *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: bcryptCost, log: log}
}

// Register creates the account and signs the user straight in. Duplicate
// emails surface as a conflict; the unique index is the source of truth so
// two concurrent registrations cannot both win.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error) {
	hash, err := auth.HashPassword(req.Password, s.cost)
	if err != nil {
		return nil, apperrors.Internal("Failed to register user", err)
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hash,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.log.Warnw("registration rejected, email exists", "email", req.Email)
			return nil, apperrors.Conflict("User with this email already exists")
		}
		return nil, apperrors.Internal("Failed to register user", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.log.Infow("user registered", "userId", user.ID, "email", user.Email)
	return &models.TokenResponse{Token: token, User: user}, nil
}

// Login verifies credentials. Unknown email and wrong password return the
// same message so the endpoint does not leak which emails exist.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warnw("login failed, unknown email", "email", req.Email)
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internal("Failed to login", err)
	}

	if !auth.CheckPassword(user.HashedPassword, req.Password) {
		s.log.Warnw("login failed, wrong password", "email", req.Email)
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal("Failed to login", err)
	}

	s.log.Infow("login successful", "userId", user.ID)
	return &models.TokenResponse{Token: token, User: user}, nil
}
