package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"chorus/internal/models"
	"chorus/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer is the iss claim on every access token.
const TokenIssuer = "chorus-api"

type AuthService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// TokenResponse is returned by a successful login. ExpiresIn is the unix expiry time.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

func NewAuthService(userRepo repository.UserRepository, secret string, ttl time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   loggerOrNop(logger),
		now:      time.Now,
	}
}

// Register creates an account. Email and username must be unused.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	email, err := validateEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	if taken, err := s.exists(ctx, s.userRepo.FindByEmail, email); err != nil {
		return nil, err
	} else if taken {
		return nil, models.NewConflictError("Email already registered", nil)
	}
	if taken, err := s.exists(ctx, s.userRepo.FindByUsername, username); err != nil {
		return nil, err
	} else if taken {
		return nil, models.NewConflictError("Username already taken", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: username, Email: email, Password: string(hash)}
	if err := s.userRepo.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewConflictError("Email or username already in use", err)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

func (s *AuthService) exists(ctx context.Context, find func(context.Context, string) (*models.User, error), value string) (bool, error) {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return true, nil
	case models.IsCode(err, models.CodeNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Login checks credentials and issues a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("invalid_email")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("invalid_password")
	}

	token, exp, err := s.issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	s.logger.InfoContext(ctx, "user logged in", slog.Uint64("user_id", uint64(user.ID)))
	return &TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresIn: exp}, nil
}

func (s *AuthService) issue(user *models.User) (string, int64, error) {
	if len(s.secret) == 0 {
		return "", 0, fmt.Errorf("JWT secret not configured")
	}
	now := s.now()
	exp := now.Add(s.ttl).Unix()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"email":    user.Email,
		"iss":      TokenIssuer,
		"iat":      now.Unix(),
		"exp":      exp,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, exp, nil
}
