package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/models"
	"github.com/noah-isme/moonbase-api/internal/repository"
)

// TokenConfig controls how access tokens are signed.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// AuthService manages accounts and issues access tokens.
type AuthService interface {
	Signup(ctx context.Context, payload dto.SignupRequest) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Me(ctx context.Context, actor Actor) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	tokens    TokenConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the account service.
func NewAuthService(users repository.UserRepository, validator *validator.Validate, tokens TokenConfig, logger zerolog.Logger) AuthService {
	if tokens.TTL <= 0 {
		tokens.TTL = time.Hour
	}
	return &authService{
		users:     users,
		validator: validator,
		tokens:    tokens,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, payload dto.SignupRequest) (dto.UserResponse, error) {
	payload.Username = strings.TrimSpace(payload.Username)
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	payload.FullName = strings.TrimSpace(payload.FullName)
	payload.Role = strings.ToLower(strings.TrimSpace(payload.Role))

	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, payload.Username, payload.Email)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if exists {
		return dto.UserResponse{}, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username:     payload.Username,
		Email:        payload.Email,
		FullName:     payload.FullName,
		PasswordHash: string(hash),
		Role:         models.ParseRole(payload.Role),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if repository.IsDuplicateKey(err) {
			return dto.UserResponse{}, ErrAccountExists
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("email", maskEmailAddress(user.Email)).Str("role", string(user.Role)).Msg("account created")
	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByLogin(ctx, payload.Username)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{
		User:        dto.NewUserResponse(user),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *authService) Me(ctx context.Context, actor Actor) (dto.UserResponse, error) {
	if !actor.Authenticated() {
		return dto.UserResponse{}, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) issueToken(user models.User) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.tokens.TTL)

	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      issuedAt.Unix(),
		"exp":      expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.tokens.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
