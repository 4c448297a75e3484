package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yxngashy/studietid/internal/models"
	"github.com/yxngashy/studietid/internal/repository"
)

// ExternalProfile is a verified identity assertion from the OAuth provider.
type ExternalProfile struct {
	Email      string
	GivenName  string
	FamilyName string
}

// AuthService resolves identities for both login paths.
type AuthService interface {
	LoginByEmail(ctx context.Context, email string) (models.User, error)
	ResolveExternalProfile(ctx context.Context, profile ExternalProfile) (models.User, error)
	IssueToken(user models.User) (string, error)
}

type authService struct {
	repo      repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(repo repository.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}

	return &authService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) LoginByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	return user, nil
}

// ResolveExternalProfile looks up the local user for a verified OAuth
// profile, creating one with default role and no admin flag when absent.
// Role and admin values are never taken from this path; only an explicit
// administrative action assigns them. Any storage error fails closed: no
// user is returned and no session should be established.
func (s *authService) ResolveExternalProfile(ctx context.Context, profile ExternalProfile) (models.User, error) {
	email := normalizeEmail(profile.Email)
	if email == "" {
		return models.User{}, fmt.Errorf("external profile missing email")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	user = models.User{
		PublicID:  uuid.NewString(),
		FirstName: strings.TrimSpace(profile.GivenName),
		LastName:  strings.TrimSpace(profile.FamilyName),
		Email:     email,
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return models.User{}, err
	}

	s.logger.Info().Str("email", email).Msg("created user from external identity")
	return user, nil
}

// IssueToken mints a short-lived HS256 bearer token for JSON clients.
func (s *authService) IssueToken(user models.User) (string, error) {
	if s.jwtSecret == "" {
		return "", fmt.Errorf("jwt secret is not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.Email,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}
