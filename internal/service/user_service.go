package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yxngashy/studietid/internal/dto"
	"github.com/yxngashy/studietid/internal/models"
	"github.com/yxngashy/studietid/internal/repository"
)

// UserService orchestrates user CRUD use cases.
type UserService interface {
	Add(ctx context.Context, req dto.AddUserRequest, actorEmail string) (dto.UserResponse, error)
	Get(ctx context.Context, email string) (dto.UserResponse, error)
	UpdateName(ctx context.Context, req dto.UpdateUserRequest, actorEmail string) (dto.UserResponse, error)
	Delete(ctx context.Context, req dto.DeleteUserRequest, actorEmail string) (int64, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.Validate
	audit     AuditRecorder
	logger    zerolog.Logger
}

// NewUserService constructs the user service.
func NewUserService(repo repository.UserRepository, validate *validator.Validate, audit AuditRecorder, logger zerolog.Logger) UserService {
	if audit == nil {
		audit = NoopAuditRecorder{}
	}

	return &userService{
		repo:      repo,
		validator: validate,
		audit:     audit,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

// Add creates a user after an explicit duplicate-email pre-check. The
// unique index on email covers the window the pre-check leaves open.
func (s *userService) Add(ctx context.Context, req dto.AddUserRequest, actorEmail string) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	email := normalizeEmail(req.Email)

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if exists {
		return dto.UserResponse{}, ErrDuplicateEmail
	}

	user := models.User{
		PublicID:  uuid.NewString(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		RoleID:    req.RoleID,
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.audit.Record(ctx, actorEmail, "user.add", "user", map[string]interface{}{
		"email":   user.Email,
		"role_id": user.RoleID,
	})

	return dto.NewUserResponse(user), nil
}

func (s *userService) Get(ctx context.Context, email string) (dto.UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

// UpdateName changes first/last name for the row matching the email.
// No other column is ever touched by this path.
func (s *userService) UpdateName(ctx context.Context, req dto.UpdateUserRequest, actorEmail string) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	email := normalizeEmail(req.Email)

	rows, err := s.repo.UpdateName(ctx, email, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName))
	if err != nil {
		return dto.UserResponse{}, err
	}
	if rows == 0 {
		return dto.UserResponse{}, ErrUserNotFound
	}

	s.audit.Record(ctx, actorEmail, "user.update", "user", map[string]interface{}{
		"email":         email,
		"rows_affected": rows,
	})

	return s.Get(ctx, email)
}

// Delete removes the row matching the full composite key. The zero-row
// outcome is returned so callers can report it instead of claiming
// success; any field mismatch silently deletes nothing.
func (s *userService) Delete(ctx context.Context, req dto.DeleteUserRequest, actorEmail string) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, err
	}

	rows, err := s.repo.DeleteExact(ctx, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), req.IsAdmin, normalizeEmail(req.Email))
	if err != nil {
		return 0, err
	}

	s.audit.Record(ctx, actorEmail, "user.delete", "user", map[string]interface{}{
		"email":         normalizeEmail(req.Email),
		"rows_affected": rows,
	})

	return rows, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
