package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yxngashy/studietid/internal/models"
	"github.com/yxngashy/studietid/internal/repository"
)

type failingUserRepo struct {
	repository.UserRepository
}

func (failingUserRepo) GetByEmail(context.Context, string) (models.User, error) {
	return models.User{}, errors.New("storage down")
}

func newAuthService(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	svc := NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour, testLogger())
	return svc, db
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.LoginByEmail(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthServiceResolveExternalProfileCreatesUser(t *testing.T) {
	svc, db := newAuthService(t)

	user, err := svc.ResolveExternalProfile(context.Background(), ExternalProfile{
		Email:      "New@X.com",
		GivenName:  "Ann",
		FamilyName: "Lee",
	})
	require.NoError(t, err)
	require.Equal(t, "new@x.com", user.Email)
	require.NotEmpty(t, user.PublicID)
	// Defaults only: the OAuth path never assigns privileges.
	require.Zero(t, user.RoleID)
	require.False(t, user.IsAdmin)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAuthServiceResolveExternalProfileReturnsExisting(t *testing.T) {
	svc, db := newAuthService(t)

	existing := models.User{PublicID: "pid", FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", RoleID: 3, IsAdmin: true}
	require.NoError(t, db.Create(&existing).Error)

	user, err := svc.ResolveExternalProfile(context.Background(), ExternalProfile{Email: "ann@x.com", GivenName: "Other", FamilyName: "Name"})
	require.NoError(t, err)
	require.Equal(t, "pid", user.PublicID)
	require.Equal(t, "Ann", user.FirstName, "existing record must not be overwritten")
	require.True(t, user.IsAdmin)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAuthServiceResolveExternalProfileFailsClosed(t *testing.T) {
	svc := NewAuthService(failingUserRepo{}, "test-secret", time.Hour, testLogger())

	_, err := svc.ResolveExternalProfile(context.Background(), ExternalProfile{Email: "ann@x.com"})
	require.Error(t, err)
}

func TestAuthServiceIssueToken(t *testing.T) {
	svc, _ := newAuthService(t)

	tokenString, err := svc.IssueToken(models.User{Email: "ann@x.com"})
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	subject, err := claims.GetSubject()
	require.NoError(t, err)
	require.Equal(t, "ann@x.com", subject)
}
