package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yxngashy/studietid/internal/models"
	"github.com/yxngashy/studietid/internal/repository"
)

const (
	localsIdentity  = "identity"
	sessionEmailKey = "user_email"
)

// ResolveIdentity restores the authenticated user for the current request.
// The session stores only the email; the full user record is re-read from
// the store each time so role changes take effect immediately. When no
// session exists, a bearer token is accepted as an alternative for JSON
// clients. Requests without either proceed anonymously; the route gates
// decide what that means.
func ResolveIdentity(store *session.Store, users repository.UserRepository, jwtSecret string, logger zerolog.Logger) fiber.Handler {
	log := logger.With().Str("component", "identity_middleware").Logger()

	return func(c *fiber.Ctx) error {
		email := emailFromSession(c, store)
		if email == "" {
			email = emailFromBearer(c, jwtSecret)
		}
		if email == "" {
			return c.Next()
		}

		user, err := users.GetByEmail(c.Context(), email)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Error().Err(err).Msg("failed to resolve session identity")
			}
			// Stale session or storage failure: treat as anonymous.
			return c.Next()
		}

		c.Locals(localsIdentity, user)
		return c.Next()
	}
}

func emailFromSession(c *fiber.Ctx, store *session.Store) string {
	if store == nil {
		return ""
	}

	sess, err := store.Get(c)
	if err != nil {
		return ""
	}

	if email, ok := sess.Get(sessionEmailKey).(string); ok {
		return strings.TrimSpace(email)
	}
	return ""
}

func emailFromBearer(c *fiber.Ctx, secret string) string {
	if secret == "" {
		return ""
	}

	authorization := c.Get("Authorization")
	const bearer = "Bearer "
	if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
		return ""
	}

	tokenString := strings.TrimSpace(authorization[len(bearer):])
	if tokenString == "" {
		return ""
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(subject)
}

// IdentityFromContext returns the resolved user for the request, if any.
func IdentityFromContext(c *fiber.Ctx) (models.User, bool) {
	if value := c.Locals(localsIdentity); value != nil {
		if user, ok := value.(models.User); ok {
			return user, true
		}
	}
	return models.User{}, false
}

// EstablishSession binds the given email to the browser session.
func EstablishSession(c *fiber.Ctx, store *session.Store, email string) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	sess.Set(sessionEmailKey, email)
	return sess.Save()
}

// DestroySession removes the browser session, if one exists.
func DestroySession(c *fiber.Ctx, store *session.Store) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}
