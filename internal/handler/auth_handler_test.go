package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/yxngashy/studietid/internal/handler"
	"github.com/yxngashy/studietid/internal/middleware"
	"github.com/yxngashy/studietid/internal/models"
	"github.com/yxngashy/studietid/internal/service"
	"github.com/yxngashy/studietid/pkg/googleauth"
)

// oauthProvider stands in for the Google token and userinfo endpoints.
type oauthProvider struct {
	srv       *httptest.Server
	failToken bool
	email     string
}

func newOAuthProvider(t *testing.T) *oauthProvider {
	t.Helper()

	p := &oauthProvider{email: "ola@x.com"}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if p.failToken {
			http.Error(w, "invalid_grant", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"bearer"}`)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"email":%q,"given_name":"Ola","family_name":"Nordmann"}`, p.email)
	})

	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

func (p *oauthProvider) client(t *testing.T) *googleauth.Client {
	t.Helper()

	client, err := googleauth.New(googleauth.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/auth/google/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  p.srv.URL + "/auth",
			TokenURL: p.srv.URL + "/token",
		},
		UserinfoURL: p.srv.URL + "/userinfo",
	}, zerolog.New(nil))
	require.NoError(t, err)
	return client
}

type mockAuthService struct {
	resolved    models.User
	resolveErr  error
	lastProfile service.ExternalProfile
	resolves    int
}

func (m *mockAuthService) LoginByEmail(context.Context, string) (models.User, error) {
	return models.User{}, service.ErrUserNotFound
}

func (m *mockAuthService) ResolveExternalProfile(_ context.Context, profile service.ExternalProfile) (models.User, error) {
	m.resolves++
	m.lastProfile = profile
	if m.resolveErr != nil {
		return models.User{}, m.resolveErr
	}
	return m.resolved, nil
}

func (m *mockAuthService) IssueToken(models.User) (string, error) {
	return "token", nil
}

// userDirectory is an in-memory user store for identity resolution.
type userDirectory map[string]models.User

func (d userDirectory) GetByEmail(_ context.Context, email string) (models.User, error) {
	if user, ok := d[email]; ok {
		return user, nil
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (d userDirectory) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := d[email]
	return ok, nil
}

func (d userDirectory) Create(_ context.Context, user *models.User) error {
	d[user.Email] = *user
	return nil
}

func (d userDirectory) UpdateName(context.Context, string, string, string) (int64, error) {
	return 0, nil
}

func (d userDirectory) DeleteExact(context.Context, string, string, bool, string) (int64, error) {
	return 0, nil
}

func newOAuthApp(svc service.AuthService, client *googleauth.Client, users userDirectory) *fiber.App {
	sessions := session.New()

	app := fiber.New()
	app.Use(middleware.ResolveIdentity(sessions, users, "", zerolog.New(nil)))
	app.Get("/user", middleware.RequireUser(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	h := handler.NewAuthHandler(svc, client, sessions, validator.New(), zerolog.New(nil))
	h.Register(app)
	return app
}

// beginOAuth starts the consent flow and returns the session cookies plus
// the anti-CSRF state embedded in the redirect.
func beginOAuth(t *testing.T, app *fiber.App) ([]*http.Cookie, string) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	return resp.Cookies(), state
}

func finishOAuth(t *testing.T, app *fiber.App, cookies []*http.Cookie, code, state string) *http.Response {
	t.Helper()

	target := fmt.Sprintf("/auth/google/callback?code=%s&state=%s", url.QueryEscape(code), url.QueryEscape(state))
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	// Exchange talks to the local provider; no request timeout.
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func identityAdmitted(t *testing.T, app *fiber.App, cookies []*http.Cookie) bool {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode == fiber.StatusOK
}

func TestGoogleCallbackRejectsForgedState(t *testing.T) {
	provider := newOAuthProvider(t)
	svc := &mockAuthService{}
	app := newOAuthApp(svc, provider.client(t), userDirectory{})

	cookies, _ := beginOAuth(t, app)
	resp := finishOAuth(t, app, cookies, "any-code", "forged-state")

	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	require.Zero(t, svc.resolves, "forged state must never reach identity resolution")
	require.False(t, identityAdmitted(t, app, cookies))
}

func TestGoogleCallbackFailsClosedOnExchangeError(t *testing.T) {
	provider := newOAuthProvider(t)
	provider.failToken = true
	svc := &mockAuthService{}
	app := newOAuthApp(svc, provider.client(t), userDirectory{})

	cookies, state := beginOAuth(t, app)
	resp := finishOAuth(t, app, cookies, "any-code", state)

	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	require.Zero(t, svc.resolves)
	require.False(t, identityAdmitted(t, app, cookies))
}

func TestGoogleCallbackFailsClosedOnResolveError(t *testing.T) {
	provider := newOAuthProvider(t)
	svc := &mockAuthService{resolveErr: errors.New("storage unavailable")}
	app := newOAuthApp(svc, provider.client(t), userDirectory{})

	cookies, state := beginOAuth(t, app)
	resp := finishOAuth(t, app, cookies, "any-code", state)

	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	require.False(t, identityAdmitted(t, app, cookies))
}

func TestGoogleCallbackEstablishesSession(t *testing.T) {
	provider := newOAuthProvider(t)
	user := models.User{PublicID: "pid-ola", Email: "ola@x.com", FirstName: "Ola"}
	svc := &mockAuthService{resolved: user}
	app := newOAuthApp(svc, provider.client(t), userDirectory{user.Email: user})

	cookies, state := beginOAuth(t, app)
	resp := finishOAuth(t, app, cookies, "valid-code", state)

	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/user", resp.Header.Get("Location"))
	require.Equal(t, "ola@x.com", svc.lastProfile.Email)
	require.True(t, identityAdmitted(t, app, cookies))
}

func TestGoogleLoginDisabledWithoutClient(t *testing.T) {
	svc := &mockAuthService{}
	app := newOAuthApp(svc, nil, userDirectory{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}
