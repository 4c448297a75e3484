package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yxngashy/studietid/internal/dto"
	"github.com/yxngashy/studietid/internal/handler"
	"github.com/yxngashy/studietid/internal/models"
	"github.com/yxngashy/studietid/internal/service"
	"github.com/yxngashy/studietid/internal/utils"
)

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

type mockUserService struct {
	addResponse dto.UserResponse
	addErr      error
	getResponse dto.UserResponse
	getErr      error
	deleteRows  int64
	deleteErr   error
	lastAdd     dto.AddUserRequest
}

func (m *mockUserService) Add(_ context.Context, req dto.AddUserRequest, _ string) (dto.UserResponse, error) {
	m.lastAdd = req
	return m.addResponse, m.addErr
}

func (m *mockUserService) Get(context.Context, string) (dto.UserResponse, error) {
	return m.getResponse, m.getErr
}

func (m *mockUserService) UpdateName(context.Context, dto.UpdateUserRequest, string) (dto.UserResponse, error) {
	return m.getResponse, m.getErr
}

func (m *mockUserService) Delete(context.Context, dto.DeleteUserRequest, string) (int64, error) {
	return m.deleteRows, m.deleteErr
}

func newUserApp(svc service.UserService) *fiber.App {
	app := fiber.New()
	h := handler.NewUserHandler(svc, zerolog.New(io.Discard))
	h.RegisterOpen(app)
	h.RegisterAdmin(app)

	authed := app.Group("", func(c *fiber.Ctx) error {
		c.Locals("identity", models.User{Email: "ann@x.com", PublicID: "pid-1"})
		return c.Next()
	})
	h.RegisterUser(authed)

	return app
}

func TestAddUserReportsGeneratedIdentifier(t *testing.T) {
	svc := &mockUserService{addResponse: dto.UserResponse{ID: "generated-id", Email: "ann@x.com"}}
	app := newUserApp(svc)

	resp := postJSON(t, app, "/addUser", dto.AddUserRequest{FirstName: "Ann", LastName: "Lee", RoleID: 2, Email: "ann@x.com"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload utils.APIResponse
	decodeResponse(t, resp, &payload)
	require.True(t, payload.Success)
	require.Contains(t, payload.Message, "generated-id")
	require.Equal(t, "ann@x.com", svc.lastAdd.Email)
}

func TestAddUserDuplicateEmailKeepsOKStatus(t *testing.T) {
	svc := &mockUserService{addErr: service.ErrDuplicateEmail}
	app := newUserApp(svc)

	resp := postJSON(t, app, "/addUser", dto.AddUserRequest{FirstName: "Ann", LastName: "Lee", RoleID: 2, Email: "ann@x.com"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload utils.APIResponse
	decodeResponse(t, resp, &payload)
	require.False(t, payload.Success)
	require.Equal(t, utils.KindConflict, payload.Kind)
}

func TestGetUserMissingReturnsNotFound(t *testing.T) {
	svc := &mockUserService{getErr: service.ErrUserNotFound}
	app := newUserApp(svc)

	resp := postJSON(t, app, "/getUser", dto.GetUserRequest{Email: "nobody@x.com"})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var payload utils.APIResponse
	decodeResponse(t, resp, &payload)
	require.False(t, payload.Success)
	require.Equal(t, utils.KindNotFound, payload.Kind)
	require.Nil(t, payload.Data, "a miss must never look like an empty success")
}

func TestDeleteUserZeroRowsReported(t *testing.T) {
	svc := &mockUserService{deleteRows: 0}
	app := newUserApp(svc)

	resp := postJSON(t, app, "/deleteUser", dto.DeleteUserRequest{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload utils.APIResponse
	decodeResponse(t, resp, &payload)
	require.False(t, payload.Success)
	require.Equal(t, utils.KindNotFound, payload.Kind)
}

func TestUpdateUserForbiddenForOtherUsers(t *testing.T) {
	svc := &mockUserService{}
	app := newUserApp(svc)

	resp := postJSON(t, app, "/update-user", dto.UpdateUserRequest{Email: "other@x.com", FirstName: "A", LastName: "B"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUpdateUserStorageFailure(t *testing.T) {
	svc := &mockUserService{getErr: errors.New("boom")}
	app := newUserApp(svc)

	resp := postJSON(t, app, "/update-user", dto.UpdateUserRequest{Email: "ann@x.com", FirstName: "A", LastName: "B"})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
