package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/server/auth"
	"taskdeck/internal/server/httpapi"
	"taskdeck/internal/server/store"
)

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

type taskResponse struct {
	ID          int     `json:"id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

func newTestServer(t *testing.T) *httpapi.Server {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	return httpapi.New(st, auth.NewJWTManager(auth.DefaultJWTConfig()))
}

// request runs one request through the app without a network listener.
func request(t *testing.T, srv *httpapi.Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func detailOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := decode[map[string]string](t, resp)
	return body["detail"]
}

// signUp registers a fresh account and returns its token and user id.
func signUp(t *testing.T, srv *httpapi.Server, email string) (token, userID string) {
	t.Helper()

	resp := request(t, srv, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"email":    email,
		"password": "correct-horse",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode[authResponse](t, resp)
	require.NotEmpty(t, body.Token)
	require.NotEmpty(t, body.User.ID)
	return body.Token, body.User.ID
}

func tasksPath(userID string) string {
	return fmt.Sprintf("/api/%s/tasks", userID)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp := request(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignUp_Validation(t *testing.T) {
	srv := newTestServer(t)

	resp := request(t, srv, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"email": "not-an-email", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Invalid email format", detailOf(t, resp))

	resp = request(t, srv, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"email": "a@b.c", "password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Password must be at least 8 characters", detailOf(t, resp))
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "dup@example.com")

	resp := request(t, srv, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"email": "dup@example.com", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already registered", detailOf(t, resp))
}

func TestSignIn(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "ada@example.com")

	resp := request(t, srv, http.MethodPost, "/api/auth/sign-in", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", detailOf(t, resp))

	resp = request(t, srv, http.MethodPost, "/api/auth/sign-in", "", map[string]string{
		"email": "ada@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[authResponse](t, resp)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "ada@example.com", body.User.Email)
}

func TestTasks_RequireAuth(t *testing.T) {
	srv := newTestServer(t)

	resp := request(t, srv, http.MethodGet, "/api/u1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated", detailOf(t, resp))

	resp = request(t, srv, http.MethodGet, "/api/u1/tasks", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid or expired token", detailOf(t, resp))
}

func TestTasks_OwnerEnforced(t *testing.T) {
	srv := newTestServer(t)
	token, _ := signUp(t, srv, "ada@example.com")
	_, otherID := signUp(t, srv, "bob@example.com")

	resp := request(t, srv, http.MethodGet, tasksPath(otherID), token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Access denied", detailOf(t, resp))
}

func TestCreateTask(t *testing.T) {
	srv := newTestServer(t)
	token, userID := signUp(t, srv, "ada@example.com")

	resp := request(t, srv, http.MethodPost, tasksPath(userID), token, map[string]string{
		"title": "  Buy milk  ",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	task := decode[taskResponse](t, resp)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, userID, task.UserID)
	assert.False(t, task.Completed)
	assert.Nil(t, task.Description)
}

func TestCreateTask_Validation(t *testing.T) {
	srv := newTestServer(t)
	token, userID := signUp(t, srv, "ada@example.com")

	resp := request(t, srv, http.MethodPost, tasksPath(userID), token, map[string]string{
		"title": "   ",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Title is required", detailOf(t, resp))
}

func TestCreateTask_MultibyteTitleWithinLimit(t *testing.T) {
	srv := newTestServer(t)
	token, userID := signUp(t, srv, "ada@example.com")

	// 200 characters but 600 bytes; the limit counts characters.
	title := strings.Repeat("漢", 200)
	resp := request(t, srv, http.MethodPost, tasksPath(userID), token, map[string]string{
		"title": title,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, title, decode[taskResponse](t, resp).Title)

	resp = request(t, srv, http.MethodPost, tasksPath(userID), token, map[string]string{
		"title": strings.Repeat("漢", 201),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Title must be 200 characters or less", detailOf(t, resp))
}

func TestListTasks_StatusFilter(t *testing.T) {
	srv := newTestServer(t)
	token, userID := signUp(t, srv, "ada@example.com")

	for _, title := range []string{"one", "two"} {
		resp := request(t, srv, http.MethodPost, tasksPath(userID), token, map[string]string{"title": title})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := request(t, srv, http.MethodPatch, tasksPath(userID)+"/1/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, srv, http.MethodGet, tasksPath(userID)+"?status=completed", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tasks := decode[[]taskResponse](t, resp)
	require.Len(t, tasks, 1)
	assert.Equal(t, "one", tasks[0].Title)
	assert.True(t, tasks[0].Completed)
}

func TestListTasks_InvalidFilter(t *testing.T) {
	srv := newTestServer(t)
	token, userID := signUp(t, srv, "ada@example.com")

	resp := request(t, srv, http.MethodGet, tasksPath(userID)+"?status=bogus", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Invalid status filter", detailOf(t, resp))
}

func TestGetTask_NotFound(t *testing.T) {
	srv := newTestServer(t)
	token, userID := signUp(t, srv, "ada@example.com")

	resp := request(t, srv, http.MethodGet, tasksPath(userID)+"/99", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Task not found", detailOf(t, resp))
}

func TestUpdateTask(t *testing.T) {
	srv := newTestServer(t)
	token, userID := signUp(t, srv, "ada@example.com")

	resp := request(t, srv, http.MethodPost, tasksPath(userID), token, map[string]string{"title": "old"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = request(t, srv, http.MethodPut, tasksPath(userID)+"/1", token, map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "At least one field must be provided", detailOf(t, resp))

	resp = request(t, srv, http.MethodPut, tasksPath(userID)+"/1", token, map[string]string{"title": "new"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	task := decode[taskResponse](t, resp)
	assert.Equal(t, "new", task.Title)
}

func TestDeleteTask(t *testing.T) {
	srv := newTestServer(t)
	token, userID := signUp(t, srv, "ada@example.com")

	resp := request(t, srv, http.MethodPost, tasksPath(userID), token, map[string]string{"title": "doomed"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = request(t, srv, http.MethodDelete, tasksPath(userID)+"/1", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = request(t, srv, http.MethodGet, tasksPath(userID)+"/1", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleTask_RoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token, userID := signUp(t, srv, "ada@example.com")

	resp := request(t, srv, http.MethodPost, tasksPath(userID), token, map[string]string{"title": "flip"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = request(t, srv, http.MethodPatch, tasksPath(userID)+"/1/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[taskResponse](t, resp).Completed)

	resp = request(t, srv, http.MethodPatch, tasksPath(userID)+"/1/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[taskResponse](t, resp).Completed)
}
