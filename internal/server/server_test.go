package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/notes-be/internal/config"
	"github.com/hongminglow/notes-be/internal/http/respond"
	"github.com/hongminglow/notes-be/internal/models"
	"github.com/hongminglow/notes-be/internal/models/dto"
	"github.com/hongminglow/notes-be/internal/storage/memory"
)

func testConfig() config.Config {
	return config.Config{
		Port:              "0",
		APIPrefix:         "/api/v1",
		StoreDriver:       config.DriverMemory,
		JWTSecret:         "server-test-secret",
		JWTIssuer:         "notes-test",
		JWTTTL:            time.Hour,
		BcryptCost:        4,
		CORSOrigins:       []string{"*"},
		RequestTimeout:    5 * time.Second,
		AuthRatePerMinute: 600,
		AuthRateBurst:     100,
	}
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
	store   *memory.Store
}

func newAPIClient(t *testing.T, cfg config.Config) *apiClient {
	t.Helper()
	store := memory.NewStore()
	h, err := NewHandler(cfg, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return &apiClient{t: t, handler: h, store: store}
}

func (c *apiClient) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (c *apiClient) register(name, email, password string) dto.AuthResponse {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/user", "", map[string]string{"name": name, "email": email, "password": password})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[dto.AuthResponse](c.t, rec)
}

func TestRegister_ReturnsUserAndToken(t *testing.T) {
	c := newAPIClient(t, testConfig())

	rec := c.do(http.MethodPost, "/user", "", map[string]string{"name": "A", "email": "a@x.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "user")
	assert.Contains(t, raw, "token")
	assert.NotContains(t, string(raw["user"]), "password")

	var res dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.NotEmpty(t, res.Token)
}

func TestRegister_DuplicateAndMissing(t *testing.T) {
	c := newAPIClient(t, testConfig())
	c.register("A", "a@x.com", "secret123")

	rec := c.do(http.MethodPost, "/user", "", map[string]string{"name": "A", "email": "a@x.com", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/user", "", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[respond.ErrorBody](t, rec)
	assert.ElementsMatch(t, []string{"name", "email", "password"}, body.Fields)

	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	bad := httptest.NewRecorder()
	c.handler.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestRegister_FormEncoded(t *testing.T) {
	c := newAPIClient(t, testConfig())

	form := url.Values{"name": {"Form"}, "email": {"form@x.com"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "form@x.com", decode[dto.AuthResponse](t, rec).User.Email)
}

func TestLogin(t *testing.T) {
	c := newAPIClient(t, testConfig())
	reg := c.register("A", "a@x.com", "secret123")

	rec := c.do(http.MethodPost, "/user/login", "", map[string]string{"email": "a@x.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.AuthResponse](t, rec)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	rec = c.do(http.MethodPost, "/user/login", "", map[string]string{"email": "a@x.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid password", decode[respond.ErrorBody](t, rec).Message)

	rec = c.do(http.MethodPost, "/user/login", "", map[string]string{"email": "b@x.com", "password": "secret123"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid email", decode[respond.ErrorBody](t, rec).Message)

	rec = c.do(http.MethodPost, "/user/login", "", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrentUser(t *testing.T) {
	c := newAPIClient(t, testConfig())
	reg := c.register("A", "a@x.com", "secret123")

	rec := c.do(http.MethodGet, "/user/currentuser", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodGet, "/api/v1/user/currentuser", reg.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reg.User.ID, decode[models.User](t, rec).ID)

	c.store.DeleteUser(reg.User.ID)
	rec = c.do(http.MethodGet, "/user/currentuser", reg.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotesLifecycle(t *testing.T) {
	c := newAPIClient(t, testConfig())
	alice := c.register("Alice", "alice@x.com", "secret123")
	bob := c.register("Bob", "bob@x.com", "secret123")

	rec := c.do(http.MethodPost, "/note", "", map[string]string{"title": "todo", "description": "d", "tag": "t"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/note", alice.Token, map[string]string{
		"title": "groceries", "description": "milk and eggs", "tag": "home", "userId": bob.User.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[dto.NoteResponse](t, rec)
	assert.Equal(t, alice.User.ID, created.Note.UserID)
	noteID := created.Note.ID

	rec = c.do(http.MethodGet, "/api/v1/note", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[dto.NotesResponse](t, rec).Notes, 1)

	rec = c.do(http.MethodGet, "/note", bob.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[dto.NotesResponse](t, rec).Notes)

	rec = c.do(http.MethodGet, "/note/"+noteID, bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPut, "/note/"+noteID, alice.Token, map[string]string{"tag": "errands"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[dto.NoteResponse](t, rec)
	assert.Equal(t, "errands", updated.Note.Tag)
	assert.Equal(t, "groceries", updated.Note.Title)

	rec = c.do(http.MethodGet, "/note/"+noteID, alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "errands", decode[dto.NoteResponse](t, rec).Note.Tag)

	rec = c.do(http.MethodDelete, "/note/"+noteID, bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodDelete, "/note/"+noteID, alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Note deleted successfully", decode[dto.NoteResponse](t, rec).Msg)

	rec = c.do(http.MethodGet, "/note/"+noteID, alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotesValidation(t *testing.T) {
	c := newAPIClient(t, testConfig())
	alice := c.register("Alice", "alice@x.com", "secret123")

	rec := c.do(http.MethodPost, "/note", alice.Token, map[string]string{"title": "a"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []string{"description", "tag", "title"}, decode[respond.ErrorBody](t, rec).Fields)
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRatePerMinute = 1
	cfg.AuthRateBurst = 2
	c := newAPIClient(t, cfg)

	body := map[string]string{"email": "a@x.com", "password": "x"}
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/user/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/user/login", "", body).Code)

	rec := c.do(http.MethodPost, "/user/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestHealth(t *testing.T) {
	c := newAPIClient(t, testConfig())

	rec := c.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["store"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestNew_RejectsBadAuthConfig(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""
	_, err := New(cfg, memory.NewStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)

	cfg = testConfig()
	cfg.BcryptCost = 99
	_, err = New(cfg, memory.NewStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
