package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"planassist/internal/model"
	"planassist/internal/service"
)

const testSecret = "test-secret"

type memoryUserStore struct {
	byEmail map[string]*model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{byEmail: map[string]*model.User{}}
}

func (s *memoryUserStore) CreateUser(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.byEmail[u.Email] = u
	return nil
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func newAuthRouter(store *memoryUserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(service.NewAuthService(store, testSecret), zap.NewNop())
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterIssuesTokenWithEmailSubject(t *testing.T) {
	r := newAuthRouter(newMemoryUserStore())

	w := postJSON(r, "/auth/register", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		UserID string `json:"user_id"`
		Name   string `json:"name"`
		Token  string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.UserID)
	assert.Equal(t, "Alice", resp.Name)

	parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sub)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	r := newAuthRouter(newMemoryUserStore())

	w := postJSON(r, "/auth/register", gin.H{"email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	store := newMemoryUserStore()
	r := newAuthRouter(store)

	first := postJSON(r, "/auth/register", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(r, "/auth/register", gin.H{
		"name":     "Impostor",
		"email":    "alice@example.com",
		"password": "different1",
	})
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestLoginRoundTrip(t *testing.T) {
	store := newMemoryUserStore()
	r := newAuthRouter(store)

	w := postJSON(r, "/auth/register", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	login := postJSON(r, "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, login.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))
	parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sub)
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	store := newMemoryUserStore()
	r := newAuthRouter(store)

	w := postJSON(r, "/auth/register", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	login := postJSON(r, "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, login.Code)
}

func TestLoginUnknownEmailUnauthorized(t *testing.T) {
	r := newAuthRouter(newMemoryUserStore())

	login := postJSON(r, "/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "whatever1",
	})
	assert.Equal(t, http.StatusUnauthorized, login.Code)
}
