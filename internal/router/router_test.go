package router

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clients_backend/internal/cache"
	"clients_backend/internal/config"
	"clients_backend/internal/models"
	"clients_backend/internal/repositories"
	"clients_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T, authCfg config.AuthConfig) *gin.Engine {
	t.Helper()
	engine := gin.New()
	err := Setup(engine, repositories.NewMemoryClientRepository(), cache.NewMemoryCache(time.Minute), authCfg,
		services.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	return engine
}

func clientPayload(username, email string) map[string]string {
	return map[string]string{
		"firstName":  "Ada",
		"middleName": "King",
		"lastName":   "Lovelace",
		"email":      email,
		"username":   username,
		"password":   "secret123",
	}
}

func do(engine *gin.Engine, method, path string, payload interface{}, header ...string) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeClient(t *testing.T, rec *httptest.ResponseRecorder) models.ClientResponse {
	t.Helper()
	var resp models.ClientResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) models.ListClientResponse {
	t.Helper()
	var resp models.ListClientResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func createClient(t *testing.T, engine *gin.Engine, username, email string) models.ClientResponseBody {
	t.Helper()
	rec := do(engine, http.MethodPost, "/client/", clientPayload(username, email))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeClient(t, rec)
	require.NotNil(t, resp.Body)
	return *resp.Body
}

func TestSaveClient(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{})

	rec := do(engine, http.MethodPost, "/client/", clientPayload("ada", "ada@example.com"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	resp := decodeClient(t, rec)
	assert.Equal(t, "Client saved successfully", resp.Message)
	require.NotNil(t, resp.Body)
	assert.Positive(t, resp.Body.ID)
	assert.True(t, resp.Body.IsActive)
	assert.Equal(t, resp.Body.CreatedAt, resp.Body.UpdatedAt)
	assert.Equal(t, models.Today().Format(models.DateLayout), resp.Body.CreatedAt)
}

func TestSaveClient_ValidationFailures(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{})

	tests := []struct {
		name    string
		mutate  func(map[string]string)
		message string
	}{
		{"blank first name", func(p map[string]string) { p["firstName"] = "  " }, "can't be null or empty"},
		{"bad email", func(p map[string]string) { p["email"] = "not-an-email" }, "doesn't have the correct structure"},
		{"short password", func(p map[string]string) { p["password"] = "12345" }, "at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := clientPayload("ada", "ada@example.com")
			tt.mutate(payload)

			rec := do(engine, http.MethodPost, "/client/", payload)

			assert.Equal(t, http.StatusNotAcceptable, rec.Code)
			assert.Contains(t, decodeClient(t, rec).Message, tt.message)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/client/", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	})
}

func TestSaveClient_Conflicts(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{})
	createClient(t, engine, "ada", "ada@example.com")

	rec := do(engine, http.MethodPost, "/client/", clientPayload("other", "ada@example.com"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A client with this email already exists in the system", decodeClient(t, rec).Message)

	rec = do(engine, http.MethodPost, "/client/", clientPayload("ada", "other@example.com"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A client with this username already exists in the system", decodeClient(t, rec).Message)
}

func TestGetClientByID(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{})
	created := createClient(t, engine, "ada", "ada@example.com")

	rec := do(engine, http.MethodGet, fmt.Sprintf("/client/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeClient(t, rec)
	assert.Equal(t, "Client found successfully", resp.Message)
	assert.Equal(t, created, *resp.Body)

	rec = do(engine, http.MethodGet, "/client/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeClient(t, rec).Message, "999")

	rec = do(engine, http.MethodGet, "/client/abc", nil)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestHeadClient(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{})
	created := createClient(t, engine, "ada", "ada@example.com")

	rec := do(engine, http.MethodHead, fmt.Sprintf("/client/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(engine, http.MethodHead, "/client/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleClient(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{})
	created := createClient(t, engine, "ada", "ada@example.com")
	path := fmt.Sprintf("/client/%d", created.ID)

	rec := do(engine, http.MethodPut, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeClient(t, rec)
	assert.Equal(t, "Client deactivated successfully", resp.Message)
	assert.False(t, resp.Body.IsActive)
	assert.Equal(t, created.UpdatedAt, resp.Body.UpdatedAt)

	rec = do(engine, http.MethodPut, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeClient(t, rec)
	assert.Equal(t, "Client activated successfully", resp.Message)
	assert.True(t, resp.Body.IsActive)

	rec = do(engine, http.MethodPut, "/client/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateClient(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{})
	created := createClient(t, engine, "ada", "ada@example.com")
	createClient(t, engine, "grace", "grace@example.com")
	path := fmt.Sprintf("/client/%d", created.ID)

	payload := clientPayload("ada.l", "ada.l@example.com")
	payload["firstName"] = "Augusta"
	rec := do(engine, http.MethodPut, path, payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeClient(t, rec)
	assert.Equal(t, "Client updated successfully", resp.Message)
	assert.Equal(t, created.ID, resp.Body.ID)
	assert.Equal(t, "Augusta", resp.Body.FirstName)
	assert.Equal(t, "ada.l", resp.Body.Username)
	assert.True(t, resp.Body.IsActive)

	rec = do(engine, http.MethodPut, path, clientPayload("grace", "new@example.com"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeClient(t, rec).Message, "username")

	bad := clientPayload("ada.l", "ada.l@example.com")
	bad["lastName"] = ""
	rec = do(engine, http.MethodPut, path, bad)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)

	rec = do(engine, http.MethodPut, "/client/999", clientPayload("x", "x@example.com"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFindByUsernameAndPassword(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{})
	created := createClient(t, engine, "ada", "ada@example.com")

	rec := do(engine, http.MethodPost, "/client/findByUsernameAndPassword",
		map[string]string{"username": "ada", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeClient(t, rec).Body.ID)

	rec = do(engine, http.MethodPost, "/client/findByUsernameAndPassword",
		map[string]string{"username": "ada", "password": "wrong-password"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(engine, http.MethodPost, "/client/findByUsernameAndPassword",
		map[string]string{"username": "", "password": "secret123"})
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestListClients(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{})

	rec := do(engine, http.MethodGet, "/client/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	createClient(t, engine, "ada", "ada@example.com")
	createClient(t, engine, "grace", "grace@example.com")
	createClient(t, engine, "linus", "linus@example.com")

	rec = do(engine, http.MethodGet, "/client/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeList(t, rec)
	assert.Equal(t, "Clients found successfully", list.Message)
	assert.Len(t, list.Body, 3)
}

func TestListClientsPaged(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{})
	createClient(t, engine, "ada", "ada@example.com")
	createClient(t, engine, "grace", "grace@example.com")
	createClient(t, engine, "linus", "linus@example.com")

	rec := do(engine, http.MethodGet, "/client/paged?page=0&size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-Total-Count"))
	list := decodeList(t, rec)
	require.Len(t, list.Body, 2)
	assert.Equal(t, "ada", list.Body[0].Username)

	rec = do(engine, http.MethodGet, "/client/paged?page=1&size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decodeList(t, rec)
	require.Len(t, list.Body, 1)
	assert.Equal(t, "linus", list.Body[0].Username)

	rec = do(engine, http.MethodGet, "/client/paged?page=5&size=2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(engine, http.MethodGet, "/client/paged?page=9223372036854775807&size=2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(engine, http.MethodGet, "/client/paged?page=-1", nil)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)

	rec = do(engine, http.MethodGet, "/client/paged?size=abc", nil)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestDeleteClient(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{})
	created := createClient(t, engine, "ada", "ada@example.com")
	path := fmt.Sprintf("/client/%d", created.ID)

	rec := do(engine, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeClient(t, rec)
	assert.Equal(t, "Client deleted successfully", resp.Message)
	assert.Nil(t, resp.Body)

	rec = do(engine, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(engine, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the username is free again
	createClient(t, engine, "ada", "ada@example.com")
}

func TestAuthEnabled(t *testing.T) {
	engine := newEngine(t, config.AuthConfig{Enabled: true, JWTSecret: "test-secret", JWTTTL: time.Hour})
	created := createClient(t, engine, "ada", "ada@example.com")
	path := fmt.Sprintf("/client/%d", created.ID)

	rec := do(engine, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(engine, http.MethodPost, "/client/token", map[string]string{"username": "ada", "password": "wrong-password"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(engine, http.MethodPost, "/client/token", map[string]string{"username": "ada", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var token models.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	require.NotNil(t, token.Body)
	assert.Equal(t, "Bearer", token.Body.TokenType)

	rec = do(engine, http.MethodGet, path, nil, "Authorization", "Bearer "+token.Body.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(engine, http.MethodPut, path, nil, "Authorization", "Bearer "+token.Body.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(engine, http.MethodPost, "/client/token", map[string]string{"username": "ada", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
