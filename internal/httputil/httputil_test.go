package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"virtualcto/internal/domain"
	"virtualcto/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCredentials(t *testing.T) {
	t.Run("form", func(t *testing.T) {
		form := url.Values{"username": {"alice"}, "password": {"pw1"}, "grant_type": {"password"}}
		r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		creds, err := ParseCredentials(httptest.NewRecorder(), r)
		require.NoError(t, err)
		assert.Equal(t, "alice", creds.Username)
		assert.Equal(t, "pw1", creds.Password)
	})

	t.Run("json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"bob","password":"pw"}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		creds, err := ParseCredentials(httptest.NewRecorder(), r)
		require.NoError(t, err)
		assert.Equal(t, "bob", creds.Username)
	})

	t.Run("bad json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`))
		_, err := ParseCredentials(httptest.NewRecorder(), r)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPathUUID(t *testing.T) {
	mux := http.NewServeMux()
	var got string
	var gotErr error
	mux.HandleFunc("GET /projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = PathUUID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/projects/3F2504E0-4F89-11D3-9A0C-0305E82C3301", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, "3f2504e0-4f89-11d3-9a0c-0305e82c3301", got)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/projects/not-a-uuid", nil))
	assert.ErrorIs(t, gotErr, domain.ErrValidation)
}

func TestRespondUnauthorized(t *testing.T) {
	w := httptest.NewRecorder()
	RespondUnauthorized(w, "Could not validate credentials")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "Could not validate credentials", problem["detail"])
	assert.EqualValues(t, 401, problem["status"])
}

func TestUserContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetUser(r))
	assert.Empty(t, GetUserID(r))

	r = WithUser(r, &models.User{ID: "u1"})
	assert.Equal(t, "u1", GetUserID(r))
}
