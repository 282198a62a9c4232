package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryTokenStore is a TokenStore kept in memory for tests
type memoryTokenStore struct {
	token string
}

func (s *memoryTokenStore) Token() (string, error) {
	return s.token, nil
}

func (s *memoryTokenStore) SetToken(token string) error {
	s.token = token
	return nil
}

func (s *memoryTokenStore) ClearToken() error {
	s.token = ""
	return nil
}

func loginServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestLogin_Success(t *testing.T) {
	server := loginServer(t, http.StatusOK, `{"token":"issued-token","expiresIn":3600}`)
	defer server.Close()

	store := &memoryTokenStore{}
	session := NewAuthSession(server.URL, &http.Client{}, store, zap.NewNop())

	token, err := session.Login(context.Background(), "user", "secret")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)

	held, ok := session.Credential()
	assert.True(t, ok)
	assert.Equal(t, "issued-token", held)
	assert.Equal(t, "issued-token", store.token, "credential should be persisted")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := loginServer(t, http.StatusUnauthorized, `{"error":"bad credentials"}`)
	defer server.Close()

	session := NewAuthSession(server.URL, &http.Client{}, nil, zap.NewNop())

	_, err := session.Login(context.Background(), "user", "wrong")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)

	_, ok := session.Credential()
	assert.False(t, ok, "no credential may be stored after a failed login")
}

func TestLogin_MalformedResponse(t *testing.T) {
	server := loginServer(t, http.StatusOK, `not json`)
	defer server.Close()

	session := NewAuthSession(server.URL, &http.Client{}, nil, zap.NewNop())

	_, err := session.Login(context.Background(), "user", "secret")

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestLogin_MissingTokenField(t *testing.T) {
	server := loginServer(t, http.StatusOK, `{"sessionId":"abc"}`)
	defer server.Close()

	session := NewAuthSession(server.URL, &http.Client{}, nil, zap.NewNop())

	_, err := session.Login(context.Background(), "user", "secret")

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestLogin_TransportFailure(t *testing.T) {
	server := loginServer(t, http.StatusOK, `{"token":"x"}`)
	baseURL := server.URL
	server.Close()

	session := NewAuthSession(baseURL, &http.Client{}, nil, zap.NewNop())

	_, err := session.Login(context.Background(), "user", "secret")

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestLogin_FailureKeepsPriorCredential(t *testing.T) {
	session := NewAuthSession("", &http.Client{}, nil, zap.NewNop())
	session.token = "prior-token"

	server := loginServer(t, http.StatusUnauthorized, ``)
	defer server.Close()
	session.baseURL = server.URL

	_, err := session.Login(context.Background(), "user", "wrong")
	require.Error(t, err)

	held, ok := session.Credential()
	assert.True(t, ok)
	assert.Equal(t, "prior-token", held)
}

func TestLogin_LastLoginWins(t *testing.T) {
	tokens := []string{`{"token":"first"}`, `{"token":"second"}`}
	var call int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tokens[call]))
		call++
	}))
	defer server.Close()

	session := NewAuthSession(server.URL, &http.Client{}, nil, zap.NewNop())

	_, err := session.Login(context.Background(), "user", "secret")
	require.NoError(t, err)
	_, err = session.Login(context.Background(), "user", "secret")
	require.NoError(t, err)

	held, _ := session.Credential()
	assert.Equal(t, "second", held)
}

func TestClear_Idempotent(t *testing.T) {
	store := &memoryTokenStore{token: "persisted-token"}
	session := NewAuthSession("", &http.Client{}, store, zap.NewNop())

	held, ok := session.Credential()
	require.True(t, ok, "persisted credential should be restored")
	assert.Equal(t, "persisted-token", held)

	session.Clear()
	_, ok = session.Credential()
	assert.False(t, ok)
	assert.Empty(t, store.token)

	// clearing again is a no-op
	session.Clear()
	_, ok = session.Credential()
	assert.False(t, ok)
}
