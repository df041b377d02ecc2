package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthURL_QueryParameters(t *testing.T) {
	p := NewGoogleProvider("client-123", "secret", "http://localhost:8080/auth/google/callback")

	u, err := url.Parse(p.AuthURL("state-abc"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8080/auth/google/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "state-abc", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
}

func TestVerifyIDToken_MatchingAudience(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-1", r.URL.Query().Get("id_token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"aud":"client-123","sub":"u-1","email":"jane@example.com","email_verified":"true","name":"Jane Doe"}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider("client-123", "secret", "http://localhost/cb")
	p.tokenInfoURL = srv.URL

	id, err := p.VerifyIDToken(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.Sub)
	assert.Equal(t, "jane@example.com", id.Email)
	assert.Equal(t, "Jane Doe", id.Name)
}

func TestVerifyIDToken_AudienceMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"aud":"someone-else","sub":"u-1"}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider("client-123", "secret", "http://localhost/cb")
	p.tokenInfoURL = srv.URL

	_, err := p.VerifyIDToken(context.Background(), "tok-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audience")
}

func TestVerifyIDToken_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_token","error_description":"Invalid Value"}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider("client-123", "secret", "http://localhost/cb")
	p.tokenInfoURL = srv.URL

	_, err := p.VerifyIDToken(context.Background(), "garbage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Value")
}

func TestNewState_Unique(t *testing.T) {
	a, err := NewState()
	require.NoError(t, err)
	b, err := NewState()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
