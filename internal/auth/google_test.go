package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeTokenInfo(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("id_token"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestGoogleVerify_Success(t *testing.T) {
	srv := newFakeTokenInfo(t, http.StatusOK,
		`{"sub":"108","email":"ana@example.com","name":"Ana","picture":"p.jpg","aud":"client-1"}`)
	defer srv.Close()

	v := NewGoogleTokenVerifier("client-1")
	v.endpoint = srv.URL

	claims, err := v.Verify(context.Background(), "some-token")
	require.NoError(t, err)
	assert.Equal(t, "108", claims.Sub)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
}

func TestGoogleVerify_WrongAudience(t *testing.T) {
	srv := newFakeTokenInfo(t, http.StatusOK,
		`{"sub":"108","email":"ana@example.com","aud":"someone-else"}`)
	defer srv.Close()

	v := NewGoogleTokenVerifier("client-1")
	v.endpoint = srv.URL

	_, err := v.Verify(context.Background(), "some-token")
	assert.Error(t, err)
}

func TestGoogleVerify_RejectedToken(t *testing.T) {
	srv := newFakeTokenInfo(t, http.StatusBadRequest, `{"error":"invalid_token"}`)
	defer srv.Close()

	v := NewGoogleTokenVerifier("client-1")
	v.endpoint = srv.URL

	_, err := v.Verify(context.Background(), "bad-token")
	assert.Error(t, err)
}
