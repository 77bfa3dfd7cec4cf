package challenge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestHTTPVerifierDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "secret-value", r.Form.Get("secret"))
		require.Equal(t, "tok", r.Form.Get("response"))
		require.Equal(t, "203.0.113.9", r.Form.Get("remoteip"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"score":0.7,"action":"contact_form"}`))
	}))
	defer server.Close()

	verifier, err := NewHTTPVerifier(Config{VerifyURL: server.URL, Secret: "secret-value"}, zerolog.Nop())
	require.NoError(t, err)

	result, err := verifier.Verify(context.Background(), "tok", "203.0.113.9")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.InDelta(t, 0.7, result.Score, 0.001)
	require.Equal(t, "contact_form", result.Action)
}

func TestHTTPVerifierErrorCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["timeout-or-duplicate"]}`))
	}))
	defer server.Close()

	verifier, err := NewHTTPVerifier(Config{VerifyURL: server.URL, Secret: "secret-value"}, zerolog.Nop())
	require.NoError(t, err)

	result, err := verifier.Verify(context.Background(), "tok", "")
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, []string{"timeout-or-duplicate"}, result.ErrorCodes)
}

func TestHTTPVerifierNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	verifier, err := NewHTTPVerifier(Config{VerifyURL: server.URL, Secret: "secret-value"}, zerolog.Nop())
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), "tok", "")
	require.Error(t, err)
}

func TestHTTPVerifierTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	verifier, err := NewHTTPVerifier(Config{VerifyURL: server.URL, Secret: "secret-value", Timeout: 20 * time.Millisecond}, zerolog.Nop())
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), "tok", "")
	require.Error(t, err)
}

func TestHTTPVerifierConfigValidation(t *testing.T) {
	_, err := NewHTTPVerifier(Config{Secret: "x"}, zerolog.Nop())
	require.Error(t, err)

	_, err = NewHTTPVerifier(Config{VerifyURL: "https://example.com"}, zerolog.Nop())
	require.Error(t, err)
}
