package commercetools

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"storefront/internal/infra/config"
	"storefront/internal/infra/logging"
)

func testConfig(apiURL, authURL string) config.Commercetools {
	return config.Commercetools{
		ProjectKey:   "demo",
		ClientID:     "id",
		ClientSecret: "secret",
		AuthURL:      authURL,
		APIURL:       apiURL,
		Scopes:       []string{"view_products:demo"},
		Timeout:      5 * time.Second,
	}
}

// newTestClient points a client at srv with a static token.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(
		testConfig(srv.URL, srv.URL),
		WithHTTPClient(srv.Client()),
		WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"})),
		WithLogger(logging.Discard()),
	)
	require.NoError(t, err)
	return c
}

func TestClient_ClientCredentialsFlow(t *testing.T) {
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", user)
		assert.Equal(t, "secret", pass)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "grant_type=client_credentials")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/demo/channels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL, srv.URL+"/"), WithHTTPClient(srv.Client()), WithLogger(logging.Discard()))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = c.get(t.Context(), "channels", "channels", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), tokenCalls.Load(), "token is reused until expiry")
}

func TestClient_TokenFailureIsAuthError(t *testing.T) {
	var apiCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	})
	mux.HandleFunc("/demo/", func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL, srv.URL), WithHTTPClient(srv.Client()), WithLogger(logging.Discard()))
	require.NoError(t, err)

	_, err = c.get(t.Context(), "stores", "stores", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	var ae *AuthError
	assert.True(t, errors.As(err, &ae))
	assert.Zero(t, apiCalls.Load(), "no API call without a token")
}

func TestClient_RemoteQueryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"statusCode": 400, "message": "Malformed parameter: where"})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).get(t.Context(), epProjections, "standalone-variant-projections", nil)
	var rq *RemoteQueryError
	require.True(t, errors.As(err, &rq))
	assert.Equal(t, http.StatusBadRequest, rq.Status)
	assert.Equal(t, "Malformed parameter: where", rq.Message)
	assert.False(t, IsNotFound(err))
}

func TestClient_Unauthorized_IsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid_token"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).get(t.Context(), "stores", "stores", nil)
	assert.ErrorIs(t, err, ErrAuth)
	assert.True(t, strings.Contains(err.Error(), "invalid_token"))
}

func TestClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL, srv.URL)
	cfg.RateLimit = 0.5
	c, err := NewClient(cfg,
		WithHTTPClient(srv.Client()),
		WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"})),
		WithLogger(logging.Discard()),
	)
	require.NoError(t, err)
	require.NotNil(t, c.limiter)

	_, err = c.get(t.Context(), "project", "", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err = c.get(ctx, "project", "", nil)
	assert.Error(t, err, "second call must wait longer than the deadline")
}

func TestClient_TokenFetchFollowsRequestContext(t *testing.T) {
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if tokenCalls.Add(1) == 1 {
			// slow auth server: only the caller's cancellation ends this
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/demo/project", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL, srv.URL), WithHTTPClient(srv.Client()), WithLogger(logging.Discard()))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = c.get(ctx, "project", "project", nil)
	assert.ErrorIs(t, err, ErrAuth)
	assert.Less(t, time.Since(start), time.Second, "token fetch stops with the request")

	_, err = c.get(t.Context(), "project", "project", nil)
	require.NoError(t, err, "a cancelled fetch is not cached")
	assert.Equal(t, int32(2), tokenCalls.Load())
}

func TestClient_TruncatedBodyIsReadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, buf, err := w.(http.Hijacker).Hijack()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = buf.WriteString("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 100\r\n\r\n{\"results\":[")
		_ = buf.Flush()
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).get(t.Context(), epProjections, "standalone-variant-projections", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), epProjections)
	assert.NotContains(t, err.Error(), "invalid json")
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"a\"b\\c"`, quote(`a"b\c`))
}
