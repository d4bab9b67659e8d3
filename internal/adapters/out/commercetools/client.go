// internal/adapters/out/commercetools/client.go
package commercetools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"storefront/internal/infra/config"
	"storefront/internal/infra/metrics"
)

// Client talks to one commercetools project.
//
// Tokens come from the client-credentials flow and are cached until expiry. A fetch
// runs on the caller's context, so a cancelled request stops waiting for the auth
// server. Outbound calls pass through an optional rate limiter.
type Client struct {
	http    *http.Client
	tokens  oauth2.TokenSource // set by WithTokenSource; replaces cc
	cc      *clientcredentials.Config
	baseURL string // {apiUrl}/{projectKey}
	limiter *rate.Limiter
	log     *logrus.Entry

	tokMu sync.Mutex
	tok   *oauth2.Token
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport (tests use httptest servers).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l.WithField("component", "commercetools")
		}
	}
}

// WithTokenSource replaces the client-credentials flow.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		if ts != nil {
			c.tokens = ts
		}
	}
}

// NewClient builds a client from validated settings.
func NewClient(cfg config.Commercetools, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.ProjectKey) == "" || strings.TrimSpace(cfg.APIURL) == "" {
		return nil, errors.New("commercetools: projectKey and apiUrl are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.APIURL, "/") + "/" + url.PathEscape(cfg.ProjectKey),
		log:     logrus.StandardLogger().WithField("component", "commercetools"),
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, o := range opts {
		o(c)
	}

	if c.tokens == nil {
		c.cc = &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     strings.TrimRight(cfg.AuthURL, "/") + "/oauth/token",
			Scopes:       cfg.Scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
	}
	return c, nil
}

// Token returns a bearer token, mapping every failure to *AuthError.
func (c *Client) Token(ctx context.Context) (*oauth2.Token, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, &AuthError{Err: errors.New("empty access token")}
	}
	return tok, nil
}

// token reuses a valid cached token; otherwise one caller fetches while the others wait.
func (c *Client) token(ctx context.Context) (*oauth2.Token, error) {
	if c.tokens != nil {
		return c.tokens.Token()
	}
	c.tokMu.Lock()
	defer c.tokMu.Unlock()
	if c.tok.Valid() {
		return c.tok, nil
	}
	// token fetches share the API client's transport and timeout
	tok, err := c.cc.Token(context.WithValue(ctx, oauth2.HTTPClient, c.http))
	if err != nil {
		return nil, err
	}
	c.tok = tok
	return tok, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values) (gjson.Result, error) {
	return c.do(ctx, http.MethodGet, endpoint, path, q, nil)
}

func (c *Client) post(ctx context.Context, endpoint, path string, q url.Values, body any) (gjson.Result, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("commercetools: encode %s: %w", endpoint, err)
	}
	return c.do(ctx, http.MethodPost, endpoint, path, q, b)
}

func (c *Client) do(ctx context.Context, method, endpoint, path string, q url.Values, body []byte) (gjson.Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return gjson.Result{}, err
		}
	}

	tok, err := c.Token(ctx)
	if err != nil {
		c.log.WithError(err).WithField("endpoint", endpoint).Warn("[commercetools] token FAILED")
		return gjson.Result{}, err
	}

	u := c.baseURL
	if p := strings.TrimLeft(path, "/"); p != "" {
		u += "/" + p
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("commercetools: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveRemote(endpoint, 0, time.Since(start))
		c.log.WithError(err).WithField("endpoint", endpoint).Warn("[commercetools] request FAILED")
		return gjson.Result{}, fmt.Errorf("commercetools: %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 16<<20))
	metrics.ObserveRemote(endpoint, res.StatusCode, time.Since(start))
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   res.StatusCode,
		}).Warn("[commercetools] read body FAILED")
		return gjson.Result{}, fmt.Errorf("commercetools: %s: read body: %w", endpoint, err)
	}

	if res.StatusCode == http.StatusUnauthorized {
		return gjson.Result{}, &AuthError{Err: fmt.Errorf("%s: %s", endpoint, errorMessage(raw))}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		e := &RemoteQueryError{Endpoint: endpoint, Status: res.StatusCode, Message: errorMessage(raw)}
		c.log.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   res.StatusCode,
		}).Warnf("[commercetools] %s", e.Message)
		return gjson.Result{}, e
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("commercetools: %s returned invalid json", endpoint)
	}

	c.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"status":   res.StatusCode,
		"elapsed":  time.Since(start).String(),
	}).Debug("[commercetools] ok")
	return gjson.ParseBytes(raw), nil
}

// errorMessage extracts {"message": ...} from a platform error body.
func errorMessage(raw []byte) string {
	if m := gjson.GetBytes(raw, "message"); m.Exists() {
		return m.String()
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}

// quote renders s as a predicate string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
