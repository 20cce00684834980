package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/auth"
)

const refreshPath = "/auth/refresh"

// Client calls the portal API. It attaches the stored access token to every request and, when a
// request is rejected with 401, refreshes the session once and retries.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	logger  core.Logger

	refreshMu sync.Mutex
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client; its Timeout is kept.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func WithLogger(logger core.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(conf core.ClientConfig, tokens TokenStore, opts ...Option) *Client {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Tokens() TokenStore {
	return c.tokens
}

type request struct {
	method string
	path   string
	body   interface{}
	// token overrides the stored access token; noAuth sends none.
	token  string
	noAuth bool
	// noRetry skips the refresh-and-retry on 401.
	noRetry bool
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, request{method: http.MethodGet, path: path}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, request{method: http.MethodPost, path: path, body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, request{method: http.MethodPut, path: path, body: body}, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path}, nil)
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	token, err := c.accessToken(r)
	if err != nil {
		return err
	}

	err = c.send(ctx, r, token, out)
	if r.noRetry || r.noAuth || StatusCode(err) != http.StatusUnauthorized {
		return err
	}

	// 401: refresh once, then replay the original request
	newToken, rErr := c.refreshAfter(ctx, token)
	if rErr != nil {
		return rErr
	}
	return c.send(ctx, r, newToken, out)
}

func (c *Client) accessToken(r request) (string, error) {
	if r.noAuth {
		return "", nil
	}
	if r.token != "" {
		return r.token, nil
	}
	stored, err := c.tokens.Read()
	if err != nil {
		return "", errors.Wrap(err, "reading tokens")
	}
	if stored == nil {
		return "", nil
	}
	return stored.AccessToken, nil
}

// refreshAfter exchanges the stored refresh token for a new session, unless another call already
// replaced the rejected access token. The store is cleared when the session cannot be refreshed.
func (c *Client) refreshAfter(ctx context.Context, rejected string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	stored, err := c.tokens.Read()
	if err != nil {
		return "", errors.Wrap(err, "reading tokens")
	}
	if stored != nil && stored.AccessToken != "" && stored.AccessToken != rejected {
		return stored.AccessToken, nil
	}
	if stored == nil || stored.RefreshToken == "" {
		c.clearTokens()
		return "", &APIError{Status: http.StatusUnauthorized, Message: "Sessão expirada ou inválida."}
	}

	sess, err := c.refresh(ctx, stored.RefreshToken)
	if err != nil {
		c.clearTokens()
		return "", err
	}
	return sess.Tokens.AccessToken, nil
}

// refresh calls the refresh endpoint without Authorization and persists the new session.
func (c *Client) refresh(ctx context.Context, refreshToken string) (auth.Session, error) {
	var sess auth.Session
	r := request{
		method: http.MethodPost,
		path:   refreshPath,
		body:   map[string]string{"refreshToken": refreshToken},
		noAuth: true,
	}
	if err := c.do(ctx, r, &sess); err != nil {
		return auth.Session{}, err
	}
	if err := c.tokens.Write(storedSession(sess)); err != nil {
		return auth.Session{}, errors.Wrap(err, "persisting session")
	}
	return sess, nil
}

func (c *Client) clearTokens() {
	if err := c.tokens.Clear(); err != nil && c.logger != nil {
		c.logger.Warn("failed to clear tokens", err)
	}
}

func (c *Client) send(ctx context.Context, r request, token string, out interface{}) error {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Err: err}
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Err: errors.Wrap(err, "reading response body")}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody struct {
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		}
		if json.Unmarshal(data, &errBody) == nil {
			apiErr.Message = errBody.Message
			apiErr.Fields = errBody.Fields
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, out), "decoding response body")
}
