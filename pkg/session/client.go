// Package session is the client side of the auth contract: it holds the access
// token, keeps the refresh cookie in a jar the way a browser would, refreshes
// proactively on navigation and reactively, once, on a 401.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
)

const (
	refreshCookieName = "refreshToken"

	DefaultAuthPath   = "/api/auth"
	DefaultLoginRoute = "/login"
)

// ErrSignedOut is returned once the session could not be renewed. The store
// has been cleared and OnSignedOut has run by the time a caller sees it.
var ErrSignedOut = errors.New("session: signed out")

// APIError is a non-success response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

type Options struct {
	BaseURL string
	Store   TokenStore

	// HTTPClient is used as-is except that a cookie jar is installed when it
	// has none.
	HTTPClient *http.Client

	// AuthPath must match the server's refresh cookie path.
	AuthPath     string
	LoginRoute   string
	PublicRoutes []string

	// OnSignedOut is the redirect hook; it receives LoginRoute.
	OnSignedOut func(loginRoute string)

	Logger *slog.Logger
}

type Client struct {
	base        *url.URL
	http        *http.Client
	store       TokenStore
	authPath    string
	loginRoute  string
	public      map[string]struct{}
	onSignedOut func(string)
	log         *slog.Logger
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("session: invalid base url %q", opts.BaseURL)
	}
	if opts.Store == nil {
		return nil, errors.New("session: store is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		clone := *hc
		clone.Jar = jar
		hc = &clone
	}

	c := &Client{
		base:        base,
		http:        hc,
		store:       opts.Store,
		authPath:    opts.AuthPath,
		loginRoute:  opts.LoginRoute,
		public:      map[string]struct{}{},
		onSignedOut: opts.OnSignedOut,
		log:         opts.Logger,
	}
	if c.authPath == "" {
		c.authPath = DefaultAuthPath
	}
	if c.loginRoute == "" {
		c.loginRoute = DefaultLoginRoute
	}
	c.public[c.loginRoute] = struct{}{}
	for _, r := range opts.PublicRoutes {
		c.public[r] = struct{}{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}

	if v, err := c.store.RefreshCookie(); err == nil && v != "" {
		c.http.Jar.SetCookies(c.authURL(""), []*http.Cookie{{Name: refreshCookieName, Value: v, Path: c.authPath}})
	}
	return c, nil
}

// url joins path, which may carry a query string, onto the base URL.
func (c *Client) url(path string) *url.URL {
	u := *c.base
	ref, err := url.Parse(path)
	if err != nil {
		u.Path = c.base.Path + path
		return &u
	}
	u.Path = c.base.Path + ref.Path
	u.RawQuery = ref.RawQuery
	return &u
}

func (c *Client) authURL(endpoint string) *url.URL {
	return c.url(c.authPath + endpoint)
}

// NewRequest builds a request against the API base URL.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, c.url(path).String(), body)
}

/* ===================== AUTH ENDPOINTS ===================== */

// Login stores the returned access token; the refresh cookie lands in the jar.
func (c *Client) Login(ctx context.Context, employeeID, password string) error {
	body, _ := json.Marshal(map[string]string{"employee_id": employeeID, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL("/login").String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	tok, err := c.tokenCall(req)
	if err != nil {
		return err
	}
	return c.store.SetAccessToken(tok)
}

// Refresh asks the server for a new access token using the refresh cookie and
// stores it. It does not clear the store on failure; see Navigate and Do.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authURL("/refresh").String(), nil)
	if err != nil {
		return "", err
	}
	tok, err := c.tokenCall(req)
	if err != nil {
		return "", err
	}
	if err := c.store.SetAccessToken(tok); err != nil {
		return "", err
	}
	return tok, nil
}

// Logout ends the session server-side and always clears local state.
func (c *Client) Logout(ctx context.Context, employeeID string) error {
	body, _ := json.Marshal(map[string]string{"employee_id": employeeID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL("/logout").String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	clearErr := c.clearSession()
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return decodeAPIError(resp)
	}
	return clearErr
}

func (c *Client) tokenCall(req *http.Request) (string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp)
	}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if out.AccessToken == "" {
		return "", errors.New("session: empty access token in response")
	}
	c.persistRefreshCookie()
	return out.AccessToken, nil
}

func (c *Client) persistRefreshCookie() {
	for _, ck := range c.http.Jar.Cookies(c.authURL("/refresh")) {
		if ck.Name == refreshCookieName {
			if err := c.store.SetRefreshCookie(ck.Value); err != nil {
				c.log.Warn("persist refresh cookie failed", "err", err)
			}
			return
		}
	}
}

func (c *Client) clearSession() error {
	c.http.Jar.SetCookies(c.authURL(""), []*http.Cookie{{Name: refreshCookieName, Path: c.authPath, MaxAge: -1}})
	return c.store.Clear()
}

func (c *Client) signOut() {
	if err := c.clearSession(); err != nil {
		c.log.Warn("clear session failed", "err", err)
	}
	if c.onSignedOut != nil {
		c.onSignedOut(c.loginRoute)
	}
}

/* ===================== NAVIGATION ===================== */

// Navigate runs before entering route. Public routes pass untouched; any other
// route first refreshes the access token and signs the user out on failure.
func (c *Client) Navigate(ctx context.Context, route string) error {
	if _, ok := c.public[route]; ok {
		return nil
	}
	if _, err := c.Refresh(ctx); err != nil {
		c.log.Debug("refresh on navigation failed", "route", route, "err", err)
		c.signOut()
		return fmt.Errorf("%w: %v", ErrSignedOut, err)
	}
	return nil
}

/* ===================== PROTECTED CALLS ===================== */

type retryKey struct{}

// RetryCount reports how many times the call carrying ctx has been replayed.
func RetryCount(ctx context.Context) int {
	n, _ := ctx.Value(retryKey{}).(int)
	return n
}

func withRetryCount(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, retryKey{}, n)
}

// Do sends req with the stored access token. A 401 on a call that has not
// been replayed yet triggers one refresh and one replay. A failed refresh
// signs the user out and returns ErrSignedOut.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("buffer request body: %w", err)
		}
		body = b
	}
	return c.send(req, body)
}

func (c *Client) send(orig *http.Request, body []byte) (*http.Response, error) {
	ctx := orig.Context()

	tok, err := c.store.AccessToken()
	if err != nil {
		return nil, fmt.Errorf("read access token: %w", err)
	}

	req := orig.Clone(ctx)
	if body != nil {
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || RetryCount(ctx) > 0 {
		return resp, nil
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	if _, err := c.Refresh(ctx); err != nil {
		c.log.Debug("refresh after 401 failed", "path", orig.URL.Path, "err", err)
		c.signOut()
		return nil, fmt.Errorf("%w: %v", ErrSignedOut, err)
	}
	c.log.Debug("replaying after refresh", "path", orig.URL.Path)
	return c.send(orig.WithContext(withRetryCount(ctx, RetryCount(ctx)+1)), body)
}

// GetJSON performs a protected GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	req, err := c.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	return &APIError{Status: resp.StatusCode, Message: body.Message}
}
