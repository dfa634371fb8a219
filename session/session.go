// Package session manages authenticated access to the PIX REST API.
//
// A Session logs the configured user in on first use, keeps the service's
// session cookie, re-authenticates when the server-side session expires,
// and tracks the active project. GET responses are decoded and promoted
// through the session's factory; the mutating verbs return the raw
// response. The client issues one request at a time per session and does
// not retry.
package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	json "github.com/goccy/go-json"

	"github.com/bitvfx/pix-go/config"
	"github.com/bitvfx/pix-go/factory"
	"github.com/bitvfx/pix-go/model"
	"github.com/bitvfx/pix-go/registry"
)

const (
	defaultUserAgent  = "pix-go/0.1"
	defaultTimeout    = 30 * time.Second
	jsonContentType   = "application/json;charset=utf-8"
	sessionPath       = "/session/"
	timeRemainingPath = "/session/time_remaining"
	activeProjectPath = "/session/active_project"
)

// Session issues API calls against the PIX REST endpoints on behalf of
// one logged-in user. Use New to construct one; the zero value is not
// usable.
type Session struct {
	cfg       config.Config
	base      *url.URL
	http      *http.Client
	headers   http.Header
	userAgent string
	log       logr.Logger

	registry *registry.Registry
	factory  *factory.Factory

	// expires marks when the server-side session lapses; zero means not
	// logged in. Single-threaded use per session, no locking (matching
	// the one-request-at-a-time model).
	expires time.Time

	active *factory.Object
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithHTTPClient substitutes the underlying HTTP client. The session
// installs its own cookie jar when the client has none.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) { s.http = client }
}

// WithLogger attaches a structured logger; requests log at V(1).
func WithLogger(log logr.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithRegistry substitutes the class registry. The default registry
// carries the built-in PIX models; callers bringing their own registry
// register what they need themselves.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Session) { s.registry = reg }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Session) { s.userAgent = ua }
}

// New builds a Session for cfg. It validates credentials eagerly (every
// missing field is named in the error) but does not touch the network;
// login happens lazily on the first call.
func New(cfg config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &LoginError{Reason: err.Error()}
	}

	base, err := parseBaseURL(cfg.APIURL)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:       cfg,
		base:      base,
		userAgent: defaultUserAgent,
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.http == nil {
		s.http = &http.Client{Timeout: defaultTimeout}
	}
	if s.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("init cookie jar: %w", err)
		}
		s.http.Jar = jar
	}

	if s.registry == nil {
		s.registry = registry.New()
		model.Builtins(s.registry)
	}
	s.factory = factory.New(s, s.registry)

	s.headers = http.Header{}
	s.headers.Set("X-PIX-App-Key", cfg.AppKey)
	s.headers.Set("Content-Type", jsonContentType)
	s.headers.Set("Accept", jsonContentType)

	return s, nil
}

// Factory returns the factory promoting this session's responses.
func (s *Session) Factory() *factory.Factory {
	return s.factory
}

// Registry returns the class registry backing this session.
func (s *Session) Registry() *registry.Registry {
	return s.registry
}

// Login authenticates against the service. It is called automatically by
// the request verbs when no live session exists.
func (s *Session) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"username": s.cfg.Username,
		"password": s.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	resp, err := s.roundTrip(ctx, http.MethodPut, sessionPath, body, factory.RequestOptions{})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return &LoginError{Reason: resp.Status}
	}

	remaining, err := s.TimeRemaining(ctx)
	if err != nil {
		return fmt.Errorf("query session lifetime: %w", err)
	}
	s.expires = time.Now().Add(remaining)
	s.log.Info("logged in", "user", s.cfg.Username, "expiresIn", remaining)
	return nil
}

// Logout ends the server-side session. The next request logs in again.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.roundTrip(ctx, http.MethodDelete, sessionPath, nil, factory.RequestOptions{})
	if err != nil {
		return err
	}
	s.expires = time.Time{}
	s.active = nil
	if err := resp.Err(); err != nil {
		return err
	}
	s.log.Info("logged out", "user", s.cfg.Username)
	return nil
}

// TimeRemaining asks the service how long the current session lasts.
// Deliberately bypasses the login check to avoid recursing through Login.
func (s *Session) TimeRemaining(ctx context.Context) (time.Duration, error) {
	resp, err := s.roundTrip(ctx, http.MethodGet, timeRemainingPath, nil, factory.RequestOptions{})
	if err != nil {
		return 0, err
	}
	if err := resp.Err(); err != nil {
		return 0, err
	}
	var seconds float64
	if err := json.Unmarshal(resp.Body, &seconds); err != nil {
		return 0, fmt.Errorf("parse time remaining: %w", err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// Get issues a GET call and returns the decoded, promoted payload.
func (s *Session) Get(ctx context.Context, path string, opts ...factory.RequestOption) (any, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	resp, err := s.roundTrip(ctx, http.MethodGet, path, nil, factory.BuildRequestOptions(opts))
	if err != nil {
		return nil, err
	}
	decoded, err := factory.Decode(resp.Body)
	if err != nil {
		if apiErr := resp.Err(); apiErr != nil {
			return nil, apiErr
		}
		return nil, err
	}
	return s.factory.Promote(decoded)
}

// Put issues a PUT call with a JSON payload and returns the raw response.
func (s *Session) Put(ctx context.Context, path string, payload any, opts ...factory.RequestOption) (*factory.Response, error) {
	return s.send(ctx, http.MethodPut, path, payload, opts)
}

// Post issues a POST call with a JSON payload and returns the raw response.
func (s *Session) Post(ctx context.Context, path string, payload any, opts ...factory.RequestOption) (*factory.Response, error) {
	return s.send(ctx, http.MethodPost, path, payload, opts)
}

// Delete issues a DELETE call and returns the raw response.
func (s *Session) Delete(ctx context.Context, path string, opts ...factory.RequestOption) (*factory.Response, error) {
	return s.send(ctx, http.MethodDelete, path, nil, opts)
}

// Download issues a GET call and returns the raw response without JSON
// promotion, for media endpoints that serve bytes.
func (s *Session) Download(ctx context.Context, path string, opts ...factory.RequestOption) (*factory.Response, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	return s.roundTrip(ctx, http.MethodGet, path, nil, factory.BuildRequestOptions(opts))
}

func (s *Session) send(ctx context.Context, method, path string, payload any, opts []factory.RequestOption) (*factory.Response, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = b
	}
	return s.roundTrip(ctx, method, path, body, factory.BuildRequestOptions(opts))
}

// ensure logs in when no live server-side session exists.
func (s *Session) ensure(ctx context.Context) error {
	if !s.expires.IsZero() && time.Now().Before(s.expires) {
		return nil
	}
	return s.Login(ctx)
}

// roundTrip performs one HTTP exchange. Relative paths are appended to
// the API base URL (which may itself carry a path prefix); absolute URLs
// pass through untouched.
func (s *Session) roundTrip(ctx context.Context, method, path string, body []byte, ro factory.RequestOptions) (*factory.Response, error) {
	target := s.resolveURL(path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, values := range s.headers {
		req.Header[key] = append([]string(nil), values...)
	}
	for key, values := range ro.Header {
		req.Header[key] = append([]string(nil), values...)
	}
	req.Header.Set("User-Agent", s.userAgent)

	s.log.V(1).Info("request", "method", method, "path", path)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &factory.Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (s *Session) resolveURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	base := strings.TrimRight(s.base.String(), "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
