// Package api is the outbound REST adapter for the webStore backend.
//
// It wraps every request with the configured base URL and, when a session
// token exists, a Bearer authorization header. All non-2xx responses come
// back as a typed *Error (see errors.go).
//
// Usage:
//
//	client := api.New("http://localhost:8082", session.Default())
//
//	var products []models.Product
//	err := client.Get("/products").Send(ctx, &products)
//
//	var created models.Product
//	err = client.Post("/products").
//	    JSONPart("product", payload).
//	    FilePart("photo", "front.jpg", photoBytes).
//	    Send(ctx, &created)
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	gohttp "net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/shashiranjanraj/storeadmin/config"
	"github.com/shashiranjanraj/storeadmin/pkg/logger"
	"github.com/shashiranjanraj/storeadmin/pkg/metrics"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty string means "send unauthenticated" — the server will reject
// protected routes on its own.
type TokenSource interface {
	Current() string
}

// defaultTransport is the connection-pooled transport used in production.
// Tests swap it via SetTransport to intercept calls.
var defaultTransport = &gohttp.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 50,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is the shared HTTP client behind every Client.
var DefaultClient = &gohttp.Client{
	Transport: defaultTransport,
}

// SetTransport replaces the transport on DefaultClient (tests only).
func SetTransport(rt gohttp.RoundTripper) {
	DefaultClient.Transport = rt
}

// ResetTransport restores the production transport on DefaultClient.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// Client dispatches requests against one backend.
type Client struct {
	base       string
	prefix     string
	authPrefix string
	timeout    time.Duration
	tokens     TokenSource

	// OnUnauthorized, when set, is called after a 401/403 on a non-auth
	// route. The adapter itself never clears the session or redirects;
	// centralizing forced logout is the embedder's decision.
	OnUnauthorized func(status int, path string)
}

// New builds a Client for the given backend origin.
func New(base string, tokens TokenSource) *Client {
	return &Client{
		base:       base,
		prefix:     config.APIPrefix(),
		authPrefix: config.AuthPrefix(),
		timeout:    config.HTTPTimeout(),
		tokens:     tokens,
	}
}

// FromConfig builds a Client from API_BASE_URL. A missing base URL is a
// startup misconfiguration and comes back as config.ErrMissingBaseURL.
func FromConfig(tokens TokenSource) (*Client, error) {
	base, err := config.BaseURL()
	if err != nil {
		return nil, err
	}
	return New(base, tokens), nil
}

// URL returns the absolute URL for a resource path, for assets that are
// fetched outside the JSON adapter (e.g. product images).
func (c *Client) URL(path string) string {
	return c.base + c.prefix + path
}

// ── Request builder ──────────────────────────────────────────────────────────

// Request is a fluent request builder bound to a Client.
type Request struct {
	c       *Client
	method  string
	route   string // unexpanded pattern, e.g. "/products/%d/status"
	path    string
	query   url.Values
	headers map[string]string
	body    interface{}

	jsonParts []jsonPart
	fileParts []filePart

	authRoute bool
}

type jsonPart struct {
	name  string
	value interface{}
}

type filePart struct {
	name     string
	filename string
	data     []byte
}

// Get starts a GET request against a resource route. The route is a
// fmt pattern expanded with args (e.g. Get("/products/%d", id)); metrics
// are labeled with the unexpanded route so per-entity ids do not fan out
// into new label values.
func (c *Client) Get(route string, args ...interface{}) *Request {
	return c.newRequest(gohttp.MethodGet, route, args)
}

// Post starts a POST request.
func (c *Client) Post(route string, args ...interface{}) *Request {
	return c.newRequest(gohttp.MethodPost, route, args)
}

// Put starts a PUT request.
func (c *Client) Put(route string, args ...interface{}) *Request {
	return c.newRequest(gohttp.MethodPut, route, args)
}

// Patch starts a PATCH request.
func (c *Client) Patch(route string, args ...interface{}) *Request {
	return c.newRequest(gohttp.MethodPatch, route, args)
}

// Delete starts a DELETE request.
func (c *Client) Delete(route string, args ...interface{}) *Request {
	return c.newRequest(gohttp.MethodDelete, route, args)
}

func (c *Client) newRequest(method, route string, args []interface{}) *Request {
	path := route
	if len(args) > 0 {
		path = fmt.Sprintf(route, args...)
	}
	return &Request{
		c:       c,
		method:  method,
		route:   route,
		path:    path,
		query:   url.Values{},
		headers: map[string]string{"Accept": "application/json"},
	}
}

// Auth routes the request through the authentication prefix instead of the
// resource prefix. 401/403 responses then map to InvalidCredentials.
func (r *Request) Auth() *Request {
	r.authRoute = true
	return r
}

// Query adds a query-string parameter.
func (r *Request) Query(key, value string) *Request {
	r.query.Set(key, value)
	return r
}

// QueryInt adds an integer query-string parameter.
func (r *Request) QueryInt(key string, value int) *Request {
	return r.Query(key, fmt.Sprintf("%d", value))
}

// Header adds a single header to the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Body sets a JSON request body.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// JSONPart adds a JSON-encoded multipart form part. Using any part switches
// the request body to multipart/form-data.
func (r *Request) JSONPart(name string, v interface{}) *Request {
	r.jsonParts = append(r.jsonParts, jsonPart{name: name, value: v})
	return r
}

// FilePart adds a binary multipart form part. A nil or empty data slice is
// ignored, so callers can pass an optional attachment unconditionally.
func (r *Request) FilePart(name, filename string, data []byte) *Request {
	if len(data) == 0 {
		return r
	}
	r.fileParts = append(r.fileParts, filePart{name: name, filename: filename, data: data})
	return r
}

// ── Send ─────────────────────────────────────────────────────────────────────

// Send executes the request and decodes a 2xx response body into dest
// (skipped when dest is nil, e.g. for 204s). Any non-2xx response or
// transport failure returns a typed *Error.
func (r *Request) Send(ctx context.Context, dest interface{}) error {
	// A body that cannot be encoded is a caller bug, not a transport
	// failure; it comes back as a plain error, like the decode path below.
	body, contentType, err := r.buildBody()
	if err != nil {
		return err
	}

	start := time.Now()

	status, raw, err := r.do(ctx, body, contentType)
	metrics.ObserveRequest(r.method, r.route, status, time.Since(start))

	if err != nil {
		logger.Warn("api: request failed", "method", r.method, "path", r.path, "error", err)
		return &Error{Kind: KindNetwork, Err: err}
	}

	if status < 200 || status >= 300 {
		apiErr := classify(status, raw, r.authRoute)
		if apiErr.Kind == KindUnauthorized {
			// Logged but not acted upon here; see Client.OnUnauthorized.
			logger.Warn("api: unauthorized response", "method", r.method, "path", r.path, "status", status)
			if r.c.OnUnauthorized != nil {
				r.c.OnUnauthorized(status, r.path)
			}
		}
		return apiErr
	}

	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("api: decode response for %s %s: %w", r.method, r.path, err)
	}
	return nil
}

func (r *Request) do(ctx context.Context, body io.Reader, contentType string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.c.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.fullURL(), body)
	if err != nil {
		return 0, nil, fmt.Errorf("api: build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// The token is read fresh on every request; login/logout between two
	// calls is picked up without rebuilding the client.
	if token := r.c.tokens.Current(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("api: send: %w", err)
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return 0, nil, fmt.Errorf("api: read body: %w", err)
	}

	return resp.StatusCode, raw, nil
}

func (r *Request) fullURL() string {
	prefix := r.c.prefix
	if r.authRoute {
		prefix = r.c.authPrefix
	}

	u := r.c.base + prefix + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	return u
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if len(r.jsonParts) > 0 || len(r.fileParts) > 0 {
		return r.buildMultipart()
	}

	if r.body == nil {
		return nil, "", nil
	}

	b, err := json.Marshal(r.body)
	if err != nil {
		return nil, "", fmt.Errorf("api: marshal body: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}

func (r *Request) buildMultipart() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range r.jsonParts {
		b, err := json.Marshal(p.value)
		if err != nil {
			return nil, "", fmt.Errorf("api: marshal part %q: %w", p.name, err)
		}

		// The backend expects the JSON part with an application/json
		// content type, like a Blob part from a browser form.
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, p.name))
		h.Set("Content-Type", "application/json")
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("api: create part %q: %w", p.name, err)
		}
		if _, err := part.Write(b); err != nil {
			return nil, "", fmt.Errorf("api: write part %q: %w", p.name, err)
		}
	}

	for _, p := range r.fileParts {
		part, err := w.CreateFormFile(p.name, p.filename)
		if err != nil {
			return nil, "", fmt.Errorf("api: create file part %q: %w", p.name, err)
		}
		if _, err := part.Write(p.data); err != nil {
			return nil, "", fmt.Errorf("api: write file part %q: %w", p.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("api: close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
