package tika

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Client talks to a Tika server over HTTP. Depending on its Mode it
// either supervises a locally spawned server process or issues requests
// against a pre-existing remote endpoint.
//
// Request operations (GetJSON, Put, the typed queries) are read-only
// with respect to client state and safe for concurrent use. Server
// lifecycle operations (StartServer, StopServer, RestartServer) are
// serialized internally but are not meant to be raced against each
// other by design; callers coordinate who starts and stops.
type Client struct {
	// config is read-only after construction except the artifact
	// location, replaced once inside startLocked after a download
	config Config
	mode   Mode

	endpoint *url.URL
	httpc    *http.Client
	logger   *slog.Logger

	// mu serializes server lifecycle operations
	mu    sync.Mutex
	state serverState
	srv   *serverProcess
}

// New creates a Client operating in the given mode. Configuration
// defaults come from the TIKA_* environment variables, read once here;
// options override them.
func New(mode Mode, opts ...Option) (*Client, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	c := &Client{
		config: cfg,
		mode:   mode,
		httpc:  &http.Client{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.endpoint = mode.Endpoint()
	return c, nil
}

// NewManaged creates a Client that supervises a local server bound to
// addr ("host:port").
func NewManaged(addr string, opts ...Option) (*Client, error) {
	mode, err := ManagedLocal(addr)
	if err != nil {
		return nil, err
	}
	return New(mode, opts...)
}

// NewRemote creates a Client for a pre-existing endpoint. It never owns
// a server process.
func NewRemote(endpoint string, opts ...Option) (*Client, error) {
	mode, err := RemoteOnly(endpoint)
	if err != nil {
		return nil, err
	}
	return New(mode, opts...)
}

// Endpoint returns a copy of the base URL all requests are issued
// against.
func (c *Client) Endpoint() *url.URL {
	u := *c.endpoint
	return &u
}

// EndpointURL resolves a request path against the endpoint.
func (c *Client) EndpointURL(path string) (*url.URL, error) {
	u, err := c.endpoint.Parse(path)
	if err != nil {
		return nil, newError(KindURLParse, "parse url", path, err)
	}
	return u, nil
}

// Config returns the client configuration. The artifact location
// reflects the latest resolution or download.
func (c *Client) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// GetJSON issues a GET against path with Accept: application/json and
// returns the raw response for the caller to decode. The caller owns
// the response body.
func (c *Client) GetJSON(ctx context.Context, path string) (*http.Response, error) {
	u, err := c.EndpointURL(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, newError(KindURLParse, "get", u.String(), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, newError(KindNetwork, "get", u.String(), err)
	}
	if err := checkStatus(resp, "get"); err != nil {
		return nil, err
	}
	return resp, nil
}

// Put issues a PUT against path with the given body and Accept header
// and returns the raw response. The caller owns the response body.
func (c *Client) Put(ctx context.Context, path string, body io.Reader, accept string) (*http.Response, error) {
	u, err := c.EndpointURL(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.String(), body)
	if err != nil {
		return nil, newError(KindURLParse, "put", u.String(), err)
	}
	req.Header.Set("Accept", accept)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, newError(KindNetwork, "put", u.String(), err)
	}
	if err := checkStatus(resp, "put"); err != nil {
		return nil, err
	}
	return resp, nil
}

// checkStatus converts HTTP status failures into network errors,
// distinct from transport failures only through the wrapped error text.
// It closes the body on failure.
func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return newError(KindNetwork, op, resp.Request.URL.String(),
		fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet))))
}

// Detectors returns the server's detector tree.
func (c *Client) Detectors(ctx context.Context) (Detector, error) {
	var d Detector
	err := c.getJSONInto(ctx, ConfigDetectors.Path(), &d)
	return d, err
}

// Parsers returns the server's parser tree.
func (c *Client) Parsers(ctx context.Context) (Parser, error) {
	var p Parser
	err := c.getJSONInto(ctx, ConfigParsers.Path(), &p)
	return p, err
}

// ParsersDetails returns the parser tree including supported mime types.
func (c *Client) ParsersDetails(ctx context.Context) (Parser, error) {
	var p Parser
	err := c.getJSONInto(ctx, ConfigParsersDetails.Path(), &p)
	return p, err
}

// MimeTypes returns the server's mime type catalog, flattened from the
// map-of-objects wire shape into records sorted by identifier.
func (c *Client) MimeTypes(ctx context.Context) ([]MimeType, error) {
	var entries map[string]mimeTypeEntry
	if err := c.getJSONInto(ctx, ConfigMimeTypes.Path(), &entries); err != nil {
		return nil, err
	}

	mimes := make([]MimeType, 0, len(entries))
	for identifier, entry := range entries {
		mimes = append(mimes, MimeType{
			Identifier: identifier,
			Supertype:  entry.Supertype,
			Alias:      entry.Alias,
			Parser:     entry.Parser,
		})
	}
	sort.Slice(mimes, func(i, j int) bool { return mimes[i].Identifier < mimes[j].Identifier })
	return mimes, nil
}

// getJSONInto decodes a configuration resource into v.
func (c *Client) getJSONInto(ctx context.Context, path string, v any) error {
	resp, err := c.GetJSON(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return newError(KindSerialization, "decode", path, err)
	}
	return nil
}

// Translate translates content to destLang using the configured
// translator. srcLang may be empty, in which case the server detects
// the source language itself.
func (c *Client) Translate(ctx context.Context, content io.Reader, srcLang, destLang string) (string, error) {
	path := "translate/all/" + string(c.config.Translator) + "/"
	if srcLang != "" {
		path += srcLang + "/"
	}
	path += destLang

	resp, err := c.Put(ctx, path, content, "text/plain")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	translated, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindNetwork, "translate", path, err)
	}
	return string(translated), nil
}

// DetectMime detects the mime type of content. An empty body yields
// whatever generic fallback the server answers with; the client does
// not second-guess it.
func (c *Client) DetectMime(ctx context.Context, content io.Reader) (string, error) {
	resp, err := c.Put(ctx, "detect/stream", content, "text/plain")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	mime, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindNetwork, "detect", "detect/stream", err)
	}
	return strings.TrimSpace(string(mime)), nil
}

// DetectLanguage detects the language of content. An empty response is
// a network error, never an empty success.
func (c *Client) DetectLanguage(ctx context.Context, content io.Reader) (string, error) {
	resp, err := c.Put(ctx, "language/stream", content, "text/plain")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	lang, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindNetwork, "language", "language/stream", err)
	}

	detected := strings.TrimSpace(string(lang))
	if detected == "" {
		return "", newError(KindNetwork, "language", "language/stream", ErrNoLanguage)
	}
	return detected, nil
}

// Tika extracts the plain text of content.
func (c *Client) Tika(ctx context.Context, content io.Reader) (string, error) {
	resp, err := c.Put(ctx, "tika", content, "text/plain")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindNetwork, "tika", "tika", err)
	}
	return string(text), nil
}

// Meta extracts the metadata of content as a flat JSON object.
func (c *Client) Meta(ctx context.Context, content io.Reader) (map[string]any, error) {
	resp, err := c.Put(ctx, "meta", content, "application/json")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var meta map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, newError(KindSerialization, "meta", "meta", err)
	}
	return meta, nil
}
