package ogpilot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ogpilot/ogpilot-go/config"
)

const requestIDHeader = "X-Request-Id"

// Global instance management
var (
	defaultClient *Client
	defaultOnce   sync.Once
	defaultErr    error
	defaultMu     sync.RWMutex
)

// Builder creates clients from environment variables with a custom prefix
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the global client using the builder's prefix
func (b *Builder) Init() error {
	cfg, err := GetConfig(config.LoadOptions{Prefix: b.prefix})
	if err != nil {
		return err
	}
	return Init(*cfg)
}

// New creates a new client using the builder's prefix
func (b *Builder) New(opts ...Option) (*Client, error) {
	cfg, err := GetConfig(config.LoadOptions{Prefix: b.prefix})
	if err != nil {
		return nil, err
	}
	return New(*cfg, opts...)
}

// Client generates Open Graph images through the OG Pilot API. A Client is
// immutable after New and safe for concurrent use.
type Client struct {
	cfg        Config
	baseURL    *url.URL
	httpClient *http.Client
	encoder    TokenEncoder
	resolver   *Resolver
	logger     *Logger
	metrics    *Metrics
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient uses hc for outbound calls. Its redirect policy is replaced
// on a copy so that redirects are always followed by the client itself.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		cp := *hc
		cp.CheckRedirect = noFollow
		c.httpClient = &cp
	}
}

// WithTokenEncoder replaces the HS256 encoder.
func WithTokenEncoder(enc TokenEncoder) Option {
	return func(c *Client) {
		if enc != nil {
			c.encoder = enc
		}
	}
}

// WithLogger replaces the logger built from Config.
func WithLogger(l *Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records request outcomes into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithResolver replaces the ambient path resolver.
func WithResolver(r *Resolver) Option {
	return func(c *Client) {
		if r != nil {
			c.resolver = r
		}
	}
}

// Init initializes the global instance with optional config
func Init(configs ...Config) error {
	defaultOnce.Do(func() {
		var cfg *Config
		if len(configs) > 0 {
			cfg = &configs[0]
		} else {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		var c *Client
		c, defaultErr = New(*cfg)
		if defaultErr == nil {
			setDefault(c)
		}
	})

	return defaultErr
}

// New creates a new instance with given config
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	c := &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: newHTTPClient(cfg),
		encoder:    HS256Encoder{},
		resolver:   NewResolver(cfg.StripExtensions, nil),
		logger:     NewLogger(cfg.EnableLogging, cfg.LogLevel),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Configure applies fn to a copy of the current global configuration and
// swaps in a client built from it. Calls already running keep the client
// they started with; concurrent Configure calls are last-writer-wins.
func Configure(fn func(*Config)) error {
	cfg := DefaultConfig()
	if c := current(); c != nil {
		cfg = c.cfg
	} else if loaded, err := GetConfig(); err == nil {
		cfg = *loaded
	}

	fn(&cfg)

	c, err := New(cfg)
	if err != nil {
		return err
	}
	setDefault(c)
	// Init must not replace a configured client later.
	defaultOnce.Do(func() {})
	return nil
}

// Reset clears the global instance (for testing)
func Reset() {
	defaultMu.Lock()
	defaultClient = nil
	defaultMu.Unlock()
	defaultOnce = sync.Once{}
	defaultErr = nil
}

// Default returns the global client, initializing it from the environment
// on first use. It returns nil if initialization failed.
func Default() *Client {
	if c := current(); c != nil {
		return c
	}
	_ = Init()
	return current()
}

// Health reports whether the global client is usable.
func Health() error {
	c := current()
	if c == nil {
		return ErrNotInitialized
	}
	if c.cfg.APIKey == "" {
		return configurationError("API key is missing")
	}
	if c.cfg.Domain == "" {
		return configurationError("domain is missing")
	}
	return nil
}

func current() *Client {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultClient
}

func setDefault(c *Client) {
	defaultMu.Lock()
	defaultClient = c
	defaultMu.Unlock()
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Result is the outcome of a successful image request.
type Result struct {
	// URL is the image URL: the Location header of the final response, or
	// the final request URI when there is none. Empty in JSON mode.
	URL string
	// Metadata is the decoded JSON body in JSON mode.
	Metadata map[string]any
	// FinalURI is the URI of the last request after redirects.
	FinalURI string
}

// Generate signs params and calls the image endpoint, returning any failure
// to the caller. Use CreateImage or CreateImageJSON for calls that must
// never fail.
func (c *Client) Generate(ctx context.Context, params Params, opts ...RequestOptions) (*Result, error) {
	var o RequestOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return c.generate(ctx, params, o, uuid.NewString())
}

func (c *Client) generate(ctx context.Context, params Params, opts RequestOptions, requestID string) (res *Result, err error) {
	started := time.Now()
	defer func() { c.metrics.observe(outcomeOf(err), started) }()
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, &RequestError{Message: fmt.Sprintf("panic: %v", r)}
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	uri, err := c.BuildURI(ctx, params, opts)
	if err != nil {
		return nil, err
	}

	headers := make(http.Header, len(opts.Headers)+1)
	headers.Set(requestIDHeader, requestID)
	for k, v := range opts.Headers {
		headers.Set(k, v)
	}

	ex, err := c.send(ctx, uri, http.MethodPost, headers, opts.JSON)
	if err != nil {
		return nil, err
	}

	res = &Result{FinalURI: ex.uri.String()}
	if opts.JSON {
		if err := json.Unmarshal(ex.body, &res.Metadata); err != nil {
			return nil, &RequestError{StatusCode: ex.status, Message: "invalid JSON response", Err: err}
		}
		if res.Metadata == nil {
			return nil, &RequestError{StatusCode: ex.status, Message: "invalid JSON response: expected an object"}
		}
		return res, nil
	}

	if location := ex.header.Get("Location"); location != "" {
		res.URL = location
	} else {
		res.URL = res.FinalURI
	}
	return res, nil
}

// CreateImage returns the generated image URL for params. Any failure is
// logged and reported as an empty string.
func (c *Client) CreateImage(ctx context.Context, params Params, opts ...RequestOptions) string {
	var o RequestOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	o.JSON = false

	requestID := uuid.NewString()
	res, err := c.generate(ctx, params, o, requestID)
	if err != nil {
		c.logger.createImageFailed(requestID, false, err)
		return ""
	}
	return res.URL
}

// CreateImageJSON returns the service's JSON metadata for params. The
// response body must be a JSON object; arrays, scalars and null are treated
// as failures. Any failure is logged and reported as {"image_url": nil}.
func (c *Client) CreateImageJSON(ctx context.Context, params Params, opts ...RequestOptions) map[string]any {
	var o RequestOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	o.JSON = true

	requestID := uuid.NewString()
	res, err := c.generate(ctx, params, o, requestID)
	if err != nil {
		c.logger.createImageFailed(requestID, true, err)
		return map[string]any{"image_url": nil}
	}
	return res.Metadata
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrInvalidArgument):
		return "argument"
	default:
		return "request"
	}
}

// CreateImage generates an image URL with the global client. It returns ""
// when the client cannot be initialized.
func CreateImage(ctx context.Context, params Params, opts ...RequestOptions) string {
	c := Default()
	if c == nil {
		return ""
	}
	return c.CreateImage(ctx, params, opts...)
}

// CreateImageJSON fetches image metadata with the global client.
func CreateImageJSON(ctx context.Context, params Params, opts ...RequestOptions) map[string]any {
	c := Default()
	if c == nil {
		return map[string]any{"image_url": nil}
	}
	return c.CreateImageJSON(ctx, params, opts...)
}
