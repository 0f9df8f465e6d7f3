package ogpilot

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

const (
	testAPIKey = "test_api_key_12345678"
	testDomain = "example.com"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// fakeTransport answers requests from a queue of responses and records every
// request it sees. The last response is repeated once the queue runs out.
type fakeTransport struct {
	mu        sync.Mutex
	responses []*http.Response
	requests  []*http.Request
	err       error
}

func (f *fakeTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)
	if f.err != nil {
		return nil, f.err
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	} else {
		// Hand out a fresh body each time the last response repeats.
		cp := *resp
		cp.Body = io.NopCloser(bytes.NewReader(nil))
		f.responses[0] = &cp
	}
	resp.Request = r
	return resp, nil
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newResponse(status int, headers map[string]string, body string) *http.Response {
	h := make(http.Header)
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     h,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// recordingEncoder captures the claims it is asked to sign.
type recordingEncoder struct {
	mu     sync.Mutex
	claims Claims
	secret string
	calls  int
	token  string
}

func (e *recordingEncoder) Encode(claims Claims, secret string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.claims = claims
	e.secret = secret
	if e.token == "" {
		return "signed-token", nil
	}
	return e.token, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.APIKey = testAPIKey
	cfg.Domain = testDomain
	return cfg
}

// quietLogger returns a logger writing into buf, or nowhere when buf is nil.
func quietLogger(buf *bytes.Buffer) *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	if buf != nil {
		base.SetOutput(buf)
	}
	base.SetFormatter(&logrus.JSONFormatter{})
	return NewLoggerFrom(true, base)
}

func newTestClient(t *testing.T, cfg Config, rt http.RoundTripper, opts ...Option) *Client {
	t.Helper()
	all := append([]Option{
		WithHTTPClient(&http.Client{Transport: rt}),
		WithLogger(quietLogger(&bytes.Buffer{})),
		WithResolver(NewResolver(cfg.StripExtensions, func(string) string { return "" })),
	}, opts...)
	c, err := New(cfg, all...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}
