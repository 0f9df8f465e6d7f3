package ogpilot

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// MaxRedirects bounds how many redirect hops a single image request follows.
const MaxRedirects = 5

// maxBodySize caps how much of a response body is buffered.
const maxBodySize = 4 << 20

type statusClass int

const (
	statusSuccess statusClass = iota
	statusRedirect
	statusClientError
	statusServerError
)

func classifyStatus(code int) statusClass {
	switch {
	case code >= 300 && code < 400:
		return statusRedirect
	case code >= 400 && code < 500:
		return statusClientError
	case code >= 500 && code < 600:
		return statusServerError
	default:
		return statusSuccess
	}
}

// exchange is the terminal response of a request after redirects.
type exchange struct {
	status int
	header http.Header
	body   []byte
	uri    *url.URL
}

// newHTTPClient builds the default client. OpenTimeout bounds dialing and
// the TLS handshake, ReadTimeout the wait for response headers. Redirects
// are never followed by net/http; send handles them.
func newHTTPClient(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.OpenTimeout,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   cfg.OpenTimeout,
			ResponseHeaderTimeout: cfg.ReadTimeout,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: noFollow,
	}
}

func noFollow(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// send issues method against uri and follows redirects until a terminal
// response. Error statuses, too many redirects, TLS failures and timeouts
// are returned as *RequestError.
func (c *Client) send(ctx context.Context, uri *url.URL, method string, headers http.Header, wantsJSON bool) (*exchange, error) {
	current := uri
	for redirectsLeft := MaxRedirects; ; redirectsLeft-- {
		ex, err := c.roundTrip(ctx, current, method, headers, wantsJSON)
		if err != nil {
			return nil, err
		}

		switch classifyStatus(ex.status) {
		case statusRedirect:
			location := ex.header.Get("Location")
			if location == "" {
				return ex, nil
			}
			if redirectsLeft <= 0 {
				return nil, &RequestError{
					StatusCode: ex.status,
					Message:    "too many redirects",
					Err:        ErrTooManyRedirects,
				}
			}
			next, err := current.Parse(location)
			if err != nil {
				return nil, &RequestError{
					StatusCode: ex.status,
					Message:    fmt.Sprintf("invalid redirect location %q", location),
					Err:        err,
				}
			}
			method = redirectMethod(ex.status, method)
			current = next
			c.metrics.redirect()
		case statusClientError, statusServerError:
			return nil, &RequestError{StatusCode: ex.status, Body: string(ex.body)}
		default:
			return ex, nil
		}
	}
}

// redirectMethod keeps POST only for 307 and 308; every other redirect turns
// a POST into a GET. Other methods are preserved.
func redirectMethod(status int, method string) string {
	if method != http.MethodPost {
		return method
	}
	if status == http.StatusTemporaryRedirect || status == http.StatusPermanentRedirect {
		return http.MethodPost
	}
	return http.MethodGet
}

func (c *Client) roundTrip(ctx context.Context, uri *url.URL, method string, headers http.Header, wantsJSON bool) (*exchange, error) {
	if budget := c.cfg.OpenTimeout + c.cfg.ReadTimeout; c.cfg.OpenTimeout > 0 && c.cfg.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, uri.String(), nil)
	if err != nil {
		return nil, &RequestError{Message: "failed to create request", Err: err}
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if wantsJSON {
		req.Header.Set("Accept", "application/json")
	}
	for k, vs := range headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if c.cfg.Debug {
		c.logger.Debug("sending request", logrus.Fields{
			"method":     method,
			"host":       uri.Host,
			"path":       uri.Path,
			"request_id": headers.Get(requestIDHeader),
		})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	ex := &exchange{status: resp.StatusCode, header: resp.Header, uri: uri}

	// Successful URL-mode responses may be the image itself; skip the body.
	class := classifyStatus(resp.StatusCode)
	if wantsJSON || class == statusClientError || class == statusServerError {
		ex.body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, transportError(err)
		}
	}

	if c.cfg.Debug {
		c.logger.Debug("received response", logrus.Fields{
			"status":     resp.StatusCode,
			"location":   resp.Header.Get("Location"),
			"request_id": headers.Get(requestIDHeader),
		})
	}
	return ex, nil
}

func transportError(err error) *RequestError {
	switch {
	case isTimeout(err):
		return &RequestError{Message: "timed out: " + err.Error(), Err: err}
	case isTLSError(err):
		return &RequestError{Message: "SSL error: " + err.Error(), Err: err}
	default:
		return &RequestError{Message: err.Error(), Err: err}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTLSError(err error) bool {
	var (
		recordErr    tls.RecordHeaderError
		verifyErr    *tls.CertificateVerificationError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	return errors.As(err, &recordErr) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}
