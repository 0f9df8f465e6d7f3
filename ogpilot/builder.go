package ogpilot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// EndpointPath is the image creation endpoint, relative to Config.BaseURL.
const EndpointPath = "/api/v1/images"

// Params holds image parameters such as "title", "template", "description",
// "logo_url", "image_url", "bg_color", "text_color" and "path", plus any
// template specific keys.
type Params map[string]any

// Claims is the payload signed into the request token: the image parameters
// plus "iss", "sub", "iat" and "path".
type Claims map[string]any

// RequestOptions control a single image request.
type RequestOptions struct {
	// JSON asks the service for JSON metadata instead of an image URL.
	JSON bool
	// IssuedAt sets the "iat" claim (epoch seconds). Use a day-truncated time
	// for daily cache busting. The zero value leaves "iat" unset.
	IssuedAt time.Time
	// Headers are added to every outbound request.
	Headers map[string]string
	// Default forces the path to "/" when params carry no explicit path.
	Default bool
}

// BuildClaims assembles and validates the claims for params without signing
// them. Nothing is sent over the network.
func (c *Client) BuildClaims(ctx context.Context, params Params, opts RequestOptions) (Claims, error) {
	claims := canonicalize(params)

	if explicit, ok := explicitPath(params); ok {
		claims["path"] = NormalizePath(explicit, c.cfg.StripExtensions)
	} else {
		claims["path"] = c.resolver.Resolve(ctx, "", opts.Default)
	}

	if !opts.IssuedAt.IsZero() {
		claims["iat"] = opts.IssuedAt.Unix()
	}

	if claims["iss"] == nil {
		if c.cfg.Domain == "" {
			return nil, configurationError("domain is missing")
		}
		claims["iss"] = c.cfg.Domain
	}
	if claims["sub"] == nil {
		if c.cfg.APIKey == "" {
			return nil, configurationError("API key is missing")
		}
		claims["sub"] = apiKeyPrefix(c.cfg.APIKey)
	}

	if err := validateClaims(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// BuildURI signs params and returns the target URI
// {BaseURL}/api/v1/images?token=<token>.
func (c *Client) BuildURI(ctx context.Context, params Params, opts RequestOptions) (*url.URL, error) {
	claims, err := c.BuildClaims(ctx, params, opts)
	if err != nil {
		return nil, err
	}
	if c.cfg.APIKey == "" {
		return nil, configurationError("API key is missing")
	}

	token, err := c.encoder.Encode(claims, c.cfg.APIKey)
	if err != nil {
		return nil, err
	}

	uri := c.baseURL.ResolveReference(&url.URL{Path: EndpointPath})
	uri.RawQuery = url.Values{"token": {token}}.Encode()
	return uri, nil
}

func validateClaims(claims Claims) error {
	if stringValue(claims["iss"]) == "" {
		return configurationError("domain is missing")
	}
	if stringValue(claims["sub"]) == "" {
		return configurationError("API key prefix is missing")
	}
	if stringValue(claims["title"]) == "" {
		return argumentError("title is required")
	}
	return nil
}

// canonicalKey folds the spellings a caller may use for one key ("title",
// " title ", ":title") into a single form.
func canonicalKey(k string) string {
	return strings.TrimPrefix(strings.TrimSpace(k), ":")
}

// canonicalize copies params under canonical keys, leaving out every
// spelling of "path". When spellings collide the canonical one wins.
func canonicalize(params Params) Claims {
	claims := make(Claims, len(params)+4)
	for k, v := range params {
		if k == canonicalKey(k) && k != "path" {
			claims[k] = v
		}
	}
	for k, v := range params {
		ck := canonicalKey(k)
		if ck == k || ck == "path" || ck == "" {
			continue
		}
		if _, taken := claims[ck]; !taken {
			claims[ck] = v
		}
	}
	return claims
}

// explicitPath returns the caller's path, preferring the canonical "path"
// key over other spellings. Blank values count as absent.
func explicitPath(params Params) (string, bool) {
	if v, ok := params["path"]; ok {
		s := stringValue(v)
		return s, strings.TrimSpace(s) != ""
	}
	for k, v := range params {
		if canonicalKey(k) == "path" {
			s := stringValue(v)
			if strings.TrimSpace(s) != "" {
				return s, true
			}
		}
	}
	return "", false
}

func apiKeyPrefix(key string) string {
	r := []rune(key)
	if len(r) > 8 {
		r = r[:8]
	}
	return string(r)
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}
