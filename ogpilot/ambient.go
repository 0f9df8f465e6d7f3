package ogpilot

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// RequestHandle is anything that can report the full path (path plus query)
// of the inbound request currently being handled.
type RequestHandle interface {
	FullPath() string
}

// Slot identifies where an ambient request handle was registered. When
// several slots carry a handle, the lowest slot wins.
type Slot int

const (
	// SlotLibrary is filled by Middleware and WithRequest.
	SlotLibrary Slot = iota
	// SlotFramework is reserved for a hosting framework's own request handle.
	SlotFramework
	// SlotFrameworkAlt is a secondary framework handle.
	SlotFrameworkAlt
	// SlotGeneric holds a handle registered by unrelated code.
	SlotGeneric
)

var slotOrder = [...]Slot{SlotLibrary, SlotFramework, SlotFrameworkAlt, SlotGeneric}

type slotKey Slot

// WithRequest returns a copy of ctx carrying handle in SlotLibrary.
func WithRequest(ctx context.Context, handle any) context.Context {
	return WithRequestSlot(ctx, SlotLibrary, handle)
}

// WithRequestSlot returns a copy of ctx carrying handle in slot. The handle
// may be a RequestHandle, an *http.Request, a *url.URL or a plain string.
// It is only visible to calls made with the returned context.
func WithRequestSlot(ctx context.Context, slot Slot, handle any) context.Context {
	return context.WithValue(ctx, slotKey(slot), handle)
}

// Resolver discovers the path of the current page when the caller does not
// pass one explicitly.
type Resolver struct {
	stripExtensions bool
	getenv          func(string) string
}

// NewResolver creates a resolver that reads CGI-style variables through
// getenv. A nil getenv falls back to os.Getenv.
func NewResolver(stripExtensions bool, getenv func(string) string) *Resolver {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Resolver{stripExtensions: stripExtensions, getenv: getenv}
}

// Resolve returns the normalized path to sign. forceRoot always yields "/";
// otherwise a non-blank explicitPath wins over anything found in ctx or the
// environment.
func (r *Resolver) Resolve(ctx context.Context, explicitPath string, forceRoot bool) string {
	if forceRoot {
		return NormalizePath("/", r.stripExtensions)
	}
	if strings.TrimSpace(explicitPath) != "" {
		return NormalizePath(explicitPath, r.stripExtensions)
	}

	fullpath := r.contextFullPath(ctx)
	if fullpath == "" {
		fullpath = r.envFullPath()
	}
	return NormalizePath(fullpath, r.stripExtensions)
}

func (r *Resolver) contextFullPath(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	for _, slot := range slotOrder {
		if p := fullPathOf(ctx.Value(slotKey(slot))); strings.TrimSpace(p) != "" {
			return p
		}
	}
	return ""
}

// envFullPath reads the request path exported by CGI-style hosts.
func (r *Resolver) envFullPath() string {
	if v := r.getenv("REQUEST_URI"); v != "" {
		return v
	}
	if v := r.getenv("ORIGINAL_FULLPATH"); v != "" {
		return v
	}
	if pathInfo := r.getenv("PATH_INFO"); pathInfo != "" {
		if query := r.getenv("QUERY_STRING"); query != "" {
			return pathInfo + "?" + query
		}
		return pathInfo
	}
	return r.getenv("REQUEST_PATH")
}

func fullPathOf(v any) string {
	switch h := v.(type) {
	case nil:
		return ""
	case RequestHandle:
		return handlePath(h)
	case *http.Request:
		if h == nil || h.URL == nil {
			return ""
		}
		return h.URL.RequestURI()
	case *url.URL:
		if h == nil {
			return ""
		}
		return h.RequestURI()
	case string:
		return h
	default:
		return ""
	}
}

// handlePath calls h.FullPath, treating a panicking handle (typically a
// typed nil pointer) as absent.
func handlePath(h RequestHandle) (p string) {
	defer func() {
		if recover() != nil {
			p = ""
		}
	}()
	return h.FullPath()
}
