package ogpilot

import (
	"net/url"
	"strings"
)

// NormalizePath turns a raw path or absolute URL into a canonical absolute
// path. The result is never empty and always starts with "/".
//
// Absolute http(s) URLs are reduced to their path and query. With
// stripExtensions set, the extension of the final path segment is removed
// ("/archive.tar.gz" becomes "/archive"); dotfiles, dots in directory
// segments and the query string are left untouched.
func NormalizePath(raw string, stripExtensions bool) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "/"
	}

	cleaned = extractRequestURI(cleaned)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	if stripExtensions {
		cleaned = stripExtension(cleaned)
	}
	return cleaned
}

// extractRequestURI returns the path and query of an absolute http(s) URL,
// copied verbatim from value. Anything else, including URLs that fail to
// parse, is returned unchanged.
func extractRequestURI(value string) string {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return value
	}
	if _, err := url.Parse(value); err != nil {
		return value
	}

	_, rest, _ := strings.Cut(value, "://")
	rest, _, _ = strings.Cut(rest, "#")
	i := strings.IndexAny(rest, "/?")
	if i < 0 {
		return "/"
	}
	if rest[i] == '?' {
		return "/" + rest[i:]
	}
	return rest[i:]
}

func stripExtension(p string) string {
	pathPart, query, _ := strings.Cut(p, "?")

	stripped := "/"
	if trimmed := strings.TrimRight(pathPart, "/"); trimmed != "" {
		idx := strings.LastIndex(trimmed, "/")
		dir, base := trimmed[:idx], trimmed[idx+1:]

		// Dotfiles such as "/.env" keep their name.
		if !strings.HasPrefix(base, ".") {
			if i := strings.Index(base, "."); i >= 0 && i < len(base)-1 {
				base = base[:i]
			}
		}

		if dir == "" {
			stripped = "/" + base
		} else {
			stripped = dir + "/" + base
		}
	}

	if query != "" {
		return stripped + "?" + query
	}
	return stripped
}
