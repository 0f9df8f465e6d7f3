package ogpilot

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		strip bool
		want  string
	}{
		{name: "empty", raw: "", want: "/"},
		{name: "blank", raw: "   ", strip: true, want: "/"},
		{name: "adds leading slash", raw: "docs", want: "/docs"},
		{name: "keeps leading slash", raw: "/docs", want: "/docs"},
		{name: "trims whitespace", raw: "  /docs  ", want: "/docs"},
		{name: "full url", raw: "https://host/a/b?q=1", want: "/a/b?q=1"},
		{name: "full url without path", raw: "http://host", want: "/"},
		{name: "full url with query only", raw: "https://host?q=1", want: "/?q=1"},
		{name: "full url keeps path verbatim", raw: "https://host/a b/c%2Fd?x=%41", want: "/a b/c%2Fd?x=%41"},
		{name: "full url drops fragment", raw: "https://host/docs#intro", want: "/docs"},
		{name: "unparseable url kept", raw: "http://[::1", want: "/http://[::1"},
		{name: "single extension", raw: "/my-post.html", strip: true, want: "/my-post"},
		{name: "multiple extensions", raw: "/archive.tar.gz", strip: true, want: "/archive"},
		{name: "query preserved", raw: "/docs.md?ref=main", strip: true, want: "/docs?ref=main"},
		{name: "dotfile", raw: "/.hidden", strip: true, want: "/.hidden"},
		{name: "nested dotfile", raw: "/config/.env", strip: true, want: "/config/.env"},
		{name: "disabled", raw: "/docs.md", strip: false, want: "/docs.md"},
		{name: "nested path", raw: "/blog/2024/post.html", strip: true, want: "/blog/2024/post"},
		{name: "dot in directory", raw: "/my.app/dashboard", strip: true, want: "/my.app/dashboard"},
		{name: "no extension", raw: "/about", strip: true, want: "/about"},
		{name: "trailing dot", raw: "/file.", strip: true, want: "/file."},
		{name: "root", raw: "/", strip: true, want: "/"},
		{name: "root with query", raw: "/?q=1", strip: true, want: "/?q=1"},
		{name: "url stripped", raw: "https://example.com/docs/intro.html?x=1", strip: true, want: "/docs/intro?x=1"},
		{name: "dot in query untouched", raw: "/search?q=a.b", strip: true, want: "/search?q=a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.raw, tt.strip); got != tt.want {
				t.Errorf("NormalizePath(%q, %v) = %q, want %q", tt.raw, tt.strip, got, tt.want)
			}
		})
	}
}

func TestNormalizePathIdempotent(t *testing.T) {
	inputs := []string{
		"", "/", "docs", "/docs.md?ref=main", "/archive.tar.gz", "/.hidden",
		"/my.app/dashboard", "https://host/a/b.c?q=1", "/blog/", "a/b/c.d/e.f.g",
		"/file.", "//double//slash.txt", "?only=query",
	}

	for _, strip := range []bool{true, false} {
		for _, in := range inputs {
			once := NormalizePath(in, strip)
			if twice := NormalizePath(once, strip); twice != once {
				t.Errorf("NormalizePath not idempotent for %q (strip=%v): %q then %q", in, strip, once, twice)
			}
			if once == "" || once[0] != '/' {
				t.Errorf("NormalizePath(%q, %v) = %q, want leading slash", in, strip, once)
			}
		}
	}
}

func TestNormalizePathKeepsContent(t *testing.T) {
	for _, raw := range []string{"docs", "a/b?c=d", "weird path", "x.y/z"} {
		if got := NormalizePath(raw, false); got != "/"+raw {
			t.Errorf("NormalizePath(%q) = %q, want %q", raw, got, "/"+raw)
		}
	}
}
