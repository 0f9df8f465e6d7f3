// Package ogpilot generates Open Graph image URLs with the OG Pilot API.
//
// Every call signs its image parameters into an HS256 token, posts it to
// {BaseURL}/api/v1/images?token=<token> and returns either the resulting image
// URL or, in JSON mode, the metadata returned by the service.
//
// # Quick Start
//
// Configure the client from the environment (OG_PILOT_API_KEY,
// OG_PILOT_DOMAIN, ...) and generate an image:
//
//	if err := ogpilot.Init(); err != nil {
//	    log.Fatal(err)
//	}
//
//	url := ogpilot.CreateImage(ctx, ogpilot.Params{
//	    "title":       "How to Build Amazing OG Images",
//	    "description": "A practical guide",
//	}, ogpilot.RequestOptions{IssuedAt: time.Now().Truncate(24 * time.Hour)})
//
// CreateImage and CreateImageJSON never fail: configuration problems,
// missing titles and transport errors are logged and reported as "" or
// {"image_url": nil}, so a broken image call cannot take a page down. Use
// Client.Generate to receive the error instead.
//
// # Templates
//
// CreateTemplateImage forces the template parameter:
//
//	url := ogpilot.CreateTemplateImage(ctx, ogpilot.TemplateBlogPost, ogpilot.Params{
//	    "title":        "How to Build Amazing OG Images",
//	    "author_name":  "Jane Smith",
//	    "publish_date": "2024-01-15",
//	})
//
// # Page Path
//
// Each token carries the path of the page the image belongs to. A "path"
// parameter is used as given. Otherwise the path of the inbound request is
// taken from the context, registered by Middleware:
//
//	r := chi.NewRouter()
//	r.Use(ogpilot.Middleware)
//	r.Get("/blog/{slug}", func(w http.ResponseWriter, r *http.Request) {
//	    img := ogpilot.CreateImage(r.Context(), ogpilot.Params{"title": "Post"})
//	    // path claim is "/blog/<slug>"
//	})
//
// Without a registered request, CGI-style variables (REQUEST_URI,
// ORIGINAL_FULLPATH, PATH_INFO with QUERY_STRING, REQUEST_PATH) are
// consulted, falling back to "/". RequestOptions.Default forces "/".
// With Config.StripExtensions (the default) "/docs.html" is signed as
// "/docs".
//
// # Environment Variables
//
//   - OG_PILOT_API_KEY: API key used to sign tokens
//   - OG_PILOT_DOMAIN: registered domain, sent as the token issuer
//   - OG_PILOT_BASE_URL: service origin (default: https://ogpilot.com)
//   - OG_PILOT_OPEN_TIMEOUT: connect and TLS handshake timeout (default: 5s)
//   - OG_PILOT_READ_TIMEOUT: response timeout (default: 10s)
//   - OG_PILOT_STRIP_EXTENSIONS: strip file extensions from paths (default: true)
//   - OG_PILOT_ENABLE_LOGGING, OG_PILOT_LOG_LEVEL, OG_PILOT_DEBUG
//
// The token's "sub" claim defaults to the first eight characters of the API
// key. Tokens are signed, not encrypted, so that prefix is readable by anyone
// who sees the image URL.
package ogpilot
