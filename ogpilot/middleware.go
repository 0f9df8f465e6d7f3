package ogpilot

import (
	"context"
	"net/http"
)

// Middleware registers the inbound request as the ambient request for the
// duration of the handler, so CreateImage calls made with r.Context() sign
// the current page path when no explicit path is given.
//
//	r := chi.NewRouter()
//	r.Use(ogpilot.Middleware)
//
// The handle lives in the request's context only; it disappears with the
// request on every exit path, including panics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRequest(r.Context(), r)))
	})
}

// FullPathFromContext returns the raw full path of the highest priority
// ambient request registered in ctx.
func FullPathFromContext(ctx context.Context) (string, bool) {
	p := (&Resolver{}).contextFullPath(ctx)
	return p, p != ""
}
