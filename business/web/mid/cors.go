package mid

import (
	"context"
	"net/http"
	"strings"

	"github.com/ardanlabs/floodchain/foundation/web"
)

// Methods and headers a browser may use against the node.
const (
	corsMethods = "GET, POST, OPTIONS"
	corsHeaders = "Origin, Accept, Content-Type, Content-Length, Accept-Encoding"
	corsMaxAge  = "86400"
)

// Cors sets the response headers needed for Cross-Origin Resource Sharing
// when the request origin is one of the allowed origins. An origin of "*"
// allows every origin. Preflight requests are answered here and never reach
// the handler.
func Cors(origins ...string) web.Middleware {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[strings.TrimSuffix(origin, "/")] = true
	}

	allowOrigin := func(origin string) string {
		switch {
		case allowed["*"]:
			return "*"
		case origin != "" && allowed[origin]:
			return origin
		}
		return ""
	}

	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			origin := allowOrigin(r.Header.Get("Origin"))
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", corsMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
				if origin != "*" {
					w.Header().Add("Vary", "Origin")
				}
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Max-Age", corsMaxAge)
				return web.Respond(ctx, w, nil, http.StatusNoContent)
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
