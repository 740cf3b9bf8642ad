package httpapi

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"github.com/riskibarqy/cricket-league/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const internalTokenHeader = "X-Internal-Token"

// middleware wraps a handler; chain applies them so the first listed runs outermost.
type middleware func(http.Handler) http.Handler

func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RequireInternalToken guards operator endpoints such as ledger replay. With
// no token configured the routes stay closed and answer 503.
func RequireInternalToken(token string, next http.Handler) http.Handler {
	want := []byte(strings.TrimSpace(token))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(want) == 0 {
			writeError(r.Context(), w, fmt.Errorf("%w: replay endpoints are disabled, set INTERNAL_TOKEN", usecase.ErrDependencyUnavailable))
			return
		}
		got := []byte(strings.TrimSpace(r.Header.Get(internalTokenHeader)))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			writeError(r.Context(), w, fmt.Errorf("%w: missing or wrong %s", usecase.ErrUnauthorized, internalTokenHeader))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogging writes one access line per request. 5xx log at error and
// 4xx at warn so rejected deliveries stand out from normal scoring traffic.
func RequestLogging(logger *logging.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			ctx := r.Context()
			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", m.Code,
				"bytes", m.Written,
				"remote_addr", r.RemoteAddr,
				"duration_ms", m.Duration.Milliseconds(),
			}
			switch {
			case m.Code >= http.StatusInternalServerError:
				logger.ErrorContext(ctx, "http request", kv...)
			case m.Code >= http.StatusBadRequest:
				logger.WarnContext(ctx, "http request", kv...)
			default:
				logger.InfoContext(ctx, "http request", kv...)
			}
		})
	}
}

// probePaths are polled by orchestrators and never traced.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
}

func traced(path string) bool {
	_, probe := probePaths[strings.ToLower(strings.TrimSpace(path))]
	return !probe
}

// RequestTracing opens the server span for every non-probe request.
func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "cricket-league-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool { return traced(r.URL.Path) }),
	)
}

type corsPolicy struct {
	any     bool
	origins map[string]struct{}
}

var (
	corsMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ",")
	corsHeaders = strings.Join([]string{"Authorization", "Content-Type", "Accept", internalTokenHeader}, ",")
	corsMaxAge  = strconv.Itoa(600)
)

func newCORSPolicy(allowed []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(allowed))}
	for _, raw := range allowed {
		switch origin := strings.TrimSpace(raw); origin {
		case "":
		case "*":
			p.any = true
		default:
			p.origins[origin] = struct{}{}
		}
	}
	return p
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or "".
func (p corsPolicy) allowOrigin(origin string) string {
	if p.any {
		return "*"
	}
	if _, ok := p.origins[origin]; ok {
		return origin
	}
	return ""
}

// CORS answers browser scoreboards. Preflight requests stop here with 204.
func CORS(allowedOrigins []string) middleware {
	policy := newCORSPolicy(allowedOrigins)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			if allow := policy.allowOrigin(origin); allow != "" {
				h.Set("Access-Control-Allow-Origin", allow)
				if allow != "*" {
					h.Add("Vary", "Origin")
				}
				h.Set("Access-Control-Allow-Methods", corsMethods)
				h.Set("Access-Control-Allow-Headers", corsHeaders)
				h.Set("Access-Control-Max-Age", corsMaxAge)
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
