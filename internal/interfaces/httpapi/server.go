package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/riskibarqy/cricket-league/internal/platform/logging"
)

// NewRouter mounts every route and wraps the mux as
// tracing > access log > CORS > panic recovery > handler.
func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string, internalToken string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerMatchRoutes(mux, handler)
	registerTournamentRoutes(mux, handler)
	registerPlayerRoutes(mux, handler)
	registerInternalRoutes(mux, handler, internalToken)

	return chain(mux,
		RequestTracing,
		RequestLogging(logger.Named("http")),
		CORS(corsAllowedOrigins),
		recoverPanic(logger),
	)
}

func recoverPanic(logger *logging.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "handler panicked",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeError(r.Context(), w, fmt.Errorf("panic: %v", rec))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
