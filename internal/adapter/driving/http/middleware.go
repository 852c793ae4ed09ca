package httphandler

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/ericfisherdev/opticatalog/internal/application"
)

// adminRealm is the Basic auth realm advertised on 401 responses.
const adminRealm = `Basic realm="opticatalog admin", charset="UTF-8"`

// ApplyMiddleware wraps h with recovery (innermost, so panics are caught
// before logging) and request logging.
func ApplyMiddleware(h http.Handler, logger *slog.Logger) http.Handler {
	wrapped := recoveryMiddleware(logger, h)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the embedded writer.
func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs each HTTP request with method, path, status, and
// duration. Server errors are logged at warn level.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		level := slog.LevelInfo
		if sw.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(r.Context(), level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"remote_addr", r.RemoteAddr,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// recoveryMiddleware recovers from panics in HTTP handlers, logs the error,
// and returns a 500 response.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error("panic recovered",
					"panic", v,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects requests whose Basic auth password does not verify
// against the admin credential. The username is ignored.
func requireAdmin(auth *application.AuthGate, logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, password, ok := r.BasicAuth()
		if !ok || password == "" {
			w.Header().Set("WWW-Authenticate", adminRealm)
			writeError(w, http.StatusUnauthorized, "admin credentials required")
			return
		}

		valid, err := auth.Verify(r.Context(), password)
		if err != nil {
			logger.Error("failed to verify admin credential", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !valid {
			w.Header().Set("WWW-Authenticate", adminRealm)
			writeError(w, http.StatusUnauthorized, "invalid admin credentials")
			return
		}

		next(w, r)
	}
}
