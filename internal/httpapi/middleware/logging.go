package middleware

import (
	"net/http"
	"strings"
	"time"

	"cicd-demo/backend/internal/httpapi/response"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// quietPaths are probed constantly by orchestrators; only failures are logged.
var quietPaths = map[string]struct{}{
	"/health": {},
	"/ready":  {},
}

// Logger attaches a request scoped zerolog logger to the context and logs
// every handled request once. It must run after RequestID.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		l := log.With().
			Str("request_id", response.RequestID(r)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Logger()

		ctx := l.WithContext(r.Context())
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 && websocket.IsWebSocketUpgrade(r) {
			// The handshake went out on the hijacked conn, so no status was
			// recorded here.
			l.Info().
				Dur("duration", time.Since(start)).
				Msg("request.upgraded")
			return
		}
		if status == 0 {
			status = http.StatusOK
		}
		if _, quiet := quietPaths[routePath(r.URL.Path)]; quiet && status < 400 {
			return
		}

		evt := l.Info()
		if status >= 500 {
			evt = l.Error()
		}
		evt.Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request.handled")
	})
}

// routePath mirrors chi's StripSlashes so "/health/" counts as "/health".
func routePath(path string) string {
	if len(path) > 1 {
		return strings.TrimRight(path, "/")
	}
	return path
}
