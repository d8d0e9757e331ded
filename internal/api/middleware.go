package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
)

// Recovery turns a handler panic into a 500 and reports it to Sentry
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			hub := sentry.GetHubFromContext(r.Context())
			if hub == nil {
				hub = sentry.CurrentHub().Clone()
			}
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("endpoint", r.URL.Path)
				scope.SetTag("method", r.Method)
				if id := middleware.GetReqID(r.Context()); id != "" {
					scope.SetTag("request_id", id)
				}
				scope.SetLevel(sentry.LevelFatal)
				hub.RecoverWithContext(r.Context(), rec)
			})
			hub.Flush(2 * time.Second)
			writeError(w, http.StatusInternalServerError, "internal error", fmt.Errorf("%v", rec))
		}()
		next.ServeHTTP(w, r)
	})
}
