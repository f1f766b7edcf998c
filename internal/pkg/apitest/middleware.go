package apitest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func loggerMiddleware(logger *zap.Logger, calls *callCounter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			startTime := time.Now()

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic during handling of HTTP request", zap.Reflect("recover_info", rec))
					http.Error(ww, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}

				pattern := r.Method + " " + chi.RouteContext(r.Context()).RoutePattern()
				calls.inc(pattern)

				logger.Debug("handled HTTP request",
					zap.String("pattern", pattern),
					zap.String("path", r.URL.Path),
					zap.String("query", r.URL.RawQuery),
					zap.Int("status", ww.Status()),
					zap.Int64("latency_ns", time.Since(startTime).Nanoseconds()),
					zap.Int("content_out_bytes", ww.BytesWritten()))
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

// authMiddleware rejects any request that does not carry the expected bearer
// token.
func authMiddleware(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				httpWriteResponseError(w, NewResponseError(errors.New("Unauthorized"), http.StatusUnauthorized))
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func workspaceParam(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("workspaceId")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, NewResponseError(errors.New("invalid workspaceId"), http.StatusBadRequest)
	}
	return id, nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, NewResponseError(errors.New("invalid "+name), http.StatusBadRequest)
	}
	return id, nil
}
