package opsapi

import (
	"net/http"

	"github.com/riskibarqy/value-radar/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, opsToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /api/v1/status", handler.Status)
	mux.Handle("POST /api/v1/cycles", RequireOpsToken(opsToken, http.HandlerFunc(handler.TriggerCycle)))

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, mux)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "opsapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
