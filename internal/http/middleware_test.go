package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"askbot/internal/contextutil"
)

func TestLoggerMiddlewareInjectsLogger(t *testing.T) {
	var seen *slog.Logger
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = contextutil.LoggerFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	LoggerMiddleware(inner).ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil {
		t.Fatal("handler did not run")
	}
	if seen == slog.Default() {
		t.Error("context carried no request-scoped logger")
	}
}
