package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/sports-hub-service/internal/metrics"
	"github.com/preston-bernstein/sports-hub-service/internal/testutil"
)

func TestLoggingMiddlewareSetsRequestID(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	nextCalled := false

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		if got := RequestIDFromContext(r.Context()); got != "abc-123" {
			t.Fatalf("expected incoming request id in context, got %q", got)
		}
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := testutil.ServeRequest(LoggingMiddleware(logger, rec, next), req)

	if !nextCalled {
		t.Fatalf("expected next handler to be called")
	}
	testutil.AssertStatus(t, rr, http.StatusTeapot)
	if got := rr.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
	if !strings.Contains(buf.String(), "request complete") {
		t.Fatalf("expected completion log, got %s", buf.String())
	}
}

func TestLoggingMiddlewareGeneratesRequestIDWhenMissing(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := RequestIDFromContext(r.Context()); got == "" {
			t.Fatalf("expected generated request id")
		}
		w.WriteHeader(http.StatusOK)
	})

	rr := testutil.Serve(LoggingMiddleware(logger, nil, next), http.MethodGet, "/feed?foo=bar", nil)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := rr.Header().Get("X-Request-ID"); got == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func TestLoggingMiddlewareReplacesInvalidRequestID(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("X-Request-ID", "bad id with spaces")
	rr := testutil.ServeRequest(LoggingMiddleware(logger, nil, next), req)

	if got := rr.Header().Get("X-Request-ID"); got == "" || got == "bad id with spaces" {
		t.Fatalf("expected sanitized id, got %q", got)
	}
}

func TestLoggingMiddlewareUsesForwardedFor(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	rr := testutil.ServeRequest(LoggingMiddleware(logger, nil, next), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.Contains(buf.String(), "198.51.100.1") {
		t.Fatalf("expected forwarded client ip in log, got %s", buf.String())
	}
}

func TestLoggingMiddlewareLabelsRoutePattern(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	r := chi.NewRouter()
	r.Use(Middleware(logger, metrics.NewRecorder()))
	r.Get("/feed/{league}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rr := testutil.Serve(r, http.MethodGet, "/feed/nba", nil)

	testutil.AssertStatus(t, rr, http.StatusNoContent)
	if !strings.Contains(buf.String(), "status_code=204") {
		t.Fatalf("expected status in log, got %s", buf.String())
	}
}

func TestRoutePattern(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/feed/nba", nil)
	if got := routePattern(req); got != unmatchedRoute {
		t.Fatalf("expected unmatched without route context, got %s", got)
	}

	var seen string
	r := chi.NewRouter()
	r.Get("/feed/{league}", func(w http.ResponseWriter, req *http.Request) {
		seen = routePattern(req)
	})
	testutil.Serve(r, http.MethodGet, "/feed/nba", nil)
	if seen != "/feed/{league}" {
		t.Fatalf("expected chi pattern, got %s", seen)
	}
}

func TestResponseWriterKeepsFirstStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr, status: http.StatusOK}
	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusInternalServerError)
	if w.status != http.StatusAccepted {
		t.Fatalf("expected first status kept, got %d", w.status)
	}
}

func TestResponseWriterHijackUnsupported(t *testing.T) {
	w := &responseWriter{ResponseWriter: httptest.NewRecorder()}
	if _, _, err := w.Hijack(); err == nil {
		t.Fatalf("expected hijack error for recorder")
	}
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Fatalf("expected empty id, got %s", got)
	}

	ctx = withRequestID(ctx, "abc123")
	if got := RequestIDFromContext(ctx); got != "abc123" {
		t.Fatalf("expected id from context, got %s", got)
	}
	//nolint:staticcheck // nil context is handled explicitly
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty id for nil context, got %s", got)
	}
}

func BenchmarkLoggingMiddleware(b *testing.B) {
	logger := testutil.DiscardLogger()
	rec := metrics.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Microsecond)
		w.WriteHeader(http.StatusOK)
	})

	handler := LoggingMiddleware(logger, rec, next)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/feed", nil)
		handler.ServeHTTP(rr, req)
	}
}
