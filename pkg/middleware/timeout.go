package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "bkhost/pkg/errors"
	apphttp "bkhost/pkg/http"
	"bkhost/pkg/logger"
	"bkhost/pkg/metrics"
)

// deadlineWriter guards the real writer: whichever of the handler and the
// deadline writes first owns the response.
type deadlineWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	expired bool
	started bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired || dw.started {
		return
	}
	dw.started = true
	dw.ResponseWriter.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired {
		return 0, http.ErrHandlerTimeout
	}
	dw.started = true
	return dw.ResponseWriter.Write(b)
}

// expire marks the writer dead and reports whether the 504 may still be sent.
func (dw *deadlineWriter) expire() bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.expired = true
	return !dw.started
}

// RequestTimeout bounds each request by timeout and answers 504 when the
// handler has not started its response by then.
func RequestTimeout(timeout time.Duration, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			dw := &deadlineWriter{ResponseWriter: w}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				path := metrics.NormalizePath(r.URL.Path)
				metrics.HTTPRequestTimeouts.WithLabelValues(r.Method, path).Inc()
				log.Warn("Request exceeded deadline",
					"request_id", RequestIDFrom(r.Context()),
					"method", r.Method,
					"path", path,
					"timeout", timeout,
				)
				if dw.expire() {
					_ = apphttp.WriteError(w, apperrors.Timeout("Request timed out"))
				}
			}
		})
	}
}
