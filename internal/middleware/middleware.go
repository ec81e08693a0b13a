// Package middleware provides HTTP request logging and metrics.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"media-player/internal/logging"
	"media-player/internal/metrics"
)

// responseWriter captures the status code and bytes written.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.wroteHeader = true
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingConfig controls which requests are logged.
type LoggingConfig struct {
	// LogStaticFiles enables logging for static asset requests.
	LogStaticFiles bool
	// SkipPaths suppresses logging for matching path prefixes.
	SkipPaths []string
}

// DefaultLoggingConfig skips health probes and static assets.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths: []string{"/health", "/healthz", "/metrics"},
	}
}

var staticExtensions = []string{".css", ".js", ".ico", ".png", ".svg", ".woff", ".woff2"}

func (c LoggingConfig) shouldSkip(path string) bool {
	for _, p := range c.SkipPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	if !c.LogStaticFiles {
		for _, ext := range staticExtensions {
			if strings.HasSuffix(path, ext) {
				return true
			}
		}
	}
	return false
}

// Logger returns middleware that logs one line per request.
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.shouldSkip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			logging.Info("%s %s %d %dB %s",
				r.Method,
				sanitizePath(r.URL.Path),
				wrapped.statusCode,
				wrapped.bytesWritten,
				time.Since(start).Round(time.Microsecond),
			)
		})
	}
}

// sanitizePath strips control characters so request paths cannot
// forge log lines.
func sanitizePath(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Metrics returns middleware that records Prometheus metrics per
// request. Monitoring endpoints are excluded.
func Metrics() func(http.Handler) http.Handler {
	skip := []string{"/metrics", "/health", "/healthz"}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range skip {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			path := normalizePath(r.URL.Path)
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath collapses per-entry paths into route templates so
// metric cardinality stays bounded.
func normalizePath(path string) string {
	for _, prefix := range []string{"/api/stream/", "/api/catalog/", "/api/player/play/"} {
		if strings.HasPrefix(path, prefix) && len(path) > len(prefix) {
			return prefix + "{id}"
		}
	}
	if !strings.HasPrefix(path, "/api/") && path != "/" &&
		path != "/health" && path != "/healthz" && path != "/version" {
		return "/static"
	}
	return path
}
