package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"dispensa/internal/log"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// requestTimeout bounds every store call made on behalf of a request.
const requestTimeout = 10 * time.Second

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID produces a random request identifier, falling back
// to a timestamp when the random source fails.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// setAPIHeaders applies the standard security headers. The API serves
// no markup, so the CSP forbids everything.
func setAPIHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'none'")
	w.Header().Set("Cache-Control", "no-store")
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// with wraps a handler with the shared middleware: request ID,
// security headers, structured request logging, suspicious-request
// detection, and rate limiting on mutating methods.
func (s *Server) with(next http.HandlerFunc) http.HandlerFunc {
	structured := log.NewStructuredLogger(s.logger)

	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.metrics.totalRequests, 1)
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		reqLogger := s.logger.With(log.FieldRequestID, requestID)
		ctx = context.WithValue(ctx, requestIDKey, requestID)
		ctx = log.IntoContext(ctx, reqLogger)
		r = r.WithContext(ctx)

		setAPIHeaders(w)
		w.Header().Set("X-Request-ID", requestID)

		if detectSuspiciousRequest(r) {
			atomic.AddInt64(&s.metrics.suspiciousRequests, 1)
			reqLogger.WarnContext(ctx, "Suspicious request detected",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
			)
		}

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			structured.LogHTTPEnd(ctx, r, http.StatusTooManyRequests, time.Since(start).Milliseconds(), clientIP)
			return
		}

		structured.LogHTTPStart(ctx, r, clientIP)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}
