// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/upsun/upsun-mcp/pkg/logger"
)

// responseWriter wraps http.ResponseWriter to capture the response
// status. Flush is forwarded so SSE streams keep working behind the
// wrapper.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	bytesWritten  int64
	headerWritten bool
}

// WriteHeader captures the status code. Duplicate calls are ignored so
// handlers that double-write headers do not panic the connection.
func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.headerWritten {
		return
	}
	rw.headerWritten = true
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Write counts body bytes. A Write before WriteHeader implicitly fixes
// the status at 200, matching what the underlying writer does.
func (rw *responseWriter) Write(data []byte) (int, error) {
	if !rw.headerWritten {
		rw.headerWritten = true
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(data)
	rw.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher if the underlying ResponseWriter
// supports it.
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// observeRequests records every request in the request counter and
// emits a debug log line. For SSE streams the line fires when the
// stream ends, carrying the full stream duration.
func (g *Gateway) observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		g.metrics.requestsTotal.WithLabelValues(
			strconv.Itoa(rw.statusCode), r.Method,
		).Inc()

		logger.Debugw("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"bytes", rw.bytesWritten,
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
