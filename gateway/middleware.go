package gateway

import (
	"net/http"
	"time"

	"github.com/justinas/alice"

	"github.com/TykTechnologies/kvrouter/internal/httputil"
)

// customResponseWriter is a wrapper around standard http.ResponseWriter
// plus it tracks what status code was sent
type customResponseWriter struct {
	http.ResponseWriter
	statusCodeSent int
}

func (w *customResponseWriter) Write(b []byte) (int, error) {
	if w.statusCodeSent == 0 {
		w.statusCodeSent = http.StatusOK // no WriteHeader was called so it will be set to StatusOK in actual ResponseWriter
	}
	return w.ResponseWriter.Write(b)
}

func (w *customResponseWriter) WriteHeader(statusCode int) {
	w.statusCodeSent = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *customResponseWriter) statusCode() int {
	if w.statusCodeSent == 0 {
		return http.StatusOK
	}
	return w.statusCodeSent
}

// chain builds the middleware stack every API endpoint runs behind.
// endpoint is the route template used as metric label and in access logs.
func (gw *Gateway) chain(endpoint string, extra ...alice.Constructor) alice.Chain {
	return alice.New(gw.observe(endpoint)).Append(extra...)
}

// observe records request metrics and writes the access log.
func (gw *Gateway) observe(endpoint string) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &customResponseWriter{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			latency := time.Since(start)
			status := rw.statusCode()

			if gw.metrics != nil {
				gw.metrics.RecordRequest(endpoint, r.Method, status, latency)
			}

			record := &httputil.AccessLogRecord{}
			if err := record.Fill(latency, r, status, endpoint); err != nil {
				gwLog.WithError(err).Debug("Could not fill access log record")
				return
			}
			record.LogTransaction(log)
		})
	}
}

// limitBody caps the request body at max_request_body_size bytes.
func (gw *Gateway) limitBody(next http.Handler) http.Handler {
	limit := gw.config.MaxRequestBodySize
	if limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
