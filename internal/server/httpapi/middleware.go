package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ctxKey string

const (
	requestIDKey ctxKey = "requestID"
	claimsKey    ctxKey = "claims"
)

// RequestIDFromContext returns the id assigned by requestIDMiddleware.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// ClaimsFromContext returns the verified token claims, if the request
// carried a valid bearer token.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

// requestIDMiddleware reuses an incoming X-Request-ID or issues a new one and
// echoes it on the response.
func (s *HTTPServer) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *HTTPServer) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info(r.Context(), "handled",
			"method", r.Method,
			"url", r.URL.String(),
			"duration", m.Duration,
			"status", m.Code,
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// metricsMiddleware runs inside the router so the route template is known.
func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.metrics.observe(route, r.Method, m.Code, m.Duration)
	})
}

// corsMiddleware allows the configured client origin only and answers
// preflight requests itself.
func (s *HTTPServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && origin == s.allowedOrigin {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	if s.limiters == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiters.Allow(clientKey(r)) {
			JSONError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// identityMiddleware attaches the claims of a valid bearer token. A missing
// or bad token is not an error here: post routes fall back to the
// anonymous author.
func (s *HTTPServer) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get(common.AuthorizationHeaderName)
		if !strings.HasPrefix(h, common.BearerPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(h, common.BearerPrefix), s.jwtSecret)
		if err != nil {
			s.logger.Warn(r.Context(), "ignoring bearer token", "error", err,
				"request_id", RequestIDFromContext(r.Context()))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
